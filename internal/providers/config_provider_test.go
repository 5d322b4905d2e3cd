package providers

import (
	"clanwatch/internal/structures"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigYaml = `
webServer:
  host: 127.0.0.1
  port: 8090
logger:
  level: debug
  mode: 0644
  dir: /tmp
cache:
  enabled: true
  backend: memory
  size: 4
  ttl: 120
upstream:
  baseUrl: http://localhost:9999/v1
  token: secret
  timeout: 3s
  clanTag: "#2pp"
storage:
  path: /tmp/clanwatch.db
reminder:
  enabled: true
  intervalMinutes: 15
  windowHours: 2
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestNewConfigProvider_LoadsFileAndDefaults(t *testing.T) {
	path := writeConfig(t, testConfigYaml)

	conf, err := NewConfigProvider(&structures.CliFlags{ConfigPath: path, DebugMode: true})
	require.NoError(t, err)

	assert.Equal(t, "ClanWatch", conf.AppName)
	assert.True(t, conf.Debug)
	assert.Equal(t, path, conf.Path)
	assert.Equal(t, 8090, conf.WebServer.Port)
	assert.Equal(t, 120, conf.Cache.TTL)
	assert.Equal(t, 3*time.Second, conf.Upstream.Timeout)
	assert.Equal(t, "#2pp", conf.Upstream.ClanTag)
	assert.Equal(t, 15, conf.Reminder.IntervalMinutes)
	assert.Equal(t, 2, conf.Reminder.WindowHours)
	// defaults
	assert.Equal(t, 60, conf.Reminder.InitialDelaySeconds)
	assert.Equal(t, "/clans/%s/clangames", conf.Upstream.ClanGamesPath)
}

func TestNewConfigProvider_EnvOverride(t *testing.T) {
	path := writeConfig(t, testConfigYaml)
	t.Setenv("CLANWATCH_UPSTREAM_TOKEN", "from-env")

	conf, err := NewConfigProvider(&structures.CliFlags{ConfigPath: path})
	require.NoError(t, err)
	assert.Equal(t, "from-env", conf.Upstream.Token)
}

func TestNewConfigProvider_MissingFile(t *testing.T) {
	_, err := NewConfigProvider(&structures.CliFlags{ConfigPath: "/nonexistent/config.yaml"})
	assert.Error(t, err)
}

func TestNewConfigProvider_InvalidConfig(t *testing.T) {
	path := writeConfig(t, "webServer:\n  host: \"\"\n  port: 0\n")
	_, err := NewConfigProvider(&structures.CliFlags{ConfigPath: path})
	assert.Error(t, err)
}
