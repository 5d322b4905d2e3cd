package providers

import (
	"clanwatch/internal/structures"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

func setConfigDefaults(v *viper.Viper) {
	v.SetDefault("cache.backend", "memory")
	v.SetDefault("cache.size", 16)
	v.SetDefault("cache.ttl", 300)
	v.SetDefault("upstream.baseUrl", "https://api.clashofclans.com/v1")
	v.SetDefault("upstream.timeout", "10s")
	v.SetDefault("upstream.clanGamesPath", "/clans/%s/clangames")
	v.SetDefault("reminder.intervalMinutes", 30)
	v.SetDefault("reminder.initialDelaySeconds", 60)
	v.SetDefault("reminder.windowHours", 4)
	v.SetDefault("telegram.apiEndpoint", "https://api.telegram.org/bot%s/%s")
}

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	v := viper.New()
	filename := filepath.Base(flags.ConfigPath)
	v.AddConfigPath(filepath.Dir(flags.ConfigPath))
	v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	v.SetConfigType("yaml")
	setConfigDefaults(v)

	v.BindEnv("logger.level", "CLANWATCH_LOG_LEVEL")
	v.BindEnv("upstream.token", "CLANWATCH_UPSTREAM_TOKEN")
	v.BindEnv("upstream.clanTag", "CLANWATCH_CLAN_TAG")
	v.BindEnv("cache.backend", "CLANWATCH_CACHE_BACKEND")
	v.BindEnv("cache.redis.addr", "CLANWATCH_REDIS_ADDR")
	v.BindEnv("cache.redis.password", "CLANWATCH_REDIS_PASSWORD")
	v.BindEnv("storage.path", "CLANWATCH_STORAGE_PATH")
	v.BindEnv("telegram.token", "CLANWATCH_TELEGRAM_TOKEN")

	err := v.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = v.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "ClanWatch"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
