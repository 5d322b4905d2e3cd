package structures

import "time"

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type CacheConfig struct {
	Enabled  bool        `yaml:"enabled"`
	Backend  string      `yaml:"backend" validate:"in:memory,redis"`
	Size     int         `yaml:"size"`
	TTL      int         `yaml:"ttl" validate:"uint"`
	Compress bool        `yaml:"compress"`
	Redis    RedisConfig `yaml:"redis"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type UpstreamConfig struct {
	BaseURL       string        `yaml:"baseUrl" validate:"required|fullUrl"`
	Token         string        `yaml:"token"`
	Timeout       time.Duration `yaml:"timeout" validate:"required|min:1"`
	ClanTag       string        `yaml:"clanTag"`
	ClanGamesPath string        `yaml:"clanGamesPath"`
}

type StorageConfig struct {
	Path string `yaml:"path" validate:"required"`
}

type ReminderConfig struct {
	Enabled             bool `yaml:"enabled"`
	IntervalMinutes     int  `yaml:"intervalMinutes" validate:"uint"`
	InitialDelaySeconds int  `yaml:"initialDelaySeconds" validate:"uint"`
	WindowHours         int  `yaml:"windowHours" validate:"uint"`
}

type TelegramConfig struct {
	Token       string `yaml:"token"`
	APIEndpoint string `yaml:"apiEndpoint"`
}

type Config struct {
	AppName   string
	Debug     bool
	Path      string
	WebServer Server         `yaml:"webServer"`
	Logger    LoggerConfig   `yaml:"logger"`
	Cache     CacheConfig    `yaml:"cache"`
	Metrics   MetricsConfig  `yaml:"metrics"`
	Upstream  UpstreamConfig `yaml:"upstream"`
	Storage   StorageConfig  `yaml:"storage"`
	Reminder  ReminderConfig `yaml:"reminder"`
	Telegram  TelegramConfig `yaml:"telegram"`
}

type CliFlags struct {
	ConfigPath string
	DebugMode  bool
}
