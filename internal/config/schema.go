package config

import "time"

// Config holds spellpane configuration.
// Stored at: ~/.spellpane/config.yaml or ./config.yaml
type Config struct {
	Service  ServiceConfig `mapstructure:"service" yaml:"service"`
	Pane     PaneConfig    `mapstructure:"pane" yaml:"pane"`
	Server   ServerConfig  `mapstructure:"server" yaml:"server"`
	Backend  BackendConfig `mapstructure:"backend" yaml:"backend"`
	LogLevel string        `mapstructure:"log_level" yaml:"log_level"`
}

// ServiceConfig points the pane at the suggestion service.
type ServiceConfig struct {
	URL     string        `mapstructure:"url" yaml:"url"`
	TopN    int           `mapstructure:"top_n" yaml:"top_n"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// PaneConfig configures the task pane.
type PaneConfig struct {
	NoticeTTL time.Duration `mapstructure:"notice_ttl" yaml:"notice_ttl"`
}

// ServerConfig is the task pane HTTP listener.
type ServerConfig struct {
	Host string `mapstructure:"host" yaml:"host"`
	Port string `mapstructure:"port" yaml:"port"`
}

// BackendConfig configures the bundled suggestion service.
type BackendConfig struct {
	Host        string `mapstructure:"host" yaml:"host"`
	Port        string `mapstructure:"port" yaml:"port"`
	LexiconPath string `mapstructure:"lexicon_path" yaml:"lexicon_path"` // empty uses the built-in word list
	MaxDistance int    `mapstructure:"max_distance" yaml:"max_distance"`
	// Personal dictionary. Empty RedisAddr keeps it in memory.
	RedisAddr     string `mapstructure:"redis_addr" yaml:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password" yaml:"redis_password"` // supports ${ENV_VAR} syntax
	RedisDB       int    `mapstructure:"redis_db" yaml:"redis_db"`
	RedisKey      string `mapstructure:"redis_key" yaml:"redis_key"`
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Service: ServiceConfig{
			URL:     "http://127.0.0.1:120",
			TopN:    5,
			Timeout: 30 * time.Second,
		},
		Pane: PaneConfig{
			NoticeTTL: 5 * time.Second,
		},
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: "8080",
		},
		Backend: BackendConfig{
			Host:          "127.0.0.1",
			Port:          "120",
			MaxDistance:   2,
			RedisPassword: "${SPELLPANE_REDIS_PASSWORD}",
			RedisKey:      "spellpane:dictionary",
		},
		LogLevel: "info",
	}
}

// ServerURL returns the task pane server URL.
func (c *Config) ServerURL() string {
	return "http://" + c.Server.Host + ":" + c.Server.Port
}

// BackendAddr returns the listen address of the bundled suggestion service.
func (c *Config) BackendAddr() string {
	return c.Backend.Host + ":" + c.Backend.Port
}
