package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"
)

// EnvPrefix prefixes every environment override, e.g. SPELLPANE_SERVICE_URL.
const EnvPrefix = "SPELLPANE"

// Manager handles loading and hot-reloading configuration.
type Manager struct {
	v         *viper.Viper
	mu        sync.RWMutex
	config    *Config
	callbacks []func(*Config)
}

// NewManager creates a new config manager and loads initial config.
// cfgFile may be empty, in which case ./config.yaml and then
// $HOME/.spellpane/config.yaml are tried. A missing file is not an error.
func NewManager(cfgFile string) (*Manager, error) {
	cm := &Manager{
		v:         viper.New(),
		callbacks: make([]func(*Config), 0),
	}

	if err := cm.initViper(cfgFile); err != nil {
		return nil, err
	}

	cfg, err := cm.load()
	if err != nil {
		return nil, err
	}
	cm.config = cfg

	return cm, nil
}

// initViper sets up viper with defaults and config file.
func (cm *Manager) initViper(cfgFile string) error {
	for _, entry := range DefaultEntries() {
		cm.v.SetDefault(entry.Key, entry.Value)
	}

	cm.v.SetEnvPrefix(EnvPrefix)
	cm.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	cm.v.AutomaticEnv()

	if cfgFile != "" {
		cm.v.SetConfigFile(cfgFile)
	} else {
		cm.v.SetConfigName("config")
		cm.v.SetConfigType("yaml")
		cm.v.AddConfigPath(".")
		cm.v.AddConfigPath("$HOME/.spellpane")
	}

	if err := cm.v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}

// load parses the current viper state into a Config struct.
func (cm *Manager) load() (*Config, error) {
	var cfg Config
	if err := cm.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Backend.RedisPassword = ResolveEnvVars(cfg.Backend.RedisPassword)
	return &cfg, nil
}

// Get returns the current configuration (thread-safe).
func (cm *Manager) Get() *Config {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.config
}

// Value returns the raw value of key as viper sees it.
func (cm *Manager) Value(key string) any {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.v.Get(key)
}

// ConfigFileUsed returns the file the configuration was read from, or "".
func (cm *Manager) ConfigFileUsed() string {
	return cm.v.ConfigFileUsed()
}

// Set validates key, updates it, notifies OnChange callbacks and writes the
// configuration to path.
func (cm *Manager) Set(key string, value any, path string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}

	cm.mu.Lock()
	cm.v.Set(key, value)
	cfg, err := cm.load()
	if err != nil {
		cm.mu.Unlock()
		return err
	}
	cm.config = cfg
	callbacks := cm.snapshotCallbacks()
	cm.mu.Unlock()

	for _, fn := range callbacks {
		fn(cfg)
	}

	if err := cm.v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// OnChange registers a callback for config changes.
func (cm *Manager) OnChange(fn func(*Config)) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.callbacks = append(cm.callbacks, fn)
}

// WatchConfig enables hot-reloading of configuration.
func (cm *Manager) WatchConfig() {
	cm.v.OnConfigChange(func(e fsnotify.Event) {
		cm.reload()
	})
	cm.v.WatchConfig()
}

func (cm *Manager) reload() {
	cm.mu.Lock()
	cfg, err := cm.load()
	if err != nil {
		cm.mu.Unlock()
		return
	}
	cm.config = cfg
	callbacks := cm.snapshotCallbacks()
	cm.mu.Unlock()

	for _, fn := range callbacks {
		fn(cfg)
	}
}

// snapshotCallbacks copies the callback list. Callers hold mu.
func (cm *Manager) snapshotCallbacks() []func(*Config) {
	callbacks := make([]func(*Config), len(cm.callbacks))
	copy(callbacks, cm.callbacks)
	return callbacks
}

var envRef = regexp.MustCompile(`\$\{([^}]+)\}`)

// ResolveEnvVars expands ${ENV_VAR} references in a string.
func ResolveEnvVars(value string) string {
	if value == "" {
		return value
	}
	return envRef.ReplaceAllStringFunc(value, func(match string) string {
		varName := match[2 : len(match)-1]
		return os.Getenv(varName)
	})
}

// WriteDefault writes the default configuration to the specified path.
func WriteDefault(path string) error {
	data, err := yaml.Marshal(defaultDocument())
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# spellpane configuration
# Every key can be overridden from the environment: service.url -> SPELLPANE_SERVICE_URL
# backend.redis_password uses ${ENV_VAR} syntax to reference environment variables

`)
	return os.WriteFile(path, append(header, data...), 0o644)
}

// defaultDocument lays the default entries out as ordered YAML sections.
// Durations are written in their string form ("30s").
func defaultDocument() yaml.MapSlice {
	var doc yaml.MapSlice
	sections := make(map[string]int)
	for _, e := range DefaultEntries() {
		value := e.Value
		if d, ok := value.(time.Duration); ok {
			value = d.String()
		}
		section, leaf, nested := strings.Cut(e.Key, ".")
		if !nested {
			doc = append(doc, yaml.MapItem{Key: e.Key, Value: value})
			continue
		}
		i, ok := sections[section]
		if !ok {
			i = len(doc)
			sections[section] = i
			doc = append(doc, yaml.MapItem{Key: section, Value: yaml.MapSlice{}})
		}
		doc[i].Value = append(doc[i].Value.(yaml.MapSlice), yaml.MapItem{Key: leaf, Value: value})
	}
	return doc
}
