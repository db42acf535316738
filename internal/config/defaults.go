package config

import (
	"errors"
	"fmt"
	"unicode"
)

// ErrNoDefault is returned when no default value exists for a config key.
var ErrNoDefault = errors.New("no default exists")

// ErrInvalidKey is returned when a config key contains invalid characters.
var ErrInvalidKey = errors.New("invalid config key")

// Entry is one configuration key with its default and a description.
type Entry struct {
	Key         string `json:"key" yaml:"key"`
	Value       any    `json:"value" yaml:"value"`
	Description string `json:"description" yaml:"description"`
}

// DefaultEntries returns every configuration key with its default value.
// The Manager registers each one with viper so environment overrides
// (SPELLPANE_SERVICE_URL and friends) reach nested keys.
func DefaultEntries() []Entry {
	d := DefaultConfig()
	return []Entry{
		// ===================
		// Suggestion service
		// ===================
		{
			Key:         "service.url",
			Value:       d.Service.URL,
			Description: "Base URL of the spelling-suggestion service",
		},
		{
			Key:         "service.top_n",
			Value:       d.Service.TopN,
			Description: "Number of candidates requested per word",
		},
		{
			Key:         "service.timeout",
			Value:       d.Service.Timeout,
			Description: "Timeout for one suggestion or dictionary request",
		},

		// ===================
		// Task pane
		// ===================
		{
			Key:         "pane.notice_ttl",
			Value:       d.Pane.NoticeTTL,
			Description: "How long a notification stays in the banner",
		},
		{
			Key:         "server.host",
			Value:       d.Server.Host,
			Description: "Task pane server listen host",
		},
		{
			Key:         "server.port",
			Value:       d.Server.Port,
			Description: "Task pane server listen port",
		},

		// ===================
		// Bundled backend
		// ===================
		{
			Key:         "backend.host",
			Value:       d.Backend.Host,
			Description: "Suggestion service listen host",
		},
		{
			Key:         "backend.port",
			Value:       d.Backend.Port,
			Description: "Suggestion service listen port",
		},
		{
			Key:         "backend.lexicon_path",
			Value:       d.Backend.LexiconPath,
			Description: "Word frequency file (word count per line); empty uses the built-in list",
		},
		{
			Key:         "backend.max_distance",
			Value:       d.Backend.MaxDistance,
			Description: "Largest edit distance for a candidate",
		},
		{
			Key:         "backend.redis_addr",
			Value:       d.Backend.RedisAddr,
			Description: "Redis address for the personal dictionary; empty keeps it in memory",
		},
		{
			Key:         "backend.redis_password",
			Value:       d.Backend.RedisPassword,
			Description: "Redis password (supports ${ENV_VAR} syntax)",
		},
		{
			Key:         "backend.redis_db",
			Value:       d.Backend.RedisDB,
			Description: "Redis database number",
		},
		{
			Key:         "backend.redis_key",
			Value:       d.Backend.RedisKey,
			Description: "Redis set holding the personal dictionary",
		},

		{
			Key:         "log_level",
			Value:       d.LogLevel,
			Description: "Log level: debug, info, warn or error",
		},
	}
}

// GetDefault returns the default entry for a config key.
// Returns nil if no default exists for the key.
func GetDefault(key string) *Entry {
	for _, entry := range DefaultEntries() {
		if entry.Key == key {
			return &entry
		}
	}
	return nil
}

// ValidateKey checks that key is well formed and known.
// Valid keys contain letters, digits, dots and underscores.
func ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: key cannot be empty", ErrInvalidKey)
	}
	for i, r := range key {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '.' && r != '_' {
			return fmt.Errorf("%w: invalid character %q at position %d", ErrInvalidKey, r, i)
		}
	}
	if key[0] == '.' || key[len(key)-1] == '.' {
		return fmt.Errorf("%w: key cannot start or end with a dot", ErrInvalidKey)
	}
	if GetDefault(key) == nil {
		return fmt.Errorf("%w: unknown key %q", ErrNoDefault, key)
	}
	return nil
}
