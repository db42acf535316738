package backend

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackzampolin/spellpane/internal/config"
	"github.com/jackzampolin/spellpane/internal/dictstore"
	"github.com/jackzampolin/spellpane/internal/home"
	"github.com/jackzampolin/spellpane/internal/lexicon"
)

// Open builds a Service from configuration.
//
// The lexicon is backend.lexicon_path, else the home directory's lexicon
// file if one is installed, else the built-in list. The dictionary is the
// Redis set at backend.redis_addr, else the home directory's dictionary
// file.
func Open(ctx context.Context, cfg config.BackendConfig, dir *home.Dir, logger *slog.Logger) (*Service, error) {
	if logger == nil {
		logger = slog.Default()
	}

	lexPath := cfg.LexiconPath
	if lexPath == "" && dir != nil && dir.LexiconExists() {
		lexPath = dir.LexiconPath()
	}
	lex := lexicon.Default()
	if lexPath != "" {
		l, err := lexicon.Load(lexPath)
		if err != nil {
			return nil, fmt.Errorf("load lexicon: %w", err)
		}
		lex = l
	}
	logger.Info("lexicon loaded", "path", lexPath, "words", lex.Len())

	var store dictstore.Store
	switch {
	case cfg.RedisAddr != "":
		r, err := dictstore.NewRedis(ctx, dictstore.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Key:      cfg.RedisKey,
		})
		if err != nil {
			return nil, err
		}
		store = r
		logger.Info("personal dictionary in redis", "addr", cfg.RedisAddr, "key", cfg.RedisKey)
	case dir != nil:
		m, err := dictstore.OpenFile(dir.DictionaryPath())
		if err != nil {
			return nil, err
		}
		store = m
		logger.Info("personal dictionary on disk", "path", dir.DictionaryPath())
	default:
		store = dictstore.NewMemory()
	}

	return NewService(ServiceConfig{
		Lexicon:     lex,
		Dictionary:  store,
		MaxDistance: cfg.MaxDistance,
		Logger:      logger,
	}), nil
}
