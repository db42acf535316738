// Package backend is the reference suggestion service: it answers the
// pane's /suggest and /add_word calls from a word-frequency lexicon and a
// personal dictionary.
package backend

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jackzampolin/spellpane/internal/dictstore"
	"github.com/jackzampolin/spellpane/internal/lexicon"
	"github.com/jackzampolin/spellpane/internal/suggest"
)

// ServiceConfig configures a Service.
type ServiceConfig struct {
	Lexicon     *lexicon.Lexicon
	Dictionary  dictstore.Store
	MaxDistance int
	Logger      *slog.Logger
}

// Service ranks candidates for the words of a text.
type Service struct {
	lex     *lexicon.Lexicon
	dict    dictstore.Store
	maxDist int
	logger  *slog.Logger
}

// NewService creates a service. A nil lexicon uses lexicon.Default and a nil
// dictionary keeps added words in memory.
func NewService(cfg ServiceConfig) *Service {
	if cfg.Lexicon == nil {
		cfg.Lexicon = lexicon.Default()
	}
	if cfg.Dictionary == nil {
		cfg.Dictionary = dictstore.NewMemory()
	}
	if cfg.MaxDistance <= 0 {
		cfg.MaxDistance = lexicon.DefaultMaxDistance
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Service{
		lex:     cfg.Lexicon,
		dict:    cfg.Dictionary,
		maxDist: cfg.MaxDistance,
		logger:  cfg.Logger,
	}
}

// Suggest returns up to topN candidates for every distinct whitespace
// separated token of text. A known word lists itself first.
func (s *Service) Suggest(ctx context.Context, text string, topN int) (map[string][]string, error) {
	if topN <= 0 {
		topN = suggest.DefaultTopN
	}

	out := make(map[string][]string)
	for _, word := range strings.Fields(text) {
		if _, done := out[word]; done {
			continue
		}
		known, err := s.Known(ctx, word)
		if err != nil {
			return nil, err
		}

		limit := topN
		candidates := make([]string, 0, topN)
		if known {
			candidates = append(candidates, word)
			limit--
		}
		for _, c := range s.lex.Candidates(word, limit, s.maxDist) {
			candidates = append(candidates, matchCase(word, c.Word))
		}
		out[word] = candidates
	}

	s.logger.Debug("suggestions computed", "words", len(out))
	return out, nil
}

// Known reports whether word is in the lexicon or the personal dictionary.
func (s *Service) Known(ctx context.Context, word string) (bool, error) {
	if s.lex.Contains(word) {
		return true, nil
	}
	ok, err := s.dict.Contains(ctx, word)
	if err != nil {
		return false, fmt.Errorf("dictionary lookup: %w", err)
	}
	return ok, nil
}

// AddWord adds word to the personal dictionary.
func (s *Service) AddWord(ctx context.Context, word string) error {
	if err := s.dict.Add(ctx, word); err != nil {
		return fmt.Errorf("add %q: %w", word, err)
	}
	s.logger.Info("word added to dictionary", "word", word)
	return nil
}

// RemoveWord removes word from the personal dictionary.
func (s *Service) RemoveWord(ctx context.Context, word string) error {
	if err := s.dict.Remove(ctx, word); err != nil {
		return fmt.Errorf("remove %q: %w", word, err)
	}
	s.logger.Info("word removed from dictionary", "word", word)
	return nil
}

// Words lists the personal dictionary.
func (s *Service) Words(ctx context.Context) ([]string, error) {
	return s.dict.All(ctx)
}

// LexiconSize returns the number of lexicon words.
func (s *Service) LexiconSize() int {
	return s.lex.Len()
}

// Close releases the dictionary store.
func (s *Service) Close() error {
	return s.dict.Close()
}

// matchCase gives candidate the capitalization of word: all upper, leading
// upper, or as-is.
func matchCase(word, candidate string) string {
	if word == "" || candidate == "" {
		return candidate
	}
	if utf8.RuneCountInString(word) > 1 && strings.ToUpper(word) == word && strings.ToLower(word) != word {
		return strings.ToUpper(candidate)
	}
	first, _ := utf8.DecodeRuneInString(word)
	if unicode.IsUpper(first) {
		r, size := utf8.DecodeRuneInString(candidate)
		return string(unicode.ToUpper(r)) + candidate[size:]
	}
	return candidate
}
