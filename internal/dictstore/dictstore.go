// Package dictstore keeps the personal dictionary of the reference
// suggestion service: words the user asked to stop flagging.
package dictstore

import (
	"context"
	"errors"
	"strings"
)

// ErrEmptyWord is returned when a blank word is added or removed.
var ErrEmptyWord = errors.New("word is empty")

// Store is a set of words. Words are compared lowercase.
type Store interface {
	Add(ctx context.Context, word string) error
	Remove(ctx context.Context, word string) error
	Contains(ctx context.Context, word string) (bool, error)
	All(ctx context.Context) ([]string, error)
	Close() error
}

func normalize(word string) (string, error) {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" {
		return "", ErrEmptyWord
	}
	return word, nil
}
