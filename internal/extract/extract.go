// Package extract reads the document text sent for spell checking.
package extract

import (
	"context"
	"regexp"
	"strings"

	"github.com/jackzampolin/spellpane/internal/document"
)

var (
	punctuation = regexp.MustCompile(`\p{P}+`)
	digits      = regexp.MustCompile(`\p{Nd}+`)
)

// Text reads the document body inside one batch and returns it cleaned.
// The batch makes no edits.
func Text(ctx context.Context, host document.Host) (string, error) {
	var raw string
	err := host.Batch(ctx, func(ed document.Editor) error {
		t, err := ed.Text()
		raw = t
		return err
	})
	if err != nil {
		return "", err
	}
	return Clean(raw), nil
}

// Clean replaces every run of punctuation with one space, drops every run of
// decimal digits and trims surrounding whitespace.
func Clean(text string) string {
	text = punctuation.ReplaceAllString(text, " ")
	text = digits.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}
