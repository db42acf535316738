// Package annotate applies spelling markers to a document and performs
// in-document replacements.
//
// Every operation matches whole words only. Highlighting and clearing are
// case-sensitive because the words come from the document itself; Replace
// ignores case.
package annotate

import (
	"context"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/jackzampolin/spellpane/internal/classify"
	"github.com/jackzampolin/spellpane/internal/document"
)

var (
	markSearch    = document.SearchOptions{MatchCase: true, MatchWholeWord: true}
	replaceSearch = document.SearchOptions{MatchCase: false, MatchWholeWord: true}
)

// Annotator edits the markers and text of one document host.
type Annotator struct {
	host document.Host
}

// New returns an Annotator for host.
func New(host document.Host) *Annotator {
	return &Annotator{host: host}
}

// Apply marks every occurrence of each misspelled word with the wave
// underline, then clears the marker on every occurrence of each valid word.
// Both steps run in one batch.
func (a *Annotator) Apply(ctx context.Context, res classify.Result) error {
	return a.host.Batch(ctx, func(ed document.Editor) error {
		if err := mark(ed, res.Misspelled, document.UnderlineWave); err != nil {
			return err
		}
		return mark(ed, res.Valid, document.UnderlineNone)
	})
}

// Clear removes the marker from every occurrence of words.
func (a *Annotator) Clear(ctx context.Context, words ...string) error {
	if len(words) == 0 {
		return nil
	}
	return a.host.Batch(ctx, func(ed document.Editor) error {
		return mark(ed, words, document.UnderlineNone)
	})
}

// Replace substitutes newWord for every occurrence of oldWord and returns the
// number of occurrences replaced. Both words are trimmed and NFC-normalized.
// Each replacement takes the case shape of the occurrence it replaces
// (capitalized or all upper). Zero occurrences is not an error.
func (a *Annotator) Replace(ctx context.Context, oldWord, newWord string) (int, error) {
	oldWord = norm.NFC.String(strings.TrimSpace(oldWord))
	newWord = norm.NFC.String(strings.TrimSpace(newWord))
	if oldWord == "" {
		return 0, nil
	}

	var n int
	err := a.host.Batch(ctx, func(ed document.Editor) error {
		text, err := ed.Text()
		if err != nil {
			return err
		}
		ranges, err := ed.Search(oldWord, replaceSearch)
		if err != nil {
			return fmt.Errorf("search %q: %w", oldWord, err)
		}
		runes := []rune(text)
		// Last to first so earlier offsets stay valid.
		for i := len(ranges) - 1; i >= 0; i-- {
			if err := ed.SetUnderline(ranges[i], document.UnderlineNone); err != nil {
				return err
			}
			occurrence := string(runes[ranges[i].Start:ranges[i].End])
			if err := ed.Replace(ranges[i], matchCase(occurrence, newWord)); err != nil {
				return fmt.Errorf("replace %q: %w", oldWord, err)
			}
		}
		n = len(ranges)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

func mark(ed document.Editor, words []string, u document.Underline) error {
	for _, w := range words {
		ranges, err := ed.Search(w, markSearch)
		if err != nil {
			return fmt.Errorf("search %q: %w", w, err)
		}
		for _, r := range ranges {
			if err := ed.SetUnderline(r, u); err != nil {
				return err
			}
		}
	}
	return nil
}

// matchCase shapes word like occurrence: all upper, or a capital first
// letter. Any other occurrence leaves word as given.
func matchCase(occurrence, word string) string {
	first, size := utf8.DecodeRuneInString(occurrence)
	if !unicode.IsUpper(first) {
		return word
	}
	rest := occurrence[size:]
	if rest != "" && strings.ToUpper(rest) == rest && strings.ToLower(rest) != rest {
		return strings.ToUpper(word)
	}
	r, n := utf8.DecodeRuneInString(word)
	return string(unicode.ToUpper(r)) + word[n:]
}
