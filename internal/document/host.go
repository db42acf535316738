// Package document models the editable document the task pane works on.
//
// All reads and edits happen inside a batch. A batch works on its own copy of
// the document and its edits become visible only when the batch function
// returns nil, so a failure part way through never leaves half-applied state.
// Batches on one document are serialized.
package document

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrRange is returned when a range does not fit the document.
	ErrRange = errors.New("range out of bounds")

	// ErrBatchClosed is returned when an Editor is used after its batch ended.
	ErrBatchClosed = errors.New("batch already closed")

	// ErrReadOnly is returned when saving a document that has no writable source.
	ErrReadOnly = errors.New("document is read-only")
)

// Underline is the marker style carried by each character of a document.
type Underline int

const (
	UnderlineNone Underline = iota
	UnderlineWave
)

func (u Underline) String() string {
	switch u {
	case UnderlineNone:
		return "none"
	case UnderlineWave:
		return "wave"
	default:
		return fmt.Sprintf("underline(%d)", int(u))
	}
}

func (u Underline) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

func (u *Underline) UnmarshalText(b []byte) error {
	switch string(b) {
	case "none":
		*u = UnderlineNone
	case "wave":
		*u = UnderlineWave
	default:
		return fmt.Errorf("unknown underline %q", b)
	}
	return nil
}

// Range is a span of the document in rune offsets. End is exclusive.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of runes covered by the range.
func (r Range) Len() int { return r.End - r.Start }

// SearchOptions controls how Search matches a term.
type SearchOptions struct {
	// MatchCase compares runes exactly. When false, runes are compared
	// under Unicode simple case folding.
	MatchCase bool
	// MatchWholeWord only accepts matches whose neighbours are not word
	// characters (letters, digits, marks or underscore).
	MatchWholeWord bool
}

// Editor reads and edits a document inside a batch.
type Editor interface {
	// Text returns the full document text as seen by this batch.
	Text() (string, error)

	// Search returns the non-overlapping occurrences of term, in document order.
	Search(term string, opts SearchOptions) ([]Range, error)

	// SetUnderline sets the marker on every rune of r.
	SetUnderline(r Range, u Underline) error

	// Replace swaps the text of r for text. The new runes carry no marker.
	// Offsets after r shift by the length difference, so callers replacing
	// several ranges should work from the last range to the first.
	Replace(r Range, text string) error
}

// Host is a document that can be read and edited in batches.
type Host interface {
	// Batch runs fn against a private copy of the document and commits the
	// copy only if fn returns nil.
	Batch(ctx context.Context, fn func(Editor) error) error
}
