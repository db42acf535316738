package document

import (
	"context"
	"slices"
	"sync"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Document is an in-memory Host. Text is stored as NFC-normalized runes with
// one underline marker per rune.
type Document struct {
	mu     sync.Mutex
	text   []rune
	marks  []Underline
	source source
}

// New creates a document holding text. The text is NFC-normalized.
func New(text string) *Document {
	d := &Document{}
	d.set(text)
	return d
}

func (d *Document) set(text string) {
	d.text = []rune(normalize(text))
	d.marks = make([]Underline, len(d.text))
}

func normalize(text string) string {
	return norm.NFC.String(text)
}

// Batch implements Host.
func (d *Document) Batch(ctx context.Context, fn func(Editor) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	ed := &editor{
		text:  slices.Clone(d.text),
		marks: slices.Clone(d.marks),
	}
	err := fn(ed)
	ed.closed = true
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	d.text, d.marks = ed.text, ed.marks
	return nil
}

// Text returns the committed document text.
func (d *Document) Text() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return string(d.text)
}

// Span is a run of text sharing one underline marker.
type Span struct {
	Text      string    `json:"text"`
	Underline Underline `json:"underline"`
}

// Spans returns the committed text split into runs of equal marker.
func (d *Document) Spans() []Span {
	d.mu.Lock()
	defer d.mu.Unlock()

	var spans []Span
	start := 0
	for i := 1; i <= len(d.text); i++ {
		if i < len(d.text) && d.marks[i] == d.marks[start] {
			continue
		}
		spans = append(spans, Span{Text: string(d.text[start:i]), Underline: d.marks[start]})
		start = i
	}
	return spans
}

// Marked returns the ranges currently carrying a non-none underline.
func (d *Document) Marked() []Range {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.marked()
}

func (d *Document) marked() []Range {
	var out []Range
	for i := 0; i < len(d.marks); {
		if d.marks[i] == UnderlineNone {
			i++
			continue
		}
		j := i
		for j < len(d.marks) && d.marks[j] != UnderlineNone {
			j++
		}
		out = append(out, Range{Start: i, End: j})
		i = j
	}
	return out
}

// MarkedWords returns the text of every marked range, in document order.
func (d *Document) MarkedWords() []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	ranges := d.marked()
	words := make([]string, 0, len(ranges))
	for _, r := range ranges {
		words = append(words, string(d.text[r.Start:r.End]))
	}
	return words
}

type editor struct {
	text   []rune
	marks  []Underline
	closed bool
}

func (e *editor) Text() (string, error) {
	if e.closed {
		return "", ErrBatchClosed
	}
	return string(e.text), nil
}

func (e *editor) Search(term string, opts SearchOptions) ([]Range, error) {
	if e.closed {
		return nil, ErrBatchClosed
	}
	needle := []rune(normalize(term))
	if len(needle) == 0 {
		return nil, nil
	}

	var out []Range
	for i := 0; i+len(needle) <= len(e.text); i++ {
		if !matchAt(e.text, i, needle, opts.MatchCase) {
			continue
		}
		end := i + len(needle)
		if opts.MatchWholeWord && (!boundary(e.text, i-1) || !boundary(e.text, end)) {
			continue
		}
		out = append(out, Range{Start: i, End: end})
		i = end - 1
	}
	return out, nil
}

func (e *editor) SetUnderline(r Range, u Underline) error {
	if e.closed {
		return ErrBatchClosed
	}
	if !e.valid(r) {
		return ErrRange
	}
	for i := r.Start; i < r.End; i++ {
		e.marks[i] = u
	}
	return nil
}

func (e *editor) Replace(r Range, text string) error {
	if e.closed {
		return ErrBatchClosed
	}
	if !e.valid(r) {
		return ErrRange
	}
	repl := []rune(text)
	e.text = slices.Replace(e.text, r.Start, r.End, repl...)
	e.marks = slices.Replace(e.marks, r.Start, r.End, make([]Underline, len(repl))...)
	return nil
}

func (e *editor) valid(r Range) bool {
	return r.Start >= 0 && r.Start <= r.End && r.End <= len(e.text)
}

func matchAt(text []rune, at int, needle []rune, matchCase bool) bool {
	for j, n := range needle {
		if !runeEqual(text[at+j], n, matchCase) {
			return false
		}
	}
	return true
}

func runeEqual(a, b rune, matchCase bool) bool {
	if a == b {
		return true
	}
	if matchCase {
		return false
	}
	for f := unicode.SimpleFold(a); f != a; f = unicode.SimpleFold(f) {
		if f == b {
			return true
		}
	}
	return false
}

// boundary reports whether position i is outside the text or holds a
// non-word rune.
func boundary(text []rune, i int) bool {
	if i < 0 || i >= len(text) {
		return true
	}
	return !isWordRune(text[i])
}

// isWordRune excludes digits: checked text has its digits removed, so "teh"
// taken from "teh2" must match there as a whole word.
func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsMark(r) || r == '_'
}
