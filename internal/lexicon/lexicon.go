// Package lexicon holds the word-frequency list the reference suggestion
// service ranks candidates against.
//
// A lexicon file has one "word count" pair per line. Lines starting with '#'
// and blank lines are skipped; a missing count means 1.
package lexicon

import (
	"bufio"
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/edsrzf/mmap-go"
	"github.com/hbollon/go-edlib"
)

// DefaultMaxDistance is the edit distance used when callers pass 0.
const DefaultMaxDistance = 2

// ErrEmpty is returned by Load when the file holds no words.
var ErrEmpty = errors.New("lexicon has no words")

//go:embed words.txt
var defaultWords []byte

// Lexicon maps lowercase words to their corpus frequency. It is read-only
// after construction and safe for concurrent use.
type Lexicon struct {
	freq  map[string]int
	words []string
}

// New builds a lexicon from a word to frequency map.
func New(freq map[string]int) *Lexicon {
	l := &Lexicon{freq: make(map[string]int, len(freq))}
	for w, n := range freq {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		l.freq[w] += n
	}
	l.words = make([]string, 0, len(l.freq))
	for w := range l.freq {
		l.words = append(l.words, w)
	}
	slices.Sort(l.words)
	return l
}

// Default returns the small built-in English lexicon.
func Default() *Lexicon {
	l, _ := Parse(defaultWords)
	return l
}

// Load memory-maps the lexicon file at path and parses it.
func Load(path string) (*Lexicon, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open lexicon: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat lexicon: %w", err)
	}
	if info.Size() == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmpty)
	}

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("map lexicon: %w", err)
	}
	defer m.Unmap()

	l, err := Parse(m)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return l, nil
}

// Parse reads "word count" lines from data. Words are copied out of data,
// so data may be released afterwards.
func Parse(data []byte) (*Lexicon, error) {
	freq := make(map[string]int)
	sc := bufio.NewScanner(bytes.NewReader(data))
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		count := 1
		if len(fields) > 1 {
			n, err := strconv.Atoi(fields[1])
			if err != nil || n < 0 {
				return nil, fmt.Errorf("line %d: bad count %q", line, fields[1])
			}
			count = n
		}
		freq[fields[0]] += count
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(freq) == 0 {
		return nil, ErrEmpty
	}
	return New(freq), nil
}

// Len returns the number of distinct words.
func (l *Lexicon) Len() int {
	return len(l.words)
}

// Contains reports whether word is in the lexicon, ignoring case.
func (l *Lexicon) Contains(word string) bool {
	_, ok := l.freq[strings.ToLower(word)]
	return ok
}

// Frequency returns the corpus count of word, or 0.
func (l *Lexicon) Frequency(word string) int {
	return l.freq[strings.ToLower(word)]
}

// Candidate is a lexicon word close to a looked-up word.
type Candidate struct {
	Word      string
	Distance  int
	Frequency int
}

// Candidates returns up to n lexicon words within maxDist optimal string
// alignment edits of word, closest first, then most frequent, then
// alphabetical. The word itself is never returned.
func (l *Lexicon) Candidates(word string, n, maxDist int) []Candidate {
	if n <= 0 {
		return nil
	}
	if maxDist <= 0 {
		maxDist = DefaultMaxDistance
	}
	word = strings.ToLower(word)
	size := utf8.RuneCountInString(word)

	var out []Candidate
	for _, w := range l.words {
		if w == word {
			continue
		}
		if d := utf8.RuneCountInString(w) - size; d > maxDist || -d > maxDist {
			continue
		}
		dist := edlib.OSADamerauLevenshteinDistance(word, w)
		if dist > maxDist {
			continue
		}
		out = append(out, Candidate{Word: w, Distance: dist, Frequency: l.freq[w]})
	}

	slices.SortFunc(out, func(a, b Candidate) int {
		if a.Distance != b.Distance {
			return a.Distance - b.Distance
		}
		if a.Frequency != b.Frequency {
			return b.Frequency - a.Frequency
		}
		return strings.Compare(a.Word, b.Word)
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
