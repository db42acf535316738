// Package classify sorts suggested words into misspelled and valid.
package classify

import (
	"sort"
	"strings"
	"unicode"

	"github.com/jackzampolin/spellpane/internal/suggest"
)

// Result partitions the words of a suggestion map. Both lists are sorted.
type Result struct {
	Misspelled []string `json:"misspelled" yaml:"misspelled"`
	Valid      []string `json:"valid" yaml:"valid"`
}

// Classify tags every word of m. A word is valid when its best candidate is
// the word itself, and misspelled otherwise, including when it has no
// candidates. Keys containing whitespace are dropped.
func Classify(m suggest.Map) Result {
	res := Result{Misspelled: []string{}, Valid: []string{}}
	for word, candidates := range m {
		if strings.IndexFunc(word, unicode.IsSpace) >= 0 {
			continue
		}
		if IsValid(word, candidates) {
			res.Valid = append(res.Valid, word)
		} else {
			res.Misspelled = append(res.Misspelled, word)
		}
	}
	sort.Strings(res.Misspelled)
	sort.Strings(res.Valid)
	return res
}

// IsValid reports whether word is its own best candidate.
func IsValid(word string, candidates []string) bool {
	return len(candidates) > 0 && candidates[0] == word
}
