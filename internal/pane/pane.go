// Package pane holds the task pane state: the list of misspelled words with
// their candidates, and the notification banner.
package pane

import (
	"slices"
	"sync"

	"github.com/jackzampolin/spellpane/internal/classify"
	"github.com/jackzampolin/spellpane/internal/suggest"
)

// State is the lifecycle state of an entry.
type State string

const (
	StatePending  State = "pending"
	StateResolved State = "resolved"
)

// AddToDictionary is the option offered after the candidates of every entry.
const AddToDictionary = "add_to_dictionary"

// Entry is one misspelled word shown in the pane.
type Entry struct {
	Word       string   `json:"word" yaml:"word"`
	Candidates []string `json:"candidates" yaml:"candidates"`
	State      State    `json:"state" yaml:"state"`
}

// Options returns the choices offered for the entry: each candidate in
// order, then AddToDictionary.
func (e Entry) Options() []string {
	return append(slices.Clone(e.Candidates), AddToDictionary)
}

// Pane is the list of pending entries, in render order.
type Pane struct {
	mu      sync.RWMutex
	entries []Entry
}

// New returns an empty pane.
func New() *Pane {
	return &Pane{}
}

// Render replaces the entries with one pending entry per misspelled word of
// res, carrying that word's candidates from suggestions.
func (p *Pane) Render(res classify.Result, suggestions suggest.Map) {
	entries := make([]Entry, 0, len(res.Misspelled))
	for _, w := range res.Misspelled {
		candidates := slices.Clone(suggestions[w])
		if candidates == nil {
			candidates = []string{}
		}
		entries = append(entries, Entry{Word: w, Candidates: candidates, State: StatePending})
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries = entries
}

// Entries returns a copy of the pending entries.
func (p *Pane) Entries() []Entry {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]Entry, len(p.entries))
	for i, e := range p.entries {
		e.Candidates = slices.Clone(e.Candidates)
		out[i] = e
	}
	return out
}

// Entry returns the pending entry for word.
func (p *Pane) Entry(word string) (Entry, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if i := p.index(word); i >= 0 {
		e := p.entries[i]
		e.Candidates = slices.Clone(e.Candidates)
		return e, true
	}
	return Entry{}, false
}

// Resolve removes the entry for word and returns it marked resolved.
func (p *Pane) Resolve(word string) (Entry, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	i := p.index(word)
	if i < 0 {
		return Entry{}, false
	}
	e := p.entries[i]
	e.State = StateResolved
	p.entries = slices.Delete(p.entries, i, i+1)
	return e, true
}

// Len returns the number of pending entries.
func (p *Pane) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.entries)
}

func (p *Pane) index(word string) int {
	return slices.IndexFunc(p.entries, func(e Entry) bool { return e.Word == word })
}
