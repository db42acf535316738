package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/jackzampolin/spellpane/internal/suggest"
)

// SuggestionService is a fake suggestion service. It answers /suggest with
// the canned entries for the tokens present in the request and records every
// /add_word call.
type SuggestionService struct {
	*httptest.Server

	mu            sync.Mutex
	suggestions   map[string][]string
	suggestStatus int
	addStatus     int
	suggestCalls  int
	added         []string
	gate          chan struct{}
}

// NewSuggestionService starts a fake service that is closed when the test ends.
func NewSuggestionService(t *testing.T, suggestions map[string][]string) *SuggestionService {
	t.Helper()
	s := &SuggestionService{suggestions: suggestions}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /suggest", s.handleSuggest)
	mux.HandleFunc("POST /add_word", s.handleAddWord)
	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

func (s *SuggestionService) handleSuggest(w http.ResponseWriter, r *http.Request) {
	var req suggest.SuggestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.suggestCalls++
	gate, status := s.gate, s.suggestStatus
	s.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-r.Context().Done():
			return
		}
	}
	if status != 0 && status != http.StatusOK {
		http.Error(w, "suggestion failure", status)
		return
	}

	s.mu.Lock()
	out := make(map[string][]string)
	for _, tok := range strings.Fields(req.InputText) {
		if c, ok := s.suggestions[tok]; ok {
			out[tok] = c
		}
	}
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(suggest.SuggestResponse{Suggestions: out})
}

func (s *SuggestionService) handleAddWord(w http.ResponseWriter, r *http.Request) {
	var req suggest.AddWordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.addStatus != 0 && s.addStatus != http.StatusOK {
		http.Error(w, "dictionary failure", s.addStatus)
		return
	}
	s.added = append(s.added, req.NewWord)
	w.WriteHeader(http.StatusOK)
}

// SetSuggestStatus makes /suggest answer with code. 0 or 200 restores
// normal answers.
func (s *SuggestionService) SetSuggestStatus(code int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.suggestStatus = code
}

// SetAddStatus makes /add_word answer with code.
func (s *SuggestionService) SetAddStatus(code int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addStatus = code
}

// Hold makes /suggest block until the returned release func is called.
func (s *SuggestionService) Hold() (release func()) {
	gate := make(chan struct{})
	s.mu.Lock()
	s.gate = gate
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			s.gate = nil
			s.mu.Unlock()
			close(gate)
		})
	}
}

// SuggestCalls returns the number of /suggest requests received.
func (s *SuggestionService) SuggestCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.suggestCalls
}

// Added returns the words accepted by /add_word.
func (s *SuggestionService) Added() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.added...)
}
