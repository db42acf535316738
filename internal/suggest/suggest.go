// Package suggest talks to the spelling-suggestion service.
//
// The service takes the cleaned document text and answers with a mapping from
// each token to its ranked replacement candidates. It also accepts new words
// for the user's personal dictionary.
package suggest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/jackzampolin/spellpane/internal/api"
)

// DefaultTopN is the number of candidates requested per word.
const DefaultTopN = 5

// ErrUnavailable wraps every failure to get an answer from the service,
// whether transport or status.
var ErrUnavailable = errors.New("suggestion service unavailable")

// Map is the word to candidate-list mapping returned by the service.
// Element 0 of each list is the service's best candidate.
type Map map[string][]string

// SuggestRequest is the body of POST /suggest.
type SuggestRequest struct {
	InputText string `json:"input_text"`
	TopN      int    `json:"top_n"`
}

// SuggestResponse is the body returned by POST /suggest.
type SuggestResponse struct {
	Suggestions map[string][]string `json:"suggestions"`
}

// AddWordRequest is the body of POST /add_word.
type AddWordRequest struct {
	NewWord string `json:"new_word"`
}

// Client is a suggestion service client. It never retries.
type Client struct {
	api *api.Client
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{api: api.NewClient(strings.TrimRight(baseURL, "/"), api.WithTimeout(timeout))}
}

// URL returns the service base URL.
func (c *Client) URL() string {
	return c.api.BaseURL()
}

// Suggest sends text and returns the filtered suggestion map. topN values
// below 1 fall back to DefaultTopN.
func (c *Client) Suggest(ctx context.Context, text string, topN int) (Map, error) {
	if topN < 1 {
		topN = DefaultTopN
	}
	var resp SuggestResponse
	if err := c.api.Post(ctx, "/suggest", SuggestRequest{InputText: text, TopN: topN}, &resp); err != nil {
		return Map{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return Filter(resp.Suggestions), nil
}

// AddWord adds word to the personal dictionary. Any 2xx answer is success.
func (c *Client) AddWord(ctx context.Context, word string) error {
	if err := c.api.Post(ctx, "/add_word", AddWordRequest{NewWord: word}, nil); err != nil {
		return fmt.Errorf("%w: add %q: %w", ErrUnavailable, word, err)
	}
	return nil
}

// Filter drops keys that contain a digit and candidates that contain a
// digit. The input is not modified.
func Filter(in map[string][]string) Map {
	out := make(Map, len(in))
	for word, candidates := range in {
		if HasDigit(word) {
			continue
		}
		kept := make([]string, 0, len(candidates))
		for _, c := range candidates {
			if !HasDigit(c) {
				kept = append(kept, c)
			}
		}
		out[word] = kept
	}
	return out
}

// HasDigit reports whether s contains a decimal digit.
func HasDigit(s string) bool {
	return strings.IndexFunc(s, unicode.IsDigit) >= 0
}
