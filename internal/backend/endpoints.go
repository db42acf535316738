package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/spellpane/internal/api"
	"github.com/jackzampolin/spellpane/internal/dictstore"
	"github.com/jackzampolin/spellpane/internal/suggest"
)

// Endpoints returns the service's routes. svc may be nil when only the CLI
// commands are needed.
func Endpoints(svc *Service) []api.Endpoint {
	return []api.Endpoint{
		&HealthEndpoint{Service: svc},
		&SuggestEndpoint{Service: svc},
		&AddWordEndpoint{Service: svc},
		&RemoveWordEndpoint{Service: svc},
		&WordsEndpoint{Service: svc},
	}
}

// HealthResponse is the response for GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Lexicon int    `json:"lexicon"`
}

// HealthEndpoint handles GET /health.
type HealthEndpoint struct {
	Service *Service
}

func (e *HealthEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/health", e.handler
}

func (e *HealthEndpoint) RequiresInit() bool { return false }

func (e *HealthEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Lexicon: e.Service.LexiconSize()})
}

func (e *HealthEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check suggestion service health",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp HealthResponse
			if err := client.Get(cmd.Context(), "/health", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// SuggestEndpoint handles POST /suggest.
type SuggestEndpoint struct {
	Service *Service
}

func (e *SuggestEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/suggest", e.handler
}

func (e *SuggestEndpoint) RequiresInit() bool { return false }

func (e *SuggestEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	var req suggest.SuggestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	suggestions, err := e.Service.Suggest(r.Context(), req.InputText, req.TopN)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, suggest.SuggestResponse{Suggestions: suggestions})
}

func (e *SuggestEndpoint) Command(getServerURL func() string) *cobra.Command {
	var topN int
	cmd := &cobra.Command{
		Use:   "suggest <text>...",
		Short: "Ask the suggestion service about some words",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			req := suggest.SuggestRequest{InputText: strings.Join(args, " "), TopN: topN}
			var resp suggest.SuggestResponse
			if err := client.Post(cmd.Context(), "/suggest", req, &resp); err != nil {
				return err
			}
			return api.Output(resp.Suggestions)
		},
	}
	cmd.Flags().IntVar(&topN, "top-n", suggest.DefaultTopN, "Candidates per word")
	return cmd
}

// WordResponse acknowledges a dictionary change.
type WordResponse struct {
	Word string `json:"word"`
}

// AddWordEndpoint handles POST /add_word.
type AddWordEndpoint struct {
	Service *Service
}

func (e *AddWordEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/add_word", e.handler
}

func (e *AddWordEndpoint) RequiresInit() bool { return false }

func (e *AddWordEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	var req suggest.AddWordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := e.Service.AddWord(r.Context(), req.NewWord); err != nil {
		writeDictError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, WordResponse{Word: req.NewWord})
}

func (e *AddWordEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "add-word <word>",
		Short: "Add a word to the personal dictionary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp WordResponse
			if err := client.Post(cmd.Context(), "/add_word", suggest.AddWordRequest{NewWord: args[0]}, &resp); err != nil {
				return err
			}
			fmt.Printf("Added %s\n", resp.Word)
			return nil
		},
	}
}

// RemoveWordEndpoint handles DELETE /add_word/{word}.
type RemoveWordEndpoint struct {
	Service *Service
}

func (e *RemoveWordEndpoint) Route() (string, string, http.HandlerFunc) {
	return "DELETE", "/add_word/{word}", e.handler
}

func (e *RemoveWordEndpoint) RequiresInit() bool { return false }

func (e *RemoveWordEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	word := r.PathValue("word")
	if err := e.Service.RemoveWord(r.Context(), word); err != nil {
		writeDictError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (e *RemoveWordEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "remove-word <word>",
		Short: "Remove a word from the personal dictionary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			if err := client.Delete(cmd.Context(), "/add_word/"+url.PathEscape(args[0])); err != nil {
				return err
			}
			fmt.Printf("Removed %s\n", args[0])
			return nil
		},
	}
}

// WordsResponse lists the personal dictionary.
type WordsResponse struct {
	Words []string `json:"words" yaml:"words"`
}

// WordsEndpoint handles GET /words.
type WordsEndpoint struct {
	Service *Service
}

func (e *WordsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/words", e.handler
}

func (e *WordsEndpoint) RequiresInit() bool { return false }

func (e *WordsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	words, err := e.Service.Words(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if words == nil {
		words = []string{}
	}
	writeJSON(w, http.StatusOK, WordsResponse{Words: words})
}

func (e *WordsEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "words",
		Short: "List the personal dictionary",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp WordsResponse
			if err := client.Get(cmd.Context(), "/words", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

func writeDictError(w http.ResponseWriter, err error) {
	if errors.Is(err, dictstore.ErrEmptyWord) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, api.ErrorResponse{Error: msg})
}
