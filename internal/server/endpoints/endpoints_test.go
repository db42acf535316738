package endpoints

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/jackzampolin/spellpane/internal/api"
	"github.com/jackzampolin/spellpane/internal/document"
	"github.com/jackzampolin/spellpane/internal/suggest"
	"github.com/jackzampolin/spellpane/internal/svcctx"
	"github.com/jackzampolin/spellpane/internal/testutil"
	"github.com/jackzampolin/spellpane/internal/workflow"
)

var canned = map[string][]string{
	"Teh":   {"The", "Ten"},
	"quick": {"quick"},
	"brwn":  {"brown", "brawn"},
	"fox":   {"fox"},
}

type fixture struct {
	doc     *document.Document
	service *testutil.SuggestionService
	client  *api.Client
}

// newFixture mounts every endpoint the way the server does, around doc.
func newFixture(t *testing.T, doc *document.Document) *fixture {
	t.Helper()
	service := testutil.NewSuggestionService(t, canned)
	wf, err := workflow.New(workflow.Config{
		Host:      doc,
		Suggester: suggest.NewClient(service.URL, time.Second),
		Logger:    testutil.Logger(),
	})
	if err != nil {
		t.Fatalf("workflow.New() error = %v", err)
	}

	mux := http.NewServeMux()
	api.NewRegistry(All()...).RegisterRoutes(mux, nil)
	services := &svcctx.Services{
		Workflow:   wf,
		Document:   doc,
		ServiceURL: service.URL,
		Logger:     testutil.Logger(),
	}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mux.ServeHTTP(w, r.WithContext(svcctx.WithServices(r.Context(), services)))
	}))
	t.Cleanup(ts.Close)

	return &fixture{doc: doc, service: service, client: api.NewClient(ts.URL)}
}

func (f *fixture) scan(t *testing.T) ScanResponse {
	t.Helper()
	var resp ScanResponse
	if err := f.client.Post(context.Background(), "/api/scan", nil, &resp); err != nil {
		t.Fatalf("scan error = %v", err)
	}
	return resp
}

// statusError asserts err is an api.StatusError with code and decodes its
// body into v.
func statusError(t *testing.T, err error, code int, v any) {
	t.Helper()
	var serr *api.StatusError
	if !errors.As(err, &serr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if serr.Code != code {
		t.Fatalf("expected status %d, got %d (%s)", code, serr.Code, serr.Message)
	}
	if v != nil {
		if err := json.Unmarshal(serr.Body, v); err != nil {
			t.Fatalf("failed to decode error body: %v", err)
		}
	}
}

func entryWords(p PaneResponse) []string {
	out := []string{}
	for _, e := range p.Entries {
		out = append(out, e.Word)
	}
	return out
}

func TestHealthAndStatus(t *testing.T) {
	f := newFixture(t, document.New("Teh quick brwn fox."))
	ctx := context.Background()

	var health HealthResponse
	if err := f.client.Get(ctx, "/health", &health); err != nil {
		t.Fatalf("health error = %v", err)
	}
	if health.Status != "ok" {
		t.Errorf("expected status ok, got %q", health.Status)
	}

	var status StatusResponse
	if err := f.client.Get(ctx, "/status", &status); err != nil {
		t.Fatalf("status error = %v", err)
	}
	if status.Document != "in_memory" || status.ServiceURL != f.service.URL || status.Entries != 0 {
		t.Errorf("unexpected status before scan: %+v", status)
	}

	f.scan(t)
	if err := f.client.Get(ctx, "/status", &status); err != nil {
		t.Fatalf("status error = %v", err)
	}
	if status.Entries != 2 || status.Busy {
		t.Errorf("unexpected status after scan: %+v", status)
	}
	if status.TopN != suggest.DefaultTopN {
		t.Errorf("expected top_n %d, got %d", suggest.DefaultTopN, status.TopN)
	}
}

func TestScan(t *testing.T) {
	f := newFixture(t, document.New("Teh quick brwn fox."))

	resp := f.scan(t)
	if resp.Report == nil {
		t.Fatal("expected a report")
	}
	if want := []string{"Teh", "brwn"}; !reflect.DeepEqual(resp.Report.Misspelled, want) {
		t.Errorf("expected misspelled %v, got %v", want, resp.Report.Misspelled)
	}
	if want := []string{"Teh", "brwn"}; !reflect.DeepEqual(entryWords(resp.Pane), want) {
		t.Errorf("expected entries %v, got %v", want, entryWords(resp.Pane))
	}
	if resp.Pane.Busy {
		t.Error("expected pane not busy after scan")
	}

	var pane PaneResponse
	if err := f.client.Get(context.Background(), "/api/pane", &pane); err != nil {
		t.Fatalf("pane error = %v", err)
	}
	if !reflect.DeepEqual(pane.Entries, resp.Pane.Entries) {
		t.Errorf("expected pane %v, got %v", resp.Pane.Entries, pane.Entries)
	}
}

func TestScanEmptyDocument(t *testing.T) {
	f := newFixture(t, document.New("  42, 17. "))

	err := f.client.Post(context.Background(), "/api/scan", nil, nil)
	var resp ScanResponse
	statusError(t, err, http.StatusUnprocessableEntity, &resp)

	if resp.Pane.Notice == nil || resp.Pane.Notice.Message != "No text found in the document." {
		t.Errorf("expected no-text notice, got %+v", resp.Pane.Notice)
	}
	if f.service.SuggestCalls() != 0 {
		t.Errorf("expected no suggestion request, got %d", f.service.SuggestCalls())
	}
}

func TestScanServiceDown(t *testing.T) {
	f := newFixture(t, document.New("Teh quick brwn fox."))
	f.service.SetSuggestStatus(http.StatusInternalServerError)

	resp := f.scan(t)
	if !resp.Report.Degraded {
		t.Error("expected a degraded report")
	}
	if resp.Pane.Notice == nil || resp.Pane.Notice.Message != "Error communicating with the backend." {
		t.Errorf("expected backend error notice, got %+v", resp.Pane.Notice)
	}
	if len(resp.Pane.Entries) != 0 {
		t.Errorf("expected no entries, got %v", resp.Pane.Entries)
	}
}

func TestActions(t *testing.T) {
	ctx := context.Background()

	t.Run("replace", func(t *testing.T) {
		f := newFixture(t, document.New("Teh quick brwn fox."))
		f.scan(t)

		var resp ActionResponse
		act := workflow.Action{Word: "brwn", Kind: workflow.ActionReplace, Candidate: "brown"}
		if err := f.client.Post(ctx, "/api/actions", act, &resp); err != nil {
			t.Fatalf("action error = %v", err)
		}
		if resp.Outcome == nil || resp.Outcome.Replaced != 1 {
			t.Errorf("expected one replacement, got %+v", resp.Outcome)
		}
		if want := []string{"Teh"}; !reflect.DeepEqual(entryWords(resp.Pane), want) {
			t.Errorf("expected entries %v, got %v", want, entryWords(resp.Pane))
		}
		if got := f.doc.Text(); got != "Teh quick brown fox." {
			t.Errorf("unexpected document text %q", got)
		}
	})

	t.Run("add to dictionary", func(t *testing.T) {
		f := newFixture(t, document.New("Teh quick brwn fox."))
		f.scan(t)

		var resp ActionResponse
		act := workflow.Action{Word: "brwn", Kind: workflow.ActionAddToDictionary}
		if err := f.client.Post(ctx, "/api/actions", act, &resp); err != nil {
			t.Fatalf("action error = %v", err)
		}
		if want := []string{"brwn"}; !reflect.DeepEqual(f.service.Added(), want) {
			t.Errorf("expected added %v, got %v", want, f.service.Added())
		}
		if resp.Pane.Notice == nil || resp.Pane.Notice.Kind != "success" {
			t.Errorf("expected success notice, got %+v", resp.Pane.Notice)
		}
		if want := []string{"Teh"}; !reflect.DeepEqual(f.doc.MarkedWords(), want) {
			t.Errorf("expected marked %v, got %v", want, f.doc.MarkedWords())
		}
	})

	t.Run("failures", func(t *testing.T) {
		f := newFixture(t, document.New("Teh quick brwn fox."))
		f.scan(t)

		tests := []struct {
			name string
			body any
			code int
		}{
			{"bad body", "not an action", http.StatusBadRequest},
			{"missing word", workflow.Action{Kind: workflow.ActionReplace}, http.StatusBadRequest},
			{"no entry", workflow.Action{Word: "quick", Kind: workflow.ActionReplace, Candidate: "quack"}, http.StatusNotFound},
			{"no candidate", workflow.Action{Word: "Teh", Kind: workflow.ActionReplace}, http.StatusBadRequest},
			{"unknown kind", workflow.Action{Word: "Teh", Kind: "ignore"}, http.StatusBadRequest},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				err := f.client.Post(ctx, "/api/actions", tt.body, nil)
				statusError(t, err, tt.code, nil)
			})
		}

		if got := f.doc.Text(); got != "Teh quick brwn fox." {
			t.Errorf("expected document untouched, got %q", got)
		}
	})

	t.Run("dictionary unavailable", func(t *testing.T) {
		f := newFixture(t, document.New("Teh quick brwn fox."))
		f.scan(t)
		f.service.SetAddStatus(http.StatusServiceUnavailable)

		err := f.client.Post(ctx, "/api/actions", workflow.Action{Word: "brwn", Kind: workflow.ActionAddToDictionary}, nil)
		var resp ActionResponse
		statusError(t, err, http.StatusBadGateway, &resp)
		if want := []string{"Teh", "brwn"}; !reflect.DeepEqual(entryWords(resp.Pane), want) {
			t.Errorf("expected entries kept %v, got %v", want, entryWords(resp.Pane))
		}
	})

	t.Run("word gone from document", func(t *testing.T) {
		f := newFixture(t, document.New("Teh quick brwn fox."))
		f.scan(t)
		err := f.doc.Batch(ctx, func(ed document.Editor) error {
			return ed.Replace(document.Range{Start: 10, End: 14}, "brown")
		})
		if err != nil {
			t.Fatalf("edit error = %v", err)
		}

		reqErr := f.client.Post(ctx, "/api/actions", workflow.Action{Word: "brwn", Kind: workflow.ActionReplace, Candidate: "brown"}, nil)
		var resp ActionResponse
		statusError(t, reqErr, http.StatusConflict, &resp)
		if resp.Outcome == nil || resp.Pane.Notice == nil {
			t.Fatalf("expected outcome and notice, got %+v", resp)
		}
		if !strings.Contains(resp.Pane.Notice.Message, "not found") {
			t.Errorf("expected not-found notice, got %q", resp.Pane.Notice.Message)
		}
	})
}

func TestDocument(t *testing.T) {
	f := newFixture(t, document.New("Teh quick brwn fox."))
	f.scan(t)

	var resp DocumentResponse
	if err := f.client.Get(context.Background(), "/api/document", &resp); err != nil {
		t.Fatalf("document error = %v", err)
	}
	if resp.Text != "Teh quick brwn fox." {
		t.Errorf("unexpected text %q", resp.Text)
	}
	want := []document.Span{
		{Text: "Teh", Underline: document.UnderlineWave},
		{Text: " quick ", Underline: document.UnderlineNone},
		{Text: "brwn", Underline: document.UnderlineWave},
		{Text: " fox.", Underline: document.UnderlineNone},
	}
	if !reflect.DeepEqual(resp.Spans, want) {
		t.Errorf("expected spans %v, got %v", want, resp.Spans)
	}
	if want := []string{"Teh", "brwn"}; !reflect.DeepEqual(resp.Marked, want) {
		t.Errorf("expected marked %v, got %v", want, resp.Marked)
	}
}

func TestSave(t *testing.T) {
	ctx := context.Background()

	t.Run("file document", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "letter.txt")
		if err := os.WriteFile(path, []byte("Teh quick brwn fox.\n"), 0o644); err != nil {
			t.Fatalf("failed to write document: %v", err)
		}
		doc, err := document.Open(path)
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		f := newFixture(t, doc)
		f.scan(t)

		act := workflow.Action{Word: "Teh", Kind: workflow.ActionReplace, Candidate: "The"}
		if err := f.client.Post(ctx, "/api/actions", act, nil); err != nil {
			t.Fatalf("action error = %v", err)
		}
		var resp SaveResponse
		if err := f.client.Post(ctx, "/api/document/save", nil, &resp); err != nil {
			t.Fatalf("save error = %v", err)
		}
		if resp.Path != doc.Path() {
			t.Errorf("expected path %s, got %s", doc.Path(), resp.Path)
		}
		data, _ := os.ReadFile(path)
		if string(data) != "The quick brwn fox.\n" {
			t.Errorf("unexpected saved text %q", data)
		}
	})

	t.Run("in-memory document", func(t *testing.T) {
		f := newFixture(t, document.New("Teh"))
		err := f.client.Post(ctx, "/api/document/save", nil, nil)
		statusError(t, err, http.StatusConflict, nil)
	})
}

func TestStatic(t *testing.T) {
	f := newFixture(t, document.New(""))

	for _, path := range []string{"/", "/entries/teh"} {
		t.Run(path, func(t *testing.T) {
			resp, err := http.Get(f.client.BaseURL() + path)
			if err != nil {
				t.Fatalf("GET %s error = %v", path, err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("expected 200, got %d", resp.StatusCode)
			}
			body, _ := io.ReadAll(resp.Body)
			if !strings.Contains(string(body), "Run spell check") {
				t.Error("expected the task pane page")
			}
		})
	}
}

func TestCommands(t *testing.T) {
	var names []string
	for _, ep := range All() {
		if cmd := ep.Command(func() string { return "http://127.0.0.1:0" }); cmd != nil {
			names = append(names, cmd.Name())
		}
	}
	want := []string{"health", "status", "scan", "pane", "act", "document", "save"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("expected commands %v, got %v", want, names)
	}
}
