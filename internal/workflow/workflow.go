// Package workflow runs the spell check and the pane actions against one
// document.
//
// A scan reads the document, asks the suggestion service about its words,
// classifies them, marks the misspelled ones and rebuilds the pane. Actions
// replace a word or add it to the dictionary. Scans and actions never
// overlap.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
	"golang.org/x/text/unicode/norm"

	"github.com/jackzampolin/spellpane/internal/annotate"
	"github.com/jackzampolin/spellpane/internal/classify"
	"github.com/jackzampolin/spellpane/internal/document"
	"github.com/jackzampolin/spellpane/internal/extract"
	"github.com/jackzampolin/spellpane/internal/pane"
	"github.com/jackzampolin/spellpane/internal/suggest"
)

// Notice messages shown in the banner.
const (
	msgNoText         = "No text found in the document."
	msgReadFailed     = "Error retrieving document text."
	msgServiceFailed  = "Error communicating with the backend."
	msgScanFailed     = "Error while running spell checker."
	msgAdded          = "%q added to the dictionary."
	msgAddFailed      = "Error adding word to dictionary."
	msgNotFound       = "%q not found in the document."
	msgReplaced       = "%q replaced with %q."
	msgReplaceFailed  = "Error replacing word: %v"
	msgHighlightClear = "Error clearing highlight for %q."
)

// Suggester is the suggestion service as seen by the workflow.
type Suggester interface {
	Suggest(ctx context.Context, text string, topN int) (suggest.Map, error)
	AddWord(ctx context.Context, word string) error
}

// Config configures a Workflow.
type Config struct {
	Host      document.Host
	Suggester Suggester
	TopN      int
	NoticeTTL time.Duration
	Logger    *slog.Logger
}

// Workflow owns the pane state for one document.
type Workflow struct {
	host      document.Host
	suggester Suggester
	annotator *annotate.Annotator
	pane      *pane.Pane
	notices   *pane.Notices
	logger    *slog.Logger

	topN   atomic.Int64
	busy   atomic.Bool
	flight singleflight.Group

	// mu serializes scans and actions.
	mu sync.Mutex
}

// New creates a workflow.
func New(cfg Config) (*Workflow, error) {
	if cfg.Host == nil {
		return nil, fmt.Errorf("workflow: host is required")
	}
	if cfg.Suggester == nil {
		return nil, fmt.Errorf("workflow: suggester is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	w := &Workflow{
		host:      cfg.Host,
		suggester: cfg.Suggester,
		annotator: annotate.New(cfg.Host),
		pane:      pane.New(),
		notices:   pane.NewNotices(cfg.NoticeTTL),
		logger:    logger,
	}
	w.SetTopN(cfg.TopN)
	return w, nil
}

// Report describes the outcome of one scan.
type Report struct {
	ID         string       `json:"id" yaml:"id"`
	Misspelled []string     `json:"misspelled" yaml:"misspelled"`
	Valid      []string     `json:"valid" yaml:"valid"`
	Entries    []pane.Entry `json:"entries" yaml:"entries"`
	// Degraded is set when the suggestion service failed and the scan ran
	// with no suggestions.
	Degraded bool `json:"degraded,omitempty" yaml:"degraded,omitempty"`
}

// Scan runs one spell check. Calls that arrive while a scan is in flight
// wait for it and share its report and error. A started scan runs to
// completion: it keeps the values of the starting caller's context but not
// its cancellation. The suggestion client's timeout still bounds it.
func (w *Workflow) Scan(ctx context.Context) (*Report, error) {
	scanCtx := context.WithoutCancel(ctx)
	v, err, shared := w.flight.Do("scan", func() (any, error) {
		return w.scan(scanCtx)
	})
	if shared {
		w.logger.Debug("joined in-flight scan")
	}
	report, _ := v.(*Report)
	return report, err
}

func (w *Workflow) scan(ctx context.Context) (*Report, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.busy.Store(true)
	defer w.busy.Store(false)

	report := &Report{ID: uuid.New().String()}
	logger := w.logger.With("scan", report.ID)
	start := time.Now()

	text, err := extract.Text(ctx, w.host)
	if err != nil {
		logger.Error("failed to read document", "error", err)
		w.notices.Post(pane.KindError, msgReadFailed)
		return report, fmt.Errorf("%w: read text: %w", ErrHostAPI, err)
	}
	if text == "" {
		w.pane.Render(classify.Result{}, nil)
		w.notices.Post(pane.KindInfo, msgNoText)
		return report, ErrNoInput
	}

	suggestions, err := w.suggester.Suggest(ctx, text, w.TopN())
	if err != nil {
		logger.Warn("suggestion request failed, continuing without suggestions", "error", err)
		w.notices.Post(pane.KindError, msgServiceFailed)
		suggestions = suggest.Map{}
		report.Degraded = true
	}

	res := classify.Classify(suggestions)
	if err := w.annotator.Apply(ctx, res); err != nil {
		logger.Error("failed to apply highlights", "error", err)
		w.notices.Post(pane.KindError, msgScanFailed)
		return report, fmt.Errorf("%w: apply highlights: %w", ErrHostAPI, err)
	}
	w.pane.Render(res, suggestions)

	report.Misspelled = res.Misspelled
	report.Valid = res.Valid
	report.Entries = w.pane.Entries()
	logger.Info("scan complete",
		"misspelled", len(res.Misspelled),
		"valid", len(res.Valid),
		"degraded", report.Degraded,
		"duration", time.Since(start))
	return report, nil
}

// ActionKind names a pane action.
type ActionKind string

const (
	ActionReplace         ActionKind = "replace"
	ActionAddToDictionary ActionKind = pane.AddToDictionary
)

// Action is a user choice on a pane entry.
type Action struct {
	Word      string     `json:"word" yaml:"word"`
	Kind      ActionKind `json:"action" yaml:"action"`
	Candidate string     `json:"candidate,omitempty" yaml:"candidate,omitempty"`
}

// Outcome describes a completed action.
type Outcome struct {
	Action   Action      `json:"action" yaml:"action"`
	Entry    pane.Entry  `json:"entry" yaml:"entry"`
	Replaced int         `json:"replaced,omitempty" yaml:"replaced,omitempty"`
	Notice   pane.Notice `json:"notice" yaml:"notice"`
}

// Dispatch performs act on the pending entry for act.Word.
func (w *Workflow) Dispatch(ctx context.Context, act Action) (*Outcome, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	act.Candidate = norm.NFC.String(strings.TrimSpace(act.Candidate))
	entry, ok := w.pane.Entry(act.Word)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoEntry, act.Word)
	}

	switch act.Kind {
	case ActionReplace:
		return w.replace(ctx, act, entry)
	case ActionAddToDictionary:
		return w.addToDictionary(ctx, act, entry)
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidAction, act.Kind)
	}
}

func (w *Workflow) replace(ctx context.Context, act Action, entry pane.Entry) (*Outcome, error) {
	if act.Candidate == "" {
		return nil, fmt.Errorf("%w: replace %q needs a candidate", ErrInvalidAction, act.Word)
	}
	logger := w.logger.With("word", act.Word, "candidate", act.Candidate)

	n, err := w.annotator.Replace(ctx, act.Word, act.Candidate)
	if err != nil {
		logger.Error("replace failed", "error", err)
		w.notices.Post(pane.KindError, fmt.Sprintf(msgReplaceFailed, err))
		return nil, fmt.Errorf("%w: replace %q: %w", ErrHostAPI, act.Word, err)
	}
	if n == 0 {
		notice := w.notices.Post(pane.KindInfo, fmt.Sprintf(msgNotFound, act.Word))
		return &Outcome{Action: act, Entry: entry, Notice: notice}, fmt.Errorf("%w: %q", ErrNotFound, act.Word)
	}

	// Replace ignores case, so every spelling of the word is gone now.
	resolved, _ := w.pane.Resolve(act.Word)
	for _, e := range w.pane.Entries() {
		if strings.EqualFold(e.Word, act.Word) {
			w.pane.Resolve(e.Word)
			logger.Debug("resolved case variant", "variant", e.Word)
		}
	}
	notice := w.notices.Post(pane.KindSuccess, fmt.Sprintf(msgReplaced, act.Word, act.Candidate))
	logger.Info("word replaced", "occurrences", n)
	return &Outcome{Action: act, Entry: resolved, Replaced: n, Notice: notice}, nil
}

func (w *Workflow) addToDictionary(ctx context.Context, act Action, entry pane.Entry) (*Outcome, error) {
	logger := w.logger.With("word", act.Word)

	if err := w.suggester.AddWord(ctx, act.Word); err != nil {
		logger.Warn("add to dictionary failed", "error", err)
		w.notices.Post(pane.KindError, msgAddFailed)
		return nil, fmt.Errorf("%w: add %q: %w", ErrNetwork, act.Word, err)
	}

	if err := w.annotator.Clear(ctx, act.Word); err != nil {
		// The word is in the dictionary but still marked, so the entry stays.
		logger.Error("clear highlight failed", "error", err)
		w.notices.Post(pane.KindError, fmt.Sprintf(msgHighlightClear, act.Word))
		return nil, fmt.Errorf("%w: clear %q: %w", ErrHostAPI, act.Word, err)
	}

	resolved, _ := w.pane.Resolve(act.Word)
	notice := w.notices.Post(pane.KindSuccess, fmt.Sprintf(msgAdded, act.Word))
	logger.Info("word added to dictionary")
	return &Outcome{Action: act, Entry: resolved, Notice: notice}, nil
}

// Busy reports whether a scan is in flight.
func (w *Workflow) Busy() bool {
	return w.busy.Load()
}

// TopN returns the number of candidates requested per word.
func (w *Workflow) TopN() int {
	return int(w.topN.Load())
}

// SetTopN changes the number of candidates requested by later scans.
// Values below 1 use suggest.DefaultTopN.
func (w *Workflow) SetTopN(n int) {
	if n < 1 {
		n = suggest.DefaultTopN
	}
	w.topN.Store(int64(n))
}

// SetNoticeTTL changes how long later notices stay visible.
func (w *Workflow) SetNoticeTTL(ttl time.Duration) {
	w.notices.SetTTL(ttl)
}

// Entries returns the pending pane entries.
func (w *Workflow) Entries() []pane.Entry {
	return w.pane.Entries()
}

// Notices returns the banner queue.
func (w *Workflow) Notices() *pane.Notices {
	return w.notices
}

// Recoverable reports whether err is one of the workflow's own failures,
// after which the workflow stays usable.
func Recoverable(err error) bool {
	for _, target := range []error{ErrHostAPI, ErrNetwork, ErrNotFound, ErrNoInput, ErrNoEntry, ErrInvalidAction} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
