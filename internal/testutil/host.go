package testutil

import (
	"context"
	"errors"
	"sync"

	"github.com/jackzampolin/spellpane/internal/document"
)

// ErrInjected is the default error returned by FlakyHost.
var ErrInjected = errors.New("injected host failure")

// FlakyHost wraps a document host and fails editor calls once a budget is
// spent. Each batch gets a fresh budget.
type FlakyHost struct {
	Host document.Host
	// FailAfter is the number of editor calls allowed per batch before the
	// next one fails. Negative never fails.
	FailAfter int
	// Err is returned by the failing call; ErrInjected when nil.
	Err error

	mu      sync.Mutex
	batches int
}

// Batch implements document.Host.
func (h *FlakyHost) Batch(ctx context.Context, fn func(document.Editor) error) error {
	h.mu.Lock()
	h.batches++
	h.mu.Unlock()

	return h.Host.Batch(ctx, func(ed document.Editor) error {
		return fn(&flakyEditor{Editor: ed, host: h})
	})
}

// Batches returns the number of batches started.
func (h *FlakyHost) Batches() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.batches
}

// SetFailAfter changes the budget for later batches.
func (h *FlakyHost) SetFailAfter(n int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.FailAfter = n
}

type flakyEditor struct {
	document.Editor
	host  *FlakyHost
	calls int
}

func (e *flakyEditor) spend() error {
	e.host.mu.Lock()
	limit, err := e.host.FailAfter, e.host.Err
	e.host.mu.Unlock()

	e.calls++
	if limit >= 0 && e.calls > limit {
		if err == nil {
			err = ErrInjected
		}
		return err
	}
	return nil
}

func (e *flakyEditor) Text() (string, error) {
	if err := e.spend(); err != nil {
		return "", err
	}
	return e.Editor.Text()
}

func (e *flakyEditor) Search(term string, opts document.SearchOptions) ([]document.Range, error) {
	if err := e.spend(); err != nil {
		return nil, err
	}
	return e.Editor.Search(term, opts)
}

func (e *flakyEditor) SetUnderline(r document.Range, u document.Underline) error {
	if err := e.spend(); err != nil {
		return err
	}
	return e.Editor.SetUnderline(r, u)
}

func (e *flakyEditor) Replace(r document.Range, text string) error {
	if err := e.spend(); err != nil {
		return err
	}
	return e.Editor.Replace(r, text)
}
