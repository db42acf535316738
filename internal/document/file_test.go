package document

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestOpenAndSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.txt")
	if err := os.WriteFile(path, []byte("Teh quick fox."), 0o644); err != nil {
		t.Fatal(err)
	}

	d, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if d.Path() != path {
		t.Errorf("Path() = %q, want %q", d.Path(), path)
	}

	if err := d.Batch(context.Background(), func(ed Editor) error {
		return ed.Replace(Range{0, 3}, "The")
	}); err != nil {
		t.Fatalf("Batch() error = %v", err)
	}
	if err := d.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "The quick fox." {
		t.Errorf("saved text = %q, want %q", data, "The quick fox.")
	}
}

func TestOpenMissing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.txt"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got %v", err)
	}
}

func TestOpenHTML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.html")
	page := `<html><head><title>Notes</title></head><body>
<article><h1>Notes</h1>
<p>This paragraph has a mispeled word in it, and it is long enough for the readability
scorer to keep it as the main content of the page rather than discard it as boilerplate.</p>
<p>Another paragraph keeps the article body comfortably above the minimum length.</p>
</article></body></html>`
	if err := os.WriteFile(path, []byte(page), 0o644); err != nil {
		t.Fatal(err)
	}

	d, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if !strings.Contains(d.Text(), "mispeled") {
		t.Errorf("expected readable text to contain paragraph, got %q", d.Text())
	}
	if strings.Contains(d.Text(), "<p>") {
		t.Errorf("expected markup to be stripped, got %q", d.Text())
	}
	if err := d.Save(); !errors.Is(err, ErrReadOnly) {
		t.Errorf("expected ErrReadOnly, got %v", err)
	}
}

func TestSaveWithoutSource(t *testing.T) {
	if err := New("text").Save(); !errors.Is(err, ErrReadOnly) {
		t.Errorf("expected ErrReadOnly, got %v", err)
	}
}

func TestReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.txt")
	if err := os.WriteFile(path, []byte("one"), 0o644); err != nil {
		t.Fatal(err)
	}
	d, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}

	changed, err := d.Reload()
	if err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if changed {
		t.Error("expected unchanged file to report no change")
	}

	if err := os.WriteFile(path, []byte("two"), 0o644); err != nil {
		t.Fatal(err)
	}
	changed, err = d.Reload()
	if err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if !changed {
		t.Error("expected changed file to report change")
	}
	if d.Text() != "two" {
		t.Errorf("Text() = %q, want two", d.Text())
	}
}

func TestWatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.txt")
	if err := os.WriteFile(path, []byte("start"), 0o644); err != nil {
		t.Fatal(err)
	}
	d, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	changes := make(chan string, 16)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, d, WatchConfig{
			OnChange: func(context.Context) { changes <- d.Text() },
		})
	}()

	// The watcher registers asynchronously, so keep writing until it reacts.
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	var got string
	for i := 0; got == ""; i++ {
		select {
		case got = <-changes:
		case <-tick.C:
			if err := os.WriteFile(path, []byte(fmt.Sprintf("edit %d", i)), 0o644); err != nil {
				t.Fatal(err)
			}
		case <-deadline:
			t.Fatal("timed out waiting for reload")
		}
	}
	if !strings.HasPrefix(got, "edit") {
		t.Errorf("reloaded text = %q, want edit prefix", got)
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Watch() error = %v", err)
	}
}

func TestWatchRequiresSource(t *testing.T) {
	if err := Watch(context.Background(), New("x"), WatchConfig{}); err == nil {
		t.Error("expected error for document without source")
	}
}
