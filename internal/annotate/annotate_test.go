package annotate

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/jackzampolin/spellpane/internal/classify"
	"github.com/jackzampolin/spellpane/internal/document"
	"github.com/jackzampolin/spellpane/internal/testutil"
)

func TestApply(t *testing.T) {
	d := document.New("Teh cat saw teh dog. The teh-cup is here.")
	a := New(d)

	res := classify.Result{Misspelled: []string{"teh"}, Valid: []string{"cat"}}
	if err := a.Apply(context.Background(), res); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	// Case-sensitive whole words: "Teh" is a different token.
	got := d.MarkedWords()
	want := []string{"teh", "teh"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MarkedWords() = %v, want %v", got, want)
	}
}

func TestApplyClearsValid(t *testing.T) {
	d := document.New("colour and colour")
	a := New(d)
	ctx := context.Background()

	if err := a.Apply(ctx, classify.Result{Misspelled: []string{"colour"}}); err != nil {
		t.Fatal(err)
	}
	if len(d.Marked()) != 2 {
		t.Fatalf("expected 2 marks, got %v", d.Marked())
	}

	if err := a.Apply(ctx, classify.Result{Valid: []string{"colour"}}); err != nil {
		t.Fatal(err)
	}
	if len(d.Marked()) != 0 {
		t.Errorf("expected valid word to be cleared, got %v", d.Marked())
	}
}

func TestApplyIdempotent(t *testing.T) {
	d := document.New("teh quick brwn fox")
	a := New(d)
	res := classify.Result{Misspelled: []string{"brwn", "teh"}, Valid: []string{"fox"}}

	if err := a.Apply(context.Background(), res); err != nil {
		t.Fatal(err)
	}
	first := d.Spans()
	if err := a.Apply(context.Background(), res); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(d.Spans(), first) {
		t.Errorf("second Apply changed spans: %v != %v", d.Spans(), first)
	}
}

func TestApplyAtomic(t *testing.T) {
	d := document.New("teh brwn fox")
	host := &testutil.FlakyHost{Host: d, FailAfter: -1}
	a := New(host)

	if err := a.Apply(context.Background(), classify.Result{Misspelled: []string{"fox"}}); err != nil {
		t.Fatal(err)
	}
	before := d.Spans()

	// Search teh, mark teh, then fail on the next search.
	host.SetFailAfter(2)
	err := a.Apply(context.Background(), classify.Result{Misspelled: []string{"teh", "brwn"}, Valid: []string{"fox"}})
	if !errors.Is(err, testutil.ErrInjected) {
		t.Fatalf("expected injected error, got %v", err)
	}
	if !reflect.DeepEqual(d.Spans(), before) {
		t.Errorf("failed Apply changed document: %v, want %v", d.Spans(), before)
	}
}

func TestClear(t *testing.T) {
	d := document.New("teh brwn teh")
	a := New(d)
	ctx := context.Background()

	if err := a.Apply(ctx, classify.Result{Misspelled: []string{"brwn", "teh"}}); err != nil {
		t.Fatal(err)
	}
	if err := a.Clear(ctx, "teh"); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if got := d.MarkedWords(); !reflect.DeepEqual(got, []string{"brwn"}) {
		t.Errorf("MarkedWords() = %v, want [brwn]", got)
	}
	if err := a.Clear(ctx); err != nil {
		t.Errorf("Clear() with no words error = %v", err)
	}
}

func TestReplace(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		old     string
		new     string
		want    string
		wantN   int
		wantErr bool
	}{
		{
			name:  "all occurrences, any case",
			text:  "Teh cat and teh dog",
			old:   "teh",
			new:   "the",
			want:  "The cat and the dog",
			wantN: 2,
		},
		{
			name:  "keeps upper case",
			text:  "TEH END",
			old:   "teh",
			new:   "the",
			want:  "THE END",
			wantN: 1,
		},
		{
			name:  "whole words only",
			text:  "tehran teh",
			old:   "teh",
			new:   "the",
			want:  "tehran the",
			wantN: 1,
		},
		{
			name:  "longer replacement keeps offsets",
			text:  "a x b x c",
			old:   "x",
			new:   "longer",
			want:  "a longer b longer c",
			wantN: 2,
		},
		{
			name:  "trims and normalizes",
			text:  "un café noir",
			old:   " café ",
			new:   "thé ",
			want:  "un thé noir",
			wantN: 1,
		},
		{
			name:  "not found",
			text:  "nothing here",
			old:   "teh",
			new:   "the",
			want:  "nothing here",
			wantN: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := document.New(tt.text)
			n, err := New(d).Replace(context.Background(), tt.old, tt.new)
			if err != nil {
				t.Fatalf("Replace() error = %v", err)
			}
			if n != tt.wantN {
				t.Errorf("Replace() = %d, want %d", n, tt.wantN)
			}
			if d.Text() != tt.want {
				t.Errorf("Text() = %q, want %q", d.Text(), tt.want)
			}
		})
	}
}

func TestMatchCase(t *testing.T) {
	tests := []struct {
		occurrence, word, want string
	}{
		{"teh", "the", "the"},
		{"Teh", "the", "The"},
		{"TEH", "the", "THE"},
		{"T", "the", "The"},
		{"tEH", "the", "the"},
		{"Éte", "été", "Été"},
	}
	for _, tt := range tests {
		if got := matchCase(tt.occurrence, tt.word); got != tt.want {
			t.Errorf("matchCase(%q, %q) = %q, want %q", tt.occurrence, tt.word, got, tt.want)
		}
	}
}

func TestReplaceClearsMarks(t *testing.T) {
	d := document.New("teh cat teh")
	a := New(d)
	ctx := context.Background()

	if err := a.Apply(ctx, classify.Result{Misspelled: []string{"cat", "teh"}}); err != nil {
		t.Fatal(err)
	}
	if _, err := a.Replace(ctx, "teh", "the"); err != nil {
		t.Fatal(err)
	}
	if got := d.MarkedWords(); !reflect.DeepEqual(got, []string{"cat"}) {
		t.Errorf("MarkedWords() = %v, want [cat]", got)
	}
}

func TestReplaceHostFailure(t *testing.T) {
	d := document.New("teh teh")
	host := &testutil.FlakyHost{Host: d, FailAfter: 2}

	n, err := New(host).Replace(context.Background(), "teh", "the")
	if !errors.Is(err, testutil.ErrInjected) {
		t.Fatalf("expected injected error, got %v", err)
	}
	if n != 0 {
		t.Errorf("Replace() = %d, want 0 on failure", n)
	}
	if d.Text() != "teh teh" {
		t.Errorf("Text() = %q, want unchanged", d.Text())
	}
}
