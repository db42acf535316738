package backend

import (
	"context"
	"reflect"
	"testing"

	"go.uber.org/goleak"

	"github.com/jackzampolin/spellpane/internal/lexicon"
	"github.com/jackzampolin/spellpane/internal/testutil"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
	)
}

func newService(t *testing.T) *Service {
	t.Helper()
	return NewService(ServiceConfig{
		Lexicon: lexicon.New(map[string]int{
			"the":   100,
			"then":  50,
			"ten":   20,
			"hello": 80,
			"help":  40,
		}),
		Logger: testutil.Logger(),
	})
}

func TestSuggest(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	got, err := svc.Suggest(ctx, "teh Hello kubectl teh", 3)
	if err != nil {
		t.Fatalf("Suggest() error = %v", err)
	}

	want := map[string][]string{
		"teh":     {"the", "ten", "then"},
		"Hello":   {"Hello", "Help"},
		"kubectl": {},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestSuggest_DefaultTopN(t *testing.T) {
	svc := newService(t)
	got, err := svc.Suggest(context.Background(), "teh", 0)
	if err != nil {
		t.Fatalf("Suggest() error = %v", err)
	}
	if len(got["teh"]) != 3 {
		t.Errorf("expected every candidate within reach, got %v", got["teh"])
	}
}

func TestAddWordMakesWordValid(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	if err := svc.AddWord(ctx, "Kubectl"); err != nil {
		t.Fatalf("AddWord() error = %v", err)
	}
	got, _ := svc.Suggest(ctx, "kubectl", 5)
	if want := []string{"kubectl"}; !reflect.DeepEqual(got["kubectl"], want) {
		t.Errorf("expected %v, got %v", want, got["kubectl"])
	}

	words, _ := svc.Words(ctx)
	if want := []string{"kubectl"}; !reflect.DeepEqual(words, want) {
		t.Errorf("expected %v, got %v", want, words)
	}

	if err := svc.RemoveWord(ctx, "kubectl"); err != nil {
		t.Fatalf("RemoveWord() error = %v", err)
	}
	if known, _ := svc.Known(ctx, "kubectl"); known {
		t.Error("expected kubectl to be unknown after removal")
	}
}

func TestMatchCase(t *testing.T) {
	tests := []struct {
		word, candidate, want string
	}{
		{"teh", "the", "the"},
		{"Teh", "the", "The"},
		{"TEH", "the", "THE"},
		{"I", "a", "A"},
		{"", "the", "the"},
		{"Éte", "été", "Été"},
	}
	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			if got := matchCase(tt.word, tt.candidate); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
