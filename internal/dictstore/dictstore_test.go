package dictstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/google/uuid"
)

// testStore exercises the Store contract shared by every implementation.
func testStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("add is case insensitive", func(t *testing.T) {
		if err := s.Add(ctx, "  Zyzzyva "); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
		ok, err := s.Contains(ctx, "ZYZZYVA")
		if err != nil {
			t.Fatalf("Contains failed: %v", err)
		}
		if !ok {
			t.Error("expected zyzzyva to be in the store")
		}
	})

	t.Run("add twice", func(t *testing.T) {
		if err := s.Add(ctx, "zyzzyva"); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
		all, err := s.All(ctx)
		if err != nil {
			t.Fatalf("All failed: %v", err)
		}
		if !slices.Equal(all, []string{"zyzzyva"}) {
			t.Errorf("expected [zyzzyva], got %v", all)
		}
	})

	t.Run("all is sorted", func(t *testing.T) {
		for _, w := range []string{"qoph", "aalii"} {
			if err := s.Add(ctx, w); err != nil {
				t.Fatalf("Add(%q) failed: %v", w, err)
			}
		}
		all, err := s.All(ctx)
		if err != nil {
			t.Fatalf("All failed: %v", err)
		}
		want := []string{"aalii", "qoph", "zyzzyva"}
		if !slices.Equal(all, want) {
			t.Errorf("expected %v, got %v", want, all)
		}
	})

	t.Run("remove", func(t *testing.T) {
		if err := s.Remove(ctx, "QOPH"); err != nil {
			t.Fatalf("Remove failed: %v", err)
		}
		if ok, _ := s.Contains(ctx, "qoph"); ok {
			t.Error("expected qoph to be removed")
		}
		if err := s.Remove(ctx, "never-added"); err != nil {
			t.Errorf("expected removing a missing word to succeed, got %v", err)
		}
	})

	t.Run("empty word", func(t *testing.T) {
		if err := s.Add(ctx, "   "); !errors.Is(err, ErrEmptyWord) {
			t.Errorf("expected ErrEmptyWord, got %v", err)
		}
		if err := s.Remove(ctx, ""); !errors.Is(err, ErrEmptyWord) {
			t.Errorf("expected ErrEmptyWord, got %v", err)
		}
	})
}

func TestMemory(t *testing.T) {
	s := NewMemory()
	defer s.Close()
	testStore(t, s)
}

func TestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "dictionary.txt")
	s, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile failed: %v", err)
	}
	testStore(t, s)

	t.Run("persists across opens", func(t *testing.T) {
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read dictionary file: %v", err)
		}
		if string(data) != "aalii\nzyzzyva\n" {
			t.Errorf("unexpected file contents %q", data)
		}

		reopened, err := OpenFile(path)
		if err != nil {
			t.Fatalf("OpenFile failed: %v", err)
		}
		all, _ := reopened.All(context.Background())
		if !slices.Equal(all, []string{"aalii", "zyzzyva"}) {
			t.Errorf("expected [aalii zyzzyva], got %v", all)
		}
	})
}

func TestOpenFile_Missing(t *testing.T) {
	s, err := OpenFile(filepath.Join(t.TempDir(), "none.txt"))
	if err != nil {
		t.Fatalf("expected missing file to open empty, got %v", err)
	}
	all, _ := s.All(context.Background())
	if len(all) != 0 {
		t.Errorf("expected empty store, got %v", all)
	}
}

// TestRedis needs a Redis server; set SPELLPANE_TEST_REDIS_ADDR to run it.
func TestRedis(t *testing.T) {
	addr := os.Getenv("SPELLPANE_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("SPELLPANE_TEST_REDIS_ADDR not set")
	}

	ctx := context.Background()
	s, err := NewRedis(ctx, RedisConfig{Addr: addr, Key: "spellpane:test:" + uuid.New().String()})
	if err != nil {
		t.Fatalf("NewRedis failed: %v", err)
	}
	t.Cleanup(func() {
		s.client.Del(ctx, s.key)
		s.Close()
	})
	testStore(t, s)
}
