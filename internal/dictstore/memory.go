package dictstore

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
)

// Memory is an in-process Store. When opened with OpenFile every change is
// written back to the file, one word per line.
type Memory struct {
	mu    sync.RWMutex
	words map[string]struct{}
	path  string
}

// NewMemory returns an empty store that is not backed by a file.
func NewMemory() *Memory {
	return &Memory{words: make(map[string]struct{})}
}

// OpenFile loads the store from path. A missing file is an empty store; it
// is created on the first change.
func OpenFile(path string) (*Memory, error) {
	m := NewMemory()
	m.path = path

	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return m, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open dictionary: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if w, err := normalize(sc.Text()); err == nil {
			m.words[w] = struct{}{}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read dictionary: %w", err)
	}
	return m, nil
}

func (m *Memory) Add(ctx context.Context, word string) error {
	w, err := normalize(word)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.words[w]; ok {
		return nil
	}
	m.words[w] = struct{}{}
	if err := m.flush(); err != nil {
		delete(m.words, w)
		return err
	}
	return nil
}

func (m *Memory) Remove(ctx context.Context, word string) error {
	w, err := normalize(word)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.words[w]; !ok {
		return nil
	}
	delete(m.words, w)
	if err := m.flush(); err != nil {
		m.words[w] = struct{}{}
		return err
	}
	return nil
}

func (m *Memory) Contains(ctx context.Context, word string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.words[strings.ToLower(strings.TrimSpace(word))]
	return ok, nil
}

// All returns the words in alphabetical order.
func (m *Memory) All(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Sorted(maps.Keys(m.words)), nil
}

func (m *Memory) Close() error { return nil }

// flush rewrites the backing file. Callers hold mu.
func (m *Memory) flush() error {
	if m.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(m.path), 0o755); err != nil {
		return fmt.Errorf("create dictionary dir: %w", err)
	}

	var b strings.Builder
	for _, w := range slices.Sorted(maps.Keys(m.words)) {
		b.WriteString(w)
		b.WriteByte('\n')
	}

	tmp := m.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write dictionary: %w", err)
	}
	if err := os.Rename(tmp, m.path); err != nil {
		return fmt.Errorf("write dictionary: %w", err)
	}
	return nil
}
