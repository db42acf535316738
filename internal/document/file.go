package document

import (
	"bytes"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	readability "github.com/go-shiori/go-readability"
)

type source struct {
	path string
	html bool
}

// Open loads a document from path. Files ending in .html or .htm are reduced
// to their readable text and cannot be saved back; anything else is read as
// UTF-8 plain text.
func Open(path string) (*Document, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	d := &Document{source: source{path: abs, html: isHTML(abs)}}
	text, err := d.source.read()
	if err != nil {
		return nil, err
	}
	d.set(text)
	return d, nil
}

// Path returns the file the document was opened from, or "" for documents
// created with New.
func (d *Document) Path() string {
	return d.source.path
}

// Save writes the committed text back to the file it was opened from.
func (d *Document) Save() error {
	if d.source.path == "" || d.source.html {
		return ErrReadOnly
	}
	return d.SaveAs(d.source.path)
}

// SaveAs writes the committed text to path.
func (d *Document) SaveAs(path string) error {
	text := d.Text()
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	return nil
}

// Reload re-reads the source file. When the file's text differs from the
// committed text, the document takes the new text with all markers cleared
// and Reload reports true.
func (d *Document) Reload() (bool, error) {
	if d.source.path == "" {
		return false, nil
	}
	text, err := d.source.read()
	if err != nil {
		return false, err
	}
	text = normalize(text)

	d.mu.Lock()
	defer d.mu.Unlock()
	if text == string(d.text) {
		return false, nil
	}
	d.set(text)
	return true, nil
}

func (s source) read() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", s.path, err)
	}
	if !s.html {
		return string(data), nil
	}

	pageURL := &url.URL{Scheme: "file", Path: filepath.ToSlash(s.path)}
	article, err := readability.FromReader(bytes.NewReader(data), pageURL)
	if err != nil {
		return "", fmt.Errorf("extract readable text from %s: %w", s.path, err)
	}
	return strings.TrimSpace(article.TextContent), nil
}

func isHTML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return true
	}
	return false
}
