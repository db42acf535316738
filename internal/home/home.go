package home

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DefaultDirName is the default name for the spellpane home directory.
	DefaultDirName = ".spellpane"

	// DataDirName is the subdirectory for the personal dictionary and lexicons.
	DataDirName = "data"

	// ConfigFileName is the default config file name.
	ConfigFileName = "config.yaml"

	// DictionaryFileName holds words added to the personal dictionary when
	// Redis is not configured.
	DictionaryFileName = "dictionary.txt"

	// LexiconFileName is the lexicon looked up when backend.lexicon_path is empty.
	LexiconFileName = "lexicon.txt"
)

// Dir represents the spellpane home directory structure.
type Dir struct {
	path string
}

// New creates a new Dir with the given path.
// If path is empty, uses the default (~/.spellpane).
func New(path string) (*Dir, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		path = filepath.Join(home, DefaultDirName)
	}

	return &Dir{path: path}, nil
}

// Path returns the root path of the home directory.
func (d *Dir) Path() string {
	return d.path
}

// DataPath returns the path to the data directory.
func (d *Dir) DataPath() string {
	return filepath.Join(d.path, DataDirName)
}

// ConfigPath returns the path to the default config file.
func (d *Dir) ConfigPath() string {
	return filepath.Join(d.path, ConfigFileName)
}

// DictionaryPath returns the path of the file-backed personal dictionary.
func (d *Dir) DictionaryPath() string {
	return filepath.Join(d.DataPath(), DictionaryFileName)
}

// LexiconPath returns the path of the default lexicon file.
func (d *Dir) LexiconPath() string {
	return filepath.Join(d.DataPath(), LexiconFileName)
}

// EnsureExists creates the home directory and subdirectories if they don't exist.
func (d *Dir) EnsureExists() error {
	// Create data directory (this also creates the parent)
	if err := os.MkdirAll(d.DataPath(), 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	return nil
}

// Exists returns true if the home directory exists.
func (d *Dir) Exists() bool {
	_, err := os.Stat(d.path)
	return err == nil
}

// ConfigExists returns true if the config file exists in the home directory.
func (d *Dir) ConfigExists() bool {
	_, err := os.Stat(d.ConfigPath())
	return err == nil
}

// LexiconExists returns true if a lexicon file has been installed.
func (d *Dir) LexiconExists() bool {
	_, err := os.Stat(d.LexiconPath())
	return err == nil
}
