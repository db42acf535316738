package document

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/fsnotify/fsnotify"
)

// WatchConfig configures Watch.
type WatchConfig struct {
	// OnChange is called after the document took new text from its file.
	OnChange func(ctx context.Context)
	// Attempts bounds the reload retries for one file event. Editors often
	// truncate before writing, so the first read can fail or be empty.
	Attempts uint
	Delay    time.Duration
	Logger   *slog.Logger
}

// Watch reloads d whenever its source file changes, until ctx is done.
// The parent directory is watched so editors that save by rename are seen.
func Watch(ctx context.Context, d *Document, cfg WatchConfig) error {
	path := d.Path()
	if path == "" {
		return fmt.Errorf("watch: document has no source file")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Attempts == 0 {
		cfg.Attempts = 5
	}
	if cfg.Delay == 0 {
		cfg.Delay = 50 * time.Millisecond
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}
	logger.Info("watching document", "path", path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("document watcher error", "error", err)
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			changed, err := reload(ctx, d, cfg)
			if err != nil {
				logger.Warn("document reload failed", "path", path, "error", err)
				continue
			}
			if changed && cfg.OnChange != nil {
				logger.Info("document changed on disk", "path", path)
				cfg.OnChange(ctx)
			}
		}
	}
}

var errEmptyFile = errors.New("file is empty")

func reload(ctx context.Context, d *Document, cfg WatchConfig) (bool, error) {
	var changed bool
	err := retry.Do(
		func() error {
			if info, err := os.Stat(d.Path()); err == nil && info.Size() == 0 {
				return errEmptyFile
			}
			c, err := d.Reload()
			changed = c
			return err
		},
		retry.Context(ctx),
		retry.Attempts(cfg.Attempts),
		retry.Delay(cfg.Delay),
		retry.LastErrorOnly(true),
	)
	if errors.Is(err, errEmptyFile) {
		// Still empty after the retries, so the file was really emptied.
		return d.Reload()
	}
	return changed, err
}
