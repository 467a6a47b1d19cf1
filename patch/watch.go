package patch

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/cwbudde/algo-synth/dsp/voice"
)

// Watch calls fn with the reloaded patch each time the file at path is
// written or replaced, until ctx is done. Load errors are passed to fn and
// watching continues. The directory is watched rather than the file so
// editors that save by rename are followed.
func Watch(ctx context.Context, path string, fn func(*voice.Params, error)) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("patch: %w", err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("patch: %w", err)
	}
	defer w.Close()
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("patch: watch %s: %w", path, err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			fn(Load(abs))
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			fn(nil, fmt.Errorf("patch: watch: %w", err))
		}
	}
}
