package definition

import (
	"context"
	"log/slog"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the definition at path each time it is written and hands the
// result to onChange. A definition that fails to load is logged and skipped.
// Watch blocks until ctx is cancelled.
func Watch(ctx context.Context, path string, onChange func(*Definition), log *slog.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return err
	}
	log.Info("Watching definition for changes", "path", path)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// Editors that save atomically show up as a Create
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			def, loadErr := Load(path)
			if loadErr != nil {
				log.Error("Failed to reload definition", "path", path, "error", loadErr)
				continue
			}
			log.Info("Reloaded definition", "path", path)
			onChange(def)
			_ = watcher.Add(path)

		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error("Definition watcher error", "error", watchErr)
		}
	}
}
