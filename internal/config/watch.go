package config

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
)

// Watch reloads the file every time it is written and sends it to the returned channel.
// Only the latest reload is kept if the receiver is slow. Files which fail to load or convert
// are logged and skipped. The channel is closed when ctx is done
func Watch(ctx context.Context, path string, logger *slog.Logger) (<-chan File, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "Can't create file watcher")
	}
	// Editors replace files on save, so watch the directory rather than the file itself
	target := filepath.Clean(path)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		watcher.Close()
		return nil, errors.Wrapf(err, "Can't watch %s", filepath.Dir(target))
	}
	updates := make(chan File, 1)
	go func() {
		defer close(updates)
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target || event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				file, err := Load(target)
				if err == nil {
					_, err = file.Pipeline()
				}
				if err != nil {
					logger.Warn("config reload skipped", "path", target, "error", err)
					continue
				}
				logger.Info("config reloaded", "path", target)
				select {
				case <-updates:
				default:
				}
				updates <- file
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("config watcher error", "error", err)
			}
		}
	}()
	return updates, nil
}
