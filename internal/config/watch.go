package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"calselect/internal/eventbus"
)

// Watch reloads the config file whenever it changes on disk and publishes
// ConfigChangedEvent with the new *Config, or ErrorEvent when the edited file
// does not parse. Setup errors are returned; the watch loop runs until ctx is
// cancelled. Events are published from the watcher goroutine.
func (cs *configService) Watch(ctx context.Context) error {
	if cs.bus == nil {
		return errors.New("config: watch requires an event bus")
	}

	// Editors often replace the file, so watch the directory and filter by name
	dir := filepath.Dir(cs.filePath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("config: ensure directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config: create watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("config: watch %s: %w", dir, err)
	}

	target := filepath.Clean(cs.filePath)
	go func() {
		defer func() {
			if err := watcher.Close(); err != nil {
				slog.Warn("config watcher close failed", "error", err)
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
					continue
				}
				cs.reload()
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				slog.Warn("config watcher error", "error", err)
			}
		}
	}()
	return nil
}

func (cs *configService) reload() {
	cfg, err := cs.LoadFromPath(cs.filePath)
	if err != nil {
		slog.Warn("config reload failed", "path", cs.filePath, "error", err)
		cs.bus.Publish(eventbus.ErrorEvent{Message: "config reload failed", Err: err})
		return
	}
	slog.Info("config reloaded", "path", cs.filePath)
	cs.bus.Publish(eventbus.ConfigChangedEvent{Path: cs.filePath, Config: cfg})
}
