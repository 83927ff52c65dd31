package cssmodules

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch runs Transform once, then again whenever a file in a directory of a
// matched module changes. Bursts of events are debounced by
// config.Debounce. onResult receives every run's result or error; a run
// error does not stop watching. Watch returns when ctx is done.
func Watch(ctx context.Context, config TransformConfig, onResult func(*TransformResult, error)) error {
	if err := config.Module.Validate(); err != nil {
		return err
	}
	workDir, err := resolveWorkDir(config.WorkingDir)
	if err != nil {
		return err
	}
	config.WorkingDir = workDir

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	debounce := config.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	outputDir := config.OutputDir
	if outputDir != "" && !filepath.IsAbs(outputDir) {
		outputDir = filepath.Join(workDir, outputDir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	watched := make(map[string]bool)
	run := func() {
		result, err := Transform(ctx, config)
		if err == nil {
			watchDirs(watcher, watched, workDir, result, logger)
		}
		onResult(result, err)
	}

	// new modules directly under the working directory also trigger a run
	watchDir(watcher, watched, workDir, logger)
	run()
	logger.Info("Watching for changes", "dir", workDir)

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isRelevantEvent(event, outputDir) {
				continue
			}
			logger.Debug("File change detected", "file", event.Name, "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("File watcher error", "error", err)

		case <-fire:
			fire = nil
			run()
		}
	}
}

// isRelevantEvent drops chmod-only events and writes into the output tree
func isRelevantEvent(event fsnotify.Event, outputDir string) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	if outputDir != "" && isWithin(outputDir, event.Name) {
		return false
	}
	return true
}

// watchDirs adds the directory of every scanned module
func watchDirs(watcher *fsnotify.Watcher, watched map[string]bool, workDir string, result *TransformResult, logger *slog.Logger) {
	for _, file := range result.Files {
		path := file.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(workDir, path)
		}
		watchDir(watcher, watched, filepath.Dir(path), logger)
	}
}

func watchDir(watcher *fsnotify.Watcher, watched map[string]bool, dir string, logger *slog.Logger) {
	if watched[dir] {
		return
	}
	if err := watcher.Add(dir); err != nil {
		logger.Warn("Failed to watch directory", "dir", dir, "error", err)
		return
	}
	watched[dir] = true
}
