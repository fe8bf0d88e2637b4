package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/gwutama/unitman/internal/config"
)

// ReloadHandler is called when a configuration file change is detected
type ReloadHandler func() error

// Watcher watches configuration files for changes and triggers reload
type Watcher struct {
	configPath string
	handler    ReloadHandler
	logger     *slog.Logger
	watcher    *fsnotify.Watcher
	mu         sync.Mutex
	lastReload time.Time
	debounce   time.Duration
}

// Config holds watcher configuration
type Config struct {
	ConfigPath string
	Handler    ReloadHandler
	Logger     *slog.Logger
	Debounce   time.Duration // Debounce period to avoid multiple rapid reloads
}

// New creates a new configuration file watcher
func New(cfg Config) (*Watcher, error) {
	if cfg.ConfigPath == "" {
		return nil, fmt.Errorf("config path is required")
	}
	if cfg.Handler == nil {
		return nil, fmt.Errorf("reload handler is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Debounce == 0 {
		cfg.Debounce = 1 * time.Second // Default 1 second debounce
	}

	// Create fsnotify watcher
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	// Get absolute path
	absPath, err := filepath.Abs(cfg.ConfigPath)
	if err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	w := &Watcher{
		configPath: absPath,
		handler:    cfg.Handler,
		logger:     cfg.Logger,
		watcher:    fsWatcher,
		debounce:   cfg.Debounce,
	}

	return w, nil
}

// Start begins watching the configuration file for changes
func (w *Watcher) Start(ctx context.Context) error {
	// Add the config file to the watcher
	if err := w.watcher.Add(w.configPath); err != nil {
		return fmt.Errorf("failed to watch config file: %w", err)
	}

	w.logger.Info("Config watcher started",
		"path", w.configPath,
		"debounce", w.debounce)

	go w.watchLoop(ctx)

	return nil
}

// watchLoop is the main event loop for file watching
func (w *Watcher) watchLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.logger.Debug("Config watcher stopped")
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				w.logger.Warn("Config watcher events channel closed")
				return
			}

			// Only handle Write and Create events
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				w.handleFileChange(event)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				w.logger.Warn("Config watcher errors channel closed")
				return
			}
			w.logger.Warn("Config watcher error", "error", err)
		}
	}
}

// handleFileChange processes a file change event with debouncing
func (w *Watcher) handleFileChange(event fsnotify.Event) {
	w.mu.Lock()
	defer w.mu.Unlock()

	// Debounce: ignore if last reload was too recent
	if time.Since(w.lastReload) < w.debounce {
		w.logger.Debug("Config change debounced",
			"event", event.Op.String(),
			"since_last_reload", time.Since(w.lastReload))
		return
	}

	w.logger.Info("Config file changed, triggering reload",
		"path", event.Name,
		"event", event.Op.String())

	// Call the reload handler
	if err := w.handler(); err != nil {
		w.logger.Error("Config reload failed", "error", err)
		// Don't update lastReload on failure to allow retry
		return
	}

	w.lastReload = time.Now()
	w.logger.Info("Config reload successful")
}

// Stop stops the file watcher
func (w *Watcher) Stop() error {
	w.logger.Debug("Stopping config watcher")
	return w.watcher.Close()
}

// NewConfigReloadWatcher builds a Watcher whose reload handler actually
// re-parses and validates the unitman TOML file at path, instead of just
// logging that it changed. A successful reparse invokes onReload with
// the freshly loaded configuration; a parse or validation failure
// invokes onInvalid and propagates the error to the underlying Watcher,
// so handleFileChange's debounce-retry-on-failure behavior applies here
// too — an invalid edit is retried on the next change rather than
// silently given up on.
//
// No unit is ever reconstructed from the reloaded configuration: per the
// "no automatic reload of running units" semantics, the reload is
// consumed only by whatever onReload chooses to do with it (typically
// clearing runtime restart-policy demotions).
func NewConfigReloadWatcher(path string, onReload func(*config.Config), onInvalid func(error), logger *slog.Logger) (*Watcher, error) {
	return New(Config{
		ConfigPath: path,
		Logger:     logger,
		Handler: func() error {
			cfg, err := config.Load(path)
			if err != nil {
				if onInvalid != nil {
					onInvalid(err)
				}
				return err
			}
			if onReload != nil {
				onReload(cfg)
			}
			return nil
		},
	})
}
