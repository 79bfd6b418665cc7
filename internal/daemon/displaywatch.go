package daemon

import (
	"context"
	"log/slog"
	"time"

	"github.com/1broseidon/winvelocity/internal/platform"
)

// DisplayLister returns the current displays.
type DisplayLister interface {
	Displays() ([]platform.Display, error)
}

// DisplayWatcherConfig holds configuration for the display watcher.
type DisplayWatcherConfig struct {
	Interval time.Duration
	Logger   *slog.Logger
	// OnChange is called with the new primary display when it differs from the one
	// the simulation was calibrated against.
	OnChange func(platform.Display)
}

// DisplayWatcher periodically checks whether the primary monitor still matches the
// one the coordinate frame was built from. The frame is fixed for the process
// lifetime, so a change is only reported.
type DisplayWatcher struct {
	interval time.Duration
	lister   DisplayLister
	baseline platform.Display
	logger   *slog.Logger
	onChange func(platform.Display)
	reported bool
}

// NewDisplayWatcher creates a watcher comparing against baseline.
func NewDisplayWatcher(cfg DisplayWatcherConfig, lister DisplayLister, baseline platform.Display) *DisplayWatcher {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &DisplayWatcher{
		interval: interval,
		lister:   lister,
		baseline: baseline,
		logger:   logger,
		onChange: cfg.OnChange,
	}
}

// Run checks on every interval. Blocks until context is cancelled.
func (w *DisplayWatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.check()
		}
	}
}

// CheckNow runs one comparison immediately.
func (w *DisplayWatcher) CheckNow() {
	w.check()
}

func (w *DisplayWatcher) check() {
	defer func() {
		if err := recover(); err != nil {
			w.logger.Error("display watcher panic recovered", "error", err)
		}
	}()

	displays, err := w.lister.Displays()
	if err != nil {
		w.logger.Warn("display watcher: failed to list displays", "error", err)
		return
	}

	current, ok := primaryOf(displays)
	if !ok {
		w.logger.Warn("display watcher: no displays reported")
		return
	}

	if current.Bounds == w.baseline.Bounds && current.Name == w.baseline.Name {
		w.reported = false
		return
	}
	if w.reported {
		return
	}
	w.reported = true

	w.logger.Warn("primary monitor changed; restart to recalibrate the physics frame",
		"was", w.baseline.Name,
		"was_bounds", w.baseline.Bounds,
		"now", current.Name,
		"now_bounds", current.Bounds)
	if w.onChange != nil {
		w.onChange(current)
	}
}

func primaryOf(displays []platform.Display) (platform.Display, bool) {
	if len(displays) == 0 {
		return platform.Display{}, false
	}
	for _, d := range displays {
		if d.Primary {
			return d, true
		}
	}
	return displays[0], true
}
