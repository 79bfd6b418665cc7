// Package daemon wires the X11 backend, physics world and simulation loop into the
// running application.
package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/1broseidon/winvelocity/internal/config"
	"github.com/1broseidon/winvelocity/internal/coords"
	"github.com/1broseidon/winvelocity/internal/input"
	"github.com/1broseidon/winvelocity/internal/ipc"
	"github.com/1broseidon/winvelocity/internal/physics"
	"github.com/1broseidon/winvelocity/internal/platform"
	"github.com/1broseidon/winvelocity/internal/render"
	"github.com/1broseidon/winvelocity/internal/runtimepath"
	"github.com/1broseidon/winvelocity/internal/sim"
	"github.com/1broseidon/winvelocity/internal/windowstate"
)

// Options configures Run.
type Options struct {
	Config     *config.Config
	Logger     *slog.Logger
	SocketPath string // empty: runtimepath.SocketPath
	// DisplayCheckInterval controls how often monitor changes are looked for; 0 uses
	// the default, negative disables the check.
	DisplayCheckInterval time.Duration
}

// Run opens the window and drives the simulation until ctx is cancelled or the window
// is closed.
func Run(ctx context.Context, opts Options) error {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	palette, err := paletteFromConfig(cfg)
	if err != nil {
		return err
	}
	decoOpts, err := decorationOptions(cfg)
	if err != nil {
		return err
	}

	backend, err := platform.NewLinuxBackendFromDisplay(cfg.Display, cfg.ScaleFactor)
	if err != nil {
		return err
	}
	defer backend.Disconnect()

	primary, err := backend.PrimaryDisplay()
	if err != nil {
		return fmt.Errorf("no primary monitor: %w", err)
	}
	monPos, monSize, flip := monitorFrame(primary, cfg.ScaleFactor)
	conv := coords.NewConverter(flip, cfg.PixelsPerMeter)
	backend.SetFlipHeight(flip)
	logger.Info("primary monitor",
		"name", primary.Name,
		"bounds", primary.Bounds,
		"flip_height", flip,
		"pixels_per_meter", cfg.PixelsPerMeter)

	size := coords.LogicalSize{Width: float64(cfg.Width), Height: float64(cfg.Height)}
	if err := backend.OpenWindow(cfg.Title, centerWindow(monPos, monSize, size), size, palette.Static); err != nil {
		return fmt.Errorf("failed to open window: %w", err)
	}

	world := physics.NewWorld(worldOptions(cfg))
	world.SetMonitorBounds(
		conv.ToPhysicsPoint(coords.LogicalPoint{X: monPos.X, Y: flip}),
		conv.ToPhysicsVec(monSize),
	)

	queue := sim.NewQueue()
	handler := input.NewHandler(backend.XUtil(), backend.Window(), queue, logger)
	if err := handler.BindToggle(cfg.ToggleKey); err != nil {
		return err
	}
	if err := handler.BindDrag(cfg.DragButton); err != nil {
		return err
	}
	if err := handler.WatchWindow(); err != nil {
		return err
	}

	painter, err := render.NewPainter(backend.XUtil(), backend.Window())
	if err != nil {
		return fmt.Errorf("failed to create painter: %w", err)
	}
	defer painter.Close()

	loop, err := sim.NewLoop(sim.LoopConfig{
		TickRate:   cfg.TickRate,
		LaunchGain: cfg.LaunchGain,
		Palette:    palette,
		Logger:     logger,
	}, conv, world, backend, backend, painter, queue)
	if err != nil {
		return fmt.Errorf("failed to start simulation: %w", err)
	}

	seed := seedFor(cfg.Seed, time.Now())
	world.SpawnDecorations(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)), cfg.Decorations, decoOpts)
	logger.Debug("decorations spawned", "count", cfg.Decorations, "seed", seed)

	socketPath := opts.SocketPath
	if socketPath == "" {
		if socketPath, err = runtimepath.SocketPath(); err != nil {
			return fmt.Errorf("failed to resolve IPC socket path: %w", err)
		}
	}
	server, err := ipc.NewServer(socketPath, loop, backend, logger)
	if err != nil {
		return err
	}
	if err := server.Start(); err != nil {
		return err
	}
	defer server.Stop()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if opts.DisplayCheckInterval >= 0 {
		watcher := NewDisplayWatcher(DisplayWatcherConfig{
			Interval: opts.DisplayCheckInterval,
			Logger:   logger,
		}, backend, primary)
		go watcher.Run(ctx)
	}

	go backend.EventLoop()
	defer backend.StopEventLoop()

	return loop.Run(ctx)
}

// monitorFrame returns the monitor's logical origin and size, and the logical Y of its
// bottom edge, which anchors both the physics frame and the pointer frame.
func monitorFrame(d platform.Display, scaleFactor float64) (coords.LogicalPoint, coords.LogicalSize, float64) {
	pos, size := platform.LogicalRect(d.Bounds, scaleFactor)
	return pos, size, pos.Y + size.Height
}

func centerWindow(monPos coords.LogicalPoint, monSize, size coords.LogicalSize) coords.LogicalPoint {
	return coords.LogicalPoint{
		X: monPos.X + (monSize.Width-size.Width)/2,
		Y: monPos.Y + (monSize.Height-size.Height)/2,
	}
}

func worldOptions(cfg *config.Config) physics.Options {
	opts := physics.DefaultOptions()
	opts.Gravity = cfg.Gravity
	opts.WallDepth = cfg.WallDepth
	opts.WindowDensity = cfg.Window.Density
	opts.WindowMaterial = physics.Material{
		Friction:    cfg.Window.Friction,
		Restitution: cfg.Window.Restitution,
	}
	return opts
}

func decorationOptions(cfg *config.Config) (physics.DecorationOptions, error) {
	colors, err := cfg.ShapePalette()
	if err != nil {
		return physics.DecorationOptions{}, err
	}
	return physics.DecorationOptions{
		MinSize: cfg.Shapes.MinSize,
		MaxSize: cfg.Shapes.MaxSize,
		Material: physics.Material{
			Friction:    cfg.Shapes.Friction,
			Restitution: cfg.Shapes.Restitution,
		},
		Palette: colors,
	}, nil
}

func paletteFromConfig(cfg *config.Config) (windowstate.Palette, error) {
	static, dragging, bouncing, err := cfg.Backgrounds()
	if err != nil {
		return windowstate.Palette{}, err
	}
	return windowstate.Palette{Static: static, Dragging: dragging, Bouncing: bouncing}, nil
}

// seedFor returns the configured seed, or a time-derived one when it is 0.
func seedFor(configured uint64, now time.Time) uint64 {
	if configured != 0 {
		return configured
	}
	return uint64(now.UnixNano())
}
