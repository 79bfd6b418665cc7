package sim

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/1broseidon/winvelocity/internal/coords"
	"github.com/1broseidon/winvelocity/internal/physics"
	"github.com/1broseidon/winvelocity/internal/windowstate"
	"github.com/jakecoffman/cp"
)

// ErrWindowClosed is returned by Tick once a close event has been processed.
var ErrWindowClosed = errors.New("window closed")

// Cursor reports the pointer position in the pointer frame (Y-up, unscaled, origin at
// the monitor's bottom edge). ok is false when the position is unavailable.
type Cursor interface {
	CursorPosition() (p coords.LogicalPoint, ok bool)
}

// Snapshot is a point-in-time view of the loop, safe to hand to other goroutines.
type Snapshot struct {
	Mode           string               `json:"mode"`
	Dynamic        bool                 `json:"dynamic"`
	Origin         *coords.LogicalPoint `json:"origin,omitempty"`
	Position       cp.Vector            `json:"position"`
	Velocity       cp.Vector            `json:"velocity"`
	WindowPosition coords.LogicalPoint  `json:"window_position"`
	Ticks          uint64               `json:"ticks"`
	Decorations    int                  `json:"decorations"`
}

// LoopConfig holds configuration for the loop.
type LoopConfig struct {
	TickRate   int
	LaunchGain float64
	Palette    windowstate.Palette
	Logger     *slog.Logger
}

// Loop owns the interaction state and runs the per-tick pipeline: drain events, apply
// transitions, rebuild colliders on resize, synchronize, step, render.
type Loop struct {
	conv     coords.Converter
	world    *physics.World
	wm       WindowManager
	cursor   Cursor
	renderer Renderer
	queue    *Queue

	dt      float64
	gain    float64
	palette windowstate.Palette
	logger  *slog.Logger

	state     windowstate.State
	inner     coords.LogicalSize
	commanded coords.LogicalPoint
	ticks     uint64

	mu   sync.RWMutex
	snap Snapshot
}

// NewLoop creates a loop and sizes the window colliders from the current geometry. The
// body starts kinematic, placed over the window.
func NewLoop(cfg LoopConfig, conv coords.Converter, world *physics.World, wm WindowManager, cursor Cursor, renderer Renderer, queue *Queue) (*Loop, error) {
	rate := cfg.TickRate
	if rate <= 0 {
		rate = 60
	}
	gain := cfg.LaunchGain
	if gain == 0 {
		gain = DefaultLaunchGain
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if queue == nil {
		queue = NewQueue()
	}

	l := &Loop{
		conv:     conv,
		world:    world,
		wm:       wm,
		cursor:   cursor,
		renderer: renderer,
		queue:    queue,
		dt:       1 / float64(rate),
		gain:     gain,
		palette:  cfg.Palette,
		logger:   logger,
		state:    windowstate.NewState(),
	}

	if err := l.rebuild(); err != nil {
		return nil, err
	}
	pos, err := wm.InnerPosition()
	if err != nil {
		return nil, fmt.Errorf("read window position: %w", err)
	}
	outer, err := wm.OuterSize()
	if err != nil {
		return nil, fmt.Errorf("read window size: %w", err)
	}
	world.PlaceWindow(conv.ToPhysicsPoint(pos).Add(conv.HalfOffset(outer)))
	l.commanded = pos
	l.publish()
	return l, nil
}

// Queue returns the loop's event queue.
func (l *Loop) Queue() *Queue {
	return l.queue
}

// Toggle requests a Static/Bouncing toggle on the next tick.
func (l *Loop) Toggle() {
	l.queue.Push(Event{Kind: EventToggle})
}

// State returns the current interaction state. Only call from the loop goroutine.
func (l *Loop) State() windowstate.State {
	return l.state
}

// Snapshot returns the state published by the most recent tick.
func (l *Loop) Snapshot() Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.snap
}

// Run ticks at the configured rate until ctx is cancelled or the window closes.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Duration(l.dt * float64(time.Second)))
	defer ticker.Stop()

	l.logger.Info("simulation started", "tick_rate", int(1/l.dt+0.5), "decorations", len(l.world.Decorations()))

	for {
		select {
		case <-ctx.Done():
			l.logger.Info("simulation stopped")
			return nil
		case <-ticker.C:
			if err := l.safeTick(); err != nil {
				if errors.Is(err, ErrWindowClosed) {
					l.logger.Info("window closed, stopping simulation")
					return nil
				}
				return err
			}
		}
	}
}

func (l *Loop) safeTick() (err error) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("tick panic recovered", "error", r)
		}
	}()
	return l.Tick()
}

// Tick runs one pass of the pipeline.
func (l *Loop) Tick() error {
	closed := false
	resized := false

	for _, ev := range l.queue.Drain() {
		switch ev.Kind {
		case EventToggle:
			l.apply(windowstate.InputToggle)
		case EventPress:
			l.apply(windowstate.InputPress)
		case EventRelease:
			l.apply(windowstate.InputRelease)
		case EventResize:
			resized = true
		case EventClose:
			closed = true
		}
	}

	if resized {
		if err := l.rebuild(); err != nil {
			l.logger.Warn("failed to rebuild window colliders", "error", err)
		}
	}

	p, moved, err := synchronize(l.state.Mode, l.conv, l.wm, l.world, l.dt)
	if err != nil {
		l.logger.Warn("window sync failed", "mode", l.state.Mode, "error", err)
	}
	if moved {
		l.commanded = p
	}

	l.world.Step(l.dt)
	l.ticks++

	if l.renderer != nil {
		frame := buildFrame(l.conv, l.world, l.inner, l.palette.Background(l.state.Mode))
		if err := l.renderer.Render(frame); err != nil {
			l.logger.Warn("render failed", "error", err)
		}
	}

	l.publish()

	if closed {
		return ErrWindowClosed
	}
	return nil
}

// apply runs one transition and its side effects. The body type changes only when the
// mode does.
func (l *Loop) apply(in windowstate.Input) {
	var cur windowstate.Cursor
	if in != windowstate.InputToggle && l.cursor != nil {
		cur.Pos, cur.OK = l.cursor.CursorPosition()
	}

	prev := l.state
	res := windowstate.Transition(l.conv, prev, in, cur)
	l.state = res.Next

	if res.CursorMissing {
		l.logger.Debug("cursor position unavailable", "input", in, "state", prev)
	}
	if !res.ModeChanged(prev) {
		if res.Next != prev {
			l.logger.Debug("drag re-anchored", "state", res.Next)
		}
		return
	}

	l.world.SetDynamic(res.Next.Mode.Dynamic())
	if res.Launch {
		impulse := LaunchImpulse(l.conv, res.Origin, res.Current, l.gain)
		l.world.ApplyImpulse(impulse)
		l.logger.Debug("launch", "origin", res.Origin, "current", res.Current, "impulse", impulse)
	}
	l.logger.Info("state changed", "from", prev, "to", res.Next, "input", in)
}

// rebuild re-reads the window geometry and replaces the window colliders.
func (l *Loop) rebuild() error {
	inner, err := l.wm.InnerSize()
	if err != nil {
		return fmt.Errorf("read inner size: %w", err)
	}
	outer, err := l.wm.OuterSize()
	if err != nil {
		return fmt.Errorf("read outer size: %w", err)
	}
	l.world.RebuildWindow(l.conv.ToPhysicsVec(inner), l.conv.ToPhysicsVec(outer))
	l.inner = inner
	l.logger.Debug("window colliders rebuilt",
		"inner_width", inner.Width,
		"inner_height", inner.Height,
		"half_extents", l.world.WallHalfExtents())
	return nil
}

func (l *Loop) publish() {
	snap := Snapshot{
		Mode:           l.state.Mode.String(),
		Dynamic:        l.world.Dynamic(),
		Position:       l.world.WindowPosition(),
		Velocity:       l.world.WindowVelocity(),
		WindowPosition: l.commanded,
		Ticks:          l.ticks,
		Decorations:    len(l.world.Decorations()),
	}
	if l.state.Mode == windowstate.Dragging {
		origin := l.state.Origin
		snap.Origin = &origin
	}

	l.mu.Lock()
	l.snap = snap
	l.mu.Unlock()
}
