package sim

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/1broseidon/winvelocity/internal/coords"
	"github.com/1broseidon/winvelocity/internal/physics"
	"github.com/1broseidon/winvelocity/internal/windowstate"
	"github.com/jakecoffman/cp"
)

const (
	testMonitorW = 1920.0
	testMonitorH = 1080.0
	testScale    = 750.0
)

type fakeWM struct {
	pos     coords.LogicalPoint
	inner   coords.LogicalSize
	outer   coords.LogicalSize
	moves   []coords.LogicalPoint
	moveErr error
	readErr error
}

func (f *fakeWM) InnerPosition() (coords.LogicalPoint, error) { return f.pos, f.readErr }
func (f *fakeWM) InnerSize() (coords.LogicalSize, error)      { return f.inner, f.readErr }
func (f *fakeWM) OuterSize() (coords.LogicalSize, error)      { return f.outer, f.readErr }

func (f *fakeWM) SetOuterPosition(p coords.LogicalPoint) error {
	if f.moveErr != nil {
		return f.moveErr
	}
	f.moves = append(f.moves, p)
	return nil
}

type fakeCursor struct {
	pos coords.LogicalPoint
	ok  bool
}

func (f *fakeCursor) CursorPosition() (coords.LogicalPoint, bool) { return f.pos, f.ok }

type fakeRenderer struct {
	frames []Frame
}

func (f *fakeRenderer) Render(fr Frame) error {
	f.frames = append(f.frames, fr)
	return nil
}

type harness struct {
	conv     coords.Converter
	world    *physics.World
	wm       *fakeWM
	cursor   *fakeCursor
	renderer *fakeRenderer
	loop     *Loop
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	conv := coords.NewConverter(testMonitorH, testScale)
	world := physics.NewWorld(physics.DefaultOptions())
	world.SetMonitorBounds(cp.Vector{}, conv.ToPhysicsVec(coords.LogicalSize{Width: testMonitorW, Height: testMonitorH}))

	wm := &fakeWM{
		pos:   coords.LogicalPoint{X: 600, Y: 300},
		inner: coords.LogicalSize{Width: 600, Height: 400},
		outer: coords.LogicalSize{Width: 600, Height: 430},
	}
	cursor := &fakeCursor{}
	renderer := &fakeRenderer{}

	loop, err := NewLoop(LoopConfig{
		TickRate:   60,
		LaunchGain: DefaultLaunchGain,
		Palette:    windowstate.DefaultPalette(),
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, conv, world, wm, cursor, renderer, nil)
	if err != nil {
		t.Fatalf("NewLoop: %v", err)
	}
	return &harness{conv: conv, world: world, wm: wm, cursor: cursor, renderer: renderer, loop: loop}
}

func (h *harness) tick(t *testing.T, events ...EventKind) {
	t.Helper()
	for _, k := range events {
		h.loop.Queue().Push(Event{Kind: k})
	}
	if err := h.loop.Tick(); err != nil {
		t.Fatalf("Tick: %v", err)
	}
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestLaunchImpulse(t *testing.T) {
	conv := coords.NewConverter(400, testScale)
	imp := LaunchImpulse(conv, coords.LogicalPoint{X: 100, Y: 350}, coords.LogicalPoint{X: 100, Y: 250}, 2)

	if !approx(imp.X, 0) || !approx(imp.Y, 100/testScale*2) {
		t.Fatalf("expected (0, %v), got %v", 100/testScale*2, imp)
	}
}

func TestLaunchImpulse_ZeroDisplacement(t *testing.T) {
	conv := coords.NewConverter(400, testScale)
	p := coords.LogicalPoint{X: 10, Y: 20}
	if imp := LaunchImpulse(conv, p, p, 2); imp != (cp.Vector{}) {
		t.Fatalf("expected zero impulse, got %v", imp)
	}
}

func TestNewLoop_PlacesBodyOverWindow(t *testing.T) {
	h := newHarness(t)

	want := h.conv.ToPhysicsPoint(h.wm.pos).Add(h.conv.HalfOffset(h.wm.outer))
	got := h.world.WindowPosition()
	if !approx(got.X, want.X) || !approx(got.Y, want.Y) {
		t.Fatalf("expected body at %v, got %v", want, got)
	}
	if h.world.Dynamic() {
		t.Fatalf("body must start kinematic")
	}
	if h.loop.State().Mode != windowstate.Static {
		t.Fatalf("expected Static, got %v", h.loop.State())
	}
}

func TestTick_ToggleTwoCycle(t *testing.T) {
	h := newHarness(t)

	h.tick(t, EventToggle)
	if h.loop.State().Mode != windowstate.Bouncing || !h.world.Dynamic() {
		t.Fatalf("expected Bouncing with a dynamic body, got %v dynamic=%v", h.loop.State(), h.world.Dynamic())
	}

	h.tick(t, EventToggle)
	if h.loop.State().Mode != windowstate.Static || h.world.Dynamic() {
		t.Fatalf("expected Static with a kinematic body, got %v dynamic=%v", h.loop.State(), h.world.Dynamic())
	}
}

func TestTick_DragAndLaunch(t *testing.T) {
	h := newHarness(t)

	// Pointer frame is Y-up: 600 from the bottom is WM y=480.
	h.cursor.pos = coords.LogicalPoint{X: 700, Y: 600}
	h.cursor.ok = true
	h.tick(t, EventPress)

	st := h.loop.State()
	if st.Mode != windowstate.Dragging || st.Origin != (coords.LogicalPoint{X: 700, Y: 480}) {
		t.Fatalf("expected Dragging(700,480), got %v", st)
	}
	if h.world.Dynamic() {
		t.Fatalf("body must stay kinematic while dragging")
	}
	if snap := h.loop.Snapshot(); snap.Origin == nil || *snap.Origin != st.Origin {
		t.Fatalf("snapshot origin mismatch: %+v", snap)
	}

	// Release 100px higher on screen.
	h.cursor.pos = coords.LogicalPoint{X: 700, Y: 700}
	h.tick(t, EventRelease)

	if h.loop.State().Mode != windowstate.Bouncing || !h.world.Dynamic() {
		t.Fatalf("expected Bouncing, got %v", h.loop.State())
	}
	v := h.world.WindowVelocity()
	if v.Y <= 0 {
		t.Fatalf("expected upward launch velocity, got %v", v)
	}
	if math.Abs(v.X) > 1e-9 {
		t.Fatalf("expected no horizontal velocity, got %v", v)
	}
}

func TestTick_ReleaseWithoutCursorBouncesWithoutImpulse(t *testing.T) {
	h := newHarness(t)
	h.cursor.ok = true
	h.tick(t, EventPress)

	h.cursor.ok = false
	h.tick(t, EventRelease)

	if h.loop.State().Mode != windowstate.Bouncing {
		t.Fatalf("expected Bouncing, got %v", h.loop.State())
	}
	// Only one step of gravity.
	v := h.world.WindowVelocity()
	if v.Y > 0 || v.Y < -9.81/60-1e-6 {
		t.Fatalf("expected gravity-only velocity, got %v", v)
	}
}

func TestTick_ToggleWhileDraggingBouncesWithoutImpulse(t *testing.T) {
	h := newHarness(t)
	h.cursor.pos = coords.LogicalPoint{X: 700, Y: 600}
	h.cursor.ok = true
	h.tick(t, EventPress)

	// Moving the pointer must not matter: a toggle never launches.
	h.cursor.pos = coords.LogicalPoint{X: 900, Y: 900}
	h.tick(t, EventToggle)

	if h.loop.State().Mode != windowstate.Bouncing || !h.world.Dynamic() {
		t.Fatalf("expected Bouncing with a dynamic body, got %v dynamic=%v", h.loop.State(), h.world.Dynamic())
	}
	v := h.world.WindowVelocity()
	if math.Abs(v.X) > 1e-9 || v.Y > 0 || v.Y < -9.81/60-1e-6 {
		t.Fatalf("expected gravity-only velocity, got %v", v)
	}
}

func TestTick_PressWithoutCursorStaysStatic(t *testing.T) {
	h := newHarness(t)
	h.tick(t, EventPress)
	if h.loop.State().Mode != windowstate.Static {
		t.Fatalf("expected Static, got %v", h.loop.State())
	}
}

func TestTick_StaticFollowsWindow(t *testing.T) {
	h := newHarness(t)
	h.wm.pos = coords.LogicalPoint{X: 650, Y: 250}

	h.tick(t)

	want := h.conv.ToPhysicsPoint(h.wm.pos).Add(h.conv.HalfOffset(h.wm.outer))
	got := h.world.WindowPosition()
	if math.Abs(got.X-want.X) > 1e-9 || math.Abs(got.Y-want.Y) > 1e-9 {
		t.Fatalf("expected body at %v, got %v", want, got)
	}
	if len(h.wm.moves) != 0 {
		t.Fatalf("Static must not move the window, got %v", h.wm.moves)
	}
}

func TestTick_BouncingCommandsWindow(t *testing.T) {
	h := newHarness(t)
	h.tick(t, EventToggle)

	if len(h.wm.moves) != 1 {
		t.Fatalf("expected one move, got %d", len(h.wm.moves))
	}
	// The first sync runs before the body has moved.
	if h.wm.moves[0] != h.wm.pos {
		t.Fatalf("expected first move to %v, got %v", h.wm.pos, h.wm.moves[0])
	}

	for i := 0; i < 30; i++ {
		h.tick(t)
	}
	last := h.wm.moves[len(h.wm.moves)-1]
	if last.Y <= h.wm.pos.Y {
		t.Fatalf("expected the window to fall (y grows), got %v", last)
	}
	if last.X != math.Round(last.X) || last.Y != math.Round(last.Y) {
		t.Fatalf("expected whole pixels, got %v", last)
	}
	if snap := h.loop.Snapshot(); snap.WindowPosition != last {
		t.Fatalf("snapshot window position %v, want %v", snap.WindowPosition, last)
	}
}

func TestTick_DraggingDoesNotSync(t *testing.T) {
	h := newHarness(t)
	h.cursor.ok = true
	h.tick(t, EventPress)

	before := h.world.WindowPosition()
	h.wm.pos = coords.LogicalPoint{X: 10, Y: 10}
	h.tick(t)

	if h.world.WindowPosition() != before {
		t.Fatalf("body moved while dragging")
	}
	if len(h.wm.moves) != 0 {
		t.Fatalf("window moved while dragging")
	}
}

func TestTick_ResizeRebuildsWalls(t *testing.T) {
	h := newHarness(t)
	h.wm.inner = coords.LogicalSize{Width: 640, Height: 480}
	h.wm.outer = coords.LogicalSize{Width: 640, Height: 510}

	h.tick(t, EventResize)

	got := h.world.WallHalfExtents()
	want := cp.Vector{X: 640 / (2 * testScale), Y: 480 / (2 * testScale)}
	if !approx(got.X, want.X) || !approx(got.Y, want.Y) {
		t.Fatalf("expected half extents %v, got %v", want, got)
	}
}

func TestTick_CloseStopsLoop(t *testing.T) {
	h := newHarness(t)
	h.loop.Queue().Push(Event{Kind: EventClose})
	if err := h.loop.Tick(); !errors.Is(err, ErrWindowClosed) {
		t.Fatalf("expected ErrWindowClosed, got %v", err)
	}
}

func TestTick_MoveErrorIsNotFatal(t *testing.T) {
	h := newHarness(t)
	h.wm.moveErr = errors.New("bad window")

	h.tick(t, EventToggle)
	h.tick(t)

	if h.loop.Snapshot().Ticks != 2 {
		t.Fatalf("expected ticks to continue, got %d", h.loop.Snapshot().Ticks)
	}
}

func TestTick_RendersBackgroundPerMode(t *testing.T) {
	h := newHarness(t)
	h.world.AddDecoration(physics.ShapeCircle, 0.02, 0xff0000, h.world.WindowPosition(), physics.Material{})

	h.tick(t)
	h.cursor.ok = true
	h.tick(t, EventPress)
	h.tick(t, EventToggle)

	wantBG := []uint32{windowstate.ColorStatic, windowstate.ColorDragging, windowstate.ColorBouncing}
	if len(h.renderer.frames) != len(wantBG) {
		t.Fatalf("expected %d frames, got %d", len(wantBG), len(h.renderer.frames))
	}
	for i, want := range wantBG {
		if got := h.renderer.frames[i].Background; got != want {
			t.Errorf("frame %d background: got %06x, want %06x", i, got, want)
		}
	}

	f := h.renderer.frames[0]
	if f.Width != 600 || f.Height != 400 || len(f.Shapes) != 1 {
		t.Fatalf("unexpected frame %+v", f)
	}
	s := f.Shapes[0]
	if s.Size != 0.02*testScale || s.Color != 0xff0000 {
		t.Fatalf("unexpected shape %+v", s)
	}
	if s.X < 0 || s.X > f.Width || s.Y < 0 || s.Y > f.Height {
		t.Fatalf("shape outside window: %+v", s)
	}
}

func TestRun_ReturnsOnClose(t *testing.T) {
	h := newHarness(t)
	h.loop.Queue().Push(Event{Kind: EventClose})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := h.loop.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if ctx.Err() != nil {
		t.Fatalf("Run waited for the context instead of the close event")
	}
}

func TestQueue_DrainOrder(t *testing.T) {
	q := NewQueue()
	q.Push(Event{Kind: EventPress})
	q.Push(Event{Kind: EventRelease})
	q.Push(Event{Kind: EventToggle})

	got := q.Drain()
	if len(got) != 3 || got[0].Kind != EventPress || got[1].Kind != EventRelease || got[2].Kind != EventToggle {
		t.Fatalf("unexpected drain %v", got)
	}
	if q.Len() != 0 || q.Drain() != nil {
		t.Fatalf("queue not empty after drain")
	}
}
