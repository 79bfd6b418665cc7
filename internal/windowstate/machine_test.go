package windowstate

import (
	"testing"

	"github.com/1broseidon/winvelocity/internal/coords"
)

var conv = coords.NewConverter(400, 750)

func cursorAt(x, y float64) Cursor {
	return Cursor{Pos: coords.LogicalPoint{X: x, Y: y}, OK: true}
}

func TestTransition_ToggleTwoCycle(t *testing.T) {
	s := NewState()
	if s.Mode != Static {
		t.Fatalf("expected initial mode static, got %v", s.Mode)
	}

	r := Transition(conv, s, InputToggle, Cursor{})
	if r.Next.Mode != Bouncing {
		t.Fatalf("expected bouncing after first toggle, got %v", r.Next.Mode)
	}
	if !r.ModeChanged(s) {
		t.Fatalf("expected mode change")
	}

	r2 := Transition(conv, r.Next, InputToggle, Cursor{})
	if r2.Next.Mode != Static {
		t.Fatalf("expected static after second toggle, got %v", r2.Next.Mode)
	}
}

func TestTransition_PressCapturesFlippedOrigin(t *testing.T) {
	r := Transition(conv, NewState(), InputPress, cursorAt(100, 50))
	if r.Next.Mode != Dragging {
		t.Fatalf("expected dragging, got %v", r.Next.Mode)
	}
	want := coords.LogicalPoint{X: 100, Y: 350}
	if r.Next.Origin != want {
		t.Fatalf("expected origin %v, got %v", want, r.Next.Origin)
	}
	if r.Launch || r.CursorMissing {
		t.Fatalf("press must not launch or report a missing cursor: %+v", r)
	}
}

func TestTransition_PressWithoutCursorKeepsState(t *testing.T) {
	for _, start := range []State{{Mode: Static}, {Mode: Bouncing}} {
		r := Transition(conv, start, InputPress, Cursor{})
		if r.Next != start {
			t.Fatalf("expected %v unchanged, got %v", start, r.Next)
		}
		if !r.CursorMissing {
			t.Fatalf("expected CursorMissing from %v", start)
		}
	}
}

func TestTransition_ReleaseLaunches(t *testing.T) {
	start := DraggingFrom(coords.LogicalPoint{X: 100, Y: 350})
	// Pointer-frame (100,150) is logical (100,250).
	r := Transition(conv, start, InputRelease, cursorAt(100, 150))
	if r.Next.Mode != Bouncing {
		t.Fatalf("expected bouncing, got %v", r.Next.Mode)
	}
	if !r.Launch {
		t.Fatalf("expected launch")
	}
	if r.Origin != start.Origin {
		t.Fatalf("expected origin %v, got %v", start.Origin, r.Origin)
	}
	if r.Current != (coords.LogicalPoint{X: 100, Y: 250}) {
		t.Fatalf("expected current (100,250), got %v", r.Current)
	}
}

func TestTransition_ReleaseWithoutCursorStillBounces(t *testing.T) {
	start := DraggingFrom(coords.LogicalPoint{X: 10, Y: 20})
	r := Transition(conv, start, InputRelease, Cursor{})
	if r.Next.Mode != Bouncing {
		t.Fatalf("expected bouncing, got %v", r.Next.Mode)
	}
	if r.Launch {
		t.Fatalf("expected no launch without cursor")
	}
	if !r.CursorMissing {
		t.Fatalf("expected CursorMissing")
	}
}

func TestTransition_EdgeCases(t *testing.T) {
	tests := []struct {
		name  string
		start State
		in    Input
		want  Mode
	}{
		{"release while static", State{Mode: Static}, InputRelease, Static},
		{"release while bouncing", State{Mode: Bouncing}, InputRelease, Bouncing},
		{"toggle while dragging", DraggingFrom(coords.LogicalPoint{}), InputToggle, Bouncing},
		{"press while bouncing", State{Mode: Bouncing}, InputPress, Dragging},
		{"press while dragging", DraggingFrom(coords.LogicalPoint{X: 1, Y: 1}), InputPress, Dragging},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Transition(conv, tt.start, tt.in, cursorAt(5, 5))
			if r.Next.Mode != tt.want {
				t.Errorf("got %v, want %v", r.Next.Mode, tt.want)
			}
			if r.Launch {
				t.Errorf("unexpected launch")
			}
		})
	}
}

func TestTransition_RedragReanchorsWithoutModeChange(t *testing.T) {
	start := DraggingFrom(coords.LogicalPoint{X: 1, Y: 1})
	r := Transition(conv, start, InputPress, cursorAt(20, 100))
	if r.ModeChanged(start) {
		t.Fatalf("re-anchoring a drag must not count as a mode change")
	}
	if r.Next.Origin != (coords.LogicalPoint{X: 20, Y: 300}) {
		t.Fatalf("expected new origin (20,300), got %v", r.Next.Origin)
	}
}

func TestPalette_Background(t *testing.T) {
	p := DefaultPalette()
	if p.Background(Bouncing) != ColorBouncing {
		t.Errorf("bouncing: got %06x", p.Background(Bouncing))
	}
	if p.Background(Dragging) != ColorDragging {
		t.Errorf("dragging: got %06x", p.Background(Dragging))
	}
	if p.Background(Static) != ColorStatic {
		t.Errorf("static: got %06x", p.Background(Static))
	}
}

func TestModeString(t *testing.T) {
	if Static.String() != "static" || Dragging.String() != "dragging" || Bouncing.String() != "bouncing" {
		t.Fatalf("unexpected mode strings")
	}
	if Mode(42).String() != "unknown" {
		t.Fatalf("expected unknown")
	}
}
