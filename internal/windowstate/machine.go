package windowstate

import "github.com/1broseidon/winvelocity/internal/coords"

// Input is a discrete input event that can drive a transition.
type Input int

const (
	// InputToggle is the physics toggle key (Space by default).
	InputToggle Input = iota
	// InputPress is a drag-button press.
	InputPress
	// InputRelease is a drag-button release.
	InputRelease
)

func (i Input) String() string {
	switch i {
	case InputToggle:
		return "toggle"
	case InputPress:
		return "press"
	case InputRelease:
		return "release"
	default:
		return "unknown"
	}
}

// Cursor is a pointer position sample in the pointer frame (Y-up, unscaled).
// OK is false when the position could not be queried.
type Cursor struct {
	Pos coords.LogicalPoint
	OK  bool
}

// Result describes the outcome of one transition.
type Result struct {
	Next State
	// Launch is set when a drag ended with a known cursor position. Origin and
	// Current are window-manager coordinates of the gesture start and end.
	Launch  bool
	Origin  coords.LogicalPoint
	Current coords.LogicalPoint
	// CursorMissing is set when the input needed a cursor position and none was
	// available.
	CursorMissing bool
}

// ModeChanged reports whether the transition switched modes. Re-anchoring a drag is
// not a mode change.
func (r Result) ModeChanged(prev State) bool {
	return r.Next.Mode != prev.Mode
}

// Transition applies a single input to s.
func Transition(conv coords.Converter, s State, in Input, cursor Cursor) Result {
	switch in {
	case InputToggle:
		if s.Mode == Bouncing {
			return Result{Next: State{Mode: Static}}
		}
		return Result{Next: State{Mode: Bouncing}}

	case InputPress:
		if !cursor.OK {
			return Result{Next: s, CursorMissing: true}
		}
		return Result{Next: DraggingFrom(conv.FromPointer(cursor.Pos))}

	case InputRelease:
		if s.Mode != Dragging {
			return Result{Next: s}
		}
		next := State{Mode: Bouncing}
		if !cursor.OK {
			return Result{Next: next, CursorMissing: true}
		}
		return Result{
			Next:    next,
			Launch:  true,
			Origin:  s.Origin,
			Current: conv.FromPointer(cursor.Pos),
		}
	}
	return Result{Next: s}
}
