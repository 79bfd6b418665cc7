package windowstate

import (
	"fmt"

	"github.com/1broseidon/winvelocity/internal/coords"
)

// Mode is the interaction mode of the managed window.
type Mode int

const (
	// Static means the OS window position is authoritative; the body follows it.
	Static Mode = iota
	// Dragging means a pointer gesture is in progress; nothing is synchronized.
	Dragging
	// Bouncing means the simulated body is authoritative; the window follows it.
	Bouncing
)

// String returns the string representation of the mode
func (m Mode) String() string {
	switch m {
	case Static:
		return "static"
	case Dragging:
		return "dragging"
	case Bouncing:
		return "bouncing"
	default:
		return "unknown"
	}
}

// Dynamic reports whether the window body is simulated in this mode.
func (m Mode) Dynamic() bool {
	return m == Bouncing
}

// State holds the current mode. Origin is only meaningful while Dragging and holds the
// pointer position captured at gesture start, in window-manager coordinates.
type State struct {
	Mode   Mode
	Origin coords.LogicalPoint
}

// NewState returns the initial state.
func NewState() State {
	return State{Mode: Static}
}

// DraggingFrom returns a Dragging state anchored at origin.
func DraggingFrom(origin coords.LogicalPoint) State {
	return State{Mode: Dragging, Origin: origin}
}

func (s State) String() string {
	if s.Mode == Dragging {
		return fmt.Sprintf("dragging(%.1f,%.1f)", s.Origin.X, s.Origin.Y)
	}
	return s.Mode.String()
}
