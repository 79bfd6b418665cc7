package sim

import (
	"fmt"
	"math"

	"github.com/1broseidon/winvelocity/internal/coords"
	"github.com/1broseidon/winvelocity/internal/physics"
	"github.com/1broseidon/winvelocity/internal/windowstate"
)

// WindowManager is the subset of window-manager operations the loop needs. All values
// are logical pixels in window-manager coordinates.
type WindowManager interface {
	// InnerPosition returns the top-left of the client area.
	InnerPosition() (coords.LogicalPoint, error)
	// InnerSize returns the size of the client area.
	InnerSize() (coords.LogicalSize, error)
	// OuterSize returns the size including decorations.
	OuterSize() (coords.LogicalSize, error)
	// SetOuterPosition moves the window so its outer top-left lands at p.
	SetOuterPosition(p coords.LogicalPoint) error
}

// syncWindowToBody makes the kinematic body follow the OS window.
func syncWindowToBody(conv coords.Converter, wm WindowManager, world *physics.World, dt float64) error {
	pos, err := wm.InnerPosition()
	if err != nil {
		return fmt.Errorf("read window position: %w", err)
	}
	outer, err := wm.OuterSize()
	if err != nil {
		return fmt.Errorf("read window size: %w", err)
	}
	target := conv.ToPhysicsPoint(pos).Add(conv.HalfOffset(outer))
	world.DriveWindow(target, dt)
	return nil
}

// syncBodyToWindow commands the OS window to the simulated body's location and returns
// the position it was sent to.
func syncBodyToWindow(conv coords.Converter, wm WindowManager, world *physics.World) (coords.LogicalPoint, error) {
	outer, err := wm.OuterSize()
	if err != nil {
		return coords.LogicalPoint{}, fmt.Errorf("read window size: %w", err)
	}
	topLeft := world.WindowPosition().Sub(conv.HalfOffset(outer))
	p := conv.ToLogicalWindowPosition(topLeft)
	p.X = math.Round(p.X)
	p.Y = math.Round(p.Y)
	if err := wm.SetOuterPosition(p); err != nil {
		return p, fmt.Errorf("move window: %w", err)
	}
	return p, nil
}

// synchronize runs the per-mode synchronization step. moved is true when the window was
// commanded to a new position.
func synchronize(mode windowstate.Mode, conv coords.Converter, wm WindowManager, world *physics.World, dt float64) (p coords.LogicalPoint, moved bool, err error) {
	switch mode {
	case windowstate.Static:
		return p, false, syncWindowToBody(conv, wm, world, dt)
	case windowstate.Bouncing:
		p, err = syncBodyToWindow(conv, wm, world)
		return p, err == nil, err
	default:
		world.HoldWindow()
		return p, false, nil
	}
}
