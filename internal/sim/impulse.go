package sim

import (
	"github.com/1broseidon/winvelocity/internal/coords"
	"github.com/jakecoffman/cp"
)

// DefaultLaunchGain multiplies the drag displacement (meters) into an impulse.
const DefaultLaunchGain = 2.0

// LaunchImpulse returns the impulse for a drag gesture from origin to current, both in
// window-manager coordinates. Dragging upward on screen yields a positive Y impulse.
func LaunchImpulse(conv coords.Converter, origin, current coords.LogicalPoint, gain float64) cp.Vector {
	start := conv.ToPhysicsPoint(origin)
	end := conv.ToPhysicsPoint(current)
	return end.Sub(start).Mult(gain)
}
