package coords

import "github.com/jakecoffman/cp"

// LogicalPoint is a position in window-manager logical pixels (origin top-left, Y-down).
type LogicalPoint struct {
	X float64
	Y float64
}

// LogicalSize is a width/height pair in logical pixels.
type LogicalSize struct {
	Width  float64
	Height float64
}

// Converter translates between window-manager coordinates and the physics frame
// (meters, Y-up, origin at the monitor's bottom edge).
//
// A Converter is created once at startup from the primary monitor and never mutated.
type Converter struct {
	MonitorHeight float64 // logical pixels
	Scale         float64 // pixels per meter
}

// NewConverter returns a converter for a monitor of the given logical height.
func NewConverter(monitorHeight, pixelsPerMeter float64) Converter {
	return Converter{MonitorHeight: monitorHeight, Scale: pixelsPerMeter}
}

// Flip reflects the vertical coordinate across the monitor height.
func (c Converter) Flip(p LogicalPoint) LogicalPoint {
	p.Y = c.MonitorHeight - p.Y
	return p
}

// ToPhysicsPoint converts a window-manager point into a physics-space point.
func (c Converter) ToPhysicsPoint(p LogicalPoint) cp.Vector {
	f := c.Flip(p)
	return c.ToPhysicsVec(LogicalSize{Width: f.X, Height: f.Y})
}

// ToPhysicsVec scales a logical size into meters. Sizes have no orientation, so no flip.
func (c Converter) ToPhysicsVec(s LogicalSize) cp.Vector {
	return cp.Vector{X: s.Width / c.Scale, Y: s.Height / c.Scale}
}

// ToLogicalSize is the inverse of ToPhysicsVec.
func (c Converter) ToLogicalSize(v cp.Vector) LogicalSize {
	return LogicalSize{Width: v.X * c.Scale, Height: v.Y * c.Scale}
}

// ToLogicalWindowPosition is the inverse of ToPhysicsPoint. It is used to command the
// window to a physics-computed location.
func (c Converter) ToLogicalWindowPosition(v cp.Vector) LogicalPoint {
	s := c.ToLogicalSize(v)
	return c.Flip(LogicalPoint{X: s.Width, Y: s.Height})
}

// FromPointer converts a pointer-frame position (Y-up, unscaled) into window-manager
// logical coordinates.
func (c Converter) FromPointer(p LogicalPoint) LogicalPoint {
	return c.Flip(p)
}

// HalfOffset returns the vector from a window's top-left corner to its centre in physics
// space. Outer size is measured Y-down while the body is Y-up, hence the negative Y.
func (c Converter) HalfOffset(outer LogicalSize) cp.Vector {
	size := c.ToPhysicsVec(outer)
	return cp.Vector{X: size.X / 2, Y: -size.Y / 2}
}
