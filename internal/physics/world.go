package physics

import (
	"math"

	"github.com/jakecoffman/cp"
)

// Material holds contact properties shared by a group of colliders.
type Material struct {
	Friction    float64
	Restitution float64
}

// Options configures a World. Lengths are in meters.
type Options struct {
	Gravity        float64
	WallDepth      float64
	WindowDensity  float64
	WindowMaterial Material
	Iterations     uint
}

// DefaultOptions returns the stock world settings.
func DefaultOptions() Options {
	return Options{
		Gravity:        -9.81,
		WallDepth:      10,
		WindowDensity:  1,
		WindowMaterial: Material{Friction: 0.8, Restitution: 0.3},
		Iterations:     10,
	}
}

// World owns the physics space: the window surrogate body with its colliders, the
// monitor boundary, and the decorations.
type World struct {
	space *cp.Space
	opts  Options

	window    *cp.Body
	windowBox *cp.Shape
	walls     *Boundary
	monitor   *Boundary
	outer     cp.Vector

	decorations []*Decoration
}

// NewWorld creates a world with a kinematic window body at the origin. Call
// RebuildWindow before stepping.
func NewWorld(opts Options) *World {
	if opts.WallDepth <= 0 {
		opts.WallDepth = DefaultOptions().WallDepth
	}
	if opts.WindowDensity <= 0 {
		opts.WindowDensity = DefaultOptions().WindowDensity
	}

	space := cp.NewSpace()
	space.SetGravity(cp.Vector{X: 0, Y: opts.Gravity})
	// Shapes are centimetre scale; the default slop would let them sink visibly.
	space.SetCollisionSlop(0.001)
	if opts.Iterations > 0 {
		space.Iterations = opts.Iterations
	}

	window := space.AddBody(cp.NewKinematicBody())

	return &World{
		space:  space,
		opts:   opts,
		window: window,
	}
}

// SetMonitorBounds replaces the static monitor boundary. bottomLeft and size are in
// physics space.
func (w *World) SetMonitorBounds(bottomLeft, size cp.Vector) {
	w.monitor.remove(w.space)
	half := size.Mult(0.5)
	center := bottomLeft.Add(half)
	w.monitor = buildBoundary(w.space, w.space.StaticBody, center, half, w.opts.WallDepth, w.opts.WindowMaterial, monitorWallFilter)
}

// MonitorHalfExtents returns the half-extents of the monitor boundary.
func (w *World) MonitorHalfExtents() cp.Vector {
	if w.monitor == nil {
		return cp.Vector{}
	}
	return w.monitor.Half
}

// RebuildWindow replaces the window colliders. inner sizes the hollow walls that
// confine decorations; outer sizes the solid box that hits the monitor walls.
// Both are full sizes in meters.
func (w *World) RebuildWindow(inner, outer cp.Vector) {
	oldBox := w.windowBox
	oldWalls := w.walls

	box := w.space.AddShape(cp.NewBox(w.window, outer.X, outer.Y, 0))
	box.SetFriction(w.opts.WindowMaterial.Friction)
	box.SetElasticity(w.opts.WindowMaterial.Restitution)
	box.SetFilter(windowBoxFilter)
	box.SetMass(outer.X * outer.Y * w.opts.WindowDensity)

	w.windowBox = box
	w.walls = buildBoundary(w.space, w.window, cp.Vector{}, inner.Mult(0.5), w.opts.WallDepth, w.opts.WindowMaterial, windowWallFilter)
	w.outer = outer

	if oldBox != nil {
		w.space.RemoveShape(oldBox)
	}
	oldWalls.remove(w.space)

	if w.Dynamic() {
		w.lockRotation()
	}
}

// WallHalfExtents returns the half-extents of the window's inner walls.
func (w *World) WallHalfExtents() cp.Vector {
	if w.walls == nil {
		return cp.Vector{}
	}
	return w.walls.Half
}

// OuterSize returns the full size of the window box in meters.
func (w *World) OuterSize() cp.Vector {
	return w.outer
}

// SetDynamic switches the window body between kinematic and dynamic.
func (w *World) SetDynamic(dynamic bool) {
	if dynamic == w.Dynamic() {
		return
	}
	if dynamic {
		w.window.SetType(cp.BODY_DYNAMIC)
		w.lockRotation()
		// Drop the drive velocity left over from kinematic syncing.
		w.window.SetVelocityVector(cp.Vector{})
		w.window.Activate()
		return
	}
	w.window.SetType(cp.BODY_KINEMATIC)
}

// Dynamic reports whether the window body is currently simulated.
func (w *World) Dynamic() bool {
	return w.window.GetType() == cp.BODY_DYNAMIC
}

func (w *World) lockRotation() {
	w.window.SetMoment(math.Inf(1))
	w.window.SetAngularVelocity(0)
	w.window.SetAngle(0)
}

// WindowPosition returns the window body's centre.
func (w *World) WindowPosition() cp.Vector {
	return w.window.Position()
}

// WindowVelocity returns the window body's linear velocity.
func (w *World) WindowVelocity() cp.Vector {
	return w.window.Velocity()
}

// PlaceWindow teleports the window body without imparting velocity.
func (w *World) PlaceWindow(center cp.Vector) {
	w.window.SetPosition(center)
	w.window.SetVelocityVector(cp.Vector{})
	w.window.EachShape(func(s *cp.Shape) { s.CacheBB() })
}

// DriveWindow moves a kinematic window body so that it reaches target at the end of
// the next step of length dt. The velocity lets walls push decorations instead of
// teleporting through them.
func (w *World) DriveWindow(target cp.Vector, dt float64) {
	if w.Dynamic() || dt <= 0 {
		return
	}
	delta := target.Sub(w.window.Position())
	w.window.SetVelocityVector(delta.Mult(1 / dt))
}

// HoldWindow stops a kinematic window body in place.
func (w *World) HoldWindow() {
	if w.Dynamic() {
		return
	}
	w.window.SetVelocityVector(cp.Vector{})
}

// ApplyImpulse applies an impulse at the window's centre of mass.
func (w *World) ApplyImpulse(impulse cp.Vector) {
	w.window.ApplyImpulseAtWorldPoint(impulse, w.window.Position())
}

// Step advances the simulation by dt seconds.
func (w *World) Step(dt float64) {
	w.space.Step(dt)
}
