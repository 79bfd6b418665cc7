package sim

import (
	"github.com/1broseidon/winvelocity/internal/coords"
	"github.com/1broseidon/winvelocity/internal/physics"
)

// ShapeView is one decoration projected into window-local pixels (origin top-left,
// Y-down).
type ShapeView struct {
	Kind  physics.ShapeKind
	X     float64 // centre
	Y     float64
	Size  float64 // radius for circles, side length for squares
	Angle float64 // radians, counter-clockwise on screen
	Color uint32
}

// Frame is everything a renderer needs to draw one tick.
type Frame struct {
	Background uint32
	Width      float64
	Height     float64
	Shapes     []ShapeView
}

// Renderer draws frames into the managed window.
type Renderer interface {
	Render(Frame) error
}

// buildFrame projects the decorations around the window centre into window pixels.
func buildFrame(conv coords.Converter, world *physics.World, inner coords.LogicalSize, background uint32) Frame {
	center := world.WindowPosition()
	decos := world.Decorations()

	f := Frame{
		Background: background,
		Width:      inner.Width,
		Height:     inner.Height,
		Shapes:     make([]ShapeView, 0, len(decos)),
	}
	for _, d := range decos {
		local := d.Position().Sub(center).Mult(conv.Scale)
		f.Shapes = append(f.Shapes, ShapeView{
			Kind:  d.Kind,
			X:     inner.Width/2 + local.X,
			Y:     inner.Height/2 - local.Y,
			Size:  d.Size * conv.Scale,
			Angle: d.Angle(),
			Color: d.Color,
		})
	}
	return f
}
