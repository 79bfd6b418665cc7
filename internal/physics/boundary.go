package physics

import (
	"math"

	"github.com/jakecoffman/cp"
)

// Halfspace directions, in the order the boundary boxes are built.
var halfspaceNormals = [4]cp.Vector{
	{X: 1, Y: 0},
	{X: -1, Y: 0},
	{X: 0, Y: 1},
	{X: 0, Y: -1},
}

// BoundaryBoxes approximates four halfspaces enclosing a hollow rectangle.
//
// Box i is the solid region behind normal i: its inner face lies on the plane offset
// from center by -normal*halfExtent, and it extends depth meters outward. The boxes
// overlap at the corners so nothing escapes diagonally.
func BoundaryBoxes(center, half cp.Vector, depth float64) [4]cp.BB {
	span := math.Max(half.X, half.Y) + depth
	var boxes [4]cp.BB
	for i, n := range halfspaceNormals {
		switch {
		case n.X > 0:
			boxes[i] = cp.BB{L: center.X - half.X - depth, B: center.Y - span, R: center.X - half.X, T: center.Y + span}
		case n.X < 0:
			boxes[i] = cp.BB{L: center.X + half.X, B: center.Y - span, R: center.X + half.X + depth, T: center.Y + span}
		case n.Y > 0:
			boxes[i] = cp.BB{L: center.X - span, B: center.Y - half.Y - depth, R: center.X + span, T: center.Y - half.Y}
		default:
			boxes[i] = cp.BB{L: center.X - span, B: center.Y + half.Y, R: center.X + span, T: center.Y + half.Y + depth}
		}
	}
	return boxes
}

// Boundary is a hollow four-wall collider attached to a body.
type Boundary struct {
	Half   cp.Vector
	Shapes []*cp.Shape
}

// buildBoundary adds a boundary around center (body-local) to space.
func buildBoundary(space *cp.Space, body *cp.Body, center, half cp.Vector, depth float64, mat Material, filter cp.ShapeFilter) *Boundary {
	b := &Boundary{Half: half}
	for _, bb := range BoundaryBoxes(center, half, depth) {
		shape := space.AddShape(cp.NewBox2(body, bb, 0))
		shape.SetFriction(mat.Friction)
		shape.SetElasticity(mat.Restitution)
		shape.SetFilter(filter)
		b.Shapes = append(b.Shapes, shape)
	}
	return b
}

// remove detaches every shape of the boundary from space.
func (b *Boundary) remove(space *cp.Space) {
	if b == nil {
		return
	}
	for _, shape := range b.Shapes {
		space.RemoveShape(shape)
	}
	b.Shapes = nil
}
