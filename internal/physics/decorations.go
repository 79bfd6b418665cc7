package physics

import (
	"math"
	"math/rand/v2"

	"github.com/jakecoffman/cp"
)

// ShapeKind is the collider/drawing primitive of a decoration.
type ShapeKind int

const (
	ShapeCircle ShapeKind = iota
	ShapeSquare
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeCircle:
		return "circle"
	case ShapeSquare:
		return "square"
	default:
		return "unknown"
	}
}

// Decoration is a freely simulated shape confined by the window walls.
type Decoration struct {
	Kind  ShapeKind
	Size  float64 // radius for circles, side length for squares (meters)
	Color uint32  // 0xRRGGBB

	body   *cp.Body
	filter cp.ShapeFilter
}

// Position returns the decoration's centre in physics space.
func (d *Decoration) Position() cp.Vector {
	return d.body.Position()
}

// Angle returns the decoration's rotation in radians.
func (d *Decoration) Angle() float64 {
	return d.body.Angle()
}

// Filter returns the decoration's collision filter.
func (d *Decoration) Filter() cp.ShapeFilter {
	return d.filter
}

// DecorationOptions controls random decoration generation.
type DecorationOptions struct {
	MinSize  float64
	MaxSize  float64
	Material Material
	Palette  []uint32
}

// DefaultDecorationOptions returns the stock decoration settings.
func DefaultDecorationOptions() DecorationOptions {
	return DecorationOptions{
		MinSize:  0.01,
		MaxSize:  0.04,
		Material: Material{Friction: 0.3, Restitution: 0.5},
		Palette: []uint32{
			0xff0000, // red
			0xffa500, // orange
			0xffc0cb, // pink
			0x0000ff, // blue
			0xffd700, // gold
		},
	}
}

// AddDecoration adds one decoration centred at pos.
func (w *World) AddDecoration(kind ShapeKind, size float64, color uint32, pos cp.Vector, mat Material) *Decoration {
	var body *cp.Body
	var shape *cp.Shape

	switch kind {
	case ShapeSquare:
		mass := size * size
		body = w.space.AddBody(cp.NewBody(mass, cp.MomentForBox(mass, size, size)))
		body.SetPosition(pos)
		shape = w.space.AddShape(cp.NewBox(body, size, size, 0))
	default:
		mass := math.Pi * size * size
		body = w.space.AddBody(cp.NewBody(mass, cp.MomentForCircle(mass, 0, size, cp.Vector{})))
		body.SetPosition(pos)
		shape = w.space.AddShape(cp.NewCircle(body, size, cp.Vector{}))
	}
	shape.SetFriction(mat.Friction)
	shape.SetElasticity(mat.Restitution)
	shape.SetFilter(decorationFilter)

	d := &Decoration{Kind: kind, Size: size, Color: color, body: body, filter: decorationFilter}
	w.decorations = append(w.decorations, d)
	return d
}

// SpawnDecorations adds n random decorations inside the window walls.
func (w *World) SpawnDecorations(rng *rand.Rand, n int, opts DecorationOptions) []*Decoration {
	if len(opts.Palette) == 0 {
		opts.Palette = DefaultDecorationOptions().Palette
	}
	span := opts.MaxSize - opts.MinSize
	if span < 0 {
		span = 0
	}

	center := w.WindowPosition()
	half := w.WallHalfExtents()

	spawned := make([]*Decoration, 0, n)
	for i := 0; i < n; i++ {
		size := rng.Float64()*span + opts.MinSize
		kind := ShapeCircle
		if rng.IntN(2) == 1 {
			kind = ShapeSquare
		}
		color := opts.Palette[rng.IntN(len(opts.Palette))]

		// Keep the whole shape inside the walls.
		limitX := math.Max(half.X-size, 0)
		limitY := math.Max(half.Y-size, 0)
		pos := cp.Vector{
			X: center.X + (rng.Float64()*2-1)*limitX,
			Y: center.Y + (rng.Float64()*2-1)*limitY,
		}
		spawned = append(spawned, w.AddDecoration(kind, size, color, pos, opts.Material))
	}
	return spawned
}

// Decorations returns every decoration in creation order.
func (w *World) Decorations() []*Decoration {
	return w.decorations
}
