package render

import (
	"fmt"
	"math"

	"github.com/1broseidon/winvelocity/internal/physics"
	"github.com/1broseidon/winvelocity/internal/sim"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
)

// Painter draws frames into an X11 window through an off-screen pixmap, so each tick
// lands as a single CopyArea.
type Painter struct {
	xu  *xgbutil.XUtil
	win xproto.Window
	gc  xproto.Gcontext

	pixmap xproto.Pixmap
	width  uint16
	height uint16
}

var _ sim.Renderer = (*Painter)(nil)

// NewPainter creates a painter for win.
func NewPainter(xu *xgbutil.XUtil, win xproto.Window) (*Painter, error) {
	conn := xu.Conn()

	gc, err := xproto.NewGcontextId(conn)
	if err != nil {
		return nil, err
	}
	err = xproto.CreateGCChecked(
		conn,
		gc,
		xproto.Drawable(win),
		xproto.GcForeground|xproto.GcGraphicsExposures,
		[]uint32{
			0, // foreground
			0, // graphics_exposures=false
		},
	).Check()
	if err != nil {
		return nil, fmt.Errorf("create gc: %w", err)
	}

	return &Painter{xu: xu, win: win, gc: gc}, nil
}

// Render draws one frame.
func (p *Painter) Render(f sim.Frame) error {
	width, height := clampDim(f.Width), clampDim(f.Height)
	if err := p.ensurePixmap(width, height); err != nil {
		return err
	}

	conn := p.xu.Conn()
	dst := xproto.Drawable(p.pixmap)

	p.setColor(f.Background)
	xproto.PolyFillRectangle(conn, dst, p.gc, []xproto.Rectangle{{Width: width, Height: height}})

	for _, s := range f.Shapes {
		p.setColor(s.Color)
		switch s.Kind {
		case physics.ShapeSquare:
			xproto.FillPoly(conn, dst, p.gc, xproto.PolyShapeConvex, xproto.CoordModeOrigin, squareCorners(s))
		default:
			xproto.PolyFillArc(conn, dst, p.gc, []xproto.Arc{circleArc(s)})
		}
	}

	return xproto.CopyAreaChecked(conn, dst, xproto.Drawable(p.win), p.gc, 0, 0, 0, 0, width, height).Check()
}

// Close frees server-side resources.
func (p *Painter) Close() {
	conn := p.xu.Conn()
	if p.pixmap != 0 {
		xproto.FreePixmap(conn, p.pixmap)
		p.pixmap = 0
	}
	xproto.FreeGC(conn, p.gc)
}

func (p *Painter) setColor(c uint32) {
	xproto.ChangeGC(p.xu.Conn(), p.gc, xproto.GcForeground, []uint32{c})
}

func (p *Painter) ensurePixmap(width, height uint16) error {
	if p.pixmap != 0 && p.width == width && p.height == height {
		return nil
	}
	conn := p.xu.Conn()
	if p.pixmap != 0 {
		xproto.FreePixmap(conn, p.pixmap)
		p.pixmap = 0
	}

	pix, err := xproto.NewPixmapId(conn)
	if err != nil {
		return err
	}
	err = xproto.CreatePixmapChecked(conn, p.xu.Screen().RootDepth, pix, xproto.Drawable(p.win), width, height).Check()
	if err != nil {
		return fmt.Errorf("create pixmap %dx%d: %w", width, height, err)
	}
	p.pixmap, p.width, p.height = pix, width, height
	return nil
}

func clampDim(v float64) uint16 {
	switch {
	case v < 1 || math.IsNaN(v):
		return 1
	case v > math.MaxUint16:
		return math.MaxUint16
	default:
		return uint16(math.Round(v))
	}
}

func clampCoord(v float64) int16 {
	switch {
	case math.IsNaN(v):
		return 0
	case v < math.MinInt16:
		return math.MinInt16
	case v > math.MaxInt16:
		return math.MaxInt16
	default:
		return int16(math.Round(v))
	}
}

// circleArc returns the bounding arc of a circle shape.
func circleArc(s sim.ShapeView) xproto.Arc {
	d := clampDim(2 * s.Size)
	return xproto.Arc{
		X:      clampCoord(s.X - s.Size),
		Y:      clampCoord(s.Y - s.Size),
		Width:  d,
		Height: d,
		Angle1: 0,
		Angle2: 360 * 64,
	}
}

// squareCorners returns the rotated corners of a square shape. Angles are
// counter-clockwise as seen on screen, so the Y-down flip negates the sine terms.
func squareCorners(s sim.ShapeView) []xproto.Point {
	half := s.Size / 2
	sin, cos := math.Sincos(s.Angle)
	offsets := [4][2]float64{{-half, -half}, {half, -half}, {half, half}, {-half, half}}

	pts := make([]xproto.Point, 0, 4)
	for _, o := range offsets {
		rx := o[0]*cos - o[1]*sin
		ry := o[0]*sin + o[1]*cos
		pts = append(pts, xproto.Point{X: clampCoord(s.X + rx), Y: clampCoord(s.Y - ry)})
	}
	return pts
}
