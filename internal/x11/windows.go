package x11

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// Geometry is a window rectangle in root coordinates (physical pixels).
type Geometry struct {
	X      int
	Y      int
	Width  int
	Height int
}

// FrameExtents are the window-manager decoration sizes around a client window.
type FrameExtents struct {
	Left   int
	Right  int
	Top    int
	Bottom int
}

// WindowOptions configures CreateWindow.
type WindowOptions struct {
	Title      string
	Class      string
	X          int
	Y          int
	Width      int
	Height     int
	Background uint32
}

// appEventMask selects the events the application window reacts to.
const appEventMask = xproto.EventMaskKeyPress |
	xproto.EventMaskKeyRelease |
	xproto.EventMaskButtonPress |
	xproto.EventMaskButtonRelease |
	xproto.EventMaskStructureNotify |
	xproto.EventMaskExposure

// CreateWindow creates and maps a managed top-level window. The window participates in
// WM_DELETE_WINDOW so closing it produces a client message instead of a disconnect.
func (c *Connection) CreateWindow(opts WindowOptions) (xproto.Window, error) {
	conn := c.XUtil.Conn()
	screen := c.XUtil.Screen()

	if opts.Width < 1 || opts.Height < 1 {
		return 0, fmt.Errorf("invalid window size %dx%d", opts.Width, opts.Height)
	}

	wid, err := xproto.NewWindowId(conn)
	if err != nil {
		return 0, err
	}

	err = xproto.CreateWindowChecked(
		conn,
		screen.RootDepth,
		wid,
		c.Root,
		int16(opts.X), int16(opts.Y),
		uint16(opts.Width), uint16(opts.Height),
		0, // border_width
		xproto.WindowClassInputOutput,
		screen.RootVisual,
		xproto.CwBackPixel|xproto.CwEventMask,
		// Value order follows mask bit order: back_pixel, event_mask.
		[]uint32{opts.Background, appEventMask},
	).Check()
	if err != nil {
		return 0, fmt.Errorf("create window: %w", err)
	}

	if err := ewmh.WmNameSet(c.XUtil, wid, opts.Title); err != nil {
		return 0, fmt.Errorf("set _NET_WM_NAME: %w", err)
	}
	if err := icccm.WmNameSet(c.XUtil, wid, opts.Title); err != nil {
		return 0, fmt.Errorf("set WM_NAME: %w", err)
	}
	class := opts.Class
	if class == "" {
		class = opts.Title
	}
	if err := icccm.WmClassSet(c.XUtil, wid, &icccm.WmClass{Instance: class, Class: class}); err != nil {
		return 0, fmt.Errorf("set WM_CLASS: %w", err)
	}
	if err := ewmh.WmWindowTypeSet(c.XUtil, wid, []string{"_NET_WM_WINDOW_TYPE_NORMAL"}); err != nil {
		return 0, fmt.Errorf("set _NET_WM_WINDOW_TYPE: %w", err)
	}
	if err := icccm.WmProtocolsSet(c.XUtil, wid, []string{"WM_DELETE_WINDOW"}); err != nil {
		return 0, fmt.Errorf("set WM_PROTOCOLS: %w", err)
	}

	if err := xproto.MapWindowChecked(conn, wid).Check(); err != nil {
		return 0, fmt.Errorf("map window: %w", err)
	}
	return wid, nil
}

// DestroyWindow detaches the event handlers of a window created by CreateWindow and
// destroys it.
func (c *Connection) DestroyWindow(windowID xproto.Window) {
	xwindow.New(c.XUtil, windowID).Destroy()
}

// ClientGeometry returns the client area of a window in root coordinates.
func (c *Connection) ClientGeometry(windowID xproto.Window) (Geometry, error) {
	conn := c.XUtil.Conn()
	geom, err := xproto.GetGeometry(conn, xproto.Drawable(windowID)).Reply()
	if err != nil {
		return Geometry{}, fmt.Errorf("get geometry: %w", err)
	}

	translate, err := xproto.TranslateCoordinates(conn, windowID, c.Root, 0, 0).Reply()
	if err != nil {
		return Geometry{}, fmt.Errorf("translate coordinates: %w", err)
	}

	return Geometry{
		X:      int(translate.DstX),
		Y:      int(translate.DstY),
		Width:  int(geom.Width),
		Height: int(geom.Height),
	}, nil
}

// GetFrameExtents returns the window decoration sizes (zero when unavailable)
func (c *Connection) GetFrameExtents(windowID xproto.Window) FrameExtents {
	extents, err := ewmh.FrameExtentsGet(c.XUtil, windowID)
	if err != nil {
		return FrameExtents{}
	}
	return FrameExtents{
		Left:   int(extents.Left),
		Right:  int(extents.Right),
		Top:    int(extents.Top),
		Bottom: int(extents.Bottom),
	}
}

// MoveWindow moves a window so its frame's top-left lands at (x, y). It asks the
// window manager through _NET_MOVERESIZE_WINDOW and falls back to a checked
// ConfigureWindow when that request cannot be sent.
func (c *Connection) MoveWindow(windowID xproto.Window, x, y int) error {
	err := moveWithFallback(
		func() error { return ewmh.MoveWindow(c.XUtil, windowID, x, y) },
		func() error {
			return xproto.ConfigureWindowChecked(
				c.XUtil.Conn(),
				windowID,
				xproto.ConfigWindowX|xproto.ConfigWindowY,
				[]uint32{uint32(int32(x)), uint32(int32(y))},
			).Check()
		},
	)
	if err != nil {
		return fmt.Errorf("move window %d to (%d, %d): %w", windowID, x, y, err)
	}
	return nil
}

// moveWithFallback runs primary and, only if it fails, fallback. The error carries
// both causes when neither succeeds.
func moveWithFallback(primary, fallback func() error) error {
	perr := primary()
	if perr == nil {
		return nil
	}
	if ferr := fallback(); ferr != nil {
		return errors.Join(perr, ferr)
	}
	return nil
}

// QueryPointer returns the pointer position in root coordinates. ok is false when the
// pointer is on another screen.
func (c *Connection) QueryPointer() (x, y int, ok bool, err error) {
	pointer, err := xproto.QueryPointer(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return 0, 0, false, err
	}
	return int(pointer.RootX), int(pointer.RootY), pointer.SameScreen, nil
}
