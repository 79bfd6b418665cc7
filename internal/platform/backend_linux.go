//go:build linux

package platform

import (
	"fmt"
	"math"
	"sort"

	"github.com/1broseidon/winvelocity/internal/coords"
	"github.com/1broseidon/winvelocity/internal/x11"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
)

// LinuxBackend drives one application window over an X11 connection.
type LinuxBackend struct {
	conn        *x11.Connection
	window      xproto.Window
	scaleFactor float64
	flipHeight  float64
}

var _ Backend = (*LinuxBackend)(nil)

// NewLinuxBackend creates a Linux platform backend from an existing X11 connection.
func NewLinuxBackend(conn *x11.Connection, scaleFactor float64) *LinuxBackend {
	if scaleFactor <= 0 {
		scaleFactor = 1
	}
	return &LinuxBackend{conn: conn, scaleFactor: scaleFactor}
}

// NewLinuxBackendFromDisplay creates a new Linux backend by opening a fresh X11 connection.
func NewLinuxBackendFromDisplay(display string, scaleFactor float64) (*LinuxBackend, error) {
	conn, err := x11.NewConnection(display)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return NewLinuxBackend(conn, scaleFactor), nil
}

// Disconnect closes the underlying X11 connection.
func (b *LinuxBackend) Disconnect() {
	if b != nil && b.conn != nil {
		if b.window != 0 {
			b.conn.DestroyWindow(b.window)
		}
		b.conn.Close()
	}
}

// EventLoop starts the X11 event loop (blocking).
func (b *LinuxBackend) EventLoop() {
	if b != nil && b.conn != nil {
		b.conn.EventLoop()
	}
}

// StopEventLoop makes a running EventLoop return.
func (b *LinuxBackend) StopEventLoop() {
	if b != nil && b.conn != nil {
		b.conn.Quit()
	}
}

// XUtil returns the underlying xgbutil connection for X11-specific operations.
func (b *LinuxBackend) XUtil() *xgbutil.XUtil {
	if b == nil || b.conn == nil {
		return nil
	}
	return b.conn.XUtil
}

// Window returns the managed window, or 0 before OpenWindow.
func (b *LinuxBackend) Window() xproto.Window {
	return b.window
}

// ScaleFactor returns the physical-to-logical pixel ratio.
func (b *LinuxBackend) ScaleFactor() float64 {
	return b.scaleFactor
}

// OpenWindow creates the managed window. Size and position are logical pixels.
func (b *LinuxBackend) OpenWindow(title string, pos coords.LogicalPoint, size coords.LogicalSize, background uint32) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	wid, err := conn.CreateWindow(x11.WindowOptions{
		Title:      title,
		Class:      "winvelocity",
		X:          b.physical(pos.X),
		Y:          b.physical(pos.Y),
		Width:      b.physical(size.Width),
		Height:     b.physical(size.Height),
		Background: background,
	})
	if err != nil {
		return err
	}
	b.window = wid
	return nil
}

// SetFlipHeight sets the logical Y of the pointer frame's origin, normally the bottom
// edge of the primary monitor.
func (b *LinuxBackend) SetFlipHeight(h float64) {
	b.flipHeight = h
}

// Displays returns all active displays.
func (b *LinuxBackend) Displays() ([]Display, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}

	monitors, err := conn.Monitors()
	if err != nil {
		return nil, err
	}

	displays := make([]Display, 0, len(monitors))
	for _, m := range monitors {
		displays = append(displays, displayFromMonitor(m))
	}

	sort.Slice(displays, func(i, j int) bool {
		return displays[i].ID < displays[j].ID
	})

	return displays, nil
}

// PrimaryDisplay returns the primary display.
func (b *LinuxBackend) PrimaryDisplay() (Display, error) {
	conn, err := b.connection()
	if err != nil {
		return Display{}, err
	}

	m, err := conn.PrimaryMonitor()
	if err != nil {
		return Display{}, err
	}
	return displayFromMonitor(m), nil
}

// InnerPosition returns the client area's top-left in logical pixels.
func (b *LinuxBackend) InnerPosition() (coords.LogicalPoint, error) {
	geom, err := b.clientGeometry()
	if err != nil {
		return coords.LogicalPoint{}, err
	}
	p, _ := LogicalRect(Rect(geom), b.scaleFactor)
	return p, nil
}

// InnerSize returns the client area size in logical pixels.
func (b *LinuxBackend) InnerSize() (coords.LogicalSize, error) {
	geom, err := b.clientGeometry()
	if err != nil {
		return coords.LogicalSize{}, err
	}
	_, s := LogicalRect(Rect(geom), b.scaleFactor)
	return s, nil
}

// OuterSize returns the window size including frame extents in logical pixels.
func (b *LinuxBackend) OuterSize() (coords.LogicalSize, error) {
	geom, err := b.clientGeometry()
	if err != nil {
		return coords.LogicalSize{}, err
	}
	ext := b.conn.GetFrameExtents(b.window)
	_, s := LogicalRect(Rect{
		Width:  geom.Width + ext.Left + ext.Right,
		Height: geom.Height + ext.Top + ext.Bottom,
	}, b.scaleFactor)
	return s, nil
}

// SetOuterPosition moves the window frame's top-left to p (logical pixels).
func (b *LinuxBackend) SetOuterPosition(p coords.LogicalPoint) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	if b.window == 0 {
		return fmt.Errorf("no window")
	}
	return conn.MoveWindow(b.window, b.physical(p.X), b.physical(p.Y))
}

// CursorPosition returns the pointer in the pointer frame. It reports false when the
// pointer cannot be queried or is on another screen.
func (b *LinuxBackend) CursorPosition() (coords.LogicalPoint, bool) {
	conn, err := b.connection()
	if err != nil {
		return coords.LogicalPoint{}, false
	}
	x, y, ok, err := conn.QueryPointer()
	if err != nil || !ok {
		return coords.LogicalPoint{}, false
	}
	return PointerFrame(x, y, b.scaleFactor, b.flipHeight), true
}

func (b *LinuxBackend) clientGeometry() (x11.Geometry, error) {
	conn, err := b.connection()
	if err != nil {
		return x11.Geometry{}, err
	}
	if b.window == 0 {
		return x11.Geometry{}, fmt.Errorf("no window")
	}
	return conn.ClientGeometry(b.window)
}

func (b *LinuxBackend) physical(v float64) int {
	return int(math.Round(v * b.scaleFactor))
}

func (b *LinuxBackend) connection() (*x11.Connection, error) {
	if b == nil || b.conn == nil {
		return nil, fmt.Errorf("x11 backend connection is nil")
	}
	return b.conn, nil
}

func displayFromMonitor(m x11.Monitor) Display {
	return Display{
		ID:   m.ID,
		Name: m.Name,
		Bounds: Rect{
			X:      m.X,
			Y:      m.Y,
			Width:  m.Width,
			Height: m.Height,
		},
		Primary: m.Primary,
	}
}
