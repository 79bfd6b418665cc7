package platform

import "github.com/1broseidon/winvelocity/internal/coords"

// WindowID is a platform-neutral window identifier.
type WindowID uint32

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Display describes a physical display.
type Display struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Bounds  Rect   `json:"bounds"`
	Primary bool   `json:"primary"`
}

// Backend abstracts window-system operations the simulation needs. Positions and sizes
// are logical pixels (physical pixels divided by the scale factor).
type Backend interface {
	Displays() ([]Display, error)
	PrimaryDisplay() (Display, error)

	InnerPosition() (coords.LogicalPoint, error)
	InnerSize() (coords.LogicalSize, error)
	OuterSize() (coords.LogicalSize, error)
	SetOuterPosition(p coords.LogicalPoint) error
	CursorPosition() (coords.LogicalPoint, bool)
}

// LogicalRect converts a physical rectangle into logical pixels.
func LogicalRect(r Rect, scaleFactor float64) (coords.LogicalPoint, coords.LogicalSize) {
	if scaleFactor <= 0 {
		scaleFactor = 1
	}
	return coords.LogicalPoint{X: float64(r.X) / scaleFactor, Y: float64(r.Y) / scaleFactor},
		coords.LogicalSize{Width: float64(r.Width) / scaleFactor, Height: float64(r.Height) / scaleFactor}
}

// PointerFrame converts a root-space pointer position (physical pixels) into the pointer
// frame: logical pixels with Y measured upward from flipHeight.
func PointerFrame(rootX, rootY int, scaleFactor, flipHeight float64) coords.LogicalPoint {
	if scaleFactor <= 0 {
		scaleFactor = 1
	}
	return coords.LogicalPoint{
		X: float64(rootX) / scaleFactor,
		Y: flipHeight - float64(rootY)/scaleFactor,
	}
}
