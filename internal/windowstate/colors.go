package windowstate

// Background colors (0xRRGGBB)
const (
	ColorStatic   = 0x808080 // Gray
	ColorDragging = 0x404040 // Dark gray
	ColorBouncing = 0x000080 // Navy
)

// Palette maps each mode to a background color.
type Palette struct {
	Static   uint32
	Dragging uint32
	Bouncing uint32
}

// DefaultPalette returns the stock background colors.
func DefaultPalette() Palette {
	return Palette{
		Static:   ColorStatic,
		Dragging: ColorDragging,
		Bouncing: ColorBouncing,
	}
}

// Background returns the window background color for a mode.
func (p Palette) Background(m Mode) uint32 {
	switch m {
	case Bouncing:
		return p.Bouncing
	case Dragging:
		return p.Dragging
	default:
		return p.Static
	}
}
