package platform

import (
	"testing"

	"github.com/1broseidon/winvelocity/internal/coords"
)

func TestLogicalRect(t *testing.T) {
	tests := []struct {
		name     string
		rect     Rect
		scale    float64
		wantPos  coords.LogicalPoint
		wantSize coords.LogicalSize
	}{
		{
			name:     "unscaled",
			rect:     Rect{X: 100, Y: 50, Width: 600, Height: 400},
			scale:    1,
			wantPos:  coords.LogicalPoint{X: 100, Y: 50},
			wantSize: coords.LogicalSize{Width: 600, Height: 400},
		},
		{
			name:     "hidpi",
			rect:     Rect{X: 200, Y: 100, Width: 1200, Height: 800},
			scale:    2,
			wantPos:  coords.LogicalPoint{X: 100, Y: 50},
			wantSize: coords.LogicalSize{Width: 600, Height: 400},
		},
		{
			name:     "invalid scale treated as 1",
			rect:     Rect{X: 10, Y: 20, Width: 30, Height: 40},
			scale:    0,
			wantPos:  coords.LogicalPoint{X: 10, Y: 20},
			wantSize: coords.LogicalSize{Width: 30, Height: 40},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos, size := LogicalRect(tt.rect, tt.scale)
			if pos != tt.wantPos || size != tt.wantSize {
				t.Fatalf("got %v %v, want %v %v", pos, size, tt.wantPos, tt.wantSize)
			}
		})
	}
}

func TestPointerFrame_RoundTripsThroughConverter(t *testing.T) {
	const height = 1080.0
	conv := coords.NewConverter(height, 750)

	p := PointerFrame(300, 200, 1, height)
	if p != (coords.LogicalPoint{X: 300, Y: 880}) {
		t.Fatalf("unexpected pointer frame position %v", p)
	}
	if got := conv.FromPointer(p); got != (coords.LogicalPoint{X: 300, Y: 200}) {
		t.Fatalf("FromPointer should recover root coordinates, got %v", got)
	}
}

func TestPointerFrame_Scaled(t *testing.T) {
	p := PointerFrame(400, 200, 2, 540)
	if p != (coords.LogicalPoint{X: 200, Y: 440}) {
		t.Fatalf("unexpected pointer frame position %v", p)
	}
}
