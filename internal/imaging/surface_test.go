package imaging

import (
	"image"
	"image/color"
	"testing"
)

func TestSurfaceReset(t *testing.T) {
	var s Surface

	img, err := s.Reset(32, 24)
	if err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if img.Bounds() != image.Rect(0, 0, 32, 24) {
		t.Errorf("bounds: got %v, want (0,0)-(32,24)", img.Bounds())
	}
}

func TestSurfaceReset_ReusesBuffer(t *testing.T) {
	var s Surface

	if _, err := s.Reset(100, 100); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	capBefore := s.Cap()

	// A smaller raster must fit in the existing buffer
	img, err := s.Reset(50, 40)
	if err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if s.Cap() != capBefore {
		t.Errorf("capacity changed on shrinking reset: got %d, want %d", s.Cap(), capBefore)
	}
	if img.Bounds() != image.Rect(0, 0, 50, 40) {
		t.Errorf("bounds: got %v, want (0,0)-(50,40)", img.Bounds())
	}

	// A larger raster forces a new allocation
	if _, err := s.Reset(200, 200); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if s.Cap() < 4*200*200 {
		t.Errorf("capacity after growth: got %d, want at least %d", s.Cap(), 4*200*200)
	}
}

func TestSurfaceReset_ClearsPreviousContents(t *testing.T) {
	var s Surface

	img, err := s.Reset(10, 10)
	if err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	FillRect(img, img.Bounds(), color.NRGBA{255, 0, 0, 255})

	img, err = s.Reset(10, 10)
	if err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if got := img.RGBAAt(5, 5); got != (color.RGBA{}) {
		t.Errorf("pixel after reset: got %+v, want transparent black", got)
	}
}

func TestSurfaceReset_InvalidSize(t *testing.T) {
	var s Surface

	tests := []struct {
		name          string
		width, height int
	}{
		{"zero width", 0, 10},
		{"zero height", 10, 0},
		{"negative", -5, -5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.Reset(tt.width, tt.height); err == nil {
				t.Error("Reset should fail for invalid size")
			}
		})
	}
}

func TestSurfaceShrink(t *testing.T) {
	var s Surface

	if _, err := s.Reset(64, 64); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if s.Cap() == 0 {
		t.Fatal("Cap should be non-zero after Reset")
	}

	s.Shrink()
	if s.Cap() != 0 {
		t.Errorf("Cap after Shrink: got %d, want 0", s.Cap())
	}

	// Surface stays usable after shrinking
	img, err := s.Reset(8, 8)
	if err != nil {
		t.Fatalf("Reset after Shrink failed: %v", err)
	}
	if img.Bounds().Dx() != 8 {
		t.Errorf("width after Shrink+Reset: got %d, want 8", img.Bounds().Dx())
	}
}

func TestNewCanvas(t *testing.T) {
	bg := color.NRGBA{40, 50, 60, 255}

	canvas, err := NewCanvas(30, 20, bg)
	if err != nil {
		t.Fatalf("NewCanvas failed: %v", err)
	}
	if canvas.Bounds().Dx() != 30 || canvas.Bounds().Dy() != 20 {
		t.Errorf("dimensions: got %dx%d, want 30x20", canvas.Bounds().Dx(), canvas.Bounds().Dy())
	}

	// Every corner carries the background color
	for _, pt := range []image.Point{{0, 0}, {29, 0}, {0, 19}, {29, 19}, {15, 10}} {
		if got := canvas.NRGBAAt(pt.X, pt.Y); got != bg {
			t.Errorf("pixel at %v: got %+v, want %+v", pt, got, bg)
		}
	}
}

func TestNewCanvas_InvalidSize(t *testing.T) {
	if _, err := NewCanvas(0, 10, color.Black); err == nil {
		t.Error("NewCanvas should fail for zero width")
	}
	if _, err := NewCanvas(10, -1, color.Black); err == nil {
		t.Error("NewCanvas should fail for negative height")
	}
}

func TestFillRect(t *testing.T) {
	img := createInMemoryImage(20, 20, color.RGBA{0, 0, 0, 255})
	fill := color.NRGBA{255, 0, 0, 255}

	FillRect(img, image.Rect(5, 5, 10, 10), fill)

	if got := img.RGBAAt(7, 7); got != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("inside fill: got %+v, want red", got)
	}
	if got := img.RGBAAt(4, 4); got != (color.RGBA{0, 0, 0, 255}) {
		t.Errorf("outside fill: got %+v, want black", got)
	}
	// The bottom-right edge is exclusive
	if got := img.RGBAAt(10, 10); got != (color.RGBA{0, 0, 0, 255}) {
		t.Errorf("at exclusive edge: got %+v, want black", got)
	}
}

func TestFillRect_ClipsToBounds(t *testing.T) {
	img := createInMemoryImage(10, 10, color.RGBA{0, 0, 0, 255})

	// Partially outside: only the overlap is painted
	FillRect(img, image.Rect(8, 8, 30, 30), color.NRGBA{0, 255, 0, 255})
	if got := img.RGBAAt(9, 9); got != (color.RGBA{0, 255, 0, 255}) {
		t.Errorf("overlap pixel: got %+v, want green", got)
	}

	// Entirely outside: nothing painted, nothing panics
	FillRect(img, image.Rect(50, 50, 60, 60), color.NRGBA{0, 0, 255, 255})
	if got := img.RGBAAt(5, 5); got != (color.RGBA{0, 0, 0, 255}) {
		t.Errorf("unrelated pixel changed: got %+v", got)
	}
}
