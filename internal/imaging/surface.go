package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
)

// Surface is a reusable scratch raster. One Surface backs every tile of a
// montage run: Reset hands out a raster of the requested size, reusing the
// previous allocation when its capacity suffices, and Shrink releases the
// backing memory once the run is over.
//
// A Surface is owned by a single goroutine; it is not safe for concurrent
// use.
type Surface struct {
	img *image.RGBA
}

// Reset returns a width x height raster ready for drawing. The backing
// pixel buffer is reused across calls when large enough, so a batch of
// same-sized tiles allocates only once. All pixels are cleared to
// transparent black; nothing from the previous tile leaks through.
func (s *Surface) Reset(width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid surface size %dx%d", width, height)
	}

	rect := image.Rect(0, 0, width, height)
	need := 4 * width * height
	if s.img == nil || cap(s.img.Pix) < need {
		s.img = image.NewRGBA(rect)
		return s.img, nil
	}

	s.img.Pix = s.img.Pix[:need]
	s.img.Stride = 4 * width
	s.img.Rect = rect
	clear(s.img.Pix)
	return s.img, nil
}

// Shrink drops the backing pixel buffer. The Surface stays usable; the
// next Reset simply allocates fresh.
func (s *Surface) Shrink() {
	s.img = nil
}

// Cap reports the capacity of the backing pixel buffer in bytes.
// Zero after Shrink or before first use.
func (s *Surface) Cap() int {
	if s.img == nil {
		return 0
	}
	return cap(s.img.Pix)
}

// NewCanvas creates the montage surface: a width x height raster filled
// with the background color.
func NewCanvas(width, height int, background color.Color) (*image.NRGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid canvas size %dx%d", width, height)
	}
	return imaging.New(width, height, background), nil
}

// FillRect paints a solid rectangle onto dst. The rectangle is clipped to
// dst's bounds; a rectangle entirely outside paints nothing.
func FillRect(dst draw.Image, rect image.Rectangle, c color.Color) {
	rect = rect.Intersect(dst.Bounds())
	if rect.Empty() {
		return
	}
	draw.Draw(dst, rect, image.NewUniform(c), image.Point{}, draw.Src)
}
