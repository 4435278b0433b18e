// Package geometry provides the pixel and ratio rectangle types shared by the
// detection, imaging, and pipeline packages.
//
// All pixel coordinates are 0-based with the origin at the top-left corner:
// X increases rightward, Y increases downward. A Rect is anchored at its
// top-left corner and carries a non-negative size; the right and bottom
// edges are exclusive.
package geometry

import (
	"image"
	"math"
)

// Rect is a rectangle in pixel coordinates.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Right returns the exclusive right edge (X + Width).
func (r Rect) Right() int {
	return r.X + r.Width
}

// Bottom returns the exclusive bottom edge (Y + Height).
func (r Rect) Bottom() int {
	return r.Y + r.Height
}

// Translate returns the rectangle shifted by (dx, dy).
func (r Rect) Translate(dx, dy int) Rect {
	r.X += dx
	r.Y += dy
	return r
}

// Pad returns the rectangle grown by n pixels on every side.
// A negative n shrinks it; the result may be empty.
func (r Rect) Pad(n int) Rect {
	return Rect{
		X:      r.X - n,
		Y:      r.Y - n,
		Width:  r.Width + 2*n,
		Height: r.Height + 2*n,
	}
}

// Intersect returns the overlap of two rectangles. If they do not overlap,
// the result is an empty rectangle with zero size.
func (r Rect) Intersect(other Rect) Rect {
	x1 := max(r.X, other.X)
	y1 := max(r.Y, other.Y)
	x2 := min(r.Right(), other.Right())
	y2 := min(r.Bottom(), other.Bottom())
	if x2 <= x1 || y2 <= y1 {
		return Rect{}
	}
	return Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// ToImageRect converts to the standard library's image.Rectangle.
func (r Rect) ToImageRect() image.Rectangle {
	return image.Rect(r.X, r.Y, r.Right(), r.Bottom())
}

// FromImageRect converts a standard library rectangle to a Rect.
func FromImageRect(r image.Rectangle) Rect {
	r = r.Canon()
	return Rect{X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy()}
}

// RatioRect is a rectangle expressed as fractions of an enclosing pixel
// rectangle. (X0, Y0) is the top-left corner and (X1, Y1) the bottom-right,
// each component nominally in [0, 1].
type RatioRect struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

// Canon returns the ratio rectangle with each component clamped to [0, 1]
// and the coordinate pairs ordered so that X0 <= X1 and Y0 <= Y1.
func (r RatioRect) Canon() RatioRect {
	r.X0 = Clamp01(r.X0)
	r.Y0 = Clamp01(r.Y0)
	r.X1 = Clamp01(r.X1)
	r.Y1 = Clamp01(r.Y1)
	if r.X1 < r.X0 {
		r.X0, r.X1 = r.X1, r.X0
	}
	if r.Y1 < r.Y0 {
		r.Y0, r.Y1 = r.Y1, r.Y0
	}
	return r
}

// FromRatio resolves a ratio rectangle against a pixel rectangle.
//
// Each endpoint is rounded independently and the size is taken as the
// difference of the rounded endpoints, so {0, 0, 1, 1} always resolves to
// exactly the enclosing rectangle regardless of its size. Components are
// clamped to [0, 1] before resolution and the result always lies inside
// the enclosing rectangle with a non-negative size.
func FromRatio(enclosing Rect, r RatioRect) Rect {
	r = r.Canon()
	x0 := int(math.Round(r.X0 * float64(enclosing.Width)))
	x1 := int(math.Round(r.X1 * float64(enclosing.Width)))
	y0 := int(math.Round(r.Y0 * float64(enclosing.Height)))
	y1 := int(math.Round(r.Y1 * float64(enclosing.Height)))
	return Rect{
		X:      enclosing.X + x0,
		Y:      enclosing.Y + y0,
		Width:  max(0, x1-x0),
		Height: max(0, y1-y0),
	}
}

// Clamp01 constrains a value to the range [0, 1]. NaN clamps to 0.
func Clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
