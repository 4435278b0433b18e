package imaging

import (
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// ParseHexColor parses a CSS-style hex color string like "#2E2E2E" into an
// opaque color. Both the long "#RRGGBB" and short "#RGB" forms are accepted.
func ParseHexColor(s string) (color.NRGBA, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}
