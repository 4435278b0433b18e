package detection

import (
	"image"
	"math"

	"github.com/hoshinet/montagen/internal/geometry"
)

// Detection tunables. Thresholds are 8-bit luminance units; fractions are
// relative to the source image size.
const (
	// scanInset is where each inward scan starts, in pixels from its edge.
	// The outermost pixels often carry window-border antialiasing.
	scanInset = 4

	// bottomScanStart places the bottom scan at this fraction of the
	// height. Overlay content is expected above that line.
	bottomScanStart = 0.95

	// maxContentAspect triggers the letterbox skip: when the source is
	// wider than this, the horizontal scans first jump over the symmetric
	// side bands that padding to an ultrawide display produces.
	maxContentAspect = 2.0

	// Plausibility bounds for a candidate rectangle.
	minSizeFraction = 1.0 / 3.0
	maxCropAspect   = 3.0
	maxBottomFrac   = 0.96

	// minProbeSize rejects images too small to scan meaningfully.
	minProbeSize = 32
)

// cropThresholds is the relaxation ladder: scanning starts strict and
// retries with progressively weaker edge requirements until a candidate
// passes the plausibility filter.
var cropThresholds = []float64{64, 48, 32, 24, 16}

// DetectCrop infers the rectangle bounding the meaningful picture area of
// a screenshot, or reports failure. It never returns a partially valid
// rectangle: ok is false unless every edge was found and the result passed
// the plausibility filter.
//
// # Algorithm
//
// Only the single pixel row at vertical center and the single pixel column
// at horizontal center are examined, keeping the work O(width+height).
// Each sample is reduced to its ITU-R BT.601 luminance
// (0.299*R + 0.587*G + 0.114*B). Four scans walk inward, left and right
// along the row plus top and bottom along the column, and flag the first
// position whose luminance differs from its neighbor by more than the
// threshold, which marks a hard visual edge such as a UI frame border.
//
// The bottom scan starts at 95% of the height rather than the true bottom,
// and on very wide sources the horizontal scans skip the symmetric
// letterbox bands first. A candidate rectangle is accepted only when it is
// at least a third of the source in both dimensions, no more elongated
// than 3:1, and its bottom edge stays above 96% of the height. When a
// threshold produces no plausible rectangle the scan repeats with the next
// weaker threshold; a single fixed threshold is not robust across the
// dynamic range of real screenshots.
//
// Detection is deterministic: the same bitmap always yields the same
// rectangle.
func DetectCrop(img image.Image) (geometry.Rect, bool) {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width < minProbeSize || height < minProbeSize {
		return geometry.Rect{}, false
	}

	row := lumaRow(img, bounds.Min.Y+height/2)
	column := lumaColumn(img, bounds.Min.X+width/2)

	sideSkip := 0
	if float64(width)/float64(height) > maxContentAspect {
		sideSkip = (width - int(float64(height)*maxContentAspect)) / 2
	}

	bottomStart := int(float64(height) * bottomScanStart)
	if bottomStart > height-1 {
		bottomStart = height - 1
	}

	for _, threshold := range cropThresholds {
		left := scanForward(row, scanInset+sideSkip, threshold)
		right := scanBackward(row, len(row)-1-scanInset-sideSkip, threshold)
		top := scanForward(column, scanInset, threshold)
		bottom := scanBackward(column, bottomStart, threshold)

		if left < 0 || right < 0 || top < 0 || bottom < 0 {
			continue
		}
		if right <= left || bottom <= top {
			continue
		}

		candidate := geometry.Rect{
			X:      bounds.Min.X + left,
			Y:      bounds.Min.Y + top,
			Width:  right - left + 1,
			Height: bottom - top + 1,
		}
		if plausible(candidate, width, height) {
			return candidate, true
		}
	}

	return geometry.Rect{}, false
}

// lumaRow samples the BT.601 luminance of one pixel row.
func lumaRow(img image.Image, y int) []float64 {
	bounds := img.Bounds()
	row := make([]float64, bounds.Dx())
	for i := range row {
		r, g, b, _ := img.At(bounds.Min.X+i, y).RGBA()
		row[i] = 0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(b>>8)
	}
	return row
}

// lumaColumn samples the BT.601 luminance of one pixel column.
func lumaColumn(img image.Image, x int) []float64 {
	bounds := img.Bounds()
	column := make([]float64, bounds.Dy())
	for i := range column {
		r, g, b, _ := img.At(x, bounds.Min.Y+i).RGBA()
		column[i] = 0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(b>>8)
	}
	return column
}

// scanForward walks from start toward the end of values and returns the
// first index whose luminance jumps from its predecessor by more than
// threshold, or -1 when no edge is found.
func scanForward(values []float64, start int, threshold float64) int {
	if start < 0 {
		start = 0
	}
	for i := start + 1; i < len(values); i++ {
		if math.Abs(values[i]-values[i-1]) > threshold {
			return i
		}
	}
	return -1
}

// scanBackward walks from start toward the beginning of values and
// returns the first index whose luminance jumps from its successor by
// more than threshold, or -1 when no edge is found.
func scanBackward(values []float64, start int, threshold float64) int {
	if start > len(values)-1 {
		start = len(values) - 1
	}
	for i := start - 1; i >= 0; i-- {
		if math.Abs(values[i]-values[i+1]) > threshold {
			return i
		}
	}
	return -1
}

// plausible applies the acceptance criteria to a candidate rectangle.
func plausible(r geometry.Rect, width, height int) bool {
	if float64(r.Width) < float64(width)*minSizeFraction {
		return false
	}
	if float64(r.Height) < float64(height)*minSizeFraction {
		return false
	}
	aspect := float64(r.Width) / float64(r.Height)
	if aspect > maxCropAspect || 1/aspect > maxCropAspect {
		return false
	}
	if float64(r.Bottom()) > float64(height)*maxBottomFrac {
		return false
	}
	return true
}
