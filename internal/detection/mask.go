package detection

import (
	"image"
	"regexp"

	"github.com/hoshinet/montagen/internal/config"
	"github.com/hoshinet/montagen/internal/geometry"
	"github.com/hoshinet/montagen/internal/ocr"
)

// Side identifies which half of the crop rectangle a mask slot covers.
type Side int

const (
	// SideLeft is the player's own name plate.
	SideLeft Side = iota

	// SideRight is the opponent's name plate.
	SideRight
)

func (s Side) String() string {
	if s == SideLeft {
		return "left"
	}
	return "right"
}

// Recognizer is the OCR capability the resolver needs. The concrete
// implementation is ocr.Engine; tests substitute a fake.
type Recognizer interface {
	RecognizeRegion(img image.Image, region image.Rectangle) ([]ocr.Word, error)
}

// MaskResult is the outcome of resolving one mask slot.
type MaskResult struct {
	// Rect is the resolved rectangle in full-image coordinates.
	Rect geometry.Rect

	// FellBack is true when OCR mode found no usable label and Rect is
	// the slot's manual rectangle instead.
	FellBack bool
}

// labelPattern matches name-plate anchor words: a short alphabetic tag, a
// dot, then digits, as in "Lv.30" or "Rk.7".
var labelPattern = regexp.MustCompile(`^[A-Za-z]{1,4}\.\d+`)

// OCR search tunables.
const (
	// labelBandFrac is the height of the searched band, as a fraction of
	// the crop rectangle. Name plates sit near the top edge.
	labelBandFrac = 0.25

	// labelPad grows the chosen word box on all sides before widening,
	// so the mask covers glyph antialiasing around the label.
	labelPad = 4
)

// ResolveMask computes the pixel rectangle for one mask slot.
//
// Manual mode returns the slot's rectangle untouched. Ratio mode resolves
// the slot's ratio rectangle against the crop rectangle, which keeps the
// mask consistent when the crop changes. OCR mode searches the slot's
// corner of the crop for a label word (see locateLabelMask); when nothing
// usable is found, including when rec is nil because no engine could be
// started, the slot keeps its manual rectangle and the result reports
// the fallback.
//
// Rectangles produced by ratio and ocr mode always lie within the crop
// rectangle or are empty; manual rectangles are taken as entered.
func ResolveMask(img image.Image, crop geometry.Rect, side Side, slot config.MaskSlot, rec Recognizer) MaskResult {
	switch slot.Mode {
	case config.MaskRatio:
		return MaskResult{Rect: geometry.FromRatio(crop, slot.Ratio)}
	case config.MaskOCR:
		if rec == nil {
			return MaskResult{Rect: slot.Rect, FellBack: true}
		}
		rect, ok := locateLabelMask(img, crop, side, rec)
		if !ok {
			return MaskResult{Rect: slot.Rect, FellBack: true}
		}
		return MaskResult{Rect: rect}
	default:
		return MaskResult{Rect: slot.Rect}
	}
}

// labelSearchRegion bounds the OCR work to the slot's top corner of the
// crop rectangle: the left or right horizontal half, and the top quarter
// vertically. Searching the whole frame would cost more and risk matching
// unrelated text.
func labelSearchRegion(crop geometry.Rect, side Side) image.Rectangle {
	band := int(float64(crop.Height) * labelBandFrac)
	mid := crop.X + crop.Width/2
	if side == SideLeft {
		return image.Rect(crop.X, crop.Y, mid, crop.Y+band)
	}
	return image.Rect(mid, crop.Y, crop.Right(), crop.Y+band)
}

// locateLabelMask finds the name-plate label in the slot's search region
// and derives the mask rectangle from it: pad the word box, widen it to
// the crop's outer edge on the slot's side so the whole plate is covered,
// then clamp to the crop.
func locateLabelMask(img image.Image, crop geometry.Rect, side Side, rec Recognizer) (geometry.Rect, bool) {
	region := labelSearchRegion(crop, side).Intersect(img.Bounds())
	if region.Empty() {
		return geometry.Rect{}, false
	}

	words, err := rec.RecognizeRegion(img, region)
	if err != nil || len(words) == 0 {
		return geometry.Rect{}, false
	}

	label, ok := pickLabel(words)
	if !ok {
		return geometry.Rect{}, false
	}

	rect := geometry.FromImageRect(label.Box).Pad(labelPad)
	if side == SideRight {
		rect.Width = crop.Right() - rect.X
	} else {
		rect.Width = rect.Right() - crop.X
		rect.X = crop.X
	}
	return rect.Intersect(crop), true
}

// pickLabel selects the topmost word matching the label pattern. Ties on
// the vertical coordinate break on the horizontal one, then on input
// order, so the choice is deterministic.
func pickLabel(words []ocr.Word) (ocr.Word, bool) {
	var best ocr.Word
	found := false
	for _, w := range words {
		if !labelPattern.MatchString(w.Text) {
			continue
		}
		if !found || above(w, best) {
			best = w
			found = true
		}
	}
	return best, found
}

func above(a, b ocr.Word) bool {
	if a.Box.Min.Y != b.Box.Min.Y {
		return a.Box.Min.Y < b.Box.Min.Y
	}
	return a.Box.Min.X < b.Box.Min.X
}
