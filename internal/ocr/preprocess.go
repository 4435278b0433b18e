package ocr

import (
	"image"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"
)

// ocrContrastBoost lifts label text off busy screenshot backgrounds before
// recognition. Range -1 to 1, where 0 leaves the image unchanged.
const ocrContrastBoost = 0.3

// prepareRegion cuts the search region out of img and normalizes it for
// recognition: grayscale first, then a contrast boost. Tesseract's own
// binarization copes much better with the flattened input than with
// colored game UI.
func prepareRegion(img image.Image, region image.Rectangle) *image.RGBA {
	cropped := imaging.Crop(img, region)
	gray := effect.Grayscale(cropped)
	return adjust.Contrast(gray, ocrContrastBoost)
}
