package ocr

import (
	"errors"
	"image"
)

// Word is one recognized word with its bounding box. Boxes returned by
// RecognizeRegion are in the coordinate space of the full image, not the
// searched sub-region.
type Word struct {
	// Text is the recognized word content.
	Text string `json:"text"`

	// Confidence is the recognition confidence from 0.0 to 1.0.
	Confidence float64 `json:"confidence"`

	// Box is the word's bounding rectangle.
	Box image.Rectangle `json:"box"`
}

// ErrUnavailable is returned by NewEngine when the binary was built
// without the Tesseract bindings. Callers treat it like any other engine
// startup failure: the affected mask slot falls back to its manual
// rectangle.
var ErrUnavailable = errors.New("ocr engine not available in this build")
