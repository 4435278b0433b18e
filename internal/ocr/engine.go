//go:build cgo && linux

package ocr

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/otiai10/gosseract/v2"
)

// Engine wraps a single Tesseract client.
//
// The pipeline creates at most one Engine per montage run, shares it
// between both mask slots, and closes it exactly once when the run ends.
//
// An Engine is owned by a single goroutine; it is not safe for concurrent
// use.
type Engine struct {
	client *gosseract.Client
}

// NewEngine starts a Tesseract client configured for the given language
// code (e.g. "eng"). The language data must be installed on the system;
// set MONTAGEN_TESSDATA to point at a tessdata directory when it lives
// outside Tesseract's default search path.
func NewEngine(language string) (*Engine, error) {
	client := gosseract.NewClient()

	if dir := os.Getenv("MONTAGEN_TESSDATA"); dir != "" {
		if err := client.SetTessdataPrefix(dir); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to set tessdata path: %w", err)
		}
	}
	if err := client.SetLanguage(language); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set language: %w", err)
	}

	return &Engine{client: client}, nil
}

// Close terminates the engine. Calling Close again is a no-op.
func (e *Engine) Close() error {
	if e == nil || e.client == nil {
		return nil
	}
	client := e.client
	e.client = nil
	return client.Close()
}

// RecognizeRegion runs text recognition on one rectangular region of img.
//
// The region is clipped to the image bounds first; a clip with no area
// returns no words and no error. The region is cut out, normalized for
// recognition (see prepareRegion), and handed to Tesseract through a
// temporary PNG, which is removed before returning. Word bounding boxes
// are translated from region-local back to full-image coordinates, so
// callers can compare them against other rectangles in img's space
// directly. Words recognized as empty strings are dropped.
func (e *Engine) RecognizeRegion(img image.Image, region image.Rectangle) ([]Word, error) {
	if e == nil || e.client == nil {
		return nil, fmt.Errorf("ocr engine is closed")
	}
	region = region.Intersect(img.Bounds())
	if region.Empty() {
		return nil, nil
	}

	prepared := prepareRegion(img, region)

	// Tesseract reads from a file path
	tmpFile, err := os.CreateTemp("", "mask-ocr-*.png")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	if err := png.Encode(tmpFile, prepared); err != nil {
		tmpFile.Close()
		return nil, fmt.Errorf("failed to encode temp image: %w", err)
	}
	tmpFile.Close()

	if err := e.client.SetImage(tmpPath); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}
	if _, err := e.client.Text(); err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	boxes, err := e.client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("failed to get word boxes: %w", err)
	}

	words := make([]Word, 0, len(boxes))
	for _, box := range boxes {
		if box.Word == "" {
			continue
		}
		words = append(words, Word{
			Text:       box.Word,
			Confidence: float64(box.Confidence) / 100.0,
			Box:        box.Box.Add(region.Min),
		})
	}
	return words, nil
}
