//go:build !cgo || !linux

package ocr

import "image"

// Engine is a placeholder for builds without the Tesseract bindings.
// NewEngine always fails with ErrUnavailable, so OCR-mode mask slots fall
// back to their manual rectangles; everything else works normally.
type Engine struct{}

// NewEngine reports that recognition is unavailable in this build.
func NewEngine(language string) (*Engine, error) {
	return nil, ErrUnavailable
}

// Close is a no-op.
func (e *Engine) Close() error {
	return nil
}

// RecognizeRegion reports that recognition is unavailable in this build.
func (e *Engine) RecognizeRegion(img image.Image, region image.Rectangle) ([]Word, error) {
	return nil, ErrUnavailable
}
