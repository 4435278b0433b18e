// Package ocr wraps the Tesseract engine (via gosseract/v2) for locating
// label text inside a bounded region of a screenshot.
//
// The mask resolver uses this package to find name-plate anchor words like
// "Lv.30"; it never needs full-page OCR, so the API is a single Engine
// with one RecognizeRegion operation.
//
// # Prerequisites
//
// Tesseract and its language data must be installed on the system:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-eng
//   - Other languages: tesseract-ocr-<lang> packages
//
// Set MONTAGEN_TESSDATA to a tessdata directory when the language files
// live outside Tesseract's default search path.
//
// The bindings need cgo and are only wired up on Linux. Other builds get
// a stub Engine whose constructor fails with ErrUnavailable; the pipeline
// then falls back to manual mask rectangles.
//
// # Lifecycle
//
// One Engine serves a whole montage run: created only for runs with an
// OCR-mode mask slot enabled, shared by both slots, closed exactly once
// when the run ends regardless of outcome. Close is safe to call
// repeatedly.
//
// # Temporary Files
//
// RecognizeRegion hands the prepared region to Tesseract through a
// temporary PNG, which is deleted before the call returns.
package ocr
