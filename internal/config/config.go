package config

import (
	"fmt"

	"github.com/hoshinet/montagen/internal/geometry"
	"github.com/hoshinet/montagen/internal/imaging"
)

// SchemaVersion is the settings document version written by this release.
//
// Version history:
//   - 1: mask slots carried a boolean "auto" flag (OCR on/off)
//   - 2: the auto flag became the three-way "mode" field (manual/ratio/ocr)
const SchemaVersion = 2

// MaskMode selects how a mask slot's rectangle is determined at run start.
type MaskMode string

const (
	// MaskManual uses the slot's pixel rectangle as entered.
	MaskManual MaskMode = "manual"

	// MaskRatio resolves the slot's ratio rectangle against the crop rectangle.
	MaskRatio MaskMode = "ratio"

	// MaskOCR locates the mask from a recognized label near the expected
	// position, falling back to the manual rectangle when nothing matches.
	MaskOCR MaskMode = "ocr"
)

// Format identifiers accepted for the encoded montage.
const (
	FormatWebP = "webp"
	FormatPNG  = "png"
	FormatJPEG = "jpeg"
)

// MaskSlot configures one of the two redaction masks.
type MaskSlot struct {
	// Enabled controls whether the mask is painted at all.
	Enabled bool `json:"enabled"`

	// Mode selects manual, ratio, or ocr resolution.
	Mode MaskMode `json:"mode"`

	// Rect is the manual pixel rectangle, in source image coordinates.
	// It is also the fallback when OCR resolution finds no label.
	Rect geometry.Rect `json:"rect"`

	// Ratio expresses the mask as fractions of the crop rectangle.
	Ratio geometry.RatioRect `json:"ratio"`

	// Fill is the opaque paint color as a hex string, e.g. "#101010".
	Fill string `json:"fill"`
}

// Settings is the complete, user-editable configuration for a montage run.
type Settings struct {
	// SchemaVersion identifies the document layout; see the package constant.
	SchemaVersion int `json:"schema_version"`

	// Columns is the number of tiles per montage row. Must be >= 1.
	Columns int `json:"columns"`

	// TileOffset is the uniform gutter in pixels, applied on both axes
	// before the first tile, between tiles, and after the last tile.
	TileOffset int `json:"tile_offset"`

	// Background is the montage background color as a hex string.
	Background string `json:"background"`

	// Format selects the output encoding: "webp", "png", or "jpeg".
	Format string `json:"format"`

	// Quality is the encoder quality from 1 to 100. PNG ignores it.
	Quality int `json:"quality"`

	// Crop is the manual crop rectangle, used directly when CropAuto is
	// false and as the fallback when automatic detection fails.
	Crop geometry.Rect `json:"crop"`

	// CropAuto enables luminance-edge crop detection on the first image.
	CropAuto bool `json:"crop_auto"`

	// OCRLanguage is the recognition language code passed to the OCR
	// engine, e.g. "eng".
	OCRLanguage string `json:"ocr_language"`

	// SelfMask covers the player's own name plate on the left side.
	SelfMask MaskSlot `json:"self_mask"`

	// EnemyMask covers the opponent's name plate on the right side.
	EnemyMask MaskSlot `json:"enemy_mask"`
}

// Defaults returns the hardcoded settings every load starts from.
func Defaults() *Settings {
	return &Settings{
		SchemaVersion: SchemaVersion,
		Columns:       3,
		TileOffset:    8,
		Background:    "#2E2E2E",
		Format:        FormatWebP,
		Quality:       90,
		Crop:          geometry.Rect{X: 0, Y: 0, Width: 1280, Height: 720},
		CropAuto:      true,
		OCRLanguage:   "eng",
		SelfMask: MaskSlot{
			Enabled: false,
			Mode:    MaskManual,
			Rect:    geometry.Rect{X: 16, Y: 16, Width: 280, Height: 32},
			Ratio:   geometry.RatioRect{X0: 0, Y0: 0.02, X1: 0.25, Y1: 0.07},
			Fill:    "#101010",
		},
		EnemyMask: MaskSlot{
			Enabled: false,
			Mode:    MaskManual,
			Rect:    geometry.Rect{X: 984, Y: 16, Width: 280, Height: 32},
			Ratio:   geometry.RatioRect{X0: 0.75, Y0: 0.02, X1: 1, Y1: 0.07},
			Fill:    "#101010",
		},
	}
}

// Validate checks every field a run depends on and returns the first
// problem found. It is called before any processing starts so that bad
// input never aborts a run halfway through.
func (s *Settings) Validate() error {
	if s.Columns < 1 {
		return fmt.Errorf("columns must be at least 1, got %d", s.Columns)
	}
	if s.TileOffset < 0 {
		return fmt.Errorf("tile offset must not be negative, got %d", s.TileOffset)
	}
	if s.Quality < 1 || s.Quality > 100 {
		return fmt.Errorf("quality must be between 1 and 100, got %d", s.Quality)
	}
	switch s.Format {
	case FormatWebP, FormatPNG, FormatJPEG:
	default:
		return fmt.Errorf("unsupported output format %q", s.Format)
	}
	if _, err := imaging.ParseHexColor(s.Background); err != nil {
		return fmt.Errorf("invalid background color: %w", err)
	}
	if !s.CropAuto && (s.Crop.Width <= 0 || s.Crop.Height <= 0) {
		return fmt.Errorf("manual crop must have positive size, got %dx%d", s.Crop.Width, s.Crop.Height)
	}
	if s.OCRLanguage == "" {
		return fmt.Errorf("ocr language must not be empty")
	}
	if err := s.SelfMask.validate("self mask"); err != nil {
		return err
	}
	if err := s.EnemyMask.validate("enemy mask"); err != nil {
		return err
	}
	return nil
}

func (m *MaskSlot) validate(name string) error {
	switch m.Mode {
	case MaskManual, MaskRatio, MaskOCR:
	default:
		return fmt.Errorf("%s: unknown mode %q", name, m.Mode)
	}
	if m.Rect.Width < 0 || m.Rect.Height < 0 {
		return fmt.Errorf("%s: rectangle size must not be negative, got %dx%d", name, m.Rect.Width, m.Rect.Height)
	}
	if _, err := imaging.ParseHexColor(m.Fill); err != nil {
		return fmt.Errorf("%s: invalid fill color: %w", name, err)
	}
	return nil
}
