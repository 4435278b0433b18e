package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// Decode turns an image byte stream into a decoded bitmap.
//
// The primary path decodes with EXIF auto-orientation applied, so photos
// taken sideways come out upright. If the primary decoder rejects the
// stream, a plain fallback decode is attempted before giving up; some
// screenshots carry malformed metadata that only the plain path tolerates.
//
// Returns an error only when both paths fail.
func Decode(r io.Reader) (image.Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}
	return DecodeBytes(data)
}

// DecodeBytes decodes an in-memory image, trying the oriented decoder
// first and the plain decoder as a fallback.
func DecodeBytes(data []byte) (image.Image, error) {
	img, primaryErr := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if primaryErr == nil {
		return img, nil
	}

	img, _, fallbackErr := image.Decode(bytes.NewReader(data))
	if fallbackErr == nil {
		return img, nil
	}

	return nil, fmt.Errorf("failed to decode image: %w (fallback: %v)", primaryErr, fallbackErr)
}

// DecodeFile loads and decodes a single image file.
func DecodeFile(path string) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	img, err := DecodeBytes(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return img, nil
}

// ListImages returns the screenshot files directly inside dir, sorted by
// name. Only PNG and JPEG files are considered; other entries and
// subdirectories are skipped.
func ListImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".png", ".jpg", ".jpeg":
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}
