package imaging

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"time"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

// EncodeMontage serializes the finished montage to an encoded image blob.
//
// Supported formats are "webp", "png", and "jpeg". Quality runs from 1
// (smallest) to 100 (best) and applies to WebP and JPEG; PNG is lossless
// and ignores it.
//
// Encoding runs in its own goroutine and is bounded by ctx: when the
// context expires before the encoder finishes, the call returns the
// context error instead of hanging, and the abandoned encoder's output is
// discarded.
func EncodeMontage(ctx context.Context, img image.Image, format string, quality int) ([]byte, error) {
	if img == nil {
		return nil, fmt.Errorf("no image to encode")
	}
	if quality < 1 || quality > 100 {
		return nil, fmt.Errorf("quality must be between 1 and 100, got %d", quality)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("encoding %s did not finish in time: %w", format, err)
	}

	type encoded struct {
		data []byte
		err  error
	}
	done := make(chan encoded, 1)

	go func() {
		var buf bytes.Buffer
		err := encodeTo(&buf, img, format, quality)
		done <- encoded{buf.Bytes(), err}
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("encoding %s did not finish in time: %w", format, ctx.Err())
	case result := <-done:
		if result.err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", format, result.err)
		}
		return result.data, nil
	}
}

func encodeTo(w io.Writer, img image.Image, format string, quality int) error {
	switch format {
	case "webp":
		return webp.Encode(w, img, &webp.Options{Quality: float32(quality)})
	case "png":
		return imaging.Encode(w, img, imaging.PNG)
	case "jpeg":
		return imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(quality))
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

// FormatExt returns the filename extension for an output format,
// without the leading dot.
func FormatExt(format string) string {
	switch format {
	case "jpeg":
		return "jpg"
	default:
		return format
	}
}

// SuggestedFilename builds the default output filename for a montage
// encoded at the given time, e.g. "montage_20250301_154210.webp".
func SuggestedFilename(format string, now time.Time) string {
	return fmt.Sprintf("montage_%s.%s", now.Format("20060102_150405"), FormatExt(format))
}
