// Package imaging provides the raster operations behind the montage pipeline.
//
// This package covers decoding input screenshots, the reusable scratch
// surface the compositor draws tiles on, montage canvas construction, mask
// fills, and output encoding. All operations work with standard Go
// image.Image types and use a coordinate system where (0,0) is at the
// top-left corner, X increases rightward, and Y increases downward.
//
// # Decoding
//
// Decode and DecodeFile accept PNG, JPEG, GIF, BMP, and WebP input. The
// primary decode path applies EXIF auto-orientation; a plain fallback
// decode runs when the primary path rejects the data, so inputs with
// malformed metadata still load.
//
// # Surfaces
//
// Surface is the single reusable scratch raster of a run. Reset reuses
// its backing buffer across same-sized tiles and Shrink releases the
// memory when the run ends, keeping peak memory bounded by one tile plus
// the montage regardless of how many images are processed.
//
// # Encoding
//
// EncodeMontage writes WebP, PNG, or JPEG output at a 1-100 quality
// setting. The encoder runs under a caller-supplied context so a stuck or
// oversized encode surfaces as an error instead of a hang.
//
// # Error Handling
//
// Functions return errors for invalid inputs such as:
//   - Undecodable or truncated image data
//   - Non-positive surface or canvas dimensions
//   - Unknown output formats or out-of-range quality values
package imaging
