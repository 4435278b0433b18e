// Package detection locates the content area and the mask regions within a
// screenshot.
//
// Two concerns live here. DetectCrop finds the rectangle of actual scene
// content inside a frame that may carry black bars, window chrome, or
// overlay strips, by scanning the center row and column for luminance
// edges. ResolveMask turns a configured mask slot into a concrete pixel
// rectangle, either by taking the configured rectangle as-is, by scaling a
// ratio rectangle against the crop, or by finding a name-plate label with
// OCR and deriving the covering rectangle from it.
//
// # Coordinate System
//
// All rectangles use the standard image convention: origin at the top
// left, X rightward, Y downward. Crop and mask rectangles are expressed in
// full-image coordinates; callers translate masks into crop-local space
// when drawing.
//
// # Determinism
//
// Both detectors are pure functions of their inputs. Running them twice on
// the same frame with the same settings yields identical rectangles, so a
// montage rebuilt from the same inputs is pixel-identical.
//
// # Limitations
//
// DetectCrop assumes the content is brighter than the surrounding border
// and roughly centered; frames that are uniformly dark, or whose content
// reaches the very bottom edge, fail detection and the caller falls back
// to the configured crop. OCR-based mask resolution needs a working
// Tesseract installation; without one every OCR slot falls back to its
// manual rectangle.
package detection
