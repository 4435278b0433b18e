// Package pipeline turns a list of screenshots and a settings snapshot
// into one encoded montage image.
//
// # Run Lifecycle
//
// A run moves through four phases, reported through the optional
// ProgressFunc:
//
//  1. resolve: the first screenshot is decoded and every layout decision
//     is made: the crop rectangle (detected or configured), both mask
//     rectangles, the grid dimensions, and the canvas size. The result is
//     a ResolvedGeometry that stays frozen for the rest of the run.
//  2. compose: each screenshot is decoded, its crop region copied onto a
//     reusable scratch tile, the enabled masks painted, and the tile
//     placed on the montage canvas left to right, top to bottom.
//  3. encode: the canvas is serialized to webp, png, or jpeg under a
//     deadline.
//  4. done: the encoded bytes and the resolved layout are returned.
//
// # Concurrency
//
// A Runner executes at most one run at a time. A second Run call while
// one is in flight fails fast with ErrBusy instead of queueing, which
// matches how the result is consumed: there is exactly one output slot,
// and a queued duplicate run would only overwrite it with the same bytes.
// Cancellation is cooperative; the context is checked before every tile
// and enforced with a deadline around encoding.
//
// # Resources
//
// The scratch tile buffer is reused across all tiles of a run and
// released when the run ends, successful or not. The OCR engine is
// scoped to a single run: started only when an enabled mask slot is in
// ocr mode, shared by both slots, and closed on every exit path,
// whether the run succeeds, fails, or panics.
//
// # Errors
//
// Every failure is a *RunError carrying an ErrorCode that names the
// failed stage. Recoverable degradations (crop detection finding
// nothing, a mask label not found) do not fail the run; they are
// reported as notices on the Result instead.
package pipeline
