package pipeline

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"log"
	"sync/atomic"
	"time"

	"github.com/hoshinet/montagen/internal/config"
	"github.com/hoshinet/montagen/internal/detection"
	"github.com/hoshinet/montagen/internal/geometry"
	"github.com/hoshinet/montagen/internal/imaging"
	"github.com/hoshinet/montagen/internal/ocr"
)

// DefaultEncodeTimeout bounds the encoding step when Runner.EncodeTimeout
// is zero.
const DefaultEncodeTimeout = 30 * time.Second

// composeShare is the progress band owned by the compose phase; encoding
// takes the run from there to 100.
const composeShare = 90

// Request describes one montage run.
type Request struct {
	// Paths are the screenshots to montage, in tile order.
	Paths []string

	// Settings is the configuration snapshot for the run. Run never
	// mutates it; changes it wants persisted are signalled on the Result.
	Settings config.Settings
}

// ResolvedMask is a mask slot after resolution: a concrete pixel
// rectangle in source image coordinates plus its fill color.
type ResolvedMask struct {
	Enabled  bool
	Rect     geometry.Rect
	Fill     color.NRGBA
	FellBack bool
}

// ResolvedGeometry captures every layout decision of a run. It is computed
// once from the first screenshot and then applied unchanged to all of
// them, so tiles line up even when per-frame detection would disagree.
type ResolvedGeometry struct {
	Crop       geometry.Rect
	Self       ResolvedMask
	Enemy      ResolvedMask
	Background color.NRGBA
	Columns    int
	Rows       int
	TileWidth  int
	TileHeight int
	Offset     int

	// Width and Height are the montage canvas dimensions, including the
	// gutter before the first and after the last tile on each axis.
	Width  int
	Height int
}

// Result is the outcome of a successful run.
type Result struct {
	// Data is the encoded montage.
	Data []byte

	// Filename is a timestamped name matching the encoded format.
	Filename string

	// Geometry is the resolved layout the montage was built with.
	Geometry ResolvedGeometry

	// CropAutoDisabled is true when automatic crop detection found
	// nothing and the configured crop size was used instead. Callers
	// should persist crop_auto=false so later runs skip the detection.
	CropAutoDisabled bool

	// Notices are human-readable remarks about recoverable degradations,
	// such as a mask falling back to its saved rectangle.
	Notices []string
}

// recognizerCloser is the OCR engine surface the runner manages.
type recognizerCloser interface {
	detection.Recognizer
	Close() error
}

// Runner executes montage runs one at a time. The zero value is ready to
// use; configure the exported fields before the first Run and leave them
// alone afterwards.
type Runner struct {
	// Progress receives phase and percent events during a run. Nil
	// disables reporting.
	Progress ProgressFunc

	// EncodeTimeout bounds the encoding step. Zero selects
	// DefaultEncodeTimeout.
	EncodeTimeout time.Duration

	// newRecognizer creates the OCR engine when a run needs one; tests
	// substitute a fake. Nil selects the Tesseract engine.
	newRecognizer func(language string) (recognizerCloser, error)

	processing atomic.Bool
	scratch    imaging.Surface
}

// resolution is the outcome of the layout step.
type resolution struct {
	geom             ResolvedGeometry
	notices          []string
	cropAutoDisabled bool
}

// Run builds one montage: it validates the request, resolves the layout
// from the first screenshot, composes every tile, and encodes the result.
//
// Only one run may be in flight per Runner; a concurrent second call
// returns ErrBusy without side effects. Errors are *RunError values whose
// code states which stage failed. A panic anywhere in the run is
// converted to a CodeInternal error after the scratch memory is released
// and the busy flag cleared, so the Runner stays usable.
func (r *Runner) Run(ctx context.Context, req Request) (result *Result, err error) {
	if !r.processing.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer r.processing.Store(false)
	defer r.scratch.Shrink()
	defer func() {
		if rec := recover(); rec != nil {
			result = nil
			err = runErrorf(CodeInternal, "montage run panicked: %v", rec)
		}
	}()

	if len(req.Paths) == 0 {
		return nil, runErrorf(CodeValidation, "no input images")
	}
	if err := req.Settings.Validate(); err != nil {
		return nil, wrapRunError(CodeValidation, err, "invalid settings")
	}

	r.report(PhaseResolve, 0)

	probe, err := imaging.DecodeFile(req.Paths[0])
	if err != nil {
		return nil, wrapRunError(CodeDecode, err, "decoding %s", req.Paths[0])
	}

	// The OCR engine is scoped to this run: acquired only when a mask
	// needs it, shared by both slots, and closed on every exit path.
	var engine recognizerCloser
	if maskWantsOCR(req.Settings.SelfMask) || maskWantsOCR(req.Settings.EnemyMask) {
		engine = r.newEngine(req.Settings.OCRLanguage)
	}
	defer func() {
		if engine == nil {
			return
		}
		if cerr := engine.Close(); cerr != nil {
			log.Printf("closing OCR engine: %v", cerr)
		}
	}()

	res, err := r.resolve(probe, req.Settings, len(req.Paths), engine)
	if err != nil {
		return nil, err
	}

	montage, err := r.compose(ctx, req.Paths, res.geom)
	if err != nil {
		return nil, err
	}

	r.report(PhaseEncode, composeShare)

	timeout := r.EncodeTimeout
	if timeout <= 0 {
		timeout = DefaultEncodeTimeout
	}
	encodeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	data, err := imaging.EncodeMontage(encodeCtx, montage, req.Settings.Format, req.Settings.Quality)
	if err != nil {
		if ctx.Err() != nil {
			return nil, wrapRunError(CodeCanceled, ctx.Err(), "montage run canceled")
		}
		return nil, wrapRunError(CodeEncode, err, "encoding %s montage", req.Settings.Format)
	}

	r.report(PhaseDone, 100)

	return &Result{
		Data:             data,
		Filename:         imaging.SuggestedFilename(req.Settings.Format, time.Now()),
		Geometry:         res.geom,
		CropAutoDisabled: res.cropAutoDisabled,
		Notices:          res.notices,
	}, nil
}

// resolve turns the settings and the first screenshot into the frozen
// layout for the whole run.
func (r *Runner) resolve(probe image.Image, s config.Settings, count int, rec detection.Recognizer) (resolution, error) {
	var res resolution
	bounds := geometry.FromImageRect(probe.Bounds())

	crop := s.Crop
	if s.CropAuto {
		if detected, ok := detection.DetectCrop(probe); ok {
			crop = detected
		} else {
			res.cropAutoDisabled = true
			res.notices = append(res.notices, "automatic crop detection found no content; switching to the configured crop size")
			log.Printf("crop detection found no content, using configured %dx%d crop", s.Crop.Width, s.Crop.Height)
		}
	}

	crop = crop.Intersect(bounds)
	if crop.Empty() {
		return resolution{}, runErrorf(CodeValidation, "no usable crop rectangle for a %dx%d screenshot", bounds.Width, bounds.Height)
	}

	self, err := resolveSlot(probe, crop, detection.SideLeft, "self", s.SelfMask, rec)
	if err != nil {
		return resolution{}, err
	}
	enemy, err := resolveSlot(probe, crop, detection.SideRight, "enemy", s.EnemyMask, rec)
	if err != nil {
		return resolution{}, err
	}
	if self.FellBack {
		res.notices = append(res.notices, "self mask: no name label found, using the saved rectangle")
	}
	if enemy.FellBack {
		res.notices = append(res.notices, "enemy mask: no name label found, using the saved rectangle")
	}

	background, err := imaging.ParseHexColor(s.Background)
	if err != nil {
		return resolution{}, wrapRunError(CodeValidation, err, "background color")
	}

	cols := s.Columns
	rows := (count + cols - 1) / cols
	res.geom = ResolvedGeometry{
		Crop:       crop,
		Self:       self,
		Enemy:      enemy,
		Background: background,
		Columns:    cols,
		Rows:       rows,
		TileWidth:  crop.Width,
		TileHeight: crop.Height,
		Offset:     s.TileOffset,
		Width:      crop.Width*cols + s.TileOffset*(cols+1),
		Height:     crop.Height*rows + s.TileOffset*(rows+1),
	}
	return res, nil
}

// compose decodes every screenshot, crops it onto the scratch tile,
// paints the enabled masks, and places the tile on the montage canvas.
// The context is checked before each tile, so cancellation takes effect
// at tile granularity.
func (r *Runner) compose(ctx context.Context, paths []string, geom ResolvedGeometry) (*image.NRGBA, error) {
	montage, err := imaging.NewCanvas(geom.Width, geom.Height, geom.Background)
	if err != nil {
		return nil, runErrorf(CodeInternal, "montage canvas: %v", err)
	}

	cropOrigin := image.Pt(geom.Crop.X, geom.Crop.Y)
	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, wrapRunError(CodeCanceled, err, "montage run canceled at tile %d of %d", i+1, len(paths))
		}

		img, err := imaging.DecodeFile(path)
		if err != nil {
			return nil, wrapRunError(CodeDecode, err, "decoding %s", path)
		}

		tile, err := r.scratch.Reset(geom.TileWidth, geom.TileHeight)
		if err != nil {
			return nil, runErrorf(CodeInternal, "tile surface: %v", err)
		}
		draw.Draw(tile, tile.Bounds(), img, cropOrigin, draw.Src)

		for _, mask := range []ResolvedMask{geom.Self, geom.Enemy} {
			if !mask.Enabled {
				continue
			}
			local := mask.Rect.Translate(-geom.Crop.X, -geom.Crop.Y)
			imaging.FillRect(tile, local.ToImageRect(), mask.Fill)
		}

		col := i % geom.Columns
		row := i / geom.Columns
		x := geom.Offset + col*(geom.TileWidth+geom.Offset)
		y := geom.Offset + row*(geom.TileHeight+geom.Offset)
		draw.Draw(montage, image.Rect(x, y, x+geom.TileWidth, y+geom.TileHeight), tile, image.Point{}, draw.Over)

		r.report(PhaseCompose, (i+1)*composeShare/len(paths))
	}

	return montage, nil
}

// newEngine starts the OCR engine for one run. A nil result means no
// engine is available; mask resolution then falls back to the slots'
// saved rectangles.
func (r *Runner) newEngine(language string) recognizerCloser {
	create := r.newRecognizer
	if create == nil {
		create = func(lang string) (recognizerCloser, error) {
			return ocr.NewEngine(lang)
		}
	}
	engine, err := create(language)
	if err != nil {
		log.Printf("OCR engine unavailable, masks fall back to saved rectangles: %v", err)
		return nil
	}
	return engine
}

func resolveSlot(img image.Image, crop geometry.Rect, side detection.Side, name string, slot config.MaskSlot, rec detection.Recognizer) (ResolvedMask, error) {
	if !slot.Enabled {
		return ResolvedMask{}, nil
	}
	fill, err := imaging.ParseHexColor(slot.Fill)
	if err != nil {
		return ResolvedMask{}, wrapRunError(CodeValidation, err, "%s mask fill color", name)
	}
	m := detection.ResolveMask(img, crop, side, slot, rec)
	return ResolvedMask{Enabled: true, Rect: m.Rect, Fill: fill, FellBack: m.FellBack}, nil
}

func maskWantsOCR(slot config.MaskSlot) bool {
	return slot.Enabled && slot.Mode == config.MaskOCR
}
