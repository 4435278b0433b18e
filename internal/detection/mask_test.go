package detection

import (
	"errors"
	"image"
	"testing"

	"github.com/hoshinet/montagen/internal/config"
	"github.com/hoshinet/montagen/internal/geometry"
	"github.com/hoshinet/montagen/internal/ocr"
)

// fakeRecognizer returns canned words and records what it was asked for.
type fakeRecognizer struct {
	words  []ocr.Word
	err    error
	region image.Rectangle
	calls  int
}

func (f *fakeRecognizer) RecognizeRegion(_ image.Image, region image.Rectangle) ([]ocr.Word, error) {
	f.calls++
	f.region = region
	return f.words, f.err
}

func word(text string, x0, y0, x1, y1 int) ocr.Word {
	return ocr.Word{Text: text, Confidence: 0.9, Box: image.Rect(x0, y0, x1, y1)}
}

func maskTestFrame() (*image.NRGBA, geometry.Rect) {
	img := image.NewNRGBA(image.Rect(0, 0, 1280, 720))
	crop := geometry.Rect{X: 100, Y: 50, Width: 1000, Height: 500}
	return img, crop
}

func TestResolveMaskManualMode(t *testing.T) {
	img, crop := maskTestFrame()
	rec := &fakeRecognizer{words: []ocr.Word{word("Lv.30", 900, 60, 960, 84)}}
	slot := config.MaskSlot{
		Enabled: true,
		Mode:    config.MaskManual,
		Rect:    geometry.Rect{X: 16, Y: 16, Width: 280, Height: 32},
	}

	got := ResolveMask(img, crop, SideLeft, slot, rec)
	if got.FellBack {
		t.Error("ResolveMask() reported fallback in manual mode")
	}
	if got.Rect != slot.Rect {
		t.Errorf("ResolveMask() = %+v, want the manual rect %+v", got.Rect, slot.Rect)
	}
	if rec.calls != 0 {
		t.Errorf("manual mode called the recognizer %d times", rec.calls)
	}
}

func TestResolveMaskRatioMode(t *testing.T) {
	img, crop := maskTestFrame()
	rec := &fakeRecognizer{}
	slot := config.MaskSlot{
		Enabled: true,
		Mode:    config.MaskRatio,
		Ratio:   geometry.RatioRect{X0: 0.1, Y0: 0.05, X1: 0.4, Y1: 0.15},
	}

	got := ResolveMask(img, crop, SideLeft, slot, rec)
	want := geometry.Rect{X: 200, Y: 75, Width: 300, Height: 50}
	if got.FellBack {
		t.Error("ResolveMask() reported fallback in ratio mode")
	}
	if got.Rect != want {
		t.Errorf("ResolveMask() = %+v, want %+v", got.Rect, want)
	}
	if rec.calls != 0 {
		t.Errorf("ratio mode called the recognizer %d times", rec.calls)
	}
}

func TestResolveMaskOCRRightSide(t *testing.T) {
	img, crop := maskTestFrame()
	rec := &fakeRecognizer{words: []ocr.Word{
		word("Player", 680, 100, 760, 120),
		word("Lv.30", 900, 60, 960, 84),
	}}
	slot := config.MaskSlot{Enabled: true, Mode: config.MaskOCR, Rect: geometry.Rect{X: 1, Y: 2, Width: 3, Height: 4}}

	got := ResolveMask(img, crop, SideRight, slot, rec)
	if got.FellBack {
		t.Fatal("ResolveMask() fell back despite a matching label")
	}

	// Word box padded by 4, then widened to the crop's right edge.
	want := geometry.Rect{X: 896, Y: 56, Width: 204, Height: 32}
	if got.Rect != want {
		t.Errorf("ResolveMask() = %+v, want %+v", got.Rect, want)
	}

	wantRegion := image.Rect(600, 50, 1100, 175)
	if rec.region != wantRegion {
		t.Errorf("searched region = %v, want %v", rec.region, wantRegion)
	}
}

func TestResolveMaskOCRLeftSide(t *testing.T) {
	img, crop := maskTestFrame()
	rec := &fakeRecognizer{words: []ocr.Word{word("Lv.12", 140, 62, 196, 86)}}
	slot := config.MaskSlot{Enabled: true, Mode: config.MaskOCR}

	got := ResolveMask(img, crop, SideLeft, slot, rec)
	if got.FellBack {
		t.Fatal("ResolveMask() fell back despite a matching label")
	}

	// Padded box widened to the crop's left edge.
	want := geometry.Rect{X: 100, Y: 58, Width: 100, Height: 32}
	if got.Rect != want {
		t.Errorf("ResolveMask() = %+v, want %+v", got.Rect, want)
	}

	wantRegion := image.Rect(100, 50, 600, 175)
	if rec.region != wantRegion {
		t.Errorf("searched region = %v, want %v", rec.region, wantRegion)
	}
}

func TestResolveMaskOCRClampsToCrop(t *testing.T) {
	img, crop := maskTestFrame()
	// Close enough to the crop's top edge that padding overshoots it.
	rec := &fakeRecognizer{words: []ocr.Word{word("Lv.7", 140, 52, 196, 70)}}
	slot := config.MaskSlot{Enabled: true, Mode: config.MaskOCR}

	got := ResolveMask(img, crop, SideLeft, slot, rec)
	want := geometry.Rect{X: 100, Y: 50, Width: 100, Height: 24}
	if got.Rect != want {
		t.Errorf("ResolveMask() = %+v, want %+v", got.Rect, want)
	}
}

func TestResolveMaskOCRFallsBack(t *testing.T) {
	manual := geometry.Rect{X: 16, Y: 16, Width: 280, Height: 32}

	tests := []struct {
		name string
		rec  Recognizer
	}{
		{name: "nil recognizer", rec: nil},
		{name: "recognizer error", rec: &fakeRecognizer{err: errors.New("tesseract crashed")}},
		{name: "no words found", rec: &fakeRecognizer{}},
		{
			name: "no word matches the label pattern",
			rec: &fakeRecognizer{words: []ocr.Word{
				word("Player", 680, 60, 760, 84),
				word("Level30", 800, 60, 880, 84),
				word("L.v", 900, 60, 940, 84),
				word("Crown.7", 950, 60, 1020, 84),
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, crop := maskTestFrame()
			slot := config.MaskSlot{Enabled: true, Mode: config.MaskOCR, Rect: manual}

			got := ResolveMask(img, crop, SideRight, slot, tt.rec)
			if !got.FellBack {
				t.Error("ResolveMask() did not report fallback")
			}
			if got.Rect != manual {
				t.Errorf("ResolveMask() = %+v, want the manual rect %+v", got.Rect, manual)
			}
		})
	}
}

func TestResolveMaskOCRRegionOutsideImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 200, 100))
	crop := geometry.Rect{X: 500, Y: 500, Width: 400, Height: 200}
	rec := &fakeRecognizer{words: []ocr.Word{word("Lv.1", 700, 510, 740, 530)}}
	manual := geometry.Rect{X: 10, Y: 10, Width: 50, Height: 20}
	slot := config.MaskSlot{Enabled: true, Mode: config.MaskOCR, Rect: manual}

	got := ResolveMask(img, crop, SideRight, slot, rec)
	if !got.FellBack || got.Rect != manual {
		t.Errorf("ResolveMask() = %+v (fellBack=%v), want manual fallback", got.Rect, got.FellBack)
	}
	if rec.calls != 0 {
		t.Errorf("recognizer called %d times for an off-image region", rec.calls)
	}
}

func TestPickLabel(t *testing.T) {
	tests := []struct {
		name  string
		words []ocr.Word
		want  string
		found bool
	}{
		{
			name:  "ignores non-matching words",
			words: []ocr.Word{word("Player", 0, 0, 50, 20), word("Lv.30", 0, 40, 50, 60)},
			want:  "Lv.30",
			found: true,
		},
		{
			name: "prefers the topmost match",
			words: []ocr.Word{
				word("Lv.30", 700, 80, 760, 100),
				word("Rk.5", 650, 60, 700, 80),
			},
			want:  "Rk.5",
			found: true,
		},
		{
			name: "breaks vertical ties on the horizontal coordinate",
			words: []ocr.Word{
				word("Lv.9", 900, 60, 950, 80),
				word("Rk.5", 650, 60, 700, 80),
			},
			want:  "Rk.5",
			found: true,
		},
		{
			name: "breaks full ties on input order",
			words: []ocr.Word{
				word("Aa.1", 650, 60, 700, 80),
				word("Bb.2", 650, 60, 700, 80),
			},
			want:  "Aa.1",
			found: true,
		},
		{
			name:  "long alphabetic tags do not match",
			words: []ocr.Word{word("Grade.30", 0, 0, 80, 20)},
			found: false,
		},
		{
			name:  "no words",
			words: nil,
			found: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := pickLabel(tt.words)
			if found != tt.found {
				t.Fatalf("pickLabel() found = %v, want %v", found, tt.found)
			}
			if found && got.Text != tt.want {
				t.Errorf("pickLabel() = %q, want %q", got.Text, tt.want)
			}
		})
	}
}

func TestSideString(t *testing.T) {
	if SideLeft.String() != "left" || SideRight.String() != "right" {
		t.Errorf("Side.String() = %q/%q, want left/right", SideLeft, SideRight)
	}
}
