package pipeline

// Phase names a stage of a montage run.
type Phase string

const (
	// PhaseResolve is the layout resolution on the first screenshot.
	PhaseResolve Phase = "resolve"

	// PhaseCompose is the per-tile cropping, masking, and placement.
	PhaseCompose Phase = "compose"

	// PhaseEncode is the final image encoding.
	PhaseEncode Phase = "encode"

	// PhaseDone marks a finished run with the result ready.
	PhaseDone Phase = "done"
)

// Progress is one progress event. Percent runs from 0 to 100 over a whole
// run and never decreases: the compose phase owns the band up to 90 and
// encoding the remainder.
type Progress struct {
	Phase   Phase `json:"phase"`
	Percent int   `json:"percent"`
}

// ProgressFunc receives progress events. It is called synchronously from
// the goroutine executing Run and must return quickly.
type ProgressFunc func(Progress)

func (r *Runner) report(phase Phase, percent int) {
	if r.Progress != nil {
		r.Progress(Progress{Phase: phase, Percent: percent})
	}
}
