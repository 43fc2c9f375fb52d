// internal/gesture/outlier.go
package gesture

import (
	"math/rand"
)

// OutlierKind identifies the rare one-off event classes. The set is closed;
// every consumption site switches exhaustively over it.
type OutlierKind string

const (
	OutlierNone         OutlierKind = "none"
	OutlierLongPause    OutlierKind = "longPause"
	OutlierLateralSpike OutlierKind = "lateralSpike"
	OutlierCurvySurge   OutlierKind = "curvySurge"
)

// OutlierEvent is a tagged union describing at most one deviation injected
// into a single gesture. Only the fields belonging to Kind are meaningful.
type OutlierEvent struct {
	Kind OutlierKind

	// LongPause: index of the step whose delay receives the pause. Index 0
	// means the pause lands before the first step is dispatched.
	PauseAtStep int
	PauseMs     float64

	// LateralSpike: step that receives a signed one-off pixel offset.
	SpikeStep int
	SpikePx   float64

	// CurvySurge: multiplier (> 1) applied to the gesture's arc amplitude.
	SurgeMul float64
}

// selectOutlier draws at most one outlier for a gesture. The effective
// probability is the configured base raised linearly by fatigue plus the
// session's current hesitation bias (which also skews the type distribution
// toward LongPause). Recording lastOutlierType and opening a hesitation
// window is the caller's responsibility.
func selectOutlier(rng *rand.Rand, cfg *Config, fatigue, hesitation float64, stepsN int) OutlierEvent {
	p := cfg.OutlierChance*(1.0+cfg.OutlierFatigueGain*fatigue) + hesitation
	p = clamp(p, 0, 0.5)
	if !chance(rng, p) {
		return OutlierEvent{Kind: OutlierNone}
	}

	w := cfg.OutlierWeights
	idx, err := weightedIndex(rng, []float64{
		w.LongPause + hesitation, // hesitant hands pause, they don't spike
		w.LateralSpike,
		w.CurvySurge,
	})
	if err != nil {
		return OutlierEvent{Kind: OutlierNone}
	}

	switch idx {
	case 0:
		ev := OutlierEvent{
			Kind:    OutlierLongPause,
			PauseMs: uniform(rng, cfg.PauseMs.Min, cfg.PauseMs.Max),
		}
		// Short paths cannot absorb a mid-path stall; bias the pause to
		// before the first step.
		beforeFirst := 0.45
		if stepsN < 12 {
			beforeFirst = 0.8
		}
		if !chance(rng, beforeFirst) {
			ev.PauseAtStep = uniformInt(rng, 1, stepsN-1)
		}
		return ev
	case 1:
		px := uniform(rng, cfg.SpikePx.Min, cfg.SpikePx.Max)
		if rng.Intn(2) == 0 {
			px = -px
		}
		// Spikes land in the later 45-85% of the path, where a real thumb
		// slips after commitment.
		lo := int(float64(stepsN) * 0.45)
		hi := int(float64(stepsN) * 0.85)
		if lo < 1 {
			lo = 1
		}
		if hi <= lo {
			hi = lo
		}
		return OutlierEvent{
			Kind:      OutlierLateralSpike,
			SpikeStep: uniformInt(rng, lo, hi),
			SpikePx:   px,
		}
	default:
		return OutlierEvent{
			Kind:     OutlierCurvySurge,
			SurgeMul: uniform(rng, cfg.SurgeMul.Min, cfg.SurgeMul.Max),
		}
	}
}
