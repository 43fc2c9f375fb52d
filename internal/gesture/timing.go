// internal/gesture/timing.go
package gesture

import (
	"math"
	"math/rand"
)

// allocateDelays distributes totalMs across stepsN per-step delays. The base
// allocation is an even integer split with the remainder handed to the
// earliest steps; each step then receives independent bounded jitter, a
// LongPause outlier adds its pause to the designated step, and the optional
// frame quantization pass snaps every delay to the display cadence.
func allocateDelays(rng *rand.Rand, stepsN int, totalMs float64, cfg *Config, outlier OutlierEvent) []float64 {
	if stepsN <= 0 {
		return nil
	}
	delays := make([]float64, stepsN)

	totalInt := int(totalMs)
	if totalInt < stepsN {
		totalInt = stepsN
	}
	base := totalInt / stepsN
	remainder := totalInt % stepsN
	for i := range delays {
		delays[i] = float64(base)
		// Remainder goes to the earliest steps, never piled on the end.
		if i < remainder {
			delays[i]++
		}
	}

	jitterMax := float64(base) * cfg.DelayJitterFrac
	for i := range delays {
		delays[i] += uniform(rng, -jitterMax, jitterMax)
		if delays[i] < 0 {
			delays[i] = 0
		}
	}

	if cfg.Frame.Enabled {
		quantizeToFrames(rng, delays, cfg.Frame)
	}

	// The pause lands after quantization so the designated step's delay
	// grows by exactly PauseMs even when frame snapping is enabled.
	if outlier.Kind == OutlierLongPause {
		idx := outlier.PauseAtStep
		if idx < 0 {
			idx = 0
		}
		if idx >= stepsN {
			idx = stepsN - 1
		}
		delays[idx] += outlier.PauseMs
	}

	return delays
}

// quantizeToFrames snaps each delay to the nearest multiple of the frame
// interval, then perturbs: probability-gated sub-frame micro-jitter, a rare
// single dropped frame (+1 frame), and a one-time phase offset on the very
// first delay so the run is not perfectly frame-aligned.
func quantizeToFrames(rng *rand.Rand, delays []float64, fc FrameConfig) {
	frameMs := 1000.0 / float64(fc.Hz)

	for i := range delays {
		snapped := math.Round(delays[i]/frameMs) * frameMs

		if chance(rng, fc.MicroJitterChance) {
			j := uniform(rng, -fc.MicroJitterMaxMs, fc.MicroJitterMaxMs)
			j = clamp(j, -frameMs/2, frameMs/2)
			snapped += j
		}
		if chance(rng, fc.DropFrameChance) {
			snapped += frameMs
		}
		if snapped < 0 {
			snapped = 0
		}
		delays[i] = snapped
	}

	if len(delays) > 0 && fc.PhaseOffsetMaxMs > 0 {
		delays[0] += uniform(rng, 0, fc.PhaseOffsetMaxMs)
	}
}
