// internal/gesture/tremor.go
package gesture

import (
	"math"
	"math/rand"
)

// tremor models hand jitter as two independent critically damped noise
// processes, one per axis. Each step draws a pink-noise impulse, updates
// velocity (v = v*drag - pos*ease + nudge), integrates position, then
// soft-clamps as the position approaches the cap and hard-clamps as a final
// safety bound. The warmup ramp scales output 60%->100% so a gesture starts
// calm rather than mid-shake.
type tremor struct {
	capX, capY  float64
	nudge       float64
	drag, ease  float64
	warmupSteps int

	posX, posY float64
	velX, velY float64

	noiseX *pinkNoise
	noiseY *pinkNoise
}

// softKnee is the fraction of the cap where soft clamping begins.
const softKnee = 0.8

// newTremor builds a jitter process. ampScale multiplies both caps and the
// nudge magnitude (session tremorMul and fatigue land here).
func newTremor(rng *rand.Rand, cfg TremorConfig, ampScale float64) *tremor {
	if ampScale <= 0 {
		ampScale = 1.0
	}
	return &tremor{
		capX:        cfg.AmpCapX * ampScale,
		capY:        cfg.AmpCapY * ampScale,
		nudge:       cfg.NudgePx * ampScale,
		drag:        uniform(rng, cfg.Drag.Min, cfg.Drag.Max),
		ease:        uniform(rng, cfg.Ease.Min, cfg.Ease.Max),
		warmupSteps: cfg.WarmupSteps,
		noiseX:      newPinkNoise(rng, 12),
		noiseY:      newPinkNoise(rng, 12),
	}
}

// step advances both processes and returns the jitter offset for step i.
// The output magnitude never exceeds the configured caps, for any sequence
// of impulses.
func (tr *tremor) step(i int) (float64, float64) {
	tr.velX = tr.velX*tr.drag - tr.posX*tr.ease + tr.noiseX.Next()*tr.nudge
	tr.velY = tr.velY*tr.drag - tr.posY*tr.ease + tr.noiseY.Next()*tr.nudge
	tr.posX += tr.velX
	tr.posY += tr.velY

	tr.posX, tr.velX = softClamp(tr.posX, tr.velX, tr.capX)
	tr.posY, tr.velY = softClamp(tr.posY, tr.velY, tr.capY)

	scale := 1.0
	if tr.warmupSteps > 0 && i < tr.warmupSteps {
		scale = 0.6 + 0.4*float64(i)/float64(tr.warmupSteps)
	}
	return tr.posX * scale, tr.posY * scale
}

// softClamp compresses the region above softKnee*cap instead of hard-cutting
// it, which avoids visible clipping in the rendered path. The hard clamp is
// the final safety bound; velocity is bled off when it engages so the process
// does not ring against the wall.
func softClamp(pos, vel, cap float64) (float64, float64) {
	knee := cap * softKnee
	a := math.Abs(pos)
	if a > knee {
		a = knee + (a-knee)*0.4
	}
	if a > cap {
		a = cap
		vel *= -0.5
	}
	return math.Copysign(a, pos), vel
}
