// internal/gesture/lateral.go
package gesture

import (
	"math"
	"math/rand"
)

// lateralStyle carries the session-derived parameters that shape one
// gesture's lateral geometry.
type lateralStyle struct {
	// curviness scales the arc amplitude (personality or override window).
	curviness float64
	// arcMul is the slow-drift arc multiplier from the session meta walk.
	arcMul float64
	// driftPx is added to the sampled slant.
	driftPx float64
	// surgeMul is > 1 when a CurvySurge outlier is active, else 1.
	surgeMul float64
	// burst, when non-nil, dictates the variant (and flip sign) for every
	// gesture inside the window.
	burst *burstWindow
}

// lateralOffset is the perpendicular displacement function for one gesture:
// offsetAt(t) = arcAmp*shape(t)*perp + slant*smoothstep(t)*perp.
type lateralOffset struct {
	perp    Vector2D
	arcAmp  float64
	slant   float64
	pow     float64
	variant ArcVariant
	sign    float64
	breakT  float64
	flatten float64
	damp    float64
}

// newLateralOffset samples the arc geometry for a gesture along (dx, dy).
// A zero direction falls back to a default vertical swipe so the math never
// produces NaN.
func newLateralOffset(rng *rand.Rand, cfg *Config, dx, dy float64, style lateralStyle) *lateralOffset {
	dir := Vector2D{X: dx, Y: dy}.Normalize()
	if dir.Mag() < 1e-9 {
		dir = Vector2D{X: 0, Y: -1}
	}

	drift := style.driftPx
	if rng.Intn(2) == 0 {
		drift = -drift
	}

	l := &lateralOffset{
		perp:    dir.Perp(),
		arcAmp:  uniform(rng, cfg.ArcAmpPx.Min, cfg.ArcAmpPx.Max) * style.curviness * style.arcMul * style.surgeMul,
		slant:   uniform(rng, cfg.SlantPx.Min, cfg.SlantPx.Max) + drift,
		pow:     uniform(rng, cfg.ShapePow.Min, cfg.ShapePow.Max),
		sign:    1.0,
		breakT:  uniform(rng, cfg.SCurveBreak.Min, cfg.SCurveBreak.Max),
		flatten: uniform(rng, cfg.FlattenScale.Min, cfg.FlattenScale.Max),
		damp:    cfg.StraightDamp,
	}

	if rng.Intn(2) == 0 {
		l.sign = -1.0
	}

	switch {
	case style.burst != nil:
		l.variant = style.burst.mode
		if l.variant == VariantFlip {
			// Burst windows curve to the same side for every gesture they
			// cover; the sign was fixed when the window opened.
			l.sign = style.burst.flipSign
		}
	case chance(rng, cfg.VariantChance):
		l.variant = pickVariant(rng, cfg.VariantWeights)
	default:
		l.variant = VariantPlain
	}

	return l
}

// pickVariant draws one distortion from the configured weighted list.
func pickVariant(rng *rand.Rand, w VariantWeights) ArcVariant {
	idx, err := weightedIndex(rng, []float64{w.Flatten, w.Flip, w.SCurve, w.Straight})
	if err != nil {
		// Weights were validated at construction; an empty list here means
		// the caller bypassed Validate. Degrade to the plain arc.
		return VariantPlain
	}
	return [...]ArcVariant{VariantFlatten, VariantFlip, VariantSCurve, VariantStraight}[idx]
}

// at evaluates the perpendicular offset at progress t in [0, 1].
func (l *lateralOffset) at(t float64) Vector2D {
	t = clamp(t, 0, 1)
	shape := math.Pow(math.Sin(math.Pi*t), l.pow)

	switch l.variant {
	case VariantFlatten:
		shape *= l.flatten
	case VariantSCurve:
		if t >= l.breakT {
			shape = -shape
		}
	case VariantStraight:
		// Heavily damped, with a small residual bump around mid-path.
		bump := math.Pow(math.Sin(math.Pi*t), 6)
		shape = shape*l.damp + bump*l.damp*1.5
	}

	mag := l.arcAmp*l.sign*shape + l.slant*smoothstep(t)
	return l.perp.Mul(mag)
}
