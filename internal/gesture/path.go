// internal/gesture/path.go
package gesture

import (
	"math"
	"math/rand"

	"go.uber.org/zap"
)

// GestureRequest describes one gesture to synthesize. It is immutable per
// call. Zero-valued optional fields fall back to configured defaults;
// non-finite numeric fields are recovered locally, never surfaced as errors.
type GestureRequest struct {
	// DX, DY is the intended displacement in pixels from the start point.
	DX float64
	DY float64
	// Start optionally pins the gesture origin. When nil the caller usually
	// derives one from SessionState.StartPoint.
	Start *Vector2D
	// Steps optionally overrides the configured step-count range.
	Steps *IntRange
	// DurationMs optionally overrides the configured duration range.
	DurationMs *FloatRange
	// Config optionally overrides every default parameter for this call
	// only. It must be validated by the caller.
	Config *Config
}

// PathStep is one timed point of a synthesized gesture. X and Y are relative
// to the gesture's start point; DelayMs is the wait before this step is
// dispatched.
type PathStep struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	DelayMs float64 `json:"delayMs"`
}

// PathBuilder orchestrates the geometry, outlier and timing components into
// an ordered list of timed points for one gesture.
type PathBuilder struct {
	cfg    Config
	rng    *rand.Rand
	logger *zap.Logger
}

// NewPathBuilder validates the configuration and returns a builder. A
// configuration violation is a programmer error and fails construction;
// nothing is re-validated per gesture.
func NewPathBuilder(cfg Config, rng *rand.Rand, logger *zap.Logger) (*PathBuilder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PathBuilder{cfg: cfg, rng: rng, logger: logger}, nil
}

// Build samples a complete path for req against the session's current
// personality. Every returned coordinate is finite; clamping to a viewport
// or other bounding box is the caller's responsibility.
func (b *PathBuilder) Build(req GestureRequest, s *SessionState) ([]PathStep, OutlierEvent, error) {
	cfg := &b.cfg
	if req.Config != nil {
		cfg = req.Config
	}

	dx, dy := sanitize(req.DX), sanitize(req.DY)

	stepsRange := cfg.Steps
	if req.Steps != nil {
		stepsRange = *req.Steps
	}
	stepsN := uniformInt(b.rng, stepsRange.Min, stepsRange.Max)
	if stepsN < 2 {
		stepsN = 2
	}

	durRange := cfg.DurationMs
	if req.DurationMs != nil {
		durRange = *req.DurationMs
	}
	// Log-normal tilt inside the requested window: short swipes dominate,
	// the occasional slow one stretches toward the top of the range.
	mid := (durRange.Min + durRange.Max) / 2
	spread := (durRange.Max - durRange.Min) / 4
	totalMs := clamp(logNormalMs(b.rng, mid, spread), durRange.Min, durRange.Max)

	outlier := selectOutlier(b.rng, cfg, s.Fatigue(), s.hesitation(), stepsN)
	s.noteOutlier(outlier)

	surge := 1.0
	if outlier.Kind == OutlierCurvySurge {
		surge = outlier.SurgeMul
	}

	lateral := newLateralOffset(b.rng, cfg, dx, dy, s.style(surge))
	trem := newTremor(b.rng, cfg.Tremor, s.tremorScale())
	delays := allocateDelays(b.rng, stepsN, totalMs, cfg, outlier)

	steps := make([]PathStep, stepsN)
	for i := 0; i < stepsN; i++ {
		t := float64(i+1) / float64(stepsN)
		off := lateral.at(t)
		tx, ty := trem.step(i)

		x := dx*t + off.X + tx
		y := dy*t + off.Y + ty
		if outlier.Kind == OutlierLateralSpike && i == outlier.SpikeStep {
			spike := lateral.perp.Mul(outlier.SpikePx)
			x += spike.X
			y += spike.Y
		}

		steps[i] = PathStep{X: sanitize(x), Y: sanitize(y), DelayMs: delays[i]}
	}

	b.logger.Debug("path built",
		zap.Int("steps", stepsN),
		zap.Float64("totalMs", totalMs),
		zap.String("outlier", string(outlier.Kind)),
		zap.String("grip", string(s.Grip())))

	return steps, outlier, nil
}

// sanitize recovers non-finite inputs to zero; degenerate requests produce a
// usable path instead of propagating NaN.
func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
