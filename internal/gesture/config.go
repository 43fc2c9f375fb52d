// internal/gesture/config.go
// This file defines the canonical configuration for the gesture synthesis
// engine. Every numeric range used by the geometry, timing, outlier and
// session components is enumerated here with a documented default; there is
// no runtime backfilling of missing keys. The struct is designed to be loaded
// from YAML via Viper, so an operator can reshape the engine's "touch style"
// without changing code.
package gesture

import (
	"fmt"
)

// FloatRange bounds a uniformly sampled float parameter.
type FloatRange struct {
	Min float64 `mapstructure:"min" yaml:"min"`
	Max float64 `mapstructure:"max" yaml:"max"`
}

// IntRange bounds a uniformly sampled integer parameter (inclusive).
type IntRange struct {
	Min int `mapstructure:"min" yaml:"min"`
	Max int `mapstructure:"max" yaml:"max"`
}

// ArcVariant names the stylistic distortions applied to the base arc shape.
type ArcVariant string

const (
	// VariantPlain is the undistorted sin(pi*t)^pow arc.
	VariantPlain ArcVariant = "plain"
	// VariantFlatten multiplies the whole shape by a scalar < 1.
	VariantFlatten ArcVariant = "flatten"
	// VariantFlip curves consistently to one randomly chosen side.
	VariantFlip ArcVariant = "flip"
	// VariantSCurve flips the offset sign once at a mid-path breakpoint.
	VariantSCurve ArcVariant = "sCurve"
	// VariantStraight heavily damps the shape except for a small mid bump.
	VariantStraight ArcVariant = "straight"
)

// VariantWeights is the per-gesture weighted list used when no burst window
// dictates the variant.
type VariantWeights struct {
	Flatten  float64 `mapstructure:"flatten" yaml:"flatten"`
	Flip     float64 `mapstructure:"flip" yaml:"flip"`
	SCurve   float64 `mapstructure:"s_curve" yaml:"s_curve"`
	Straight float64 `mapstructure:"straight" yaml:"straight"`
}

// OutlierWeights is the weighted type list for rare one-off events.
type OutlierWeights struct {
	LongPause    float64 `mapstructure:"long_pause" yaml:"long_pause"`
	LateralSpike float64 `mapstructure:"lateral_spike" yaml:"lateral_spike"`
	CurvySurge   float64 `mapstructure:"curvy_surge" yaml:"curvy_surge"`
}

// TremorConfig parameterises the critically damped jitter process.
type TremorConfig struct {
	// AmpCapX/AmpCapY are hard output bounds in pixels per axis.
	AmpCapX float64 `mapstructure:"amp_cap_x" yaml:"amp_cap_x"`
	AmpCapY float64 `mapstructure:"amp_cap_y" yaml:"amp_cap_y"`
	// NudgePx scales the random impulse injected every step.
	NudgePx float64 `mapstructure:"nudge_px" yaml:"nudge_px"`
	// Drag is the velocity retention factor, sampled in [0.6, 0.98].
	Drag FloatRange `mapstructure:"drag" yaml:"drag"`
	// Ease is the position restoring factor, sampled in [0.02, 0.35].
	Ease FloatRange `mapstructure:"ease" yaml:"ease"`
	// WarmupSteps ramps amplitude 60%->100% so gestures start calm.
	WarmupSteps int `mapstructure:"warmup_steps" yaml:"warmup_steps"`
}

// FrameConfig controls the optional frame-rate quantization pass.
type FrameConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	// Hz is the target refresh rate; one of 60, 90, 120.
	Hz int `mapstructure:"hz" yaml:"hz"`
	// MicroJitterChance gates a symmetric sub-frame perturbation per delay.
	MicroJitterChance float64 `mapstructure:"micro_jitter_chance" yaml:"micro_jitter_chance"`
	MicroJitterMaxMs  float64 `mapstructure:"micro_jitter_max_ms" yaml:"micro_jitter_max_ms"`
	// DropFrameChance gates a single-frame addition (a "missed" frame).
	DropFrameChance float64 `mapstructure:"drop_frame_chance" yaml:"drop_frame_chance"`
	// PhaseOffsetMaxMs shifts only the very first delay of a run so the
	// sequence is not perfectly frame-aligned.
	PhaseOffsetMaxMs float64 `mapstructure:"phase_offset_max_ms" yaml:"phase_offset_max_ms"`
}

// MetaBounds declares the allowed interval for each personality field. The
// random walk clamps into these on every drift step, so the fields can never
// diverge regardless of session length.
type MetaBounds struct {
	CurvinessMul  FloatRange `mapstructure:"curviness_mul" yaml:"curviness_mul"`
	HesitationAdd FloatRange `mapstructure:"hesitation_add" yaml:"hesitation_add"`
	DriftPxAdd    FloatRange `mapstructure:"drift_px_add" yaml:"drift_px_add"`
	ArcMul        FloatRange `mapstructure:"arc_mul" yaml:"arc_mul"`
	TremorMul     FloatRange `mapstructure:"tremor_mul" yaml:"tremor_mul"`
}

// Config is the complete parameter surface of the engine. All fields are
// overridable per call through GestureRequest.Config.
type Config struct {
	// -- Path shape --

	// Steps bounds the number of sampled points per gesture. Default [9, 22].
	Steps IntRange `mapstructure:"steps" yaml:"steps"`
	// DurationMs bounds the requested total gesture duration.
	DurationMs FloatRange `mapstructure:"duration_ms" yaml:"duration_ms"`
	// ArcAmpPx bounds the peak perpendicular arc amplitude.
	ArcAmpPx FloatRange `mapstructure:"arc_amp_px" yaml:"arc_amp_px"`
	// SlantPx bounds the net lateral drift accumulated over the gesture.
	SlantPx FloatRange `mapstructure:"slant_px" yaml:"slant_px"`
	// ShapePow bounds the exponent applied to the sin(pi*t) base shape.
	ShapePow FloatRange `mapstructure:"shape_pow" yaml:"shape_pow"`
	// SCurveBreak bounds the sign-flip breakpoint of the sCurve variant.
	SCurveBreak FloatRange `mapstructure:"s_curve_break" yaml:"s_curve_break"`
	// FlattenScale bounds the damping scalar of the flatten variant (< 1).
	FlattenScale FloatRange `mapstructure:"flatten_scale" yaml:"flatten_scale"`
	// StraightDamp is the residual shape fraction of the straight variant.
	StraightDamp float64 `mapstructure:"straight_damp" yaml:"straight_damp"`
	// VariantChance is the per-gesture probability of any non-plain variant
	// when no burst window is active.
	VariantChance  float64        `mapstructure:"variant_chance" yaml:"variant_chance"`
	VariantWeights VariantWeights `mapstructure:"variant_weights" yaml:"variant_weights"`

	// -- Tremor --

	Tremor TremorConfig `mapstructure:"tremor" yaml:"tremor"`

	// -- Timing --

	// DelayJitterFrac bounds per-step jitter as a fraction of the base
	// per-step delay.
	DelayJitterFrac float64     `mapstructure:"delay_jitter_frac" yaml:"delay_jitter_frac"`
	Frame           FrameConfig `mapstructure:"frame" yaml:"frame"`

	// -- Outliers --

	// OutlierChance is the base probability of one outlier per gesture.
	OutlierChance float64 `mapstructure:"outlier_chance" yaml:"outlier_chance"`
	// OutlierFatigueGain scales the chance up linearly with fatigue.
	OutlierFatigueGain float64        `mapstructure:"outlier_fatigue_gain" yaml:"outlier_fatigue_gain"`
	OutlierWeights     OutlierWeights `mapstructure:"outlier_weights" yaml:"outlier_weights"`
	// PauseMs bounds a LongPause outlier's extra delay.
	PauseMs FloatRange `mapstructure:"pause_ms" yaml:"pause_ms"`
	// SpikePx bounds a LateralSpike's one-step offset magnitude.
	SpikePx FloatRange `mapstructure:"spike_px" yaml:"spike_px"`
	// SurgeMul bounds a CurvySurge's curvature multiplier (> 1).
	SurgeMul FloatRange `mapstructure:"surge_mul" yaml:"surge_mul"`
	// HesitationBoostChance is the probability that an outlier opens a
	// hesitation window over the next HesitationBoostGestures gestures.
	HesitationBoostChance   float64 `mapstructure:"hesitation_boost_chance" yaml:"hesitation_boost_chance"`
	HesitationBoostGestures IntRange `mapstructure:"hesitation_boost_gestures" yaml:"hesitation_boost_gestures"`
	// HesitationBoostAdd is the probability added while a window is open.
	HesitationBoostAdd float64 `mapstructure:"hesitation_boost_add" yaml:"hesitation_boost_add"`

	// -- Session --

	// GripShiftBuckets schedules how many gestures pass before the next
	// right->left shift.
	GripShiftBuckets []Bucket `mapstructure:"grip_shift_buckets" yaml:"grip_shift_buckets"`
	// LeftRunBuckets schedules how many gestures a left run persists.
	LeftRunBuckets []Bucket `mapstructure:"left_run_buckets" yaml:"left_run_buckets"`
	// RightBias/LeftBias bound the horizontal start-point bias per grip.
	RightBias FloatRange `mapstructure:"right_bias" yaml:"right_bias"`
	LeftBias  FloatRange `mapstructure:"left_bias" yaml:"left_bias"`
	// BiasDelta bounds the per-shift perturbation of the hand bias.
	BiasDelta float64 `mapstructure:"bias_delta" yaml:"bias_delta"`
	// DriftInterval bounds the gesture count between personality drifts.
	DriftInterval IntRange `mapstructure:"drift_interval" yaml:"drift_interval"`
	// DriftStep bounds one random-walk step of a meta field.
	DriftStep float64    `mapstructure:"drift_step" yaml:"drift_step"`
	Meta      MetaBounds `mapstructure:"meta" yaml:"meta"`
	// BurstChanceInit/BurstChanceShift gate opening an arc-burst window at
	// session init and on a grip shift respectively.
	BurstChanceInit  float64 `mapstructure:"burst_chance_init" yaml:"burst_chance_init"`
	BurstChanceShift float64 `mapstructure:"burst_chance_shift" yaml:"burst_chance_shift"`
	// BurstGestures bounds the length of a burst window in gestures.
	BurstGestures IntRange `mapstructure:"burst_gestures" yaml:"burst_gestures"`
	// TremorFatigueGain scales tremor amplitude up linearly with fatigue.
	TremorFatigueGain float64 `mapstructure:"tremor_fatigue_gain" yaml:"tremor_fatigue_gain"`

	// -- Dispatch --

	// ForceStart bounds the initial contact pressure; force decays toward
	// ForceStart*ForceEndFrac across the gesture ("press then flick").
	ForceStart   FloatRange `mapstructure:"force_start" yaml:"force_start"`
	ForceEndFrac float64    `mapstructure:"force_end_frac" yaml:"force_end_frac"`
	// ForceWobble bounds the per-step random force variation.
	ForceWobble float64 `mapstructure:"force_wobble" yaml:"force_wobble"`
	// RadiusPx bounds the contact ellipse radii.
	RadiusPx FloatRange `mapstructure:"radius_px" yaml:"radius_px"`
	// RotationDeg bounds the contact rotation angle.
	RotationDeg FloatRange `mapstructure:"rotation_deg" yaml:"rotation_deg"`
	// MicroLatencyChance gates a tiny sleep before each dispatched event.
	MicroLatencyChance float64    `mapstructure:"micro_latency_chance" yaml:"micro_latency_chance"`
	MicroLatencyMs     FloatRange `mapstructure:"micro_latency_ms" yaml:"micro_latency_ms"`
	// TimestampJitterSec bounds the symmetric jitter fed to the monotonic
	// stamper. Ordering is preserved regardless of this value.
	TimestampJitterSec float64 `mapstructure:"timestamp_jitter_sec" yaml:"timestamp_jitter_sec"`
}

// DefaultConfig returns the configuration representing an average hand.
func DefaultConfig() Config {
	return Config{
		Steps:        IntRange{Min: 9, Max: 22},
		DurationMs:   FloatRange{Min: 280, Max: 620},
		ArcAmpPx:     FloatRange{Min: 6, Max: 26},
		SlantPx:      FloatRange{Min: -14, Max: 14},
		ShapePow:     FloatRange{Min: 0.8, Max: 1.6},
		SCurveBreak:  FloatRange{Min: 0.35, Max: 0.60},
		FlattenScale: FloatRange{Min: 0.25, Max: 0.55},
		StraightDamp: 0.12,
		VariantChance: 0.22,
		VariantWeights: VariantWeights{
			Flatten:  0.35,
			Flip:     0.30,
			SCurve:   0.20,
			Straight: 0.15,
		},
		Tremor: TremorConfig{
			AmpCapX:     2.4,
			AmpCapY:     2.0,
			NudgePx:     0.9,
			Drag:        FloatRange{Min: 0.6, Max: 0.98},
			Ease:        FloatRange{Min: 0.02, Max: 0.35},
			WarmupSteps: 4,
		},
		DelayJitterFrac: 0.35,
		Frame: FrameConfig{
			Enabled:           false,
			Hz:                60,
			MicroJitterChance: 0.10,
			MicroJitterMaxMs:  2.5,
			DropFrameChance:   0.02,
			PhaseOffsetMaxMs:  4.0,
		},
		OutlierChance:      0.06,
		OutlierFatigueGain: 0.8,
		OutlierWeights: OutlierWeights{
			LongPause:    0.45,
			LateralSpike: 0.35,
			CurvySurge:   0.20,
		},
		PauseMs:                 FloatRange{Min: 350, Max: 1400},
		SpikePx:                 FloatRange{Min: 8, Max: 30},
		SurgeMul:                FloatRange{Min: 1.4, Max: 2.2},
		HesitationBoostChance:   0.5,
		HesitationBoostGestures: IntRange{Min: 1, Max: 3},
		HesitationBoostAdd:      0.08,
		GripShiftBuckets: []Bucket{
			{Lo: 4, Hi: 9, Weight: 0.50},
			{Lo: 10, Hi: 18, Weight: 0.35},
			{Lo: 19, Hi: 30, Weight: 0.15},
		},
		LeftRunBuckets: []Bucket{
			{Lo: 2, Hi: 4, Weight: 0.60},
			{Lo: 5, Hi: 8, Weight: 0.30},
			{Lo: 9, Hi: 14, Weight: 0.10},
		},
		RightBias:     FloatRange{Min: 0.55, Max: 0.80},
		LeftBias:      FloatRange{Min: 0.20, Max: 0.45},
		BiasDelta:     0.03,
		DriftInterval: IntRange{Min: 6, Max: 12},
		DriftStep:     0.05,
		Meta: MetaBounds{
			CurvinessMul:  FloatRange{Min: 0.80, Max: 1.25},
			HesitationAdd: FloatRange{Min: 0.00, Max: 0.20},
			DriftPxAdd:    FloatRange{Min: 0.0, Max: 6.0},
			ArcMul:        FloatRange{Min: 0.75, Max: 1.30},
			TremorMul:     FloatRange{Min: 0.80, Max: 1.30},
		},
		BurstChanceInit:   0.15,
		BurstChanceShift:  0.25,
		BurstGestures:     IntRange{Min: 2, Max: 6},
		TremorFatigueGain: 0.5,
		ForceStart:        FloatRange{Min: 0.60, Max: 0.85},
		ForceEndFrac:      0.45,
		ForceWobble:       0.04,
		RadiusPx:          FloatRange{Min: 1.8, Max: 3.4},
		RotationDeg:       FloatRange{Min: 0, Max: 30},
		MicroLatencyChance: 0.18,
		MicroLatencyMs:     FloatRange{Min: 1, Max: 7},
		TimestampJitterSec: 0.0008,
	}
}

// Validate rejects configurations that would be programmer errors at
// sampling time. It is called once at construction; the engine never
// re-validates mid-gesture.
func (c *Config) Validate() error {
	if c.Steps.Min < 2 || c.Steps.Max < c.Steps.Min {
		return fmt.Errorf("gesture config: invalid step range [%d, %d]", c.Steps.Min, c.Steps.Max)
	}
	if c.DurationMs.Min <= 0 || c.DurationMs.Max < c.DurationMs.Min {
		return fmt.Errorf("gesture config: invalid duration range [%v, %v]", c.DurationMs.Min, c.DurationMs.Max)
	}
	if err := validateBuckets("grip_shift_buckets", c.GripShiftBuckets); err != nil {
		return err
	}
	if err := validateBuckets("left_run_buckets", c.LeftRunBuckets); err != nil {
		return err
	}
	vw := c.VariantWeights
	if vw.Flatten+vw.Flip+vw.SCurve+vw.Straight <= 0 {
		return fmt.Errorf("gesture config: variant weights sum to zero")
	}
	ow := c.OutlierWeights
	if ow.LongPause+ow.LateralSpike+ow.CurvySurge <= 0 {
		return fmt.Errorf("gesture config: outlier weights sum to zero")
	}
	switch c.Frame.Hz {
	case 60, 90, 120:
	default:
		if c.Frame.Enabled {
			return fmt.Errorf("gesture config: unsupported frame rate %d Hz", c.Frame.Hz)
		}
	}
	if c.Tremor.AmpCapX <= 0 || c.Tremor.AmpCapY <= 0 {
		return fmt.Errorf("gesture config: tremor amplitude caps must be positive")
	}
	if c.SurgeMul.Min <= 1.0 {
		return fmt.Errorf("gesture config: curvy surge multiplier must exceed 1, got min %v", c.SurgeMul.Min)
	}
	return nil
}

func validateBuckets(name string, buckets []Bucket) error {
	if len(buckets) == 0 {
		return fmt.Errorf("gesture config: %s is empty", name)
	}
	total := 0.0
	for _, b := range buckets {
		if b.Hi < b.Lo || b.Lo < 0 {
			return fmt.Errorf("gesture config: %s has invalid range [%d, %d]", name, b.Lo, b.Hi)
		}
		total += b.Weight
	}
	if total <= 0 {
		return fmt.Errorf("gesture config: %s has non-positive total weight", name)
	}
	return nil
}
