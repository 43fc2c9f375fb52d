// File: internal/config/config.go
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/xkilldash9x/touchforge/internal/gesture"
)

// Config holds the entire application configuration: the logging surface,
// the browser the replayer attaches to, and the full gesture engine
// parameter set. Everything is loadable from YAML via Viper and overridable
// through TOUCHFORGE_* environment variables.
type Config struct {
	Logger  LoggerConfig  `mapstructure:"logger" yaml:"logger"`
	Browser BrowserConfig `mapstructure:"browser" yaml:"browser"`
	Engine  EngineConfig  `mapstructure:"engine" yaml:"engine"`
}

// LoggerConfig controls the zap logger and its lumberjack file rotation.
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"`
	AddSource   bool   `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool   `mapstructure:"compress" yaml:"compress"`
}

// BrowserConfig describes the Chrome instance the replay command drives.
type BrowserConfig struct {
	Headless bool `mapstructure:"headless" yaml:"headless"`
	// RemoteURL attaches to an already running browser instead of
	// launching one (ws://host:port/devtools/...).
	RemoteURL string        `mapstructure:"remote_url" yaml:"remote_url"`
	Timeout   time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// EngineConfig wraps the canonical gesture parameter set plus run options.
type EngineConfig struct {
	// Gesture is the full engine parameter surface; see gesture.Config for
	// per-field documentation and defaults.
	Gesture gesture.Config `mapstructure:"gesture" yaml:"gesture"`
	// Profiles is how many independent session personalities the replay
	// command runs concurrently (each gets its own tab and SessionState).
	Profiles int `mapstructure:"profiles" yaml:"profiles"`
	// Seed fixes the RNG for reproducible runs; 0 means time-seeded.
	Seed int64 `mapstructure:"seed" yaml:"seed"`
}

// New builds a Config carrying all defaults without reading any file.
func New() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// Unmarshalling pure defaults cannot fail unless the struct and the
		// default keys drift apart, which is a build-time bug.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// NewFromViper creates a configuration instance from a prepared viper
// object (file and env already bound).
func NewFromViper(v *viper.Viper) (*Config, error) {
	SetDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Engine.Gesture.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults initializes default values for every configuration parameter.
// The gesture engine keys mirror gesture.DefaultConfig exactly.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "touchforge")
	v.SetDefault("logger.log_file", "touchforge.log")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)

	// -- Browser --
	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.remote_url", "")
	v.SetDefault("browser.timeout", "2m")

	// -- Engine --
	v.SetDefault("engine.profiles", 1)
	v.SetDefault("engine.seed", 0)
	setGestureDefaults(v)
}

// setGestureDefaults registers the full gesture parameter surface under the
// engine.gesture key space, sourced from the canonical defaults so the two
// never drift.
func setGestureDefaults(v *viper.Viper) {
	d := gesture.DefaultConfig()

	v.SetDefault("engine.gesture.steps.min", d.Steps.Min)
	v.SetDefault("engine.gesture.steps.max", d.Steps.Max)
	v.SetDefault("engine.gesture.duration_ms.min", d.DurationMs.Min)
	v.SetDefault("engine.gesture.duration_ms.max", d.DurationMs.Max)
	v.SetDefault("engine.gesture.arc_amp_px.min", d.ArcAmpPx.Min)
	v.SetDefault("engine.gesture.arc_amp_px.max", d.ArcAmpPx.Max)
	v.SetDefault("engine.gesture.slant_px.min", d.SlantPx.Min)
	v.SetDefault("engine.gesture.slant_px.max", d.SlantPx.Max)
	v.SetDefault("engine.gesture.shape_pow.min", d.ShapePow.Min)
	v.SetDefault("engine.gesture.shape_pow.max", d.ShapePow.Max)
	v.SetDefault("engine.gesture.s_curve_break.min", d.SCurveBreak.Min)
	v.SetDefault("engine.gesture.s_curve_break.max", d.SCurveBreak.Max)
	v.SetDefault("engine.gesture.flatten_scale.min", d.FlattenScale.Min)
	v.SetDefault("engine.gesture.flatten_scale.max", d.FlattenScale.Max)
	v.SetDefault("engine.gesture.straight_damp", d.StraightDamp)
	v.SetDefault("engine.gesture.variant_chance", d.VariantChance)
	v.SetDefault("engine.gesture.variant_weights.flatten", d.VariantWeights.Flatten)
	v.SetDefault("engine.gesture.variant_weights.flip", d.VariantWeights.Flip)
	v.SetDefault("engine.gesture.variant_weights.s_curve", d.VariantWeights.SCurve)
	v.SetDefault("engine.gesture.variant_weights.straight", d.VariantWeights.Straight)

	v.SetDefault("engine.gesture.tremor.amp_cap_x", d.Tremor.AmpCapX)
	v.SetDefault("engine.gesture.tremor.amp_cap_y", d.Tremor.AmpCapY)
	v.SetDefault("engine.gesture.tremor.nudge_px", d.Tremor.NudgePx)
	v.SetDefault("engine.gesture.tremor.drag.min", d.Tremor.Drag.Min)
	v.SetDefault("engine.gesture.tremor.drag.max", d.Tremor.Drag.Max)
	v.SetDefault("engine.gesture.tremor.ease.min", d.Tremor.Ease.Min)
	v.SetDefault("engine.gesture.tremor.ease.max", d.Tremor.Ease.Max)
	v.SetDefault("engine.gesture.tremor.warmup_steps", d.Tremor.WarmupSteps)

	v.SetDefault("engine.gesture.delay_jitter_frac", d.DelayJitterFrac)
	v.SetDefault("engine.gesture.frame.enabled", d.Frame.Enabled)
	v.SetDefault("engine.gesture.frame.hz", d.Frame.Hz)
	v.SetDefault("engine.gesture.frame.micro_jitter_chance", d.Frame.MicroJitterChance)
	v.SetDefault("engine.gesture.frame.micro_jitter_max_ms", d.Frame.MicroJitterMaxMs)
	v.SetDefault("engine.gesture.frame.drop_frame_chance", d.Frame.DropFrameChance)
	v.SetDefault("engine.gesture.frame.phase_offset_max_ms", d.Frame.PhaseOffsetMaxMs)

	v.SetDefault("engine.gesture.outlier_chance", d.OutlierChance)
	v.SetDefault("engine.gesture.outlier_fatigue_gain", d.OutlierFatigueGain)
	v.SetDefault("engine.gesture.outlier_weights.long_pause", d.OutlierWeights.LongPause)
	v.SetDefault("engine.gesture.outlier_weights.lateral_spike", d.OutlierWeights.LateralSpike)
	v.SetDefault("engine.gesture.outlier_weights.curvy_surge", d.OutlierWeights.CurvySurge)
	v.SetDefault("engine.gesture.pause_ms.min", d.PauseMs.Min)
	v.SetDefault("engine.gesture.pause_ms.max", d.PauseMs.Max)
	v.SetDefault("engine.gesture.spike_px.min", d.SpikePx.Min)
	v.SetDefault("engine.gesture.spike_px.max", d.SpikePx.Max)
	v.SetDefault("engine.gesture.surge_mul.min", d.SurgeMul.Min)
	v.SetDefault("engine.gesture.surge_mul.max", d.SurgeMul.Max)
	v.SetDefault("engine.gesture.hesitation_boost_chance", d.HesitationBoostChance)
	v.SetDefault("engine.gesture.hesitation_boost_gestures.min", d.HesitationBoostGestures.Min)
	v.SetDefault("engine.gesture.hesitation_boost_gestures.max", d.HesitationBoostGestures.Max)
	v.SetDefault("engine.gesture.hesitation_boost_add", d.HesitationBoostAdd)

	v.SetDefault("engine.gesture.grip_shift_buckets", bucketMaps(d.GripShiftBuckets))
	v.SetDefault("engine.gesture.left_run_buckets", bucketMaps(d.LeftRunBuckets))
	v.SetDefault("engine.gesture.right_bias.min", d.RightBias.Min)
	v.SetDefault("engine.gesture.right_bias.max", d.RightBias.Max)
	v.SetDefault("engine.gesture.left_bias.min", d.LeftBias.Min)
	v.SetDefault("engine.gesture.left_bias.max", d.LeftBias.Max)
	v.SetDefault("engine.gesture.bias_delta", d.BiasDelta)
	v.SetDefault("engine.gesture.drift_interval.min", d.DriftInterval.Min)
	v.SetDefault("engine.gesture.drift_interval.max", d.DriftInterval.Max)
	v.SetDefault("engine.gesture.drift_step", d.DriftStep)
	v.SetDefault("engine.gesture.meta.curviness_mul.min", d.Meta.CurvinessMul.Min)
	v.SetDefault("engine.gesture.meta.curviness_mul.max", d.Meta.CurvinessMul.Max)
	v.SetDefault("engine.gesture.meta.hesitation_add.min", d.Meta.HesitationAdd.Min)
	v.SetDefault("engine.gesture.meta.hesitation_add.max", d.Meta.HesitationAdd.Max)
	v.SetDefault("engine.gesture.meta.drift_px_add.min", d.Meta.DriftPxAdd.Min)
	v.SetDefault("engine.gesture.meta.drift_px_add.max", d.Meta.DriftPxAdd.Max)
	v.SetDefault("engine.gesture.meta.arc_mul.min", d.Meta.ArcMul.Min)
	v.SetDefault("engine.gesture.meta.arc_mul.max", d.Meta.ArcMul.Max)
	v.SetDefault("engine.gesture.meta.tremor_mul.min", d.Meta.TremorMul.Min)
	v.SetDefault("engine.gesture.meta.tremor_mul.max", d.Meta.TremorMul.Max)
	v.SetDefault("engine.gesture.burst_chance_init", d.BurstChanceInit)
	v.SetDefault("engine.gesture.burst_chance_shift", d.BurstChanceShift)
	v.SetDefault("engine.gesture.burst_gestures.min", d.BurstGestures.Min)
	v.SetDefault("engine.gesture.burst_gestures.max", d.BurstGestures.Max)
	v.SetDefault("engine.gesture.tremor_fatigue_gain", d.TremorFatigueGain)

	v.SetDefault("engine.gesture.force_start.min", d.ForceStart.Min)
	v.SetDefault("engine.gesture.force_start.max", d.ForceStart.Max)
	v.SetDefault("engine.gesture.force_end_frac", d.ForceEndFrac)
	v.SetDefault("engine.gesture.force_wobble", d.ForceWobble)
	v.SetDefault("engine.gesture.radius_px.min", d.RadiusPx.Min)
	v.SetDefault("engine.gesture.radius_px.max", d.RadiusPx.Max)
	v.SetDefault("engine.gesture.rotation_deg.min", d.RotationDeg.Min)
	v.SetDefault("engine.gesture.rotation_deg.max", d.RotationDeg.Max)
	v.SetDefault("engine.gesture.micro_latency_chance", d.MicroLatencyChance)
	v.SetDefault("engine.gesture.micro_latency_ms.min", d.MicroLatencyMs.Min)
	v.SetDefault("engine.gesture.micro_latency_ms.max", d.MicroLatencyMs.Max)
	v.SetDefault("engine.gesture.timestamp_jitter_sec", d.TimestampJitterSec)
}

// bucketMaps converts a bucket table into the generic form viper stores for
// slice defaults.
func bucketMaps(buckets []gesture.Bucket) []map[string]interface{} {
	out := make([]map[string]interface{}, len(buckets))
	for i, b := range buckets {
		out[i] = map[string]interface{}{
			"lo":     b.Lo,
			"hi":     b.Hi,
			"weight": b.Weight,
		}
	}
	return out
}
