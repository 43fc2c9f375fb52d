// File: internal/config/config_test.go
package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCarriesValidDefaults(t *testing.T) {
	cfg := New()

	require.NoError(t, cfg.Engine.Gesture.Validate(),
		"shipped defaults must always validate")

	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "console", cfg.Logger.Format)
	assert.Equal(t, "touchforge", cfg.Logger.ServiceName)

	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, 2*time.Minute, cfg.Browser.Timeout)

	assert.Equal(t, 1, cfg.Engine.Profiles)
	assert.Equal(t, int64(0), cfg.Engine.Seed)

	g := cfg.Engine.Gesture
	assert.Equal(t, 9, g.Steps.Min)
	assert.Equal(t, 22, g.Steps.Max)
	assert.Equal(t, 280.0, g.DurationMs.Min)
	assert.Equal(t, 620.0, g.DurationMs.Max)
	require.Len(t, g.GripShiftBuckets, 3)
	assert.Equal(t, 4, g.GripShiftBuckets[0].Lo)
	assert.Equal(t, 30, g.GripShiftBuckets[2].Hi)
}

func TestNewFromViperOverrides(t *testing.T) {
	v := viper.New()
	v.Set("logger.level", "debug")
	v.Set("engine.profiles", 4)
	v.Set("engine.gesture.steps.min", 12)
	v.Set("engine.gesture.steps.max", 18)
	v.Set("engine.gesture.outlier_chance", 0.12)

	cfg, err := NewFromViper(v)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, 4, cfg.Engine.Profiles)
	assert.Equal(t, 12, cfg.Engine.Gesture.Steps.Min)
	assert.Equal(t, 18, cfg.Engine.Gesture.Steps.Max)
	assert.Equal(t, 0.12, cfg.Engine.Gesture.OutlierChance)

	// Untouched keys keep their defaults.
	assert.Equal(t, 0.35, cfg.Engine.Gesture.DelayJitterFrac)
}

func TestNewFromViperRejectsInvalidGestureConfig(t *testing.T) {
	v := viper.New()
	v.Set("engine.gesture.steps.min", 25)
	v.Set("engine.gesture.steps.max", 10)

	_, err := NewFromViper(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "step range")
}
