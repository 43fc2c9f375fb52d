// FILE: ./internal/gesture/timing_test.go
package gesture

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocateDelaysSumWithinJitterBound(t *testing.T) {
	rng := rand.New(rand.NewSource(17))
	cfg := DefaultConfig()

	for trial := 0; trial < 500; trial++ {
		stepsN := uniformInt(rng, 9, 22)
		totalMs := 400.0
		delays := allocateDelays(rng, stepsN, totalMs, &cfg, OutlierEvent{Kind: OutlierNone})

		require.Len(t, delays, stepsN)
		sum := 0.0
		for _, d := range delays {
			assert.GreaterOrEqual(t, d, 0.0)
			sum += d
		}
		bound := totalMs * cfg.DelayJitterFrac
		assert.InDelta(t, totalMs, sum, bound+1e-6,
			"trial %d: sum %v outside 400 +/- %v", trial, sum, bound)
	}
}

func TestAllocateDelaysRemainderGoesToEarliestSteps(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	cfg := DefaultConfig()
	cfg.DelayJitterFrac = 0 // isolate the base allocation

	// 400 / 15 = 26 remainder 10: first ten steps get 27, the rest 26.
	delays := allocateDelays(rng, 15, 400, &cfg, OutlierEvent{Kind: OutlierNone})
	require.Len(t, delays, 15)
	for i, d := range delays {
		if i < 10 {
			assert.Equal(t, 27.0, d, "step %d", i)
		} else {
			assert.Equal(t, 26.0, d, "step %d", i)
		}
	}
}

func TestAllocateDelaysLongPauseAddsExactly(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	cfg := DefaultConfig()
	cfg.DelayJitterFrac = 0

	outlier := OutlierEvent{Kind: OutlierLongPause, PauseAtStep: 0, PauseMs: 800}
	delays := allocateDelays(rng, 15, 400, &cfg, outlier)

	// Step 0's delay equals its base allocation (27) plus exactly the pause.
	assert.Equal(t, 27.0+800.0, delays[0])

	sum := 0.0
	for _, d := range delays {
		sum += d
	}
	assert.Equal(t, 400.0+800.0, sum)
}

func TestAllocateDelaysLongPauseClampsIndex(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	cfg := DefaultConfig()
	cfg.DelayJitterFrac = 0

	outlier := OutlierEvent{Kind: OutlierLongPause, PauseAtStep: 99, PauseMs: 500}
	delays := allocateDelays(rng, 10, 300, &cfg, outlier)
	assert.Equal(t, 30.0+500.0, delays[9], "out-of-range pause index lands on the last step")
}

func TestFrameQuantization(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Frame = FrameConfig{
		Enabled:           true,
		Hz:                60,
		MicroJitterChance: 0,
		DropFrameChance:   0,
		PhaseOffsetMaxMs:  0,
	}

	t.Run("SnapsToFrameMultiples", func(t *testing.T) {
		rng := rand.New(rand.NewSource(4))
		frameMs := 1000.0 / 60.0
		delays := allocateDelays(rng, 12, 480, &cfg, OutlierEvent{Kind: OutlierNone})
		for i, d := range delays {
			frames := d / frameMs
			assert.InDelta(t, math.Round(frames), frames, 1e-9,
				"step %d delay %v is not frame-aligned", i, d)
		}
	})

	t.Run("PhaseOffsetOnlyShiftsFirstDelay", func(t *testing.T) {
		quantCfg := cfg.Frame
		quantCfg.PhaseOffsetMaxMs = 4

		rng := rand.New(rand.NewSource(5))
		frameMs := 1000.0 / 60.0
		delays := []float64{33, 33, 33, 33}
		quantizeToFrames(rng, delays, quantCfg)

		for i := 1; i < len(delays); i++ {
			frames := delays[i] / frameMs
			assert.InDelta(t, math.Round(frames), frames, 1e-9)
		}
	})

	t.Run("SumStaysNearTarget", func(t *testing.T) {
		rng := rand.New(rand.NewSource(6))
		full := DefaultConfig()
		full.Frame.Enabled = true
		full.Frame.Hz = 120

		totalMs := 500.0
		stepsN := 14
		frameMs := 1000.0 / 120.0
		for trial := 0; trial < 200; trial++ {
			delays := allocateDelays(rng, stepsN, totalMs, &full, OutlierEvent{Kind: OutlierNone})
			sum := 0.0
			for _, d := range delays {
				sum += d
			}
			// Jitter bound plus worst-case rounding, dropped frames and phase.
			bound := totalMs*full.DelayJitterFrac +
				float64(stepsN)*(frameMs/2+frameMs) +
				full.Frame.PhaseOffsetMaxMs +
				float64(stepsN)*full.Frame.MicroJitterMaxMs
			assert.InDelta(t, totalMs, sum, bound)
		}
	})
}
