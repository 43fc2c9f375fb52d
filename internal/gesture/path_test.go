// FILE: ./internal/gesture/path_test.go
package gesture

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBuilder(t *testing.T, seed int64, mutate func(*Config)) (*PathBuilder, *SessionState) {
	t.Helper()
	cfg := DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	rng := rand.New(rand.NewSource(seed))
	b, err := NewPathBuilder(cfg, rng, nil)
	require.NoError(t, err)
	return b, NewSessionState(&cfg, rng, nil)
}

func TestBuildReachesTargetDisplacement(t *testing.T) {
	b, s := newTestBuilder(t, 1, func(c *Config) {
		c.OutlierChance = 0
		c.Meta.HesitationAdd = FloatRange{Min: 0, Max: 0}
	})

	req := GestureRequest{
		DX:         0,
		DY:         -560,
		Steps:      &IntRange{Min: 15, Max: 15},
		DurationMs: &FloatRange{Min: 400, Max: 400},
	}

	for trial := 0; trial < 200; trial++ {
		steps, outlier, err := b.Build(req, s)
		require.NoError(t, err)
		require.Len(t, steps, 15)
		assert.Equal(t, OutlierNone, outlier.Kind)

		last := steps[len(steps)-1]
		// The endpoint lands on the target plus residual slant and tremor.
		assert.InDelta(t, -560, last.Y, 5)
		assert.InDelta(t, 0, last.X, 25)

		sum := 0.0
		for _, st := range steps {
			assert.True(t, math.IsInf(st.X, 0) == false && !math.IsNaN(st.X))
			sum += st.DelayMs
		}
		assert.InDelta(t, 400, sum, 400*b.cfg.DelayJitterFrac+1e-6)
	}
}

func TestBuildStepCountStaysInConfiguredRange(t *testing.T) {
	b, s := newTestBuilder(t, 2, nil)

	for trial := 0; trial < 500; trial++ {
		steps, _, err := b.Build(GestureRequest{DX: 20, DY: -300}, s)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(steps), 9)
		assert.LessOrEqual(t, len(steps), 22)
	}
}

func TestBuildRecoversNonFiniteRequest(t *testing.T) {
	b, s := newTestBuilder(t, 3, nil)

	req := GestureRequest{DX: math.NaN(), DY: math.Inf(-1)}
	steps, _, err := b.Build(req, s)
	require.NoError(t, err)
	require.NotEmpty(t, steps)
	for i, st := range steps {
		assert.False(t, math.IsNaN(st.X) || math.IsInf(st.X, 0), "step %d X", i)
		assert.False(t, math.IsNaN(st.Y) || math.IsInf(st.Y, 0), "step %d Y", i)
		assert.GreaterOrEqual(t, st.DelayMs, 0.0)
	}
}

func TestBuildLongPauseStretchesTotal(t *testing.T) {
	b, s := newTestBuilder(t, 4, func(c *Config) {
		c.OutlierChance = 0.5
		c.OutlierWeights = OutlierWeights{LongPause: 1, LateralSpike: 0, CurvySurge: 0}
	})

	req := GestureRequest{
		DY:         -400,
		DurationMs: &FloatRange{Min: 400, Max: 400},
	}

	found := false
	for trial := 0; trial < 200 && !found; trial++ {
		steps, outlier, err := b.Build(req, s)
		require.NoError(t, err)
		if outlier.Kind != OutlierLongPause {
			continue
		}
		found = true

		sum := 0.0
		for _, st := range steps {
			sum += st.DelayMs
		}
		floor := 400*(1-b.cfg.DelayJitterFrac) + outlier.PauseMs - 1e-6
		assert.GreaterOrEqual(t, sum, floor,
			"pause of %vms not reflected in the total", outlier.PauseMs)
		assert.Equal(t, OutlierLongPause, s.LastOutlier())
	}
	require.True(t, found, "no LongPause drawn in 200 builds at 50%% outlier chance")
}

func TestBuildSpikeDisplacesSingleStep(t *testing.T) {
	b, s := newTestBuilder(t, 5, func(c *Config) {
		c.OutlierChance = 0.5
		c.OutlierWeights = OutlierWeights{LongPause: 0, LateralSpike: 1, CurvySurge: 0}
		c.SpikePx = FloatRange{Min: 30, Max: 30}
		// Quiet everything else down so the spike dominates the residual.
		c.ArcAmpPx = FloatRange{Min: 0.5, Max: 0.5}
		c.SlantPx = FloatRange{Min: 0, Max: 0}
		c.Meta.DriftPxAdd = FloatRange{Min: 0, Max: 0}
		c.Tremor.AmpCapX = 0.5
		c.Tremor.AmpCapY = 0.5
	})

	req := GestureRequest{DY: -500, Steps: &IntRange{Min: 20, Max: 20}}

	found := false
	for trial := 0; trial < 200 && !found; trial++ {
		steps, outlier, err := b.Build(req, s)
		require.NoError(t, err)
		if outlier.Kind != OutlierLateralSpike {
			continue
		}
		found = true

		require.Greater(t, outlier.SpikeStep, 0)
		require.Less(t, outlier.SpikeStep, len(steps))

		// Reconstruct the spiked step's lateral component: X is entirely
		// perpendicular for a vertical swipe.
		spiked := math.Abs(steps[outlier.SpikeStep].X)
		prev := math.Abs(steps[outlier.SpikeStep-1].X)
		assert.Greater(t, spiked, prev+10,
			"spiked step does not stand out from its neighbor")
	}
	require.True(t, found, "no LateralSpike drawn in 200 builds")
}

func TestBuildRequestConfigOverride(t *testing.T) {
	b, s := newTestBuilder(t, 6, nil)

	override := DefaultConfig()
	override.Steps = IntRange{Min: 10, Max: 10}
	override.OutlierChance = 0

	for trial := 0; trial < 50; trial++ {
		steps, _, err := b.Build(GestureRequest{DY: -200, Config: &override}, s)
		require.NoError(t, err)
		assert.Len(t, steps, 10)
	}
}

func TestBuildDurationClampsToWindow(t *testing.T) {
	b, s := newTestBuilder(t, 7, func(c *Config) {
		c.OutlierChance = 0
		c.Meta.HesitationAdd = FloatRange{Min: 0, Max: 0}
		c.DelayJitterFrac = 0
		c.Frame.Enabled = false
	})

	req := GestureRequest{DY: -300, DurationMs: &FloatRange{Min: 180, Max: 900}}
	for trial := 0; trial < 300; trial++ {
		steps, _, err := b.Build(req, s)
		require.NoError(t, err)
		sum := 0.0
		for _, st := range steps {
			sum += st.DelayMs
		}
		// Integer splitting may shave up to a millisecond.
		assert.GreaterOrEqual(t, sum, 179.0)
		assert.LessOrEqual(t, sum, 901.0)
	}
}
