// FILE: ./internal/gesture/randkit_test.go
package gesture

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeightedIndex(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	t.Run("RespectsWeights", func(t *testing.T) {
		counts := make([]int, 3)
		weights := []float64{0.5, 0.3, 0.2}
		trials := 20000
		for i := 0; i < trials; i++ {
			idx, err := weightedIndex(rng, weights)
			require.NoError(t, err)
			counts[idx]++
		}
		for i, w := range weights {
			assert.InDelta(t, w, float64(counts[i])/float64(trials), 0.02,
				"index %d drawn out of proportion", i)
		}
	})

	t.Run("SkipsNonPositiveWeights", func(t *testing.T) {
		for i := 0; i < 1000; i++ {
			idx, err := weightedIndex(rng, []float64{0, 1.0, -3})
			require.NoError(t, err)
			assert.Equal(t, 1, idx)
		}
	})

	t.Run("ZeroTotalIsError", func(t *testing.T) {
		_, err := weightedIndex(rng, []float64{0, 0, 0})
		assert.Error(t, err)

		_, err = weightedIndex(rng, nil)
		assert.Error(t, err)
	})
}

func TestSampleBucket(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	buckets := []Bucket{
		{Lo: 4, Hi: 9, Weight: 0.5},
		{Lo: 10, Hi: 18, Weight: 0.35},
		{Lo: 19, Hi: 30, Weight: 0.15},
	}

	for i := 0; i < 5000; i++ {
		n, err := sampleBucket(rng, buckets)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 4)
		assert.LessOrEqual(t, n, 30)
	}
}

func TestMonotonicStamper(t *testing.T) {
	t.Run("StrictlyIncreasingUnderAdversarialJitter", func(t *testing.T) {
		// Freeze the clock so only the epsilon floor can move the stamp.
		frozen := time.Unix(1700000000, 0)
		m := &MonotonicStamper{now: func() time.Time { return frozen }}

		last := m.Next(0)
		jitters := []float64{0, -0.5, -0.5, 0, 1e-9, -1, 0, 0}
		for _, j := range jitters {
			next := m.Next(j)
			assert.Greater(t, next, last, "stamp regressed for jitter %v", j)
			last = next
		}
	})

	t.Run("TracksForwardClock", func(t *testing.T) {
		now := time.Unix(1700000000, 0)
		m := &MonotonicStamper{now: func() time.Time { return now }}
		first := m.Next(0)
		now = now.Add(50 * time.Millisecond)
		second := m.Next(0)
		assert.InDelta(t, 0.05, second-first, 0.001)
	})
}

func TestLogNormalMs(t *testing.T) {
	rng := rand.New(rand.NewSource(3))

	t.Run("AlwaysPositive", func(t *testing.T) {
		for i := 0; i < 10000; i++ {
			v := logNormalMs(rng, 400, 120)
			assert.GreaterOrEqual(t, v, 1.0)
		}
	})

	t.Run("DegenerateInputs", func(t *testing.T) {
		assert.Equal(t, 0.0, logNormalMs(rng, 0, 100))
		assert.Equal(t, 400.0, logNormalMs(rng, 400, 0))
	})
}

func TestEasingHelpers(t *testing.T) {
	assert.Equal(t, 0.0, smoothstep(0))
	assert.Equal(t, 1.0, smoothstep(1))
	assert.Equal(t, 0.5, smoothstep(0.5))
	// Out-of-range inputs clamp instead of extrapolating.
	assert.Equal(t, 0.0, smoothstep(-3))
	assert.Equal(t, 1.0, smoothstep(7))

	assert.Equal(t, 0.0, easeInOutCubic(0))
	assert.Equal(t, 1.0, easeInOutCubic(1))
	assert.InDelta(t, 0.5, easeInOutCubic(0.5), 1e-9)

	assert.Equal(t, 5.0, clamp(3, 5, 10))
	assert.Equal(t, 10.0, clamp(30, 5, 10))
	assert.Equal(t, 7.0, clamp(7, 5, 10))
}

func TestUniformInt(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 1000; i++ {
		v := uniformInt(rng, 9, 22)
		assert.GreaterOrEqual(t, v, 9)
		assert.LessOrEqual(t, v, 22)
	}
	// Inverted or equal bounds collapse to lo.
	assert.Equal(t, 5, uniformInt(rng, 5, 5))
	assert.Equal(t, 5, uniformInt(rng, 5, 2))
}
