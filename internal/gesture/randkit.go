// internal/gesture/randkit.go
package gesture

import (
	"fmt"
	"math"
	"math/rand"
	"time"
)

// tsEpsilon is the minimum spacing between two dispatched timestamps, in
// seconds. Guarantees strict ordering even under adversarial jitter.
const tsEpsilon = 1e-4

// uniform returns a value drawn uniformly from [lo, hi).
func uniform(rng *rand.Rand, lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + rng.Float64()*(hi-lo)
}

// uniformInt returns an integer drawn uniformly from [lo, hi] inclusive.
func uniformInt(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.Intn(hi-lo+1)
}

// chance reports true with probability p.
func chance(rng *rand.Rand, p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return rng.Float64() < p
}

// clamp bounds v to [lo, hi].
func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// smoothstep is the classic Hermite interpolation 3t^2 - 2t^3 over [0, 1].
func smoothstep(t float64) float64 {
	t = clamp(t, 0, 1)
	return t * t * (3 - 2*t)
}

// easeInOutCubic provides a smooth acceleration and deceleration profile.
func easeInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 3)/2
}

// logNormalMs samples a right-skewed duration in milliseconds parameterised
// by the desired mean and standard deviation. Log-normal matches empirical
// human pause data far better than flat uniform jitter.
func logNormalMs(rng *rand.Rand, meanMs, stdMs float64) float64 {
	if meanMs <= 0 {
		return 0
	}
	if stdMs <= 0 {
		return meanMs
	}
	variance := stdMs * stdMs
	mu := math.Log(meanMs * meanMs / math.Sqrt(variance+meanMs*meanMs))
	sigma := math.Sqrt(math.Log(1.0 + variance/(meanMs*meanMs)))
	sample := math.Exp(mu + rng.NormFloat64()*sigma)
	if sample < 1 {
		sample = 1
	}
	return sample
}

// weightedIndex draws an index proportional to its weight. A non-positive
// total weight is a configuration violation and returns an error; callers
// validate at construction time, so hitting this mid-gesture is a bug.
func weightedIndex(rng *rand.Rand, weights []float64) (int, error) {
	total := 0.0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return 0, fmt.Errorf("gesture: weighted choice over non-positive total weight %v", total)
	}
	r := rng.Float64() * total
	acc := 0.0
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		acc += w
		if r < acc {
			return i, nil
		}
	}
	// Float accumulation can leave r just above acc; fall back to the last
	// positive-weight entry.
	for i := len(weights) - 1; i >= 0; i-- {
		if weights[i] > 0 {
			return i, nil
		}
	}
	return 0, fmt.Errorf("gesture: weighted choice found no positive weight")
}

// Bucket is one entry in a weighted-bucket table: draw a bucket proportional
// to Weight, then a uniform integer within [Lo, Hi].
type Bucket struct {
	Lo     int     `mapstructure:"lo" yaml:"lo"`
	Hi     int     `mapstructure:"hi" yaml:"hi"`
	Weight float64 `mapstructure:"weight" yaml:"weight"`
}

// sampleBucket performs the two-stage weighted-bucket draw used by the grip
// alternation schedule.
func sampleBucket(rng *rand.Rand, buckets []Bucket) (int, error) {
	weights := make([]float64, len(buckets))
	for i, b := range buckets {
		weights[i] = b.Weight
	}
	idx, err := weightedIndex(rng, weights)
	if err != nil {
		return 0, err
	}
	b := buckets[idx]
	return uniformInt(rng, b.Lo, b.Hi), nil
}

// MonotonicStamper hands out strictly increasing timestamps in seconds.
// Jittered wall-clock reads can tie or regress; Next never does.
type MonotonicStamper struct {
	last float64
	now  func() time.Time
}

// NewMonotonicStamper returns a stamper backed by the system clock.
func NewMonotonicStamper() *MonotonicStamper {
	return &MonotonicStamper{now: time.Now}
}

// Next returns max(now+jitterSec, last+epsilon) and records it.
func (m *MonotonicStamper) Next(jitterSec float64) float64 {
	t := float64(m.now().UnixNano())/1e9 + jitterSec
	if t <= m.last+tsEpsilon {
		t = m.last + tsEpsilon
	}
	m.last = t
	return t
}
