// internal/gesture/noise.go
package gesture

import (
	"math"
	"math/bits"
	"math/rand"
)

// pinkNoise produces 1/f noise with the counter-driven Voss-McCartney scheme:
// row k refreshes every 2^k samples, selected by the trailing-zero count of a
// running sample counter. Pink noise carries the long-term correlations seen
// in human physiological micro-movement, which is why it feeds the tremor
// impulse stream instead of plain white noise.
type pinkNoise struct {
	rng     *rand.Rand
	rows    []float64
	counter uint64
	sum     float64 // running sum of all rows
	scale   float64
}

// newPinkNoise creates a generator with n octave rows (12 is typical).
func newPinkNoise(rng *rand.Rand, n int) *pinkNoise {
	if n <= 0 {
		n = 12
	}
	p := &pinkNoise{
		rng:  rng,
		rows: make([]float64, n),
		// Every sample blends n rows plus one fresh white term, so the
		// normalization covers n+1 contributions.
		scale: 1.0 / math.Sqrt(float64(n+1)),
	}
	for i := range p.rows {
		p.rows[i] = p.white()
		p.sum += p.rows[i]
	}
	return p
}

// white returns uniform noise in [-1, 1].
func (p *pinkNoise) white() float64 {
	return p.rng.Float64()*2.0 - 1.0
}

// Next generates the next normalized pink noise sample.
func (p *pinkNoise) Next() float64 {
	p.counter++
	k := bits.TrailingZeros64(p.counter)
	if k >= len(p.rows) {
		k = len(p.rows) - 1
	}

	old := p.rows[k]
	p.rows[k] = p.white()
	p.sum += p.rows[k] - old

	// The per-sample white term keeps the spectrum flat at the top end.
	return (p.sum + p.white()) * p.scale
}
