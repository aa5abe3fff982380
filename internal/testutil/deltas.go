package testutil

import (
	"math"
	"math/rand"

	"github.com/cwbudde/algo-entropy/bitstream"
)

// ExponentialDeltas generates reproducible exponentially distributed timing
// deltas in nanoseconds with the given mean, modeling Poisson event
// arrivals.
func ExponentialDeltas(seed int64, meanNs float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = rng.ExpFloat64() * meanNs
	}
	return out
}

// PeriodicDeltas generates exponential timing deltas modulated by a
// sinusoidal component at freqHz (relative to the 1e9/meanNs sample rate)
// with the given modulation depth, modeling a contaminated source.
func PeriodicDeltas(seed int64, meanNs, freqHz, depth float64, length int) []float64 {
	out := ExponentialDeltas(seed, meanNs, length)
	step := 2 * math.Pi * freqHz * meanNs / 1e9
	for i := range out {
		out[i] *= 1 + depth*math.Sin(step*float64(i))
	}
	return out
}

// BiasedBits generates a reproducible Bernoulli bit sequence with the given
// probability of a one.
func BiasedBits(seed int64, pOne float64, length int) bitstream.Bits {
	out := make(bitstream.Bits, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		if rng.Float64() < pOne {
			out[i] = 1
		}
	}
	return out
}

// UniformBytes generates reproducible uniformly distributed bytes.
func UniformBytes(seed int64, length int) []byte {
	out := make([]byte, length)
	rng := rand.New(rand.NewSource(seed))
	rng.Read(out)
	return out
}
