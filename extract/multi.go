package extract

import (
	"math"

	"github.com/montanaflynn/stats"

	"github.com/cwbudde/algo-entropy/bitstream"
)

// multiCombine XORs three independent estimators over the same input:
// median thresholding, parity of the truncated absolute integer value, and
// differential comparison against the median difference. The estimators'
// errors are only weakly correlated, so the combination suppresses any
// single method's systematic bias.
//
// All three component sequences have the input's length (the differential
// component carries a leading zero), so the combined output does too.
func multiCombine(samples []float64) bitstream.Bits {
	n := len(samples)

	median, err := stats.Median(samples)
	if err != nil {
		return nil
	}

	combined := make(bitstream.Bits, n)

	// Estimator 1: global median threshold.
	for i, v := range samples {
		combined[i] = boolToBit(v > median)
	}

	// Estimator 2: parity of the truncated absolute value, with non-finite
	// samples clamped to keep the conversion defined.
	for i, v := range samples {
		combined[i] ^= byte(truncInt(math.Abs(clampFinite(v))) & 1)
	}

	// Estimator 3: differential against the median difference.
	diffs := make([]float64, n-1)
	for i := 1; i < n; i++ {
		diffs[i-1] = samples[i] - samples[i-1]
	}

	diffMedian, err := stats.Median(diffs)
	if err != nil {
		return combined
	}

	for i := 1; i < n; i++ {
		combined[i] ^= boolToBit(diffs[i-1] > diffMedian)
	}

	return combined
}

func clampFinite(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case math.IsInf(v, 1):
		return 1e6
	case math.IsInf(v, -1):
		return -1e6
	default:
		return v
	}
}
