package extract

import (
	"github.com/cwbudde/algo-entropy/bitstream"
	"github.com/cwbudde/algo-entropy/spectral"
)

// fallbackPeriod is used when no autocorrelation peak clears the threshold.
const fallbackPeriod = 100

// peakThreshold is the minimum normalized autocorrelation a peak must reach
// to be accepted as the dominant period (10% of the zero-lag value).
const peakThreshold = 0.1

// phase estimates a dominant period from the first qualifying peak of the
// normalized autocorrelation and emits bit = 1 for positions in the first
// half of each period.
func phase(samples []float64, maxLag int) bitstream.Bits {
	period := dominantPeriod(samples, maxLag)

	bits := make(bitstream.Bits, len(samples))
	for i := range samples {
		bits[i] = boolToBit(float64(i%period) < float64(period)/2)
	}

	return bits
}

func dominantPeriod(samples []float64, maxLag int) int {
	acf, err := spectral.AutocorrelationNormalized(samples, maxLag)
	if err != nil {
		return fallbackPeriod
	}

	peaks := spectral.FindPeaks(acf, peakThreshold, 1)
	for _, p := range peaks {
		if p.Index > 0 {
			return p.Index
		}
	}

	return fallbackPeriod
}
