package extract

import (
	"github.com/montanaflynn/stats"

	"github.com/cwbudde/algo-entropy/bitstream"
)

// madScale relates the median absolute deviation to the standard deviation
// of a normal distribution.
const madScale = 1.4826

// adaptiveThreshold emits bit = 1 when a sample exceeds the median of its
// centered window. The window is clamped to the sequence bounds at the
// edges; positions whose clamped window holds a single sample emit nothing.
// Localizing the threshold resists slow drift in the underlying
// distribution.
func adaptiveThreshold(samples []float64, window int) bitstream.Bits {
	bits := make(bitstream.Bits, 0, len(samples))

	for i := range samples {
		w := clampedWindow(samples, i, window)
		if len(w) <= 1 {
			continue
		}

		threshold, err := stats.Median(w)
		if err != nil {
			continue
		}

		bits = append(bits, boolToBit(samples[i] > threshold))
	}

	return bits
}

// improvedAdaptive thresholds on the sign of a MAD-normalized local
// z-score. A zero window MAD (quantized or constant windows) falls back to
// the plain median comparison. Windows of two or fewer samples emit nothing.
func improvedAdaptive(samples []float64, window int) bitstream.Bits {
	bits := make(bitstream.Bits, 0, len(samples))

	for i := range samples {
		w := clampedWindow(samples, i, window)
		if len(w) <= 2 {
			continue
		}

		median, err := stats.Median(w)
		if err != nil {
			continue
		}

		mad, err := stats.MedianAbsoluteDeviation(w)
		if err != nil {
			continue
		}

		var bit byte
		if mad > 0 {
			z := (samples[i] - median) / (madScale * mad)
			bit = boolToBit(z > 0)
		} else {
			bit = boolToBit(samples[i] > median)
		}

		bits = append(bits, bit)
	}

	return bits
}

func clampedWindow(samples []float64, center, window int) []float64 {
	start := center - window/2
	if start < 0 {
		start = 0
	}

	end := center + window/2
	if end > len(samples) {
		end = len(samples)
	}

	return samples[start:end]
}

func boolToBit(b bool) byte {
	if b {
		return 1
	}

	return 0
}
