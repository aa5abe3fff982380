package extract

import "github.com/cwbudde/algo-entropy/bitstream"

// differential emits bit = 1 when sample[i] > sample[i-lag]. The output has
// len(samples) - lag bits; a lag at or beyond the sequence length yields an
// empty sequence.
func differential(samples []float64, lag int) bitstream.Bits {
	if lag >= len(samples) {
		return nil
	}

	bits := make(bitstream.Bits, 0, len(samples)-lag)
	for i := lag; i < len(samples); i++ {
		bits = append(bits, boolToBit(samples[i] > samples[i-lag]))
	}

	return bits
}
