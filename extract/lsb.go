package extract

import (
	"math"

	"github.com/cwbudde/algo-entropy/bitstream"
)

// lsb emits the nBits low-order bits of each sample's truncated integer
// value, in increasing bit-position order.
func lsb(samples []float64, nBits int) bitstream.Bits {
	bits := make(bitstream.Bits, 0, len(samples)*nBits)

	for _, v := range samples {
		iv := truncInt(v)
		for pos := 0; pos < nBits; pos++ {
			bits = append(bits, byte((iv>>uint(pos))&1))
		}
	}

	return bits
}

// truncInt truncates toward zero, mapping non-finite values to 0 so that a
// corrupt sample cannot poison the bit budget.
func truncInt(v float64) int64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}

	return int64(v)
}
