package whiten

import "github.com/cwbudde/algo-entropy/bitstream"

// VonNeumann removes first-order bias by scanning non-overlapping bit
// pairs: a 01 pair emits 0, a 10 pair emits 1, equal pairs emit nothing.
//
// The output length is data-dependent: at most half the input, on average a
// quarter of it for an already fair source, and strictly less for a biased
// one. Callers must not assume a fixed compression ratio.
type VonNeumann struct{}

// Name implements Step.
func (VonNeumann) Name() string { return "von_neumann" }

// MinInput implements Step. One bit cannot form a pair.
func (VonNeumann) MinInput() int { return 2 }

// Transform implements Step.
func (VonNeumann) Transform(bits bitstream.Bits) bitstream.Bits {
	out := make(bitstream.Bits, 0, len(bits)/2)

	for i := 0; i+1 < len(bits); i += 2 {
		if bits[i] != bits[i+1] {
			out = append(out, bits[i])
		}
	}

	return out
}
