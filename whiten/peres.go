package whiten

import "github.com/cwbudde/algo-entropy/bitstream"

// Peres is the recursive generalization of Von Neumann debiasing. Differing
// pairs emit their first bit exactly as Von Neumann does; equal pairs are
// not discarded. Instead, two derived sequences are debiased recursively:
// the XOR of every pair, and the first bits of the equal pairs. Their output
// is appended after the first-order bits.
//
// Tail convention: an odd trailing bit at any recursion level is dropped,
// and recursion stops below two bits. On biased input Peres emits strictly
// more bits than Von Neumann while remaining unbiased.
type Peres struct{}

// Name implements Step.
func (Peres) Name() string { return "peres" }

// MinInput implements Step.
func (Peres) MinInput() int { return 2 }

// Transform implements Step.
func (Peres) Transform(bits bitstream.Bits) bitstream.Bits {
	return peres(bits)
}

func peres(bits bitstream.Bits) bitstream.Bits {
	if len(bits) < 2 {
		return nil
	}

	nPairs := len(bits) / 2

	out := make(bitstream.Bits, 0, nPairs)
	xors := make(bitstream.Bits, 0, nPairs)
	equals := make(bitstream.Bits, 0, nPairs)

	for i := 0; i+1 < len(bits); i += 2 {
		a, b := bits[i], bits[i+1]

		xors = append(xors, a^b)

		if a != b {
			out = append(out, a)
		} else {
			equals = append(equals, a)
		}
	}

	out = append(out, peres(xors)...)
	out = append(out, peres(equals)...)

	return out
}
