package whiten

import "github.com/cwbudde/algo-entropy/bitstream"

// XORFold reduces fixed-size non-overlapping chunks to their parity bit.
// The output has floor(len(input)/Chunk) bits.
type XORFold struct {
	// Chunk is the fold width in bits (default 8).
	Chunk int
}

func (f XORFold) chunk() int {
	if f.Chunk > 0 {
		return f.Chunk
	}

	return 8
}

// Name implements Step.
func (f XORFold) Name() string { return "xor_fold" }

// MinInput implements Step.
func (f XORFold) MinInput() int { return f.chunk() }

// Transform implements Step.
func (f XORFold) Transform(bits bitstream.Bits) bitstream.Bits {
	chunk := f.chunk()

	out := make(bitstream.Bits, 0, len(bits)/chunk)

	for i := 0; i+chunk <= len(bits); i += chunk {
		var parity byte
		for _, b := range bits[i : i+chunk] {
			parity ^= b
		}

		out = append(out, parity)
	}

	return out
}

// XOROverlap XORs two overlapping windows offset by half a block and keeps
// only the middle half of each result, the positions least correlated with
// either window's edges. Diffusion is better than strict non-overlap
// folding at the cost of halved throughput.
type XOROverlap struct {
	// Block is the window size in bits (default 16). Must be a multiple
	// of 4 for the middle-half slice to align; other values are rounded up.
	Block int
}

func (f XOROverlap) block() int {
	b := f.Block
	if b <= 0 {
		b = 16
	}

	if rem := b % 4; rem != 0 {
		b += 4 - rem
	}

	return b
}

// Name implements Step.
func (f XOROverlap) Name() string { return "xor_overlap" }

// MinInput implements Step. Two full windows are required.
func (f XOROverlap) MinInput() int { return 2 * f.block() }

// Transform implements Step.
func (f XOROverlap) Transform(bits bitstream.Bits) bitstream.Bits {
	block := f.block()
	stride := block / 2

	var out bitstream.Bits

	for i := 0; i < len(bits)-block; i += stride {
		second := i + stride
		if second+block > len(bits) {
			break
		}

		// XOR the two windows, keep the middle half.
		for j := block / 4; j < 3*block/4; j++ {
			out = append(out, bits[i+j]^bits[second+j])
		}
	}

	return out
}
