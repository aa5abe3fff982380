// Package bitstream provides the bit sequence type shared by the extraction,
// whitening, and validation stages, together with MSB-first byte packing.
package bitstream

// Bits is an ordered sequence of single-bit values. Every element is 0 or 1;
// order is significant.
type Bits []byte

// Ones returns the number of set bits.
func (b Bits) Ones() int {
	n := 0
	for _, v := range b {
		if v != 0 {
			n++
		}
	}

	return n
}

// Zeros returns the number of clear bits.
func (b Bits) Zeros() int {
	return len(b) - b.Ones()
}

// Balance returns the fraction of set bits, or 0 for an empty sequence.
func (b Bits) Balance() float64 {
	if len(b) == 0 {
		return 0
	}

	return float64(b.Ones()) / float64(len(b))
}

// Pack packs bits into bytes, most significant bit first. A final partial
// byte is zero-padded on the right.
func Pack(bits Bits) []byte {
	if len(bits) == 0 {
		return nil
	}

	out := make([]byte, (len(bits)+7)/8)
	for i, bit := range bits {
		if bit != 0 {
			out[i/8] |= 1 << uint(7-i%8)
		}
	}

	return out
}

// Unpack expands bytes into bits, most significant bit first. It is the
// inverse of Pack modulo trailing zero-padding.
func Unpack(data []byte) Bits {
	if len(data) == 0 {
		return nil
	}

	out := make(Bits, 0, len(data)*8)
	for _, b := range data {
		for i := 7; i >= 0; i-- {
			out = append(out, (b>>uint(i))&1)
		}
	}

	return out
}

// Floats converts bits to float64 values, optionally shifting 0/1 to
// offset/offset+1 (pass offset = -0.5 for the ±0.5 form used by the
// autocorrelation test).
func (b Bits) Floats(offset float64) []float64 {
	out := make([]float64, len(b))
	for i, v := range b {
		out[i] = float64(v) + offset
	}

	return out
}
