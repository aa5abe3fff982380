package filter

// Coefficients holds the transfer function coefficients for a single
// second-order section (biquad). a0 is normalized to 1 and not stored.
//
// The sign convention follows Direct Form II Transposed:
//
//	y  = B0*x + d0
//	= B1*x - A1*y + d1
//	= B2*x - A2*y
type Coefficients struct {
	B0, B1, B2 float64 // feedforward (numerator)
	A1, A2     float64 // feedback (denominator)
}

// section is a single biquad with coefficients and delay-line state,
// implemented as Direct Form II Transposed.
type section struct {
	Coefficients

	d0, d1 float64
}

func (s *section) processSample(x float64) float64 {
	y := s.B0*x + s.d0
	s.d0 = s.B1*x - s.A1*y + s.d1
	s.d1 = s.B2*x - s.A2*y

	return y
}

func (s *section) processBlock(buf []float64) {
	for i, x := range buf {
		buf[i] = s.processSample(x)
	}
}

func (s *section) reset() {
	s.d0 = 0
	s.d1 = 0
}

// cascade runs buf through every section in series, in-place.
func cascade(sections []section, buf []float64) {
	for i := range sections {
		sections[i].processBlock(buf)
	}
}

func resetAll(sections []section) {
	for i := range sections {
		sections[i].reset()
	}
}

func reverse(buf []float64) {
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
}

// ZeroPhase applies the section cascade forward and backward over a copy of
// samples, cancelling the phase response of the filter. Bit extraction is
// sensitive to phase distortion near decision boundaries, so every IIR spec
// in this package is applied zero-phase.
//
// An empty coefficient list returns the input unchanged.
func ZeroPhase(coeffs []Coefficients, samples []float64) []float64 {
	if len(coeffs) == 0 || len(samples) == 0 {
		return samples
	}

	sections := make([]section, len(coeffs))
	for i := range coeffs {
		sections[i].Coefficients = coeffs[i]
	}

	out := make([]float64, len(samples))
	copy(out, samples)

	cascade(sections, out)
	reverse(out)
	resetAll(sections)
	cascade(sections, out)
	reverse(out)

	return out
}
