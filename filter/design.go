package filter

import "math"

const defaultBiquadQ = 1 / math.Sqrt2

// normalizedW0 validates freq against the Nyquist limit and returns the
// angular frequency. A frequency at or above Nyquist is rejected, which
// callers treat as "skip this filter" rather than an error.
func normalizedW0(freq, sampleRate float64) (float64, bool) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return 0, false
	}

	nyquist := sampleRate / 2
	if freq <= 0 || freq >= nyquist || math.IsNaN(freq) || math.IsInf(freq, 0) {
		return 0, false
	}

	return 2 * math.Pi * freq / sampleRate, true
}

func normalizeBiquad(b0, b1, b2, a0, a1, a2 float64) (Coefficients, bool) {
	if a0 == 0 || math.IsNaN(a0) || math.IsInf(a0, 0) {
		return Coefficients{}, false
	}

	return Coefficients{
		B0: b0 / a0,
		B1: b1 / a0,
		B2: b2 / a0,
		A1: a1 / a0,
		A2: a2 / a0,
	}, true
}

// lowpassRBJ designs a lowpass biquad at freq (Hz) with quality factor q.
func lowpassRBJ(freq, q, sampleRate float64) (Coefficients, bool) {
	w0, ok := normalizedW0(freq, sampleRate)
	if !ok {
		return Coefficients{}, false
	}

	cw := math.Cos(w0)
	sw := math.Sin(w0)
	alpha := sw / (2 * q)

	b0 := (1 - cw) / 2
	b1 := 1 - cw
	b2 := (1 - cw) / 2

	return normalizeBiquad(b0, b1, b2, 1+alpha, -2*cw, 1-alpha)
}

// highpassRBJ designs a highpass biquad at freq (Hz) with quality factor q.
func highpassRBJ(freq, q, sampleRate float64) (Coefficients, bool) {
	w0, ok := normalizedW0(freq, sampleRate)
	if !ok {
		return Coefficients{}, false
	}

	cw := math.Cos(w0)
	sw := math.Sin(w0)
	alpha := sw / (2 * q)

	b0 := (1 + cw) / 2
	b1 := -(1 + cw)
	b2 := (1 + cw) / 2

	return normalizeBiquad(b0, b1, b2, 1+alpha, -2*cw, 1-alpha)
}

// notchRBJ designs a notch biquad centered at freq (Hz).
func notchRBJ(freq, q, sampleRate float64) (Coefficients, bool) {
	w0, ok := normalizedW0(freq, sampleRate)
	if !ok {
		return Coefficients{}, false
	}

	if q <= 0 || math.IsNaN(q) || math.IsInf(q, 0) {
		q = defaultBiquadQ
	}

	cw := math.Cos(w0)
	sw := math.Sin(w0)
	alpha := sw / (2 * q)

	b0 := 1.0
	b1 := -2 * cw
	b2 := 1.0

	return normalizeBiquad(b0, b1, b2, 1+alpha, -2*cw, 1-alpha)
}

// butterworthQ returns the quality factor for the i-th second-order section
// of a Butterworth filter of the given order.
func butterworthQ(order, index int) float64 {
	theta := math.Pi * float64(2*index+1) / (2 * float64(order))

	s := math.Sin(theta)
	if s == 0 {
		return defaultBiquadQ
	}

	return 1 / (2 * s)
}

// butterworthFirstOrderLP designs a first-order lowpass section, used for
// odd orders.
func butterworthFirstOrderLP(freq, sampleRate float64) (Coefficients, bool) {
	if sampleRate <= 0 || freq <= 0 || freq >= sampleRate/2 {
		return Coefficients{}, false
	}

	k := math.Tan(math.Pi * freq / sampleRate)
	norm := 1 / (1 + k)

	return Coefficients{
		B0: k * norm,
		B1: k * norm,
		A1: (k - 1) * norm,
	}, true
}

// butterworthFirstOrderHP designs a first-order highpass section, used for
// odd orders.
func butterworthFirstOrderHP(freq, sampleRate float64) (Coefficients, bool) {
	if sampleRate <= 0 || freq <= 0 || freq >= sampleRate/2 {
		return Coefficients{}, false
	}

	k := math.Tan(math.Pi * freq / sampleRate)
	norm := 1 / (1 + k)

	return Coefficients{
		B0: norm,
		B1: -norm,
		A1: (k - 1) * norm,
	}, true
}

// ButterworthLP designs a lowpass Butterworth cascade.
//
// For odd orders, the final section is first-order (B2=A2=0). Returns nil if
// the cutoff is at or above Nyquist or the order is not positive; callers
// treat nil as a pass-through.
func ButterworthLP(freq float64, order int, sampleRate float64) []Coefficients {
	if order <= 0 {
		return nil
	}

	sections := make([]Coefficients, 0, (order+1)/2)

	n2 := order / 2
	for i := n2 - 1; i >= 0; i-- {
		c, ok := lowpassRBJ(freq, butterworthQ(order, i), sampleRate)
		if !ok {
			return nil
		}

		sections = append(sections, c)
	}

	if order%2 != 0 {
		c, ok := butterworthFirstOrderLP(freq, sampleRate)
		if !ok {
			return nil
		}

		sections = append(sections, c)
	}

	return sections
}

// ButterworthHP designs a highpass Butterworth cascade.
//
// For odd orders, the final section is first-order (B2=A2=0). Returns nil if
// the cutoff is at or above Nyquist or the order is not positive.
func ButterworthHP(freq float64, order int, sampleRate float64) []Coefficients {
	if order <= 0 {
		return nil
	}

	sections := make([]Coefficients, 0, (order+1)/2)

	n2 := order / 2
	for i := n2 - 1; i >= 0; i-- {
		c, ok := highpassRBJ(freq, butterworthQ(order, i), sampleRate)
		if !ok {
			return nil
		}

		sections = append(sections, c)
	}

	if order%2 != 0 {
		c, ok := butterworthFirstOrderHP(freq, sampleRate)
		if !ok {
			return nil
		}

		sections = append(sections, c)
	}

	return sections
}

// ButterworthBP designs a bandpass cascade as a highpass at the low edge
// followed by a lowpass at the high edge. Returns nil if either edge is
// invalid against Nyquist.
func ButterworthBP(low, high float64, order int, sampleRate float64) []Coefficients {
	if low <= 0 || high <= low {
		return nil
	}

	hp := ButterworthHP(low, order, sampleRate)
	if hp == nil {
		return nil
	}

	lp := ButterworthLP(high, order, sampleRate)
	if lp == nil {
		return nil
	}

	return append(hp, lp...)
}

// BandstopNotch designs a band-rejection cascade from notch sections centered
// at the geometric mean of the band edges, with Q set by the band width.
// Used for periodic-signal suppression; the improved pipeline rejects a ±5%
// band around each detected frequency.
func BandstopNotch(low, high float64, order int, sampleRate float64) []Coefficients {
	if low <= 0 || high <= low || order <= 0 {
		return nil
	}

	f0 := math.Sqrt(low * high)

	q := f0 / (high - low)

	n := (order + 1) / 2
	sections := make([]Coefficients, 0, n)

	for i := 0; i < n; i++ {
		c, ok := notchRBJ(f0, q, sampleRate)
		if !ok {
			return nil
		}

		sections = append(sections, c)
	}

	return sections
}

// Notch designs a single notch section at freq (Hz) with quality factor q.
// Returns nil if freq is at or above Nyquist.
func Notch(freq, q, sampleRate float64) []Coefficients {
	c, ok := notchRBJ(freq, q, sampleRate)
	if !ok {
		return nil
	}

	return []Coefficients{c}
}
