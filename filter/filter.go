// Package filter conditions raw timing-delta sequences before bit
// extraction: detrending, zero-phase Butterworth high/band-pass filtering,
// notch suppression of periodic interference, and normalization.
//
// Filters are configured through a tagged-variant [Spec] and applied with
// [Spec.Apply]. Configuration errors never propagate: a cutoff at or above
// Nyquist, or a numerically degenerate input, degrades the filter to a
// pass-through so that the pipeline keeps producing output.
package filter

import (
	"fmt"
	"math"

	vecmath "github.com/cwbudde/algo-vecmath"
)

// Kind identifies a filter variant.
type Kind int

const (
	KindDetrend Kind = iota
	KindNormalize
	KindHighpass
	KindBandpass
	KindNotch
	KindBandstop
)

// String returns the CLI-facing name of the kind.
func (k Kind) String() string {
	switch k {
	case KindDetrend:
		return "detrend"
	case KindNormalize:
		return "normalize"
	case KindHighpass:
		return "highpass"
	case KindBandpass:
		return "bandpass"
	case KindNotch:
		return "notch"
	case KindBandstop:
		return "bandstop"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind maps a name to a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "detrend":
		return KindDetrend, nil
	case "normalize":
		return KindNormalize, nil
	case "highpass":
		return KindHighpass, nil
	case "bandpass":
		return KindBandpass, nil
	case "notch":
		return KindNotch, nil
	case "bandstop":
		return KindBandstop, nil
	default:
		return 0, fmt.Errorf("filter: unknown kind %q", s)
	}
}

// Spec is a tagged-variant filter configuration. Zero values of the
// parameter fields select the documented defaults; use the constructors
// below to build validated specs.
type Spec struct {
	Kind Kind

	// Cutoff is the highpass cutoff in Hz (default 0.01).
	Cutoff float64

	// Low and High are band edges in Hz for bandpass and bandstop.
	Low, High float64

	// Freq is the notch center frequency in Hz (default 60).
	Freq float64

	// Q is the notch quality factor (default 30).
	Q float64

	// Order is the IIR filter order (default 4), or the polynomial order
	// for detrend (default 1).
	Order int
}

// Detrend returns a polynomial detrend spec of the given order.
// Order 1 removes a linear trend.
func Detrend(order int) Spec {
	if order < 1 {
		order = 1
	}

	return Spec{Kind: KindDetrend, Order: order}
}

// Normalize returns a zero-mean unit-variance rescale spec.
func Normalize() Spec {
	return Spec{Kind: KindNormalize}
}

// Highpass returns a Butterworth highpass spec with cutoff in Hz.
func Highpass(cutoff float64, order int) Spec {
	if cutoff <= 0 {
		cutoff = 0.01
	}

	if order < 1 {
		order = 4
	}

	return Spec{Kind: KindHighpass, Cutoff: cutoff, Order: order}
}

// Bandpass returns a Butterworth bandpass spec with band edges in Hz.
func Bandpass(low, high float64, order int) Spec {
	if low <= 0 {
		low = 0.01
	}

	if high <= low {
		high = low * 1000
	}

	if order < 1 {
		order = 4
	}

	return Spec{Kind: KindBandpass, Low: low, High: high, Order: order}
}

// NotchSpec returns a notch spec at freq Hz with quality factor q.
func NotchSpec(freq, q float64) Spec {
	if freq <= 0 {
		freq = 60
	}

	if q <= 0 {
		q = 30
	}

	return Spec{Kind: KindNotch, Freq: freq, Q: q}
}

// Bandstop returns a band-rejection spec with edges in Hz, used for
// periodic-signal suppression.
func Bandstop(low, high float64, order int) Spec {
	if order < 1 {
		order = 4
	}

	return Spec{Kind: KindBandstop, Low: low, High: high, Order: order}
}

// EstimateSampleRate derives the sampling rate in Hz from the mean interval,
// assuming samples are nanosecond-scale timing deltas. Returns 0 for empty
// or non-positive-mean input.
func EstimateSampleRate(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}

	var sum float64
	for _, x := range samples {
		sum += x
	}

	meanNs := sum / float64(len(samples))
	if meanNs <= 0 || math.IsNaN(meanNs) || math.IsInf(meanNs, 0) {
		return 0
	}

	return 1e9 / meanNs
}

// Apply runs the filter over samples and returns a new sequence of the same
// length. The input is never mutated. Invalid configurations (cutoff at or
// above Nyquist, unusable sample-rate estimate) and degenerate inputs return
// the input unchanged.
func (s Spec) Apply(samples []float64) []float64 {
	if len(samples) == 0 {
		return samples
	}

	switch s.Kind {
	case KindDetrend:
		order := s.Order
		if order < 1 {
			order = 1
		}

		return detrend(samples, order)

	case KindNormalize:
		return normalize(samples)

	case KindHighpass:
		return s.applyIIR(samples, func(fs float64) []Coefficients {
			return ButterworthHP(s.cutoff(), s.order(), fs)
		})

	case KindBandpass:
		return s.applyIIR(samples, func(fs float64) []Coefficients {
			return ButterworthBP(s.Low, s.High, s.order(), fs)
		})

	case KindNotch:
		return s.applyIIR(samples, func(fs float64) []Coefficients {
			return Notch(s.freq(), s.q(), fs)
		})

	case KindBandstop:
		return s.applyIIR(samples, func(fs float64) []Coefficients {
			return BandstopNotch(s.Low, s.High, s.order(), fs)
		})

	default:
		return samples
	}
}

func (s Spec) applyIIR(samples []float64, design func(fs float64) []Coefficients) []float64 {
	fs := EstimateSampleRate(samples)
	if fs <= 0 {
		return samples
	}

	coeffs := design(fs)
	if coeffs == nil {
		// Cutoff at or above Nyquist: fail open.
		return samples
	}

	return ZeroPhase(coeffs, samples)
}

func (s Spec) cutoff() float64 {
	if s.Cutoff <= 0 {
		return 0.01
	}

	return s.Cutoff
}

func (s Spec) freq() float64 {
	if s.Freq <= 0 {
		return 60
	}

	return s.Freq
}

func (s Spec) q() float64 {
	if s.Q <= 0 {
		return 30
	}

	return s.Q
}

func (s Spec) order() int {
	if s.Order < 1 {
		return 4
	}

	return s.Order
}

// normalize rescales to zero mean and unit variance. Zero-variance input is
// returned unchanged rather than dividing by zero.
func normalize(samples []float64) []float64 {
	var sum float64
	for _, x := range samples {
		sum += x
	}

	mean := sum / float64(len(samples))

	var m2 float64
	for _, x := range samples {
		d := x - mean
		m2 += d * d
	}

	std := math.Sqrt(m2 / float64(len(samples)))
	if std == 0 || math.IsNaN(std) || math.IsInf(std, 0) {
		return samples
	}

	shifted := make([]float64, len(samples))
	for i, x := range samples {
		shifted[i] = x - mean
	}

	out := make([]float64, len(samples))
	vecmath.ScaleBlock(out, shifted, 1/std)

	return out
}
