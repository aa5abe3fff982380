// Package spectral provides the frequency-domain analysis used for
// periodic-signal detection: FFT-based autocorrelation, windowed power
// spectra, and peak finding. The phase extractor and the analyze tool are
// its consumers.
package spectral

import (
	"errors"
	"fmt"
	"math"
	"sort"

	algofft "github.com/MeKo-Christian/algo-fft"
	vecmath "github.com/cwbudde/algo-vecmath"
)

// ErrEmptyInput is returned when an input sequence is empty.
var ErrEmptyInput = errors.New("spectral: empty input")

// AutocorrelationNormalized computes the mean-removed autocorrelation of x
// at lags 0..maxLag, normalized so the zero-lag value is 1. maxLag is
// clamped to len(x)-1.
//
// The computation runs through an FFT of the zero-padded signal: the inverse
// transform of the power spectrum is the circular autocorrelation, and the
// padding makes it linear.
func AutocorrelationNormalized(x []float64, maxLag int) ([]float64, error) {
	n := len(x)
	if n == 0 {
		return nil, ErrEmptyInput
	}

	if maxLag >= n {
		maxLag = n - 1
	}

	if maxLag < 0 {
		maxLag = 0
	}

	var mean float64
	for _, v := range x {
		mean += v
	}

	mean /= float64(n)

	fftSize := nextPowerOf2(2 * n)

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("spectral: failed to create FFT plan: %w", err)
	}

	padded := make([]complex128, fftSize)
	for i, v := range x {
		padded[i] = complex(v-mean, 0)
	}

	freq := make([]complex128, fftSize)
	if err := plan.Forward(freq, padded); err != nil {
		return nil, fmt.Errorf("spectral: forward FFT failed: %w", err)
	}

	// Power spectrum: X * conj(X) is purely real.
	for i, c := range freq {
		re := real(c)
		im := imag(c)
		freq[i] = complex(re*re+im*im, 0)
	}

	timeDomain := make([]complex128, fftSize)
	if err := plan.Inverse(timeDomain, freq); err != nil {
		return nil, fmt.Errorf("spectral: inverse FFT failed: %w", err)
	}

	acf := make([]float64, maxLag+1)
	for i := range acf {
		acf[i] = real(timeDomain[i])
	}

	zeroLag := acf[0]
	if zeroLag == 0 {
		return acf, nil
	}

	for i := range acf {
		acf[i] /= zeroLag
	}

	return acf, nil
}

// Peak describes one spectral or autocorrelation peak.
type Peak struct {
	Index    int
	Value    float64
	Relative float64 // value relative to the collection maximum
}

// FindPeaks locates local maxima of values that exceed height, enforcing a
// minimum index distance between accepted peaks. Higher peaks win when two
// candidates are closer than distance. Results are sorted by index.
func FindPeaks(values []float64, height float64, distance int) []Peak {
	if len(values) < 3 {
		return nil
	}

	if distance < 1 {
		distance = 1
	}

	var candidates []Peak

	maxVal := values[0]
	for _, v := range values {
		if v > maxVal {
			maxVal = v
		}
	}

	for i := 1; i < len(values)-1; i++ {
		if values[i] > values[i-1] && values[i] > values[i+1] && values[i] > height {
			rel := 0.0
			if maxVal != 0 {
				rel = values[i] / maxVal
			}

			candidates = append(candidates, Peak{Index: i, Value: values[i], Relative: rel})
		}
	}

	// Accept from highest to lowest, rejecting anything within distance of an
	// already accepted peak.
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Value > candidates[j].Value })

	var accepted []Peak

	for _, c := range candidates {
		ok := true

		for _, a := range accepted {
			if abs(c.Index-a.Index) < distance {
				ok = false

				break
			}
		}

		if ok {
			accepted = append(accepted, c)
		}
	}

	sort.Slice(accepted, func(i, j int) bool { return accepted[i].Index < accepted[j].Index })

	return accepted
}

// Frequency describes one dominant spectral component.
type Frequency struct {
	Hz       float64
	Power    float64
	Relative float64
}

// PowerSpectrum computes the one-sided power spectrum of x with a Hann
// window applied. It returns the bin frequencies and their powers; both
// slices have len(x)/2 elements.
func PowerSpectrum(x []float64, sampleRate float64) (freqs, power []float64, err error) {
	n := len(x)
	if n == 0 {
		return nil, nil, ErrEmptyInput
	}

	if sampleRate <= 0 {
		return nil, nil, fmt.Errorf("spectral: sample rate must be > 0: %f", sampleRate)
	}

	var mean float64
	for _, v := range x {
		mean += v
	}

	mean /= float64(n)

	windowed := make([]float64, n)
	for i, v := range x {
		windowed[i] = v - mean
	}

	vecmath.MulBlockInPlace(windowed, hann(n))

	plan, err := algofft.NewPlan64(nextPowerOf2(n))
	if err != nil {
		return nil, nil, fmt.Errorf("spectral: failed to create FFT plan: %w", err)
	}

	fftSize := nextPowerOf2(n)

	padded := make([]complex128, fftSize)
	for i, v := range windowed {
		padded[i] = complex(v, 0)
	}

	out := make([]complex128, fftSize)
	if err := plan.Forward(out, padded); err != nil {
		return nil, nil, fmt.Errorf("spectral: forward FFT failed: %w", err)
	}

	half := n / 2
	if half == 0 {
		half = 1
	}

	re := make([]float64, half)
	im := make([]float64, half)

	for i := 0; i < half; i++ {
		re[i] = real(out[i])
		im[i] = imag(out[i])
	}

	power = make([]float64, half)
	vecmath.Power(power, re, im)

	freqs = make([]float64, half)
	for i := range freqs {
		freqs[i] = float64(i) * sampleRate / float64(fftSize)
	}

	return freqs, power, nil
}

// DominantFrequencies returns up to maxCount spectral peaks sorted by power,
// using a relative height threshold of 10% of the strongest bin and a
// minimum peak spacing of 10 bins.
func DominantFrequencies(x []float64, sampleRate float64, maxCount int) ([]Frequency, error) {
	freqs, power, err := PowerSpectrum(x, sampleRate)
	if err != nil {
		return nil, err
	}

	maxPower := 0.0
	for _, p := range power {
		if p > maxPower {
			maxPower = p
		}
	}

	if maxPower == 0 {
		return nil, nil
	}

	peaks := FindPeaks(power, maxPower*0.1, 10)

	sort.Slice(peaks, func(i, j int) bool { return peaks[i].Value > peaks[j].Value })

	if maxCount > 0 && len(peaks) > maxCount {
		peaks = peaks[:maxCount]
	}

	out := make([]Frequency, len(peaks))
	for i, p := range peaks {
		out[i] = Frequency{
			Hz:       freqs[p.Index],
			Power:    p.Value,
			Relative: p.Value / maxPower,
		}
	}

	return out, nil
}

func hann(n int) []float64 {
	w := make([]float64, n)
	if n == 1 {
		w[0] = 1

		return w
	}

	for i := range w {
		w[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
	}

	return w
}

func nextPowerOf2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}

	return p
}

func abs(x int) int {
	if x < 0 {
		return -x
	}

	return x
}
