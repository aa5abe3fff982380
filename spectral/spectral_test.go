package spectral

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-entropy/internal/testutil"
)

func TestAutocorrelationZeroLag(t *testing.T) {
	x := testutil.Noise(1, 1, 512)

	ac, err := AutocorrelationNormalized(x, 100)
	if err != nil {
		t.Fatal(err)
	}

	if len(ac) != 101 {
		t.Fatalf("len = %d, want 101", len(ac))
	}
	if math.Abs(ac[0]-1) > 1e-12 {
		t.Fatalf("ac[0] = %v, want 1", ac[0])
	}
}

func TestAutocorrelationPeriodicSignal(t *testing.T) {
	// A sine with period 50 samples has autocorrelation peaks at multiples
	// of 50.
	x := testutil.Sine(20, 1000, 1, 2000)

	ac, err := AutocorrelationNormalized(x, 200)
	if err != nil {
		t.Fatal(err)
	}

	if ac[50] < 0.9 {
		t.Fatalf("ac[50] = %v, want > 0.9", ac[50])
	}

	// Half a period away the correlation is strongly negative.
	if ac[25] > -0.5 {
		t.Fatalf("ac[25] = %v, want strongly negative", ac[25])
	}
}

func TestAutocorrelationWhiteNoiseDecorrelated(t *testing.T) {
	x := testutil.Noise(42, 1, 8192)

	ac, err := AutocorrelationNormalized(x, 50)
	if err != nil {
		t.Fatal(err)
	}

	for lag := 1; lag < len(ac); lag++ {
		if math.Abs(ac[lag]) > 0.1 {
			t.Fatalf("ac[%d] = %v, want near 0", lag, ac[lag])
		}
	}
}

func TestAutocorrelationEmptyInput(t *testing.T) {
	if _, err := AutocorrelationNormalized(nil, 10); !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("err = %v, want ErrEmptyInput", err)
	}
}

func TestAutocorrelationLagClamp(t *testing.T) {
	ac, err := AutocorrelationNormalized([]float64{1, 2, 3, 4}, 100)
	if err != nil {
		t.Fatal(err)
	}
	if len(ac) != 4 {
		t.Fatalf("len = %d, want 4", len(ac))
	}
}

func TestFindPeaks(t *testing.T) {
	values := []float64{0, 1, 0, 0, 3, 0, 0, 0, 0, 0, 0, 0, 2, 0}

	peaks := FindPeaks(values, 0.5, 3)
	if len(peaks) != 2 {
		t.Fatalf("got %d peaks, want 2", len(peaks))
	}

	// The peak at index 1 lies within distance 3 of the higher peak at
	// index 4 and must be rejected.
	if peaks[0].Index != 4 || peaks[1].Index != 12 {
		t.Fatalf("peak indices = %d, %d, want 4, 12", peaks[0].Index, peaks[1].Index)
	}
	if peaks[0].Relative != 1 {
		t.Fatalf("highest peak relative = %v, want 1", peaks[0].Relative)
	}
}

func TestFindPeaksShortInput(t *testing.T) {
	if peaks := FindPeaks([]float64{1, 2}, 0, 1); peaks != nil {
		t.Fatalf("got %d peaks, want none", len(peaks))
	}
}

func TestPowerSpectrumLocatesTone(t *testing.T) {
	const fs = 1000

	x := testutil.Sine(100, fs, 1, 2048)

	freqs, power, err := PowerSpectrum(x, fs)
	if err != nil {
		t.Fatal(err)
	}
	if len(freqs) != len(power) {
		t.Fatalf("freqs len %d != power len %d", len(freqs), len(power))
	}

	best := 0
	for i, p := range power {
		if p > power[best] {
			best = i
		}
	}

	if math.Abs(freqs[best]-100) > 2 {
		t.Fatalf("strongest bin at %v Hz, want ~100", freqs[best])
	}
}

func TestPowerSpectrumBadSampleRate(t *testing.T) {
	if _, _, err := PowerSpectrum([]float64{1, 2, 3}, 0); err == nil {
		t.Fatal("expected error for zero sample rate")
	}
}

func TestDominantFrequencies(t *testing.T) {
	const fs = 1000

	x := testutil.Sine(50, fs, 1, 4096)
	for i := range x {
		x[i] += 0.5 * math.Sin(2*math.Pi*200*float64(i)/fs)
	}

	freqs, err := DominantFrequencies(x, fs, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(freqs) < 2 {
		t.Fatalf("got %d frequencies, want at least 2", len(freqs))
	}

	if math.Abs(freqs[0].Hz-50) > 2 {
		t.Fatalf("strongest component at %v Hz, want ~50", freqs[0].Hz)
	}
	if math.Abs(freqs[1].Hz-200) > 2 {
		t.Fatalf("second component at %v Hz, want ~200", freqs[1].Hz)
	}
	if freqs[0].Relative != 1 {
		t.Fatalf("strongest relative = %v, want 1", freqs[0].Relative)
	}
}

func TestDominantFrequenciesSilence(t *testing.T) {
	x := make([]float64, 256)

	freqs, err := DominantFrequencies(x, 1000, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(freqs) != 0 {
		t.Fatalf("got %d frequencies from silence, want 0", len(freqs))
	}
}
