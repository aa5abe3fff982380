package filter

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-entropy/internal/testutil"
)

func TestEstimateSampleRate(t *testing.T) {
	// 1 ms mean interval gives 1 kHz.
	samples := []float64{1e6, 1e6, 1e6, 1e6}
	if fs := EstimateSampleRate(samples); math.Abs(fs-1000) > 1e-9 {
		t.Fatalf("fs = %v, want 1000", fs)
	}

	if fs := EstimateSampleRate(nil); fs != 0 {
		t.Fatalf("empty input fs = %v, want 0", fs)
	}

	if fs := EstimateSampleRate([]float64{-1, -1}); fs != 0 {
		t.Fatalf("negative-mean fs = %v, want 0", fs)
	}
}

func TestParseKindRoundTrip(t *testing.T) {
	names := []string{"detrend", "normalize", "highpass", "bandpass", "notch", "bandstop"}
	for _, name := range names {
		kind, err := ParseKind(name)
		if err != nil {
			t.Fatalf("ParseKind(%q): %v", name, err)
		}
		if kind.String() != name {
			t.Fatalf("round trip %q -> %q", name, kind.String())
		}
	}

	if _, err := ParseKind("wavelet"); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}

func TestDetrendRemovesLinearTrend(t *testing.T) {
	samples := make([]float64, 500)
	for i := range samples {
		samples[i] = 3 + 0.25*float64(i)
	}

	out := Detrend(1).Apply(samples)
	if len(out) != len(samples) {
		t.Fatalf("len = %d, want %d", len(out), len(samples))
	}

	for i, v := range out {
		if math.Abs(v) > 1e-6 {
			t.Fatalf("residual[%d] = %v, want ~0", i, v)
		}
	}
}

func TestDetrendPreservesNoise(t *testing.T) {
	noise := testutil.Noise(11, 1, 500)

	trend := make([]float64, len(noise))
	for i := range trend {
		trend[i] = noise[i] + 100 - 0.5*float64(i)
	}

	out := Detrend(1).Apply(trend)

	// The detrended signal should track the injected noise closely.
	diff, err := testutil.MaxAbsDiff(out, noise)
	if err != nil {
		t.Fatal(err)
	}
	if diff > 0.5 {
		t.Fatalf("max deviation from noise = %v, want < 0.5", diff)
	}
}

func TestNormalize(t *testing.T) {
	out := Normalize().Apply([]float64{2, 4, 6, 8})

	var mean float64
	for _, v := range out {
		mean += v
	}
	mean /= float64(len(out))

	var variance float64
	for _, v := range out {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(len(out))

	if math.Abs(mean) > 1e-12 {
		t.Fatalf("mean = %v, want 0", mean)
	}
	if math.Abs(variance-1) > 1e-12 {
		t.Fatalf("variance = %v, want 1", variance)
	}
}

func TestNormalizeConstantPassThrough(t *testing.T) {
	in := []float64{5, 5, 5, 5}
	out := Normalize().Apply(in)
	for i := range in {
		if out[i] != in[i] {
			t.Fatal("constant input should pass through unchanged")
		}
	}
}

func TestApplyNyquistFailOpen(t *testing.T) {
	// Mean interval 1e6 ns gives fs = 1 kHz; a 600 Hz cutoff violates
	// Nyquist and must leave the data untouched.
	samples := testutil.ExponentialDeltas(5, 1e6, 256)
	out := Highpass(600, 4).Apply(samples)

	testutil.RequireSliceNearlyEqual(t, out, samples, 0)
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	samples := testutil.ExponentialDeltas(6, 1e6, 256)
	backup := make([]float64, len(samples))
	copy(backup, samples)

	Highpass(0.01, 6).Apply(samples)
	Detrend(1).Apply(samples)
	Normalize().Apply(samples)

	testutil.RequireSliceNearlyEqual(t, samples, backup, 0)
}

func TestApplyEmptyInput(t *testing.T) {
	for _, spec := range []Spec{Detrend(1), Normalize(), Highpass(0.01, 4), Bandstop(0.1, 0.2, 2)} {
		if out := spec.Apply(nil); len(out) != 0 {
			t.Fatalf("%v: empty input produced %d samples", spec.Kind, len(out))
		}
	}
}
