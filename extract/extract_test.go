package extract

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-entropy/internal/testutil"
)

func TestParseMethodRoundTrip(t *testing.T) {
	names := []string{
		"adaptive_threshold",
		"improved_adaptive",
		"lsb",
		"differential",
		"multi",
		"phase",
	}
	for _, name := range names {
		m, err := ParseMethod(name)
		if err != nil {
			t.Fatalf("ParseMethod(%q): %v", name, err)
		}
		if m.String() != name {
			t.Fatalf("round trip %q -> %q", name, m.String())
		}
	}

	if _, err := ParseMethod("oracle"); err == nil {
		t.Fatal("expected error for unknown method")
	}
}

func TestExtractShortInput(t *testing.T) {
	for m := MethodAdaptive; m <= MethodPhase; m++ {
		if bits := Extract([]float64{1}, Config{Method: m}); len(bits) != 0 {
			t.Fatalf("method %v: got %d bits from one sample", m, len(bits))
		}
	}
}

func TestAdaptiveThresholdBalanced(t *testing.T) {
	samples := testutil.ExponentialDeltas(1, 1e6, 10000)

	bits := Extract(samples, Config{Method: MethodAdaptive})
	if len(bits) == 0 {
		t.Fatal("no bits extracted")
	}

	// Median thresholding yields a near-balanced sequence even from a
	// heavily skewed distribution.
	if r := bits.Balance(); math.Abs(r-0.5) > 0.03 {
		t.Fatalf("ones ratio = %v, want near 0.5", r)
	}
}

func TestAdaptiveThresholdTracksDrift(t *testing.T) {
	// A strong linear drift swamps a global threshold but not a windowed
	// one.
	samples := testutil.ExponentialDeltas(2, 1e3, 5000)
	for i := range samples {
		samples[i] += float64(i) * 1e3
	}

	bits := Extract(samples, Config{Method: MethodAdaptive, Window: 100})
	if r := bits.Balance(); math.Abs(r-0.5) > 0.05 {
		t.Fatalf("ones ratio under drift = %v, want near 0.5", r)
	}
}

func TestImprovedAdaptiveBalanced(t *testing.T) {
	samples := testutil.ExponentialDeltas(3, 1e6, 10000)

	bits := Extract(samples, Config{Method: MethodImprovedAdaptive})
	if len(bits) == 0 {
		t.Fatal("no bits extracted")
	}
	if r := bits.Balance(); math.Abs(r-0.5) > 0.03 {
		t.Fatalf("ones ratio = %v, want near 0.5", r)
	}
}

func TestImprovedAdaptiveConstantWindows(t *testing.T) {
	samples := make([]float64, 500)
	for i := range samples {
		samples[i] = 42
	}

	// Zero MAD falls back to the median comparison; constant samples never
	// exceed their median, so every emitted bit is zero.
	bits := Extract(samples, Config{Method: MethodImprovedAdaptive})
	if bits.Ones() != 0 {
		t.Fatalf("constant input produced %d ones", bits.Ones())
	}
}

func TestLSBBitCount(t *testing.T) {
	samples := []float64{5, 6, 7}

	bits := Extract(samples, Config{Method: MethodLSB, NBits: 3})
	if len(bits) != 9 {
		t.Fatalf("len = %d, want 9", len(bits))
	}

	// 5 = 101b emitted low bit first.
	want := []byte{1, 0, 1, 0, 1, 1, 1, 1, 1}
	for i := range want {
		if bits[i] != want[i] {
			t.Fatalf("bit %d = %d, want %d", i, bits[i], want[i])
		}
	}
}

func TestLSBNonFinite(t *testing.T) {
	bits := Extract([]float64{math.NaN(), math.Inf(1)}, Config{Method: MethodLSB, NBits: 8})
	if bits.Ones() != 0 {
		t.Fatal("non-finite samples should contribute zero bits only")
	}
}

func TestDifferentialLagLength(t *testing.T) {
	samples := []float64{1, 3, 2, 5, 4}

	bits := Extract(samples, Config{Method: MethodDifferential, Lag: 2})
	if len(bits) != 3 {
		t.Fatalf("len = %d, want 3", len(bits))
	}

	want := []byte{1, 1, 1}
	for i := range want {
		if bits[i] != want[i] {
			t.Fatalf("bit %d = %d, want %d", i, bits[i], want[i])
		}
	}
}

func TestMultiCombineLength(t *testing.T) {
	samples := testutil.ExponentialDeltas(4, 1e6, 2048)

	bits := Extract(samples, Config{Method: MethodMultiCombine})
	if len(bits) != len(samples) {
		t.Fatalf("len = %d, want %d", len(bits), len(samples))
	}
	if r := bits.Balance(); math.Abs(r-0.5) > 0.05 {
		t.Fatalf("ones ratio = %v, want near 0.5", r)
	}
}

func TestPhaseFollowsDominantPeriod(t *testing.T) {
	samples := testutil.Sine(10, 1000, 1, 2000) // period 100 samples

	bits := Extract(samples, Config{Method: MethodPhase, MaxPeriodLag: 500})
	if len(bits) != len(samples) {
		t.Fatalf("len = %d, want %d", len(bits), len(samples))
	}

	// The first half of each period emits ones.
	if bits[10] != 1 || bits[60] != 0 {
		t.Fatalf("bits[10]=%d bits[60]=%d, want 1 and 0", bits[10], bits[60])
	}
	if r := bits.Balance(); math.Abs(r-0.5) > 0.05 {
		t.Fatalf("ones ratio = %v, want near 0.5", r)
	}
}
