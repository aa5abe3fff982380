package pipeline

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-entropy/bitstream"
	"github.com/cwbudde/algo-entropy/extract"
	"github.com/cwbudde/algo-entropy/filter"
	"github.com/cwbudde/algo-entropy/internal/testutil"
	"github.com/cwbudde/algo-entropy/randtest"
	"github.com/cwbudde/algo-entropy/whiten"
)

func TestRunEmptyInput(t *testing.T) {
	cfg := ImprovedConfig(nil)

	require.Empty(t, cfg.Run(nil))
	require.Empty(t, cfg.Run([]float64{1e6}))
}

func TestRunZeroValueConfig(t *testing.T) {
	samples := testutil.ExponentialDeltas(1, 1e6, 1000)

	bits := Config{}.Run(samples)
	require.NotEmpty(t, bits)
	require.InDelta(t, 0.5, bits.Balance(), 0.05)
}

func TestImprovedPipelineEndToEnd(t *testing.T) {
	// Exponential arrivals with an injected 1 Hz modulation, the kind of
	// contamination the notch and highpass stages exist to remove.
	samples := testutil.PeriodicDeltas(2, 1e6, 1, 0.3, 10000)

	cfg := ImprovedConfig([]float64{1})
	bits := cfg.Run(samples)
	require.NotEmpty(t, bits)

	freq := randtest.Frequency(bits)
	require.False(t, freq.Undefined)
	require.True(t, freq.Pass, "conditioned output failed frequency test: %+v", freq)

	runs := randtest.Runs(bits)
	require.True(t, runs.Pass, "conditioned output failed runs test: %+v", runs)
}

func TestCustomChainOnContaminatedSource(t *testing.T) {
	samples := testutil.PeriodicDeltas(8, 1e6, 1, 0.3, 10000)

	cfg := Config{
		Filters:   []filter.Spec{filter.Highpass(0.01, 4)},
		Extractor: extract.Config{Method: extract.MethodAdaptive, Window: 100},
		Steps: []whiten.StepSpec{
			{Kind: whiten.StepVonNeumann},
			{Kind: whiten.StepHash, BlockBits: 256, DigestBits: 256},
		},
	}

	bits := cfg.Run(samples)
	require.NotEmpty(t, bits)

	freq := randtest.Frequency(bits)
	require.False(t, freq.Undefined)
	require.GreaterOrEqual(t, freq.Ratio, 0.45)
	require.LessOrEqual(t, freq.Ratio, 0.55)

	chi := randtest.ChiSquareBytes(bitstream.Pack(bits))
	require.False(t, chi.Undefined)
	require.True(t, chi.Pass, "chi-square failed: %+v", chi)
}

func TestImprovedPipelineDefaultNotches(t *testing.T) {
	cfg := ImprovedConfig(nil)

	// Detrend, one bandstop per default notch frequency, highpass.
	require.Len(t, cfg.Filters, 2+len(DefaultNotchHz))
	require.Equal(t, filter.KindDetrend, cfg.Filters[0].Kind)
	require.Equal(t, filter.KindHighpass, cfg.Filters[len(cfg.Filters)-1].Kind)
	require.True(t, cfg.Differencing)
	require.Equal(t, extract.MethodMultiCombine, cfg.Extractor.Method)
}

func TestImprovedPipelineDisabledNotches(t *testing.T) {
	cfg := ImprovedConfig([]float64{})
	require.Len(t, cfg.Filters, 2)
}

func TestImprovedPipelineShortInputGates(t *testing.T) {
	// 60 samples produce fewer bits than the Von Neumann gate; the
	// whitening steps are skipped and the pipeline still yields output.
	samples := testutil.ExponentialDeltas(3, 1e6, 60)

	bits := ImprovedConfig([]float64{}).Run(samples)
	require.NotEmpty(t, bits)
}

func TestImprovedPipelineGatesAreStrict(t *testing.T) {
	cfg := ImprovedConfig(nil)

	vn := whiten.Chain{cfg.Steps[0].Build()}
	atGate := testutil.BiasedBits(9, 0.5, vonNeumannGate)
	require.Equal(t, atGate, vn.Apply(atGate))

	aboveGate := testutil.BiasedBits(9, 0.5, vonNeumannGate+1)
	require.NotEqual(t, len(aboveGate), len(vn.Apply(aboveGate)))

	xo := whiten.Chain{cfg.Steps[1].Build()}
	atGate = testutil.BiasedBits(10, 0.5, xorOverlapGate)
	require.Equal(t, atGate, xo.Apply(atGate))

	aboveGate = testutil.BiasedBits(10, 0.5, xorOverlapGate+1)
	require.NotEqual(t, len(aboveGate), len(xo.Apply(aboveGate)))
}

func TestSimplePipeline(t *testing.T) {
	samples := testutil.ExponentialDeltas(4, 1e6, 20000)

	cfg := SimpleConfig()
	require.Equal(t, 3.0, cfg.TrimIQR)

	bits := cfg.Run(samples)
	require.NotEmpty(t, bits)
	require.InDelta(t, 0.5, bits.Balance(), 0.05)
}

func TestStepOrderMatters(t *testing.T) {
	samples := testutil.ExponentialDeltas(5, 1e6, 5000)

	a := Config{
		Extractor: extract.Config{Method: extract.MethodMultiCombine},
		Steps: []whiten.StepSpec{
			{Kind: whiten.StepVonNeumann},
			{Kind: whiten.StepXORFold},
		},
	}.Run(samples)

	b := Config{
		Extractor: extract.Config{Method: extract.MethodMultiCombine},
		Steps: []whiten.StepSpec{
			{Kind: whiten.StepXORFold},
			{Kind: whiten.StepVonNeumann},
		},
	}.Run(samples)

	require.NotEqual(t, a, b)
}

func TestRunDoesNotMutateInput(t *testing.T) {
	samples := testutil.ExponentialDeltas(6, 1e6, 2000)
	backup := make([]float64, len(samples))
	copy(backup, samples)

	ImprovedConfig(nil).Run(samples)
	require.Equal(t, backup, samples)
}

func TestTrimOutliers(t *testing.T) {
	samples := testutil.ExponentialDeltas(7, 1e6, 1000)
	samples = append(samples, 1e12, -1e12)

	trimmed := TrimOutliers(samples, 3)
	require.Less(t, len(trimmed), len(samples))

	for _, v := range trimmed {
		require.Less(t, math.Abs(v), 1e12)
	}

	// Too few samples pass through untouched.
	short := []float64{1, 2, 3}
	require.Equal(t, short, TrimOutliers(short, 3))
}
