package randtest

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/cwbudde/algo-entropy/bitstream"
	"github.com/cwbudde/algo-entropy/spectral"
)

const (
	// Frequency test acceptance band for the ones ratio.
	ratioLow  = 0.45
	ratioHigh = 0.55

	// Runs test limits: longest acceptable run and relative deviation of
	// the observed run count from its expectation.
	maxRunLimit       = 20
	runCountTolerance = 0.10

	// Byte chi-square acceptance band for 255 degrees of freedom.
	chiSquareLow  = 200
	chiSquareHigh = 350

	// Block frequency block size.
	defaultBlockSize = 128

	// Autocorrelation scan depth and advisory threshold.
	maxAutocorrLag     = 100
	autocorrWarnLevel  = 0.1
	minFrequencySize   = 100
	minChiSquareBytes  = 256
	minAutocorrSamples = 20
)

// Frequency performs the monobit frequency test. The statistic is the
// normalized deviation |2·ones − n|/√n with a two-sided normal p-value;
// the test additionally requires the ones ratio to stay inside
// [0.45, 0.55].
func Frequency(bits bitstream.Bits) Result {
	n := len(bits)
	if n < minFrequencySize {
		return undefined("frequency", fmt.Sprintf("need at least %d bits, have %d", minFrequencySize, n))
	}

	ones := bits.Ones()
	sObs := math.Abs(float64(2*ones-n)) / math.Sqrt(float64(n))
	p := 2 * (1 - distuv.UnitNormal.CDF(sObs))
	ratio := float64(ones) / float64(n)

	return Result{
		Name:      "frequency",
		Statistic: sObs,
		PValue:    p,
		Ratio:     ratio,
		Expected:  0.5,
		Pass:      p > Significance && ratio >= ratioLow && ratio <= ratioHigh,
		Details:   fmt.Sprintf("%d ones of %d bits", ones, n),
	}
}

// Runs counts maximal runs of identical bits. The test fails when the
// longest run reaches 20 bits or when the observed run count deviates more
// than 10% from the expectation 2·n₁·n₀/n + 1.
func Runs(bits bitstream.Bits) Result {
	n := len(bits)
	if n < 2 {
		return undefined("runs", "need at least 2 bits")
	}

	runs := 1
	maxRun := 1
	current := 1

	for i := 1; i < n; i++ {
		if bits[i] == bits[i-1] {
			current++
			if current > maxRun {
				maxRun = current
			}

			continue
		}

		runs++
		current = 1
	}

	n1 := float64(bits.Ones())
	n0 := float64(n) - n1

	if n1 == 0 || n0 == 0 {
		return Result{
			Name:      "runs",
			Statistic: float64(runs),
			PValue:    math.NaN(),
			Ratio:     math.NaN(),
			Expected:  math.NaN(),
			Undefined: true,
			Details:   "constant sequence",
		}
	}

	expected := 2*n1*n0/float64(n) + 1
	deviation := math.Abs(float64(runs)-expected) / expected

	return Result{
		Name:      "runs",
		Statistic: float64(runs),
		PValue:    math.NaN(),
		Ratio:     deviation,
		Expected:  expected,
		Pass:      maxRun < maxRunLimit && deviation <= runCountTolerance,
		Details:   fmt.Sprintf("%d runs, longest %d", runs, maxRun),
	}
}

// ChiSquareBytes performs a chi-square goodness-of-fit test over the 256
// byte values. The pass criterion is the empirical acceptance band
// [200, 350] for 255 degrees of freedom; the survival-function p-value is
// reported alongside.
func ChiSquareBytes(data []byte) Result {
	n := len(data)
	if n < minChiSquareBytes {
		return undefined("chi_square", fmt.Sprintf("need at least %d bytes, have %d", minChiSquareBytes, n))
	}

	var counts [256]int
	for _, b := range data {
		counts[b]++
	}

	expected := float64(n) / 256

	var chi float64
	for _, c := range counts {
		d := float64(c) - expected
		chi += d * d / expected
	}

	dist := distuv.ChiSquared{K: 255}
	p := 1 - dist.CDF(chi)

	return Result{
		Name:      "chi_square",
		Statistic: chi,
		PValue:    p,
		Ratio:     math.NaN(),
		Expected:  255,
		Pass:      chi >= chiSquareLow && chi <= chiSquareHigh,
		Details:   fmt.Sprintf("%d bytes over 256 bins", n),
	}
}

// BlockFrequency performs the NIST block frequency test with the given
// block size (128 when blockSize <= 0). The statistic is
// 4·m·Σ(πᵢ − 1/2)² with a chi-square survival p-value over the number of
// complete blocks.
func BlockFrequency(bits bitstream.Bits, blockSize int) Result {
	if blockSize <= 0 {
		blockSize = defaultBlockSize
	}

	blocks := len(bits) / blockSize
	if blocks < 1 {
		return undefined("block_frequency", fmt.Sprintf("need at least %d bits, have %d", blockSize, len(bits)))
	}

	var chi float64

	for b := 0; b < blocks; b++ {
		block := bits[b*blockSize : (b+1)*blockSize]
		pi := block.Balance() - 0.5
		chi += pi * pi
	}

	chi *= 4 * float64(blockSize)

	dist := distuv.ChiSquared{K: float64(blocks)}
	p := 1 - dist.CDF(chi)

	return Result{
		Name:      "block_frequency",
		Statistic: chi,
		PValue:    p,
		Ratio:     math.NaN(),
		Expected:  float64(blocks),
		Pass:      p > Significance,
		Details:   fmt.Sprintf("%d blocks of %d bits", blocks, blockSize),
	}
}

// Autocorrelation scans the normalized autocorrelation of the ±0.5 shifted
// bit sequence at lags 1 through 100 (or maxLag when positive). The test
// never fails; a maximum above 0.1 raises an advisory warning, since
// residual correlation is a symptom rather than proof of a broken source.
func Autocorrelation(bits bitstream.Bits, maxLag int) Result {
	if maxLag <= 0 {
		maxLag = maxAutocorrLag
	}

	if len(bits) < minAutocorrSamples {
		return undefined("autocorrelation", fmt.Sprintf("need at least %d bits, have %d", minAutocorrSamples, len(bits)))
	}

	if maxLag >= len(bits) {
		maxLag = len(bits) - 1
	}

	ac, err := spectral.AutocorrelationNormalized(bits.Floats(-0.5), maxLag)
	if err != nil {
		return undefined("autocorrelation", err.Error())
	}

	var maxAbs float64

	worstLag := 1
	for lag := 1; lag < len(ac); lag++ {
		if a := math.Abs(ac[lag]); a > maxAbs {
			maxAbs = a
			worstLag = lag
		}
	}

	return Result{
		Name:      "autocorrelation",
		Statistic: maxAbs,
		PValue:    math.NaN(),
		Ratio:     math.NaN(),
		Expected:  0,
		Pass:      true,
		Warning:   maxAbs > autocorrWarnLevel,
		Details:   fmt.Sprintf("max |r| at lag %d over %d lags", worstLag, maxLag),
	}
}
