// Package pipeline chains the conditioning stages into complete
// entropy-extraction runs: optional outlier trimming, signal filtering,
// bit extraction, and the debiasing/whitening cascade.
package pipeline

import (
	"github.com/montanaflynn/stats"

	"github.com/cwbudde/algo-entropy/bitstream"
	"github.com/cwbudde/algo-entropy/extract"
	"github.com/cwbudde/algo-entropy/filter"
	"github.com/cwbudde/algo-entropy/whiten"
)

// Default improved-pipeline parameters.
const (
	defaultHighpassHz    = 0.01
	defaultHighpassOrder = 6
	notchRelativeWidth   = 0.05

	// Strict gates: an early whitening step runs only when its input
	// exceeds the gate, so a capture of exactly vonNeumannGate bits
	// still skips Von Neumann.
	vonNeumannGate = 100
	xorOverlapGate = 32
)

// DefaultNotchHz lists the periodic-contamination frequencies suppressed by
// the improved pipeline: mains-coupled subharmonics and a timer artifact
// observed in Geiger-Müller interval recordings.
var DefaultNotchHz = []float64{0.16, 0.38, 1.74}

// Config describes one conditioning run. The zero value is a usable
// pass-through configuration with adaptive-threshold extraction and no
// whitening.
type Config struct {
	// TrimIQR drops samples outside median ± TrimIQR·IQR before any
	// filtering. Zero disables trimming.
	TrimIQR float64

	// Filters are applied in order to the raw samples.
	Filters []filter.Spec

	// Differencing replaces the filtered samples with their first-order
	// differences before extraction.
	Differencing bool

	// Extractor converts the conditioned samples to bits.
	Extractor extract.Config

	// Steps form the whitening chain applied to the extracted bits.
	Steps []whiten.StepSpec
}

// Run executes the configured pipeline over raw samples. Fewer than two
// samples yield an empty bit sequence. The input is never mutated.
func (c Config) Run(samples []float64) bitstream.Bits {
	if len(samples) < 2 {
		return nil
	}

	if c.TrimIQR > 0 {
		samples = TrimOutliers(samples, c.TrimIQR)
	}

	for _, spec := range c.Filters {
		samples = spec.Apply(samples)
	}

	if c.Differencing {
		samples = difference(samples)
	}

	bits := extract.Extract(samples, c.Extractor)
	if len(bits) == 0 {
		return nil
	}

	return whiten.BuildChain(c.Steps).Apply(bits)
}

// ImprovedConfig returns the full conditioning preset: trend removal,
// band-rejection of known periodic contamination, a steep highpass,
// first-order differencing, multi-method extraction, and a Von Neumann /
// overlapping-XOR / SHA3-256 whitening cascade. The early whitening steps
// are gated so short captures skip them rather than collapsing to nothing.
// A nil notchHz selects DefaultNotchHz; an empty slice disables notching.
func ImprovedConfig(notchHz []float64) Config {
	if notchHz == nil {
		notchHz = DefaultNotchHz
	}

	filters := []filter.Spec{filter.Detrend(1)}
	for _, hz := range notchHz {
		if hz <= 0 {
			continue
		}

		filters = append(filters, filter.Bandstop(
			hz*(1-notchRelativeWidth),
			hz*(1+notchRelativeWidth),
			2,
		))
	}

	filters = append(filters, filter.Highpass(defaultHighpassHz, defaultHighpassOrder))

	return Config{
		Filters:      filters,
		Differencing: true,
		Extractor:    extract.Config{Method: extract.MethodMultiCombine},
		Steps: []whiten.StepSpec{
			{Kind: whiten.StepVonNeumann, MinBits: vonNeumannGate + 1},
			{Kind: whiten.StepXOROverlap, MinBits: xorOverlapGate + 1},
			{Kind: whiten.StepHash, Algorithm: whiten.SHA3256},
		},
	}
}

// SimpleConfig returns the baseline preset: aggressive outlier trimming,
// wide-window adaptive thresholding, Von Neumann debiasing, byte-level XOR
// folding, and SHA-256 block whitening.
func SimpleConfig() Config {
	return Config{
		TrimIQR:   3,
		Extractor: extract.Config{Method: extract.MethodAdaptive, Window: 256},
		Steps: []whiten.StepSpec{
			{Kind: whiten.StepVonNeumann},
			{Kind: whiten.StepXORFold, Chunk: 8},
			{Kind: whiten.StepHash, Algorithm: whiten.SHA256},
		},
	}
}

// TrimOutliers removes samples outside [q1 − k·IQR, q3 + k·IQR]. When the
// quartiles cannot be computed or the trim would drop everything, the input
// is returned unchanged.
func TrimOutliers(samples []float64, k float64) []float64 {
	if len(samples) < 4 {
		return samples
	}

	q1, err1 := stats.Percentile(samples, 25)
	q3, err3 := stats.Percentile(samples, 75)

	if err1 != nil || err3 != nil {
		return samples
	}

	iqr := q3 - q1
	low := q1 - k*iqr
	high := q3 + k*iqr

	out := make([]float64, 0, len(samples))
	for _, v := range samples {
		if v >= low && v <= high {
			out = append(out, v)
		}
	}

	if len(out) == 0 {
		return samples
	}

	return out
}

func difference(samples []float64) []float64 {
	out := make([]float64, len(samples)-1)
	for i := range out {
		out[i] = samples[i+1] - samples[i]
	}

	return out
}
