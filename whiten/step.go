// Package whiten implements the debiasing and whitening transforms applied
// to raw bit sequences: Von Neumann pairing, Peres recursive debiasing, XOR
// folding, and cryptographic-hash block whitening.
//
// Each transform is a pure function over a bit sequence. The [Chain] runner
// checks every step's minimum-input precondition before invocation; a step
// whose precondition is unmet is skipped and its input passed through, never
// an error.
package whiten

import (
	"fmt"

	"github.com/cwbudde/algo-entropy/bitstream"
)

// Step is one debias/whiten transform in a chain.
type Step interface {
	// Name identifies the step in configuration and reports.
	Name() string

	// MinInput is the smallest bit count for which the transform is
	// meaningful. Shorter inputs pass through unchanged.
	MinInput() int

	// Transform maps a bit sequence to a new bit sequence. The input is
	// never mutated.
	Transform(bits bitstream.Bits) bitstream.Bits
}

// Chain runs steps in order, skipping any step whose minimum-input
// precondition its current input does not meet.
type Chain []Step

// Apply runs the chain over bits.
func (c Chain) Apply(bits bitstream.Bits) bitstream.Bits {
	for _, step := range c {
		if len(bits) < step.MinInput() {
			continue
		}

		bits = step.Transform(bits)
	}

	return bits
}

// WithMinInput wraps a step with a higher minimum-input gate. Pipeline
// presets use this to hold back an expensive or lossy step until enough
// material has accumulated.
func WithMinInput(step Step, minBits int) Step {
	if minBits <= step.MinInput() {
		return step
	}

	return gatedStep{Step: step, min: minBits}
}

type gatedStep struct {
	Step

	min int
}

func (g gatedStep) MinInput() int { return g.min }

// StepKind identifies a debias/whiten step variant.
type StepKind int

const (
	StepVonNeumann StepKind = iota
	StepPeres
	StepXORFold
	StepXOROverlap
	StepHash
)

// StepSpec is a tagged-variant step configuration.
type StepSpec struct {
	Kind StepKind

	// Chunk is the XOR fold chunk size (default 8).
	Chunk int

	// Block is the overlapping-XOR block size (default 16).
	Block int

	// Algorithm selects the whitening hash (default SHA-256).
	Algorithm HashAlgorithm

	// BlockBits and DigestBits parameterize hash whitening
	// (defaults 512 and 256).
	BlockBits, DigestBits int

	// MinBits optionally raises the step's minimum-input gate.
	MinBits int
}

// Build materializes the configured step.
func (s StepSpec) Build() Step {
	var step Step

	switch s.Kind {
	case StepVonNeumann:
		step = VonNeumann{}
	case StepPeres:
		step = Peres{}
	case StepXORFold:
		step = XORFold{Chunk: s.Chunk}
	case StepXOROverlap:
		step = XOROverlap{Block: s.Block}
	case StepHash:
		step = HashWhitener{
			Algorithm:  s.Algorithm,
			BlockBits:  s.BlockBits,
			DigestBits: s.DigestBits,
		}
	default:
		step = VonNeumann{}
	}

	if s.MinBits > 0 {
		step = WithMinInput(step, s.MinBits)
	}

	return step
}

// ParseStepSpec maps a name to a default-parameterized StepSpec.
func ParseStepSpec(name string) (StepSpec, error) {
	switch name {
	case "von_neumann":
		return StepSpec{Kind: StepVonNeumann}, nil
	case "peres":
		return StepSpec{Kind: StepPeres}, nil
	case "xor_fold":
		return StepSpec{Kind: StepXORFold}, nil
	case "xor_overlap":
		return StepSpec{Kind: StepXOROverlap}, nil
	case "sha256":
		return StepSpec{Kind: StepHash, Algorithm: SHA256}, nil
	case "sha3":
		return StepSpec{Kind: StepHash, Algorithm: SHA3256}, nil
	default:
		return StepSpec{}, fmt.Errorf("whiten: unknown step %q", name)
	}
}

// BuildChain materializes a chain from step specifications.
func BuildChain(specs []StepSpec) Chain {
	chain := make(Chain, len(specs))
	for i, s := range specs {
		chain[i] = s.Build()
	}

	return chain
}
