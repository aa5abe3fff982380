// Package extract converts conditioned timing-delta sequences into raw bit
// sequences. Strategies are selected through a closed [Method] enumeration;
// all of them are deterministic given identical input and configuration.
//
// Every strategy returns an empty bit sequence for inputs of fewer than two
// samples rather than failing.
package extract

import (
	"fmt"

	"github.com/cwbudde/algo-entropy/bitstream"
)

// Method identifies a bit-extraction strategy.
type Method int

const (
	// MethodAdaptive thresholds each sample against the median of a
	// centered sliding window.
	MethodAdaptive Method = iota

	// MethodImprovedAdaptive thresholds on a MAD-normalized local z-score,
	// falling back to the median comparison when the window MAD is zero.
	MethodImprovedAdaptive

	// MethodLSB emits the low-order bits of each truncated sample value.
	MethodLSB

	// MethodDifferential compares each sample against the sample lag
	// positions earlier.
	MethodDifferential

	// MethodMultiCombine XOR-combines median-threshold, integer-parity, and
	// differential estimators over the same input.
	MethodMultiCombine

	// MethodPhase derives bits from sample position relative to a dominant
	// period detected via autocorrelation.
	MethodPhase
)

// String returns the CLI-facing name of the method.
func (m Method) String() string {
	switch m {
	case MethodAdaptive:
		return "adaptive_threshold"
	case MethodImprovedAdaptive:
		return "improved_adaptive"
	case MethodLSB:
		return "lsb"
	case MethodDifferential:
		return "differential"
	case MethodMultiCombine:
		return "multi"
	case MethodPhase:
		return "phase"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// ParseMethod maps a name to a Method.
func ParseMethod(s string) (Method, error) {
	switch s {
	case "adaptive_threshold", "adaptive":
		return MethodAdaptive, nil
	case "improved_adaptive", "improved":
		return MethodImprovedAdaptive, nil
	case "lsb":
		return MethodLSB, nil
	case "differential":
		return MethodDifferential, nil
	case "multi":
		return MethodMultiCombine, nil
	case "phase":
		return MethodPhase, nil
	default:
		return 0, fmt.Errorf("extract: unknown method %q", s)
	}
}

// Config selects and parameterizes an extraction strategy. Zero parameter
// values select the documented defaults.
type Config struct {
	Method Method

	// Window is the sliding-window size for the adaptive strategies
	// (default 100; the improved variant defaults to 50).
	Window int

	// NBits is the number of low-order bits emitted per sample by the LSB
	// strategy (default 8).
	NBits int

	// Lag is the comparison distance for the differential strategy
	// (default 1).
	Lag int

	// MaxPeriodLag bounds the autocorrelation search of the phase strategy
	// (default 1000 lags).
	MaxPeriodLag int
}

func (c Config) window() int {
	if c.Window > 0 {
		return c.Window
	}

	if c.Method == MethodImprovedAdaptive {
		return 50
	}

	return 100
}

func (c Config) nBits() int {
	if c.NBits > 0 {
		return c.NBits
	}

	return 8
}

func (c Config) lag() int {
	if c.Lag > 0 {
		return c.Lag
	}

	return 1
}

func (c Config) maxPeriodLag() int {
	if c.MaxPeriodLag > 0 {
		return c.MaxPeriodLag
	}

	return 1000
}

// Extract runs the configured strategy over samples. Fewer than two samples
// yield an empty bit sequence.
func Extract(samples []float64, cfg Config) bitstream.Bits {
	if len(samples) < 2 {
		return nil
	}

	switch cfg.Method {
	case MethodAdaptive:
		return adaptiveThreshold(samples, cfg.window())
	case MethodImprovedAdaptive:
		return improvedAdaptive(samples, cfg.window())
	case MethodLSB:
		return lsb(samples, cfg.nBits())
	case MethodDifferential:
		return differential(samples, cfg.lag())
	case MethodMultiCombine:
		return multiCombine(samples)
	case MethodPhase:
		return phase(samples, cfg.maxPeriodLag())
	default:
		return nil
	}
}
