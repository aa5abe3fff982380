// Package randtest implements a statistical test battery for judging the
// quality of extracted bit sequences: NIST-style frequency, runs and block
// frequency tests, a byte-level chi-square test, an autocorrelation scan,
// and Kolmogorov-Smirnov uniformity over collected p-values.
//
// Each test returns a Result rather than an error; sequences too short or
// too degenerate for a test yield Undefined results instead of panics.
package randtest

import (
	"encoding/json"
	"math"
	"sort"

	"github.com/cwbudde/algo-entropy/bitstream"
)

// Significance is the p-value threshold below which a test fails.
const Significance = 0.01

// Result holds the outcome of a single statistical test.
type Result struct {
	Name      string
	Statistic float64
	PValue    float64 // NaN when the test defines no p-value
	Ratio     float64 // NaN when not applicable
	Expected  float64 // NaN when not applicable
	Pass      bool
	Undefined bool // input too short or degenerate for this test
	Warning   bool // advisory only, never fails the battery
	Details   string
}

// MarshalJSON renders NaN and infinite statistics as null; encoding/json
// rejects them outright.
func (r Result) MarshalJSON() ([]byte, error) {
	finite := func(v float64) *float64 {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil
		}

		return &v
	}

	return json.Marshal(struct {
		Name      string   `json:"name"`
		Statistic *float64 `json:"statistic"`
		PValue    *float64 `json:"p_value"`
		Ratio     *float64 `json:"ratio"`
		Expected  *float64 `json:"expected"`
		Pass      bool     `json:"pass"`
		Undefined bool     `json:"undefined,omitempty"`
		Warning   bool     `json:"warning,omitempty"`
		Details   string   `json:"details,omitempty"`
	}{
		Name:      r.Name,
		Statistic: finite(r.Statistic),
		PValue:    finite(r.PValue),
		Ratio:     finite(r.Ratio),
		Expected:  finite(r.Expected),
		Pass:      r.Pass,
		Undefined: r.Undefined,
		Warning:   r.Warning,
		Details:   r.Details,
	})
}

// ResultSet maps test names to their results.
type ResultSet map[string]Result

// Passed returns the number of tests that passed.
func (rs ResultSet) Passed() int {
	var n int

	for _, r := range rs {
		if r.Pass {
			n++
		}
	}

	return n
}

// AllPass reports whether every test in the set passed. Undefined results
// count as failures.
func (rs ResultSet) AllPass() bool {
	for _, r := range rs {
		if !r.Pass {
			return false
		}
	}

	return true
}

// Names returns the test names in sorted order.
func (rs ResultSet) Names() []string {
	names := make([]string, 0, len(rs))
	for name := range rs {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// ksSegments is the number of equal segments whose monobit p-values feed
// the uniformity test.
const ksSegments = 10

// Evaluate runs the full battery on a bit sequence. The chi-square test
// operates on the packed byte representation. When the sequence is long
// enough, the monobit test is additionally repeated over ten equal
// segments and a Kolmogorov-Smirnov uniformity test over the segment
// p-values is appended; a well-calibrated source produces uniform
// p-values across segments.
func Evaluate(bits bitstream.Bits) ResultSet {
	return evaluate(bits, bitstream.Pack(bits))
}

// EvaluateBytes runs the battery on packed bytes, unpacking them for the
// bit-level tests and using the raw bytes for the chi-square test.
func EvaluateBytes(data []byte) ResultSet {
	return evaluate(bitstream.Unpack(data), data)
}

func evaluate(bits bitstream.Bits, data []byte) ResultSet {
	rs := ResultSet{}

	rs["frequency"] = Frequency(bits)
	rs["runs"] = Runs(bits)
	rs["block_frequency"] = BlockFrequency(bits, 0)
	rs["autocorrelation"] = Autocorrelation(bits, 0)
	rs["chi_square"] = ChiSquareBytes(data)

	pvalues := segmentPValues(bits)
	if len(pvalues) >= 5 {
		rs["ks_uniformity"] = KolmogorovSmirnov(pvalues)
	}

	return rs
}

// segmentPValues computes a monobit p-value per equal segment. Segments too
// short for the monobit test yield nothing.
func segmentPValues(bits bitstream.Bits) []float64 {
	seg := len(bits) / ksSegments
	if seg < minFrequencySize {
		return nil
	}

	pvalues := make([]float64, 0, ksSegments)

	for i := 0; i < ksSegments; i++ {
		r := Frequency(bits[i*seg : (i+1)*seg])
		if r.Undefined || math.IsNaN(r.PValue) {
			continue
		}

		pvalues = append(pvalues, r.PValue)
	}

	return pvalues
}

func undefined(name, details string) Result {
	return Result{
		Name:      name,
		Statistic: math.NaN(),
		PValue:    math.NaN(),
		Ratio:     math.NaN(),
		Expected:  math.NaN(),
		Undefined: true,
		Details:   details,
	}
}
