package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-entropy/randtest"
)

var testFlags struct {
	input   string
	hexIn   bool
	size    int
	jsonOut bool
}

var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Run the statistical test battery on extracted bits",
	Long: `Reads packed random bytes and runs the statistical battery: frequency,
runs, block frequency, byte chi-square, autocorrelation, and p-value
uniformity.`,
	RunE: runTest,
}

func init() {
	rootCmd.AddCommand(testCmd)

	testCmd.Flags().StringVarP(&testFlags.input, "input", "i", "-", "input file of packed bytes (- for stdin)")
	testCmd.Flags().BoolVar(&testFlags.hexIn, "hex", false, "decode input as hex text")
	testCmd.Flags().IntVar(&testFlags.size, "size", 0, "limit the number of bytes tested (0 = all)")
	testCmd.Flags().BoolVar(&testFlags.jsonOut, "json", false, "emit results as JSON")
}

func runTest(cmd *cobra.Command, args []string) error {
	data, err := readBytes(testFlags.input)
	if err != nil {
		return err
	}

	if testFlags.hexIn {
		data, err = hex.DecodeString(strings.TrimSpace(string(data)))
		if err != nil {
			return fmt.Errorf("decode hex input: %w", err)
		}
	}

	if testFlags.size > 0 && len(data) > testFlags.size {
		data = data[:testFlags.size]
	}

	results := randtest.EvaluateBytes(data)

	if testFlags.jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")

		return enc.Encode(results)
	}

	renderReport(os.Stdout, results, len(data))

	return nil
}

func readBytes(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(os.Stdin)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}

	return data, nil
}

func renderReport(w io.Writer, results randtest.ResultSet, nBytes int) {
	fmt.Fprintf(w, "randomness report: %d bytes (%d bits)\n", nBytes, nBytes*8)
	fmt.Fprintln(w, strings.Repeat("-", 64))

	for _, name := range results.Names() {
		r := results[name]

		verdict := "FAIL"

		switch {
		case r.Undefined:
			verdict = "SKIP"
		case r.Pass && r.Warning:
			verdict = "WARN"
		case r.Pass:
			verdict = "PASS"
		}

		fmt.Fprintf(w, "%-18s %-4s  stat=%-10.4f", name, verdict, r.Statistic)

		if !math.IsNaN(r.PValue) {
			fmt.Fprintf(w, " p=%-8.4f", r.PValue)
		}

		if r.Details != "" {
			fmt.Fprintf(w, " (%s)", r.Details)
		}

		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, strings.Repeat("-", 64))
	fmt.Fprintf(w, "passed %d of %d tests\n", results.Passed(), len(results))

	if results.AllPass() {
		fmt.Fprintln(w, "verdict: no evidence against randomness")
	} else {
		fmt.Fprintln(w, "verdict: sequence shows non-random structure")
	}
}
