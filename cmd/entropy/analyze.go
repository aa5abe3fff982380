package main

import (
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-entropy/filter"
	"github.com/cwbudde/algo-entropy/spectral"
	"github.com/cwbudde/algo-entropy/stats/timing"
)

var analyzeFlags struct {
	input   string
	maxLag  int
	windows []int
	taus    []int
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Characterize a raw timing-delta recording",
	Long: `Reads whitespace-separated timing deltas (nanoseconds) and reports
interval statistics, spectral structure, and clustering measures, with
heuristic warnings about likely contamination.`,
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVarP(&analyzeFlags.input, "input", "i", "-", "input file of timing deltas (- for stdin)")
	analyzeCmd.Flags().IntVar(&analyzeFlags.maxLag, "max-lag", 500, "autocorrelation scan depth in samples")
	analyzeCmd.Flags().IntSliceVar(&analyzeFlags.windows, "fano-windows", []int{10, 100, 1000}, "Fano factor window sizes in ms")
	analyzeCmd.Flags().IntSliceVar(&analyzeFlags.taus, "allan-taus", []int{1, 10, 100}, "Allan variance aggregation factors")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	samples, err := readSamples(analyzeFlags.input)
	if err != nil {
		return err
	}

	if len(samples) < 2 {
		return fmt.Errorf("need at least 2 samples, have %d", len(samples))
	}

	w := os.Stdout

	st := timing.Calculate(samples)
	fs := filter.EstimateSampleRate(samples)

	fmt.Fprintf(w, "samples:        %d\n", st.Count)
	fmt.Fprintf(w, "sample rate:    %.4f Hz\n", fs)
	fmt.Fprintf(w, "mean interval:  %.1f ns\n", st.Mean)
	fmt.Fprintf(w, "median:         %.1f ns\n", st.Median)
	fmt.Fprintf(w, "std:            %.1f ns (CV %.4f)\n", st.Std, st.CV)
	fmt.Fprintf(w, "range:          [%.1f, %.1f] ns\n", st.Min, st.Max)
	fmt.Fprintf(w, "skewness:       %.4f\n", st.Skewness)
	fmt.Fprintf(w, "excess kurt:    %.4f\n", st.Kurtosis)
	fmt.Fprintf(w, "entropy:        %.4f bits (256 bins)\n", st.Entropy)

	fmt.Fprintln(w)
	reportSpectrum(w, samples, fs)

	fmt.Fprintln(w)
	reportClustering(w, samples, st)

	return nil
}

func reportSpectrum(w *os.File, samples []float64, fs float64) {
	freqs, err := spectral.DominantFrequencies(samples, fs, 5)
	if err == nil && len(freqs) > 0 {
		fmt.Fprintln(w, "dominant frequencies:")

		for _, f := range freqs {
			fmt.Fprintf(w, "  %8.4f Hz  relative power %.4f\n", f.Hz, f.Relative)
		}

		if freqs[0].Relative > 0.2 {
			fmt.Fprintf(w, "  warning: strong periodic component at %.4f Hz\n", freqs[0].Hz)
		}
	} else {
		fmt.Fprintln(w, "dominant frequencies: none detected")
	}

	maxLag := analyzeFlags.maxLag
	if maxLag >= len(samples) {
		maxLag = len(samples) - 1
	}

	ac, err := spectral.AutocorrelationNormalized(samples, maxLag)
	if err != nil {
		return
	}

	peaks := spectral.FindPeaks(ac[1:], 0.1, 10)
	if len(peaks) == 0 {
		fmt.Fprintln(w, "autocorrelation: no peaks above 0.1")

		return
	}

	fmt.Fprintln(w, "autocorrelation peaks:")

	for i, p := range peaks {
		if i >= 5 {
			break
		}

		fmt.Fprintf(w, "  lag %5d  r=%.4f\n", p.Index+1, p.Value)
	}
}

func reportClustering(w *os.File, samples []float64, st timing.Stats) {
	fanos := timing.FanoFactors(samples, analyzeFlags.windows)
	if len(fanos) > 0 {
		fmt.Fprintln(w, "Fano factors:")

		windows := make([]int, 0, len(fanos))
		for ms := range fanos {
			windows = append(windows, ms)
		}

		sort.Ints(windows)

		for _, ms := range windows {
			fmt.Fprintf(w, "  %5d ms: %.4f\n", ms, fanos[ms])
		}
	}

	allans := timing.AllanVariances(samples, analyzeFlags.taus)
	if len(allans) > 0 {
		fmt.Fprintln(w, "Allan variances:")

		taus := make([]int, 0, len(allans))
		for tau := range allans {
			taus = append(taus, tau)
		}

		sort.Ints(taus)

		for _, tau := range taus {
			fmt.Fprintf(w, "  tau %4d: %.4g\n", tau, allans[tau])
		}
	}

	runs, z, p := timing.RunsZTest(samples)
	fmt.Fprintf(w, "runs test: %d runs, z=%.4f, p=%.4f\n", runs, z, p)

	// Heuristics for common source pathologies.
	if !math.IsNaN(st.CV) && math.Abs(st.CV-1) > 0.5 {
		fmt.Fprintf(w, "warning: CV %.4f far from 1, intervals are not exponential\n", st.CV)
	}

	for ms, f := range fanos {
		if f > 2 {
			fmt.Fprintf(w, "warning: Fano factor %.2f at %d ms indicates clustering\n", f, ms)

			break
		}
	}

	if !math.IsNaN(p) && p < 0.01 {
		fmt.Fprintln(w, "warning: runs test rejects independence of successive intervals")
	}
}
