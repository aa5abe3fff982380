package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "entropy",
	Short: "Condition and validate raw timing entropy",
	Long: `entropy turns raw event-timing deltas into conditioned random bits and
judges their quality: filtering, adaptive bit extraction, debiasing and
whitening cascades, and a statistical test battery.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// readSamples reads whitespace-separated float samples from path, or from
// stdin when path is empty or "-". Tokens that do not parse as numbers are
// skipped.
func readSamples(path string) ([]float64, error) {
	var r io.Reader = os.Stdin

	if path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		defer f.Close()

		r = f
	}

	var samples []float64

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	scanner.Split(bufio.ScanWords)

	for scanner.Scan() {
		v, err := strconv.ParseFloat(strings.TrimSuffix(scanner.Text(), ","), 64)
		if err != nil {
			continue
		}

		samples = append(samples, v)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	return samples, nil
}
