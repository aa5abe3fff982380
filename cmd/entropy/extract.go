package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-entropy/bitstream"
	"github.com/cwbudde/algo-entropy/extract"
	"github.com/cwbudde/algo-entropy/filter"
	"github.com/cwbudde/algo-entropy/pipeline"
	"github.com/cwbudde/algo-entropy/whiten"
)

var extractFlags struct {
	input       string
	preset      string
	method      string
	filters     []string
	postprocess []string
	notchHz     []float64
	output      string
	showStats   bool
}

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract random bits from timing samples",
	Long: `Reads whitespace-separated timing deltas (nanoseconds), runs the
conditioning pipeline, and writes the result to stdout.`,
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringVarP(&extractFlags.input, "input", "i", "-", "input file of timing deltas (- for stdin)")
	extractCmd.Flags().StringVar(&extractFlags.preset, "preset", "", "pipeline preset: improved or simple")
	extractCmd.Flags().StringVarP(&extractFlags.method, "method", "m", "", "extraction method: adaptive_threshold, improved_adaptive, lsb, differential, multi, phase")
	extractCmd.Flags().StringArrayVarP(&extractFlags.filters, "filter", "f", nil, "filter stage, e.g. highpass:0.01, bandstop:0.15:0.17, detrend:1 (repeatable)")
	extractCmd.Flags().StringArrayVarP(&extractFlags.postprocess, "postprocess", "p", nil, "whitening step: von_neumann, peres, xor_fold, xor_overlap, sha256, sha3 (repeatable)")
	extractCmd.Flags().Float64SliceVar(&extractFlags.notchHz, "notch", nil, "notch frequencies in Hz for the improved preset")
	extractCmd.Flags().StringVarP(&extractFlags.output, "output", "o", "hex", "output format: binary, hex, or bits")
	extractCmd.Flags().BoolVar(&extractFlags.showStats, "stats", false, "write pipeline statistics to stderr")
}

func runExtract(cmd *cobra.Command, args []string) error {
	samples, err := readSamples(extractFlags.input)
	if err != nil {
		return err
	}

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	bits := cfg.Run(samples)

	if extractFlags.showStats {
		fmt.Fprintf(os.Stderr, "# samples: %d\n", len(samples))
		fmt.Fprintf(os.Stderr, "# sample_rate_hz: %.6f\n", filter.EstimateSampleRate(samples))
		fmt.Fprintf(os.Stderr, "# bits: %d\n", len(bits))
		fmt.Fprintf(os.Stderr, "# ones_ratio: %.6f\n", bits.Balance())
	}

	return writeBits(bits, extractFlags.output)
}

func buildConfig() (pipeline.Config, error) {
	var cfg pipeline.Config

	switch extractFlags.preset {
	case "":
	case "improved":
		cfg = pipeline.ImprovedConfig(extractFlags.notchHz)
	case "simple":
		cfg = pipeline.SimpleConfig()
	default:
		return cfg, fmt.Errorf("unknown preset %q", extractFlags.preset)
	}

	if extractFlags.method != "" {
		method, err := extract.ParseMethod(extractFlags.method)
		if err != nil {
			return cfg, err
		}

		cfg.Extractor = extract.Config{Method: method}
	}

	if len(extractFlags.filters) > 0 {
		specs := make([]filter.Spec, 0, len(extractFlags.filters))

		for _, s := range extractFlags.filters {
			spec, err := parseFilterArg(s)
			if err != nil {
				return cfg, err
			}

			specs = append(specs, spec)
		}

		cfg.Filters = specs
	}

	if len(extractFlags.postprocess) > 0 {
		steps := make([]whiten.StepSpec, 0, len(extractFlags.postprocess))

		for _, name := range extractFlags.postprocess {
			step, err := whiten.ParseStepSpec(name)
			if err != nil {
				return cfg, err
			}

			steps = append(steps, step)
		}

		cfg.Steps = steps
	}

	return cfg, nil
}

// parseFilterArg parses "kind[:param[:param...]]" filter arguments.
func parseFilterArg(s string) (filter.Spec, error) {
	parts := strings.Split(s, ":")

	kind, err := filter.ParseKind(parts[0])
	if err != nil {
		return filter.Spec{}, err
	}

	params := make([]float64, 0, len(parts)-1)

	for _, p := range parts[1:] {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return filter.Spec{}, fmt.Errorf("filter %q: bad parameter %q", parts[0], p)
		}

		params = append(params, v)
	}

	at := func(i int) float64 {
		if i < len(params) {
			return params[i]
		}

		return 0
	}

	switch kind {
	case filter.KindDetrend:
		return filter.Detrend(int(at(0))), nil
	case filter.KindNormalize:
		return filter.Normalize(), nil
	case filter.KindHighpass:
		return filter.Highpass(at(0), int(at(1))), nil
	case filter.KindBandpass:
		return filter.Bandpass(at(0), at(1), int(at(2))), nil
	case filter.KindNotch:
		return filter.NotchSpec(at(0), at(1)), nil
	case filter.KindBandstop:
		return filter.Bandstop(at(0), at(1), int(at(2))), nil
	default:
		return filter.Spec{}, fmt.Errorf("unknown filter kind %q", parts[0])
	}
}

func writeBits(bits bitstream.Bits, format string) error {
	switch format {
	case "binary":
		_, err := os.Stdout.Write(bitstream.Pack(bits))

		return err

	case "hex":
		_, err := fmt.Println(hex.EncodeToString(bitstream.Pack(bits)))

		return err

	case "bits":
		var sb strings.Builder
		for _, b := range bits {
			sb.WriteByte('0' + b)
		}

		_, err := fmt.Println(sb.String())

		return err

	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
