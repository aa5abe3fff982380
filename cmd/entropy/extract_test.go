package main

import (
	"testing"

	"github.com/cwbudde/algo-entropy/filter"
)

func TestParseFilterArg(t *testing.T) {
	cases := []struct {
		arg  string
		kind filter.Kind
	}{
		{"detrend", filter.KindDetrend},
		{"detrend:2", filter.KindDetrend},
		{"normalize", filter.KindNormalize},
		{"highpass:0.01", filter.KindHighpass},
		{"highpass:0.01:6", filter.KindHighpass},
		{"bandpass:0.1:10", filter.KindBandpass},
		{"notch:60:30", filter.KindNotch},
		{"bandstop:0.15:0.17:2", filter.KindBandstop},
	}

	for _, tc := range cases {
		spec, err := parseFilterArg(tc.arg)
		if err != nil {
			t.Fatalf("parseFilterArg(%q): %v", tc.arg, err)
		}
		if spec.Kind != tc.kind {
			t.Fatalf("parseFilterArg(%q) kind = %v, want %v", tc.arg, spec.Kind, tc.kind)
		}
	}
}

func TestParseFilterArgErrors(t *testing.T) {
	for _, arg := range []string{"wavelet", "highpass:drift", ""} {
		if _, err := parseFilterArg(arg); err == nil {
			t.Fatalf("parseFilterArg(%q): expected error", arg)
		}
	}
}

func TestParseFilterArgParameters(t *testing.T) {
	spec, err := parseFilterArg("bandstop:0.152:0.168:2")
	if err != nil {
		t.Fatal(err)
	}
	if spec.Low != 0.152 || spec.High != 0.168 || spec.Order != 2 {
		t.Fatalf("spec = %+v, want edges 0.152/0.168 order 2", spec)
	}
}
