// Package timing computes statistics of raw timing-delta sequences:
// one-pass interval moments, Shannon entropy, and the clustering and drift
// measures (Fano factor, Allan variance, runs z-test) used to judge an
// entropy source before conditioning.
package timing

import (
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"
)

// Stats holds interval statistics for a timing-delta sequence
// (nanosecond-scale values).
type Stats struct {
	Count    int
	Mean     float64
	Median   float64
	Std      float64
	Min      float64
	Max      float64
	CV       float64 // coefficient of variation, Std/Mean
	Skewness float64
	Kurtosis float64 // excess kurtosis
	Entropy  float64 // Shannon entropy over 256 bins, in bits
}

func emptyStats() Stats {
	return Stats{
		Median:  math.NaN(),
		CV:      math.NaN(),
		Entropy: math.NaN(),
	}
}

// Calculate computes interval statistics in a single pass using Welford's
// online algorithm for the higher-order moments. An empty input returns a
// zero-count result with NaN derived fields.
func Calculate(intervals []float64) Stats {
	n := len(intervals)
	if n == 0 {
		return emptyStats()
	}

	var (
		mean   float64
		m2     float64
		m3     float64
		m4     float64
		minVal = intervals[0]
		maxVal = intervals[0]
	)

	for i, x := range intervals {
		ni := float64(i + 1)
		delta := x - mean
		deltaN := delta / ni
		deltaN2 := deltaN * deltaN
		term1 := delta * deltaN * float64(i)

		// M4 must be updated before M3, and M3 before M2.
		m4 += term1*deltaN2*(ni*ni-3*ni+3) + 6*deltaN2*m2 - 4*deltaN*m3
		m3 += term1*deltaN*(float64(i)-1) - 3*deltaN*m2
		m2 += term1
		mean += deltaN

		if x < minVal {
			minVal = x
		}

		if x > maxVal {
			maxVal = x
		}
	}

	nf := float64(n)
	variance := m2 / nf
	std := math.Sqrt(variance)

	var skewness, kurtosis float64
	if variance > 0 {
		skewness = (m3 / nf) / (variance * std)
		kurtosis = (m4/nf)/(variance*variance) - 3
	}

	cv := math.NaN()
	if mean != 0 {
		cv = std / mean
	}

	median, err := stats.Median(intervals)
	if err != nil {
		median = math.NaN()
	}

	return Stats{
		Count:    n,
		Mean:     mean,
		Median:   median,
		Std:      std,
		Min:      minVal,
		Max:      maxVal,
		CV:       cv,
		Skewness: skewness,
		Kurtosis: kurtosis,
		Entropy:  ShannonEntropy(intervals, 256),
	}
}

// ShannonEntropy estimates the entropy of the value distribution in bits,
// over a fixed-width histogram with the given bin count. Degenerate input
// (empty, constant) yields 0.
func ShannonEntropy(values []float64, bins int) float64 {
	if len(values) == 0 || bins <= 0 {
		return 0
	}

	minVal, maxVal := values[0], values[0]
	for _, v := range values {
		if v < minVal {
			minVal = v
		}

		if v > maxVal {
			maxVal = v
		}
	}

	if maxVal == minVal {
		return 0
	}

	hist := make([]int, bins)
	width := (maxVal - minVal) / float64(bins)

	for _, v := range values {
		idx := int((v - minVal) / width)
		if idx >= bins {
			idx = bins - 1
		}

		hist[idx]++
	}

	var entropy float64

	total := float64(len(values))
	for _, count := range hist {
		if count == 0 {
			continue
		}

		p := float64(count) / total
		entropy -= p * math.Log2(p)
	}

	return entropy
}

// FanoFactors computes the event-count Fano factor (variance over mean of
// window counts) for each window size in milliseconds. Window sizes that
// span fewer than two windows of the recording are omitted from the result.
// A Fano factor near 1 indicates Poisson-like arrivals; larger values
// indicate clustering.
func FanoFactors(intervals []float64, windowsMS []int) map[int]float64 {
	out := make(map[int]float64, len(windowsMS))

	var totalNs float64
	for _, v := range intervals {
		totalNs += v
	}

	for _, windowMS := range windowsMS {
		windowNs := float64(windowMS) * 1e6
		if windowNs <= 0 {
			continue
		}

		nWindows := int(totalNs / windowNs)
		if nWindows < 2 {
			continue
		}

		counts := make([]float64, nWindows)

		var (
			currentTime   float64
			currentWindow int
			currentCount  int
		)

		for _, interval := range intervals {
			currentTime += interval
			for currentTime > float64(currentWindow+1)*windowNs && currentWindow < nWindows-1 {
				counts[currentWindow] = float64(currentCount)
				currentWindow++
				currentCount = 0
			}

			currentCount++
		}

		counts[currentWindow] = float64(currentCount)

		var mean float64
		for _, c := range counts {
			mean += c
		}

		mean /= float64(nWindows)
		if mean <= 0 {
			out[windowMS] = math.NaN()

			continue
		}

		var variance float64
		for _, c := range counts {
			d := c - mean
			variance += d * d
		}

		variance /= float64(nWindows)

		out[windowMS] = variance / mean
	}

	return out
}

// AllanVariance computes the Allan variance of the interval sequence at
// aggregation factor tau (in samples). Returns NaN when fewer than two
// aggregated groups exist.
func AllanVariance(intervals []float64, tau int) float64 {
	if tau <= 0 {
		return math.NaN()
	}

	groups := len(intervals) / tau
	if groups < 2 {
		return math.NaN()
	}

	y := make([]float64, groups)
	for g := 0; g < groups; g++ {
		var sum float64
		for i := g * tau; i < (g+1)*tau; i++ {
			sum += intervals[i]
		}

		y[g] = sum
	}

	var sumSqDiff float64
	for i := 1; i < len(y); i++ {
		d := y[i] - y[i-1]
		sumSqDiff += d * d
	}

	return sumSqDiff / float64(2*(len(y)-1))
}

// AllanVariances computes AllanVariance for each tau.
func AllanVariances(intervals []float64, taus []int) map[int]float64 {
	out := make(map[int]float64, len(taus))
	for _, tau := range taus {
		out[tau] = AllanVariance(intervals, tau)
	}

	return out
}

// RunsZTest performs a runs test on the interval sequence thresholded at
// its median, returning the observed run count, the z-score against the
// theoretical expectation, and the two-sided p-value. Degenerate input
// (empty, constant) yields NaN statistics.
func RunsZTest(intervals []float64) (runs int, z, p float64) {
	if len(intervals) < 2 {
		return 0, math.NaN(), math.NaN()
	}

	median, err := stats.Median(intervals)
	if err != nil {
		return 0, math.NaN(), math.NaN()
	}

	runs = 1

	var nPos, nNeg int

	prev := intervals[0] > median
	if prev {
		nPos++
	} else {
		nNeg++
	}

	for _, v := range intervals[1:] {
		cur := v > median
		if cur != prev {
			runs++
		}

		if cur {
			nPos++
		} else {
			nNeg++
		}

		prev = cur
	}

	n1, n0 := float64(nPos), float64(nNeg)
	n := n1 + n0

	expected := 2*n1*n0/n + 1
	variance := 2 * n1 * n0 * (2*n1*n0 - n) / (n * n * (n - 1))

	if variance <= 0 {
		return runs, math.NaN(), math.NaN()
	}

	z = (float64(runs) - expected) / math.Sqrt(variance)
	p = 2 * (1 - distuv.UnitNormal.CDF(math.Abs(z)))

	return runs, z, p
}
