package randtest

import (
	"fmt"
	"math"
	"sort"
)

// KolmogorovSmirnov tests a collection of p-values against the uniform
// distribution on [0, 1). Under the null hypothesis the p-values of
// independent test runs are uniform, so a failing result indicates the
// battery's verdicts themselves are skewed. At least five p-values are
// required.
func KolmogorovSmirnov(pvalues []float64) Result {
	n := len(pvalues)
	if n < 5 {
		return undefined("ks_uniformity", fmt.Sprintf("need at least 5 p-values, have %d", n))
	}

	sorted := make([]float64, n)
	copy(sorted, pvalues)
	sort.Float64s(sorted)

	var d float64

	nf := float64(n)
	for i, p := range sorted {
		upper := float64(i+1)/nf - p
		lower := p - float64(i)/nf

		if upper > d {
			d = upper
		}

		if lower > d {
			d = lower
		}
	}

	p := kolmogorovSurvival((math.Sqrt(nf) + 0.12 + 0.11/math.Sqrt(nf)) * d)

	return Result{
		Name:      "ks_uniformity",
		Statistic: d,
		PValue:    p,
		Ratio:     math.NaN(),
		Expected:  math.NaN(),
		Pass:      p > Significance,
		Details:   fmt.Sprintf("%d p-values", n),
	}
}

// kolmogorovSurvival evaluates Q(λ) = 2·Σ (−1)^(j−1)·exp(−2·j²·λ²), the
// asymptotic survival function of the Kolmogorov distribution. The series
// converges quickly; terms below 1e-10 terminate it.
func kolmogorovSurvival(lambda float64) float64 {
	if lambda <= 0 {
		return 1
	}

	var sum float64

	sign := 1.0
	for j := 1; j <= 100; j++ {
		term := math.Exp(-2 * float64(j*j) * lambda * lambda)
		sum += sign * term

		if term < 1e-10 {
			break
		}

		sign = -sign
	}

	p := 2 * sum
	if p < 0 {
		return 0
	}

	if p > 1 {
		return 1
	}

	return p
}
