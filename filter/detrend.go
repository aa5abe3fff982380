package filter

import "math"

// detrend removes a fitted polynomial trend of the given order by
// subtracting the fitted curve point-wise. Order 1 is a linear detrend.
// A degenerate fit (singular normal equations) returns the input unchanged.
func detrend(samples []float64, order int) []float64 {
	if len(samples) < order+1 || order < 0 {
		return samples
	}

	coeffs, ok := polyfit(samples, order)
	if !ok {
		return samples
	}

	out := make([]float64, len(samples))
	for i, x := range samples {
		out[i] = x - polyval(coeffs, float64(i))
	}

	return out
}

// polyfit fits y = c0 + c1*x + ... + c_order*x^order with x = 0..n-1 by
// solving the normal equations with Gaussian elimination. The system is at
// most (order+1)x(order+1), so a direct solve is adequate.
func polyfit(y []float64, order int) ([]float64, bool) {
	n := order + 1

	// Power sums S_k = sum(x^k) and moment vector T_k = sum(x^k * y).
	s := make([]float64, 2*n-1)
	t := make([]float64, n)

	for i, yi := range y {
		x := float64(i)
		p := 1.0

		for k := 0; k < len(s); k++ {
			s[k] += p
			if k < n {
				t[k] += p * yi
			}

			p *= x
		}
	}

	// Build the augmented matrix [A | t] with A[r][c] = S_{r+c}.
	a := make([][]float64, n)
	for r := 0; r < n; r++ {
		a[r] = make([]float64, n+1)
		for c := 0; c < n; c++ {
			a[r][c] = s[r+c]
		}

		a[r][n] = t[r]
	}

	// Gaussian elimination with partial pivoting.
	for col := 0; col < n; col++ {
		pivot := col
		for r := col + 1; r < n; r++ {
			if math.Abs(a[r][col]) > math.Abs(a[pivot][col]) {
				pivot = r
			}
		}

		if math.Abs(a[pivot][col]) < 1e-12 {
			return nil, false
		}

		a[col], a[pivot] = a[pivot], a[col]

		for r := col + 1; r < n; r++ {
			f := a[r][col] / a[col][col]
			for c := col; c <= n; c++ {
				a[r][c] -= f * a[col][c]
			}
		}
	}

	coeffs := make([]float64, n)
	for r := n - 1; r >= 0; r-- {
		sum := a[r][n]
		for c := r + 1; c < n; c++ {
			sum -= a[r][c] * coeffs[c]
		}

		coeffs[r] = sum / a[r][r]
	}

	return coeffs, true
}

func polyval(coeffs []float64, x float64) float64 {
	y := 0.0
	for i := len(coeffs) - 1; i >= 0; i-- {
		y = y*x + coeffs[i]
	}

	return y
}
