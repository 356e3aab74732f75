package element

import (
	"sort"
)

// projectSimplex replaces xi by its Euclidean projection onto the reference
// simplex {xi_i >= -1, sum (xi_i+1)/2 <= 1}. The problem is solved in the
// scaled coordinates mu = (xi+1)/2, which preserves closest points.
func projectSimplex(xi []float64) {
	var (
		mu  = make([]float64, len(xi))
		sum float64
	)
	for i, v := range xi {
		mu[i] = 0.5 * (v + 1)
		if mu[i] > 0 {
			sum += mu[i]
		}
	}
	if sum <= 1 {
		for i := range xi {
			if mu[i] < 0 {
				xi[i] = -1
			}
		}
		return
	}
	projectProbabilitySimplex(mu)
	for i := range xi {
		xi[i] = 2*mu[i] - 1
	}
}

// projectProbabilitySimplex projects v in place onto {v >= 0, sum v = 1}.
func projectProbabilitySimplex(v []float64) {
	var (
		u     = append([]float64(nil), v...)
		cum   float64
		theta float64
	)
	sort.Sort(sort.Reverse(sort.Float64Slice(u)))
	for j, uj := range u {
		cum += uj
		t := (cum - 1) / float64(j+1)
		if uj-t > 0 {
			theta = t
		}
	}
	for i := range v {
		v[i] -= theta
		if v[i] < 0 {
			v[i] = 0
		}
	}
}
