package utils

type Index []int

func NewIndex(N int) (I Index) {
	return make(Index, N)
}

func (I Index) ApplyInPlace(f func(val int) int) Index {
	for i, val := range I {
		I[i] = f(val)
	}
	return I
}

// Expand turns node indices into degree of freedom indices, solutionDim
// consecutive entries per node.
func (I Index) Expand(solutionDim int) (r Index) {
	r = make(Index, len(I)*solutionDim)
	for i, node := range I {
		for d := 0; d < solutionDim; d++ {
			r[i*solutionDim+d] = node*solutionDim + d
		}
	}
	return
}
