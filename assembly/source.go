package assembly

import (
	"github.com/notargets/femkit/space"
)

// SourceFunc fills out (length SolutionDim) with the source density at x.
type SourceFunc func(x []float64, out []float64)

// ElementSourceAssembler assembles f_Ii = int phi_I s_i(x) dV.
type ElementSourceAssembler struct {
	elementSpace
	Source SourceFunc
}

func NewElementSourceAssembler(s space.FiniteElementSpace, qt QuadratureTable, solutionDim int, source SourceFunc) *ElementSourceAssembler {
	return &ElementSourceAssembler{
		elementSpace: elementSpace{s, qt, solutionDim},
		Source:       source,
	}
}

func (sa *ElementSourceAssembler) AssembleElementVectorInto(elementIndex int, out []float64) (err error) {
	if err = checkVectorOutput(sa, elementIndex, out); err != nil {
		return
	}
	qps, err := sa.elementQuadrature(elementIndex, false)
	if err != nil {
		return newElementError(elementIndex, OpAssembleVector, err)
	}
	for i := range out {
		out[i] = 0
	}
	var (
		sd  = sa.solutionDim
		val = make([]float64, sd)
	)
	for _, qp := range qps {
		sa.Source(qp.X, val)
		for I, phi := range qp.Phi {
			for i := 0; i < sd; i++ {
				out[I*sd+i] += phi * val[i] * qp.DV
			}
		}
	}
	return
}
