package assembly

import (
	"errors"

	"gonum.org/v1/gonum/mat"

	"github.com/notargets/femkit/space"
)

// ElementMassAssembler assembles rho * phi_I * phi_J for each of the
// solutionDim components. As a vector assembler it yields the row sums, the
// lumped mass.
type ElementMassAssembler struct {
	elementSpace
	Density float64
}

func NewElementMassAssembler(s space.FiniteElementSpace, qt QuadratureTable, solutionDim int, density float64) *ElementMassAssembler {
	return &ElementMassAssembler{
		elementSpace: elementSpace{s, qt, solutionDim},
		Density:      density,
	}
}

func (ma *ElementMassAssembler) AssembleElementMatrixInto(elementIndex int, out *mat.Dense) (err error) {
	if err = checkMatrixOutput(ma, elementIndex, out); err != nil {
		return
	}
	qps, err := ma.elementQuadrature(elementIndex, false)
	if err != nil {
		return newElementError(elementIndex, OpAssembleMatrix, err)
	}
	out.Zero()
	sd := ma.solutionDim
	for _, qp := range qps {
		for I, phiI := range qp.Phi {
			for J, phiJ := range qp.Phi {
				m := ma.Density * phiI * phiJ * qp.DV
				for i := 0; i < sd; i++ {
					r, c := I*sd+i, J*sd+i
					out.Set(r, c, out.At(r, c)+m)
				}
			}
		}
	}
	return
}

func (ma *ElementMassAssembler) AssembleElementVectorInto(elementIndex int, out []float64) (err error) {
	if err = checkVectorOutput(ma, elementIndex, out); err != nil {
		return
	}
	n := len(out)
	M := mat.NewDense(n, n, nil)
	if err = ma.AssembleElementMatrixInto(elementIndex, M); err != nil {
		var ee *ElementError
		if errors.As(err, &ee) {
			ee.Operation = OpAssembleVector
		}
		return
	}
	for i := range out {
		out[i] = 0
		for j := 0; j < n; j++ {
			out[i] += M.At(i, j)
		}
	}
	return
}

// AssembleElementScalar is the element mass, rho times the element measure.
func (ma *ElementMassAssembler) AssembleElementScalar(elementIndex int) (mass float64, err error) {
	if err = checkElementIndex(ma, elementIndex, OpAssembleScalar); err != nil {
		return
	}
	qps, err := ma.elementQuadrature(elementIndex, false)
	if err != nil {
		return 0, newElementError(elementIndex, OpAssembleScalar, err)
	}
	for _, qp := range qps {
		mass += ma.Density * qp.DV
	}
	return
}
