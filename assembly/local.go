package assembly

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/notargets/femkit/space"
)

// elementSpace carries what every local assembler over a finite element space
// needs: the space, its quadrature and the number of unknowns per node.
type elementSpace struct {
	Space       space.FiniteElementSpace
	Quadrature  QuadratureTable
	solutionDim int
}

func (es elementSpace) SolutionDim() int { return es.solutionDim }
func (es elementSpace) NumElements() int { return es.Space.NumElements() }
func (es elementSpace) NumNodes() int    { return es.Space.NumNodes() }

func (es elementSpace) ElementNodeCount(elementIndex int) int {
	return es.Space.ElementNodeCount(elementIndex)
}

func (es elementSpace) PopulateElementNodes(out []int, elementIndex int) {
	es.Space.PopulateElementNodes(out, elementIndex)
}

// quadraturePoint holds the basis at one quadrature point of an element.
type quadraturePoint struct {
	X    []float64  // physical location
	Phi  []float64  // basis values
	Grad *mat.Dense // physical basis gradients, GeometryDim x nodes
	DV   float64    // weight times jacobian determinant
}

// elementQuadrature evaluates the basis at every quadrature point of an
// element. Gradients are mapped to physical coordinates with J^-T.
func (es elementSpace) elementQuadrature(elementIndex int, withGradients bool) (qps []quadraturePoint, err error) {
	var (
		s    = es.Space
		gd   = s.GeometryDim()
		rd   = s.ReferenceDim()
		nn   = s.ElementNodeCount(elementIndex)
		rule = es.Quadrature.ElementQuadrature(elementIndex)
	)
	if gd != rd {
		err = fmt.Errorf("%w: geometry %d, reference %d", ErrDimensionMismatch, gd, rd)
		return
	}
	refGrad := mat.NewDense(rd, nn, nil)
	qps = make([]quadraturePoint, rule.Len())
	for q, xi := range rule.Points {
		J := s.ElementReferenceJacobian(elementIndex, xi)
		detJ := mat.Det(J)
		if !(detJ > 0) {
			err = fmt.Errorf("%w: det J = %g at quadrature point %d", ErrNonPositiveJacobian, detJ, q)
			return
		}
		qp := quadraturePoint{
			X:   s.MapElementReferenceCoords(elementIndex, xi),
			Phi: make([]float64, nn),
			DV:  rule.Weights[q] * detJ,
		}
		s.PopulateElementBasis(elementIndex, qp.Phi, xi)
		if withGradients {
			s.PopulateElementGradients(elementIndex, refGrad, xi)
			// J^T G = dphi/dxi
			qp.Grad = mat.NewDense(gd, nn, nil)
			if err = qp.Grad.Solve(J.T(), refGrad); err != nil {
				err = fmt.Errorf("%w: %v", ErrNonPositiveJacobian, err)
				return
			}
		}
		qps[q] = qp
	}
	return
}

// interpolateGradient forms du/dX = sum_I u_I (x) grad phi_I, solutionDim x GeometryDim.
func interpolateGradient(u []float64, nodes []int, sd int, grad *mat.Dense) (duDX *mat.Dense) {
	gd, _ := grad.Dims()
	duDX = mat.NewDense(sd, gd, nil)
	if u == nil {
		return
	}
	for I, node := range nodes {
		for i := 0; i < sd; i++ {
			ui := u[node*sd+i]
			if ui == 0 {
				continue
			}
			for k := 0; k < gd; k++ {
				duDX.Set(i, k, duDX.At(i, k)+ui*grad.At(k, I))
			}
		}
	}
	return
}

func column(A *mat.Dense, j int) []float64 {
	return mat.Col(nil, j, A)
}
