package assembly

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/notargets/femkit/solid"
	"github.com/notargets/femkit/space"
)

// EllipticOperator is the pointwise part of an operator with energy
// psi(du/dX), flux d psi / d(du/dX) and its second derivative contracted
// with two gradient vectors. du/dX is SolutionDim x GeometryDim.
type EllipticOperator interface {
	SolutionDim() int
	Energy(duDX *mat.Dense) (float64, error)
	Flux(duDX *mat.Dense) (*mat.Dense, error)
	// Contract returns the SolutionDim x SolutionDim block
	// C_ij = d^2 psi / d(duDX)_ik d(duDX)_jl a_k b_l.
	Contract(duDX *mat.Dense, a, b []float64) (*mat.Dense, error)
}

// LaplaceOperator is psi = k/2 |grad u|^2 for a scalar field.
type LaplaceOperator struct {
	Conductivity float64
}

func (LaplaceOperator) SolutionDim() int { return 1 }

func (lo LaplaceOperator) Energy(duDX *mat.Dense) (float64, error) {
	n := mat.Norm(duDX, 2)
	return 0.5 * lo.Conductivity * n * n, nil
}

func (lo LaplaceOperator) Flux(duDX *mat.Dense) (*mat.Dense, error) {
	q := mat.DenseCopyOf(duDX)
	q.Scale(lo.Conductivity, q)
	return q, nil
}

func (lo LaplaceOperator) Contract(_ *mat.Dense, a, b []float64) (*mat.Dense, error) {
	var ab float64
	for k := range a {
		ab += a[k] * b[k]
	}
	return mat.NewDense(1, 1, []float64{lo.Conductivity * ab}), nil
}

// HyperelasticOperator treats the field as a displacement, F = I + du/dX.
type HyperelasticOperator struct {
	Material   solid.HyperelasticMaterial
	Parameters solid.LameParameters
	Dim        int
}

func (ho HyperelasticOperator) SolutionDim() int { return ho.Dim }

func (ho HyperelasticOperator) deformationGradient(duDX *mat.Dense) (F *mat.Dense, err error) {
	r, c := duDX.Dims()
	if r != ho.Dim || c != ho.Dim {
		err = fmt.Errorf("%w: displacement gradient is %dx%d in dimension %d",
			ErrDimensionMismatch, r, c, ho.Dim)
		return
	}
	F = mat.DenseCopyOf(duDX)
	for i := 0; i < ho.Dim; i++ {
		F.Set(i, i, F.At(i, i)+1)
	}
	return
}

func (ho HyperelasticOperator) Energy(duDX *mat.Dense) (psi float64, err error) {
	F, err := ho.deformationGradient(duDX)
	if err != nil {
		return
	}
	return ho.Material.EnergyDensity(F, ho.Parameters)
}

func (ho HyperelasticOperator) Flux(duDX *mat.Dense) (P *mat.Dense, err error) {
	F, err := ho.deformationGradient(duDX)
	if err != nil {
		return
	}
	return ho.Material.StressTensor(F, ho.Parameters)
}

func (ho HyperelasticOperator) Contract(duDX *mat.Dense, a, b []float64) (C *mat.Dense, err error) {
	F, err := ho.deformationGradient(duDX)
	if err != nil {
		return
	}
	return ho.Material.StressContraction(F, a, b, ho.Parameters)
}

// ElementEllipticAssembler assembles the stiffness matrix, residual vector
// and energy of an EllipticOperator at the nodal state U. A nil U is the zero
// state.
type ElementEllipticAssembler struct {
	elementSpace
	Operator EllipticOperator
	U        []float64
}

func NewElementEllipticAssembler(s space.FiniteElementSpace, qt QuadratureTable, op EllipticOperator, u []float64) (ea *ElementEllipticAssembler, err error) {
	sd := op.SolutionDim()
	if u != nil && len(u) != s.NumNodes()*sd {
		err = fmt.Errorf("%w: state has %d entries, want %d", ErrOutputSizeMismatch, len(u), s.NumNodes()*sd)
		return
	}
	ea = &ElementEllipticAssembler{
		elementSpace: elementSpace{s, qt, sd},
		Operator:     op,
		U:            u,
	}
	return
}

func (ea *ElementEllipticAssembler) prepare(elementIndex int) (qps []quadraturePoint, nodes []int, err error) {
	if qps, err = ea.elementQuadrature(elementIndex, true); err != nil {
		return
	}
	nodes = make([]int, ea.ElementNodeCount(elementIndex))
	ea.PopulateElementNodes(nodes, elementIndex)
	return
}

func (ea *ElementEllipticAssembler) AssembleElementMatrixInto(elementIndex int, out *mat.Dense) (err error) {
	if err = checkMatrixOutput(ea, elementIndex, out); err != nil {
		return
	}
	qps, nodes, err := ea.prepare(elementIndex)
	if err != nil {
		return newElementError(elementIndex, OpAssembleMatrix, err)
	}
	out.Zero()
	sd := ea.solutionDim
	for _, qp := range qps {
		duDX := interpolateGradient(ea.U, nodes, sd, qp.Grad)
		for I := range nodes {
			gI := column(qp.Grad, I)
			for J := range nodes {
				C, cErr := ea.Operator.Contract(duDX, gI, column(qp.Grad, J))
				if cErr != nil {
					return newElementError(elementIndex, OpAssembleMatrix, cErr)
				}
				for i := 0; i < sd; i++ {
					for j := 0; j < sd; j++ {
						r, c := I*sd+i, J*sd+j
						out.Set(r, c, out.At(r, c)+C.At(i, j)*qp.DV)
					}
				}
			}
		}
	}
	return
}

// AssembleElementVectorInto computes the internal force f_Ii = int P_ik dphi_I/dX_k.
func (ea *ElementEllipticAssembler) AssembleElementVectorInto(elementIndex int, out []float64) (err error) {
	if err = checkVectorOutput(ea, elementIndex, out); err != nil {
		return
	}
	qps, nodes, err := ea.prepare(elementIndex)
	if err != nil {
		return newElementError(elementIndex, OpAssembleVector, err)
	}
	for i := range out {
		out[i] = 0
	}
	sd := ea.solutionDim
	for _, qp := range qps {
		duDX := interpolateGradient(ea.U, nodes, sd, qp.Grad)
		P, fErr := ea.Operator.Flux(duDX)
		if fErr != nil {
			return newElementError(elementIndex, OpAssembleVector, fErr)
		}
		gd, _ := qp.Grad.Dims()
		for I := range nodes {
			for i := 0; i < sd; i++ {
				var sum float64
				for k := 0; k < gd; k++ {
					sum += P.At(i, k) * qp.Grad.At(k, I)
				}
				out[I*sd+i] += sum * qp.DV
			}
		}
	}
	return
}

func (ea *ElementEllipticAssembler) AssembleElementScalar(elementIndex int) (energy float64, err error) {
	if err = checkElementIndex(ea, elementIndex, OpAssembleScalar); err != nil {
		return
	}
	qps, nodes, err := ea.prepare(elementIndex)
	if err != nil {
		return 0, newElementError(elementIndex, OpAssembleScalar, err)
	}
	for _, qp := range qps {
		psi, eErr := ea.Operator.Energy(interpolateGradient(ea.U, nodes, ea.solutionDim, qp.Grad))
		if eErr != nil {
			return 0, newElementError(elementIndex, OpAssembleScalar, eErr)
		}
		energy += psi * qp.DV
	}
	return
}
