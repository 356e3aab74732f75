package element

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/notargets/femkit/geometry"
	"github.com/notargets/femkit/utils"
)

var (
	ErrSingularJacobian = errors.New("element: singular reference jacobian")
	ErrNoConvergence    = errors.New("element: inverse map did not converge")
)

const (
	maxNewtonIterations   = 50
	maxGradientIterations = 1000
	inverseTol            = 1.e-13
)

// FixedElement is a reference element placed in space by its node coordinates.
type FixedElement struct {
	Ref ReferenceElement
	X   [][]float64 // Node coordinates [NumNodes][GeometryDim]
	dim int
}

func NewFixedElement(et ElementType, coords [][]float64) (fe *FixedElement, err error) {
	var (
		ref = Reference(et)
	)
	if len(coords) != ref.NumNodes() {
		err = fmt.Errorf("%v needs %d nodes, have %d", et, ref.NumNodes(), len(coords))
		return
	}
	dim := len(coords[0])
	if dim < ref.ReferenceDim() {
		err = fmt.Errorf("%v cannot be placed in %d dimensions", et, dim)
		return
	}
	for _, x := range coords {
		if len(x) != dim {
			err = fmt.Errorf("%v node coordinates have mixed dimensions", et)
			return
		}
	}
	fe = &FixedElement{Ref: ref, X: coords, dim: dim}
	return
}

func (fe *FixedElement) GeometryDim() int  { return fe.dim }
func (fe *FixedElement) Type() ElementType { return fe.Ref.Type() }

func (fe *FixedElement) MapReferenceCoords(xi []float64) (x []float64) {
	var (
		phi = make([]float64, fe.Ref.NumNodes())
	)
	fe.Ref.PopulateBasis(phi, xi)
	x = make([]float64, fe.dim)
	for n, p := range phi {
		for d := range x {
			x[d] += p * fe.X[n][d]
		}
	}
	return
}

// ReferenceJacobian is dx/dxi, GeometryDim x ReferenceDim.
func (fe *FixedElement) ReferenceJacobian(xi []float64) (J *mat.Dense) {
	var (
		R    = fe.Ref.ReferenceDim()
		grad = mat.NewDense(R, fe.Ref.NumNodes(), nil)
	)
	fe.Ref.PopulateGradients(grad, xi)
	J = mat.NewDense(fe.dim, R, nil)
	for n := range fe.X {
		for i := 0; i < fe.dim; i++ {
			for j := 0; j < R; j++ {
				J.Set(i, j, J.At(i, j)+fe.X[n][i]*grad.At(j, n))
			}
		}
	}
	return
}

// BoundingBox of the nodes. Elements here have straight edges, so the node
// box bounds the element.
func (fe *FixedElement) BoundingBox() geometry.BoundingBox {
	return geometry.NewBoundingBox(fe.X)
}

// Diameter is the largest distance between two nodes.
func (fe *FixedElement) Diameter() (diam float64) {
	for i := range fe.X {
		for j := i + 1; j < len(fe.X); j++ {
			diam = math.Max(diam, utils.Distance(fe.X[i], fe.X[j]))
		}
	}
	return
}

// ClosestPoint finds the reference coordinates of the point of the element
// closest to p, together with the distance. A projected Gauss-Newton solve
// handles points inside the element; projected gradient steps then slide
// along the boundary for points outside it.
func (fe *FixedElement) ClosestPoint(p []float64) (xi []float64, dist float64) {
	var (
		R     = fe.Ref.ReferenceDim()
		JTJ   = mat.NewDense(R, R, nil)
		rhs   = mat.NewVecDense(R, nil)
		delta = mat.NewVecDense(R, nil)
		resid = mat.NewVecDense(fe.dim, nil)
	)
	if len(p) != fe.dim {
		panic(fmt.Errorf("point dimension %d does not match element dimension %d", len(p), fe.dim))
	}
	xi = fe.Ref.Centroid()
	setResidual := func(xi []float64) {
		x := fe.MapReferenceCoords(xi)
		for i := range x {
			resid.SetVec(i, p[i]-x[i])
		}
	}
	for iter := 0; iter < maxNewtonIterations; iter++ {
		setResidual(xi)
		J := fe.ReferenceJacobian(xi)
		JTJ.Mul(J.T(), J)
		rhs.MulVec(J.T(), resid)
		if err := delta.SolveVec(JTJ, rhs); err != nil {
			break
		}
		next := make([]float64, R)
		for i := range next {
			next[i] = xi[i] + delta.AtVec(i)
		}
		fe.Ref.Project(next)
		step := utils.Distance(next, xi)
		xi = next
		if step < inverseTol {
			break
		}
	}
	for iter := 0; iter < maxGradientIterations; iter++ {
		setResidual(xi)
		J := fe.ReferenceJacobian(xi)
		JTJ.Mul(J.T(), J)
		rhs.MulVec(J.T(), resid)
		L := mat.Norm(JTJ, 2)
		if L == 0 {
			break
		}
		next := make([]float64, R)
		for i := range next {
			next[i] = xi[i] + rhs.AtVec(i)/L
		}
		fe.Ref.Project(next)
		step := utils.Distance(next, xi)
		xi = next
		if step < inverseTol {
			break
		}
	}
	dist = utils.Distance(fe.MapReferenceCoords(xi), p)
	return
}

// MapPhysicalToReference inverts the element map with Newton's method. It
// needs a square Jacobian and does not restrict the result to the reference
// domain.
func (fe *FixedElement) MapPhysicalToReference(p []float64) (xi []float64, err error) {
	var (
		R     = fe.Ref.ReferenceDim()
		delta = mat.NewVecDense(R, nil)
		resid = mat.NewVecDense(fe.dim, nil)
	)
	if R != fe.dim {
		err = fmt.Errorf("inverse map needs matching dimensions, have reference %d and geometry %d", R, fe.dim)
		return
	}
	xi = fe.Ref.Centroid()
	for iter := 0; iter < maxNewtonIterations; iter++ {
		x := fe.MapReferenceCoords(xi)
		for i := range x {
			resid.SetVec(i, p[i]-x[i])
		}
		if err = delta.SolveVec(fe.ReferenceJacobian(xi), resid); err != nil {
			err = fmt.Errorf("%w at %v: %v", ErrSingularJacobian, xi, err)
			return
		}
		for i := range xi {
			xi[i] += delta.AtVec(i)
		}
		if mat.Norm(delta, 2) < inverseTol*(1+mat.Norm(mat.NewVecDense(R, xi), 2)) {
			return
		}
	}
	err = fmt.Errorf("%w after %d iterations", ErrNoConvergence, maxNewtonIterations)
	return
}
