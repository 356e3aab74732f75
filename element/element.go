package element

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/notargets/femkit/quadrature"
)

type ElementType uint8

const (
	Segment2 ElementType = iota
	Tri3
	Tri6
	Quad4
	Tet4
	Hex8
)

func (e ElementType) String() string {
	switch e {
	case Segment2:
		return "Segment2"
	case Tri3:
		return "Tri3"
	case Tri6:
		return "Tri6"
	case Quad4:
		return "Quad4"
	case Tet4:
		return "Tet4"
	case Hex8:
		return "Hex8"
	}
	return fmt.Sprintf("ElementType(%d)", uint8(e))
}

// NewElementType parses the names used in input files.
func NewElementType(label string) (et ElementType, err error) {
	switch label {
	case "Segment2", "segment", "line":
		et = Segment2
	case "Tri3", "tri", "triangle":
		et = Tri3
	case "Tri6":
		et = Tri6
	case "Quad4", "quad":
		et = Quad4
	case "Tet4", "tet":
		et = Tet4
	case "Hex8", "hex":
		et = Hex8
	default:
		err = fmt.Errorf("unknown element type %q", label)
	}
	return
}

// ReferenceElement describes the basis on a fixed reference domain:
// [-1,1]^d for segments, quadrilaterals and hexahedra, and the simplex with a
// vertex at (-1,..,-1) and unit legs of length 2 for triangles and tetrahedra.
type ReferenceElement interface {
	Type() ElementType
	Shape() quadrature.Shape
	ReferenceDim() int
	NumNodes() int
	// Nodes returns the reference coordinates of the nodes.
	Nodes() [][]float64
	Centroid() []float64
	PopulateBasis(out []float64, xi []float64)
	// PopulateGradients fills out (ReferenceDim x NumNodes) with the basis
	// gradients with respect to the reference coordinates.
	PopulateGradients(out *mat.Dense, xi []float64)
	// Project moves xi in place to the closest point of the reference domain.
	Project(xi []float64)
	Contains(xi []float64, tol float64) bool
}

func Reference(et ElementType) ReferenceElement {
	switch et {
	case Segment2:
		return segment2{}
	case Tri3:
		return tri3{}
	case Tri6:
		return tri6{}
	case Quad4:
		return quad4{}
	case Tet4:
		return tet4{}
	case Hex8:
		return hex8{}
	}
	panic(fmt.Errorf("no reference element for %v", et))
}

func checkBasisArgs(re ReferenceElement, n int, xi []float64) {
	if n != re.NumNodes() || len(xi) != re.ReferenceDim() {
		panic(fmt.Errorf("%v basis: have %d outputs and %d coordinates, want %d and %d",
			re.Type(), n, len(xi), re.NumNodes(), re.ReferenceDim()))
	}
}

func checkGradientArgs(re ReferenceElement, out *mat.Dense, xi []float64) {
	r, c := out.Dims()
	if r != re.ReferenceDim() || c != re.NumNodes() || len(xi) != re.ReferenceDim() {
		panic(fmt.Errorf("%v gradients: have %dx%d output and %d coordinates, want %dx%d and %d",
			re.Type(), r, c, len(xi), re.ReferenceDim(), re.NumNodes(), re.ReferenceDim()))
	}
}
