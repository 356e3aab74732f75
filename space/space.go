// Package space declares what assembly and interpolation need from a finite
// element space: connectivity, per element basis evaluation and geometry.
package space

import (
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/femkit/element"
	"github.com/notargets/femkit/geometry"
)

type Connectivity interface {
	NumElements() int
	NumNodes() int
	ElementNodeCount(elementIndex int) int
	// PopulateElementNodes panics when len(out) != ElementNodeCount(elementIndex).
	PopulateElementNodes(out []int, elementIndex int)
}

type FiniteElementSpace interface {
	Connectivity
	GeometryDim() int
	ReferenceDim() int
	ElementType(elementIndex int) element.ElementType
	PopulateElementBasis(elementIndex int, out []float64, xi []float64)
	// PopulateElementGradients fills out (ReferenceDim x nodes) with gradients
	// with respect to the reference coordinates.
	PopulateElementGradients(elementIndex int, out *mat.Dense, xi []float64)
	// ElementReferenceJacobian is GeometryDim x ReferenceDim.
	ElementReferenceJacobian(elementIndex int, xi []float64) *mat.Dense
	MapElementReferenceCoords(elementIndex int, xi []float64) []float64
	Diameter(elementIndex int) float64
}

// GeometricFiniteElementSpace adds the bounding geometry and closest point
// queries used by spatial lookup.
type GeometricFiniteElementSpace interface {
	FiniteElementSpace
	ElementBoundingBox(elementIndex int) geometry.BoundingBox
	// ClosestPointInElement returns the reference coordinates of the point of
	// the element closest to p and its distance to p.
	ClosestPointInElement(elementIndex int, p []float64) (xi []float64, dist float64)
}
