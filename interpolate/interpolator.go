// Package interpolate locates points in a finite element space and evaluates
// nodal fields there. Element bounding boxes are held in an R-tree that is
// built on first use and shared by every later query.
package interpolate

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/dhconnelly/rtreego"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/femkit/geometry"
	"github.com/notargets/femkit/space"
	"github.com/notargets/femkit/types"
	"github.com/notargets/femkit/utils"
)

var (
	ErrUnsupportedDimension = errors.New("interpolate: spatial lookup needs geometry dimension 2 or 3")
	ErrLengthMismatch       = errors.New("interpolate: input and output lengths differ")
	ErrPointDimension       = errors.New("interpolate: point dimension differs from the geometry dimension")
	ErrEmptySpace           = errors.New("interpolate: space has no elements")
)

const (
	initialNeighbors = 8
	treeMinChildren  = 25
	treeMaxChildren  = 50
)

// ClosestElement is the result of a point lookup: the element closest to the
// point, the reference coordinates of the closest point of that element and
// the distance between the two.
type ClosestElement struct {
	Element  int
	Xi       []float64
	Distance float64
}

type boxEntry struct {
	rect    rtreego.Rect
	element int
}

func (be *boxEntry) Bounds() rtreego.Rect { return be.rect }

type spatialIndex struct {
	tree  *rtreego.Rtree
	boxes []geometry.BoundingBox
}

// Interpolator answers closest element queries over a space and otherwise
// behaves as the space itself. The space must not change once wrapped; the
// index reflects the geometry at the time of the first query.
type Interpolator struct {
	space.GeometricFiniteElementSpace
	dim   types.Dim
	once  sync.Once
	index spatialIndex
}

func NewInterpolator(s space.GeometricFiniteElementSpace) (ip *Interpolator, err error) {
	dim, err := types.NewDim(s.GeometryDim())
	if err != nil || dim == types.D1 {
		err = fmt.Errorf("%w: have %d", ErrUnsupportedDimension, s.GeometryDim())
		return
	}
	ip = &Interpolator{
		GeometricFiniteElementSpace: s,
		dim:                         dim,
	}
	return
}

func (ip *Interpolator) Dim() types.Dim { return ip.dim }

// BuildIndex builds the element index if no query has done so yet.
func (ip *Interpolator) BuildIndex() {
	ip.once.Do(ip.buildIndex)
}

func (ip *Interpolator) buildIndex() {
	var (
		ne      = ip.NumElements()
		entries = make([]rtreego.Spatial, ne)
	)
	ip.index.boxes = make([]geometry.BoundingBox, ne)
	for e := 0; e < ne; e++ {
		bb := ip.ElementBoundingBox(e)
		rect, err := rtreego.NewRectFromPoints(bb.XMin, bb.XMax)
		if err != nil {
			panic(fmt.Errorf("element %d bounding box: %w", e, err))
		}
		ip.index.boxes[e] = bb
		entries[e] = &boxEntry{rect: rect, element: e}
	}
	ip.index.tree = rtreego.NewTree(ip.dim.Int(), treeMinChildren, treeMaxChildren, entries...)
}

// PopulateClosestElementAndReferenceCoords locates every point. Points
// outside the space get the element closest to them. Equally close elements
// resolve to the lowest element index. An empty batch does nothing.
func (ip *Interpolator) PopulateClosestElementAndReferenceCoords(points [][]float64, result []ClosestElement) (err error) {
	if len(points) != len(result) {
		err = fmt.Errorf("%w: %d points, %d results", ErrLengthMismatch, len(points), len(result))
		return
	}
	if len(points) == 0 {
		return
	}
	for i, p := range points {
		if len(p) != ip.dim.Int() {
			err = fmt.Errorf("%w: point %d has dimension %d, want %d", ErrPointDimension, i, len(p), ip.dim.Int())
			return
		}
	}
	if ip.NumElements() == 0 {
		return ErrEmptySpace
	}
	ip.BuildIndex()
	seen := make([]int, ip.NumElements())
	for i, p := range points {
		result[i] = ip.closest(p, i+1, seen)
	}
	return
}

// FindClosestElementAndReferenceCoords is the batch lookup of a single point.
func (ip *Interpolator) FindClosestElementAndReferenceCoords(p []float64) (ce ClosestElement, err error) {
	result := make([]ClosestElement, 1)
	if err = ip.PopulateClosestElementAndReferenceCoords([][]float64{p}, result); err != nil {
		return
	}
	ce = result[0]
	return
}

// closest widens a k nearest box search until the k-th box is farther than
// the best element found, so no unexamined element can be closer or tie.
// seen[e] == stamp marks elements already examined for this point.
func (ip *Interpolator) closest(p []float64, stamp int, seen []int) (best ClosestElement) {
	var (
		ne = ip.NumElements()
		k  = min(initialNeighbors, ne)
	)
	best = ClosestElement{Element: -1, Distance: math.Inf(1)}
	for {
		neighbors := ip.index.tree.NearestNeighbors(k, rtreego.Point(p))
		for _, s := range neighbors {
			e := s.(*boxEntry).element
			if seen[e] == stamp {
				continue
			}
			seen[e] = stamp
			xi, dist := ip.ClosestPointInElement(e, p)
			switch {
			case dist < best.Distance-utils.NODETOL:
			case dist <= best.Distance+utils.NODETOL && e < best.Element:
			default:
				continue
			}
			best = ClosestElement{Element: e, Xi: xi, Distance: dist}
		}
		if k >= ne || len(neighbors) == 0 {
			return
		}
		last := neighbors[len(neighbors)-1].(*boxEntry).element
		if ip.index.boxes[last].Distance(p) > best.Distance+utils.NODETOL {
			return
		}
		k = min(2*k, ne)
	}
}

// Interpolate evaluates the nodal field u, solutionDim values per node, at
// every point. The result holds solutionDim values per point.
func (ip *Interpolator) Interpolate(points [][]float64, u []float64, solutionDim int) (vals []float64, err error) {
	located, err := ip.locateForField(points, u, solutionDim)
	if err != nil {
		return
	}
	vals = make([]float64, len(points)*solutionDim)
	for i, ce := range located {
		nodes, phi := ip.elementBasis(ce)
		for I, node := range nodes {
			for d := 0; d < solutionDim; d++ {
				vals[i*solutionDim+d] += phi[I] * u[node*solutionDim+d]
			}
		}
	}
	return
}

// InterpolateGradients evaluates du/dx, solutionDim x GeometryDim, at every
// point. The space must have equal geometry and reference dimensions.
func (ip *Interpolator) InterpolateGradients(points [][]float64, u []float64, solutionDim int) (grads []*mat.Dense, err error) {
	if ip.ReferenceDim() != ip.dim.Int() {
		err = fmt.Errorf("%w: gradients need reference dimension %d, have %d",
			ErrUnsupportedDimension, ip.dim.Int(), ip.ReferenceDim())
		return
	}
	located, err := ip.locateForField(points, u, solutionDim)
	if err != nil {
		return
	}
	var (
		gd = ip.dim.Int()
	)
	grads = make([]*mat.Dense, len(points))
	for i, ce := range located {
		var (
			nodes   = make([]int, ip.ElementNodeCount(ce.Element))
			refGrad = mat.NewDense(gd, len(nodes), nil)
			grad    = mat.NewDense(gd, len(nodes), nil)
		)
		ip.PopulateElementNodes(nodes, ce.Element)
		ip.PopulateElementGradients(ce.Element, refGrad, ce.Xi)
		J := ip.ElementReferenceJacobian(ce.Element, ce.Xi)
		if err = grad.Solve(J.T(), refGrad); err != nil {
			err = fmt.Errorf("element %d: %w", ce.Element, err)
			return
		}
		g := mat.NewDense(solutionDim, gd, nil)
		for I, node := range nodes {
			for d := 0; d < solutionDim; d++ {
				for k := 0; k < gd; k++ {
					g.Set(d, k, g.At(d, k)+u[node*solutionDim+d]*grad.At(k, I))
				}
			}
		}
		grads[i] = g
	}
	return
}

func (ip *Interpolator) locateForField(points [][]float64, u []float64, solutionDim int) (located []ClosestElement, err error) {
	if want := ip.NumNodes() * solutionDim; len(u) != want {
		err = fmt.Errorf("%w: field has %d values, want %d", ErrLengthMismatch, len(u), want)
		return
	}
	located = make([]ClosestElement, len(points))
	err = ip.PopulateClosestElementAndReferenceCoords(points, located)
	return
}

func (ip *Interpolator) elementBasis(ce ClosestElement) (nodes []int, phi []float64) {
	n := ip.ElementNodeCount(ce.Element)
	nodes, phi = make([]int, n), make([]float64, n)
	ip.PopulateElementNodes(nodes, ce.Element)
	ip.PopulateElementBasis(ce.Element, phi, ce.Xi)
	return
}
