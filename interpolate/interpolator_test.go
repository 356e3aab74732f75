package interpolate

import (
	"math"
	"math/rand"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/femkit/element"
	"github.com/notargets/femkit/geometry"
	"github.com/notargets/femkit/mesh"
	"github.com/notargets/femkit/space"
	"github.com/notargets/femkit/utils"
)

// countingSpace counts bounding box requests, which only index builds make.
type countingSpace struct {
	space.GeometricFiniteElementSpace
	boxes atomic.Int64
}

func (cs *countingSpace) ElementBoundingBox(elementIndex int) geometry.BoundingBox {
	cs.boxes.Add(1)
	return cs.GeometricFiniteElementSpace.ElementBoundingBox(elementIndex)
}

func rectangle(t *testing.T, nx, ny int, et element.ElementType) *mesh.Mesh {
	m, err := mesh.NewRectangleMesh(nx, ny, [2]float64{0, 0}, [2]float64{2, 1}, et)
	require.NoError(t, err)
	return m
}

func randomPoints(rng *rand.Rand, n int, max []float64) (points [][]float64) {
	points = make([][]float64, n)
	for i := range points {
		points[i] = make([]float64, len(max))
		for d := range max {
			points[i][d] = rng.Float64() * max[d]
		}
	}
	return
}

// bruteForce is the closest element by scanning every element.
func bruteForce(s space.GeometricFiniteElementSpace, p []float64) (best int, bestDist float64) {
	best, bestDist = -1, math.Inf(1)
	for e := 0; e < s.NumElements(); e++ {
		if _, d := s.ClosestPointInElement(e, p); d < bestDist-utils.NODETOL {
			best, bestDist = e, d
		}
	}
	return
}

func TestNewInterpolator(t *testing.T) {
	{ // One dimensional spaces have no spatial index
		m, err := mesh.NewLineMesh(4, 0, 1)
		require.NoError(t, err)
		_, err = NewInterpolator(m)
		assert.ErrorIs(t, err, ErrUnsupportedDimension)
	}
	{
		ip, err := NewInterpolator(rectangle(t, 2, 2, element.Tri3))
		require.NoError(t, err)
		assert.Equal(t, "2D", ip.Dim().String())
		// The wrapped space shows through
		assert.Equal(t, 8, ip.NumElements())
		assert.Equal(t, 9, ip.NumNodes())
	}
}

func TestClosestElement(t *testing.T) {
	var (
		cs  = &countingSpace{GeometricFiniteElementSpace: rectangle(t, 4, 3, element.Tri3)}
		rng = rand.New(rand.NewSource(1))
	)
	ip, err := NewInterpolator(cs)
	require.NoError(t, err)
	{ // Empty batches and bad arguments do nothing, not even build the index
		require.NoError(t, ip.PopulateClosestElementAndReferenceCoords(nil, nil))
		err = ip.PopulateClosestElementAndReferenceCoords(make([][]float64, 2), make([]ClosestElement, 1))
		assert.ErrorIs(t, err, ErrLengthMismatch)
		err = ip.PopulateClosestElementAndReferenceCoords([][]float64{{1, 2, 3}}, make([]ClosestElement, 1))
		assert.ErrorIs(t, err, ErrPointDimension)
		assert.Zero(t, cs.boxes.Load())
	}
	{ // Points inside agree with a full scan
		points := randomPoints(rng, 200, []float64{2, 1})
		result := make([]ClosestElement, len(points))
		require.NoError(t, ip.PopulateClosestElementAndReferenceCoords(points, result))
		for i, p := range points {
			want, _ := bruteForce(cs, p)
			assert.Equal(t, want, result[i].Element, "point %v", p)
			assert.InDelta(t, 0, result[i].Distance, 1e-12)
			assert.InDeltaSlice(t, p, cs.MapElementReferenceCoords(result[i].Element, result[i].Xi), 1e-12)
		}
		assert.Equal(t, int64(cs.NumElements()), cs.boxes.Load())
	}
	{ // Single lookups are the batch lookup
		points := randomPoints(rng, 20, []float64{3, 2})
		result := make([]ClosestElement, len(points))
		require.NoError(t, ip.PopulateClosestElementAndReferenceCoords(points, result))
		for i, p := range points {
			ce, err := ip.FindClosestElementAndReferenceCoords(p)
			require.NoError(t, err)
			assert.Equal(t, result[i], ce)
		}
	}
	{ // Points outside get the nearest element
		ce, err := ip.FindClosestElementAndReferenceCoords([]float64{3, 2})
		require.NoError(t, err)
		assert.InDelta(t, math.Sqrt2, ce.Distance, 1e-8)
		assert.InDeltaSlice(t, []float64{2, 1}, cs.MapElementReferenceCoords(ce.Element, ce.Xi), 1e-8)

		ce, err = ip.FindClosestElementAndReferenceCoords([]float64{1.25, -0.5})
		require.NoError(t, err)
		assert.InDelta(t, 0.5, ce.Distance, 1e-8)
	}
	{ // Ties go to the lowest element index
		// (0.75, 1/6) is on the diagonal shared by elements 2 and 3
		ce, err := ip.FindClosestElementAndReferenceCoords([]float64{0.75, 1. / 6})
		require.NoError(t, err)
		assert.Equal(t, 2, ce.Element)
		// Vertex 7 at (1, 1/3) touches elements 2, 3, 5 and the row above
		ce, err = ip.FindClosestElementAndReferenceCoords([]float64{1, 1. / 3})
		require.NoError(t, err)
		assert.Equal(t, 2, ce.Element)
	}
	{ // Repeated points in one batch see every element afresh
		var (
			tie    = []float64{0.75, 1. / 6}
			points = [][]float64{tie, tie, {1, 1. / 3}, tie, {3, 2}, {3, 2}}
			result = make([]ClosestElement, len(points))
		)
		require.NoError(t, ip.PopulateClosestElementAndReferenceCoords(points, result))
		for i := 0; i < 4; i++ {
			assert.Equal(t, 2, result[i].Element, "point %d", i)
		}
		assert.Equal(t, result[0], result[1])
		assert.Equal(t, result[0], result[3])
		assert.Equal(t, result[4], result[5])
		assert.InDelta(t, math.Sqrt2, result[5].Distance, 1e-8)
	}
	assert.Equal(t, int64(cs.NumElements()), cs.boxes.Load())
}

func TestConcurrentIndexBuild(t *testing.T) {
	m, err := mesh.NewBoxMesh(3, 3, 3, [3]float64{}, [3]float64{1, 1, 1}, element.Tet4)
	require.NoError(t, err)
	cs := &countingSpace{GeometricFiniteElementSpace: m}
	ip, err := NewInterpolator(cs)
	require.NoError(t, err)
	var (
		wg      sync.WaitGroup
		workers = 16
		found   = make([]int, workers)
		errs    = make([]error, workers)
	)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			var ce ClosestElement
			ce, errs[w] = ip.FindClosestElementAndReferenceCoords([]float64{0.5, 0.4, 0.3})
			found[w] = ce.Element
		}(w)
	}
	wg.Wait()
	for w := 0; w < workers; w++ {
		require.NoError(t, errs[w])
		assert.Equal(t, found[0], found[w])
	}
	assert.Equal(t, int64(m.NumElements()), cs.boxes.Load())
	ip.BuildIndex()
	assert.Equal(t, int64(m.NumElements()), cs.boxes.Load())
}

func TestInterpolate(t *testing.T) {
	var (
		rng    = rand.New(rand.NewSource(3))
		linear = func(x []float64) float64 {
			val := 1.
			for d, xd := range x {
				val += float64(d+2) * xd
			}
			return val
		}
	)
	box, err := mesh.NewBoxMesh(2, 2, 2, [3]float64{}, [3]float64{1, 1, 1}, element.Tet4)
	require.NoError(t, err)
	hexes, err := mesh.NewBoxMesh(2, 1, 2, [3]float64{}, [3]float64{1, 1, 1}, element.Hex8)
	require.NoError(t, err)
	quadratic, err := rectangle(t, 3, 2, element.Tri3).ToQuadratic()
	require.NoError(t, err)
	for _, m := range []*mesh.Mesh{
		rectangle(t, 3, 2, element.Tri3), rectangle(t, 3, 2, element.Quad4), quadratic, box, hexes,
	} {
		var (
			gd     = m.GeometryDim()
			u      = make([]float64, 2*m.NumVertices)
			points = randomPoints(rng, 50, m.BoundingBox().XMax)
		)
		// Second component is the first doubled
		for n, x := range m.Vertices {
			u[2*n], u[2*n+1] = linear(x), 2*linear(x)
		}
		ip, err := NewInterpolator(m)
		require.NoError(t, err)
		vals, err := ip.Interpolate(points, u, 2)
		require.NoError(t, err)
		grads, err := ip.InterpolateGradients(points, u, 2)
		require.NoError(t, err)
		for i, p := range points {
			assert.InDelta(t, linear(p), vals[2*i], 1e-12)
			assert.InDelta(t, 2*linear(p), vals[2*i+1], 1e-12)
			for d := 0; d < gd; d++ {
				assert.InDelta(t, float64(d+2), grads[i].At(0, d), 1e-11)
				assert.InDelta(t, float64(2*(d+2)), grads[i].At(1, d), 1e-11)
			}
		}
		_, err = ip.Interpolate(points, u[:3], 2)
		assert.ErrorIs(t, err, ErrLengthMismatch)
	}
}

func TestEmptySpace(t *testing.T) {
	m, err := mesh.NewMesh([][]float64{{0, 0}, {1, 0}}, nil, nil)
	require.NoError(t, err)
	ip, err := NewInterpolator(m)
	require.NoError(t, err)
	_, err = ip.FindClosestElementAndReferenceCoords([]float64{0, 0})
	assert.ErrorIs(t, err, ErrEmptySpace)
}
