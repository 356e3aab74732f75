package assembly

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// tagged is a table driven assembler: element e of an assembler with tag t
// has scalar value 100*t+e and local matrix/vector entries equal to that value.
type tagged struct {
	sd, numNodes int
	elements     [][]int
	tag          int
	failAt       int
	value        float64 // when set, replaces every scalar
}

func newTagged(tag, numElements, numNodes int) *tagged {
	tg := &tagged{sd: 1, numNodes: numNodes, tag: tag, failAt: -1}
	for e := 0; e < numElements; e++ {
		tg.elements = append(tg.elements, []int{e % numNodes, (e + 1) % numNodes})
	}
	return tg
}

var errTagged = errors.New("tagged failure")

func (tg *tagged) SolutionDim() int                      { return tg.sd }
func (tg *tagged) NumElements() int                      { return len(tg.elements) }
func (tg *tagged) NumNodes() int                         { return tg.numNodes }
func (tg *tagged) ElementNodeCount(elementIndex int) int { return len(tg.elements[elementIndex]) }

func (tg *tagged) PopulateElementNodes(out []int, elementIndex int) {
	copy(out, tg.elements[elementIndex])
}

func (tg *tagged) val(e int) float64 {
	if tg.value != 0 {
		return tg.value
	}
	return float64(100*tg.tag + e)
}

func (tg *tagged) AssembleElementScalar(elementIndex int) (float64, error) {
	if elementIndex == tg.failAt {
		return 0, newElementError(elementIndex, OpAssembleScalar, errTagged)
	}
	return tg.val(elementIndex), nil
}

func (tg *tagged) AssembleElementVectorInto(elementIndex int, out []float64) error {
	if elementIndex == tg.failAt {
		return newElementError(elementIndex, OpAssembleVector, errTagged)
	}
	for i := range out {
		out[i] = tg.val(elementIndex)
	}
	return nil
}

func (tg *tagged) AssembleElementMatrixInto(elementIndex int, out *mat.Dense) error {
	if elementIndex == tg.failAt {
		return newElementError(elementIndex, OpAssembleMatrix, errTagged)
	}
	r, c := out.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out.Set(i, j, tg.val(elementIndex))
		}
	}
	return nil
}

// connectivityOnly assembles nothing.
type connectivityOnly struct{ numNodes int }

func (co connectivityOnly) SolutionDim() int                      { return 1 }
func (co connectivityOnly) NumElements() int                      { return 1 }
func (co connectivityOnly) NumNodes() int                         { return co.numNodes }
func (co connectivityOnly) ElementNodeCount(int) int              { return 1 }
func (co connectivityOnly) PopulateElementNodes(out []int, _ int) { out[0] = 0 }

func TestAggregate(t *testing.T) {
	{ // Three elements then two
		A, B := newTagged(1, 3, 4), newTagged(2, 2, 4)
		agg, err := NewAggregateElementAssembler([]*tagged{A, B})
		require.NoError(t, err)
		assert.Equal(t, 5, agg.NumElements())
		assert.Equal(t, 4, agg.NumNodes())
		assert.Equal(t, 1, agg.SolutionDim())
		for e, want := range [][2]int{{0, 0}, {0, 1}, {0, 2}, {1, 0}, {1, 1}} {
			k, local := agg.FindAssembler(e)
			assert.Equal(t, want, [2]int{k, local}, "element %d", e)
		}
		val, err := agg.AssembleElementScalar(3)
		require.NoError(t, err)
		assert.Equal(t, 200., val)

		nodes := make([]int, agg.ElementNodeCount(4))
		agg.PopulateElementNodes(nodes, 4)
		assert.Equal(t, B.elements[1], nodes)

		assert.Panics(t, func() { agg.FindAssembler(5) })
		assert.Panics(t, func() { agg.FindAssembler(-1) })
		_, err = agg.AssembleElementScalar(5)
		assert.ErrorIs(t, err, ErrElementIndexOutOfRange)
	}
	{ // Assemblers without elements are never selected
		A, E, B := newTagged(1, 3, 4), newTagged(9, 0, 4), newTagged(2, 2, 4)
		agg, err := NewAggregateElementAssembler([]*tagged{E, A, E, E, B, E})
		require.NoError(t, err)
		assert.Equal(t, 5, agg.NumElements())
		k, local := agg.FindAssembler(0)
		assert.Equal(t, [2]int{1, 0}, [2]int{k, local})
		k, local = agg.FindAssembler(3)
		assert.Equal(t, [2]int{4, 0}, [2]int{k, local})
	}
	{ // Ownership matches sequential enumeration for random sizes
		rng := rand.New(rand.NewSource(42))
		for trial := 0; trial < 50; trial++ {
			var (
				n      = 1 + rng.Intn(8)
				parts  = make([]*tagged, n)
				expect [][2]int
			)
			for k := range parts {
				parts[k] = newTagged(k, rng.Intn(6), 3)
				for e := 0; e < parts[k].NumElements(); e++ {
					expect = append(expect, [2]int{k, e})
				}
			}
			agg, err := NewAggregateElementAssembler(parts)
			require.NoError(t, err)
			require.Equal(t, len(expect), agg.NumElements())
			for e, want := range expect {
				k, local := agg.FindAssembler(e)
				assert.Equal(t, want, [2]int{k, local}, "trial %d element %d", trial, e)
			}
		}
	}
	{ // Construction failures
		_, err := NewAggregateElementAssembler([]*tagged{})
		assert.ErrorIs(t, err, ErrEmptyAggregate)

		A, B := newTagged(1, 3, 4), newTagged(2, 2, 4)
		B.sd = 2
		_, err = NewAggregateElementAssembler([]*tagged{A, B})
		assert.ErrorIs(t, err, ErrSolutionDimMismatch)

		_, err = NewAggregateElementAssembler([]*tagged{A, newTagged(2, 2, 5)})
		assert.ErrorIs(t, err, ErrNodeCountMismatch)
	}
	{ // Failures are reported at the aggregate index
		A, B := newTagged(1, 3, 4), newTagged(2, 2, 4)
		B.failAt = 1
		agg, err := NewAggregateElementAssembler([]*tagged{A, B})
		require.NoError(t, err)
		err = agg.AssembleElementVectorInto(4, make([]float64, 2))
		var ee *ElementError
		require.True(t, errors.As(err, &ee))
		assert.Equal(t, 4, ee.Element)
		assert.ErrorIs(t, err, errTagged)
		assert.Contains(t, err.Error(), "assembler 1, element 1")
	}
	{ // Constituents lacking an operation
		agg, err := NewAggregateElementAssembler([]ElementConnectivityAssembler{connectivityOnly{2}})
		require.NoError(t, err)
		assert.ErrorIs(t, agg.AssembleElementMatrixInto(0, mat.NewDense(1, 1, nil)), ErrUnsupportedOperation)
	}
}

func TestMapElementNodes(t *testing.T) {
	A := newTagged(1, 3, 4)
	{ // Identity remap changes nothing
		nm := MapElementNodes(A, A.NumNodes(), func(n int) int { return n })
		for e := 0; e < A.NumElements(); e++ {
			nodes := make([]int, nm.ElementNodeCount(e))
			nm.PopulateElementNodes(nodes, e)
			assert.Equal(t, A.elements[e], nodes)
		}
		assert.Equal(t, A.NumNodes(), nm.NumNodes())
	}
	{ // Offset into a larger node space, local results untouched
		nm := MapElementNodes(A, 14, OffsetNodes(10))
		assert.Equal(t, 14, nm.NumNodes())
		assert.Equal(t, 3, nm.NumElements())
		nodes := make([]int, 2)
		nm.PopulateElementNodes(nodes, 2)
		assert.Equal(t, []int{12, 13}, nodes)
		val, err := nm.AssembleElementScalar(2)
		require.NoError(t, err)
		assert.Equal(t, 102., val)
	}
	{ // Two shifted copies aggregate into one node space
		var (
			left  = MapElementNodes(A, 8, OffsetNodes(0))
			right = MapElementNodes(A, 8, OffsetNodes(4))
		)
		agg, err := NewAggregateElementAssembler([]*NodeMappedAssembler[*tagged]{left, right})
		require.NoError(t, err)
		nodes := make([]int, 2)
		agg.PopulateElementNodes(nodes, 3)
		assert.Equal(t, []int{4, 5}, nodes)
	}
	{
		nm := MapElementNodes(connectivityOnly{1}, 1, OffsetNodes(0))
		_, err := nm.AssembleElementScalar(0)
		assert.ErrorIs(t, err, ErrUnsupportedOperation)
		assert.ErrorIs(t, nm.AssembleElementVectorInto(0, []float64{0}), ErrUnsupportedOperation)
	}
}

func TestElementError(t *testing.T) {
	err := error(newElementError(7, OpAssembleMatrix, ErrNonPositiveJacobian))
	assert.Equal(t, fmt.Sprintf("element 7: %s: %v", OpAssembleMatrix, ErrNonPositiveJacobian), err.Error())
	assert.ErrorIs(t, err, ErrNonPositiveJacobian)
	assert.Equal(t, 2, LocalSize(newTagged(0, 1, 2), 0))
}
