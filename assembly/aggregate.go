package assembly

import (
	"errors"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// AggregateElementAssembler joins assemblers that share a solution dimension
// and node space into one flat element index space. Elements of the k-th
// assembler follow those of the assemblers before it.
type AggregateElementAssembler[A ElementConnectivityAssembler] struct {
	assemblers  []A
	offsets     []int
	numElements int
	solutionDim int
	numNodes    int
}

func NewAggregateElementAssembler[A ElementConnectivityAssembler](assemblers []A) (agg *AggregateElementAssembler[A], err error) {
	if len(assemblers) == 0 {
		err = ErrEmptyAggregate
		return
	}
	var (
		sd = assemblers[0].SolutionDim()
		nn = assemblers[0].NumNodes()
	)
	agg = &AggregateElementAssembler[A]{
		assemblers:  assemblers,
		offsets:     make([]int, len(assemblers)),
		solutionDim: sd,
		numNodes:    nn,
	}
	for k, a := range assemblers {
		if a.SolutionDim() != sd {
			return nil, fmt.Errorf("%w: assembler %d has %d, assembler 0 has %d",
				ErrSolutionDimMismatch, k, a.SolutionDim(), sd)
		}
		if a.NumNodes() != nn {
			return nil, fmt.Errorf("%w: assembler %d has %d, assembler 0 has %d",
				ErrNodeCountMismatch, k, a.NumNodes(), nn)
		}
		agg.offsets[k] = agg.numElements
		agg.numElements += a.NumElements()
	}
	return
}

func (agg *AggregateElementAssembler[A]) Assemblers() []A  { return agg.assemblers }
func (agg *AggregateElementAssembler[A]) SolutionDim() int { return agg.solutionDim }
func (agg *AggregateElementAssembler[A]) NumElements() int { return agg.numElements }
func (agg *AggregateElementAssembler[A]) NumNodes() int    { return agg.numNodes }

// FindAssembler returns the constituent owning an aggregate element index and
// the index local to it: the last constituent whose offset is not above the
// index, so constituents without elements are never chosen.
func (agg *AggregateElementAssembler[A]) FindAssembler(elementIndex int) (k, localIndex int) {
	if elementIndex < 0 || elementIndex >= agg.numElements {
		panic(fmt.Errorf("%w: %d with %d elements", ErrElementIndexOutOfRange, elementIndex, agg.numElements))
	}
	k = sort.Search(len(agg.offsets), func(i int) bool { return agg.offsets[i] > elementIndex }) - 1
	localIndex = elementIndex - agg.offsets[k]
	return
}

func (agg *AggregateElementAssembler[A]) ElementNodeCount(elementIndex int) int {
	k, local := agg.FindAssembler(elementIndex)
	return agg.assemblers[k].ElementNodeCount(local)
}

func (agg *AggregateElementAssembler[A]) PopulateElementNodes(out []int, elementIndex int) {
	k, local := agg.FindAssembler(elementIndex)
	agg.assemblers[k].PopulateElementNodes(out, local)
}

// relocate reports a constituent failure under the aggregate element index.
func (agg *AggregateElementAssembler[A]) relocate(err error, elementIndex, k, local int, op string) error {
	var (
		ee    *ElementError
		cause = err
	)
	if errors.As(err, &ee) {
		cause = ee.Err
	}
	return newElementError(elementIndex, fmt.Sprintf("%s (assembler %d, element %d)", op, k, local), cause)
}

func (agg *AggregateElementAssembler[A]) AssembleElementMatrixInto(elementIndex int, out *mat.Dense) error {
	if err := checkElementIndex(agg, elementIndex, OpAssembleMatrix); err != nil {
		return err
	}
	k, local := agg.FindAssembler(elementIndex)
	inner, ok := any(agg.assemblers[k]).(ElementMatrixAssembler)
	if !ok {
		return newElementError(elementIndex, OpAssembleMatrix, ErrUnsupportedOperation)
	}
	if err := inner.AssembleElementMatrixInto(local, out); err != nil {
		return agg.relocate(err, elementIndex, k, local, OpAssembleMatrix)
	}
	return nil
}

func (agg *AggregateElementAssembler[A]) AssembleElementVectorInto(elementIndex int, out []float64) error {
	if err := checkElementIndex(agg, elementIndex, OpAssembleVector); err != nil {
		return err
	}
	k, local := agg.FindAssembler(elementIndex)
	inner, ok := any(agg.assemblers[k]).(ElementVectorAssembler)
	if !ok {
		return newElementError(elementIndex, OpAssembleVector, ErrUnsupportedOperation)
	}
	if err := inner.AssembleElementVectorInto(local, out); err != nil {
		return agg.relocate(err, elementIndex, k, local, OpAssembleVector)
	}
	return nil
}

func (agg *AggregateElementAssembler[A]) AssembleElementScalar(elementIndex int) (float64, error) {
	if err := checkElementIndex(agg, elementIndex, OpAssembleScalar); err != nil {
		return 0, err
	}
	k, local := agg.FindAssembler(elementIndex)
	inner, ok := any(agg.assemblers[k]).(ElementScalarAssembler)
	if !ok {
		return 0, newElementError(elementIndex, OpAssembleScalar, ErrUnsupportedOperation)
	}
	val, err := inner.AssembleElementScalar(local)
	if err != nil {
		return 0, agg.relocate(err, elementIndex, k, local, OpAssembleScalar)
	}
	return val, nil
}
