package assembly

import (
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/femkit/utils"
)

// NodeMappedAssembler presents Inner with every node index passed through a
// mapping and a different total node count. Local element results are
// unchanged. The mapping is trusted: it must send Inner's node indices below
// the new node count.
//
// The assembly methods exist whatever Inner supports and return
// ErrUnsupportedOperation when Inner lacks the operation.
type NodeMappedAssembler[A ElementConnectivityAssembler] struct {
	Inner    A
	numNodes int
	mapNode  func(int) int
}

func MapElementNodes[A ElementConnectivityAssembler](inner A, newNumNodes int, mapNode func(int) int) *NodeMappedAssembler[A] {
	return &NodeMappedAssembler[A]{
		Inner:    inner,
		numNodes: newNumNodes,
		mapNode:  mapNode,
	}
}

// OffsetNodes maps node n to n+offset.
func OffsetNodes(offset int) func(int) int {
	return func(n int) int { return n + offset }
}

func (nm *NodeMappedAssembler[A]) SolutionDim() int { return nm.Inner.SolutionDim() }
func (nm *NodeMappedAssembler[A]) NumElements() int { return nm.Inner.NumElements() }
func (nm *NodeMappedAssembler[A]) NumNodes() int    { return nm.numNodes }

func (nm *NodeMappedAssembler[A]) ElementNodeCount(elementIndex int) int {
	return nm.Inner.ElementNodeCount(elementIndex)
}

func (nm *NodeMappedAssembler[A]) PopulateElementNodes(out []int, elementIndex int) {
	nm.Inner.PopulateElementNodes(out, elementIndex)
	utils.Index(out).ApplyInPlace(nm.mapNode)
}

func (nm *NodeMappedAssembler[A]) AssembleElementMatrixInto(elementIndex int, out *mat.Dense) error {
	inner, ok := any(nm.Inner).(ElementMatrixAssembler)
	if !ok {
		return newElementError(elementIndex, OpAssembleMatrix, ErrUnsupportedOperation)
	}
	return inner.AssembleElementMatrixInto(elementIndex, out)
}

func (nm *NodeMappedAssembler[A]) AssembleElementVectorInto(elementIndex int, out []float64) error {
	inner, ok := any(nm.Inner).(ElementVectorAssembler)
	if !ok {
		return newElementError(elementIndex, OpAssembleVector, ErrUnsupportedOperation)
	}
	return inner.AssembleElementVectorInto(elementIndex, out)
}

func (nm *NodeMappedAssembler[A]) AssembleElementScalar(elementIndex int) (float64, error) {
	inner, ok := any(nm.Inner).(ElementScalarAssembler)
	if !ok {
		return 0, newElementError(elementIndex, OpAssembleScalar, ErrUnsupportedOperation)
	}
	return inner.AssembleElementScalar(elementIndex)
}
