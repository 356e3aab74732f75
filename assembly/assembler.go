// Package assembly builds global finite element operators from per element
// contributions. Element assemblers fill caller owned local buffers; the
// combinators in this package remap their node indices or join several of
// them into one element index space, and GlobalAssembler sums the local
// results into global sparse matrices, vectors and scalars.
package assembly

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/notargets/femkit/space"
)

var (
	ErrEmptyAggregate         = errors.New("assembly: aggregate needs at least one assembler")
	ErrSolutionDimMismatch    = errors.New("assembly: solution dimensions differ")
	ErrNodeCountMismatch      = errors.New("assembly: node counts differ")
	ErrElementIndexOutOfRange = errors.New("assembly: element index out of range")
	ErrOutputSizeMismatch     = errors.New("assembly: output buffer has the wrong size")
	ErrNonPositiveJacobian    = errors.New("assembly: non-positive jacobian determinant")
	ErrNonFinite              = errors.New("assembly: non-finite local contribution")
	ErrUnsupportedOperation   = errors.New("assembly: operation not supported by the wrapped assembler")
	ErrDimensionMismatch      = errors.New("assembly: geometry and reference dimensions differ")
)

const (
	OpAssembleMatrix = "assemble element matrix"
	OpAssembleVector = "assemble element vector"
	OpAssembleScalar = "assemble element scalar"
)

// ElementConnectivityAssembler describes the discrete layout an assembler
// works on: SolutionDim unknowns per node and, for each element, the global
// indices of its nodes. Node indices are below NumNodes.
type ElementConnectivityAssembler interface {
	SolutionDim() int
	space.Connectivity
}

// ElementMatrixAssembler fills out, sized (nodes*SolutionDim)^2, with the
// local matrix of one element.
type ElementMatrixAssembler interface {
	ElementConnectivityAssembler
	AssembleElementMatrixInto(elementIndex int, out *mat.Dense) error
}

// ElementVectorAssembler fills out, of length nodes*SolutionDim.
type ElementVectorAssembler interface {
	ElementConnectivityAssembler
	AssembleElementVectorInto(elementIndex int, out []float64) error
}

type ElementScalarAssembler interface {
	ElementConnectivityAssembler
	AssembleElementScalar(elementIndex int) (float64, error)
}

// ElementError locates a failure at an element and operation.
type ElementError struct {
	Element   int
	Operation string
	Err       error
}

func (e *ElementError) Error() string {
	return fmt.Sprintf("element %d: %s: %v", e.Element, e.Operation, e.Err)
}

func (e *ElementError) Unwrap() error { return e.Err }

func newElementError(elementIndex int, op string, err error) *ElementError {
	return &ElementError{Element: elementIndex, Operation: op, Err: err}
}

// LocalSize is the side length of an element's local matrix.
func LocalSize(a ElementConnectivityAssembler, elementIndex int) int {
	return a.ElementNodeCount(elementIndex) * a.SolutionDim()
}

func checkElementIndex(a ElementConnectivityAssembler, elementIndex int, op string) error {
	if elementIndex < 0 || elementIndex >= a.NumElements() {
		return newElementError(elementIndex, op,
			fmt.Errorf("%w: have %d elements", ErrElementIndexOutOfRange, a.NumElements()))
	}
	return nil
}

func checkMatrixOutput(a ElementConnectivityAssembler, elementIndex int, out *mat.Dense) error {
	if err := checkElementIndex(a, elementIndex, OpAssembleMatrix); err != nil {
		return err
	}
	n := LocalSize(a, elementIndex)
	if r, c := out.Dims(); r != n || c != n {
		return newElementError(elementIndex, OpAssembleMatrix,
			fmt.Errorf("%w: have %dx%d, want %dx%d", ErrOutputSizeMismatch, r, c, n, n))
	}
	return nil
}

func checkVectorOutput(a ElementConnectivityAssembler, elementIndex int, out []float64) error {
	if err := checkElementIndex(a, elementIndex, OpAssembleVector); err != nil {
		return err
	}
	if n := LocalSize(a, elementIndex); len(out) != n {
		return newElementError(elementIndex, OpAssembleVector,
			fmt.Errorf("%w: have %d, want %d", ErrOutputSizeMismatch, len(out), n))
	}
	return nil
}
