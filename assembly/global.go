package assembly

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/notargets/femkit/utils"
)

type ErrorPolicy uint8

const (
	// AbortOnError returns the failure of the lowest numbered failing element.
	AbortOnError ErrorPolicy = iota
	// SkipFailedElements leaves failing elements out of the result and
	// reports each one to OnElementError.
	SkipFailedElements
)

func (ep ErrorPolicy) String() string {
	switch ep {
	case AbortOnError:
		return "abort"
	case SkipFailedElements:
		return "skip"
	}
	return fmt.Sprintf("ErrorPolicy(%d)", uint8(ep))
}

// GlobalAssembler sums element contributions into global operators, running
// the element kernels on ParallelDegree goroutines. Results do not depend on
// ParallelDegree.
type GlobalAssembler struct {
	ParallelDegree int
	Policy         ErrorPolicy
	OnElementError func(err *ElementError)
}

func NewGlobalAssembler(parallelDegree int) *GlobalAssembler {
	return &GlobalAssembler{ParallelDegree: parallelDegree}
}

// settle applies the policy to the per element failures in element order.
func (ga *GlobalAssembler) settle(errs []error, op string) (failed []bool, err error) {
	failed = make([]bool, len(errs))
	for e, eErr := range errs {
		if eErr == nil {
			continue
		}
		var ee *ElementError
		if !errors.As(eErr, &ee) {
			ee = newElementError(e, op, eErr)
		}
		if ga.Policy == AbortOnError {
			return nil, ee
		}
		failed[e] = true
		if ga.OnElementError != nil {
			ga.OnElementError(ee)
		}
	}
	return
}

func elementNodes(a ElementConnectivityAssembler, elementIndex int) (nodes utils.Index) {
	nodes = utils.NewIndex(a.ElementNodeCount(elementIndex))
	a.PopulateElementNodes(nodes, elementIndex)
	return
}

// AssembleMatrix computes every local matrix in parallel and adds them to the
// global matrix sequentially in element order.
func (ga *GlobalAssembler) AssembleMatrix(a ElementMatrixAssembler) (K utils.CSR, err error) {
	var (
		ne     = a.NumElements()
		ndof   = a.NumNodes() * a.SolutionDim()
		pm     = utils.NewPartitionMap(ga.ParallelDegree, ne)
		locals = make([]*mat.Dense, ne)
		errs   = make([]error, ne)
	)
	pm.RunBuckets(func(_, kMin, kMax int) error {
		for e := kMin; e < kMax; e++ {
			n := LocalSize(a, e)
			Ke := mat.NewDense(n, n, nil)
			if errs[e] = a.AssembleElementMatrixInto(e, Ke); errs[e] != nil {
				continue
			}
			if utils.IsNonFinite(Ke) {
				errs[e] = newElementError(e, OpAssembleMatrix, ErrNonFinite)
				continue
			}
			locals[e] = Ke
		}
		return nil
	})
	failed, err := ga.settle(errs, OpAssembleMatrix)
	if err != nil {
		return
	}
	dok := utils.NewDOK(ndof, ndof)
	for e := 0; e < ne; e++ {
		if failed[e] {
			continue
		}
		dofs := elementNodes(a, e).Expand(a.SolutionDim())
		if err = dok.AddBlock(dofs, locals[e]); err != nil {
			err = newElementError(e, OpAssembleMatrix, err)
			return
		}
	}
	dok.SetReadOnly("K")
	K = dok.ToCSR()
	return
}

// AssembleVector adds local vectors straight into the global vector. Elements
// of one color share no node, so each color runs in parallel without locks.
func (ga *GlobalAssembler) AssembleVector(a ElementVectorAssembler) (f []float64, err error) {
	var (
		ne   = a.NumElements()
		sd   = a.SolutionDim()
		errs = make([]error, ne)
	)
	f = make([]float64, a.NumNodes()*sd)
	for _, color := range ColorElements(a) {
		pm := utils.NewPartitionMap(ga.ParallelDegree, len(color))
		pm.RunBuckets(func(_, kMin, kMax int) error {
			for _, e := range color[kMin:kMax] {
				fe := make([]float64, LocalSize(a, e))
				if errs[e] = a.AssembleElementVectorInto(e, fe); errs[e] != nil {
					continue
				}
				if utils.IsNonFinite(fe) {
					errs[e] = newElementError(e, OpAssembleVector, ErrNonFinite)
					continue
				}
				for i, dof := range elementNodes(a, e).Expand(sd) {
					f[dof] += fe[i]
				}
			}
			return nil
		})
	}
	if _, err = ga.settle(errs, OpAssembleVector); err != nil {
		f = nil
	}
	return
}

func (ga *GlobalAssembler) AssembleScalar(a ElementScalarAssembler) (sum float64, err error) {
	var (
		ne     = a.NumElements()
		pm     = utils.NewPartitionMap(ga.ParallelDegree, ne)
		values = make([]float64, ne)
		errs   = make([]error, ne)
	)
	pm.RunBuckets(func(_, kMin, kMax int) error {
		for e := kMin; e < kMax; e++ {
			if values[e], errs[e] = a.AssembleElementScalar(e); errs[e] == nil && utils.IsNonFinite(values[e]) {
				errs[e] = newElementError(e, OpAssembleScalar, ErrNonFinite)
			}
		}
		return nil
	})
	failed, err := ga.settle(errs, OpAssembleScalar)
	if err != nil {
		return
	}
	for e, v := range values {
		if !failed[e] {
			sum += v
		}
	}
	return
}
