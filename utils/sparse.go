package utils

import (
	"fmt"
	"math"

	"github.com/james-bowman/sparse"
	"github.com/james-bowman/sparse/blas"
	"gonum.org/v1/gonum/mat"
)

// DOK is an accumulating dictionary-of-keys matrix used to gather element
// contributions before compression to CSR. It is not safe for concurrent writes.
type DOK struct {
	M        *sparse.DOK
	readOnly bool
	name     string
}

func NewDOK(nr, nc int) (R DOK) {
	R = DOK{
		sparse.NewDOK(nr, nc),
		false,
		"unnamed - hint: pass a variable name to SetReadOnly()",
	}
	return
}

// Dims and At minimally satisfy the mat.Matrix interface.
func (m DOK) Dims() (r, c int)    { return m.M.Dims() }
func (m DOK) At(i, j int) float64 { return m.M.At(i, j) }
func (m DOK) T() mat.Matrix       { return mat.Transpose{Matrix: m} }

func (m *DOK) SetReadOnly(name ...string) {
	if len(name) != 0 {
		m.name = name[0]
	}
	m.readOnly = true
}

// AddTo accumulates val into (i, j).
func (m DOK) AddTo(i, j int, val float64) {
	m.checkWritable()
	m.M.Set(i, j, m.M.At(i, j)+val)
}

// AddBlock scatters a dense local matrix into the rows/columns given by I.
func (m DOK) AddBlock(I Index, A mat.Matrix) (err error) {
	var (
		nr, nc = A.Dims()
	)
	if nr != len(I) || nc != len(I) {
		err = fmt.Errorf("block dimensions %dx%d do not match index length %d", nr, nc, len(I))
		return
	}
	for ii, i := range I {
		for jj, j := range I {
			if val := A.At(ii, jj); val != 0 {
				m.AddTo(i, j, val)
			}
		}
	}
	return
}

func (m DOK) checkWritable() {
	if m.readOnly {
		err := fmt.Errorf("attempt to write to a read only matrix named: \"%v\"", m.name)
		panic(err)
	}
}

func (m DOK) ToCSR() CSR {
	return CSR{
		M:        m.M.ToCSR(),
		readOnly: m.readOnly,
		name:     m.name,
	}
}

type CSR struct {
	M        *sparse.CSR
	readOnly bool
	name     string
}

// Dims and At minimally satisfy the mat.Matrix interface.
func (m CSR) Dims() (r, c int)              { return m.M.Dims() }
func (m CSR) At(i, j int) float64           { return m.M.At(i, j) }
func (m CSR) T() mat.Matrix                 { return mat.Transpose{Matrix: m} }
func (m CSR) RawMatrix() *blas.SparseMatrix { return m.M.RawMatrix() }
func (m CSR) Data() []float64 {
	return m.RawMatrix().Data
}
func (m CSR) NNZ() int { return len(m.RawMatrix().Data) }

// MulVec returns A*x.
func (m CSR) MulVec(x []float64) (y []float64) {
	var (
		raw    = m.RawMatrix()
		nr, nc = m.Dims()
	)
	if len(x) != nc {
		panic(fmt.Errorf("vector length %d does not match %d columns", len(x), nc))
	}
	y = make([]float64, nr)
	for i := 0; i < nr; i++ {
		var sum float64
		for p := raw.Indptr[i]; p < raw.Indptr[i+1]; p++ {
			sum += raw.Data[p] * x[raw.Ind[p]]
		}
		y[i] = sum
	}
	return
}

// IsSymmetric compares every stored entry with its transpose partner.
func (m CSR) IsSymmetric(tol float64) bool {
	var (
		raw    = m.RawMatrix()
		nr, nc = m.Dims()
	)
	if nr != nc {
		return false
	}
	for i := 0; i < nr; i++ {
		for p := raw.Indptr[i]; p < raw.Indptr[i+1]; p++ {
			j := raw.Ind[p]
			if math.Abs(raw.Data[p]-m.At(j, i)) > tol {
				return false
			}
		}
	}
	return true
}

func (m CSR) ToDense() (A *mat.Dense) {
	nr, nc := m.Dims()
	A = mat.NewDense(nr, nc, nil)
	A.Copy(m.M)
	return
}
