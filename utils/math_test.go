package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestMath(t *testing.T) {
	for p := -10; p <= 10; p++ {
		assert.InDeltaf(t, math.Pow(1.3, float64(p)), POW(1.3, p), 1.e-12, "p = %d", p)
	}
	assert.Equal(t, []float64{2, 2, 2}, ConstArray(3, 2))
	assert.InDelta(t, 5., Distance([]float64{0, 0}, []float64{3, 4}), 1.e-15)
}

func TestIsNonFinite(t *testing.T) {
	assert.False(t, IsNonFinite([]float64{1, 2}))
	assert.True(t, IsNonFinite([]float64{1, math.NaN()}))
	assert.True(t, IsNonFinite(math.NaN()))
	assert.False(t, IsNonFinite(mat.NewDense(2, 2, []float64{1, 2, 3, 4})))
	assert.True(t, IsNonFinite(mat.NewDense(1, 2, []float64{math.Inf(1), 0})))
	assert.True(t, IsNonFinite([]float64{math.Inf(-1)}))
	assert.False(t, IsNonFinite(1.))
}
