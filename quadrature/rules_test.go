package quadrature

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func factorial(n int) float64 {
	f := 1.
	for i := 2; i <= n; i++ {
		f *= float64(i)
	}
	return f
}

func TestGaussJacobi(t *testing.T) {
	const (
		tol = 1.e-12
	)
	beta := func(a, b float64) float64 {
		return math.Gamma(a) * math.Gamma(b) / math.Gamma(a+b)
	}
	for _, ab := range [][2]float64{{0, 0}, {1, 0}, {2, 0}, {0.3, 0.7}} {
		α, β := ab[0], ab[1]
		for n := 1; n < 8; n++ {
			x, w := GaussJacobi(α, β, n)
			require.Len(t, x, n)
			exactZero := math.Pow(2, α+β+1) * beta(α+1, β+1)
			exactOne := (β - α) / (α + β + 2) * exactZero
			var sum0, sum1 float64
			for i := range x {
				sum0 += w[i]
				sum1 += x[i] * w[i]
				assert.True(t, x[i] > -1 && x[i] < 1)
			}
			assert.InDeltaf(t, exactZero, sum0, tol, "alpha, beta, n = %v, %v, %d", α, β, n)
			assert.InDeltaf(t, exactOne, sum1, tol, "alpha, beta, n = %v, %v, %d", α, β, n)
		}
	}
	{ // n points integrate x^p against polynomial weights exactly for p <= 2n-1
		xg, wg := Gauss(12)
		for _, ab := range [][2]int{{1, 0}, {2, 0}, {1, 2}} {
			for n := 2; n < 6; n++ {
				x, w := GaussJacobi(float64(ab[0]), float64(ab[1]), n)
				for p := 0; p <= 2*n-1; p++ {
					var got, exact float64
					for i := range x {
						got += w[i] * math.Pow(x[i], float64(p))
					}
					for i := range xg {
						exact += wg[i] * math.Pow(1-xg[i], float64(ab[0])) * math.Pow(1+xg[i], float64(ab[1])) *
							math.Pow(xg[i], float64(p))
					}
					assert.InDeltaf(t, exact, got, tol, "alpha, beta, n, p = %d, %d, %d, %d", ab[0], ab[1], n, p)
				}
			}
		}
	}
	{ // Legendre weight matches the gonum rule
		x, w := GaussJacobi(0, 0, 5)
		xg, wg := Gauss(5)
		for i := range x {
			assert.InDelta(t, xg[i], x[i], tol)
			assert.InDelta(t, wg[i], w[i], tol)
		}
	}
}

func TestRuleExactness(t *testing.T) {
	const (
		tol = 1.e-11
	)
	for strength := 0; strength <= 8; strength++ {
		{ // Segment
			r, err := SegmentRule(strength)
			require.NoError(t, err)
			for p := 0; p <= strength; p++ {
				exact := 0.
				if p%2 == 0 {
					exact = 2. / float64(p+1)
				}
				got := r.Integrate(func(x []float64) float64 { return math.Pow(x[0], float64(p)) })
				assert.InDeltaf(t, exact, got, tol, "segment strength %d power %d", strength, p)
			}
		}
		{ // Triangle: int (1+r)^i (1+s)^j = 2^(i+j+2) i! j! / (i+j+2)!
			r, err := TriangleRule(strength)
			require.NoError(t, err)
			for i := 0; i <= strength; i++ {
				for j := 0; i+j <= strength; j++ {
					exact := math.Pow(2, float64(i+j+2)) * factorial(i) * factorial(j) / factorial(i+j+2)
					got := r.Integrate(func(x []float64) float64 {
						return math.Pow(1+x[0], float64(i)) * math.Pow(1+x[1], float64(j))
					})
					assert.InDeltaf(t, exact, got, tol, "triangle strength %d powers %d %d", strength, i, j)
				}
			}
		}
		{ // Tetrahedron
			r, err := TetrahedronRule(strength)
			require.NoError(t, err)
			for i := 0; i <= strength; i++ {
				for j := 0; i+j <= strength; j++ {
					for k := 0; i+j+k <= strength; k++ {
						exact := math.Pow(2, float64(i+j+k+3)) * factorial(i) * factorial(j) * factorial(k) /
							factorial(i+j+k+3)
						got := r.Integrate(func(x []float64) float64 {
							return math.Pow(1+x[0], float64(i)) * math.Pow(1+x[1], float64(j)) *
								math.Pow(1+x[2], float64(k))
						})
						assert.InDeltaf(t, exact, got, tol, "tet strength %d powers %d %d %d", strength, i, j, k)
					}
				}
			}
		}
		{ // Tensor product shapes
			q, err := QuadrilateralRule(strength)
			require.NoError(t, err)
			h, err := HexahedronRule(strength)
			require.NoError(t, err)
			for i := 0; i <= strength; i++ {
				for j := 0; j <= strength; j++ {
					exact := moment1D(i) * moment1D(j)
					got := q.Integrate(func(x []float64) float64 {
						return math.Pow(x[0], float64(i)) * math.Pow(x[1], float64(j))
					})
					assert.InDeltaf(t, exact, got, tol, "quad strength %d powers %d %d", strength, i, j)
					got = h.Integrate(func(x []float64) float64 {
						return math.Pow(x[0], float64(i)) * math.Pow(x[2], float64(j))
					})
					assert.InDeltaf(t, 2*exact, got, tol, "hex strength %d powers %d %d", strength, i, j)
				}
			}
		}
	}
}

// moment1D integrates x^p over [-1,1].
func moment1D(p int) float64 {
	if p%2 == 1 {
		return 0
	}
	return 2. / float64(p+1)
}

func TestRuleShapes(t *testing.T) {
	measures := map[Shape]float64{
		Segment:       2,
		Triangle:      2,
		Quadrilateral: 4,
		Tetrahedron:   4. / 3.,
		Hexahedron:    8,
	}
	for shape, measure := range measures {
		r, err := ForShape(shape, 3)
		require.NoError(t, err)
		assert.Equal(t, shape.Dim(), r.Dim())
		assert.InDeltaf(t, measure, r.Integrate(func([]float64) float64 { return 1 }), 1.e-13,
			"measure of %v", shape)
	}
	{ // Unsupported strengths are recoverable errors
		for _, s := range []int{-1, MaxStrength + 1} {
			_, err := ForShape(Triangle, s)
			assert.True(t, errors.Is(err, ErrUnsupportedStrength))
		}
		_, err := ForShape(Shape(99), 2)
		assert.Error(t, err)
	}
	assert.Equal(t, "Tetrahedron", Tetrahedron.String())
}
