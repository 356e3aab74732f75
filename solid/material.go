package solid

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

var ErrNonPositiveDeterminant = errors.New("solid: deformation gradient determinant is not positive")

type LameParameters struct {
	Mu     float64 `yaml:"Mu"`
	Lambda float64 `yaml:"Lambda"`
}

type YoungPoisson struct {
	Young   float64 `yaml:"Young"`
	Poisson float64 `yaml:"Poisson"`
}

func (yp YoungPoisson) ToLame() (lp LameParameters) {
	lp.Mu = 0.5 * yp.Young / (1 + yp.Poisson)
	lp.Lambda = 2 * lp.Mu * yp.Poisson / (1 - 2*yp.Poisson)
	return
}

// HyperelasticMaterial gives the strain energy density of a deformation
// gradient F, the first Piola-Kirchhoff stress P = dpsi/dF and the stress
// contraction C(F, a, b)_ik = sum_jl dP_ij/dF_kl a_j b_l.
type HyperelasticMaterial interface {
	EnergyDensity(F mat.Matrix, p LameParameters) (float64, error)
	StressTensor(F mat.Matrix, p LameParameters) (*mat.Dense, error)
	StressContraction(F mat.Matrix, a, b []float64, p LameParameters) (*mat.Dense, error)
}

// NewMaterial looks a material model up by its input file name.
func NewMaterial(label string) (m HyperelasticMaterial, err error) {
	switch label {
	case "linear", "LinearElastic":
		m = LinearElasticMaterial{}
	case "neohookean", "NeoHookean":
		m = NeoHookeanMaterial{}
	default:
		err = fmt.Errorf("unknown material model %q", label)
	}
	return
}

func squareDim(F mat.Matrix) int {
	r, c := F.Dims()
	if r != c {
		panic(fmt.Errorf("deformation gradient must be square, have %dx%d", r, c))
	}
	return r
}

func dot(a, b []float64) (sum float64) {
	for i := range a {
		sum += a[i] * b[i]
	}
	return
}

// frobenius is the double contraction A:B.
func frobenius(A, B mat.Matrix) (sum float64) {
	r, c := A.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			sum += A.At(i, j) * B.At(i, j)
		}
	}
	return
}
