package solid

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/notargets/femkit/types"
)

// LogDetF computes log(det F) for F = I + du/dX from the displacement
// gradient, without forming det F. The identity part of the determinant is
// expanded away, det F = 1 + gamma, and log1p(gamma) keeps full precision for
// small displacement gradients. ok is false when det F <= 0.
//
// A 1x1 input is taken as the determinant itself.
func LogDetF(duDX mat.Matrix) (logDet float64, ok bool) {
	r, c := duDX.Dims()
	if r != c {
		panic(fmt.Errorf("displacement gradient must be square, have %dx%d", r, c))
	}
	switch types.MustDim(r) {
	case types.D1:
		det := duDX.At(0, 0)
		if det > 0 {
			return math.Log(det), true
		}
		return
	case types.D2:
		var U [2][2]float64
		for i := 0; i < 2; i++ {
			for j := 0; j < 2; j++ {
				U[i][j] = duDX.At(i, j)
			}
		}
		return logDetF2D(U)
	default:
		var U [3][3]float64
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				U[i][j] = duDX.At(i, j)
			}
		}
		return logDetF3D(U)
	}
}

func logDetF2D(U [2][2]float64) (logDet float64, ok bool) {
	// det(I+U) = (1+u11)(1+u22) - bc = 1 + gamma
	var (
		u11, u22 = U[0][0], U[1][1]
		b, c     = U[0][1], U[1][0]
		gamma    = u11*u22 + u11 + u22 - b*c
	)
	if gamma > -1 {
		return math.Log1p(gamma), true
	}
	return
}

func logDetF3D(U [3][3]float64) (logDet float64, ok bool) {
	// With F = [a b c; d e f; g h i], det F = aei + bfg + cdh - ceg - bdi - afh.
	// The diagonal product carries the identity; gamma collects the rest.
	var (
		u11, u22, u33 = U[0][0], U[1][1], U[2][2]
		a, e, i       = 1 + u11, 1 + u22, 1 + u33
		b, c          = U[0][1], U[0][2]
		d, f          = U[1][0], U[1][2]
		g, h          = U[2][0], U[2][1]
	)
	gamma := u11*u22*u33 + u11*u22 + u11*u33 + u22*u33 + u11 + u22 + u33 +
		b*f*g + c*d*h - c*e*g - b*d*i - a*f*h
	if gamma > -1 {
		return math.Log1p(gamma), true
	}
	return
}
