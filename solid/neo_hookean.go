package solid

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// NeoHookeanMaterial is the compressible Neo-Hookean model
//
//	psi = mu/2 (tr(F^T F) - d) - mu log J + lambda/2 (log J)^2
//	P   = mu (F - F^-T) + lambda log J F^-T
//
// with J = det F. Deformations with J <= 0 are rejected with
// ErrNonPositiveDeterminant.
type NeoHookeanMaterial struct{}

func logJ(F mat.Matrix) (lj float64, err error) {
	var (
		d  = squareDim(F)
		U  = mat.NewDense(d, d, nil)
		ok bool
	)
	U.Copy(F)
	for i := 0; i < d; i++ {
		U.Set(i, i, U.At(i, i)-1)
	}
	if d == 1 {
		// LogDetF reads a 1x1 input as the determinant itself
		U.Set(0, 0, F.At(0, 0))
	}
	if lj, ok = LogDetF(U); !ok {
		err = ErrNonPositiveDeterminant
	}
	return
}

// inverseTranspose returns F^-T.
func inverseTranspose(F mat.Matrix) (G *mat.Dense, err error) {
	var (
		d   = squareDim(F)
		inv = mat.NewDense(d, d, nil)
	)
	if err = inv.Inverse(F); err != nil {
		err = fmt.Errorf("%w: %v", ErrNonPositiveDeterminant, err)
		return
	}
	G = mat.DenseCopyOf(inv.T())
	return
}

func (NeoHookeanMaterial) EnergyDensity(F mat.Matrix, p LameParameters) (psi float64, err error) {
	var (
		lj float64
		d  = squareDim(F)
	)
	if lj, err = logJ(F); err != nil {
		return
	}
	psi = 0.5*p.Mu*(frobenius(F, F)-float64(d)) - p.Mu*lj + 0.5*p.Lambda*lj*lj
	return
}

func (NeoHookeanMaterial) StressTensor(F mat.Matrix, p LameParameters) (P *mat.Dense, err error) {
	var (
		lj float64
		G  *mat.Dense
		d  = squareDim(F)
	)
	if lj, err = logJ(F); err != nil {
		return
	}
	if G, err = inverseTranspose(F); err != nil {
		return
	}
	P = mat.NewDense(d, d, nil)
	for i := 0; i < d; i++ {
		for j := 0; j < d; j++ {
			P.Set(i, j, p.Mu*(F.At(i, j)-G.At(i, j))+p.Lambda*lj*G.At(i, j))
		}
	}
	return
}

// StressContraction with G = F^-T:
//
//	C(F, a, b) = mu (a.b) I + (mu - lambda log J) (G b)(G a)^T + lambda (G a)(G b)^T
func (NeoHookeanMaterial) StressContraction(F mat.Matrix, a, b []float64, p LameParameters) (C *mat.Dense, err error) {
	var (
		lj     float64
		G      *mat.Dense
		d      = squareDim(F)
		Ga, Gb mat.VecDense
	)
	if lj, err = logJ(F); err != nil {
		return
	}
	if G, err = inverseTranspose(F); err != nil {
		return
	}
	Ga.MulVec(G, mat.NewVecDense(d, append([]float64(nil), a...)))
	Gb.MulVec(G, mat.NewVecDense(d, append([]float64(nil), b...)))
	C = mat.NewDense(d, d, nil)
	ab := dot(a, b)
	for i := 0; i < d; i++ {
		for k := 0; k < d; k++ {
			val := (p.Mu-p.Lambda*lj)*Gb.AtVec(i)*Ga.AtVec(k) + p.Lambda*Ga.AtVec(i)*Gb.AtVec(k)
			if i == k {
				val += p.Mu * ab
			}
			C.Set(i, k, val)
		}
	}
	return
}
