package solid

import (
	"gonum.org/v1/gonum/mat"
)

// LinearElasticMaterial works with the infinitesimal strain
// eps = (F + F^T)/2 - I:
//
//	psi = mu eps:eps + lambda/2 tr(eps)^2
//	P   = 2 mu eps + lambda tr(eps) I
//	C(F, a, b) = mu [(a.b) I + b a^T] + lambda a b^T
type LinearElasticMaterial struct{}

func infinitesimalStrain(F mat.Matrix) (eps *mat.Dense) {
	d := squareDim(F)
	eps = mat.NewDense(d, d, nil)
	for i := 0; i < d; i++ {
		for j := 0; j < d; j++ {
			eps.Set(i, j, 0.5*(F.At(i, j)+F.At(j, i)))
		}
		eps.Set(i, i, eps.At(i, i)-1)
	}
	return
}

func (LinearElasticMaterial) EnergyDensity(F mat.Matrix, p LameParameters) (psi float64, err error) {
	var (
		eps = infinitesimalStrain(F)
		tr  = mat.Trace(eps)
	)
	psi = p.Mu*frobenius(eps, eps) + 0.5*p.Lambda*tr*tr
	return
}

func (LinearElasticMaterial) StressTensor(F mat.Matrix, p LameParameters) (P *mat.Dense, err error) {
	var (
		eps  = infinitesimalStrain(F)
		tr   = mat.Trace(eps)
		d, _ = eps.Dims()
	)
	P = mat.NewDense(d, d, nil)
	P.Scale(2*p.Mu, eps)
	for i := 0; i < d; i++ {
		P.Set(i, i, P.At(i, i)+p.Lambda*tr)
	}
	return
}

func (LinearElasticMaterial) StressContraction(F mat.Matrix, a, b []float64, p LameParameters) (C *mat.Dense, err error) {
	var (
		d  = squareDim(F)
		ab = dot(a, b)
	)
	C = mat.NewDense(d, d, nil)
	for i := 0; i < d; i++ {
		for k := 0; k < d; k++ {
			val := p.Mu*b[i]*a[k] + p.Lambda*a[i]*b[k]
			if i == k {
				val += p.Mu * ab
			}
			C.Set(i, k, val)
		}
	}
	return
}
