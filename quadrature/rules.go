package quadrature

import (
	"errors"
	"fmt"
)

var ErrUnsupportedStrength = errors.New("quadrature: unsupported strength")

// MaxStrength is the highest polynomial degree a rule can be requested for.
const MaxStrength = 40

type Shape uint8

const (
	Segment Shape = iota
	Triangle
	Quadrilateral
	Tetrahedron
	Hexahedron
)

func (s Shape) String() string {
	switch s {
	case Segment:
		return "Segment"
	case Triangle:
		return "Triangle"
	case Quadrilateral:
		return "Quadrilateral"
	case Tetrahedron:
		return "Tetrahedron"
	case Hexahedron:
		return "Hexahedron"
	}
	return fmt.Sprintf("Shape(%d)", uint8(s))
}

func (s Shape) Dim() int {
	switch s {
	case Segment:
		return 1
	case Triangle, Quadrilateral:
		return 2
	}
	return 3
}

// Rule is a set of weighted points on a reference shape.
type Rule struct {
	Weights []float64
	Points  [][]float64
}

func (r Rule) Len() int { return len(r.Weights) }

func (r Rule) Dim() int {
	if len(r.Points) == 0 {
		return 0
	}
	return len(r.Points[0])
}

func (r Rule) Integrate(f func(x []float64) float64) (sum float64) {
	for i, w := range r.Weights {
		sum += w * f(r.Points[i])
	}
	return
}

func (r *Rule) add(w float64, pt ...float64) {
	r.Weights = append(r.Weights, w)
	r.Points = append(r.Points, pt)
}

func pointsForStrength(strength int) (n int, err error) {
	if strength < 0 || strength > MaxStrength {
		err = fmt.Errorf("%w: %d (supported 0..%d)", ErrUnsupportedStrength, strength, MaxStrength)
		return
	}
	n = strength/2 + 1
	return
}

// ForShape returns a rule integrating polynomials of total degree strength
// exactly on the reference shape.
func ForShape(shape Shape, strength int) (r Rule, err error) {
	switch shape {
	case Segment:
		return SegmentRule(strength)
	case Triangle:
		return TriangleRule(strength)
	case Quadrilateral:
		return QuadrilateralRule(strength)
	case Tetrahedron:
		return TetrahedronRule(strength)
	case Hexahedron:
		return HexahedronRule(strength)
	}
	err = fmt.Errorf("quadrature: unknown shape %v", shape)
	return
}

// SegmentRule integrates over [-1,1].
func SegmentRule(strength int) (r Rule, err error) {
	var n int
	if n, err = pointsForStrength(strength); err != nil {
		return
	}
	x, w := Gauss(n)
	for i := range x {
		r.add(w[i], x[i])
	}
	return
}

// QuadrilateralRule integrates over [-1,1]^2.
func QuadrilateralRule(strength int) (r Rule, err error) {
	var n int
	if n, err = pointsForStrength(strength); err != nil {
		return
	}
	x, w := Gauss(n)
	for j := range x {
		for i := range x {
			r.add(w[i]*w[j], x[i], x[j])
		}
	}
	return
}

// HexahedronRule integrates over [-1,1]^3.
func HexahedronRule(strength int) (r Rule, err error) {
	var n int
	if n, err = pointsForStrength(strength); err != nil {
		return
	}
	x, w := Gauss(n)
	for k := range x {
		for j := range x {
			for i := range x {
				r.add(w[i]*w[j]*w[k], x[i], x[j], x[k])
			}
		}
	}
	return
}

// TriangleRule integrates over the triangle (-1,-1), (1,-1), (-1,1) using the
// collapsed map r = (1+a)(1-b)/2 - 1, s = b.
func TriangleRule(strength int) (r Rule, err error) {
	var n int
	if n, err = pointsForStrength(strength); err != nil {
		return
	}
	a, wa := Gauss(n)
	b, wb := GaussJacobi(1, 0, n)
	for j := range b {
		for i := range a {
			r.add(0.5*wa[i]*wb[j],
				0.5*(1+a[i])*(1-b[j])-1,
				b[j])
		}
	}
	return
}

// TetrahedronRule integrates over the tetrahedron (-1,-1,-1), (1,-1,-1),
// (-1,1,-1), (-1,-1,1) using the collapsed Duffy map.
func TetrahedronRule(strength int) (r Rule, err error) {
	var n int
	if n, err = pointsForStrength(strength); err != nil {
		return
	}
	a, wa := Gauss(n)
	b, wb := GaussJacobi(1, 0, n)
	c, wc := GaussJacobi(2, 0, n)
	for k := range c {
		for j := range b {
			for i := range a {
				r.add(0.125*wa[i]*wb[j]*wc[k],
					0.25*(1+a[i])*(1-b[j])*(1-c[k])-1,
					0.5*(1+b[j])*(1-c[k])-1,
					c[k])
			}
		}
	}
	return
}
