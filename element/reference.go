package element

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/notargets/femkit/quadrature"
)

type segment2 struct{}

func (segment2) Type() ElementType                       { return Segment2 }
func (segment2) Shape() quadrature.Shape                 { return quadrature.Segment }
func (segment2) ReferenceDim() int                       { return 1 }
func (segment2) NumNodes() int                           { return 2 }
func (segment2) Nodes() [][]float64                      { return [][]float64{{-1}, {1}} }
func (segment2) Centroid() []float64                     { return []float64{0} }
func (segment2) Project(xi []float64)                    { projectBox(xi) }
func (segment2) Contains(xi []float64, tol float64) bool { return inBox(xi, tol) }

func (re segment2) PopulateBasis(out []float64, xi []float64) {
	checkBasisArgs(re, len(out), xi)
	out[0] = 0.5 * (1 - xi[0])
	out[1] = 0.5 * (1 + xi[0])
}

func (re segment2) PopulateGradients(out *mat.Dense, xi []float64) {
	checkGradientArgs(re, out, xi)
	out.Set(0, 0, -0.5)
	out.Set(0, 1, 0.5)
}

type quad4 struct{}

var quad4Signs = [4][2]float64{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}

func (quad4) Type() ElementType                       { return Quad4 }
func (quad4) Shape() quadrature.Shape                 { return quadrature.Quadrilateral }
func (quad4) ReferenceDim() int                       { return 2 }
func (quad4) NumNodes() int                           { return 4 }
func (quad4) Centroid() []float64                     { return []float64{0, 0} }
func (quad4) Project(xi []float64)                    { projectBox(xi) }
func (quad4) Contains(xi []float64, tol float64) bool { return inBox(xi, tol) }

func (quad4) Nodes() (nodes [][]float64) {
	for _, s := range quad4Signs {
		nodes = append(nodes, []float64{s[0], s[1]})
	}
	return
}

func (re quad4) PopulateBasis(out []float64, xi []float64) {
	checkBasisArgs(re, len(out), xi)
	for i, s := range quad4Signs {
		out[i] = 0.25 * (1 + s[0]*xi[0]) * (1 + s[1]*xi[1])
	}
}

func (re quad4) PopulateGradients(out *mat.Dense, xi []float64) {
	checkGradientArgs(re, out, xi)
	for i, s := range quad4Signs {
		out.Set(0, i, 0.25*s[0]*(1+s[1]*xi[1]))
		out.Set(1, i, 0.25*s[1]*(1+s[0]*xi[0]))
	}
}

type hex8 struct{}

var hex8Signs = [8][3]float64{
	{-1, -1, -1}, {1, -1, -1}, {1, 1, -1}, {-1, 1, -1},
	{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1},
}

func (hex8) Type() ElementType                       { return Hex8 }
func (hex8) Shape() quadrature.Shape                 { return quadrature.Hexahedron }
func (hex8) ReferenceDim() int                       { return 3 }
func (hex8) NumNodes() int                           { return 8 }
func (hex8) Centroid() []float64                     { return []float64{0, 0, 0} }
func (hex8) Project(xi []float64)                    { projectBox(xi) }
func (hex8) Contains(xi []float64, tol float64) bool { return inBox(xi, tol) }

func (hex8) Nodes() (nodes [][]float64) {
	for _, s := range hex8Signs {
		nodes = append(nodes, []float64{s[0], s[1], s[2]})
	}
	return
}

func (re hex8) PopulateBasis(out []float64, xi []float64) {
	checkBasisArgs(re, len(out), xi)
	for i, s := range hex8Signs {
		out[i] = 0.125 * (1 + s[0]*xi[0]) * (1 + s[1]*xi[1]) * (1 + s[2]*xi[2])
	}
}

func (re hex8) PopulateGradients(out *mat.Dense, xi []float64) {
	checkGradientArgs(re, out, xi)
	for i, s := range hex8Signs {
		var (
			fr = 1 + s[0]*xi[0]
			fs = 1 + s[1]*xi[1]
			ft = 1 + s[2]*xi[2]
		)
		out.Set(0, i, 0.125*s[0]*fs*ft)
		out.Set(1, i, 0.125*s[1]*fr*ft)
		out.Set(2, i, 0.125*s[2]*fr*fs)
	}
}

type tri3 struct{}

func (tri3) Type() ElementType                       { return Tri3 }
func (tri3) Shape() quadrature.Shape                 { return quadrature.Triangle }
func (tri3) ReferenceDim() int                       { return 2 }
func (tri3) NumNodes() int                           { return 3 }
func (tri3) Nodes() [][]float64                      { return [][]float64{{-1, -1}, {1, -1}, {-1, 1}} }
func (tri3) Centroid() []float64                     { return []float64{-1. / 3., -1. / 3.} }
func (tri3) Project(xi []float64)                    { projectSimplex(xi) }
func (tri3) Contains(xi []float64, tol float64) bool { return inSimplex(xi, tol) }

func (re tri3) PopulateBasis(out []float64, xi []float64) {
	checkBasisArgs(re, len(out), xi)
	out[0] = -0.5 * (xi[0] + xi[1])
	out[1] = 0.5 * (1 + xi[0])
	out[2] = 0.5 * (1 + xi[1])
}

func (re tri3) PopulateGradients(out *mat.Dense, xi []float64) {
	checkGradientArgs(re, out, xi)
	out.Set(0, 0, -0.5)
	out.Set(1, 0, -0.5)
	out.Set(0, 1, 0.5)
	out.Set(1, 1, 0)
	out.Set(0, 2, 0)
	out.Set(1, 2, 0.5)
}

// tri6 numbers the vertices first, then the midpoints of edges 0-1, 1-2, 2-0.
type tri6 struct{}

var tri6Edges = [3][2]int{{0, 1}, {1, 2}, {2, 0}}

func (tri6) Type() ElementType                       { return Tri6 }
func (tri6) Shape() quadrature.Shape                 { return quadrature.Triangle }
func (tri6) ReferenceDim() int                       { return 2 }
func (tri6) NumNodes() int                           { return 6 }
func (tri6) Centroid() []float64                     { return []float64{-1. / 3., -1. / 3.} }
func (tri6) Project(xi []float64)                    { projectSimplex(xi) }
func (tri6) Contains(xi []float64, tol float64) bool { return inSimplex(xi, tol) }

func (tri6) Nodes() [][]float64 {
	return [][]float64{{-1, -1}, {1, -1}, {-1, 1}, {0, -1}, {0, 0}, {-1, 0}}
}

func (re tri6) PopulateBasis(out []float64, xi []float64) {
	checkBasisArgs(re, len(out), xi)
	l := [3]float64{-0.5 * (xi[0] + xi[1]), 0.5 * (1 + xi[0]), 0.5 * (1 + xi[1])}
	for i := 0; i < 3; i++ {
		out[i] = l[i] * (2*l[i] - 1)
	}
	for k, e := range tri6Edges {
		out[3+k] = 4 * l[e[0]] * l[e[1]]
	}
}

func (re tri6) PopulateGradients(out *mat.Dense, xi []float64) {
	checkGradientArgs(re, out, xi)
	var (
		l  = [3]float64{-0.5 * (xi[0] + xi[1]), 0.5 * (1 + xi[0]), 0.5 * (1 + xi[1])}
		dl = [3][2]float64{{-0.5, -0.5}, {0.5, 0}, {0, 0.5}}
	)
	for i := 0; i < 3; i++ {
		for d := 0; d < 2; d++ {
			out.Set(d, i, (4*l[i]-1)*dl[i][d])
		}
	}
	for k, e := range tri6Edges {
		for d := 0; d < 2; d++ {
			out.Set(d, 3+k, 4*(dl[e[0]][d]*l[e[1]]+l[e[0]]*dl[e[1]][d]))
		}
	}
}

type tet4 struct{}

func (tet4) Type() ElementType                       { return Tet4 }
func (tet4) Shape() quadrature.Shape                 { return quadrature.Tetrahedron }
func (tet4) ReferenceDim() int                       { return 3 }
func (tet4) NumNodes() int                           { return 4 }
func (tet4) Centroid() []float64                     { return []float64{-0.5, -0.5, -0.5} }
func (tet4) Project(xi []float64)                    { projectSimplex(xi) }
func (tet4) Contains(xi []float64, tol float64) bool { return inSimplex(xi, tol) }

func (tet4) Nodes() [][]float64 {
	return [][]float64{{-1, -1, -1}, {1, -1, -1}, {-1, 1, -1}, {-1, -1, 1}}
}

func (re tet4) PopulateBasis(out []float64, xi []float64) {
	checkBasisArgs(re, len(out), xi)
	out[0] = -0.5 * (1 + xi[0] + xi[1] + xi[2])
	out[1] = 0.5 * (1 + xi[0])
	out[2] = 0.5 * (1 + xi[1])
	out[3] = 0.5 * (1 + xi[2])
}

func (re tet4) PopulateGradients(out *mat.Dense, xi []float64) {
	checkGradientArgs(re, out, xi)
	out.Zero()
	for d := 0; d < 3; d++ {
		out.Set(d, 0, -0.5)
		out.Set(d, d+1, 0.5)
	}
}

func projectBox(xi []float64) {
	for i, v := range xi {
		xi[i] = math.Max(-1, math.Min(1, v))
	}
}

func inBox(xi []float64, tol float64) bool {
	for _, v := range xi {
		if v < -1-tol || v > 1+tol {
			return false
		}
	}
	return true
}

func inSimplex(xi []float64, tol float64) bool {
	var sum float64
	for _, v := range xi {
		mu := 0.5 * (v + 1)
		if mu < -tol {
			return false
		}
		sum += mu
	}
	return sum <= 1+tol
}
