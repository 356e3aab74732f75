package mesh

import (
	"fmt"

	"github.com/notargets/femkit/element"
	"github.com/notargets/femkit/types"
)

// NewLineMesh divides [x0, x1] into n segments.
func NewLineMesh(n int, x0, x1 float64) (m *Mesh, err error) {
	if n < 1 {
		err = fmt.Errorf("line mesh needs at least one element, have %d", n)
		return
	}
	var (
		vertices = make([][]float64, n+1)
		EtoV     = make([][]int, n)
		ets      = make([]element.ElementType, n)
		dx       = (x1 - x0) / float64(n)
	)
	for i := range vertices {
		vertices[i] = []float64{x0 + float64(i)*dx}
	}
	for k := range EtoV {
		EtoV[k] = []int{k, k + 1}
		ets[k] = element.Segment2
	}
	return NewMesh(vertices, EtoV, ets)
}

// NewRectangleMesh covers [min, max] with nx by ny cells, each a Quad4 or a
// pair of counterclockwise Tri3.
func NewRectangleMesh(nx, ny int, min, max [2]float64, et element.ElementType) (m *Mesh, err error) {
	if nx < 1 || ny < 1 {
		err = fmt.Errorf("rectangle mesh needs at least one cell per direction, have %dx%d", nx, ny)
		return
	}
	var (
		vertices [][]float64
		EtoV     [][]int
		ets      []element.ElementType
		dx       = (max[0] - min[0]) / float64(nx)
		dy       = (max[1] - min[1]) / float64(ny)
		vert     = func(i, j int) int { return j*(nx+1) + i }
	)
	for j := 0; j <= ny; j++ {
		for i := 0; i <= nx; i++ {
			vertices = append(vertices, []float64{min[0] + float64(i)*dx, min[1] + float64(j)*dy})
		}
	}
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			v00, v10, v11, v01 := vert(i, j), vert(i+1, j), vert(i+1, j+1), vert(i, j+1)
			switch et {
			case element.Quad4:
				EtoV = append(EtoV, []int{v00, v10, v11, v01})
				ets = append(ets, element.Quad4)
			case element.Tri3:
				EtoV = append(EtoV, []int{v00, v10, v11}, []int{v00, v11, v01})
				ets = append(ets, element.Tri3, element.Tri3)
			default:
				err = fmt.Errorf("rectangle mesh cannot use %v elements", et)
				return
			}
		}
	}
	return NewMesh(vertices, EtoV, ets)
}

// kuhnPaths lists the axis orderings of the six Kuhn tetrahedra of a cube.
var kuhnPaths = [6][3]int{{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0}}

// NewBoxMesh covers [min, max] with nx by ny by nz cells, each a Hex8 or six
// positively oriented Tet4.
func NewBoxMesh(nx, ny, nz int, min, max [3]float64, et element.ElementType) (m *Mesh, err error) {
	if nx < 1 || ny < 1 || nz < 1 {
		err = fmt.Errorf("box mesh needs at least one cell per direction, have %dx%dx%d", nx, ny, nz)
		return
	}
	if et != element.Hex8 && et != element.Tet4 {
		err = fmt.Errorf("box mesh cannot use %v elements", et)
		return
	}
	var (
		vertices [][]float64
		EtoV     [][]int
		ets      []element.ElementType
		n        = [3]int{nx, ny, nz}
		h        [3]float64
		vert     = func(i, j, k int) int { return (k*(ny+1)+j)*(nx+1) + i }
	)
	for d := 0; d < 3; d++ {
		h[d] = (max[d] - min[d]) / float64(n[d])
	}
	for k := 0; k <= nz; k++ {
		for j := 0; j <= ny; j++ {
			for i := 0; i <= nx; i++ {
				vertices = append(vertices, []float64{
					min[0] + float64(i)*h[0], min[1] + float64(j)*h[1], min[2] + float64(k)*h[2]})
			}
		}
	}
	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				if et == element.Hex8 {
					EtoV = append(EtoV, []int{
						vert(i, j, k), vert(i+1, j, k), vert(i+1, j+1, k), vert(i, j+1, k),
						vert(i, j, k+1), vert(i+1, j, k+1), vert(i+1, j+1, k+1), vert(i, j+1, k+1),
					})
					ets = append(ets, element.Hex8)
					continue
				}
				for _, path := range kuhnPaths {
					var (
						c    = [3]int{i, j, k}
						tet  = []int{vert(c[0], c[1], c[2])}
						xyz  = [][]float64{vertices[tet[0]]}
						last int
					)
					for _, axis := range path {
						c[axis]++
						last = vert(c[0], c[1], c[2])
						tet = append(tet, last)
						xyz = append(xyz, vertices[last])
					}
					if signedVolume(xyz) < 0 {
						tet[1], tet[2] = tet[2], tet[1]
					}
					EtoV = append(EtoV, tet)
					ets = append(ets, element.Tet4)
				}
			}
		}
	}
	return NewMesh(vertices, EtoV, ets)
}

func signedVolume(x [][]float64) float64 {
	var a, b, c [3]float64
	for d := 0; d < 3; d++ {
		a[d] = x[1][d] - x[0][d]
		b[d] = x[2][d] - x[0][d]
		c[d] = x[3][d] - x[0][d]
	}
	return (a[0]*(b[1]*c[2]-b[2]*c[1]) - a[1]*(b[0]*c[2]-b[2]*c[0]) + a[2]*(b[0]*c[1]-b[1]*c[0])) / 6
}

// ToQuadratic returns a Tri6 mesh with a new node at the midpoint of every
// unique edge of this Tri3 mesh. Vertex numbering is preserved and edge nodes
// follow in order of first appearance.
func (m *Mesh) ToQuadratic() (q *Mesh, err error) {
	var (
		edges    = types.NewEdgeSet(3 * m.K / 2)
		EtoV     = make([][]int, m.K)
		ets      = make([]element.ElementType, m.K)
		vertices = append([][]float64(nil), m.Vertices...)
	)
	for k, verts := range m.EtoV {
		if m.ElementTypes[k] != element.Tri3 {
			err = fmt.Errorf("element %d is %v, only Tri3 meshes can be made quadratic", k, m.ElementTypes[k])
			return
		}
		nodes := append([]int(nil), verts...)
		for _, e := range [3][2]int{{0, 1}, {1, 2}, {2, 0}} {
			v0, v1 := verts[e[0]], verts[e[1]]
			edgeNum, added := edges.Add(v0, v1)
			if added {
				mid := make([]float64, m.dim)
				for d := range mid {
					mid[d] = 0.5 * (m.Vertices[v0][d] + m.Vertices[v1][d])
				}
				vertices = append(vertices, mid)
			}
			nodes = append(nodes, m.NumVertices+edgeNum)
		}
		EtoV[k] = nodes
		ets[k] = element.Tri6
	}
	return NewMesh(vertices, EtoV, ets)
}
