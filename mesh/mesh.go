package mesh

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/notargets/femkit/element"
	"github.com/notargets/femkit/geometry"
)

// Face represents a face of an element
type Face struct {
	Vertices []int // Sorted vertex indices
	Element  int   // Parent element
	LocalID  int   // Local face ID within element
}

// Mesh is an unstructured mesh whose nodes are its vertices. It serves as a
// finite element space with one unknown per node.
type Mesh struct {
	// Geometry
	Vertices [][]float64 // Vertex coordinates [nvertices][dim]

	// Element data
	EtoV         [][]int               // Element to vertex connectivity [nelems][nverts_per_elem]
	ElementTypes []element.ElementType // Element type for each element

	// Connectivity (built during initialization)
	EToE [][]int // Element to element connectivity [nelems][nfaces_per_elem]
	EToF [][]int // Neighbor's local face index [nelems][nfaces_per_elem]

	// Face data
	Faces   []Face         // All unique faces in mesh
	FaceMap map[string]int // Map from sorted vertex string to face ID

	// Mesh statistics
	K           int // Number of elements
	NumVertices int
	NumFaces    int

	dim, refDim int
	elements    []*element.FixedElement
}

// NewMesh validates the element definitions, places every element in space
// and builds connectivity. All elements must share a reference dimension.
func NewMesh(vertices [][]float64, EtoV [][]int, elementTypes []element.ElementType) (m *Mesh, err error) {
	if len(EtoV) != len(elementTypes) {
		err = fmt.Errorf("have %d element connectivities and %d element types", len(EtoV), len(elementTypes))
		return
	}
	m = &Mesh{
		Vertices:     vertices,
		EtoV:         EtoV,
		ElementTypes: elementTypes,
		FaceMap:      make(map[string]int),
		K:            len(EtoV),
		NumVertices:  len(vertices),
		elements:     make([]*element.FixedElement, len(EtoV)),
	}
	if len(vertices) != 0 {
		m.dim = len(vertices[0])
	}
	for k, verts := range EtoV {
		ref := element.Reference(elementTypes[k])
		if k == 0 {
			m.refDim = ref.ReferenceDim()
		} else if ref.ReferenceDim() != m.refDim {
			err = fmt.Errorf("element %d is %v, mesh reference dimension is %d", k, elementTypes[k], m.refDim)
			return
		}
		coords := make([][]float64, len(verts))
		for i, v := range verts {
			if v < 0 || v >= m.NumVertices {
				err = fmt.Errorf("element %d references vertex %d, have %d vertices", k, v, m.NumVertices)
				return
			}
			coords[i] = vertices[v]
		}
		if m.elements[k], err = element.NewFixedElement(elementTypes[k], coords); err != nil {
			err = fmt.Errorf("element %d: %w", k, err)
			return
		}
	}
	m.BuildConnectivity()
	return
}

// BuildConnectivity builds element-to-element and face connectivity
func (m *Mesh) BuildConnectivity() {
	m.EToE = make([][]int, m.K)
	m.EToF = make([][]int, m.K)
	m.Faces = m.Faces[:0]
	m.FaceMap = make(map[string]int)

	for elemID := 0; elemID < m.K; elemID++ {
		faceVertices := GetElementFaces(m.ElementTypes[elemID], m.EtoV[elemID])

		m.EToE[elemID] = make([]int, len(faceVertices))
		m.EToF[elemID] = make([]int, len(faceVertices))
		// Initialize to -1 (boundary)
		for i := range m.EToE[elemID] {
			m.EToE[elemID][i] = -1
			m.EToF[elemID][i] = -1
		}

		for localFaceID, faceVerts := range faceVertices {
			sorted := make([]int, len(faceVerts))
			copy(sorted, faceVerts)
			sort.Ints(sorted)
			key := fmt.Sprintf("%v", sorted)

			if faceID, exists := m.FaceMap[key]; exists {
				// Interior face, connect both sides to each other's local face
				face := &m.Faces[faceID]
				neighborElem, neighborLocalID := face.Element, face.LocalID
				m.EToE[elemID][localFaceID] = neighborElem
				m.EToE[neighborElem][neighborLocalID] = elemID
				m.EToF[elemID][localFaceID] = neighborLocalID
				m.EToF[neighborElem][neighborLocalID] = localFaceID
			} else {
				m.FaceMap[key] = len(m.Faces)
				m.Faces = append(m.Faces, Face{
					Vertices: sorted,
					Element:  elemID,
					LocalID:  localFaceID,
				})
			}
		}
	}
	m.NumFaces = len(m.Faces)
}

// GetElementFaces returns the face vertices for each element type. Faces of
// quadratic elements are given by their vertices only.
func GetElementFaces(elemType element.ElementType, vertices []int) [][]int {
	switch elemType {
	case element.Segment2:
		return [][]int{{vertices[0]}, {vertices[1]}}
	case element.Tri3, element.Tri6:
		return [][]int{
			{vertices[0], vertices[1]},
			{vertices[1], vertices[2]},
			{vertices[2], vertices[0]},
		}
	case element.Quad4:
		return [][]int{
			{vertices[0], vertices[1]},
			{vertices[1], vertices[2]},
			{vertices[2], vertices[3]},
			{vertices[3], vertices[0]},
		}
	case element.Tet4:
		return [][]int{
			{vertices[0], vertices[2], vertices[1]}, // Face 0
			{vertices[0], vertices[1], vertices[3]}, // Face 1
			{vertices[1], vertices[2], vertices[3]}, // Face 2
			{vertices[0], vertices[3], vertices[2]}, // Face 3
		}
	case element.Hex8:
		return [][]int{
			{vertices[0], vertices[3], vertices[2], vertices[1]}, // Face 0 (bottom)
			{vertices[4], vertices[5], vertices[6], vertices[7]}, // Face 1 (top)
			{vertices[0], vertices[1], vertices[5], vertices[4]}, // Face 2
			{vertices[1], vertices[2], vertices[6], vertices[5]}, // Face 3
			{vertices[2], vertices[3], vertices[7], vertices[6]}, // Face 4
			{vertices[3], vertices[0], vertices[4], vertices[7]}, // Face 5
		}
	default:
		return [][]int{}
	}
}

// BoundaryVertices lists, in ascending order, the vertices on faces without a
// neighbor.
func (m *Mesh) BoundaryVertices() (verts []int) {
	onBoundary := make(map[int]bool)
	for k := 0; k < m.K; k++ {
		faces := GetElementFaces(m.ElementTypes[k], m.EtoV[k])
		for f, nbr := range m.EToE[k] {
			if nbr < 0 {
				for _, v := range faces[f] {
					onBoundary[v] = true
				}
			}
		}
	}
	for v := range onBoundary {
		verts = append(verts, v)
	}
	sort.Ints(verts)
	return
}

// BoundingBox of all vertices
func (m *Mesh) BoundingBox() geometry.BoundingBox {
	return geometry.NewBoundingBox(m.Vertices)
}

// PrintStatistics prints mesh statistics
func (m *Mesh) PrintStatistics() {
	fmt.Printf("Mesh Statistics:\n")
	fmt.Printf("  Dimension: %d\n", m.dim)
	fmt.Printf("  Vertices: %d\n", m.NumVertices)
	fmt.Printf("  Elements: %d\n", m.K)
	fmt.Printf("  Faces: %d\n", m.NumFaces)

	typeCounts := make(map[element.ElementType]int)
	for _, t := range m.ElementTypes {
		typeCounts[t]++
	}
	fmt.Printf("  Element types:\n")
	for t, count := range typeCounts {
		fmt.Printf("    %s: %d\n", t, count)
	}

	boundaryFaces := 0
	for i := 0; i < m.K; i++ {
		for _, neighbor := range m.EToE[i] {
			if neighbor < 0 {
				boundaryFaces++
			}
		}
	}
	fmt.Printf("  Boundary faces: %d\n", boundaryFaces)
}

func (m *Mesh) checkElement(elementIndex int) {
	if elementIndex < 0 || elementIndex >= m.K {
		panic(fmt.Errorf("element index %d out of range [0, %d)", elementIndex, m.K))
	}
}

// Element returns the placed element, for callers needing more than the space
// queries.
func (m *Mesh) Element(elementIndex int) *element.FixedElement {
	m.checkElement(elementIndex)
	return m.elements[elementIndex]
}

func (m *Mesh) SolutionDim() int { return 1 }
func (m *Mesh) NumElements() int { return m.K }
func (m *Mesh) NumNodes() int    { return m.NumVertices }
func (m *Mesh) GeometryDim() int { return m.dim }
func (m *Mesh) ReferenceDim() int {
	return m.refDim
}

func (m *Mesh) ElementNodeCount(elementIndex int) int {
	m.checkElement(elementIndex)
	return len(m.EtoV[elementIndex])
}

func (m *Mesh) PopulateElementNodes(out []int, elementIndex int) {
	m.checkElement(elementIndex)
	if len(out) != len(m.EtoV[elementIndex]) {
		panic(fmt.Errorf("element %d has %d nodes, output holds %d",
			elementIndex, len(m.EtoV[elementIndex]), len(out)))
	}
	copy(out, m.EtoV[elementIndex])
}

func (m *Mesh) ElementType(elementIndex int) element.ElementType {
	m.checkElement(elementIndex)
	return m.ElementTypes[elementIndex]
}

func (m *Mesh) PopulateElementBasis(elementIndex int, out []float64, xi []float64) {
	m.Element(elementIndex).Ref.PopulateBasis(out, xi)
}

func (m *Mesh) PopulateElementGradients(elementIndex int, out *mat.Dense, xi []float64) {
	m.Element(elementIndex).Ref.PopulateGradients(out, xi)
}

func (m *Mesh) ElementReferenceJacobian(elementIndex int, xi []float64) *mat.Dense {
	return m.Element(elementIndex).ReferenceJacobian(xi)
}

func (m *Mesh) MapElementReferenceCoords(elementIndex int, xi []float64) []float64 {
	return m.Element(elementIndex).MapReferenceCoords(xi)
}

func (m *Mesh) Diameter(elementIndex int) float64 {
	return m.Element(elementIndex).Diameter()
}

func (m *Mesh) ElementBoundingBox(elementIndex int) geometry.BoundingBox {
	return m.Element(elementIndex).BoundingBox()
}

func (m *Mesh) ClosestPointInElement(elementIndex int, p []float64) (xi []float64, dist float64) {
	return m.Element(elementIndex).ClosestPoint(p)
}
