package InputParameters

import (
	"fmt"
	"strings"

	"github.com/ghodss/yaml"

	"github.com/notargets/femkit/element"
	"github.com/notargets/femkit/quadrature"
	"github.com/notargets/femkit/solid"
)

type MeshParameters struct {
	Element   string    `json:"Element"` // Segment2, Tri3, Quad4, Tet4 or Hex8
	Cells     []int     `json:"Cells"`   // Per direction
	Min       []float64 `json:"Min"`
	Max       []float64 `json:"Max"`
	Quadratic bool      `json:"Quadratic"` // Tri3 meshes only, converted to Tri6
}

type MaterialParameters struct {
	Model   string  `json:"Model"` // linear or neohookean
	Young   float64 `json:"Young"`
	Poisson float64 `json:"Poisson"`
	Density float64 `json:"Density"`
}

// Parameters obtained from the YAML input file
type InputParameters struct {
	Title              string             `json:"Title"`
	Problem            string             `json:"Problem"` // laplace, elasticity or mass
	Mesh               MeshParameters     `json:"Mesh"`
	Material           MaterialParameters `json:"Material"`
	Conductivity       float64            `json:"Conductivity"`
	QuadratureStrength int                `json:"QuadratureStrength"`
	ParallelDegree     int                `json:"ParallelDegree"`
	SkipFailedElements bool               `json:"SkipFailedElements"`
	ProbePoints        [][]float64        `json:"ProbePoints"`
}

const ExampleFile = `
########################################
Title: "Cantilever block"
Problem: elasticity # Can be "laplace" or "mass"
Mesh:
  Element: Tet4
  Cells: [8, 2, 2]
  Min: [0, 0, 0]
  Max: [4, 1, 1]
Material:
  Model: neohookean
  Young: 2.1e11
  Poisson: 0.3
  Density: 7850
QuadratureStrength: 2
ParallelDegree: 4
ProbePoints:
  - [2, 0.5, 0.5]
########################################
`

func (ip *InputParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

func (ip *InputParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("[%s]\t\t= Problem\n", ip.Problem)
	fmt.Printf("[%s] %v\t= Mesh Element, Cells\n", ip.Mesh.Element, ip.Mesh.Cells)
	fmt.Printf("%v - %v\t= Mesh Extent\n", ip.Mesh.Min, ip.Mesh.Max)
	if ip.Problem == "elasticity" {
		fmt.Printf("[%s]\t\t= Material Model\n", ip.Material.Model)
		fmt.Printf("%8.5g\t\t= Young's Modulus\n", ip.Material.Young)
		fmt.Printf("%8.5f\t\t= Poisson Ratio\n", ip.Material.Poisson)
	}
	fmt.Printf("[%d]\t\t\t= Quadrature Strength\n", ip.QuadratureStrength)
	fmt.Printf("[%d]\t\t\t= Parallel Degree\n", ip.ParallelDegree)
	for i, p := range ip.ProbePoints {
		fmt.Printf("ProbePoints[%d] = %v\n", i, p)
	}
}

// Dim is the geometry dimension the mesh description implies.
func (ip *InputParameters) Dim() int { return len(ip.Mesh.Cells) }

// Validate checks the parameters for consistency and fills defaults.
func (ip *InputParameters) Validate() (err error) {
	ip.Problem = strings.ToLower(ip.Problem)
	switch ip.Problem {
	case "laplace", "mass":
	case "elasticity":
		if _, err = solid.NewMaterial(ip.Material.Model); err != nil {
			return
		}
		if ip.Material.Young <= 0 || ip.Material.Poisson <= -1 || ip.Material.Poisson >= 0.5 {
			return fmt.Errorf("material needs Young > 0 and -1 < Poisson < 0.5, have %g, %g",
				ip.Material.Young, ip.Material.Poisson)
		}
	default:
		return fmt.Errorf("unknown problem %q, want laplace, elasticity or mass", ip.Problem)
	}
	var et element.ElementType
	if et, err = element.NewElementType(ip.Mesh.Element); err != nil {
		return
	}
	d := ip.Dim()
	if d < 1 || d > 3 {
		return fmt.Errorf("mesh needs 1 to 3 cell counts, have %d", d)
	}
	if element.Reference(et).ReferenceDim() != d {
		return fmt.Errorf("%v elements cannot fill a %d dimensional mesh", et, d)
	}
	if len(ip.Mesh.Min) != d || len(ip.Mesh.Max) != d {
		return fmt.Errorf("mesh extent needs %d coordinates, have %v and %v", d, ip.Mesh.Min, ip.Mesh.Max)
	}
	for i := 0; i < d; i++ {
		if ip.Mesh.Cells[i] < 1 || ip.Mesh.Max[i] <= ip.Mesh.Min[i] {
			return fmt.Errorf("mesh direction %d is empty", i)
		}
	}
	if et == element.Tri6 {
		return fmt.Errorf("Tri6 meshes are built from Tri3 with Quadratic: true")
	}
	if ip.Mesh.Quadratic && et != element.Tri3 {
		return fmt.Errorf("only Tri3 meshes can be made quadratic, have %v", et)
	}
	if ip.QuadratureStrength == 0 {
		ip.QuadratureStrength = 2
		if ip.Mesh.Quadratic {
			ip.QuadratureStrength = 4
		}
	}
	if ip.QuadratureStrength < 0 || ip.QuadratureStrength > quadrature.MaxStrength {
		return fmt.Errorf("%w: %d", quadrature.ErrUnsupportedStrength, ip.QuadratureStrength)
	}
	if ip.ParallelDegree < 1 {
		ip.ParallelDegree = 1
	}
	if ip.Conductivity == 0 {
		ip.Conductivity = 1
	}
	if ip.Material.Density == 0 {
		ip.Material.Density = 1
	}
	for i, p := range ip.ProbePoints {
		if len(p) != d {
			return fmt.Errorf("probe point %d has %d coordinates, mesh has %d", i, len(p), d)
		}
	}
	return
}

// ElementType is the parsed mesh element, valid after Validate.
func (ip *InputParameters) ElementType() element.ElementType {
	et, err := element.NewElementType(ip.Mesh.Element)
	if err != nil {
		panic(err)
	}
	return et
}

// Lame converts the material constants, valid after Validate.
func (ip *InputParameters) Lame() solid.LameParameters {
	return solid.YoungPoisson{Young: ip.Material.Young, Poisson: ip.Material.Poisson}.ToLame()
}
