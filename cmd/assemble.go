/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"log"
	"math"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gonum.org/v1/gonum/floats"

	"github.com/notargets/femkit/InputParameters"
	"github.com/notargets/femkit/assembly"
	"github.com/notargets/femkit/interpolate"
	"github.com/notargets/femkit/mesh"
	"github.com/notargets/femkit/solid"
	"github.com/notargets/femkit/utils"
)

type AssembleRun struct {
	ICFile         string
	ParallelDegree int // Overrides the input file when positive
	Perf           bool
}

// AssemblySummary collects what an assembly run produced.
type AssemblySummary struct {
	NumElements, NumNodes, NumDOF int
	NNZ                           int
	Colors                        int
	Symmetric                     bool
	Scalar                        float64 // Energy, or total mass for mass problems
	ResidualNorm                  float64
	Probes                        []float64
	Skipped                       []int
	Elapsed                       time.Duration
}

// fullAssembler is implemented by every element assembler a problem uses.
type fullAssembler interface {
	assembly.ElementMatrixAssembler
	assembly.ElementVectorAssembler
	assembly.ElementScalarAssembler
}

// AssembleCmd represents the assemble command
var AssembleCmd = &cobra.Command{
	Use:   "assemble",
	Short: "Assemble the global operators of a problem described in a YAML file",
	Long: `
Builds the mesh described in the input file, assembles the global matrix,
vector and scalar of the chosen problem and interpolates the state at the
probe points.

femkit assemble -I problem.yaml -p 8`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			err error
		)
		ar := &AssembleRun{}
		if ar.ICFile, err = cmd.Flags().GetString("inputConditionsFile"); err != nil {
			panic(err)
		}
		ar.ParallelDegree = viper.GetInt("parallel")
		ar.Perf, _ = cmd.Flags().GetBool("perf")
		ip := processAssembleInput(ar)
		ip.Print()
		var summary *AssemblySummary
		if ar.Perf {
			var cycles uint64
			cycles, err = countCycles(func() (err error) {
				summary, err = RunAssemble(ip)
				return
			})
			if err == nil {
				fmt.Printf("%d\t\t= CPU Cycles\n", cycles)
			}
		} else {
			summary, err = RunAssemble(ip)
		}
		if err != nil {
			panic(err)
		}
		summary.Print()
		fmt.Println(utils.GetMemUsage())
	},
}

func init() {
	rootCmd.AddCommand(AssembleCmd)
	AssembleCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file for the problem description")
	AssembleCmd.Flags().IntP("parallel", "p", 0, "number of goroutines assembling elements, overrides ParallelDegree")
	AssembleCmd.Flags().Bool("perf", false, "count CPU cycles spent assembling (linux only)")
	if err := viper.BindPFlag("parallel", AssembleCmd.Flags().Lookup("parallel")); err != nil {
		panic(err)
	}
}

func processAssembleInput(ar *AssembleRun) (ip *InputParameters.InputParameters) {
	var (
		err error
	)
	if len(ar.ICFile) == 0 {
		fmt.Printf("error: must supply an input parameters file (-I, --inputConditionsFile)\n")
		fmt.Printf("Example File:%s\n", InputParameters.ExampleFile)
		os.Exit(1)
	}
	var data []byte
	if data, err = os.ReadFile(ar.ICFile); err != nil {
		panic(err)
	}
	ip = &InputParameters.InputParameters{}
	if err = ip.Parse(data); err != nil {
		panic(err)
	}
	if ar.ParallelDegree > 0 {
		ip.ParallelDegree = ar.ParallelDegree
	}
	if err = ip.Validate(); err != nil {
		panic(err)
	}
	return
}

// BuildMesh generates the structured mesh an input file describes.
func BuildMesh(ip *InputParameters.InputParameters) (m *mesh.Mesh, err error) {
	var (
		N, lo, hi = ip.Mesh.Cells, ip.Mesh.Min, ip.Mesh.Max
		et        = ip.ElementType()
	)
	switch ip.Dim() {
	case 1:
		m, err = mesh.NewLineMesh(N[0], lo[0], hi[0])
	case 2:
		m, err = mesh.NewRectangleMesh(N[0], N[1], [2]float64{lo[0], lo[1]}, [2]float64{hi[0], hi[1]}, et)
	case 3:
		m, err = mesh.NewBoxMesh(N[0], N[1], N[2],
			[3]float64{lo[0], lo[1], lo[2]}, [3]float64{hi[0], hi[1], hi[2]}, et)
	default:
		err = fmt.Errorf("no mesh generator for dimension %d", ip.Dim())
	}
	if err != nil || !ip.Mesh.Quadratic {
		return
	}
	return m.ToQuadratic()
}

// problemState is the nodal state assembled around: a unit gradient field
// for laplace, a uniform 0.1% stretch along the first axis for elasticity
// and ones for mass.
func problemState(ip *InputParameters.InputParameters, m *mesh.Mesh, sd int) (u []float64) {
	if ip.Problem == "mass" {
		return utils.ConstArray(m.NumVertices*sd, 1)
	}
	u = make([]float64, m.NumVertices*sd)
	for n, x := range m.Vertices {
		switch ip.Problem {
		case "laplace":
			u[n] = floats.Sum(x)
		case "elasticity":
			u[n*sd] = 1.e-3 * x[0]
		}
	}
	return
}

func problemAssembler(ip *InputParameters.InputParameters, m *mesh.Mesh, qt assembly.QuadratureTable) (a fullAssembler, u []float64, err error) {
	switch ip.Problem {
	case "laplace":
		u = problemState(ip, m, 1)
		a, err = assembly.NewElementEllipticAssembler(m, qt, assembly.LaplaceOperator{Conductivity: ip.Conductivity}, u)
	case "elasticity":
		var material solid.HyperelasticMaterial
		if material, err = solid.NewMaterial(ip.Material.Model); err != nil {
			return
		}
		op := assembly.HyperelasticOperator{Material: material, Parameters: ip.Lame(), Dim: ip.Dim()}
		u = problemState(ip, m, ip.Dim())
		a, err = assembly.NewElementEllipticAssembler(m, qt, op, u)
	case "mass":
		u = problemState(ip, m, 1)
		a = assembly.NewElementMassAssembler(m, qt, 1, ip.Material.Density)
	default:
		err = fmt.Errorf("unknown problem %q", ip.Problem)
	}
	return
}

// RunAssemble assembles the problem of a validated input description.
func RunAssemble(ip *InputParameters.InputParameters) (s *AssemblySummary, err error) {
	start := time.Now()
	m, err := BuildMesh(ip)
	if err != nil {
		return
	}
	m.PrintStatistics()
	qt, err := assembly.NewQuadratureTableFromStrength(m, ip.QuadratureStrength)
	if err != nil {
		return
	}
	a, u, err := problemAssembler(ip, m, qt)
	if err != nil {
		return
	}
	s = &AssemblySummary{
		NumElements: m.NumElements(),
		NumNodes:    m.NumVertices,
		NumDOF:      m.NumVertices * a.SolutionDim(),
		Colors:      len(assembly.ColorElements(m)),
	}
	ga := assembly.NewGlobalAssembler(ip.ParallelDegree)
	if ip.SkipFailedElements {
		ga.Policy = assembly.SkipFailedElements
		ga.OnElementError = func(ee *assembly.ElementError) {
			log.Printf("skipping %v", ee)
			s.Skipped = append(s.Skipped, ee.Element)
		}
	}
	log.Printf("assembling %s on %d elements with %d goroutines", ip.Problem, m.NumElements(), ip.ParallelDegree)
	K, err := ga.AssembleMatrix(a)
	if err != nil {
		return
	}
	s.NNZ, s.Symmetric = K.NNZ(), K.IsSymmetric(1.e-10*floats.Norm(K.Data(), math.Inf(1)))
	f, err := ga.AssembleVector(a)
	if err != nil {
		return
	}
	s.ResidualNorm = floats.Norm(f, 2)
	if s.Scalar, err = ga.AssembleScalar(a); err != nil {
		return
	}
	if len(ip.ProbePoints) != 0 {
		if s.Probes, err = probe(m, ip.ProbePoints, u, a.SolutionDim()); err != nil {
			return
		}
	}
	s.Elapsed = time.Since(start)
	return
}

func probe(m *mesh.Mesh, points [][]float64, u []float64, sd int) (vals []float64, err error) {
	interp, err := interpolate.NewInterpolator(m)
	if err != nil {
		log.Printf("no probes: %v", err)
		return nil, nil
	}
	return interp.Interpolate(points, u, sd)
}

func (s *AssemblySummary) Print() {
	fmt.Printf("[%d]\t\t\t= Elements\n", s.NumElements)
	fmt.Printf("[%d]\t\t\t= Degrees of Freedom\n", s.NumDOF)
	fmt.Printf("[%d]\t\t\t= Element Colors\n", s.Colors)
	fmt.Printf("[%d]\t\t\t= Matrix Non-zeros, symmetric: %v\n", s.NNZ, s.Symmetric)
	fmt.Printf("%12.5e\t\t= Vector Norm\n", s.ResidualNorm)
	fmt.Printf("%12.5e\t\t= Scalar\n", s.Scalar)
	if len(s.Skipped) != 0 {
		fmt.Printf("Skipped elements: %v\n", s.Skipped)
	}
	if len(s.Probes) != 0 {
		fmt.Printf("Probes = %v\n", s.Probes)
	}
	fmt.Printf("%v\t\t= Elapsed\n", s.Elapsed)
}
