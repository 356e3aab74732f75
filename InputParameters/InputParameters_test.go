package InputParameters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/femkit/element"
	"github.com/notargets/femkit/quadrature"
)

func TestInputParameters(t *testing.T) {
	{
		var ip InputParameters
		require.NoError(t, ip.Parse([]byte(ExampleFile)))
		require.NoError(t, ip.Validate())
		assert.Equal(t, "Cantilever block", ip.Title)
		assert.Equal(t, []int{8, 2, 2}, ip.Mesh.Cells)
		assert.Equal(t, 2.1e11, ip.Material.Young)
		assert.Equal(t, element.Tet4, ip.ElementType())
		assert.Equal(t, 3, ip.Dim())
		assert.Equal(t, [][]float64{{2, 0.5, 0.5}}, ip.ProbePoints)
		lame := ip.Lame()
		assert.InDelta(t, 210.e9/2.6, lame.Mu, 1)
		ip.Print()
	}
	{ // Defaults
		var ip InputParameters
		require.NoError(t, ip.Parse([]byte(`
Title: Heat
Problem: Laplace
Mesh:
  Element: Tri3
  Cells: [4, 4]
  Min: [0, 0]
  Max: [1, 1]
  Quadratic: true
`)))
		require.NoError(t, ip.Validate())
		assert.Equal(t, "laplace", ip.Problem)
		assert.Equal(t, 4, ip.QuadratureStrength)
		assert.Equal(t, 1, ip.ParallelDegree)
		assert.Equal(t, 1., ip.Conductivity)
	}
	{ // Inconsistent inputs
		bad := []string{
			`{Problem: plasma, Mesh: {Element: Tri3, Cells: [1, 1], Min: [0, 0], Max: [1, 1]}}`,
			`{Problem: laplace, Mesh: {Element: Tet4, Cells: [1, 1], Min: [0, 0], Max: [1, 1]}}`,
			`{Problem: laplace, Mesh: {Element: Tri3, Cells: [1, 1], Min: [0], Max: [1, 1]}}`,
			`{Problem: laplace, Mesh: {Element: Tri3, Cells: [0, 1], Min: [0, 0], Max: [1, 1]}}`,
			`{Problem: laplace, Mesh: {Element: Quad4, Cells: [1, 1], Min: [0, 0], Max: [1, 1], Quadratic: true}}`,
			`{Problem: laplace, Mesh: {Element: Tri6, Cells: [1, 1], Min: [0, 0], Max: [1, 1]}}`,
			`{Problem: elasticity, Material: {Model: rubber, Young: 1, Poisson: 0.3}, Mesh: {Element: Tri3, Cells: [1, 1], Min: [0, 0], Max: [1, 1]}}`,
			`{Problem: elasticity, Material: {Model: linear, Young: 1, Poisson: 0.5}, Mesh: {Element: Tri3, Cells: [1, 1], Min: [0, 0], Max: [1, 1]}}`,
			`{Problem: laplace, ProbePoints: [[1, 2, 3]], Mesh: {Element: Tri3, Cells: [1, 1], Min: [0, 0], Max: [1, 1]}}`,
		}
		for i, doc := range bad {
			var ip InputParameters
			require.NoError(t, ip.Parse([]byte(doc)), "case %d", i)
			assert.Error(t, ip.Validate(), "case %d", i)
		}
		var ip InputParameters
		require.NoError(t, ip.Parse([]byte(`{Problem: mass, QuadratureStrength: 99, Mesh: {Element: Segment2, Cells: [3], Min: [0], Max: [1]}}`)))
		assert.ErrorIs(t, ip.Validate(), quadrature.ErrUnsupportedStrength)
	}
}
