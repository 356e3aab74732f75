package assembly

import (
	"fmt"

	"github.com/notargets/femkit/element"
	"github.com/notargets/femkit/quadrature"
	"github.com/notargets/femkit/space"
)

// QuadratureTable gives the reference quadrature rule used on each element.
// Returned rules are shared and must not be modified.
type QuadratureTable interface {
	ElementQuadrature(elementIndex int) quadrature.Rule
}

// UniformQuadratureTable uses one rule for every element.
type UniformQuadratureTable struct {
	Rule quadrature.Rule
}

func (ut UniformQuadratureTable) ElementQuadrature(int) quadrature.Rule { return ut.Rule }

// TypedQuadratureTable picks the rule by element type.
type TypedQuadratureTable struct {
	Strength int
	rules    map[element.ElementType]quadrature.Rule
	types    func(int) element.ElementType
}

// NewQuadratureTableFromStrength builds rules exact for polynomials of the
// given total degree on every element type present in s.
func NewQuadratureTableFromStrength(s space.FiniteElementSpace, strength int) (qt *TypedQuadratureTable, err error) {
	qt = &TypedQuadratureTable{
		Strength: strength,
		rules:    make(map[element.ElementType]quadrature.Rule),
		types:    s.ElementType,
	}
	for e := 0; e < s.NumElements(); e++ {
		et := s.ElementType(e)
		if _, ok := qt.rules[et]; ok {
			continue
		}
		var rule quadrature.Rule
		if rule, err = quadrature.ForShape(element.Reference(et).Shape(), strength); err != nil {
			return nil, fmt.Errorf("quadrature for %v: %w", et, err)
		}
		qt.rules[et] = rule
	}
	return
}

func (qt *TypedQuadratureTable) ElementQuadrature(elementIndex int) quadrature.Rule {
	return qt.rules[qt.types(elementIndex)]
}
