package types

import (
	"errors"
	"fmt"
)

var ErrUnsupportedDimension = errors.New("types: unsupported dimension")

// Dim is a physical dimension known to be one of 1, 2 or 3. Code that needs a
// fixed dimension switches over the three values instead of carrying an
// unchecked int around.
type Dim uint8

const (
	D1 Dim = iota + 1
	D2
	D3
)

// NewDim specializes a runtime dimension, failing for anything outside 1..3.
func NewDim(d int) (dim Dim, err error) {
	switch d {
	case 1:
		dim = D1
	case 2:
		dim = D2
	case 3:
		dim = D3
	default:
		err = fmt.Errorf("%w: %d", ErrUnsupportedDimension, d)
	}
	return
}

func (d Dim) Int() int { return int(d) }

func (d Dim) String() string {
	switch d {
	case D1, D2, D3:
		return fmt.Sprintf("%dD", int(d))
	}
	return fmt.Sprintf("Dim(%d)", int(d))
}

// MustDim is NewDim for callers that have already validated the dimension.
func MustDim(d int) Dim {
	dim, err := NewDim(d)
	if err != nil {
		panic(err)
	}
	return dim
}
