package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIndex(t *testing.T) {
	{
		I := NewIndex(3)
		assert.Equal(t, Index{0, 0, 0}, I)
	}
	{
		I := Index{4, 1}
		assert.Equal(t, Index{8, 9, 2, 3}, I.Expand(2))
		assert.Equal(t, Index{4, 1}, I.Expand(1))
		assert.Len(t, Index{}.Expand(3), 0)
		I.ApplyInPlace(func(v int) int { return v + 1 })
		assert.Equal(t, Index{5, 2}, I)
	}
}
