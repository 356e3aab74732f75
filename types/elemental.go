package types

import (
	"fmt"
	"math"
)

/*
EdgeKey is an always positive number that stores an edge's vertices as indices in a way that can be compared
An edge between vertices [4] and [0] will always be stored as [0,4], in the ascending order of the index values
*/
type EdgeKey uint64

func NewEdgeKey(verts [2]int) (packed EdgeKey) {
	var (
		limit = math.MaxUint32
	)
	for _, vert := range verts {
		if vert < 0 || vert > limit {
			panic(fmt.Errorf("unable to pack two ints into a uint64, have %d and %d as inputs",
				verts[0], verts[1]))
		}
	}
	i1, i2 := verts[0], verts[1]
	if i1 > i2 {
		i1, i2 = i2, i1
	}
	packed = EdgeKey(uint64(i1) | uint64(i2)<<32)
	return
}

func (ek EdgeKey) GetVertices(rev bool) (verts [2]int) {
	verts[0] = int(ek & math.MaxUint32)
	verts[1] = int(ek >> 32)
	if rev {
		verts[0], verts[1] = verts[1], verts[0]
	}
	return
}

// EdgeSet numbers unique edges in order of first insertion.
type EdgeSet struct {
	index map[EdgeKey]int
	Edges []EdgeKey
}

func NewEdgeSet(capacity int) *EdgeSet {
	return &EdgeSet{
		index: make(map[EdgeKey]int, capacity),
		Edges: make([]EdgeKey, 0, capacity),
	}
}

// Add returns the edge number for the pair, registering the edge if it is new.
func (es *EdgeSet) Add(v0, v1 int) (edgeNum int, added bool) {
	var (
		ek = NewEdgeKey([2]int{v0, v1})
		ok bool
	)
	if edgeNum, ok = es.index[ek]; ok {
		return
	}
	edgeNum = len(es.Edges)
	es.index[ek] = edgeNum
	es.Edges = append(es.Edges, ek)
	added = true
	return
}

func (es *EdgeSet) Len() int { return len(es.Edges) }
