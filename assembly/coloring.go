package assembly

import (
	"sort"

	"github.com/eapache/queue"

	"github.com/notargets/femkit/space"
)

// ColorElements partitions the elements into colors such that no two
// elements of a color share a node. Elements are visited breadth first over
// shared nodes and each takes the smallest color none of its colored
// neighbors has. Elements within a color are in ascending order.
func ColorElements(conn space.Connectivity) (colors [][]int) {
	var (
		ne          = conn.NumElements()
		nodeElems   = make([][]int, conn.NumNodes())
		elemNodes   = make([][]int, ne)
		elemColor   = make([]int, ne)
		neighborTag = make([]int, 0)
	)
	for e := 0; e < ne; e++ {
		elemNodes[e] = make([]int, conn.ElementNodeCount(e))
		conn.PopulateElementNodes(elemNodes[e], e)
		for _, n := range elemNodes[e] {
			nodeElems[n] = append(nodeElems[n], e)
		}
		elemColor[e] = -1
	}
	var (
		q      = queue.New()
		queued = make([]bool, ne)
	)
	for seed := 0; seed < ne; seed++ {
		if queued[seed] {
			continue
		}
		queued[seed] = true
		q.Add(seed)
		for q.Length() > 0 {
			e := q.Remove().(int)
			neighborTag = neighborTag[:0]
			for _, n := range elemNodes[e] {
				for _, nb := range nodeElems[n] {
					if c := elemColor[nb]; c >= 0 {
						neighborTag = append(neighborTag, c)
					}
					if !queued[nb] {
						queued[nb] = true
						q.Add(nb)
					}
				}
			}
			elemColor[e] = smallestFreeColor(neighborTag)
			if elemColor[e] == len(colors) {
				colors = append(colors, nil)
			}
			colors[elemColor[e]] = append(colors[elemColor[e]], e)
		}
	}
	for _, c := range colors {
		sort.Ints(c)
	}
	return
}

func smallestFreeColor(used []int) (c int) {
	sort.Ints(used)
	for _, u := range used {
		if u == c {
			c++
		} else if u > c {
			break
		}
	}
	return
}
