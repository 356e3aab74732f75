package geometry

import (
	"fmt"
	"math"
)

// BoundingBox is an axis aligned box in any number of dimensions. Degenerate
// (zero width) sides are allowed.
type BoundingBox struct {
	XMin []float64
	XMax []float64
}

func NewBoundingBox(points [][]float64) (Box BoundingBox) {
	if len(points) == 0 {
		return
	}
	var (
		dim = len(points[0])
	)
	Box.XMin = make([]float64, dim)
	Box.XMax = make([]float64, dim)
	copy(Box.XMin, points[0])
	copy(Box.XMax, points[0])
	for _, point := range points[1:] {
		if len(point) != dim {
			panic(fmt.Errorf("point dimension %d does not match %d", len(point), dim))
		}
		for i := 0; i < dim; i++ {
			if point[i] < Box.XMin[i] {
				Box.XMin[i] = point[i]
			}
			if point[i] > Box.XMax[i] {
				Box.XMax[i] = point[i]
			}
		}
	}
	return
}

func (bb BoundingBox) Dim() int { return len(bb.XMin) }

func (bb BoundingBox) IsEmpty() bool { return len(bb.XMin) == 0 }

func (bb BoundingBox) Centroid() (centroid []float64) {
	centroid = make([]float64, bb.Dim())
	for i := range centroid {
		centroid[i] = 0.5 * (bb.XMax[i] + bb.XMin[i])
	}
	return
}

// Extents returns the side lengths.
func (bb BoundingBox) Extents() (ext []float64) {
	ext = make([]float64, bb.Dim())
	for i := range ext {
		ext[i] = bb.XMax[i] - bb.XMin[i]
	}
	return
}

func (bb BoundingBox) Diagonal() float64 {
	var sum float64
	for _, e := range bb.Extents() {
		sum += e * e
	}
	return math.Sqrt(sum)
}

func (bb *BoundingBox) Grow(newBB BoundingBox) {
	if newBB.IsEmpty() {
		return
	}
	if bb.IsEmpty() {
		bb.XMin = append([]float64(nil), newBB.XMin...)
		bb.XMax = append([]float64(nil), newBB.XMax...)
		return
	}
	for i := range bb.XMin {
		bb.XMin[i] = math.Min(bb.XMin[i], newBB.XMin[i])
		bb.XMax[i] = math.Max(bb.XMax[i], newBB.XMax[i])
	}
}

// Scale expands (scale > 1) or contracts the box about its centroid.
func (bb BoundingBox) Scale(scale float64) (bbOut BoundingBox) {
	var (
		dim = bb.Dim()
	)
	bbOut = BoundingBox{XMin: make([]float64, dim), XMax: make([]float64, dim)}
	for i := 0; i < dim; i++ {
		centroid := 0.5 * (bb.XMin[i] + bb.XMax[i])
		bbOut.XMin[i] = scale*(bb.XMin[i]-centroid) + centroid
		bbOut.XMax[i] = scale*(bb.XMax[i]-centroid) + centroid
	}
	return
}

func (bb BoundingBox) PointInside(point []float64) (within bool) {
	for ii := range bb.XMin {
		if point[ii] > bb.XMax[ii] || point[ii] < bb.XMin[ii] {
			return false
		}
	}
	return true
}

// Distance is the Euclidean distance from point to the box, zero inside.
func (bb BoundingBox) Distance(point []float64) float64 {
	var sum float64
	for i := range bb.XMin {
		var d float64
		switch {
		case point[i] < bb.XMin[i]:
			d = bb.XMin[i] - point[i]
		case point[i] > bb.XMax[i]:
			d = point[i] - bb.XMax[i]
		}
		sum += d * d
	}
	return math.Sqrt(sum)
}

func (bb BoundingBox) String() string {
	return fmt.Sprintf("[%v, %v]", bb.XMin, bb.XMax)
}
