package model

// Point is a position in the normalized chart space [0,1]x[0,1].
// X runs along a row (column fraction), Y selects the row.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Segment is a straight drawable line between two normalized points.
type Segment [2]Point

// Seg is shorthand for Segment{a, b}.
func Seg(a, b Point) Segment {
	return Segment{a, b}
}

// Start returns the first endpoint.
func (s Segment) Start() Point { return s[0] }

// End returns the second endpoint.
func (s Segment) End() Point { return s[1] }
