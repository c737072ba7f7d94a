package render

import "github.com/penwyp/go-deckview/internal/core/model"

// Rect is an axis-aligned rectangle, Y growing downwards.
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

func (r Rect) Width() float64  { return r.MaxX - r.MinX }
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// ViewRect is the normalized region shown by the graphical renderers. It
// leaves a margin left of the rows for labels and below them for guide labels.
var ViewRect = Rect{MinX: -0.04, MinY: -0.02, MaxX: 1.02, MaxY: 1.02}

// UnitRect is the normalized chart space itself.
var UnitRect = Rect{MinX: 0, MinY: 0, MaxX: 1, MaxY: 1}

// Transform maps points from one rectangle onto another.
type Transform struct {
	from, to Rect
}

// NewTransform returns the mapping of from onto to.
func NewTransform(from, to Rect) Transform {
	return Transform{from: from, to: to}
}

// Apply maps a point. A degenerate source axis maps to the target minimum.
func (t Transform) Apply(p model.Point) (float64, float64) {
	return scale(p.X, t.from.MinX, t.from.Width(), t.to.MinX, t.to.Width()),
		scale(p.Y, t.from.MinY, t.from.Height(), t.to.MinY, t.to.Height())
}

func scale(v, fromMin, fromSize, toMin, toSize float64) float64 {
	if fromSize == 0 {
		return toMin
	}
	return toMin + (v-fromMin)/fromSize*toSize
}
