package bfun

// geometryMargin is the space kept free on every side of the drawing.
const geometryMargin = 32

// Geometry describes the surface an encoder draws on.
type Geometry struct {
	Radius  float64
	Width   int
	Height  int
	CenterX float64
	CenterY float64
}

// NewGeometry derives a square surface around a circle of the given radius.
func NewGeometry(radius int) Geometry {
	side := radius*2 + geometryMargin*2
	center := float64(radius + geometryMargin)

	return Geometry{
		Radius:  float64(radius),
		Width:   side,
		Height:  side,
		CenterX: center,
		CenterY: center,
	}
}
