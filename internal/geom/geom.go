package geom

import (
	"fmt"
	"math"
)

// Point is a position on the canvas.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Center returns the geometric center of r.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Contains reports whether p lies inside r (edges included).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.Width && p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// Shorten returns the point on the segment from -> to that stops margin
// units short of to, rounded to whole pixels. A zero-length segment yields from.
func Shorten(from, to Point, margin float64) Point {
	vx := to.X - from.X
	vy := to.Y - from.Y

	d := math.Hypot(vx, vy)
	if d == 0 {
		return from
	}

	vx /= d
	vy /= d
	d = math.Max(0, d-margin)

	return Point{
		X: math.Round(from.X + vx*d),
		Y: math.Round(from.Y + vy*d),
	}
}

// BezierPath returns an SVG path for a horizontal-tangent cubic curve
// between two connector centers.
func BezierPath(from, to Point) string {
	mid := (to.X - from.X) / 2
	return fmt.Sprintf("M %g,%g C %g,%g %g,%g %g,%g",
		from.X, from.Y,
		from.X+mid, from.Y,
		to.X-mid, to.Y,
		to.X, to.Y)
}

// LinePath returns an SVG path for a straight segment.
func LinePath(from, to Point) string {
	return fmt.Sprintf("M %g,%g L %g,%g", from.X, from.Y, to.X, to.Y)
}

// Snap rounds v to the nearest multiple of raster. A raster <= 0 disables snapping.
func Snap(v, raster float64) float64 {
	if raster <= 0 {
		return v
	}
	return math.Round(v/raster) * raster
}
