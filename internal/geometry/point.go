package geometry

import (
	"fmt"
	"image"
	"math"
)

// Point is a 2-D coordinate. Depending on context it holds either pixel
// coordinates or normalized [0,1] coordinates; the caller keeps track of which.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Distance returns the Euclidean distance to pt
func (p Point) Distance(pt Point) float64 {
	return math.Sqrt(p.DistanceSq(pt))
}

// DistanceSq returns the squared Euclidean distance to pt. Use it when only
// comparing distances.
func (p Point) DistanceSq(pt Point) float64 {
	dx := p.X - pt.X
	dy := p.Y - pt.Y
	return dx*dx + dy*dy
}

// DistanceManhattan returns the L1 distance to pt
func (p Point) DistanceManhattan(pt Point) float64 {
	return math.Abs(p.X-pt.X) + math.Abs(p.Y-pt.Y)
}

// Angle returns the signed angle in degrees of the vector from p to pt
func (p Point) Angle(pt Point) float64 {
	return math.Atan2(pt.Y-p.Y, pt.X-p.X) * 180 / math.Pi
}

// Cross returns the 2-D cross product p × pt
func (p Point) Cross(pt Point) float64 {
	return p.X*pt.Y - p.Y*pt.X
}

// Norm returns the length of p seen as a vector
func (p Point) Norm() float64 {
	return math.Sqrt(p.X*p.X + p.Y*p.Y)
}

func (p Point) Add(o Point) Point {
	return Point{X: p.X + o.X, Y: p.Y + o.Y}
}

func (p Point) Sub(o Point) Point {
	return Point{X: p.X - o.X, Y: p.Y - o.Y}
}

func (p Point) Mul(k float64) Point {
	return Point{X: p.X * k, Y: p.Y * k}
}

func (p Point) Div(k float64) Point {
	return Point{X: p.X / k, Y: p.Y / k}
}

// ToImageCoords scales a normalized point to an image of size w x h
func (p Point) ToImageCoords(w, h int) Point {
	return Point{X: p.X * float64(w), Y: p.Y * float64(h)}
}

// XI returns X truncated toward zero
func (p Point) XI() int {
	return int(p.X)
}

// YI returns Y truncated toward zero
func (p Point) YI() int {
	return int(p.Y)
}

// ImagePoint converts p to an integer image.Point, as used by gocv drawing calls
func (p Point) ImagePoint() image.Point {
	return image.Pt(p.XI(), p.YI())
}

func (p Point) String() string {
	return fmt.Sprintf("{x: %g, y: %g}", p.X, p.Y)
}

// OrderPoints returns four points as [top-left, top-right, bottom-right, bottom-left].
//
// The corners are picked by min(x+y), min(y-x), max(x+y) and max(y-x); on ties
// the first point in input order wins. This only holds for roughly
// axis-aligned quadrilaterals and is not a convex hull ordering.
func OrderPoints(points []Point) ([]Point, error) {
	if len(points) != 4 {
		return nil, fmt.Errorf("%w: got %d points", ErrNotQuadrilateral, len(points))
	}

	tl, tr, br, bl := points[0], points[0], points[0], points[0]
	for _, pt := range points[1:] {
		if pt.Y+pt.X < tl.Y+tl.X {
			tl = pt
		}
		if pt.Y-pt.X < tr.Y-tr.X {
			tr = pt
		}
		if pt.Y+pt.X > br.Y+br.X {
			br = pt
		}
		if pt.Y-pt.X > bl.Y-bl.X {
			bl = pt
		}
	}

	return []Point{tl, tr, br, bl}, nil
}
