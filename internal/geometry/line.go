package geometry

import (
	"fmt"
	"math"
)

// Line is a directed segment from Pt1 to Pt2. Direction matters for PointIsInside.
type Line struct {
	Pt1 Point `json:"pt1" yaml:"pt1"`
	Pt2 Point `json:"pt2" yaml:"pt2"`
}

// Equation evaluates the line's y at horizontal coordinate x, extrapolating
// past the endpoints. Vertical lines return ErrVerticalLine.
func (l Line) Equation(x float64) (float64, error) {
	dx := l.Pt2.X - l.Pt1.X
	if dx == 0 {
		return 0, ErrVerticalLine
	}
	slope := (l.Pt2.Y - l.Pt1.Y) / dx
	return slope*(x-l.Pt1.X) + l.Pt1.Y, nil
}

// PointIsBelow reports whether pt lies below the line in image coordinates (larger y)
func (l Line) PointIsBelow(pt Point) (bool, error) {
	y, err := l.Equation(pt.X)
	if err != nil {
		return false, err
	}
	return pt.Y > y, nil
}

// PointIsAbove is the negation of PointIsBelow; points on the line count as above
func (l Line) PointIsAbove(pt Point) (bool, error) {
	below, err := l.PointIsBelow(pt)
	if err != nil {
		return false, err
	}
	return !below, nil
}

// PointIsInside reports whether pt is on the inner side of this edge of a
// clockwise-wound polygon. A point is inside the polygon iff it is inside every edge.
func (l Line) PointIsInside(pt Point) bool {
	return l.Pt2.Sub(l.Pt1).Cross(pt.Sub(l.Pt1)) > 0
}

// Distance returns the perpendicular distance from pt to the infinite line
// through Pt1 and Pt2. A zero-length line degrades to the distance to Pt1.
func (l Line) Distance(pt Point) float64 {
	dy := l.Pt2.Y - l.Pt1.Y
	dx := l.Pt2.X - l.Pt1.X
	den := math.Sqrt(dy*dy + dx*dx)
	if den == 0 {
		return l.Pt1.Distance(pt)
	}
	return math.Abs(dy*pt.X-dx*pt.Y+l.Pt2.X*l.Pt1.Y-l.Pt2.Y*l.Pt1.X) / den
}

// Length returns the segment length
func (l Line) Length() float64 {
	return l.Pt1.Distance(l.Pt2)
}

// Intersection returns the meeting point of the two infinite lines.
// Parallel or coincident lines return ErrParallelLines.
func (l Line) Intersection(other Line) (Point, error) {
	x1, y1 := l.Pt1.X, l.Pt1.Y
	x2, y2 := l.Pt2.X, l.Pt2.Y
	x3, y3 := other.Pt1.X, other.Pt1.Y
	x4, y4 := other.Pt2.X, other.Pt2.Y

	den := (x1-x2)*(y3-y4) - (y1-y2)*(x3-x4)
	if den == 0 {
		return Point{}, ErrParallelLines
	}

	a := x1*y2 - y1*x2
	b := x3*y4 - y3*x4
	return Point{
		X: (a*(x3-x4) - (x1-x2)*b) / den,
		Y: (a*(y3-y4) - (y1-y2)*b) / den,
	}, nil
}

// SegmentIntersection returns the point where the two bounded segments meet.
// Endpoints count as intersections. Parallel and collinear segments report no
// intersection, even when collinear segments overlap.
func (l Line) SegmentIntersection(other Line) (Point, bool) {
	p := l.Pt1
	q := other.Pt1
	r := l.Pt2.Sub(l.Pt1)
	s := other.Pt2.Sub(other.Pt1)

	rxs := r.Cross(s)
	if rxs == 0 {
		return Point{}, false
	}

	qp := q.Sub(p)
	t := qp.Cross(s) / rxs
	u := qp.Cross(r) / rxs

	if t >= 0 && t <= 1 && u >= 0 && u <= 1 {
		return p.Add(r.Mul(t)), true
	}
	return Point{}, false
}

// ToImageCoords scales both endpoints of a normalized line
func (l Line) ToImageCoords(w, h int) Line {
	return Line{Pt1: l.Pt1.ToImageCoords(w, h), Pt2: l.Pt2.ToImageCoords(w, h)}
}

func (l Line) String() string {
	return fmt.Sprintf("pt1: %s pt2: %s", l.Pt1, l.Pt2)
}
