package geometry

import "fmt"

// Polygon is an ordered vertex loop. Clip, Contains and the sign of Area all
// assume clockwise winding in image coordinates (y grows downward).
type Polygon struct {
	Points []Point `json:"points" yaml:"points"`
}

// NewPolygon builds a polygon from at least three points
func NewPolygon(points ...Point) (Polygon, error) {
	if len(points) < 3 {
		return Polygon{}, fmt.Errorf("%w: got %d", ErrTooFewPoints, len(points))
	}
	pts := make([]Point, len(points))
	copy(pts, points)
	return Polygon{Points: pts}, nil
}

// Edges returns the closed edge loop, edge i running from vertex i-1 to vertex i
func (p Polygon) Edges() []Line {
	n := len(p.Points)
	edges := make([]Line, 0, n)
	for i := 0; i < n; i++ {
		edges = append(edges, Line{Pt1: p.Points[(i-1+n)%n], Pt2: p.Points[i]})
	}
	return edges
}

// Clip clips p against clip using Sutherland-Hodgman. clip must be convex and
// clockwise. The second return value is false when nothing is left, which is
// distinct from a polygon that is present but has zero area.
func (p Polygon) Clip(clip Polygon) (Polygon, bool) {
	output := make([]Point, len(p.Points))
	copy(output, p.Points)

	for _, plane := range clip.Edges() {
		if len(output) == 0 {
			return Polygon{}, false
		}

		input := output
		output = make([]Point, 0, len(input)+1)
		start := input[len(input)-1]

		for _, end := range input {
			startIn := plane.PointIsInside(start)
			endIn := plane.PointIsInside(end)

			switch {
			case startIn && endIn:
				output = append(output, end)
			case startIn && !endIn:
				// start and end sit on opposite sides, so the lines are never parallel here
				if inter, err := plane.Intersection(Line{Pt1: start, Pt2: end}); err == nil {
					output = append(output, inter)
				}
			case !startIn && endIn:
				if inter, err := plane.Intersection(Line{Pt1: start, Pt2: end}); err == nil {
					output = append(output, inter)
				}
				output = append(output, end)
			}
			start = end
		}
	}

	if len(output) == 0 {
		return Polygon{}, false
	}
	return Polygon{Points: output}, true
}

// Area returns the signed shoelace area. The sign encodes winding.
func (p Polygon) Area() float64 {
	if len(p.Points) == 0 {
		return 0
	}

	total := 0.0
	from := p.Points[len(p.Points)-1]
	for _, to := range p.Points {
		total += from.X*to.Y - to.X*from.Y
		from = to
	}
	return total / 2
}

// Contains reports whether pt is strictly inside every edge of a clockwise polygon
func (p Polygon) Contains(pt Point) bool {
	if len(p.Points) < 3 {
		return false
	}
	for _, edge := range p.Edges() {
		if !edge.PointIsInside(pt) {
			return false
		}
	}
	return true
}

// ToImageCoords scales normalized vertices to an image of size w x h. With
// sortClockwise the result is reordered with OrderPoints, which requires
// exactly four vertices.
func (p Polygon) ToImageCoords(w, h int, sortClockwise bool) (Polygon, error) {
	pts := make([]Point, len(p.Points))
	for i, pt := range p.Points {
		pts[i] = pt.ToImageCoords(w, h)
	}

	if sortClockwise {
		ordered, err := OrderPoints(pts)
		if err != nil {
			return Polygon{}, err
		}
		pts = ordered
	}
	return Polygon{Points: pts}, nil
}
