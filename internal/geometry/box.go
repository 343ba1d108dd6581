package geometry

// Box is an axis-aligned rectangle. By convention Pt1 is the top-left corner
// and Pt2 the bottom-right one; nothing enforces it.
type Box struct {
	Pt1 Point `json:"pt1" yaml:"pt1"`
	Pt2 Point `json:"pt2" yaml:"pt2"`
}

// IoU returns the intersection over union of two boxes using inclusive pixel
// counting: every extent is (difference + 1). Intersection corners are
// truncated to integers. Stored reference values depend on this convention.
func (b Box) IoU(other Box) float64 {
	xA := max(b.Pt1.XI(), other.Pt1.XI())
	yA := max(b.Pt1.YI(), other.Pt1.YI())
	xB := min(b.Pt2.XI(), other.Pt2.XI())
	yB := min(b.Pt2.YI(), other.Pt2.YI())

	interArea := float64(max(0, xB-xA+1) * max(0, yB-yA+1))
	areaA := (b.Pt2.X - b.Pt1.X + 1) * (b.Pt2.Y - b.Pt1.Y + 1)
	areaB := (other.Pt2.X - other.Pt1.X + 1) * (other.Pt2.Y - other.Pt1.Y + 1)

	union := areaA + areaB - interArea
	if union <= 0 {
		return 0
	}
	return interArea / union
}

// Width is the absolute truncated horizontal extent
func (b Box) Width() int {
	return absInt(b.Pt1.XI() - b.Pt2.XI())
}

// Height is the absolute truncated vertical extent
func (b Box) Height() int {
	return absInt(b.Pt1.YI() - b.Pt2.YI())
}

func (b Box) LargestDim() int {
	return max(b.Width(), b.Height())
}

// Center offsets Pt1 by half the width and height, rounded down
func (b Box) Center() Point {
	return Point{
		X: b.Pt1.X + float64(b.Width()/2),
		Y: b.Pt1.Y + float64(b.Height()/2),
	}
}

func (b Box) Area() float64 {
	return float64(b.Width() * b.Height())
}

// Distance returns the distance between the centers of two boxes
func (b Box) Distance(other Box) float64 {
	return b.Center().Distance(other.Center())
}

// Contains reports whether other lies within b, edges included
func (b Box) Contains(other Box) bool {
	return b.Pt1.X <= other.Pt1.X && b.Pt1.Y <= other.Pt1.Y &&
		b.Pt2.X >= other.Pt2.X && b.Pt2.Y >= other.Pt2.Y
}

// ToPolygon returns the corners clockwise: top-left, top-right, bottom-right, bottom-left
func (b Box) ToPolygon() Polygon {
	return Polygon{Points: []Point{
		b.Pt1,
		{X: b.Pt2.X, Y: b.Pt1.Y},
		b.Pt2,
		{X: b.Pt1.X, Y: b.Pt2.Y},
	}}
}

// ToImageCoords scales a normalized box to an image of size w x h
func (b Box) ToImageCoords(w, h int) Box {
	return Box{Pt1: b.Pt1.ToImageCoords(w, h), Pt2: b.Pt2.ToImageCoords(w, h)}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
