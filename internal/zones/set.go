package zones

import (
	"math"

	"incident-worker-go/internal/geometry"
)

// LightState identifies one lamp of a traffic light
type LightState int

const (
	LightRed LightState = iota
	LightYellow
	LightGreen
)

func (s LightState) String() string {
	switch s {
	case LightRed:
		return "red"
	case LightYellow:
		return "yellow"
	case LightGreen:
		return "green"
	default:
		return "unknown"
	}
}

// Zone is a named polygon in pixel coordinates
type Zone struct {
	Name    string
	Polygon geometry.Polygon
}

// Set is a zones document converted to pixel space for one frame size.
// Lookups assume convex clockwise polygons.
type Set struct {
	Width        int
	Height       int
	Lanes        []Zone
	Crosswalks   []Zone
	ROI          *Zone
	TrafficLight map[LightState]geometry.Box
}

// LaneOf returns the first lane containing pt
func (s *Set) LaneOf(pt geometry.Point) (Zone, bool) {
	for _, lane := range s.Lanes {
		if lane.Polygon.Contains(pt) {
			return lane, true
		}
	}
	return Zone{}, false
}

// InCrosswalk returns the first crosswalk the box overlaps with a non-zero area
func (s *Set) InCrosswalk(box geometry.Box) (Zone, bool) {
	for _, cw := range s.Crosswalks {
		if overlapArea(box, cw.Polygon) > 0 {
			return cw, true
		}
	}
	return Zone{}, false
}

// ROIOverlap returns the fraction of box area inside the region of interest.
// Without a configured ROI the whole frame counts, so the result is 1.
func (s *Set) ROIOverlap(box geometry.Box) float64 {
	if s.ROI == nil {
		return 1
	}
	area := box.Area()
	if area <= 0 {
		return 0
	}
	return min(overlapArea(box, s.ROI.Polygon)/area, 1)
}

// InROI reports whether at least minOverlap of the box lies inside the ROI
func (s *Set) InROI(box geometry.Box, minOverlap float64) bool {
	return s.ROIOverlap(box) >= minOverlap
}

// LightBox returns the pixel box of one traffic light lamp
func (s *Set) LightBox(state LightState) (geometry.Box, bool) {
	box, ok := s.TrafficLight[state]
	return box, ok
}

func overlapArea(box geometry.Box, zone geometry.Polygon) float64 {
	clipped, ok := box.ToPolygon().Clip(zone)
	if !ok {
		return 0
	}
	return math.Abs(clipped.Area())
}

// Annotate describes where a pixel box lies relative to the zones: the lane
// under its center, the crosswalk it touches and its ROI overlap
func (s *Set) Annotate(box geometry.Box) map[string]interface{} {
	out := map[string]interface{}{
		"roi_overlap": s.ROIOverlap(box),
	}
	if lane, ok := s.LaneOf(box.Center()); ok {
		out["lane"] = lane.Name
	}
	if cw, ok := s.InCrosswalk(box); ok {
		out["crosswalk"] = cw.Name
	}
	return out
}

// BoxFromMetadata reads a pixel box given as [x1, y1, x2, y2], the shape
// JSON trigger metadata decodes to
func BoxFromMetadata(v interface{}) (geometry.Box, bool) {
	values, ok := v.([]interface{})
	if !ok || len(values) != 4 {
		return geometry.Box{}, false
	}

	var coords [4]float64
	for i, raw := range values {
		f, ok := raw.(float64)
		if !ok {
			return geometry.Box{}, false
		}
		coords[i] = f
	}
	return geometry.Box{
		Pt1: geometry.Pt(coords[0], coords[1]),
		Pt2: geometry.Pt(coords[2], coords[3]),
	}, true
}
