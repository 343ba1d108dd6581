package geometry

import "errors"

var (
	// ErrVerticalLine is returned when a line has no slope-intercept form
	ErrVerticalLine = errors.New("geometry: vertical line")
	// ErrParallelLines is returned when two infinite lines do not meet in a single point
	ErrParallelLines = errors.New("geometry: parallel or coincident lines")
	// ErrNotQuadrilateral is returned when clockwise ordering is requested for anything but four points
	ErrNotQuadrilateral = errors.New("geometry: clockwise ordering needs exactly 4 points")
	// ErrTooFewPoints is returned when a polygon has fewer than three vertices
	ErrTooFewPoints = errors.New("geometry: polygon needs at least 3 points")
)
