package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-9

func square(x0, y0, size float64) Polygon {
	return Polygon{Points: []Point{
		{X: x0, Y: y0},
		{X: x0 + size, Y: y0},
		{X: x0 + size, Y: y0 + size},
		{X: x0, Y: y0 + size},
	}}
}

func TestPointDistances(t *testing.T) {
	t.Parallel()

	pairs := [][2]Point{
		{Pt(0, 0), Pt(3, 4)},
		{Pt(-2.5, 7), Pt(11, -3.25)},
		{Pt(1e3, 1e3), Pt(1e3, 1e3)},
	}

	for _, pq := range pairs {
		p, q := pq[0], pq[1]
		assert.InDelta(t, p.Distance(q), q.Distance(p), eps)
		d := p.Distance(q)
		assert.InDelta(t, d*d, p.DistanceSq(q), 1e-6)
	}

	assert.Equal(t, 5.0, Pt(0, 0).Distance(Pt(3, 4)))
	assert.Equal(t, 7.0, Pt(0, 0).DistanceManhattan(Pt(3, -4)))
	assert.Equal(t, 5.0, Pt(3, 4).Norm())
}

func TestPointAngleAndCross(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 45.0, Pt(0, 0).Angle(Pt(1, 1)), eps)
	assert.InDelta(t, 180.0, Pt(0, 0).Angle(Pt(-1, 0)), eps)
	assert.InDelta(t, -90.0, Pt(0, 0).Angle(Pt(0, -2)), eps)

	assert.Equal(t, 1.0, Pt(1, 0).Cross(Pt(0, 1)))
	assert.Equal(t, -1.0, Pt(0, 1).Cross(Pt(1, 0)))
}

func TestPointArithmetic(t *testing.T) {
	t.Parallel()

	p := Pt(2, 3)
	assert.Equal(t, Pt(3, 5), p.Add(Pt(1, 2)))
	assert.Equal(t, Pt(1, 1), p.Sub(Pt(1, 2)))
	assert.Equal(t, Pt(4, 6), p.Mul(2))
	assert.Equal(t, Pt(1, 1.5), p.Div(2))
	assert.Equal(t, Pt(50, 150), Pt(0.25, 0.75).ToImageCoords(200, 200))
	assert.Equal(t, 2, Pt(2.9, -1.9).XI())
	assert.Equal(t, -1, Pt(2.9, -1.9).YI())
}

func TestOrderPoints(t *testing.T) {
	t.Parallel()

	want := []Point{Pt(0, 0), Pt(10, 0), Pt(10, 10), Pt(0, 10)}
	inputs := [][]Point{
		{Pt(0, 0), Pt(10, 0), Pt(10, 10), Pt(0, 10)},
		{Pt(10, 10), Pt(0, 10), Pt(0, 0), Pt(10, 0)},
		{Pt(0, 10), Pt(10, 10), Pt(10, 0), Pt(0, 0)},
		{Pt(10, 0), Pt(0, 0), Pt(0, 10), Pt(10, 10)},
	}

	for _, in := range inputs {
		got, err := OrderPoints(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := OrderPoints([]Point{Pt(0, 0), Pt(1, 1), Pt(2, 2)})
	assert.ErrorIs(t, err, ErrNotQuadrilateral)
}

func TestLineEquation(t *testing.T) {
	t.Parallel()

	l := Line{Pt1: Pt(0, 0), Pt2: Pt(10, 10)}
	y, err := l.Equation(5)
	require.NoError(t, err)
	assert.Equal(t, 5.0, y)

	y, err = l.Equation(20)
	require.NoError(t, err)
	assert.Equal(t, 20.0, y)

	vertical := Line{Pt1: Pt(1, 0), Pt2: Pt(1, 5)}
	_, err = vertical.Equation(1)
	assert.ErrorIs(t, err, ErrVerticalLine)

	_, err = vertical.PointIsBelow(Pt(0, 0))
	assert.ErrorIs(t, err, ErrVerticalLine)
}

func TestLineAboveBelow(t *testing.T) {
	t.Parallel()

	l := Line{Pt1: Pt(0, 0), Pt2: Pt(10, 0)}

	below, err := l.PointIsBelow(Pt(5, 3))
	require.NoError(t, err)
	assert.True(t, below)

	above, err := l.PointIsAbove(Pt(5, -3))
	require.NoError(t, err)
	assert.True(t, above)

	// points on the line count as above
	above, err = l.PointIsAbove(Pt(5, 0))
	require.NoError(t, err)
	assert.True(t, above)
}

func TestLineDistance(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 3.0, Line{Pt1: Pt(0, 0), Pt2: Pt(10, 0)}.Distance(Pt(5, 3)), eps)
	assert.InDelta(t, math.Sqrt2, Line{Pt1: Pt(0, 0), Pt2: Pt(10, 10)}.Distance(Pt(2, 0)), eps)
	assert.InDelta(t, 5.0, Line{Pt1: Pt(0, 0), Pt2: Pt(0, 0)}.Distance(Pt(3, 4)), eps)
}

func TestLineIntersection(t *testing.T) {
	t.Parallel()

	a := Line{Pt1: Pt(0, 0), Pt2: Pt(1, 1)}
	b := Line{Pt1: Pt(0, 10), Pt2: Pt(1, 9)}
	pt, err := a.Intersection(b)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, pt.X, eps)
	assert.InDelta(t, 5.0, pt.Y, eps)

	_, err = Line{Pt1: Pt(0, 0), Pt2: Pt(1, 0)}.Intersection(Line{Pt1: Pt(0, 1), Pt2: Pt(1, 1)})
	assert.ErrorIs(t, err, ErrParallelLines)
}

func TestSegmentIntersection(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		a, b  Line
		want  Point
		found bool
	}{
		{
			name:  "crossing diagonals",
			a:     Line{Pt1: Pt(0, 0), Pt2: Pt(10, 10)},
			b:     Line{Pt1: Pt(0, 10), Pt2: Pt(10, 0)},
			want:  Pt(5, 5),
			found: true,
		},
		{
			name: "collinear disjoint",
			a:    Line{Pt1: Pt(0, 0), Pt2: Pt(1, 0)},
			b:    Line{Pt1: Pt(2, 0), Pt2: Pt(3, 0)},
		},
		{
			name: "collinear overlapping is not computed",
			a:    Line{Pt1: Pt(0, 0), Pt2: Pt(2, 0)},
			b:    Line{Pt1: Pt(1, 0), Pt2: Pt(3, 0)},
		},
		{
			name:  "touching endpoints",
			a:     Line{Pt1: Pt(0, 0), Pt2: Pt(5, 0)},
			b:     Line{Pt1: Pt(5, 0), Pt2: Pt(5, 5)},
			want:  Pt(5, 0),
			found: true,
		},
		{
			name: "lines cross outside the segments",
			a:    Line{Pt1: Pt(0, 0), Pt2: Pt(1, 1)},
			b:    Line{Pt1: Pt(0, 10), Pt2: Pt(1, 9)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.a.SegmentIntersection(tt.b)
			assert.Equal(t, tt.found, ok)
			if tt.found {
				assert.InDelta(t, tt.want.X, got.X, eps)
				assert.InDelta(t, tt.want.Y, got.Y, eps)
			}
		})
	}
}

func TestPointIsInside(t *testing.T) {
	t.Parallel()

	// top edge of a clockwise square, walking right
	edge := Line{Pt1: Pt(0, 0), Pt2: Pt(10, 0)}
	assert.True(t, edge.PointIsInside(Pt(5, 5)))
	assert.False(t, edge.PointIsInside(Pt(5, -5)))
	assert.False(t, edge.PointIsInside(Pt(5, 0)))
}

func TestPolygonClip(t *testing.T) {
	t.Parallel()

	t.Run("overlapping squares", func(t *testing.T) {
		clipped, ok := square(0, 0, 10).Clip(square(5, 5, 10))
		require.True(t, ok)
		assert.InDelta(t, 25.0, math.Abs(clipped.Area()), eps)
	})

	t.Run("contained subject is unchanged", func(t *testing.T) {
		clipped, ok := square(2, 2, 2).Clip(square(0, 0, 10))
		require.True(t, ok)
		assert.InDelta(t, 4.0, math.Abs(clipped.Area()), eps)
		assert.Len(t, clipped.Points, 4)
	})

	t.Run("disjoint squares", func(t *testing.T) {
		_, ok := square(0, 0, 10).Clip(square(20, 20, 10))
		assert.False(t, ok)
	})

	t.Run("box against triangle", func(t *testing.T) {
		tri := Polygon{Points: []Point{Pt(0, 0), Pt(10, 0), Pt(0, 10)}}
		clipped, ok := square(0, 0, 10).Clip(tri)
		require.True(t, ok)
		assert.InDelta(t, 50.0, math.Abs(clipped.Area()), eps)
	})
}

func TestPolygonArea(t *testing.T) {
	t.Parallel()

	sq := square(0, 0, 10)
	assert.Equal(t, 100.0, sq.Area())

	reversed := Polygon{Points: []Point{Pt(0, 10), Pt(10, 10), Pt(10, 0), Pt(0, 0)}}
	assert.Equal(t, -100.0, reversed.Area())

	assert.Equal(t, 0.0, Polygon{}.Area())
}

func TestPolygonContains(t *testing.T) {
	t.Parallel()

	sq := square(0, 0, 10)
	assert.True(t, sq.Contains(Pt(5, 5)))
	assert.False(t, sq.Contains(Pt(15, 5)))
	assert.False(t, sq.Contains(Pt(0, 5)))
}

func TestNewPolygon(t *testing.T) {
	t.Parallel()

	_, err := NewPolygon(Pt(0, 0), Pt(1, 1))
	assert.ErrorIs(t, err, ErrTooFewPoints)

	pts := []Point{Pt(0, 0), Pt(1, 0), Pt(1, 1)}
	poly, err := NewPolygon(pts...)
	require.NoError(t, err)
	pts[0] = Pt(9, 9)
	assert.Equal(t, Pt(0, 0), poly.Points[0])
}

func TestPolygonToImageCoords(t *testing.T) {
	t.Parallel()

	norm := Polygon{Points: []Point{Pt(0.75, 0.75), Pt(0.25, 0.25), Pt(0.25, 0.75), Pt(0.75, 0.25)}}

	got, err := norm.ToImageCoords(200, 400, true)
	require.NoError(t, err)
	assert.Equal(t, []Point{Pt(50, 100), Pt(150, 100), Pt(150, 300), Pt(50, 300)}, got.Points)

	unsorted, err := norm.ToImageCoords(200, 400, false)
	require.NoError(t, err)
	assert.Equal(t, Pt(150, 300), unsorted.Points[0])

	pent := Polygon{Points: []Point{Pt(0, 0), Pt(1, 0), Pt(1, 1), Pt(0.5, 1), Pt(0, 1)}}
	_, err = pent.ToImageCoords(10, 10, true)
	assert.ErrorIs(t, err, ErrNotQuadrilateral)
}

func TestBoxIoU(t *testing.T) {
	t.Parallel()

	a := Box{Pt1: Pt(0, 0), Pt2: Pt(9, 9)}
	assert.Equal(t, 1.0, a.IoU(a))

	disjoint := Box{Pt1: Pt(20, 20), Pt2: Pt(29, 29)}
	assert.Equal(t, 0.0, a.IoU(disjoint))

	// 5x10 inclusive overlap, 100 pixels each
	half := Box{Pt1: Pt(5, 0), Pt2: Pt(14, 9)}
	assert.InDelta(t, 50.0/150.0, a.IoU(half), eps)
}

func TestBoxMeasures(t *testing.T) {
	t.Parallel()

	b := Box{Pt1: Pt(1, 1), Pt2: Pt(10, 6)}
	assert.Equal(t, 9, b.Width())
	assert.Equal(t, 5, b.Height())
	assert.Equal(t, 9, b.LargestDim())
	assert.Equal(t, 45.0, b.Area())
	assert.Equal(t, Pt(5, 3), b.Center())

	flipped := Box{Pt1: Pt(10, 6), Pt2: Pt(1, 1)}
	assert.Equal(t, 9, flipped.Width())
	assert.Equal(t, 5, flipped.Height())

	other := Box{Pt1: Pt(11, 1), Pt2: Pt(20, 6)}
	assert.Equal(t, 10.0, b.Distance(other))
}

func TestBoxContains(t *testing.T) {
	t.Parallel()

	outer := Box{Pt1: Pt(0, 0), Pt2: Pt(10, 10)}
	assert.True(t, outer.Contains(Box{Pt1: Pt(2, 2), Pt2: Pt(8, 8)}))
	assert.True(t, outer.Contains(outer))
	assert.False(t, outer.Contains(Box{Pt1: Pt(2, 2), Pt2: Pt(11, 8)}))
}

func TestBoxToPolygon(t *testing.T) {
	t.Parallel()

	poly := Box{Pt1: Pt(1, 2), Pt2: Pt(3, 4)}.ToPolygon()
	assert.Equal(t, []Point{Pt(1, 2), Pt(3, 2), Pt(3, 4), Pt(1, 4)}, poly.Points)
	assert.Equal(t, 4.0, poly.Area())
}
