package zones

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"incident-worker-go/internal/geometry"
)

const intersectionDoc = `
lanes:
  - name: left
    coords: [[0, 0.5], [0.5, 0.5], [0.5, 1], [0, 1]]
  - name: right
    coords: [[0.5, 1], [1, 0.5], [1, 1], [0.5, 0.5]]
crosswalks:
  - name: north
    coords: [[0, 0], [1, 0], [1, 0.125], [0, 0.125]]
roi:
  name: road
  coords: [[0, 0.25], [1, 0.25], [1, 1], [0, 1]]
traffic_light:
  red: [[0.75, 0.25], [0.875, 0.375]]
  yellow: [[0.75, 0.375], [0.875, 0.5]]
  green: [[0.75, 0.5], [0.875, 0.625]]
`

func box(x1, y1, x2, y2 float64) geometry.Box {
	return geometry.Box{Pt1: geometry.Pt(x1, y1), Pt2: geometry.Pt(x2, y2)}
}

func loadSet(t *testing.T) *Set {
	t.Helper()

	cfg, err := Parse([]byte(intersectionDoc))
	require.NoError(t, err)

	set, err := cfg.ToImage(200, 200)
	require.NoError(t, err)
	return set
}

func TestParse(t *testing.T) {
	t.Parallel()

	cfg, err := Parse([]byte(intersectionDoc))
	require.NoError(t, err)

	require.Len(t, cfg.Lanes, 2)
	assert.Equal(t, "left", cfg.Lanes[0].Name)
	require.Len(t, cfg.Crosswalks, 1)
	require.NotNil(t, cfg.ROI)
	assert.Equal(t, "road", cfg.ROI.Name)
	require.NotNil(t, cfg.TrafficLight)
	assert.Equal(t, [][]float64{{0.75, 0.25}, {0.875, 0.375}}, cfg.TrafficLight.Red)
}

func TestParseRejectsInvalidZones(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
	}{
		{
			name: "too few points",
			doc:  "lanes:\n  - name: a\n    coords: [[0, 0], [1, 1]]\n",
		},
		{
			name: "not normalized",
			doc:  "crosswalks:\n  - name: a\n    coords: [[0, 0], [1.5, 0], [1, 1]]\n",
		},
		{
			name: "three values per coordinate",
			doc:  "roi:\n  coords: [[0, 0, 0], [1, 0], [1, 1]]\n",
		},
		{
			name: "collinear points",
			doc:  "lanes:\n  - name: a\n    coords: [[0, 0], [0.5, 0.5], [1, 1]]\n",
		},
		{
			name: "missing lamp",
			doc:  "traffic_light:\n  red: [[0, 0], [0.1, 0.1]]\n  yellow: [[0, 0.1], [0.1, 0.2]]\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.ErrorIs(t, err, ErrInvalidZone)
		})
	}
}

func TestParseMalformedYAML(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte("lanes: [unterminated"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidZone)
}

func TestLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "zones.yaml")
	require.NoError(t, os.WriteFile(path, []byte(intersectionDoc), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, cfg.Lanes, 2)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestToImage(t *testing.T) {
	t.Parallel()

	set := loadSet(t)

	assert.Equal(t, []geometry.Point{
		geometry.Pt(0, 100), geometry.Pt(100, 100), geometry.Pt(100, 200), geometry.Pt(0, 200),
	}, set.Lanes[0].Polygon.Points)

	// four point zones are reordered clockwise
	assert.Equal(t, []geometry.Point{
		geometry.Pt(100, 100), geometry.Pt(200, 100), geometry.Pt(200, 200), geometry.Pt(100, 200),
	}, set.Lanes[1].Polygon.Points)

	red, ok := set.LightBox(LightRed)
	require.True(t, ok)
	assert.Equal(t, box(150, 50, 175, 75), red)

	_, err := (&Config{}).ToImage(0, 100)
	assert.ErrorIs(t, err, ErrInvalidZone)
}

func TestToImageKeepsNonQuadrilateralOrder(t *testing.T) {
	t.Parallel()

	cfg, err := Parse([]byte("lanes:\n  - name: tri\n    coords: [[0, 0], [1, 0], [0.5, 1]]\n"))
	require.NoError(t, err)

	set, err := cfg.ToImage(10, 10)
	require.NoError(t, err)
	assert.Equal(t, []geometry.Point{
		geometry.Pt(0, 0), geometry.Pt(10, 0), geometry.Pt(5, 10),
	}, set.Lanes[0].Polygon.Points)
}

func TestToImageReversesCounterClockwiseZones(t *testing.T) {
	t.Parallel()

	cfg, err := Parse([]byte(`
lanes:
  - name: wedge
    coords: [[0.1, 0.1], [0.1, 0.9], [0.9, 0.5]]
roi:
  name: wedge
  coords: [[0.1, 0.1], [0.1, 0.9], [0.9, 0.5]]
`))
	require.NoError(t, err)

	set, err := cfg.ToImage(100, 100)
	require.NoError(t, err)
	assert.Equal(t, []geometry.Point{
		geometry.Pt(90, 50), geometry.Pt(10, 90), geometry.Pt(10, 10),
	}, set.Lanes[0].Polygon.Points)
	assert.Positive(t, set.Lanes[0].Polygon.Area())

	lane, ok := set.LaneOf(geometry.Pt(30, 50))
	require.True(t, ok)
	assert.Equal(t, "wedge", lane.Name)

	assert.InDelta(t, 1.0, set.ROIOverlap(box(15, 40, 35, 60)), 1e-9)
	assert.Positive(t, set.ROIOverlap(box(5, 40, 35, 60)))
	assert.Zero(t, set.ROIOverlap(box(92, 0, 99, 10)))
}

func TestLaneOf(t *testing.T) {
	t.Parallel()

	set := loadSet(t)

	lane, ok := set.LaneOf(geometry.Pt(50, 150))
	require.True(t, ok)
	assert.Equal(t, "left", lane.Name)

	lane, ok = set.LaneOf(geometry.Pt(150, 150))
	require.True(t, ok)
	assert.Equal(t, "right", lane.Name)

	_, ok = set.LaneOf(geometry.Pt(100, 20))
	assert.False(t, ok)
}

func TestInCrosswalk(t *testing.T) {
	t.Parallel()

	set := loadSet(t)

	cw, ok := set.InCrosswalk(box(10, 10, 30, 40))
	require.True(t, ok)
	assert.Equal(t, "north", cw.Name)

	_, ok = set.InCrosswalk(box(10, 30, 30, 40))
	assert.False(t, ok)
}

func TestROIOverlap(t *testing.T) {
	t.Parallel()

	set := loadSet(t)

	assert.InDelta(t, 0.5, set.ROIOverlap(box(10, 30, 30, 70)), 1e-9)
	assert.InDelta(t, 1.0, set.ROIOverlap(box(10, 60, 30, 80)), 1e-9)
	assert.InDelta(t, 0.0, set.ROIOverlap(box(10, 0, 30, 20)), 1e-9)
	assert.Equal(t, 0.0, set.ROIOverlap(box(10, 60, 10, 80)), "degenerate box")

	assert.True(t, set.InROI(box(10, 30, 30, 70), 0.49))
	assert.False(t, set.InROI(box(10, 30, 30, 70), 0.51))

	empty := &Set{Width: 200, Height: 200}
	assert.Equal(t, 1.0, empty.ROIOverlap(box(0, 0, 10, 10)))
}

func TestLightStateString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "red", LightRed.String())
	assert.Equal(t, "yellow", LightYellow.String())
	assert.Equal(t, "green", LightGreen.String())
	assert.Equal(t, "unknown", LightState(7).String())
}

func TestAnnotate(t *testing.T) {
	t.Parallel()

	set := loadSet(t)

	got := set.Annotate(box(30, 120, 70, 160))
	assert.Equal(t, "left", got["lane"])
	assert.NotContains(t, got, "crosswalk")
	assert.InDelta(t, 1.0, got["roi_overlap"], 1e-9)

	got = set.Annotate(box(10, 10, 30, 40))
	assert.NotContains(t, got, "lane")
	assert.Equal(t, "north", got["crosswalk"])
	assert.InDelta(t, 0.0, got["roi_overlap"], 1e-9)
}

func TestBoxFromMetadata(t *testing.T) {
	t.Parallel()

	b, ok := BoxFromMetadata([]interface{}{10.0, 20.0, 30.0, 40.0})
	require.True(t, ok)
	assert.Equal(t, box(10, 20, 30, 40), b)

	_, ok = BoxFromMetadata([]interface{}{10.0, 20.0, 30.0})
	assert.False(t, ok)
	_, ok = BoxFromMetadata([]interface{}{10.0, "20", 30.0, 40.0})
	assert.False(t, ok)
	_, ok = BoxFromMetadata("10,20,30,40")
	assert.False(t, ok)
}
