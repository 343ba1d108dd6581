package zones

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"incident-worker-go/internal/geometry"
)

// ErrInvalidZone is returned for zone definitions that cannot be converted to geometry
var ErrInvalidZone = errors.New("invalid zone")

// Config is the zones document for one camera. Coordinates are normalized to
// [0,1] and converted to pixels once the frame size is known.
type Config struct {
	Lanes        []ZoneDefinition    `yaml:"lanes"`
	Crosswalks   []ZoneDefinition    `yaml:"crosswalks"`
	ROI          *ZoneDefinition     `yaml:"roi,omitempty"`
	TrafficLight *TrafficLightConfig `yaml:"traffic_light,omitempty"`
}

// ZoneDefinition defines a single named polygon
type ZoneDefinition struct {
	Name   string      `yaml:"name"`
	Coords [][]float64 `yaml:"coords"` // [[x1,y1], [x2,y2], ...]
}

// TrafficLightConfig holds one box per lamp, each as [[x1,y1], [x2,y2]]
type TrafficLightConfig struct {
	Red    [][]float64 `yaml:"red"`
	Yellow [][]float64 `yaml:"yellow"`
	Green  [][]float64 `yaml:"green"`
}

// Load reads and parses a YAML zones file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read zones file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a zones document
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse zones: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid zones configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks that every zone converts to geometry
func Validate(cfg *Config) error {
	for i, lane := range cfg.Lanes {
		if _, err := lane.polygon(); err != nil {
			return fmt.Errorf("lane %d: %w", i, err)
		}
	}
	for i, cw := range cfg.Crosswalks {
		if _, err := cw.polygon(); err != nil {
			return fmt.Errorf("crosswalk %d: %w", i, err)
		}
	}
	if cfg.ROI != nil {
		if _, err := cfg.ROI.polygon(); err != nil {
			return fmt.Errorf("roi: %w", err)
		}
	}
	if cfg.TrafficLight != nil {
		if _, err := cfg.TrafficLight.boxes(); err != nil {
			return fmt.Errorf("traffic_light: %w", err)
		}
	}
	return nil
}

func (z ZoneDefinition) polygon() (geometry.Polygon, error) {
	pts := make([]geometry.Point, 0, len(z.Coords))
	for _, c := range z.Coords {
		pt, err := coordToPoint(c)
		if err != nil {
			return geometry.Polygon{}, err
		}
		pts = append(pts, pt)
	}

	poly, err := geometry.NewPolygon(pts...)
	if err != nil {
		return geometry.Polygon{}, fmt.Errorf("%w: %w", ErrInvalidZone, err)
	}
	if poly.Area() == 0 {
		return geometry.Polygon{}, fmt.Errorf("%w: polygon %v has no area", ErrInvalidZone, z.Coords)
	}
	return poly, nil
}

func (t TrafficLightConfig) boxes() (map[LightState]geometry.Box, error) {
	out := make(map[LightState]geometry.Box, 3)
	for state, coords := range map[LightState][][]float64{
		LightRed:    t.Red,
		LightYellow: t.Yellow,
		LightGreen:  t.Green,
	} {
		if len(coords) != 2 {
			return nil, fmt.Errorf("%w: %s box needs 2 corners, got %d", ErrInvalidZone, state, len(coords))
		}
		pt1, err := coordToPoint(coords[0])
		if err != nil {
			return nil, err
		}
		pt2, err := coordToPoint(coords[1])
		if err != nil {
			return nil, err
		}
		out[state] = geometry.Box{Pt1: pt1, Pt2: pt2}
	}
	return out, nil
}

func coordToPoint(c []float64) (geometry.Point, error) {
	if len(c) != 2 {
		return geometry.Point{}, fmt.Errorf("%w: coordinate needs 2 values, got %d", ErrInvalidZone, len(c))
	}
	x, y := c[0], c[1]
	if x < 0 || x > 1 || y < 0 || y > 1 {
		return geometry.Point{}, fmt.Errorf("%w: coordinate (%g, %g) is not normalized", ErrInvalidZone, x, y)
	}
	return geometry.Pt(x, y), nil
}

// ToImage converts the document to pixel space for a w x h frame. Four point
// polygons are reordered clockwise; others keep their order unless written
// counter-clockwise, in which case they are reversed.
func (c *Config) ToImage(w, h int) (*Set, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: frame size %dx%d", ErrInvalidZone, w, h)
	}

	set := &Set{Width: w, Height: h}

	for _, lane := range c.Lanes {
		zone, err := lane.toImage(w, h)
		if err != nil {
			return nil, fmt.Errorf("lane %q: %w", lane.Name, err)
		}
		set.Lanes = append(set.Lanes, zone)
	}
	for _, cw := range c.Crosswalks {
		zone, err := cw.toImage(w, h)
		if err != nil {
			return nil, fmt.Errorf("crosswalk %q: %w", cw.Name, err)
		}
		set.Crosswalks = append(set.Crosswalks, zone)
	}
	if c.ROI != nil {
		zone, err := c.ROI.toImage(w, h)
		if err != nil {
			return nil, fmt.Errorf("roi: %w", err)
		}
		set.ROI = &zone
	}
	if c.TrafficLight != nil {
		boxes, err := c.TrafficLight.boxes()
		if err != nil {
			return nil, fmt.Errorf("traffic_light: %w", err)
		}
		set.TrafficLight = make(map[LightState]geometry.Box, len(boxes))
		for state, box := range boxes {
			set.TrafficLight[state] = box.ToImageCoords(w, h)
		}
	}

	return set, nil
}

func (z ZoneDefinition) toImage(w, h int) (Zone, error) {
	poly, err := z.polygon()
	if err != nil {
		return Zone{}, err
	}
	poly, err = poly.ToImageCoords(w, h, len(poly.Points) == 4)
	if err != nil {
		return Zone{}, err
	}

	// Contains and Clip need clockwise winding, which is positive area with y down
	switch area := poly.Area(); {
	case area == 0:
		return Zone{}, fmt.Errorf("%w: polygon has no area at %dx%d", ErrInvalidZone, w, h)
	case area < 0:
		slices.Reverse(poly.Points)
	}
	return Zone{Name: z.Name, Polygon: poly}, nil
}
