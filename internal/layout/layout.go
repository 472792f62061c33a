// Package layout places classified zones on the bloom map.
//
// Two strategies are supported. Radial placement spreads zones around a
// center point by input index; anchor placement echoes the boundary or
// center supplied with each zone. Neither strategy fails: unknown or empty
// selections highlight nothing and duplicate ids highlight every match.
package layout

import (
	"math"
	"strings"

	"github.com/sells-group/bloominghealth/internal/intensity"
	"github.com/sells-group/bloominghealth/internal/model"
)

// Strategy names a placement strategy.
type Strategy string

// Placement strategies.
const (
	StrategyRadial  Strategy = "radial"
	StrategyAnchors Strategy = "anchors"
)

// ParseStrategy resolves a strategy name, case-insensitively.
func ParseStrategy(s string) (Strategy, bool) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case StrategyRadial:
		return StrategyRadial, true
	case StrategyAnchors:
		return StrategyAnchors, true
	default:
		return "", false
	}
}

// DefaultRadius is the marker ring radius in display units.
const DefaultRadius = 140.0

// Point is a position in display space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// OpacityPolicy is the fixed two-level opacity applied to zone fills and
// strokes depending on whether the zone is selected.
type OpacityPolicy struct {
	SelectedFill     float64 `json:"selected_fill"`
	UnselectedFill   float64 `json:"unselected_fill"`
	SelectedStroke   float64 `json:"selected_stroke"`
	UnselectedStroke float64 `json:"unselected_stroke"`
}

// DefaultOpacity returns the opacity levels used by the bloom map.
func DefaultOpacity() OpacityPolicy {
	return OpacityPolicy{
		SelectedFill:     0.4,
		UnselectedFill:   0.15,
		SelectedStroke:   0.8,
		UnselectedStroke: 0.5,
	}
}

func (o OpacityPolicy) levels(selected bool) (fill, stroke float64) {
	if selected {
		return o.SelectedFill, o.SelectedStroke
	}
	return o.UnselectedFill, o.UnselectedStroke
}

// Descriptor is the render description of one zone.
type Descriptor struct {
	ZoneID        string         `json:"id"`
	Name          string         `json:"name"`
	Intensity     int            `json:"intensity"`
	Tier          intensity.Tier `json:"tier"`
	Color         string         `json:"color"`
	Angle         *float64       `json:"angle,omitempty"`
	Point         *Point         `json:"point,omitempty"`
	Center        *model.Coord   `json:"center,omitempty"`
	Boundary      []model.Coord  `json:"boundary,omitempty"`
	FillOpacity   float64        `json:"fillOpacity"`
	StrokeOpacity float64        `json:"strokeOpacity"`
	Selected      bool           `json:"selected"`
}

// Engine computes render descriptors for ordered zone sequences.
type Engine struct {
	Center  Point
	Radius  float64
	Opacity OpacityPolicy
	Palette intensity.Palette
}

// NewEngine returns an engine centered on the origin with the default radius,
// opacity levels, and Tailwind palette.
func NewEngine() *Engine {
	return &Engine{
		Radius:  DefaultRadius,
		Opacity: DefaultOpacity(),
		Palette: intensity.Tailwind,
	}
}

// Layout dispatches to the named strategy. Unknown strategies fall back to
// radial placement.
func (e *Engine) Layout(s Strategy, zones []model.ZoneRecord, stepDeg float64, selectedID string) []Descriptor {
	if s == StrategyAnchors {
		return e.Anchors(zones, selectedID)
	}
	return e.Radial(zones, stepDeg, selectedID)
}

// Radial places zone i at angle i*stepDeg around the engine center. A
// non-positive or non-finite step spreads the zones evenly (360/N). Angles follow input
// order, so reordering the input moves every zone.
func (e *Engine) Radial(zones []model.ZoneRecord, stepDeg float64, selectedID string) []Descriptor {
	if len(zones) == 0 {
		return []Descriptor{}
	}
	if stepDeg <= 0 || math.IsNaN(stepDeg) || math.IsInf(stepDeg, 0) {
		stepDeg = EvenStep(len(zones))
	}

	out := make([]Descriptor, 0, len(zones))
	for i, z := range zones {
		d := e.describe(z, selectedID)
		angle := AngleAt(i, stepDeg)
		pt := Place(e.Center, e.Radius, angle)
		d.Angle = &angle
		d.Point = &pt
		out = append(out, d)
	}
	return out
}

// Anchors echoes each zone's provider-supplied boundary and center.
func (e *Engine) Anchors(zones []model.ZoneRecord, selectedID string) []Descriptor {
	out := make([]Descriptor, 0, len(zones))
	for _, z := range zones {
		d := e.describe(z, selectedID)
		pos := z.Position.Clone()
		d.Center = pos.Center
		d.Boundary = pos.Boundary
		out = append(out, d)
	}
	return out
}

func (e *Engine) describe(z model.ZoneRecord, selectedID string) Descriptor {
	c := intensity.Classify(z.BloomIntensity)
	selected := IsSelected(z, selectedID)
	fill, stroke := e.Opacity.levels(selected)
	return Descriptor{
		ZoneID:        z.ID,
		Name:          z.Name,
		Intensity:     z.BloomIntensity,
		Tier:          c.Tier,
		Color:         e.Palette.Render(c.Color),
		FillOpacity:   fill,
		StrokeOpacity: stroke,
		Selected:      selected,
	}
}

// IsSelected reports whether z matches a non-empty selected id.
func IsSelected(z model.ZoneRecord, selectedID string) bool {
	return selectedID != "" && z.ID == selectedID
}

// EvenStep returns the angular step in degrees that spreads n zones evenly.
func EvenStep(n int) float64 {
	if n <= 0 {
		return 0
	}
	return 360 / float64(n)
}

// AngleAt returns the angle in degrees assigned to index i, normalized to [0,360).
func AngleAt(i int, stepDeg float64) float64 {
	a := math.Mod(float64(i)*stepDeg, 360)
	if a < 0 {
		a += 360
	}
	return a
}

// Place returns center + radius*(cos θ, sin θ) for an angle in degrees.
func Place(center Point, radius, angleDeg float64) Point {
	rad := angleDeg * math.Pi / 180
	return Point{
		X: snap(center.X + radius*math.Cos(rad)),
		Y: snap(center.Y + radius*math.Sin(rad)),
	}
}

// snap rounds away floating-point noise from the trigonometric functions.
func snap(v float64) float64 {
	r := math.Round(v*1e9) / 1e9
	if r == 0 {
		return 0
	}
	return r
}
