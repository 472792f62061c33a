// Package forecast projects zone bloom intensities one year ahead from the
// yearly snapshots and scores those projections against a held-out year.
//
// Two methods are available. The linear method fits a least-squares trend
// through each zone's history; the naive method repeats the most recent
// observation, which for yearly data is the same season one year back.
package forecast

import (
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/sells-group/bloominghealth/internal/intensity"
	"github.com/sells-group/bloominghealth/internal/model"
	"github.com/sells-group/bloominghealth/internal/provider"
)

// Method names a projection method.
type Method string

// Projection methods.
const (
	MethodLinear Method = "linear"
	MethodNaive  Method = "naive"
)

// Methods returns every method in display order.
func Methods() []Method {
	return []Method{MethodLinear, MethodNaive}
}

// ParseMethod resolves a method name, case-insensitively. Empty selects linear.
func ParseMethod(s string) (Method, bool) {
	switch Method(strings.ToLower(strings.TrimSpace(s))) {
	case "", MethodLinear:
		return MethodLinear, true
	case MethodNaive:
		return MethodNaive, true
	default:
		return "", false
	}
}

// Point is one observed year of a zone.
type Point struct {
	Year      int `json:"year"`
	Intensity int `json:"intensity"`
}

// Series is the observed history of one zone, ascending by year.
type Series struct {
	ID     string
	Name   string
	Points []Point
}

// BuildSeries collects per-zone histories from snapshots. Zones follow the
// order of the most recent snapshot they appear in; a zone repeated within
// one year contributes its first occurrence.
func BuildSeries(snapshots []model.YearSnapshot) []Series {
	snaps := append([]model.YearSnapshot(nil), snapshots...)
	sort.SliceStable(snaps, func(i, j int) bool { return snaps[i].Year > snaps[j].Year })

	index := make(map[string]int)
	var out []Series
	for _, snap := range snaps {
		seen := make(map[string]bool, len(snap.Zones))
		for _, z := range snap.Zones {
			if seen[z.ID] {
				continue
			}
			seen[z.ID] = true

			i, ok := index[z.ID]
			if !ok {
				i = len(out)
				index[z.ID] = i
				out = append(out, Series{ID: z.ID, Name: z.Name})
			}
			out[i].Points = append(out[i].Points, Point{Year: snap.Year, Intensity: z.BloomIntensity})
		}
	}

	for i := range out {
		pts := out[i].Points
		sort.Slice(pts, func(a, b int) bool { return pts[a].Year < pts[b].Year })
	}
	return out
}

// Trend is a least-squares line through a series: value = Level + Slope*(year-Origin).
type Trend struct {
	Origin int     `json:"origin"`
	Level  float64 `json:"level"`
	Slope  float64 `json:"slope"`
}

// At evaluates the trend for year.
func (t Trend) At(year int) float64 {
	return t.Level + t.Slope*float64(year-t.Origin)
}

// Fit returns the least-squares trend through pts. A single point yields a
// flat line; no points yield the zero trend.
func Fit(pts []Point) Trend {
	switch len(pts) {
	case 0:
		return Trend{}
	case 1:
		return Trend{Origin: pts[0].Year, Level: float64(pts[0].Intensity)}
	}

	origin := pts[0].Year
	xs := make([]float64, len(pts))
	ys := make([]float64, len(pts))
	for i, p := range pts {
		xs[i] = float64(p.Year - origin)
		ys[i] = float64(p.Intensity)
	}
	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	if math.IsNaN(alpha) || math.IsNaN(beta) {
		// Every point shares one year.
		return Trend{Origin: origin, Level: stat.Mean(ys, nil)}
	}
	return Trend{Origin: origin, Level: alpha, Slope: beta}
}

// predict projects pts to year with method m.
func (m Method) predict(pts []Point, year int) (float64, Trend) {
	if len(pts) == 0 {
		return 0, Trend{}
	}
	if m == MethodNaive {
		last := pts[len(pts)-1]
		return float64(last.Intensity), Trend{Origin: last.Year, Level: float64(last.Intensity)}
	}
	t := Fit(pts)
	return t.At(year), t
}

// fitted returns the in-sample predictions of m over pts. The naive method
// predicts each point from the one before it, so its first point is skipped.
func (m Method) fitted(pts []Point, t Trend) (actual, predicted []float64) {
	if m == MethodNaive {
		for i := 1; i < len(pts); i++ {
			actual = append(actual, float64(pts[i].Intensity))
			predicted = append(predicted, float64(pts[i-1].Intensity))
		}
		return actual, predicted
	}
	for _, p := range pts {
		actual = append(actual, float64(p.Intensity))
		predicted = append(predicted, t.At(p.Year))
	}
	return actual, predicted
}

// ZoneForecast is the projection of one zone.
type ZoneForecast struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Year          int            `json:"year"`
	LastYear      int            `json:"lastYear"`
	LastIntensity int            `json:"lastIntensity"`
	Predicted     float64        `json:"predicted"`
	Intensity     int            `json:"intensity"`
	Tier          intensity.Tier `json:"tier"`
	Slope         float64        `json:"slope"`
	Observations  int            `json:"observations"`
	Fit           Errors         `json:"fit"`
}

// Projection is the one-year-ahead forecast of every zone.
type Projection struct {
	Method   Method         `json:"method"`
	BaseYear int            `json:"baseYear"`
	Year     int            `json:"year"`
	Zones    []ZoneForecast `json:"zones"`
}

// Project forecasts the year after the latest snapshot. Predicted values are
// kept raw; Intensity is the prediction rounded and clamped to [0,100] and
// Tier classifies it.
func Project(snapshots []model.YearSnapshot, m Method) Projection {
	p := Projection{Method: m, Zones: []ZoneForecast{}}
	for _, snap := range snapshots {
		if snap.Year > p.BaseYear {
			p.BaseYear = snap.Year
		}
	}
	if len(snapshots) == 0 {
		return p
	}
	p.Year = p.BaseYear + 1

	for _, s := range BuildSeries(snapshots) {
		pred, trend := m.predict(s.Points, p.Year)
		last := s.Points[len(s.Points)-1]
		v := Clamp(pred)
		p.Zones = append(p.Zones, ZoneForecast{
			ID:            s.ID,
			Name:          s.Name,
			Year:          p.Year,
			LastYear:      last.Year,
			LastIntensity: last.Intensity,
			Predicted:     pred,
			Intensity:     v,
			Tier:          intensity.TierOf(v),
			Slope:         trend.Slope,
			Observations:  len(s.Points),
			Fit:           Score(m.fitted(s.Points, trend)),
		})
	}
	return p
}

// Clamp rounds a predicted intensity and limits it to [0,100].
func Clamp(v float64) int {
	r := int(math.Round(v))
	switch {
	case r < 0:
		return 0
	case r > 100:
		return 100
	default:
		return r
	}
}

// History returns the snapshots of p up to and including year, ascending. It
// returns nil when year itself has no zones.
func History(p provider.Provider, year int) []model.YearSnapshot {
	if len(p.ListZones(year)) == 0 {
		return nil
	}
	var out []model.YearSnapshot
	for _, y := range p.ListYears() {
		if y > year {
			break
		}
		out = append(out, model.YearSnapshot{Year: y, Zones: p.ListZones(y)})
	}
	return out
}
