// Package provider supplies the read-only zone, flower, and health alert
// reference data consumed by the classifier, layout engine, and HTTP views.
package provider

import (
	_ "embed"
	"sort"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/bloominghealth/internal/model"
)

// Provider is the read-only zone data contract.
type Provider interface {
	// ListZones returns the zones of a year in stable order. Unknown years
	// yield an empty slice.
	ListZones(year int) []model.ZoneRecord
	// ListYears returns the available years in ascending order.
	ListYears() []int
}

// Catalog supplies the display-only flower and health alert records.
type Catalog interface {
	ListFlowers() []model.Flower
	ListHealthAlerts() []model.HealthAlert
}

//go:embed data/monterrey.yaml
var monterreyData []byte

type document struct {
	Snapshots    []model.YearSnapshot `yaml:"snapshots"`
	Flowers      []model.Flower       `yaml:"flowers"`
	HealthAlerts []model.HealthAlert  `yaml:"health_alerts"`
}

// Static serves compiled-in reference data. It is immutable after
// construction and safe for concurrent use.
type Static struct {
	years   []int
	byYear  map[int][]model.ZoneRecord
	flowers []model.Flower
	alerts  []model.HealthAlert
	issues  []Issue
}

// Load builds a Static provider from the embedded Monterrey data set.
func Load() (*Static, error) {
	return Parse(monterreyData)
}

// Parse builds a Static provider from a YAML document.
func Parse(data []byte) (*Static, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, eris.Wrap(err, "provider: decode data")
	}
	return New(doc.Snapshots, doc.Flowers, doc.HealthAlerts), nil
}

// New builds a Static provider from in-memory records. Snapshots sharing a
// year are merged in input order. Audit findings are logged, never fatal.
func New(snapshots []model.YearSnapshot, flowers []model.Flower, alerts []model.HealthAlert) *Static {
	s := &Static{
		byYear:  make(map[int][]model.ZoneRecord, len(snapshots)),
		flowers: append([]model.Flower(nil), flowers...),
		alerts:  append([]model.HealthAlert(nil), alerts...),
	}

	for _, snap := range snapshots {
		if _, ok := s.byYear[snap.Year]; !ok {
			s.years = append(s.years, snap.Year)
		}
		for _, z := range snap.Zones {
			z = z.Clone()
			z.Year = snap.Year
			s.byYear[snap.Year] = append(s.byYear[snap.Year], z)
		}
	}
	sort.Ints(s.years)

	merged := make([]model.YearSnapshot, 0, len(s.years))
	for _, y := range s.years {
		merged = append(merged, model.YearSnapshot{Year: y, Zones: s.byYear[y]})
	}
	s.issues = Audit(merged)

	log := zap.L().With(zap.String("component", "provider"))
	for _, is := range s.issues {
		log.Warn("provider: data quality issue",
			zap.Int("year", is.Year),
			zap.String("zone", is.ZoneID),
			zap.String("kind", string(is.Kind)),
			zap.String("detail", is.Detail),
		)
	}
	log.Debug("provider: loaded reference data",
		zap.Ints("years", s.years),
		zap.Int("flowers", len(s.flowers)),
		zap.Int("alerts", len(s.alerts)),
	)

	return s
}

// ListZones returns copies of the zones recorded for year.
func (s *Static) ListZones(year int) []model.ZoneRecord {
	zones := s.byYear[year]
	out := make([]model.ZoneRecord, len(zones))
	for i, z := range zones {
		out[i] = z.Clone()
	}
	return out
}

// ListYears returns the available years, ascending.
func (s *Static) ListYears() []int {
	return append([]int{}, s.years...)
}

// LatestYear returns the most recent year with data.
func (s *Static) LatestYear() (int, bool) {
	if len(s.years) == 0 {
		return 0, false
	}
	return s.years[len(s.years)-1], true
}

// PreviousYear returns the closest year with data before year.
func (s *Static) PreviousYear(year int) (int, bool) {
	idx := sort.SearchInts(s.years, year)
	if idx == 0 {
		return 0, false
	}
	return s.years[idx-1], true
}

// ListFlowers returns the flower display records.
func (s *Static) ListFlowers() []model.Flower {
	return append([]model.Flower{}, s.flowers...)
}

// ListHealthAlerts returns the health alert display records.
func (s *Static) ListHealthAlerts() []model.HealthAlert {
	out := make([]model.HealthAlert, len(s.alerts))
	for i, a := range s.alerts {
		a.Precautions = append([]string(nil), a.Precautions...)
		out[i] = a
	}
	return out
}

// Issues returns the data quality findings recorded at load time.
func (s *Static) Issues() []Issue {
	return append([]Issue{}, s.issues...)
}
