package dashboard

import "github.com/sells-group/bloominghealth/internal/model"

// Trend is the direction of a zone's intensity between two years.
type Trend string

// Trend values.
const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendSteady Trend = "steady"
)

// ZoneTrend compares one zone across two snapshots.
type ZoneTrend struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Previous    int    `json:"previous"`
	Current     int    `json:"current"`
	Delta       int    `json:"delta"`
	Trend       Trend  `json:"trend"`
	HasPrevious bool   `json:"hasPrevious"`
}

// Compare matches cur against prev by zone id and reports the change in cur
// order. Zones absent from prev are reported steady with HasPrevious unset.
// When prev repeats an id the first occurrence is used.
func Compare(prev, cur []model.ZoneRecord) []ZoneTrend {
	before := make(map[string]int, len(prev))
	for _, z := range prev {
		if _, ok := before[z.ID]; !ok {
			before[z.ID] = z.BloomIntensity
		}
	}

	out := make([]ZoneTrend, 0, len(cur))
	for _, z := range cur {
		t := ZoneTrend{ID: z.ID, Name: z.Name, Current: z.BloomIntensity, Trend: TrendSteady}
		if p, ok := before[z.ID]; ok {
			t.HasPrevious = true
			t.Previous = p
			t.Delta = z.BloomIntensity - p
			switch {
			case t.Delta > 0:
				t.Trend = TrendUp
			case t.Delta < 0:
				t.Trend = TrendDown
			}
		}
		out = append(out, t)
	}
	return out
}
