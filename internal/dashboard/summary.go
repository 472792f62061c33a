// Package dashboard derives the headline metrics and year-over-year trends
// shown on the dashboard page from provider data.
package dashboard

import (
	"math"

	"github.com/sells-group/bloominghealth/internal/intensity"
	"github.com/sells-group/bloominghealth/internal/model"
)

// PollenLevel is the city-wide mean bloom intensity and its classification.
type PollenLevel struct {
	Percentage int `json:"percentage"`
	intensity.Classification
}

// PeakZone names the zone with the highest bloom intensity.
type PeakZone struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Intensity int            `json:"intensity"`
	Tier      intensity.Tier `json:"tier"`
}

// Summary holds the headline dashboard metrics.
type Summary struct {
	ActiveBlooms int         `json:"activeBlooms"`
	PollenLevel  PollenLevel `json:"pollenLevel"`
	HealthAlerts int         `json:"healthAlerts"`
	PeakZone     *PeakZone   `json:"peakZone,omitempty"`
}

// Summarize computes the dashboard metrics for one year of zones. The pollen
// level is the mean intensity rounded half away from zero, 0 with no zones.
// The first zone wins ties for peak.
func Summarize(zones []model.ZoneRecord, flowers []model.Flower, alerts []model.HealthAlert) Summary {
	s := Summary{HealthAlerts: len(alerts)}

	for _, f := range flowers {
		if f.IsCurrentlyBlooming {
			s.ActiveBlooms++
		}
	}

	total := 0
	for _, z := range zones {
		total += z.BloomIntensity
		if s.PeakZone == nil || z.BloomIntensity > s.PeakZone.Intensity {
			s.PeakZone = &PeakZone{
				ID:        z.ID,
				Name:      z.Name,
				Intensity: z.BloomIntensity,
				Tier:      intensity.TierOf(z.BloomIntensity),
			}
		}
	}

	mean := 0
	if len(zones) > 0 {
		mean = int(math.Round(float64(total) / float64(len(zones))))
	}
	s.PollenLevel = PollenLevel{Percentage: mean, Classification: intensity.Classify(mean)}

	return s
}
