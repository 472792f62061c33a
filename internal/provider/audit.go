package provider

import (
	"fmt"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy/lineintersection"
	"github.com/twpayne/go-geom/xy/lineintersector"

	"github.com/sells-group/bloominghealth/internal/intensity"
	"github.com/sells-group/bloominghealth/internal/model"
)

// IssueKind classifies a data quality finding.
type IssueKind string

// Data quality finding kinds.
const (
	IssueIntensityOutOfRange IssueKind = "intensity_out_of_range"
	IssueDuplicateID         IssueKind = "duplicate_id"
	IssueDegenerateBoundary  IssueKind = "degenerate_boundary"
	IssueSelfIntersecting    IssueKind = "self_intersecting_boundary"
)

// Issue is a data quality finding for one zone record.
type Issue struct {
	Year   int       `json:"year"`
	ZoneID string    `json:"zone_id"`
	Kind   IssueKind `json:"kind"`
	Detail string    `json:"detail"`
}

// Audit checks snapshots for data entry errors: intensities outside [0,100],
// ids repeated within a year, and boundaries that are not simple closed rings.
func Audit(snapshots []model.YearSnapshot) []Issue {
	var issues []Issue
	for _, snap := range snapshots {
		seen := make(map[string]int, len(snap.Zones))
		for _, z := range snap.Zones {
			seen[z.ID]++
			if seen[z.ID] == 2 {
				issues = append(issues, Issue{
					Year:   snap.Year,
					ZoneID: z.ID,
					Kind:   IssueDuplicateID,
					Detail: fmt.Sprintf("id %q appears more than once", z.ID),
				})
			}

			if !intensity.InRange(z.BloomIntensity) {
				issues = append(issues, Issue{
					Year:   snap.Year,
					ZoneID: z.ID,
					Kind:   IssueIntensityOutOfRange,
					Detail: fmt.Sprintf("bloom intensity %d outside [0,100]", z.BloomIntensity),
				})
			}

			if !z.Position.HasBoundary() {
				continue
			}
			ring := openRing(z.Position.Boundary)
			if len(ring) < 3 {
				issues = append(issues, Issue{
					Year:   snap.Year,
					ZoneID: z.ID,
					Kind:   IssueDegenerateBoundary,
					Detail: fmt.Sprintf("boundary has %d distinct points, need at least 3", len(ring)),
				})
				continue
			}
			if i, j, ok := firstCrossing(ring); ok {
				issues = append(issues, Issue{
					Year:   snap.Year,
					ZoneID: z.ID,
					Kind:   IssueSelfIntersecting,
					Detail: fmt.Sprintf("boundary edges %d and %d intersect", i, j),
				})
			}
		}
	}
	return issues
}

// openRing converts a boundary to [lon, lat] coordinates, dropping repeated
// consecutive points and the closing point.
func openRing(boundary []model.Coord) []geom.Coord {
	ring := make([]geom.Coord, 0, len(boundary))
	for i, c := range boundary {
		if i > 0 && c == boundary[i-1] {
			continue
		}
		ring = append(ring, geom.Coord{c.Lon, c.Lat})
	}
	if n := len(ring); n > 1 && ring[0].Equal(geom.XY, ring[n-1]) {
		ring = ring[:n-1]
	}
	return ring
}

// firstCrossing returns the first pair of ring edges that intersect other than
// at the single vertex shared by neighbouring edges.
func firstCrossing(ring []geom.Coord) (int, int, bool) {
	n := len(ring)
	strategy := lineintersector.RobustLineIntersector{}
	edge := func(i int) (geom.Coord, geom.Coord) {
		return ring[i], ring[(i+1)%n]
	}

	for i := 0; i < n; i++ {
		a1, a2 := edge(i)
		for j := i + 1; j < n; j++ {
			b1, b2 := edge(j)
			res := lineintersector.LineIntersectsLine(strategy, a1, a2, b1, b2)
			if !res.HasIntersection() {
				continue
			}
			adjacent := j == i+1 || (i == 0 && j == n-1)
			if adjacent && res.Type() == lineintersection.PointIntersection {
				continue
			}
			return i, j, true
		}
	}
	return 0, 0, false
}
