package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/bloominghealth/internal/model"
)

func square() []model.Coord {
	return []model.Coord{
		{Lat: 25.72, Lon: -100.38},
		{Lat: 25.72, Lon: -100.24},
		{Lat: 25.62, Lon: -100.24},
		{Lat: 25.62, Lon: -100.38},
	}
}

func TestAudit(t *testing.T) {
	tests := []struct {
		name  string
		zones []model.ZoneRecord
		kinds []IssueKind
	}{
		{
			name:  "clean zone",
			zones: []model.ZoneRecord{{ID: "centro", BloomIntensity: 95, Position: model.Position{Boundary: square()}}},
		},
		{
			name: "closed ring is accepted",
			zones: []model.ZoneRecord{{ID: "centro", BloomIntensity: 50, Position: model.Position{
				Boundary: append(square(), square()[0]),
			}}},
		},
		{
			name:  "intensity above range",
			zones: []model.ZoneRecord{{ID: "sur", BloomIntensity: 120}},
			kinds: []IssueKind{IssueIntensityOutOfRange},
		},
		{
			name:  "intensity below range",
			zones: []model.ZoneRecord{{ID: "sur", BloomIntensity: -5}},
			kinds: []IssueKind{IssueIntensityOutOfRange},
		},
		{
			name: "duplicate id reported once",
			zones: []model.ZoneRecord{
				{ID: "este", BloomIntensity: 80},
				{ID: "este", BloomIntensity: 70},
				{ID: "este", BloomIntensity: 60},
			},
			kinds: []IssueKind{IssueDuplicateID},
		},
		{
			name: "two point boundary",
			zones: []model.ZoneRecord{{ID: "oeste", BloomIntensity: 73, Position: model.Position{
				Boundary: []model.Coord{{Lat: 1, Lon: 1}, {Lat: 2, Lon: 2}, {Lat: 2, Lon: 2}},
			}}},
			kinds: []IssueKind{IssueDegenerateBoundary},
		},
		{
			name: "bow tie",
			zones: []model.ZoneRecord{{ID: "norte", BloomIntensity: 84, Position: model.Position{
				Boundary: []model.Coord{{Lat: 0, Lon: 0}, {Lat: 1, Lon: 1}, {Lat: 0, Lon: 1}, {Lat: 1, Lon: 0}},
			}}},
			kinds: []IssueKind{IssueSelfIntersecting},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := Audit([]model.YearSnapshot{{Year: 2024, Zones: tt.zones}})
			require.Len(t, issues, len(tt.kinds))
			for i, k := range tt.kinds {
				assert.Equal(t, k, issues[i].Kind)
				assert.Equal(t, 2024, issues[i].Year)
			}
		})
	}
}

func TestAudit_DuplicatesAreScopedPerYear(t *testing.T) {
	issues := Audit([]model.YearSnapshot{
		{Year: 2023, Zones: []model.ZoneRecord{{ID: "north", BloomIntensity: 82}}},
		{Year: 2024, Zones: []model.ZoneRecord{{ID: "north", BloomIntensity: 78}}},
	})
	assert.Empty(t, issues)
}

func TestNew_RecordsIssues(t *testing.T) {
	p := New([]model.YearSnapshot{
		{Year: 2024, Zones: []model.ZoneRecord{{ID: "x", BloomIntensity: 101}}},
	}, nil, nil)

	issues := p.Issues()
	require.Len(t, issues, 1)
	assert.Equal(t, "x", issues[0].ZoneID)
	assert.Equal(t, IssueIntensityOutOfRange, issues[0].Kind)

	// Out-of-range records are still served.
	assert.Len(t, p.ListZones(2024), 1)
}
