package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZoneRecord_CloneIsDeep(t *testing.T) {
	orig := ZoneRecord{
		ID:              "north",
		Name:            "North Monterrey",
		BloomIntensity:  78,
		DominantFlowers: []string{"Jacaranda", "Orange Blossom"},
		Position: Position{
			Center:   &Coord{Lat: 25.7617, Lon: -100.2722},
			Boundary: []Coord{{Lat: 25.8, Lon: -100.45}, {Lat: 25.8, Lon: -100.31}, {Lat: 25.72, Lon: -100.31}},
		},
		Year: 2024,
	}

	cp := orig.Clone()
	cp.DominantFlowers[0] = "Cenizo"
	cp.Position.Center.Lat = 0
	cp.Position.Boundary[0].Lon = 0

	assert.Equal(t, "Jacaranda", orig.DominantFlowers[0])
	assert.InDelta(t, 25.7617, orig.Position.Center.Lat, 1e-9)
	assert.InDelta(t, -100.45, orig.Position.Boundary[0].Lon, 1e-9)
}

func TestZoneRecord_CloneKeepsNilSlices(t *testing.T) {
	cp := ZoneRecord{ID: "east"}.Clone()
	assert.Nil(t, cp.DominantFlowers)
	assert.Nil(t, cp.Position.Center)
	assert.Nil(t, cp.Position.Boundary)
	assert.False(t, cp.Position.HasBoundary())
}
