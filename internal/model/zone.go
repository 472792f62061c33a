package model

// Coord is a geographic coordinate in decimal degrees.
type Coord struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lon float64 `json:"lon" yaml:"lon"`
}

// Position is the footprint of a zone on the map. A zone carries a center
// point, a boundary ring, or both; the center doubles as the marker anchor.
type Position struct {
	Center   *Coord  `json:"center,omitempty" yaml:"center,omitempty"`
	Boundary []Coord `json:"boundary,omitempty" yaml:"boundary,omitempty"`
}

// HasBoundary reports whether the position carries a polygon footprint.
func (p Position) HasBoundary() bool {
	return len(p.Boundary) > 0
}

// Clone returns a deep copy of the position.
func (p Position) Clone() Position {
	out := Position{}
	if p.Center != nil {
		c := *p.Center
		out.Center = &c
	}
	if p.Boundary != nil {
		out.Boundary = append([]Coord(nil), p.Boundary...)
	}
	return out
}

// ZoneRecord is one geographic sub-area of the tracked city for a single year.
type ZoneRecord struct {
	ID              string   `json:"id" yaml:"id"`
	Name            string   `json:"name" yaml:"name"`
	BloomIntensity  int      `json:"bloomIntensity" yaml:"bloom_intensity"`
	DominantFlowers []string `json:"dominantFlowers" yaml:"dominant_flowers"`
	Position        Position `json:"position" yaml:"position"`
	Year            int      `json:"year" yaml:"year"`
}

// Clone returns a deep copy of the record so callers cannot mutate shared data.
func (z ZoneRecord) Clone() ZoneRecord {
	out := z
	if z.DominantFlowers != nil {
		out.DominantFlowers = append([]string(nil), z.DominantFlowers...)
	}
	out.Position = z.Position.Clone()
	return out
}

// YearSnapshot is the complete set of zone records for one year.
type YearSnapshot struct {
	Year  int          `json:"year" yaml:"year"`
	Zones []ZoneRecord `json:"zones" yaml:"zones"`
}

// BloomZone is the wire shape served by the bloom-zones endpoint.
type BloomZone struct {
	Name            string   `json:"name"`
	Percentage      int      `json:"percentage"`
	Color           string   `json:"color"`
	DominantFlowers []string `json:"dominantFlowers"`
}
