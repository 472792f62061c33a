package layout

import (
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/sells-group/bloominghealth/internal/model"
)

// FeatureCollection converts anchor descriptors into GeoJSON features.
// Zones with a boundary of at least three points become polygons, zones
// with only a center become points, and descriptors without a geographic
// position (radial output) are skipped.
func FeatureCollection(descs []Descriptor) (*geojson.FeatureCollection, error) {
	fc := &geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, len(descs))}
	bounds := geom.NewBounds(geom.XY)

	for _, d := range descs {
		g, err := geometryOf(d)
		if err != nil {
			return nil, eris.Wrapf(err, "layout: geometry for zone %s", d.ZoneID)
		}
		if g == nil {
			continue
		}
		bounds.Extend(g)

		props := map[string]any{
			"name":          d.Name,
			"intensity":     d.Intensity,
			"tier":          d.Tier.String(),
			"color":         d.Color,
			"fillOpacity":   d.FillOpacity,
			"strokeOpacity": d.StrokeOpacity,
			"selected":      d.Selected,
		}
		if d.Center != nil {
			props["center"] = []float64{d.Center.Lon, d.Center.Lat}
		}
		fc.Features = append(fc.Features, &geojson.Feature{
			ID:         d.ZoneID,
			Geometry:   g,
			Properties: props,
		})
	}

	if len(fc.Features) > 0 {
		fc.BBox = bounds
	}
	return fc, nil
}

func geometryOf(d Descriptor) (geom.T, error) {
	if len(d.Boundary) >= 3 {
		poly, err := geom.NewPolygon(geom.XY).SetCoords([][]geom.Coord{closedRing(d.Boundary)})
		if err != nil {
			return nil, err
		}
		return poly, nil
	}
	if d.Center != nil {
		pt, err := geom.NewPoint(geom.XY).SetCoords(geom.Coord{d.Center.Lon, d.Center.Lat})
		if err != nil {
			return nil, err
		}
		return pt, nil
	}
	return nil, nil
}

// closedRing converts a boundary to [lon, lat] coordinates, repeating the
// first point at the end when the ring is open.
func closedRing(boundary []model.Coord) []geom.Coord {
	ring := make([]geom.Coord, 0, len(boundary)+1)
	for _, c := range boundary {
		ring = append(ring, geom.Coord{c.Lon, c.Lat})
	}
	first, last := boundary[0], boundary[len(boundary)-1]
	if first != last {
		ring = append(ring, geom.Coord{first.Lon, first.Lat})
	}
	return ring
}
