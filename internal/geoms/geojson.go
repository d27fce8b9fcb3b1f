package geoms

import (
	"encoding/json"
	"fmt"
)

// geoJSONPolygon matches the GeoJSON Polygon produced by PostGIS's
// ST_AsGeoJSON: one or more linear rings, each [lon, lat] pairs, the
// first ring the exterior.
type geoJSONPolygon struct {
	Type        string        `json:"type"`
	Coordinates [][][]float64 `json:"coordinates"`
}

// ParseGeoJSONPolygon decodes a GeoJSON Polygon and returns its
// exterior ring. Interior rings (holes) are not supported; the engine
// only ever deals with simple AOI polygons (spec.md §3).
func ParseGeoJSONPolygon(raw string) (Polygon, error) {
	var g geoJSONPolygon
	if err := json.Unmarshal([]byte(raw), &g); err != nil {
		return Polygon{}, fmt.Errorf("geoms: decode geojson: %w", err)
	}
	if g.Type != "Polygon" {
		return Polygon{}, fmt.Errorf("geoms: expected Polygon, got %q", g.Type)
	}
	if len(g.Coordinates) == 0 {
		return Polygon{}, fmt.Errorf("geoms: polygon has no rings")
	}

	exterior := g.Coordinates[0]
	ring := make([]Point, len(exterior))
	for i, coord := range exterior {
		if len(coord) < 2 {
			return Polygon{}, fmt.Errorf("geoms: ring vertex %d missing lat/lon", i)
		}
		ring[i] = Point{Lon: coord[0], Lat: coord[1]}
	}
	return Polygon{Ring: ring}, nil
}
