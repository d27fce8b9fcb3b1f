package geoms

import (
	"math"
	"testing"
)

func squareAround(lon, lat, halfSideDeg float64) Polygon {
	return Polygon{Ring: []Point{
		{Lon: lon - halfSideDeg, Lat: lat - halfSideDeg},
		{Lon: lon + halfSideDeg, Lat: lat - halfSideDeg},
		{Lon: lon + halfSideDeg, Lat: lat + halfSideDeg},
		{Lon: lon - halfSideDeg, Lat: lat + halfSideDeg},
	}}
}

func TestBoundsOfSimpleSquare(t *testing.T) {
	p := squareAround(0, 0, 1)
	b := p.Bounds()
	if b.MinLon != -1 || b.MaxLon != 1 || b.MinLat != -1 || b.MaxLat != 1 {
		t.Errorf("unexpected bounds: %+v", b)
	}
}

func TestAreaKM2IsDeterministic(t *testing.T) {
	p := squareAround(-100, 40, 0.05)
	a1 := p.AreaKM2()
	a2 := p.AreaKM2()
	if a1 != a2 {
		t.Errorf("AreaKM2 should be deterministic across calls: %v vs %v", a1, a2)
	}
	if a1 <= 0 {
		t.Errorf("expected positive area, got %v", a1)
	}
}

func TestAreaKM2DegeneratesToZeroBelowTriangle(t *testing.T) {
	p := Polygon{Ring: []Point{{Lon: 0, Lat: 0}, {Lon: 1, Lat: 0}}}
	if p.AreaKM2() != 0 {
		t.Errorf("a 2-vertex ring should have zero area, got %v", p.AreaKM2())
	}
}

func TestAreaKM2ShrinksTowardPoles(t *testing.T) {
	// A 1-degree-wide square near the equator covers more ground area
	// than the same square near 60N, since longitude degrees shrink
	// with cos(latitude).
	equator := squareAround(0, 0, 0.5)
	highLat := squareAround(0, 60, 0.5)
	if equator.AreaKM2() <= highLat.AreaKM2() {
		t.Errorf("equatorial square (%v km2) should be larger than high-latitude square (%v km2)", equator.AreaKM2(), highLat.AreaKM2())
	}
}

func TestParseGeoJSONPolygonRoundTrip(t *testing.T) {
	raw := `{"type":"Polygon","coordinates":[[[-1,-1],[1,-1],[1,1],[-1,1],[-1,-1]]]}`
	p, err := ParseGeoJSONPolygon(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.Ring) != 5 {
		t.Fatalf("expected 5 vertices (closed ring), got %d", len(p.Ring))
	}
	b := p.Bounds()
	if math.Abs(b.MinLon+1) > 1e-9 || math.Abs(b.MaxLon-1) > 1e-9 {
		t.Errorf("unexpected bounds: %+v", b)
	}
}

func TestParseGeoJSONPolygonRejectsWrongType(t *testing.T) {
	raw := `{"type":"Point","coordinates":[0,0]}`
	if _, err := ParseGeoJSONPolygon(raw); err == nil {
		t.Fatal("expected error for non-Polygon GeoJSON")
	}
}
