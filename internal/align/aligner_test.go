package align

import (
	"testing"

	"github.com/f4roos41/solarmcda/internal/geoms"
	"github.com/f4roos41/solarmcda/internal/raster"
)

func testGrid() raster.Grid {
	return raster.Grid{
		Transform: [6]float64{-10, 0.1, 0, 10, 0, -0.1},
		Width:     200,
		Height:    200,
		CRS:       "EPSG:4326",
		NoData:    -9999,
	}
}

func TestAlignAnchorsToPixelBoundaries(t *testing.T) {
	aoi := geoms.Polygon{Ring: []geoms.Point{
		{Lon: -5.03, Lat: 5.03},
		{Lon: -4.97, Lat: 5.03},
		{Lon: -4.97, Lat: 4.97},
		{Lon: -5.03, Lat: 4.97},
	}}

	plan, err := Align(testGrid(), aoi)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.Grid.Width <= 0 || plan.Grid.Height <= 0 {
		t.Fatalf("expected a non-empty analysis grid, got %dx%d", plan.Grid.Width, plan.Grid.Height)
	}
	// The output transform's origin should land on an exact pixel
	// boundary of the primary grid.
	col, _ := testGrid().ToPixel(plan.Grid.Transform[0], plan.Grid.Transform[3])
	if col != float64(int(col)) {
		t.Errorf("output grid origin should align to a whole pixel column, got %v", col)
	}
}

func TestAlignRejectsDegenerateAOI(t *testing.T) {
	aoi := geoms.Polygon{Ring: []geoms.Point{
		{Lon: -5, Lat: 5},
		{Lon: -5, Lat: 5},
	}}
	if _, err := Align(testGrid(), aoi); err == nil {
		t.Fatal("expected error for degenerate AOI bounding box")
	}
}

func TestAlignAOIOutsidePrimaryGridIsWellFormed(t *testing.T) {
	aoi := geoms.Polygon{Ring: []geoms.Point{
		{Lon: 100, Lat: 100},
		{Lon: 100.01, Lat: 100},
		{Lon: 100.01, Lat: 100.01},
		{Lon: 100, Lat: 100.01},
	}}
	// Outside the primary grid still produces pixel coordinates (just
	// negative/huge ones); Align should not error on this alone, but
	// the resulting grid must still be well-formed.
	plan, err := Align(testGrid(), aoi)
	if err != nil {
		return // also acceptable: degenerate result rejected outright
	}
	if plan.Grid.Width <= 0 || plan.Grid.Height <= 0 {
		t.Fatalf("got non-positive grid dimensions without an error")
	}
}
