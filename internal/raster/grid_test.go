package raster

import (
	"math"
	"testing"
)

func sampleGrid() Grid {
	return Grid{
		Transform: [6]float64{-10, 0.1, 0, 10, 0, -0.1},
		Width:     100,
		Height:    100,
		NoData:    -9999,
	}
}

func TestToPixelMapsOriginToPixelZero(t *testing.T) {
	g := sampleGrid()
	col, row := g.ToPixel(-10, 10)
	if col != 0 || row != 0 {
		t.Errorf("origin should map to pixel (0,0), got (%v,%v)", col, row)
	}
}

func TestBoundsMatchesTransform(t *testing.T) {
	g := sampleGrid()
	b := g.Bounds()
	want := [4]float64{-10, 0, 0, 10}
	for i := range want {
		if math.Abs(b[i]-want[i]) > 1e-9 {
			t.Errorf("bounds[%d]: got %v, want %v", i, b[i], want[i])
		}
	}
}

func TestPixelSizeShrinksAwayFromEquator(t *testing.T) {
	g := sampleGrid()
	dxEq, _ := g.PixelSize(0)
	dxHighLat, _ := g.PixelSize(60)
	if dxHighLat >= dxEq {
		t.Errorf("pixel width at 60N (%v) should be smaller than at the equator (%v)", dxHighLat, dxEq)
	}
}
