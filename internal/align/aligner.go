// Package align implements the WindowAligner (spec.md §4.2): given the
// primary solar-resource grid and an AOI, it computes the AnalysisGrid
// every other layer is read into.
package align

import (
	"fmt"
	"math"

	"github.com/f4roos41/solarmcda/internal/geoms"
	"github.com/f4roos41/solarmcda/internal/raster"
)

// Plan is the per-job analysis grid plus the geographic bounding box
// every participating layer should be read/warped against.
type Plan struct {
	Grid raster.Grid
	BBox [4]float64 // minLon, minLat, maxLon, maxLat, expanded to pixel boundaries
}

// Align anchors the AnalysisGrid to primary's pixel lattice, cropped to
// aoi's bounding box expanded outward to the nearest whole pixel
// (spec.md §3 AnalysisGrid, §4.2). primary must be the primary solar
// resource layer's native grid.
func Align(primary raster.Grid, aoi geoms.Polygon) (Plan, error) {
	bbox := aoi.Bounds()
	if bbox.MinLon >= bbox.MaxLon || bbox.MinLat >= bbox.MaxLat {
		return Plan{}, fmt.Errorf("align: degenerate AOI bounding box")
	}

	// Pixel coordinates of the AOI's corners in the primary grid.
	colMin, rowMax := primary.ToPixel(bbox.MinLon, bbox.MinLat)
	colMax, rowMin := primary.ToPixel(bbox.MaxLon, bbox.MaxLat)
	if colMin > colMax {
		colMin, colMax = colMax, colMin
	}
	if rowMin > rowMax {
		rowMin, rowMax = rowMax, rowMin
	}

	col0 := int(math.Floor(colMin))
	row0 := int(math.Floor(rowMin))
	col1 := int(math.Ceil(colMax))
	row1 := int(math.Ceil(rowMax))

	width := col1 - col0
	height := row1 - row0
	if width <= 0 || height <= 0 {
		return Plan{}, fmt.Errorf("align: AOI produces an empty analysis grid")
	}

	transform := primary.Transform
	transform[0] = primary.Transform[0] + float64(col0)*primary.Transform[1]
	transform[3] = primary.Transform[3] + float64(row0)*primary.Transform[5]

	grid := raster.Grid{
		Transform: transform,
		Width:     width,
		Height:    height,
		CRS:       primary.CRS,
		NoData:    primary.NoData,
		DType:     "Float32",
	}

	return Plan{Grid: grid, BBox: grid.Bounds()}, nil
}
