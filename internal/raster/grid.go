// Package raster provides the read-only view over a single global COG
// (spec.md §4.1, RasterSource) plus the shared RasterGrid metadata type
// every other engine stage consumes.
package raster

import "math"

// Grid is an axis-aligned raster grid: an affine transform, pixel
// dimensions, CRS, no-data sentinel, and pixel data type (spec.md §3).
//
// Transform follows the GDAL geotransform convention:
//
//	lon = Transform[0] + col*Transform[1] + row*Transform[2]
//	lat = Transform[3] + col*Transform[4] + row*Transform[5]
//
// Transform[5] is negative for north-up rasters.
type Grid struct {
	Transform [6]float64
	Width     int
	Height    int
	CRS       string
	NoData    float64
	DType     string
}

// PixelSize returns the ground pixel size in meters (dx, dy) computed
// from the transform and a reference latitude, using a local
// equirectangular approximation — the same projection Derivations uses
// to turn slope gradients from degrees-per-pixel into meters-per-pixel
// (spec.md §4.3).
func (g Grid) PixelSize(refLatDeg float64) (dx, dy float64) {
	const earthRadiusM = 6371008.8
	refLat := refLatDeg * math.Pi / 180
	dx = math.Abs(g.Transform[1]) * math.Pi / 180 * earthRadiusM * math.Cos(refLat)
	dy = math.Abs(g.Transform[5]) * math.Pi / 180 * earthRadiusM
	return dx, dy
}

// ToPixel converts a geographic coordinate to a fractional pixel
// coordinate using the inverse of Transform (assumes no rotation terms,
// i.e. Transform[2] == Transform[4] == 0, true for every COG this
// engine reads).
func (g Grid) ToPixel(lon, lat float64) (col, row float64) {
	col = (lon - g.Transform[0]) / g.Transform[1]
	row = (lat - g.Transform[3]) / g.Transform[5]
	return col, row
}

// Bounds returns the grid's geographic bounding box
// [minLon, minLat, maxLon, maxLat].
func (g Grid) Bounds() [4]float64 {
	lon0 := g.Transform[0]
	lat0 := g.Transform[3]
	lon1 := g.Transform[0] + float64(g.Width)*g.Transform[1]
	lat1 := g.Transform[3] + float64(g.Height)*g.Transform[5]
	if lon0 > lon1 {
		lon0, lon1 = lon1, lon0
	}
	if lat0 > lat1 {
		lat0, lat1 = lat1, lat0
	}
	return [4]float64{lon0, lat0, lon1, lat1}
}
