// Package geoms provides the minimal polygon/bounding-box geometry the
// engine needs over WGS84 coordinates. It is not a general-purpose GIS
// library: AOIs are simple polygons and every downstream stage only
// needs their bounding box and an approximate area.
package geoms

import "math"

// Point is a longitude/latitude pair in WGS84 degrees.
type Point struct {
	Lon float64
	Lat float64
}

// Polygon is a single exterior ring, first and last point implicitly
// or explicitly closed (callers may pass either; Bounds and AreaKM2
// don't care).
type Polygon struct {
	Ring []Point
}

// BBox is an axis-aligned bounding box in WGS84 degrees.
type BBox struct {
	MinLon, MinLat, MaxLon, MaxLat float64
}

// Bounds returns the polygon's axis-aligned bounding box.
func (p Polygon) Bounds() BBox {
	if len(p.Ring) == 0 {
		return BBox{}
	}
	b := BBox{
		MinLon: p.Ring[0].Lon, MaxLon: p.Ring[0].Lon,
		MinLat: p.Ring[0].Lat, MaxLat: p.Ring[0].Lat,
	}
	for _, pt := range p.Ring[1:] {
		b.MinLon = math.Min(b.MinLon, pt.Lon)
		b.MaxLon = math.Max(b.MaxLon, pt.Lon)
		b.MinLat = math.Min(b.MinLat, pt.Lat)
		b.MaxLat = math.Max(b.MaxLat, pt.Lat)
	}
	return b
}

// Centroid returns the ring's vertex-average centroid. Good enough for
// picking a reference latitude for local projections; not an area
// centroid.
func (p Polygon) Centroid() Point {
	if len(p.Ring) == 0 {
		return Point{}
	}
	var sumLon, sumLat float64
	for _, pt := range p.Ring {
		sumLon += pt.Lon
		sumLat += pt.Lat
	}
	n := float64(len(p.Ring))
	return Point{Lon: sumLon / n, Lat: sumLat / n}
}

const earthRadiusM = 6371008.8

// AreaKM2 returns the polygon's approximate area in square kilometers
// using a local cylindrical-equal-area (equirectangular) projection
// centered on the AOI's centroid latitude, per the shoelace formula.
//
// This is a one-shot approximation, not an authalic reprojection: it
// is deterministic and stable across repeated calls on the same ring,
// which is all spec.md's §3 "cached approximate area" requires (see
// Open Question (c), DESIGN.md).
func (p Polygon) AreaKM2() float64 {
	n := len(p.Ring)
	if n < 3 {
		return 0
	}
	refLat := p.Centroid().Lat * math.Pi / 180

	// Project to meters: x = R * cos(refLat) * lon_rad, y = R * lat_rad.
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i, pt := range p.Ring {
		xs[i] = earthRadiusM * math.Cos(refLat) * (pt.Lon * math.Pi / 180)
		ys[i] = earthRadiusM * (pt.Lat * math.Pi / 180)
	}

	var sum float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += xs[i]*ys[j] - xs[j]*ys[i]
	}
	areaM2 := math.Abs(sum) / 2
	return areaM2 / 1e6
}
