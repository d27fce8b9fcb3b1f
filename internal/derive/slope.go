package derive

import "math"

// Slope computes slope in degrees from an elevation window using
// Horn's 3x3 method (spec.md §4.3). dx/dy are the ground pixel size in
// meters, from Grid.PixelSize at the AOI's mid-latitude. Any 3x3
// neighborhood containing a no-data pixel, and every edge pixel
// (no skirt), yields no-data in the output.
func Slope(elev []float32, width, height int, nodata float32, dx, dy float64) []float32 {
	out := make([]float32, width*height)
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			i := row*width + col
			dzdx, dzdy, ok := hornGradients(elev, width, height, row, col, nodata, dx, dy)
			if !ok {
				out[i] = nodata
				continue
			}
			slopeRad := math.Atan(math.Sqrt(dzdx*dzdx + dzdy*dzdy))
			out[i] = float32(slopeRad * radToDeg)
		}
	}
	return out
}
