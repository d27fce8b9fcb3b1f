package derive

import "math"

// Aspect computes slope direction in degrees (0 = north, clockwise)
// from an elevation window, using the same Horn gradients and edge/
// no-data rules as Slope. The pipeline always derives aspect (like
// slope) from the elevation layer; the data lake's aspect.tif and
// slope.tif are not read.
func Aspect(elev []float32, width, height int, nodata float32, dx, dy float64) []float32 {
	out := make([]float32, width*height)
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			i := row*width + col
			dzdx, dzdy, ok := hornGradients(elev, width, height, row, col, nodata, dx, dy)
			if !ok {
				out[i] = nodata
				continue
			}
			if dzdx == 0 && dzdy == 0 {
				// Flat ground: aspect is undefined; GDAL convention
				// reports -1 here, but that collides with a legitimate
				// degree value, so we report due-north (0) instead,
				// since a flat pixel contributes no directional signal.
				out[i] = 0
				continue
			}
			// Rows run north to south, so the downslope vector is
			// (east = -dzdx, north = dzdy); atan2(east, north) gives its
			// bearing clockwise from north.
			bearing := math.Atan2(-dzdx, dzdy) * radToDeg
			if bearing < 0 {
				bearing += 360
			}
			out[i] = float32(bearing)
		}
	}
	return out
}
