// Package derive implements the engine's on-the-fly raster derivations
// (spec.md §4.3): slope and aspect from an elevation window, both via
// Horn's 3x3 finite-difference method.
package derive

import "math"

// hornGradients computes the east-west and north-south elevation
// gradients at (row, col) using Horn's method. ok is false if any of
// the nine pixels in the 3x3 neighborhood is no-data, or the pixel is
// on the array's edge (no skirt is available, so edges have no full
// neighborhood — spec.md §4.3 recommends marking them no-data).
func hornGradients(elev []float32, width, height int, row, col int, nodata float32, dx, dy float64) (dzdx, dzdy float64, ok bool) {
	if row <= 0 || col <= 0 || row >= height-1 || col >= width-1 {
		return 0, 0, false
	}

	at := func(r, c int) (float32, bool) {
		v := elev[r*width+c]
		return v, v != nodata
	}

	var z [9]float32
	idx := 0
	for r := row - 1; r <= row+1; r++ {
		for c := col - 1; c <= col+1; c++ {
			v, valid := at(r, c)
			if !valid {
				return 0, 0, false
			}
			z[idx] = v
			idx++
		}
	}
	// z indices: 0 1 2 / 3 4 5 / 6 7 8 (row-major, center = z[4])
	dzdx = (float64(z[2]+2*z[5]+z[8]) - float64(z[0]+2*z[3]+z[6])) / (8 * dx)
	dzdy = (float64(z[6]+2*z[7]+z[8]) - float64(z[0]+2*z[1]+z[2])) / (8 * dy)
	return dzdx, dzdy, true
}

const radToDeg = 180 / math.Pi
