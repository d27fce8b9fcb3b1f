// Package normalize implements the Normalizer (spec.md §4.4): the only
// place in the engine where factor-specific semantics appear.
package normalize

import "fmt"

// Normalize clips arr to [min, max], scales to [0, 100], and inverts if
// requested. No-data pixels (equal to nodata) pass through unchanged.
// max must be strictly greater than min.
func Normalize(arr []float32, min, max float64, invert bool, nodata float32) ([]float32, error) {
	if max <= min {
		return nil, fmt.Errorf("normalize: max (%v) must be greater than min (%v)", max, min)
	}

	out := make([]float32, len(arr))
	span := max - min
	for i, v := range arr {
		if v == nodata {
			out[i] = nodata
			continue
		}
		clipped := float64(v)
		if clipped < min {
			clipped = min
		} else if clipped > max {
			clipped = max
		}
		t := (clipped - min) / span
		if invert {
			t = 1 - t
		}
		out[i] = float32(100 * t)
	}
	return out, nil
}
