// Package overlay implements the WeightedOverlay (spec.md §4.6): folds
// the normalized factor layers into a single suitability score and
// applies the exclusion mask built by internal/constraint.
package overlay

import "fmt"

// NoData is the sentinel written to every output pixel that is either
// no-data in a contributing factor or excluded by the constraint mask.
// Pixels of the analysis grid that lie inside the AOI's bounding box
// but outside its polygon are not masked and are scored like any other.
// -9999 matches the original implementation's raster convention
// (spec.md §4.6).
const NoData float32 = -9999.0

// Factor is one contributing layer: its normalized [0,100] values and
// its weight as a fraction of 100 (weights are validated to sum to
// 100 at admission, see internal/job).
type Factor struct {
	Normalized []float32
	Weight     float64 // 0-100
}

// Score computes the weighted overlay over size pixels. A pixel is
// NoData in the output if any contributing factor is NoData at that
// pixel, or if mask marks it excluded. mask may be nil (no constraints
// declared).
func Score(factors []Factor, mask []bool, size int) ([]float32, error) {
	for i, f := range factors {
		if len(f.Normalized) != size {
			return nil, fmt.Errorf("overlay: factor %d has %d pixels, expected %d", i, len(f.Normalized), size)
		}
	}
	if mask != nil && len(mask) != size {
		return nil, fmt.Errorf("overlay: mask has %d pixels, expected %d", len(mask), size)
	}

	out := make([]float32, size)
	for i := 0; i < size; i++ {
		if mask != nil && mask[i] {
			out[i] = NoData
			continue
		}

		var sum float64
		noData := false
		for _, f := range factors {
			v := f.Normalized[i]
			if v == NoData {
				noData = true
				break
			}
			sum += (f.Weight / 100) * float64(v)
		}
		if noData {
			out[i] = NoData
			continue
		}
		out[i] = float32(sum)
	}
	return out, nil
}
