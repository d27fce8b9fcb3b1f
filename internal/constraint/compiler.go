// Package constraint implements the ConstraintCompiler (spec.md §4.5):
// turns a job's constraint dictionary into a boolean exclusion mask
// over the AnalysisGrid.
package constraint

import (
	"fmt"

	"github.com/f4roos41/solarmcda/internal/catalog"
)

// Value is one constraint's parsed parameter: either a threshold
// (slope_gt, grid_dist_gt, ...) or a set of land-cover classes to
// exclude (lulc_exclude).
type Value struct {
	Threshold float64
	Classes   map[int]struct{}
}

// LayerArray is a single layer's values over the AnalysisGrid, already
// read and aligned (and, for slope_*, already derived).
type LayerArray struct {
	Data   []float32
	NoData float32
}

// Compile builds the exclusion mask. constraints maps a closed-set
// constraint kind (validated at admission, see catalog.LookupConstraint)
// to its parsed Value. layers must contain an entry for every layer any
// declared constraint needs — a missing one is an admission failure
// that must be caught before Compile is ever called, so here it is a
// programmer error, not a user-facing one.
func Compile(constraints map[catalog.ConstraintKind]Value, layers map[catalog.LayerID]LayerArray, size int) ([]bool, error) {
	mask := make([]bool, size)

	for kind, val := range constraints {
		spec, ok := catalog.Constraints[kind]
		if !ok {
			return nil, fmt.Errorf("constraint: unrecognized kind %q reached compiler", kind)
		}
		layer, ok := layers[spec.Layer]
		if !ok {
			return nil, fmt.Errorf("constraint: missing layer %q required by %q", spec.Layer, kind)
		}
		if len(layer.Data) != size {
			return nil, fmt.Errorf("constraint: layer %q has %d pixels, expected %d", spec.Layer, len(layer.Data), size)
		}

		for i, v := range layer.Data {
			if mask[i] {
				continue // already excluded, skip redundant work
			}
			if v == layer.NoData {
				// Conservative: a pixel we cannot evaluate is excluded.
				mask[i] = true
				continue
			}
			switch {
			case spec.IsSet:
				if _, excluded := val.Classes[int(v)]; excluded {
					mask[i] = true
				}
			case spec.Comparison == catalog.ExcludeGreaterThan:
				if float64(v) > val.Threshold {
					mask[i] = true
				}
			case spec.Comparison == catalog.ExcludeLessThan:
				if float64(v) < val.Threshold {
					mask[i] = true
				}
			}
		}
	}

	return mask, nil
}
