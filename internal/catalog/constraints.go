package catalog

import (
	"fmt"
	"strings"
)

// ConstraintKind names a recognized exclusion predicate kind
// (spec.md §4.5's table). The trailing "_gt"/"_lt" convention is part
// of the kind's name, not parsed — each kind is its own catalog entry.
type ConstraintKind string

const (
	ConstraintSlopeGT    ConstraintKind = "slope_gt"
	ConstraintSlopeLT    ConstraintKind = "slope_lt"
	ConstraintGridDistGT ConstraintKind = "grid_dist_gt"
	ConstraintGridDistLT ConstraintKind = "grid_dist_lt"
	ConstraintRoadDistGT ConstraintKind = "road_dist_gt"
	ConstraintRoadDistLT ConstraintKind = "road_dist_lt"
	ConstraintLULCExclude ConstraintKind = "lulc_exclude"
)

// Comparison selects how a threshold constraint excludes pixels.
type Comparison int

const (
	ExcludeGreaterThan Comparison = iota
	ExcludeLessThan
)

// ConstraintSpec describes a recognized constraint kind: the layer it
// reads, and for threshold kinds, the comparison direction. Set-based
// kinds (lulc_exclude) carry no comparison.
type ConstraintSpec struct {
	Layer      LayerID
	Comparison Comparison
	IsSet      bool
	Resampling Resampling
	Derived    bool
}

// Constraints is the closed catalog of recognized constraint kinds.
var Constraints = map[ConstraintKind]ConstraintSpec{
	ConstraintSlopeGT: {
		Layer: LayerSlope, Comparison: ExcludeGreaterThan,
		Resampling: ResamplingBilinear, Derived: true,
	},
	ConstraintSlopeLT: {
		Layer: LayerSlope, Comparison: ExcludeLessThan,
		Resampling: ResamplingBilinear, Derived: true,
	},
	ConstraintGridDistGT: {
		Layer: LayerDistanceToGrid, Comparison: ExcludeGreaterThan,
		Resampling: ResamplingBilinear,
	},
	ConstraintGridDistLT: {
		Layer: LayerDistanceToGrid, Comparison: ExcludeLessThan,
		Resampling: ResamplingBilinear,
	},
	ConstraintRoadDistGT: {
		Layer: LayerDistanceToRoads, Comparison: ExcludeGreaterThan,
		Resampling: ResamplingBilinear,
	},
	ConstraintRoadDistLT: {
		Layer: LayerDistanceToRoads, Comparison: ExcludeLessThan,
		Resampling: ResamplingBilinear,
	},
	ConstraintLULCExclude: {
		Layer: LayerLULC, IsSet: true,
		Resampling: ResamplingNearest,
	},
}

// LookupConstraint returns the ConstraintSpec for a constraint key, or
// an error if it isn't in the closed set.
func LookupConstraint(name string) (ConstraintKind, ConstraintSpec, error) {
	kind := ConstraintKind(strings.TrimSpace(name))
	spec, ok := Constraints[kind]
	if !ok {
		return "", ConstraintSpec{}, fmt.Errorf("catalog: unknown constraint %q", name)
	}
	return kind, spec, nil
}
