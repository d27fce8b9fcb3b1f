// Package job implements the job lifecycle state machine and pipeline
// orchestration (spec.md §4.9): admission, PENDING->RUNNING->COMPLETE|
// FAILED transitions, and wiring the engine stages together end to end.
package job

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/f4roos41/solarmcda/internal/catalog"
)

// Weights is a job's parsed weights_json: factor name -> weight
// (spec.md §3, e.g. {"ghi": 40, "slope": 25, "grid_dist": 20, "road_dist": 15}).
type Weights map[string]float64

// weightTolerance is how far a job's weights may sum from 100 and still
// be admitted, absorbing client-side floating point rounding.
const weightTolerance = 0.01

// ParseWeights decodes and validates weights_json against the closed
// factor catalog (spec.md §8: unknown factor names are an admission
// failure, and weights must sum to 100).
func ParseWeights(raw []byte) (Weights, error) {
	var w Weights
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, fmt.Errorf("job: decode weights_json: %w", err)
	}
	if len(w) == 0 {
		return nil, fmt.Errorf("job: weights_json declares no factors")
	}

	var sum float64
	for name, weight := range w {
		if _, err := catalog.Lookup(name); err != nil {
			return nil, fmt.Errorf("job: %w", err)
		}
		if weight < 0 {
			return nil, fmt.Errorf("job: factor %q has negative weight %v", name, weight)
		}
		sum += weight
	}
	if math.Abs(sum-100) > weightTolerance {
		return nil, fmt.Errorf("job: weights sum to %v, expected 100 (±%v)", sum, weightTolerance)
	}
	return w, nil
}

// Constraints is a job's parsed constraints_json. Threshold kinds
// (slope_gt, grid_dist_lt, ...) decode to a float64; lulc_exclude
// decodes to a list of land-cover class codes.
type Constraints map[string]json.RawMessage

// ParseConstraints decodes constraints_json without yet resolving each
// entry's catalog.ConstraintSpec — that happens in internal/constraint
// once the AnalysisGrid's layer arrays are available. It only validates
// that every key is in the closed constraint catalog (spec.md §4.5).
func ParseConstraints(raw []byte) (Constraints, error) {
	if len(raw) == 0 {
		return Constraints{}, nil
	}
	var c Constraints
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("job: decode constraints_json: %w", err)
	}
	for name := range c {
		if _, _, err := catalog.LookupConstraint(name); err != nil {
			return nil, fmt.Errorf("job: %w", err)
		}
	}
	return c, nil
}

// MaxAOIAreaKM2 validation is an admission check against the deployment
// config (internal/config.Config.MaxAOIAreaKM2), not the catalog, so it
// lives in Admit rather than here.
