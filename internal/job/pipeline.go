package job

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/f4roos41/solarmcda/internal/align"
	"github.com/f4roos41/solarmcda/internal/catalog"
	"github.com/f4roos41/solarmcda/internal/constraint"
	"github.com/f4roos41/solarmcda/internal/derive"
	"github.com/f4roos41/solarmcda/internal/engerr"
	"github.com/f4roos41/solarmcda/internal/normalize"
	"github.com/f4roos41/solarmcda/internal/overlay"
	"github.com/f4roos41/solarmcda/internal/raster"
	"github.com/f4roos41/solarmcda/internal/stats"
)

// CancellationChecker reports whether a job's cancel_requested flag has
// been set (spec.md §4.10: "delete of a RUNNING job sets a cancellation
// flag"). Controller supplies one bound to the job id being run.
type CancellationChecker func(ctx context.Context) (bool, error)

// checkStage is the coarse-grained checkpoint spec.md §5 calls for:
// "checked at stage boundaries only". It folds together the two
// conditions that can interrupt a running job mid-pipeline — the soft
// time budget (ctx's deadline, set by Controller) and an operator
// cancellation request — into the single check every stage boundary
// below calls.
func checkStage(ctx context.Context, checkCancelled CancellationChecker) error {
	if err := ctx.Err(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return engerr.TimedOut()
		}
		return engerr.Cancelled()
	}
	if checkCancelled == nil {
		return nil
	}
	cancelled, err := checkCancelled(ctx)
	if err != nil {
		return fmt.Errorf("job: check cancellation: %w", err)
	}
	if cancelled {
		return engerr.Cancelled()
	}
	return nil
}

// Pipeline wires the engine's stages together end to end: align, read,
// derive, normalize, build the exclusion mask, overlay, and summarize
// (spec.md §2's ten-step flow, minus admission and persistence which
// the Controller handles around it).
type Pipeline struct {
	Cache  *raster.Cache
	Bucket string // data-lake bucket
}

// Result is everything a completed run produces, ready for the
// ResultWriter and the job's stats_json.
type Result struct {
	Grid    raster.Grid
	Score   []float32
	Summary stats.Summary
}

// layerSet caches one run's already-read/derived layer arrays so a
// layer needed by both a factor and a constraint (slope is the common
// case) is only read or derived once.
type layerSet struct {
	grid   raster.Grid
	bucket string
	cache  *raster.Cache
	arrays map[catalog.LayerID][]float32
}

func newLayerSet(cache *raster.Cache, bucket string, grid raster.Grid) *layerSet {
	return &layerSet{grid: grid, bucket: bucket, cache: cache, arrays: make(map[catalog.LayerID][]float32)}
}

func (ls *layerSet) get(layer catalog.LayerID, derived bool, resampling catalog.Resampling) ([]float32, error) {
	if arr, ok := ls.arrays[layer]; ok {
		return arr, nil
	}

	if derived {
		// Only slope/aspect are derived today, both from the DEM.
		elev, err := ls.get(catalog.LayerDEM, false, catalog.ResamplingBilinear)
		if err != nil {
			return nil, err
		}
		refLat := (ls.grid.Bounds()[1] + ls.grid.Bounds()[3]) / 2
		dx, dy := ls.grid.PixelSize(refLat)

		var out []float32
		switch layer {
		case catalog.LayerSlope:
			out = derive.Slope(elev, ls.grid.Width, ls.grid.Height, float32(ls.grid.NoData), dx, dy)
		case catalog.LayerAspect:
			out = derive.Aspect(elev, ls.grid.Width, ls.grid.Height, float32(ls.grid.NoData), dx, dy)
		default:
			return nil, fmt.Errorf("job: layer %q has no derivation", layer)
		}
		ls.arrays[layer] = out
		return out, nil
	}

	key, ok := catalog.DataLakeKey(layer)
	if !ok {
		return nil, fmt.Errorf("job: layer %q has no data-lake object", layer)
	}
	uri := fmt.Sprintf("/vsis3/%s/%s", ls.bucket, key)

	src, err := ls.cache.Acquire(uri)
	if err != nil {
		return nil, err
	}
	defer ls.cache.Release(uri)

	arr, err := src.ReadWarped(ls.grid, ls.grid.Bounds(), resampling)
	if err != nil {
		return nil, err
	}
	ls.arrays[layer] = arr
	return arr, nil
}

// Run executes the full pipeline for an admitted job. checkCancelled is
// polled after every layer read (spec.md §4.10's coarse-grained
// checkpoints); it may be nil in tests that don't exercise cancellation.
func (p *Pipeline) Run(ctx context.Context, a Admitted, checkCancelled CancellationChecker) (Result, error) {
	primaryKey, ok := catalog.DataLakeKey(catalog.LayerGHI)
	if !ok {
		return Result{}, fmt.Errorf("job: primary layer has no data-lake object")
	}
	primaryURI := fmt.Sprintf("/vsis3/%s/%s", p.Bucket, primaryKey)

	primary, err := p.Cache.Acquire(primaryURI)
	if err != nil {
		return Result{}, err
	}
	defer p.Cache.Release(primaryURI)

	plan, err := align.Align(primary.Grid(), a.AOI)
	if err != nil {
		return Result{}, err
	}
	if err := checkStage(ctx, checkCancelled); err != nil {
		return Result{}, err
	}

	ls := newLayerSet(p.Cache, p.Bucket, plan.Grid)
	size := plan.Grid.Width * plan.Grid.Height
	// Every data-lake layer is produced with the -9999.0 nodata
	// convention (spec.md §4.6), so plan.Grid.NoData (inherited from
	// the primary layer) and overlay.NoData always agree.
	nodata32 := float32(plan.Grid.NoData)

	factors := make([]overlay.Factor, 0, len(a.Weights))
	for name, weight := range a.Weights {
		spec, err := catalog.Lookup(name)
		if err != nil {
			return Result{}, err
		}
		arr, err := ls.get(spec.Layer, spec.Derived, spec.Resampling)
		if err != nil {
			return Result{}, err
		}
		if err := checkStage(ctx, checkCancelled); err != nil {
			return Result{}, err
		}
		norm, err := normalize.Normalize(arr, spec.Min, spec.Max, spec.Invert, nodata32)
		if err != nil {
			return Result{}, err
		}
		factors = append(factors, overlay.Factor{Normalized: norm, Weight: weight})
	}

	constraintValues := make(map[catalog.ConstraintKind]constraint.Value)
	constraintLayers := make(map[catalog.LayerID]constraint.LayerArray)
	for name, raw := range a.Constraints {
		kind, spec, err := catalog.LookupConstraint(name)
		if err != nil {
			return Result{}, err
		}
		val, err := decodeConstraintValue(spec, raw)
		if err != nil {
			return Result{}, fmt.Errorf("job: constraint %q: %w", name, err)
		}
		constraintValues[kind] = val

		arr, err := ls.get(spec.Layer, spec.Derived, spec.Resampling)
		if err != nil {
			return Result{}, err
		}
		if err := checkStage(ctx, checkCancelled); err != nil {
			return Result{}, err
		}
		constraintLayers[spec.Layer] = constraint.LayerArray{Data: arr, NoData: nodata32}
	}

	var mask []bool
	if len(constraintValues) > 0 {
		mask, err = constraint.Compile(constraintValues, constraintLayers, size)
		if err != nil {
			return Result{}, err
		}
	}

	score, err := overlay.Score(factors, mask, size)
	if err != nil {
		return Result{}, err
	}

	summary := stats.Compute(score, mask, overlay.NoData)

	return Result{Grid: plan.Grid, Score: score, Summary: summary}, nil
}

func decodeConstraintValue(spec catalog.ConstraintSpec, raw json.RawMessage) (constraint.Value, error) {
	if spec.IsSet {
		var classes []int
		if err := json.Unmarshal(raw, &classes); err != nil {
			return constraint.Value{}, fmt.Errorf("expected a list of land-cover classes: %w", err)
		}
		set := make(map[int]struct{}, len(classes))
		for _, c := range classes {
			set[c] = struct{}{}
		}
		return constraint.Value{Classes: set}, nil
	}

	var threshold float64
	if err := json.Unmarshal(raw, &threshold); err != nil {
		return constraint.Value{}, fmt.Errorf("expected a numeric threshold: %w", err)
	}
	return constraint.Value{Threshold: threshold}, nil
}
