// Package catalog holds the engine's two closed, static tables: the
// recognized suitability factors and the recognized exclusion
// constraints. Both are data, not code — extending the system to a new
// factor or constraint kind is a single table entry here, never a new
// "if factor == ..." branch scattered through the pipeline.
package catalog

import "fmt"

// LayerID identifies one global raster layer in the data lake.
type LayerID string

const (
	LayerGHI              LayerID = "ghi"
	LayerDNI              LayerID = "dni"
	LayerDEM              LayerID = "dem"
	LayerSlope            LayerID = "slope"
	LayerAspect           LayerID = "aspect"
	LayerDistanceToGrid   LayerID = "distance_to_grid"
	LayerDistanceToRoads  LayerID = "distance_to_roads"
	LayerLULC             LayerID = "lulc"
)

// dataLakeKeys maps each layer to its object key under the data-lake
// bucket (spec.md §6).
var dataLakeKeys = map[LayerID]string{
	LayerGHI:             "ghi.tif",
	LayerDNI:             "dni.tif",
	LayerDEM:             "dem.tif",
	LayerSlope:           "slope.tif",
	LayerAspect:          "aspect.tif",
	LayerDistanceToGrid:  "distance_to_grid.tif",
	LayerDistanceToRoads: "distance_to_roads.tif",
	LayerLULC:            "lulc.tif",
}

// DataLakeKey returns the object key for a layer, or ok=false if the
// layer has no data-lake presence (shouldn't happen for any layer
// referenced from FactorSpecs/ConstraintSpecs).
func DataLakeKey(l LayerID) (string, bool) {
	k, ok := dataLakeKeys[l]
	return k, ok
}

// Resampling selects the kernel WindowAligner uses to align a layer
// onto the AnalysisGrid.
type Resampling string

const (
	ResamplingNearest  Resampling = "nearest"
	ResamplingBilinear Resampling = "bilinear"
)

// FactorSpec describes how one suitability factor is sourced and
// normalized. The set of keys in Factors is closed: admission rejects
// any weight key not present here (spec.md §3).
type FactorSpec struct {
	Layer      LayerID
	Min, Max   float64
	Invert     bool
	Resampling Resampling
	// Derived is true when the layer is not read directly from the
	// data lake but computed on the fly (currently only slope/aspect
	// from the elevation layer).
	Derived bool
}

// Factors is the closed catalog of recognized suitability factors.
// Min/Max are the clip bounds fed to Normalizer; Invert marks "lower is
// better" factors (slope, distance).
var Factors = map[string]FactorSpec{
	"ghi": {
		Layer: LayerGHI, Min: 1000, Max: 2500, Invert: false,
		Resampling: ResamplingBilinear,
	},
	"dni": {
		Layer: LayerDNI, Min: 1000, Max: 2800, Invert: false,
		Resampling: ResamplingBilinear,
	},
	"slope": {
		Layer: LayerSlope, Min: 0, Max: 10, Invert: true,
		Resampling: ResamplingBilinear, Derived: true,
	},
	"grid_dist": {
		Layer: LayerDistanceToGrid, Min: 0, Max: 10000, Invert: true,
		Resampling: ResamplingBilinear,
	},
	"road_dist": {
		Layer: LayerDistanceToRoads, Min: 0, Max: 5000, Invert: true,
		Resampling: ResamplingBilinear,
	},
}

// Lookup returns the FactorSpec for a weight key, or an error if the
// name isn't in the closed set (admission failure, spec.md §8).
func Lookup(name string) (FactorSpec, error) {
	spec, ok := Factors[name]
	if !ok {
		return FactorSpec{}, fmt.Errorf("catalog: unknown factor %q", name)
	}
	return spec, nil
}
