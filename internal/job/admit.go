package job

import (
	"fmt"

	"github.com/f4roos41/solarmcda/internal/geoms"
	"github.com/f4roos41/solarmcda/internal/metastore"
)

// Admitted is the validated, ready-to-run form of a job: everything
// Admit needed a database round trip or a catalog lookup to produce.
type Admitted struct {
	Weights     Weights
	Constraints Constraints
	AOI         geoms.Polygon
	AreaKM2     float64
}

// Admit validates a pending job before it is allowed to transition to
// RUNNING (spec.md §4.9, §8's "admission failure" scenarios). Failures
// here keep the job PENDING->FAILED without ever touching a raster.
func Admit(j metastore.Job, aoi metastore.AOI, maxAOIAreaKM2 float64) (Admitted, error) {
	weights, err := ParseWeights(j.WeightsJSON)
	if err != nil {
		return Admitted{}, err
	}
	constraints, err := ParseConstraints(j.ConstraintsJSON)
	if err != nil {
		return Admitted{}, err
	}

	poly, err := geoms.ParseGeoJSONPolygon(aoi.GeoJSON)
	if err != nil {
		return Admitted{}, fmt.Errorf("job: %w", err)
	}
	if len(poly.Ring) < 3 {
		return Admitted{}, fmt.Errorf("job: AOI polygon has fewer than 3 vertices")
	}

	areaKM2 := poly.AreaKM2()
	if aoi.AreaKM2 != nil {
		areaKM2 = *aoi.AreaKM2
	}
	if areaKM2 > maxAOIAreaKM2 {
		return Admitted{}, fmt.Errorf("job: AOI area %.1f km2 exceeds limit %.1f km2", areaKM2, maxAOIAreaKM2)
	}

	return Admitted{Weights: weights, Constraints: constraints, AOI: poly, AreaKM2: areaKM2}, nil
}
