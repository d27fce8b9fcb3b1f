package job

import (
	"testing"

	"github.com/f4roos41/solarmcda/internal/metastore"
)

func validJob() metastore.Job {
	return metastore.Job{
		ID:              1,
		WeightsJSON:     []byte(`{"ghi":60,"slope":40}`),
		ConstraintsJSON: []byte(`{"slope_gt":15}`),
	}
}

func validAOI() metastore.AOI {
	return metastore.AOI{
		ID:      1,
		GeoJSON: `{"type":"Polygon","coordinates":[[[-0.1,-0.1],[0.1,-0.1],[0.1,0.1],[-0.1,0.1],[-0.1,-0.1]]]}`,
	}
}

func TestAdmitAcceptsValidJob(t *testing.T) {
	a, err := Admit(validJob(), validAOI(), 10000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Weights["ghi"] != 60 {
		t.Errorf("weights not carried through: %+v", a.Weights)
	}
}

func TestAdmitRejectsOversizedAOI(t *testing.T) {
	aoi := validAOI()
	huge := 1e9
	aoi.AreaKM2 = &huge
	if _, err := Admit(validJob(), aoi, 10000); err == nil {
		t.Fatal("expected error for AOI exceeding max area")
	}
}

func TestAdmitRejectsDegeneratePolygon(t *testing.T) {
	aoi := validAOI()
	aoi.GeoJSON = `{"type":"Polygon","coordinates":[[[0,0],[1,1]]]}`
	if _, err := Admit(validJob(), aoi, 10000); err == nil {
		t.Fatal("expected error for a ring with fewer than 3 vertices")
	}
}

func TestAdmitRejectsBadWeights(t *testing.T) {
	j := validJob()
	j.WeightsJSON = []byte(`{"ghi":50}`)
	if _, err := Admit(j, validAOI(), 10000); err == nil {
		t.Fatal("expected error for weights not summing to 100")
	}
}

func TestAdmitUsesPrecomputedAreaWhenPresent(t *testing.T) {
	aoi := validAOI()
	small := 5.0
	aoi.AreaKM2 = &small
	a, err := Admit(validJob(), aoi, 10000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.AreaKM2 != 5.0 {
		t.Errorf("expected cached area_km2 to be used, got %v", a.AreaKM2)
	}
}
