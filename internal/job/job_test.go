package job

import "testing"

func TestParseWeightsAcceptsValidSet(t *testing.T) {
	w, err := ParseWeights([]byte(`{"ghi":40,"slope":25,"grid_dist":20,"road_dist":15}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w["ghi"] != 40 {
		t.Errorf("ghi weight: got %v, want 40", w["ghi"])
	}
}

func TestParseWeightsRejectsUnknownFactor(t *testing.T) {
	if _, err := ParseWeights([]byte(`{"ghi":60,"moon_phase":40}`)); err == nil {
		t.Fatal("expected error for unrecognized factor")
	}
}

func TestParseWeightsRejectsSumNot100(t *testing.T) {
	if _, err := ParseWeights([]byte(`{"ghi":60,"slope":30}`)); err == nil {
		t.Fatal("expected error when weights sum to 90")
	}
}

func TestParseWeightsToleratesRoundingNoise(t *testing.T) {
	if _, err := ParseWeights([]byte(`{"ghi":59.995,"slope":40.005}`)); err != nil {
		t.Errorf("expected sum within tolerance to be accepted: %v", err)
	}
}

func TestParseWeightsRejectsNegative(t *testing.T) {
	if _, err := ParseWeights([]byte(`{"ghi":110,"slope":-10}`)); err == nil {
		t.Fatal("expected error for negative weight")
	}
}

func TestParseConstraintsAcceptsValidKeys(t *testing.T) {
	c, err := ParseConstraints([]byte(`{"slope_gt":10,"lulc_exclude":[50,80]}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(c) != 2 {
		t.Errorf("expected 2 constraints, got %d", len(c))
	}
}

func TestParseConstraintsRejectsUnknownKind(t *testing.T) {
	if _, err := ParseConstraints([]byte(`{"elevation_gt":10}`)); err == nil {
		t.Fatal("expected error for unrecognized constraint kind")
	}
}

func TestParseConstraintsEmptyIsValid(t *testing.T) {
	c, err := ParseConstraints(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(c) != 0 {
		t.Errorf("expected no constraints, got %d", len(c))
	}
}
