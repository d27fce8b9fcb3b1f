package catalog

import "testing"

func TestLookupRejectsUnknownFactor(t *testing.T) {
	if _, err := Lookup("moon_phase"); err == nil {
		t.Fatal("expected error for unrecognized factor name")
	}
}

func TestLookupKnownFactors(t *testing.T) {
	for name := range Factors {
		if _, err := Lookup(name); err != nil {
			t.Errorf("Lookup(%q) should succeed: %v", name, err)
		}
	}
}

func TestLookupConstraintRejectsUnknownKind(t *testing.T) {
	if _, _, err := LookupConstraint("elevation_gt"); err == nil {
		t.Fatal("expected error for unrecognized constraint kind")
	}
}

func TestLookupConstraintKnownKinds(t *testing.T) {
	for kind := range Constraints {
		if _, _, err := LookupConstraint(string(kind)); err != nil {
			t.Errorf("LookupConstraint(%q) should succeed: %v", kind, err)
		}
	}
}

func TestDataLakeKeyCoversEveryFactorLayer(t *testing.T) {
	for name, spec := range Factors {
		if _, ok := DataLakeKey(spec.Layer); !ok {
			t.Errorf("factor %q references layer %q with no data-lake key", name, spec.Layer)
		}
	}
}
