package overlay

import "testing"

func TestScoreWeightedSum(t *testing.T) {
	factors := []Factor{
		{Normalized: []float32{100, 0}, Weight: 60},
		{Normalized: []float32{0, 100}, Weight: 40},
	}
	score, err := Score(factors, nil, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if score[0] != 60 {
		t.Errorf("pixel 0: got %v, want 60", score[0])
	}
	if score[1] != 40 {
		t.Errorf("pixel 1: got %v, want 40", score[1])
	}
}

func TestScoreNoDataPropagates(t *testing.T) {
	factors := []Factor{
		{Normalized: []float32{NoData, 50}, Weight: 100},
	}
	score, err := Score(factors, nil, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if score[0] != NoData {
		t.Errorf("no-data input should produce no-data output, got %v", score[0])
	}
	if score[1] != 50 {
		t.Errorf("pixel 1: got %v, want 50", score[1])
	}
}

func TestScoreAppliesMaskAfterSum(t *testing.T) {
	factors := []Factor{
		{Normalized: []float32{100, 100}, Weight: 100},
	}
	mask := []bool{true, false}
	score, err := Score(factors, mask, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if score[0] != NoData {
		t.Errorf("excluded pixel should be no-data, got %v", score[0])
	}
	if score[1] != 100 {
		t.Errorf("non-excluded pixel: got %v, want 100", score[1])
	}
}

func TestScoreRejectsMismatchedLengths(t *testing.T) {
	factors := []Factor{{Normalized: []float32{1, 2, 3}, Weight: 100}}
	if _, err := Score(factors, nil, 2); err == nil {
		t.Fatal("expected error for factor array length mismatch")
	}
}
