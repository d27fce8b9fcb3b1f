package normalize

import "testing"

func TestNormalizeClipsAndScales(t *testing.T) {
	in := []float32{-5, 0, 5, 10, 15}
	out, err := Normalize(in, 0, 10, false, -9999)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []float32{0, 0, 50, 100, 100}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("index %d: got %v, want %v", i, out[i], want[i])
		}
	}
}

func TestNormalizeInvert(t *testing.T) {
	out, err := Normalize([]float32{0, 5, 10}, 0, 10, true, -9999)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []float32{100, 50, 0}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("index %d: got %v, want %v", i, out[i], want[i])
		}
	}
}

func TestNormalizePassesThroughNoData(t *testing.T) {
	out, err := Normalize([]float32{-9999, 5}, 0, 10, false, -9999)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out[0] != -9999 {
		t.Errorf("no-data pixel should pass through unchanged, got %v", out[0])
	}
	if out[1] != 50 {
		t.Errorf("valid pixel: got %v, want 50", out[1])
	}
}

func TestNormalizeRejectsDegenerateRange(t *testing.T) {
	if _, err := Normalize([]float32{1}, 10, 10, false, -9999); err == nil {
		t.Fatal("expected error for max == min")
	}
	if _, err := Normalize([]float32{1}, 10, 5, false, -9999); err == nil {
		t.Fatal("expected error for max < min")
	}
}

func TestNormalizeIsIdempotentOnAlreadyNormalizedInput(t *testing.T) {
	first, err := Normalize([]float32{3, 7}, 0, 10, false, -9999)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Normalize(first, 0, 100, false, -9999)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("index %d: normalizing an already-[0,100] array over [0,100] should be a no-op, got %v vs %v", i, first[i], second[i])
		}
	}
}
