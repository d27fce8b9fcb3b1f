package stats

import "testing"

func TestComputeBasicSummary(t *testing.T) {
	score := []float32{10, 20, 30, -9999}
	s := Compute(score, nil, -9999)
	if s.TotalPixels != 4 {
		t.Errorf("total_pixels: got %d, want 4", s.TotalPixels)
	}
	if s.ValidPixels != 3 {
		t.Errorf("valid_pixels: got %d, want 3", s.ValidPixels)
	}
	if s.MeanSuitability != 20 {
		t.Errorf("mean: got %v, want 20", s.MeanSuitability)
	}
	if s.MinSuitability != 10 || s.MaxSuitability != 30 {
		t.Errorf("min/max: got %v/%v, want 10/30", s.MinSuitability, s.MaxSuitability)
	}
}

func TestComputeExcludedPixelsCountedSeparately(t *testing.T) {
	score := []float32{10, 20, 30}
	mask := []bool{true, false, false}
	s := Compute(score, mask, -9999)
	if s.ExcludedPixels != 1 {
		t.Errorf("excluded_pixels: got %d, want 1", s.ExcludedPixels)
	}
	if s.ValidPixels != 2 {
		t.Errorf("valid_pixels: got %d, want 2", s.ValidPixels)
	}
	if s.MeanSuitability != 25 {
		t.Errorf("mean over valid pixels: got %v, want 25", s.MeanSuitability)
	}
}

func TestComputeAllInvalidYieldsZeroedStats(t *testing.T) {
	score := []float32{-9999, -9999}
	s := Compute(score, nil, -9999)
	if s.ValidPixels != 0 {
		t.Fatalf("valid_pixels: got %d, want 0", s.ValidPixels)
	}
	if s.MeanSuitability != 0 || s.StdSuitability != 0 {
		t.Errorf("expected zeroed stats when no valid pixels, got mean=%v std=%v", s.MeanSuitability, s.StdSuitability)
	}
}

func TestComputeStdDeviation(t *testing.T) {
	// Population of {10, 20, 30}: mean 20, variance ((100+0+100)/3)=66.67, std ~8.165
	score := []float32{10, 20, 30}
	s := Compute(score, nil, -9999)
	if s.StdSuitability < 8.1 || s.StdSuitability > 8.2 {
		t.Errorf("std: got %v, want ~8.165", s.StdSuitability)
	}
}
