package constraint

import (
	"testing"

	"github.com/f4roos41/solarmcda/internal/catalog"
)

func TestCompileExcludesOverThreshold(t *testing.T) {
	slope := []float32{5, 15, 8, 20}
	layers := map[catalog.LayerID]LayerArray{
		catalog.LayerSlope: {Data: slope, NoData: -9999},
	}
	constraints := map[catalog.ConstraintKind]Value{
		catalog.ConstraintSlopeGT: {Threshold: 10},
	}

	mask, err := Compile(constraints, layers, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []bool{false, true, false, true}
	for i := range want {
		if mask[i] != want[i] {
			t.Errorf("pixel %d: got %v, want %v", i, mask[i], want[i])
		}
	}
}

func TestCompileNoDataIsConservativelyExcluded(t *testing.T) {
	layers := map[catalog.LayerID]LayerArray{
		catalog.LayerDistanceToGrid: {Data: []float32{-9999, 500}, NoData: -9999},
	}
	constraints := map[catalog.ConstraintKind]Value{
		catalog.ConstraintGridDistGT: {Threshold: 10000},
	}

	mask, err := Compile(constraints, layers, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !mask[0] {
		t.Error("no-data pixel should be excluded")
	}
	if mask[1] {
		t.Error("valid, under-threshold pixel should not be excluded")
	}
}

func TestCompileSetMembership(t *testing.T) {
	layers := map[catalog.LayerID]LayerArray{
		catalog.LayerLULC: {Data: []float32{10, 50, 80, 30}, NoData: -9999},
	}
	constraints := map[catalog.ConstraintKind]Value{
		catalog.ConstraintLULCExclude: {Classes: map[int]struct{}{50: {}, 80: {}}},
	}

	mask, err := Compile(constraints, layers, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []bool{false, true, true, false}
	for i := range want {
		if mask[i] != want[i] {
			t.Errorf("pixel %d: got %v, want %v", i, mask[i], want[i])
		}
	}
}

func TestCompileMissingLayerErrors(t *testing.T) {
	constraints := map[catalog.ConstraintKind]Value{
		catalog.ConstraintSlopeGT: {Threshold: 10},
	}
	if _, err := Compile(constraints, map[catalog.LayerID]LayerArray{}, 4); err == nil {
		t.Fatal("expected error when a declared constraint's layer is missing")
	}
}
