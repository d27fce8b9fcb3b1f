package derive

import "testing"

func TestAspectFlatSurfaceIsZero(t *testing.T) {
	w, h := 5, 5
	elev := make([]float32, w*h)
	out := Aspect(elev, w, h, nodata, 10, 10)
	if out[2*w+2] != 0 {
		t.Errorf("flat ground should report aspect 0, got %v", out[2*w+2])
	}
}

func TestAspectEdgePixelsAreNoData(t *testing.T) {
	w, h := 4, 4
	elev := make([]float32, w*h)
	out := Aspect(elev, w, h, nodata, 10, 10)
	if out[0] != nodata {
		t.Errorf("edge pixel should be no-data, got %v", out[0])
	}
}

func TestAspectIsWithinDegreeRange(t *testing.T) {
	w, h := 5, 5
	elev := make([]float32, w*h)
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			elev[row*w+col] = float32(row*3 + col*2)
		}
	}
	out := Aspect(elev, w, h, nodata, 10, 10)
	for row := 1; row < h-1; row++ {
		for col := 1; col < w-1; col++ {
			v := out[row*w+col]
			if v < 0 || v >= 360 {
				t.Errorf("pixel (%d,%d): aspect %v out of [0,360)", row, col, v)
			}
		}
	}
}
