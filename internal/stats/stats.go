// Package stats implements the Statistics component (spec.md §4.7):
// summary numbers computed over a completed suitability raster and
// persisted as the job's stats_json.
package stats

import "math"

// Summary is serialized into analysis_jobs.stats_json.
type Summary struct {
	TotalPixels     int     `json:"total_pixels"`
	ValidPixels     int     `json:"valid_pixels"`
	ExcludedPixels  int     `json:"excluded_pixels"`
	MeanSuitability float64 `json:"mean_suitability"`
	MinSuitability  float64 `json:"min_suitability"`
	MaxSuitability  float64 `json:"max_suitability"`
	StdSuitability  float64 `json:"std_suitability"`
}

// Compute derives a Summary from the overlay's output. A pixel is
// valid if it is neither no-data nor excluded; excluded pixels are
// counted separately from plain no-data (no-data in a contributing
// factor that was never declared as a constraint).
// mask may be nil if the job declared no constraints.
func Compute(score []float32, mask []bool, noData float32) Summary {
	s := Summary{TotalPixels: len(score)}

	var sum, sumSq float64
	min, max := math.Inf(1), math.Inf(-1)

	for i, v := range score {
		excluded := mask != nil && mask[i]
		if excluded {
			s.ExcludedPixels++
		}
		if v == noData {
			continue
		}
		if excluded {
			continue
		}
		s.ValidPixels++
		fv := float64(v)
		sum += fv
		sumSq += fv * fv
		if fv < min {
			min = fv
		}
		if fv > max {
			max = fv
		}
	}

	if s.ValidPixels == 0 {
		return s
	}

	mean := sum / float64(s.ValidPixels)
	variance := sumSq/float64(s.ValidPixels) - mean*mean
	if variance < 0 {
		variance = 0 // guard against float rounding
	}

	s.MeanSuitability = mean
	s.MinSuitability = min
	s.MaxSuitability = max
	s.StdSuitability = math.Sqrt(variance)
	return s
}
