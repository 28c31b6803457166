package model

// Scaler performs per-column min/max scaling into the 0-1 range. It is
// fit on the training partition only and then applied to both
// partitions, so the testing data never leaks into the fit.
type Scaler struct {
	Min []float64
	Max []float64
}

func FitScaler(features [][]float64) *Scaler {
	if len(features) == 0 {
		return &Scaler{}
	}

	cols := len(features[0])
	s := &Scaler{
		Min: make([]float64, cols),
		Max: make([]float64, cols),
	}
	copy(s.Min, features[0])
	copy(s.Max, features[0])

	for _, row := range features[1:] {
		for j, v := range row {
			if v < s.Min[j] {
				s.Min[j] = v
			}
			if v > s.Max[j] {
				s.Max[j] = v
			}
		}
	}
	return s
}

// Transform returns scaled copies of the rows. Columns that were
// constant during the fit map to 0.5; values outside the fitted range
// are clamped to 0-1.
func (s *Scaler) Transform(features [][]float64) [][]float64 {
	out := make([][]float64, len(features))
	for i, row := range features {
		scaled := make([]float64, len(row))
		for j, v := range row {
			if j >= len(s.Min) || s.Max[j] <= s.Min[j] {
				scaled[j] = 0.5
				continue
			}
			n := (v - s.Min[j]) / (s.Max[j] - s.Min[j])
			if n < 0 {
				n = 0
			} else if n > 1 {
				n = 1
			}
			scaled[j] = n
		}
		out[i] = scaled
	}
	return out
}
