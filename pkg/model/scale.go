package model

import "math"

// Scaler standardizes features to zero mean and unit variance using
// statistics fitted on the training set only.
type Scaler struct {
	Mean []float64
	Std  []float64
}

// FitScaler computes per-column mean and standard deviation.
func FitScaler(X [][]float64) *Scaler {
	if len(X) == 0 {
		return &Scaler{}
	}
	p := len(X[0])
	s := &Scaler{
		Mean: make([]float64, p),
		Std:  make([]float64, p),
	}
	n := float64(len(X))
	for _, row := range X {
		for j, v := range row {
			s.Mean[j] += v
		}
	}
	for j := range s.Mean {
		s.Mean[j] /= n
	}
	for _, row := range X {
		for j, v := range row {
			d := v - s.Mean[j]
			s.Std[j] += d * d
		}
	}
	for j := range s.Std {
		s.Std[j] = math.Sqrt(s.Std[j] / n)
		// Constant columns pass through unscaled.
		if s.Std[j] == 0 {
			s.Std[j] = 1
		}
	}
	return s
}

// Transform returns a standardized copy of X.
func (s *Scaler) Transform(X [][]float64) [][]float64 {
	out := make([][]float64, len(X))
	for i, row := range X {
		sr := make([]float64, len(row))
		for j, v := range row {
			sr[j] = (v - s.Mean[j]) / s.Std[j]
		}
		out[i] = sr
	}
	return out
}
