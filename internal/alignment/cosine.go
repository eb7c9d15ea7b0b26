package alignment

import (
	"gonum.org/v1/gonum/floats"
)

// #region cosine

// CosineSimilarity returns the cosine of the angle between a and b in [-1, 1].
// Mismatched or empty inputs and zero-norm vectors yield 0. Identical non-zero
// vectors yield exactly 1.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	x, y := widen(a), widen(b)
	na, nb := floats.Norm(x, 2), floats.Norm(y, 2)
	if na == 0 || nb == 0 {
		return 0
	}
	if floats.Equal(x, y) {
		return 1
	}
	return clampUnit(floats.Dot(x, y) / (na * nb))
}

// #endregion cosine

// #region helpers

func widen(v []float32) []float64 {
	out := make([]float64, len(v))
	for i, f := range v {
		out[i] = float64(f)
	}
	return out
}

// clampUnit restricts v to [-1, 1].
func clampUnit(v float64) float64 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}

// clamp01 restricts v to [0, 1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// #endregion helpers
