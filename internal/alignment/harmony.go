package alignment

import (
	"fmt"
	"math"
)

// #region harmony

// ComputeHarmonyIndex returns the weighted geometric mean
// (vc^α · va^β · vs^γ)^(1/(α+β+γ)).
//
// A zero signal with a positive weight collapses the index to exactly 0. A zero
// weight drops its term (0^0 = 1). The result is not clamped: signals above 1
// give an index above 1.
func ComputeHarmonyIndex(s AlignmentSignals, w Weights) (float64, error) {
	if err := s.Validate(); err != nil {
		return 0, err
	}
	if err := w.Validate(); err != nil {
		return 0, err
	}

	terms := [3]struct{ v, w float64 }{
		{s.Content, w.Alpha},
		{s.Aesthetic, w.Beta},
		{s.Structural, w.Gamma},
	}

	var logSum float64
	for _, t := range terms {
		if t.w == 0 {
			continue
		}
		if t.v == 0 {
			return 0, nil
		}
		logSum += t.w * math.Log(t.v)
	}
	return math.Exp(logSum / w.Sum()), nil
}

// HarmonyIndex scores three raw signals. Weights default to (1, 1, 1); at most
// one Weights value may be passed.
func HarmonyIndex(vc, va, vs float64, weights ...Weights) (float64, error) {
	w := DefaultWeights()
	switch len(weights) {
	case 0:
	case 1:
		w = weights[0]
	default:
		return 0, fmt.Errorf("%w: %d weight sets given", ErrInvalidConfiguration, len(weights))
	}
	return ComputeHarmonyIndex(AlignmentSignals{Content: vc, Aesthetic: va, Structural: vs}, w)
}

// #endregion harmony
