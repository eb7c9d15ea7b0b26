package alignment

import (
	"errors"
	"math"
	"testing"
)

// 1. Worked example: (0.8·0.7·0.9)^(1/3).
func TestHarmonyIndex_DefaultWeightsExample(t *testing.T) {
	h, err := HarmonyIndex(0.8, 0.7, 0.9)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := math.Cbrt(0.8 * 0.7 * 0.9)
	if math.Abs(h-want) > 1e-12 {
		t.Errorf("expected %.12f, got %.12f", want, h)
	}
	if math.Abs(h-0.7958) > 1e-4 {
		t.Errorf("expected ≈0.7958, got %f", h)
	}
}

// 2. Identity: all signals 1 → exactly 1 for any valid weights.
func TestHarmonyIndex_Identity(t *testing.T) {
	for _, w := range []Weights{
		DefaultWeights(),
		{Alpha: 2, Beta: 0.5, Gamma: 3},
		{Alpha: 0, Beta: 0, Gamma: 1},
	} {
		h, err := HarmonyIndex(1, 1, 1, w)
		if err != nil {
			t.Fatalf("weights %+v: unexpected error: %v", w, err)
		}
		if h != 1 {
			t.Errorf("weights %+v: expected exactly 1, got %v", w, h)
		}
	}
}

// 3. Boundedness: signals in [0,1] and valid weights → H in [0,1].
func TestHarmonyIndex_Bounded(t *testing.T) {
	values := []float64{0, 0.01, 0.25, 0.5, 0.75, 0.99, 1}
	weights := []Weights{
		DefaultWeights(),
		{Alpha: 3, Beta: 1, Gamma: 0.2},
		{Alpha: 0, Beta: 2, Gamma: 5},
	}
	for _, w := range weights {
		for _, vc := range values {
			for _, va := range values {
				for _, vs := range values {
					h, err := HarmonyIndex(vc, va, vs, w)
					if err != nil {
						t.Fatalf("(%v,%v,%v) %+v: unexpected error: %v", vc, va, vs, w, err)
					}
					if h < 0 || h > 1 {
						t.Errorf("(%v,%v,%v) %+v: H=%v out of [0,1]", vc, va, vs, w, h)
					}
				}
			}
		}
	}
}

// 4. Zero collapse: a zero signal with positive weight gives exactly 0.
func TestHarmonyIndex_ZeroCollapse(t *testing.T) {
	cases := [][3]float64{{0, 0.9, 0.9}, {0.9, 0, 0.9}, {0.9, 0.9, 0}}
	for _, c := range cases {
		h, err := HarmonyIndex(c[0], c[1], c[2])
		if err != nil {
			t.Fatalf("%v: unexpected error: %v", c, err)
		}
		if h != 0 {
			t.Errorf("%v: expected exactly 0, got %v", c, h)
		}
	}
}

// 5. A zero-weight term is skipped, even when its signal is zero.
func TestHarmonyIndex_ZeroWeightSkipsTerm(t *testing.T) {
	h, err := HarmonyIndex(0, 0.4, 0.9, Weights{Alpha: 0, Beta: 1, Gamma: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := math.Sqrt(0.4 * 0.9)
	if math.Abs(h-want) > 1e-12 {
		t.Errorf("expected %v, got %v", want, h)
	}
}

// 6. Raising α pulls H toward v_c.
func TestHarmonyIndex_WeightSkew(t *testing.T) {
	vc, va, vs := 0.9, 0.3, 0.5
	base, _ := HarmonyIndex(vc, va, vs)
	prev := base
	for _, alpha := range []float64{2, 4, 8, 32} {
		h, err := HarmonyIndex(vc, va, vs, Weights{Alpha: alpha, Beta: 1, Gamma: 1})
		if err != nil {
			t.Fatalf("alpha=%v: unexpected error: %v", alpha, err)
		}
		if h <= prev {
			t.Errorf("alpha=%v: expected H to increase past %v, got %v", alpha, prev, h)
		}
		if math.Abs(h-vc) >= math.Abs(prev-vc) {
			t.Errorf("alpha=%v: expected H closer to %v", alpha, vc)
		}
		prev = h
	}
}

// 7. Negative or NaN signals are rejected.
func TestHarmonyIndex_RejectsBadSignals(t *testing.T) {
	cases := [][3]float64{
		{-0.1, 0.5, 0.5},
		{0.5, -1e-9, 0.5},
		{0.5, 0.5, math.NaN()},
		{math.Inf(1), 0.5, 0.5},
	}
	for _, c := range cases {
		_, err := HarmonyIndex(c[0], c[1], c[2])
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("%v: expected ErrInvalidInput, got %v", c, err)
		}
	}
}

// 8. Zero-sum and negative weights are rejected.
func TestHarmonyIndex_RejectsBadWeights(t *testing.T) {
	cases := []Weights{
		{},
		{Alpha: -1, Beta: 1, Gamma: 1},
		{Alpha: 1, Beta: math.NaN(), Gamma: 1},
		{Alpha: 1, Beta: 1, Gamma: math.Inf(1)},
	}
	for _, w := range cases {
		_, err := HarmonyIndex(0.5, 0.5, 0.5, w)
		if !errors.Is(err, ErrInvalidConfiguration) {
			t.Errorf("%+v: expected ErrInvalidConfiguration, got %v", w, err)
		}
	}

	_, err := HarmonyIndex(0.5, 0.5, 0.5, DefaultWeights(), DefaultWeights())
	if !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("two weight sets: expected ErrInvalidConfiguration, got %v", err)
	}
}

// 9. Values above 1 pass through unclamped.
func TestHarmonyIndex_NoOutputClamp(t *testing.T) {
	h, err := HarmonyIndex(2, 2, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(h-2) > 1e-12 {
		t.Errorf("expected 2, got %v", h)
	}
}

func TestComputeHarmonyIndex_MatchesDirectFormula(t *testing.T) {
	s, err := NewAlignmentSignals(0.6, 0.35, 0.95)
	if err != nil {
		t.Fatalf("NewAlignmentSignals: %v", err)
	}
	w, err := NewWeights(2, 0.5, 1.5)
	if err != nil {
		t.Fatalf("NewWeights: %v", err)
	}
	h, err := ComputeHarmonyIndex(s, w)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := math.Pow(math.Pow(0.6, 2)*math.Pow(0.35, 0.5)*math.Pow(0.95, 1.5), 1/4.0)
	if math.Abs(h-want) > 1e-12 {
		t.Errorf("expected %v, got %v", want, h)
	}
}
