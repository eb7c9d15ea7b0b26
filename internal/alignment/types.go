package alignment

import (
	"context"
	"fmt"
	"math"
	"strings"
	"unicode"
)

// #region embedder-interface

// Embedder maps text to a fixed-dimension vector. Implementations must be safe
// for concurrent use; the scorer calls Embed from three goroutines at once.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// #endregion embedder-interface

// #region signals

// AlignmentSignals are the three externally supplied alignment values.
// Conventionally in [0, 1] but not clamped.
type AlignmentSignals struct {
	Content    float64 `json:"content"`
	Aesthetic  float64 `json:"aesthetic"`
	Structural float64 `json:"structural"`
}

// NewAlignmentSignals validates and returns a signal triple.
func NewAlignmentSignals(content, aesthetic, structural float64) (AlignmentSignals, error) {
	s := AlignmentSignals{Content: content, Aesthetic: aesthetic, Structural: structural}
	if err := s.Validate(); err != nil {
		return AlignmentSignals{}, err
	}
	return s, nil
}

// Validate rejects negative, NaN and infinite signals.
func (s AlignmentSignals) Validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"content", s.Content},
		{"aesthetic", s.Aesthetic},
		{"structural", s.Structural},
	} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) || f.v < 0 {
			return fmt.Errorf("%w: %s signal %v", ErrInvalidInput, f.name, f.v)
		}
	}
	return nil
}

// #endregion signals

// #region weights

// Weights are the exponents applied to content, aesthetic and structural signals.
type Weights struct {
	Alpha float64 `json:"alpha"`
	Beta  float64 `json:"beta"`
	Gamma float64 `json:"gamma"`
}

// DefaultWeights returns equal weighting (1, 1, 1).
func DefaultWeights() Weights {
	return Weights{Alpha: 1, Beta: 1, Gamma: 1}
}

// NewWeights validates and returns a weight triple.
func NewWeights(alpha, beta, gamma float64) (Weights, error) {
	w := Weights{Alpha: alpha, Beta: beta, Gamma: gamma}
	if err := w.Validate(); err != nil {
		return Weights{}, err
	}
	return w, nil
}

// Validate requires finite non-negative weights with a positive sum.
func (w Weights) Validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"alpha", w.Alpha},
		{"beta", w.Beta},
		{"gamma", w.Gamma},
	} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) || f.v < 0 {
			return fmt.Errorf("%w: weight %s %v", ErrInvalidConfiguration, f.name, f.v)
		}
	}
	if w.Sum() == 0 {
		return fmt.Errorf("%w: weights sum to zero", ErrInvalidConfiguration)
	}
	return nil
}

// Sum returns α+β+γ.
func (w Weights) Sum() float64 {
	return w.Alpha + w.Beta + w.Gamma
}

// WeightOverride is a possibly partial set of weights. Nil fields keep the
// base value, so {"alpha": 2} over the defaults means (2, 1, 1).
type WeightOverride struct {
	Alpha *float64 `json:"alpha,omitempty"`
	Beta  *float64 `json:"beta,omitempty"`
	Gamma *float64 `json:"gamma,omitempty"`
}

// Apply merges o onto base. A nil override returns base unchanged.
func (o *WeightOverride) Apply(base Weights) Weights {
	if o == nil {
		return base
	}
	w := base
	if o.Alpha != nil {
		w.Alpha = *o.Alpha
	}
	if o.Beta != nil {
		w.Beta = *o.Beta
	}
	if o.Gamma != nil {
		w.Gamma = *o.Gamma
	}
	return w
}

// #endregion weights

// #region texts

// TextTriple is the prompt, feedback and caption compared by the consistency scorer.
type TextTriple struct {
	Prompt   string `json:"prompt"`
	Feedback string `json:"feedback"`
	Caption  string `json:"caption"`
}

// NewTextTriple validates and returns a text triple.
func NewTextTriple(prompt, feedback, caption string) (TextTriple, error) {
	t := TextTriple{Prompt: prompt, Feedback: feedback, Caption: caption}
	if err := t.Validate(); err != nil {
		return TextTriple{}, err
	}
	return t, nil
}

// Validate rejects texts with no printable content.
func (t TextTriple) Validate() error {
	for _, f := range []struct {
		role string
		text string
	}{
		{"prompt", t.Prompt},
		{"feedback", t.Feedback},
		{"caption", t.Caption},
	} {
		if IsBlank(f.text) {
			return fmt.Errorf("%w: %s is empty", ErrInvalidInput, f.role)
		}
	}
	return nil
}

// IsBlank reports whether text holds only whitespace and control characters,
// which embedding backends strip before use.
func IsBlank(text string) bool {
	return strings.IndexFunc(text, func(r rune) bool {
		return !unicode.IsSpace(r) && !unicode.IsControl(r)
	}) < 0
}

// #endregion texts

// #region results

// SimilarityTriple holds the pairwise cosine similarities of a TextTriple.
type SimilarityTriple struct {
	PromptFeedback  float64 `json:"prompt_feedback"`
	PromptCaption   float64 `json:"prompt_caption"`
	FeedbackCaption float64 `json:"feedback_caption"`
}

// Mean is the arithmetic mean of the three similarities.
func (s SimilarityTriple) Mean() float64 {
	return (s.PromptFeedback + s.PromptCaption + s.FeedbackCaption) / 3
}

// ConsistencyResult is a CDS plus the similarities it was derived from.
type ConsistencyResult struct {
	Score        float64          `json:"score"`
	Similarities SimilarityTriple `json:"similarities"`
}

// #endregion results
