package alignment

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"
)

// #region config

// ScorerConfig holds tuning knobs for consistency scoring.
type ScorerConfig struct {
	EmbedTimeout time.Duration                // bound on the three embeds together; 0 = none
	Similarity   func(a, b []float32) float64 // nil = CosineSimilarity
}

// DefaultScorerConfig returns a config with no timeout and cosine similarity.
func DefaultScorerConfig() ScorerConfig {
	return ScorerConfig{Similarity: CosineSimilarity}
}

// #endregion config

// #region scorer

// Scorer computes the Consistency Deviation Score of a prompt, feedback and
// caption. It holds no per-call state and is safe for concurrent use.
type Scorer struct {
	embedder Embedder
	config   ScorerConfig
}

// NewScorer creates a Scorer over the given provider.
func NewScorer(embedder Embedder, config ScorerConfig) *Scorer {
	if config.Similarity == nil {
		config.Similarity = CosineSimilarity
	}
	return &Scorer{embedder: embedder, config: config}
}

// #endregion scorer

// #region score

// Score validates the triple, embeds the three texts concurrently and returns
// CDS = clamp01(1 - mean(pairwise similarities)).
func (s *Scorer) Score(ctx context.Context, t TextTriple) (ConsistencyResult, error) {
	if err := t.Validate(); err != nil {
		return ConsistencyResult{}, err
	}
	if s.embedder == nil {
		return ConsistencyResult{}, fmt.Errorf("%w: no provider configured", ErrEmbeddingUnavailable)
	}

	if s.config.EmbedTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.EmbedTimeout)
		defer cancel()
	}

	vecs, err := s.embedAll(ctx, [3]string{t.Prompt, t.Feedback, t.Caption})
	if err != nil {
		return ConsistencyResult{}, err
	}

	sims := SimilarityTriple{
		PromptFeedback:  s.config.Similarity(vecs[0], vecs[1]),
		PromptCaption:   s.config.Similarity(vecs[0], vecs[2]),
		FeedbackCaption: s.config.Similarity(vecs[1], vecs[2]),
	}
	for _, v := range []float64{sims.PromptFeedback, sims.PromptCaption, sims.FeedbackCaption} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return ConsistencyResult{}, fmt.Errorf("%w: similarity %v", ErrEmbeddingUnavailable, v)
		}
	}

	return ConsistencyResult{
		Score:        clamp01(1 - sims.Mean()),
		Similarities: sims,
	}, nil
}

// Deviation scores raw strings and returns only the CDS.
func (s *Scorer) Deviation(ctx context.Context, prompt, feedback, caption string) (float64, error) {
	t, err := NewTextTriple(prompt, feedback, caption)
	if err != nil {
		return 0, err
	}
	res, err := s.Score(ctx, t)
	if err != nil {
		return 0, err
	}
	return res.Score, nil
}

// #endregion score

// #region embed-all

var roles = [3]string{"prompt", "feedback", "caption"}

type embedResult struct {
	vec []float32
	err error
}

// embedAll runs the three embeds in parallel and waits for all of them, or for
// ctx to end. Any failure, empty vector or dimension mismatch is reported as
// ErrEmbeddingUnavailable.
func (s *Scorer) embedAll(ctx context.Context, texts [3]string) ([3][]float32, error) {
	var out [3][]float32
	if err := ctx.Err(); err != nil {
		return out, fmt.Errorf("%w: %w", ErrEmbeddingUnavailable, err)
	}

	results := make([]embedResult, len(texts))
	var wg sync.WaitGroup
	for i, text := range texts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			vec, err := s.embedder.Embed(ctx, text)
			results[i] = embedResult{vec: vec, err: err}
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return out, fmt.Errorf("%w: %w", ErrEmbeddingUnavailable, ctx.Err())
	}

	for i, r := range results {
		if r.err != nil {
			return out, fmt.Errorf("%w: embed %s: %w", ErrEmbeddingUnavailable, roles[i], r.err)
		}
		if len(r.vec) == 0 {
			return out, fmt.Errorf("%w: embed %s: empty vector", ErrEmbeddingUnavailable, roles[i])
		}
		out[i] = r.vec
	}
	for i := 1; i < len(out); i++ {
		if len(out[i]) != len(out[0]) {
			return out, fmt.Errorf("%w: dimension mismatch %s=%d %s=%d",
				ErrEmbeddingUnavailable, roles[0], len(out[0]), roles[i], len(out[i]))
		}
	}
	return out, nil
}

// #endregion embed-all
