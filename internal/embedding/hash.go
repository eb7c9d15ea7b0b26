package embedding

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"strings"
	"unicode"
)

// DefaultHashDimension is the HashEmbedder width when none is configured.
const DefaultHashDimension = 256

// #region hash-embedder

// HashEmbedder is a deterministic bag-of-words embedder. Each lowercase token
// is hashed into one signed bucket and the result is L2-normalized. Texts that
// share words get positive similarity. No model is loaded.
type HashEmbedder struct {
	dim int
}

// NewHashEmbedder creates a HashEmbedder. dim <= 0 uses DefaultHashDimension.
func NewHashEmbedder(dim int) *HashEmbedder {
	if dim <= 0 {
		dim = DefaultHashDimension
	}
	return &HashEmbedder{dim: dim}
}

// Embed hashes text into a unit vector.
func (h *HashEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tokens := hashTokens(text)
	if len(tokens) == 0 {
		return nil, fmt.Errorf("hash embed: no tokens in %q", text)
	}

	vec := make([]float64, h.dim)
	for _, tok := range tokens {
		f := fnv.New64a()
		_, _ = f.Write([]byte(tok))
		sum := f.Sum64()
		idx := int(sum % uint64(h.dim))
		if sum>>63 == 1 {
			vec[idx]--
		} else {
			vec[idx]++
		}
	}

	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	norm = math.Sqrt(norm)
	out := make([]float32, h.dim)
	if norm == 0 {
		return out, nil
	}
	for i, v := range vec {
		out[i] = float32(v / norm)
	}
	return out, nil
}

// ModelID returns "hash:<dim>".
func (h *HashEmbedder) ModelID() string {
	return fmt.Sprintf("hash:%d", h.dim)
}

// Close is a no-op.
func (h *HashEmbedder) Close() error {
	return nil
}

// #endregion hash-embedder

// #region helpers

// hashTokens lowercases, splits on whitespace and strips surrounding
// punctuation. A text made only of punctuation hashes as one token.
func hashTokens(text string) []string {
	normed := strings.ToLower(NormalizeText(text))
	fields := strings.Fields(normed)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		t := strings.TrimFunc(f, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if t != "" {
			tokens = append(tokens, t)
		}
	}
	if len(tokens) == 0 && normed != "" {
		tokens = append(tokens, normed)
	}
	return tokens
}

// #endregion helpers
