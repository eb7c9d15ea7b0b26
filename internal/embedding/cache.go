package embedding

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/Atmosphere89/PromptAligner/internal/alignment"
)

// DefaultMemoryCacheSize bounds the in-memory vector cache when no size is set.
const DefaultMemoryCacheSize = 4096

// #region cached-embedder

// CachedEmbedder normalizes text and memoizes a Backend in a bounded LRU and,
// optionally, in a Store. The least recently used vector is evicted once the
// LRU holds size entries.
type CachedEmbedder struct {
	next  Backend
	store *Store // nil = memory only
	mem   *lru.Cache[string, []float32]
}

// NewCachedEmbedder wraps next. store may be nil; size <= 0 means
// DefaultMemoryCacheSize.
func NewCachedEmbedder(next Backend, store *Store, size int) *CachedEmbedder {
	if size <= 0 {
		size = DefaultMemoryCacheSize
	}
	mem, _ := lru.New[string, []float32](size) // only fails for size <= 0
	return &CachedEmbedder{next: next, store: store, mem: mem}
}

// Embed returns a copy of the cached vector or embeds and caches it. Text
// that normalizes to nothing is rejected before the backend is called.
func (c *CachedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	normalized := NormalizeText(text)
	if normalized == "" {
		return nil, fmt.Errorf("%w: text is empty after normalization", alignment.ErrInvalidInput)
	}
	key := cacheKey(c.next.ModelID(), normalized)

	if vec, ok := c.mem.Get(key); ok {
		return cloneVector(vec), nil
	}

	if c.store != nil {
		vec, ok, err := c.store.Get(ctx, key)
		if err != nil {
			slog.Warn("embedding cache read failed", "key", key, "error", err)
		} else if ok {
			c.mem.Add(key, cloneVector(vec))
			return cloneVector(vec), nil
		}
	}

	vec, err := c.next.Embed(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if len(vec) == 0 {
		return vec, nil
	}
	c.mem.Add(key, cloneVector(vec))
	if c.store != nil {
		if err := c.store.Put(ctx, key, c.next.ModelID(), vec); err != nil {
			slog.Warn("embedding cache write failed", "key", key, "error", err)
		}
	}
	return cloneVector(vec), nil
}

// Len reports how many vectors the memory cache holds.
func (c *CachedEmbedder) Len() int {
	return c.mem.Len()
}

// ModelID returns the wrapped backend's identifier.
func (c *CachedEmbedder) ModelID() string {
	return c.next.ModelID()
}

// Close closes the wrapped backend and the store.
func (c *CachedEmbedder) Close() error {
	err := c.next.Close()
	if c.store != nil {
		if serr := c.store.Close(); serr != nil && err == nil {
			err = serr
		}
	}
	c.mem.Purge()
	return err
}

// #endregion cached-embedder

// #region helpers

func cacheKey(modelID, text string) string {
	h := sha1.New()
	_, _ = io.WriteString(h, modelID)
	_, _ = io.WriteString(h, "|")
	_, _ = io.WriteString(h, text)
	return hex.EncodeToString(h.Sum(nil))
}

func cloneVector(vec []float32) []float32 {
	out := make([]float32, len(vec))
	copy(out, vec)
	return out
}

// #endregion helpers
