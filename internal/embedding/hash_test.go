package embedding

import (
	"context"
	"math"
	"testing"

	"github.com/Atmosphere89/PromptAligner/internal/alignment"
)

func TestHashEmbedder_DeterministicUnitVector(t *testing.T) {
	h := NewHashEmbedder(64)
	a, err := h.Embed(context.Background(), "A red fox jumps over the fence.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, _ := h.Embed(context.Background(), "A red fox jumps over the fence.")
	if len(a) != 64 {
		t.Fatalf("expected 64 dims, got %d", len(a))
	}
	var norm float64
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("expected identical vectors at %d", i)
		}
		norm += float64(a[i]) * float64(a[i])
	}
	if math.Abs(norm-1) > 1e-5 {
		t.Errorf("expected unit norm, got %v", norm)
	}
}

func TestHashEmbedder_CaseAndPunctuationInsensitive(t *testing.T) {
	h := NewHashEmbedder(0)
	a, _ := h.Embed(context.Background(), "Sunset, over the OCEAN!")
	b, _ := h.Embed(context.Background(), "sunset over the ocean")
	if got := alignment.CosineSimilarity(a, b); got != 1 {
		t.Errorf("expected identical embeddings, got similarity %v", got)
	}
}

func TestHashEmbedder_SharedWordsAreCloser(t *testing.T) {
	h := NewHashEmbedder(512)
	ctx := context.Background()
	p, _ := h.Embed(ctx, "a castle on a hill at sunset")
	near, _ := h.Embed(ctx, "a castle on a hill at night")
	far, _ := h.Embed(ctx, "quarterly revenue spreadsheet totals")
	if alignment.CosineSimilarity(p, near) <= alignment.CosineSimilarity(p, far) {
		t.Error("expected overlapping text to be more similar")
	}
}

func TestHashEmbedder_PunctuationOnly(t *testing.T) {
	h := NewHashEmbedder(16)
	v, err := h.Embed(context.Background(), "?!")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(v) != 16 {
		t.Errorf("expected 16 dims, got %d", len(v))
	}
}

func TestHashEmbedder_ModelID(t *testing.T) {
	if got := NewHashEmbedder(0).ModelID(); got != "hash:256" {
		t.Errorf("unexpected model id %q", got)
	}
}

func TestNormalizeText(t *testing.T) {
	cases := map[string]string{
		"  ｆｕｌｌ width  ": "full width",
		"tab\tkept":        "tab\tkept",
		"bell\a gone":      "bell gone",
		"\x01 padded \x02": "padded",
	}
	for in, want := range cases {
		if got := NormalizeText(in); got != want {
			t.Errorf("NormalizeText(%q) = %q, want %q", in, got, want)
		}
	}
}
