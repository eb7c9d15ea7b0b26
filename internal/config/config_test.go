package config

import (
	"errors"
	"testing"
	"time"

	"github.com/Atmosphere89/PromptAligner/internal/alignment"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, k := range []string{"EMBED_BACKEND", "HARMONY_ALPHA", "EMBED_TIMEOUT_MS", "OLLAMA_EMBED_MODEL", "OLLAMA_BASE_URL", "OLLAMA_EMBED_URL", "EMBED_CACHE_DRIVER", "EMBED_CACHE_SIZE"} {
		t.Setenv(k, "")
	}
	c := FromEnv()
	if c.EmbedBackend != "ollama" {
		t.Errorf("expected ollama backend, got %q", c.EmbedBackend)
	}
	if c.OllamaEmbed.Model != "all-minilm" || c.OllamaEmbed.BaseURL != "http://localhost:11434" {
		t.Errorf("unexpected embed endpoint %+v", c.OllamaEmbed)
	}
	if c.Weights != alignment.DefaultWeights() {
		t.Errorf("expected default weights, got %+v", c.Weights)
	}
	if c.CacheSize != 4096 {
		t.Errorf("expected 4096 cache entries, got %d", c.CacheSize)
	}
	if c.EmbedTimeout != 10*time.Second {
		t.Errorf("expected 10s timeout, got %v", c.EmbedTimeout)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("EMBED_BACKEND", "hash")
	t.Setenv("HASH_DIMENSION", "64")
	t.Setenv("EMBED_CACHE_SIZE", "16")
	t.Setenv("HARMONY_ALPHA", "2.5")
	t.Setenv("EMBED_TIMEOUT_MS", "250")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("HARMONY_BETA", "not-a-number")

	c := FromEnv()
	if c.EmbedBackend != "hash" || c.HashDimension != 64 {
		t.Errorf("unexpected backend %q/%d", c.EmbedBackend, c.HashDimension)
	}
	if c.Weights.Alpha != 2.5 || c.Weights.Beta != 1 {
		t.Errorf("unexpected weights %+v", c.Weights)
	}
	if c.EmbedTimeout != 250*time.Millisecond {
		t.Errorf("unexpected timeout %v", c.EmbedTimeout)
	}
	if len(c.CORSOrigins) != 2 || c.CORSOrigins[1] != "http://b.test" {
		t.Errorf("unexpected origins %v", c.CORSOrigins)
	}
	opts := c.EmbeddingOptions()
	if opts.Backend != "hash" || opts.HashDimension != 64 || opts.CacheSize != 16 {
		t.Errorf("unexpected embedding options %+v", opts)
	}
}

func TestValidate(t *testing.T) {
	cases := map[string]func(c *Config){
		"embed backend":    func(c *Config) { c.EmbedBackend = "word2vec" },
		"cache driver":     func(c *Config) { c.CacheDriver = "mysql" },
		"refiner backend":  func(c *Config) { c.RefinerBackend = "gpt" },
		"artifact backend": func(c *Config) { c.ArtifactBackend = "sdxl" },
		"timeout":          func(c *Config) { c.EmbedTimeout = -time.Second },
		"cache size":       func(c *Config) { c.CacheSize = 0 },
		"weights":          func(c *Config) { c.Weights = alignment.Weights{} },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := FromEnv()
			c.EmbedBackend = "hash"
			mutate(c)
			if err := c.Validate(); !errors.Is(err, alignment.ErrInvalidConfiguration) {
				t.Errorf("expected ErrInvalidConfiguration, got %v", err)
			}
		})
	}
}
