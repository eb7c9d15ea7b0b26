package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/Atmosphere89/PromptAligner/internal/alignment"
	"github.com/Atmosphere89/PromptAligner/internal/embedding"
	"github.com/Atmosphere89/PromptAligner/internal/ollama"
)

// Collaborator backends.
const (
	BackendPlaceholder = "placeholder"
	BackendOllama      = "ollama"
	BackendGRPC        = "grpc"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Logging
	LogLevel string

	// Server
	Port        string
	AppName     string
	CORSOrigins []string

	// Embedding
	EmbedBackend  string // ollama | onnx | grpc | hash
	OllamaEmbed   ollama.Endpoint
	Onnx          embedding.OnnxConfig
	EmbedGRPCAddr string
	HashDimension int
	CacheDriver   string // sqlite | postgres | ""
	CacheDSN      string
	CacheSize     int
	EmbedTimeout  time.Duration

	// Collaborators
	RefinerBackend   string // placeholder | ollama
	ArtifactBackend  string // placeholder | grpc
	ArtifactGRPCAddr string
	OllamaChat       ollama.Endpoint

	// Scoring
	Weights alignment.Weights
}

// Load reads an optional .env file, then the environment.
func Load() *Config {
	_ = godotenv.Load() // silently ignore if .env doesn't exist
	return FromEnv()
}

// FromEnv builds a Config from the current environment with defaults.
func FromEnv() *Config {
	onnx := embedding.DefaultOnnxConfig()
	return &Config{
		LogLevel: envOr("LOG_LEVEL", "info"),

		Port:        envOr("PORT", "3001"),
		AppName:     envOr("APP_NAME", "PromptAligner"),
		CORSOrigins: splitList(envOr("CORS_ORIGINS", "*")),

		EmbedBackend: envOr("EMBED_BACKEND", embedding.BackendOllama),
		OllamaEmbed: ollama.Endpoint{
			BaseURL: envOr("OLLAMA_EMBED_URL", envOr("OLLAMA_BASE_URL", "http://localhost:11434")),
			Model:   envOr("OLLAMA_EMBED_MODEL", "all-minilm"),
			Token:   os.Getenv("OLLAMA_EMBED_TOKEN"),
		},
		Onnx: embedding.OnnxConfig{
			RuntimeLib:    os.Getenv("ONNX_RUNTIME_LIB"),
			ModelPath:     envOr("ONNX_MODEL_PATH", onnx.ModelPath),
			TokenizerPath: envOr("ONNX_TOKENIZER_PATH", onnx.TokenizerPath),
			MaxSeqLen:     envInt("ONNX_MAX_SEQ_LEN", onnx.MaxSeqLen),
			Dimension:     envInt("ONNX_EMBED_DIM", onnx.Dimension),
		},
		EmbedGRPCAddr: envOr("EMBED_GRPC_ADDR", "localhost:50051"),
		HashDimension: envInt("HASH_DIMENSION", embedding.DefaultHashDimension),
		CacheDriver:   os.Getenv("EMBED_CACHE_DRIVER"),
		CacheDSN:      envOr("EMBED_CACHE_DSN", "embedding_cache.db"),
		CacheSize:     envInt("EMBED_CACHE_SIZE", embedding.DefaultMemoryCacheSize),
		EmbedTimeout:  time.Duration(envInt("EMBED_TIMEOUT_MS", 10000)) * time.Millisecond,

		RefinerBackend:   envOr("REFINER_BACKEND", BackendPlaceholder),
		ArtifactBackend:  envOr("ARTIFACT_BACKEND", BackendPlaceholder),
		ArtifactGRPCAddr: envOr("ARTIFACT_GRPC_ADDR", envOr("EMBED_GRPC_ADDR", "localhost:50051")),
		OllamaChat: ollama.Endpoint{
			BaseURL: envOr("OLLAMA_CHAT_URL", envOr("OLLAMA_BASE_URL", "http://localhost:11434")),
			Model:   envOr("OLLAMA_CHAT_MODEL", "llama3.2"),
			Token:   os.Getenv("OLLAMA_CHAT_TOKEN"),
		},

		Weights: alignment.Weights{
			Alpha: envFloat("HARMONY_ALPHA", 1),
			Beta:  envFloat("HARMONY_BETA", 1),
			Gamma: envFloat("HARMONY_GAMMA", 1),
		},
	}
}

// Validate checks backend names and weights.
func (c *Config) Validate() error {
	switch c.EmbedBackend {
	case embedding.BackendOllama, embedding.BackendOnnx, embedding.BackendGRPC, embedding.BackendHash:
	default:
		return fmt.Errorf("%w: EMBED_BACKEND %q", alignment.ErrInvalidConfiguration, c.EmbedBackend)
	}
	switch c.CacheDriver {
	case "", "sqlite", "postgres":
	default:
		return fmt.Errorf("%w: EMBED_CACHE_DRIVER %q", alignment.ErrInvalidConfiguration, c.CacheDriver)
	}
	switch c.RefinerBackend {
	case BackendPlaceholder, BackendOllama:
	default:
		return fmt.Errorf("%w: REFINER_BACKEND %q", alignment.ErrInvalidConfiguration, c.RefinerBackend)
	}
	switch c.ArtifactBackend {
	case BackendPlaceholder, BackendGRPC:
	default:
		return fmt.Errorf("%w: ARTIFACT_BACKEND %q", alignment.ErrInvalidConfiguration, c.ArtifactBackend)
	}
	if c.CacheSize <= 0 {
		return fmt.Errorf("%w: EMBED_CACHE_SIZE must be positive", alignment.ErrInvalidConfiguration)
	}
	if c.EmbedTimeout < 0 {
		return fmt.Errorf("%w: EMBED_TIMEOUT_MS must not be negative", alignment.ErrInvalidConfiguration)
	}
	return c.Weights.Validate()
}

// EmbeddingOptions returns the options for embedding.New.
func (c *Config) EmbeddingOptions() embedding.Options {
	return embedding.Options{
		Backend:       c.EmbedBackend,
		Ollama:        c.OllamaEmbed,
		Onnx:          c.Onnx,
		GRPCAddr:      c.EmbedGRPCAddr,
		HashDimension: c.HashDimension,
		CacheDriver:   c.CacheDriver,
		CacheDSN:      c.CacheDSN,
		CacheSize:     c.CacheSize,
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
