package embedding

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Atmosphere89/PromptAligner/internal/codec"
	"github.com/Atmosphere89/PromptAligner/internal/ollama"
)

// Backend names accepted by New.
const (
	BackendOllama = "ollama"
	BackendOnnx   = "onnx"
	BackendGRPC   = "grpc"
	BackendHash   = "hash"
)

// Options selects and configures an embedding backend.
type Options struct {
	Backend       string
	Ollama        ollama.Endpoint
	Onnx          OnnxConfig
	GRPCAddr      string
	HashDimension int

	CacheDriver string // "sqlite", "postgres" or "" for memory only
	CacheDSN    string
	CacheSize   int // in-memory LRU entries; <= 0 means DefaultMemoryCacheSize
}

// New builds the configured backend wrapped in a CachedEmbedder. The result
// is meant to be created once per process and shared.
func New(opts Options) (Backend, error) {
	var (
		base Backend
		err  error
	)
	switch opts.Backend {
	case BackendOllama:
		base = NewOllamaEmbedder(ollama.NewClient(opts.Ollama, &http.Client{}))
	case BackendOnnx:
		base, err = NewOnnxEmbedder(opts.Onnx)
	case BackendGRPC:
		base, err = codec.NewClient(opts.GRPCAddr)
	case BackendHash:
		base = NewHashEmbedder(opts.HashDimension)
	default:
		return nil, fmt.Errorf("unknown embedding backend %q", opts.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("init %s backend: %w", opts.Backend, err)
	}

	var store *Store
	if opts.CacheDriver != "" {
		store, err = OpenStore(opts.CacheDriver, opts.CacheDSN)
		if err != nil {
			base.Close()
			return nil, fmt.Errorf("open embedding cache: %w", err)
		}
	}

	slog.Info("embedding backend ready",
		"backend", opts.Backend,
		"model", base.ModelID(),
		"cache", opts.CacheDriver,
		"cache_size", opts.CacheSize,
	)
	return NewCachedEmbedder(base, store, opts.CacheSize), nil
}
