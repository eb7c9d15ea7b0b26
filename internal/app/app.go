package app

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/Atmosphere89/PromptAligner/internal/alignment"
	"github.com/Atmosphere89/PromptAligner/internal/codec"
	"github.com/Atmosphere89/PromptAligner/internal/collab"
	"github.com/Atmosphere89/PromptAligner/internal/config"
	"github.com/Atmosphere89/PromptAligner/internal/embedding"
	"github.com/Atmosphere89/PromptAligner/internal/evaluate"
	"github.com/Atmosphere89/PromptAligner/internal/ollama"
)

// Version is reported by the health endpoint, the MCP handshake and the CLI.
const Version = "0.1.0"

// App bundles the process-wide components every binary needs. The embedding
// backend is loaded once here and shared read-only.
type App struct {
	Config    *config.Config
	Backend   embedding.Backend
	Scorer    *alignment.Scorer
	Evaluator *evaluate.Evaluator

	closers []io.Closer
}

// Build validates cfg and wires the scorer, collaborators and evaluator.
func Build(cfg *config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	backend, err := embedding.New(cfg.EmbeddingOptions())
	if err != nil {
		return nil, err
	}
	a := &App{Config: cfg, Backend: backend, closers: []io.Closer{backend}}

	scorer := alignment.NewScorer(backend, alignment.ScorerConfig{EmbedTimeout: cfg.EmbedTimeout})

	var refiner collab.PromptRefiner = collab.PlaceholderRefiner{}
	if cfg.RefinerBackend == config.BackendOllama {
		refiner = collab.NewOllamaRefiner(ollama.NewClient(cfg.OllamaChat, nil))
	}

	var (
		generator collab.ArtifactGenerator = collab.PlaceholderGenerator{}
		captioner collab.Captioner         = collab.PlaceholderCaptioner{}
	)
	if cfg.ArtifactBackend == config.BackendGRPC {
		remote, err := codec.NewClient(cfg.ArtifactGRPCAddr)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("artifact service: %w", err)
		}
		a.closers = append(a.closers, remote)
		generator, captioner = remote, remote
	}

	a.Scorer = scorer
	a.Evaluator = evaluate.NewEvaluator(scorer, generator, captioner, refiner, evaluate.Config{
		Weights:            cfg.Weights,
		PlaceholderSignals: evaluate.DefaultConfig().PlaceholderSignals,
	})

	slog.Info("aligner ready",
		"embed_backend", cfg.EmbedBackend,
		"model", backend.ModelID(),
		"refiner", cfg.RefinerBackend,
		"artifacts", cfg.ArtifactBackend,
		"embed_timeout", cfg.EmbedTimeout,
	)
	return a, nil
}

// Close releases every component in reverse order of creation.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
