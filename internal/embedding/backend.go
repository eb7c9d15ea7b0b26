package embedding

import (
	"context"

	"github.com/Atmosphere89/PromptAligner/internal/ollama"
)

// #region backend-interface

// Backend is an embedding provider with a stable model identifier and a
// process lifetime. It satisfies alignment.Embedder.
type Backend interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	ModelID() string
	Close() error
}

// #endregion backend-interface

// #region ollama-backend

// OllamaEmbedder embeds text through an Ollama /api/embed endpoint.
type OllamaEmbedder struct {
	client *ollama.Client
}

// NewOllamaEmbedder wraps an Ollama client.
func NewOllamaEmbedder(client *ollama.Client) *OllamaEmbedder {
	return &OllamaEmbedder{client: client}
}

// Embed returns the model's embedding for text.
func (o *OllamaEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return o.client.Embed(ctx, text)
}

// ModelID returns "ollama:<model>".
func (o *OllamaEmbedder) ModelID() string {
	return "ollama:" + o.client.Model()
}

// Close is a no-op; the HTTP client holds no per-backend resources.
func (o *OllamaEmbedder) Close() error {
	return nil
}

// #endregion ollama-backend
