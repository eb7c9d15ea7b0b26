package collab

import "context"

// #region types

// ArtifactRef identifies a generated artifact (a path, URL or description).
type ArtifactRef = string

// ArtifactGenerator produces an artifact from a prompt.
type ArtifactGenerator interface {
	Generate(ctx context.Context, prompt string) (ArtifactRef, error)
}

// Captioner describes an artifact in text.
type Captioner interface {
	Caption(ctx context.Context, artifact ArtifactRef) (string, error)
}

// PromptRefiner rewrites a prompt for clarity and detail.
type PromptRefiner interface {
	Refine(ctx context.Context, prompt string) (string, error)
}

// #endregion types
