package collab

import "context"

// #region placeholders

// PlaceholderCaption is returned by PlaceholderCaptioner for every artifact.
const PlaceholderCaption = "Placeholder image description"

// RefinementSuffix is appended by PlaceholderRefiner.
const RefinementSuffix = " (refined for better structure and detail)"

// PlaceholderGenerator stands in for an image model.
type PlaceholderGenerator struct{}

// Generate returns a textual stand-in for the artifact.
func (PlaceholderGenerator) Generate(_ context.Context, prompt string) (ArtifactRef, error) {
	return "Generated image based on prompt: " + prompt, nil
}

// PlaceholderCaptioner stands in for an image captioning model.
type PlaceholderCaptioner struct{}

// Caption returns PlaceholderCaption.
func (PlaceholderCaptioner) Caption(_ context.Context, _ ArtifactRef) (string, error) {
	return PlaceholderCaption, nil
}

// PlaceholderRefiner stands in for an LLM rewriter.
type PlaceholderRefiner struct{}

// Refine appends RefinementSuffix.
func (PlaceholderRefiner) Refine(_ context.Context, prompt string) (string, error) {
	return prompt + RefinementSuffix, nil
}

// #endregion placeholders
