package collab

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// #region ollama-refiner

const refineSystemPrompt = `You rewrite prompts for an image generation model.
Keep the user's intent. Make subject, style, composition and lighting explicit.
Reply with the rewritten prompt only, on one line, without quotes or commentary.`

// Chatter is the chat surface OllamaRefiner needs; *ollama.Client satisfies it.
type Chatter interface {
	Chat(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// OllamaRefiner asks a chat model to rewrite the prompt.
type OllamaRefiner struct {
	chat Chatter
}

// NewOllamaRefiner creates a refiner over a chat client.
func NewOllamaRefiner(chat Chatter) *OllamaRefiner {
	return &OllamaRefiner{chat: chat}
}

// Refine returns the model's rewrite with surrounding quotes and blank lines removed.
func (r *OllamaRefiner) Refine(ctx context.Context, prompt string) (string, error) {
	out, err := r.chat.Chat(ctx, refineSystemPrompt, prompt)
	if err != nil {
		return "", fmt.Errorf("refine prompt: %w", err)
	}
	refined := cleanReply(out)
	if refined == "" {
		return "", errors.New("refine prompt: empty reply")
	}
	return refined, nil
}

// cleanReply keeps the first non-empty line and strips wrapping quotes.
func cleanReply(s string) string {
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		return strings.Trim(line, "\"'`")
	}
	return ""
}

// #endregion ollama-refiner
