package evaluate

import "github.com/Atmosphere89/PromptAligner/internal/alignment"

// #region config

// Config holds the evaluator's defaults.
type Config struct {
	Weights alignment.Weights
	// Signals used when a request carries none. The signal producers are
	// external; these stand in for them.
	PlaceholderSignals alignment.AlignmentSignals
}

// DefaultConfig returns equal weights and placeholder signals 0.8/0.7/0.9.
func DefaultConfig() Config {
	return Config{
		Weights:            alignment.DefaultWeights(),
		PlaceholderSignals: alignment.AlignmentSignals{Content: 0.8, Aesthetic: 0.7, Structural: 0.9},
	}
}

// #endregion config

// #region request

// Request is one evaluation: a prompt, optional feedback and optional overrides.
type Request struct {
	Prompt   string                      `json:"prompt"`
	Feedback string                      `json:"feedback,omitempty"`
	Caption  string                      `json:"caption,omitempty"` // skips generation and captioning
	Signals  *alignment.AlignmentSignals `json:"signals,omitempty"` // nil = placeholder signals
	Weights  *alignment.WeightOverride   `json:"weights,omitempty"` // nil fields = configured weights
}

// #endregion request

// #region evaluation

// Evaluation is the outcome of one request.
type Evaluation struct {
	ID            string                       `json:"id"`
	HarmonyIndex  float64                      `json:"harmony_index"`
	Consistency   *alignment.ConsistencyResult `json:"consistency,omitempty"` // nil without feedback
	Artifact      string                       `json:"artifact,omitempty"`
	Caption       string                       `json:"caption,omitempty"`
	RefinedPrompt string                       `json:"refined_prompt"`
	Summary       string                       `json:"summary"`
}

// #endregion evaluation
