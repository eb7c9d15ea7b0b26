package alignment

import "errors"

// #region errors

// Sentinel errors returned by the scoring engine. Callers match them with errors.Is.
var (
	// ErrInvalidInput marks a malformed signal or text (negative, NaN, empty).
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidConfiguration marks weights that cannot produce a mean.
	ErrInvalidConfiguration = errors.New("invalid configuration")
	// ErrEmbeddingUnavailable marks a provider that failed, timed out or returned unusable vectors.
	ErrEmbeddingUnavailable = errors.New("embedding unavailable")
)

// #endregion errors

// #region error-codes

// Stable machine-readable codes for the sentinels.
const (
	CodeInvalidInput         = "invalid_input"
	CodeInvalidConfiguration = "invalid_configuration"
	CodeEmbeddingUnavailable = "embedding_unavailable"
	CodeInternal             = "internal"
)

// ErrorCode maps err to its sentinel's code. nil maps to "".
func ErrorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidInput):
		return CodeInvalidInput
	case errors.Is(err, ErrInvalidConfiguration):
		return CodeInvalidConfiguration
	case errors.Is(err, ErrEmbeddingUnavailable):
		return CodeEmbeddingUnavailable
	default:
		return CodeInternal
	}
}

// #endregion error-codes
