package httpapi

import (
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"github.com/Atmosphere89/PromptAligner/internal/alignment"
	"github.com/Atmosphere89/PromptAligner/internal/evaluate"
)

// AlignmentHandler serves the scoring endpoints.
type AlignmentHandler struct {
	scorer    *alignment.Scorer
	evaluator *evaluate.Evaluator
	weights   alignment.Weights
}

// NewAlignmentHandler creates a new alignment handler. weights fill any
// coefficient a harmony request leaves out.
func NewAlignmentHandler(scorer *alignment.Scorer, evaluator *evaluate.Evaluator, weights alignment.Weights) *AlignmentHandler {
	return &AlignmentHandler{scorer: scorer, evaluator: evaluator, weights: weights}
}

// Register sets up scoring routes.
func (h *AlignmentHandler) Register(router fiber.Router) {
	router.Post("/harmony", h.Harmony)
	router.Post("/consistency", h.Consistency)
	router.Post("/evaluate", h.Evaluate)
}

// Harmony computes the Harmony Index of three signals.
func (h *AlignmentHandler) Harmony(c fiber.Ctx) error {
	var body struct {
		Content    *float64                  `json:"content"`
		Aesthetic  *float64                  `json:"aesthetic"`
		Structural *float64                  `json:"structural"`
		Weights    *alignment.WeightOverride `json:"weights"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body", "code": alignment.CodeInvalidInput})
	}
	if body.Content == nil || body.Aesthetic == nil || body.Structural == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "content, aesthetic and structural are required",
			"code":  alignment.CodeInvalidInput,
		})
	}

	weights := body.Weights.Apply(h.weights)
	signals := alignment.AlignmentSignals{Content: *body.Content, Aesthetic: *body.Aesthetic, Structural: *body.Structural}
	harmony, err := alignment.ComputeHarmonyIndex(signals, weights)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"harmony_index": harmony,
		"signals":       signals,
		"weights":       weights,
	})
}

// Consistency computes the Consistency Deviation Score of three texts.
func (h *AlignmentHandler) Consistency(c fiber.Ctx) error {
	var body alignment.TextTriple
	if err := c.Bind().JSON(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body", "code": alignment.CodeInvalidInput})
	}
	res, err := h.scorer.Score(c.Context(), body)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}

// Evaluate runs the full evaluation pipeline.
func (h *AlignmentHandler) Evaluate(c fiber.Ctx) error {
	var body evaluate.Request
	if err := c.Bind().JSON(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body", "code": alignment.CodeInvalidInput})
	}
	ev, err := h.evaluator.Evaluate(c.Context(), body)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(ev)
}

// writeError maps engine sentinels to HTTP status codes.
func writeError(c fiber.Ctx, err error) error {
	code := alignment.ErrorCode(err)
	status := fiber.StatusInternalServerError
	switch code {
	case alignment.CodeInvalidInput, alignment.CodeInvalidConfiguration:
		status = fiber.StatusBadRequest
	case alignment.CodeEmbeddingUnavailable:
		status = fiber.StatusServiceUnavailable
	}
	if status >= fiber.StatusInternalServerError {
		slog.Error("request failed", "path", c.Path(), "code", code, "error", err)
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error(), "code": code})
}
