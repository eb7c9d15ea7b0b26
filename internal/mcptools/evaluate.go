package mcptools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/Atmosphere89/PromptAligner/internal/alignment"
	"github.com/Atmosphere89/PromptAligner/internal/evaluate"
)

// EvaluateTool handles the evaluate_alignment MCP tool.
type EvaluateTool struct {
	evaluator *evaluate.Evaluator
}

// NewEvaluateTool creates an EvaluateTool.
func NewEvaluateTool(evaluator *evaluate.Evaluator) *EvaluateTool {
	return &EvaluateTool{evaluator: evaluator}
}

// Definition returns the MCP tool definition for evaluate_alignment.
func (t *EvaluateTool) Definition() mcp.Tool {
	return mcp.NewTool("evaluate_alignment",
		mcp.WithDescription(
			"Evaluate a prompt: Harmony Index, Consistency Deviation Score when feedback is given, "+
				"and a refined prompt.",
		),
		mcp.WithString("prompt", mcp.Required(), mcp.Description("Describe the image you want to generate")),
		mcp.WithString("feedback", mcp.Description("Optional feedback or improvement request")),
		mcp.WithString("caption", mcp.Description("Optional description of an existing artifact; skips generation")),
		mcp.WithNumber("content", mcp.Description("Content signal override (requires all three signals)")),
		mcp.WithNumber("aesthetic", mcp.Description("Aesthetic signal override")),
		mcp.WithNumber("structural", mcp.Description("Structural signal override")),
	)
}

// Handle processes the evaluate_alignment tool call.
func (t *EvaluateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	r := evaluate.Request{
		Prompt:   req.GetString("prompt", ""),
		Feedback: req.GetString("feedback", ""),
		Caption:  req.GetString("caption", ""),
	}

	vc, okC := floatArg(req, "content")
	va, okA := floatArg(req, "aesthetic")
	vs, okS := floatArg(req, "structural")
	switch {
	case okC && okA && okS:
		r.Signals = &alignment.AlignmentSignals{Content: vc, Aesthetic: va, Structural: vs}
	case okC || okA || okS:
		return mcp.NewToolResultError("signal overrides need all of 'content', 'aesthetic' and 'structural'"), nil
	}

	ev, err := t.evaluator.Evaluate(ctx, r)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(ev)
}
