package mcptools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/Atmosphere89/PromptAligner/internal/alignment"
)

// ConsistencyTool handles the consistency_deviation MCP tool.
type ConsistencyTool struct {
	scorer *alignment.Scorer
}

// NewConsistencyTool creates a ConsistencyTool.
func NewConsistencyTool(scorer *alignment.Scorer) *ConsistencyTool {
	return &ConsistencyTool{scorer: scorer}
}

// Definition returns the MCP tool definition for consistency_deviation.
func (t *ConsistencyTool) Definition() mcp.Tool {
	return mcp.NewTool("consistency_deviation",
		mcp.WithDescription(
			"Consistency Deviation Score in [0,1]: 1 minus the mean pairwise cosine similarity of "+
				"prompt, feedback and caption embeddings. Higher means a larger mismatch.",
		),
		mcp.WithString("prompt", mcp.Required(), mcp.Description("The original user prompt")),
		mcp.WithString("feedback", mcp.Required(), mcp.Description("User feedback or correction")),
		mcp.WithString("caption", mcp.Required(), mcp.Description("Description of the generated artifact")),
	)
}

// Handle processes the consistency_deviation tool call.
func (t *ConsistencyTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	triple := alignment.TextTriple{
		Prompt:   req.GetString("prompt", ""),
		Feedback: req.GetString("feedback", ""),
		Caption:  req.GetString("caption", ""),
	}
	res, err := t.scorer.Score(ctx, triple)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(res)
}
