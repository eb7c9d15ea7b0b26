package mcptools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/Atmosphere89/PromptAligner/internal/alignment"
)

// HarmonyTool handles the harmony_index MCP tool.
type HarmonyTool struct {
	weights alignment.Weights
}

// NewHarmonyTool creates a HarmonyTool with default weights.
func NewHarmonyTool(weights alignment.Weights) *HarmonyTool {
	return &HarmonyTool{weights: weights}
}

// Definition returns the MCP tool definition for harmony_index.
func (t *HarmonyTool) Definition() mcp.Tool {
	return mcp.NewTool("harmony_index",
		mcp.WithDescription(
			"Weighted geometric mean of content, aesthetic and structural alignment signals. "+
				"Signals are normally in [0,1]; a zero signal with a positive weight gives 0.",
		),
		mcp.WithNumber("content", mcp.Required(), mcp.Description("Content consistency signal v_c")),
		mcp.WithNumber("aesthetic", mcp.Required(), mcp.Description("Aesthetic alignment signal v_a")),
		mcp.WithNumber("structural", mcp.Required(), mcp.Description("Structural similarity signal v_s")),
		mcp.WithNumber("alpha", mcp.Description("Weight of the content signal (default from config)")),
		mcp.WithNumber("beta", mcp.Description("Weight of the aesthetic signal (default from config)")),
		mcp.WithNumber("gamma", mcp.Description("Weight of the structural signal (default from config)")),
	)
}

// Handle processes the harmony_index tool call.
func (t *HarmonyTool) Handle(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	vc, okC := floatArg(req, "content")
	va, okA := floatArg(req, "aesthetic")
	vs, okS := floatArg(req, "structural")
	if !okC || !okA || !okS {
		return mcp.NewToolResultError("'content', 'aesthetic' and 'structural' are required numbers"), nil
	}

	w := weightsArg(req, t.weights)
	h, err := alignment.HarmonyIndex(vc, va, vs, w)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(map[string]interface{}{
		"harmony_index": h,
		"weights":       w,
	})
}
