// Package mcptools exposes the scoring engine as MCP tools.
//
// Each tool is a struct with its dependencies injected via constructor,
// a Definition() returning the mcp.Tool schema and a Handle() method.
// Engine errors are returned as tool errors carrying the error code, never
// as protocol errors.
package mcptools

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/Atmosphere89/PromptAligner/internal/alignment"
)

// floatArg extracts a number argument (JSON numbers are float64).
func floatArg(req mcp.CallToolRequest, key string) (float64, bool) {
	v, ok := req.GetArguments()[key].(float64)
	return v, ok
}

// weightsArg reads optional alpha/beta/gamma, defaulting each to fallback's value.
func weightsArg(req mcp.CallToolRequest, fallback alignment.Weights) alignment.Weights {
	var o alignment.WeightOverride
	if v, ok := floatArg(req, "alpha"); ok {
		o.Alpha = &v
	}
	if v, ok := floatArg(req, "beta"); ok {
		o.Beta = &v
	}
	if v, ok := floatArg(req, "gamma"); ok {
		o.Gamma = &v
	}
	return o.Apply(fallback)
}

// errorResult renders an engine error with its code.
func errorResult(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(fmt.Sprintf("[%s] %v", alignment.ErrorCode(err), err))
}

// jsonResult renders v as indented JSON text.
func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(b)), nil
}
