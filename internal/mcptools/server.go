package mcptools

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/Atmosphere89/PromptAligner/internal/alignment"
	"github.com/Atmosphere89/PromptAligner/internal/evaluate"
)

const serverInstructions = `PromptAligner scores how well a generated artifact matches a user's intent.
Use harmony_index for three externally measured alignment signals, consistency_deviation
to compare prompt, feedback and caption text, and evaluate_alignment for the full pass.`

// NewServer creates the MCP server with all scoring tools registered.
func NewServer(name, version string, scorer *alignment.Scorer, evaluator *evaluate.Evaluator, weights alignment.Weights) *server.MCPServer {
	s := server.NewMCPServer(
		name,
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions),
	)

	harmonyTool := NewHarmonyTool(weights)
	s.AddTool(harmonyTool.Definition(), harmonyTool.Handle)

	consistencyTool := NewConsistencyTool(scorer)
	s.AddTool(consistencyTool.Definition(), consistencyTool.Handle)

	evaluateTool := NewEvaluateTool(evaluator)
	s.AddTool(evaluateTool.Definition(), evaluateTool.Handle)

	return s
}
