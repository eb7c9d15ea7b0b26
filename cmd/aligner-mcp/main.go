// Command aligner-mcp serves the scoring tools over MCP stdio.
//
// Logs go to stderr so they never interleave with protocol frames on stdout.
package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/Atmosphere89/PromptAligner/internal/app"
	"github.com/Atmosphere89/PromptAligner/internal/config"
	"github.com/Atmosphere89/PromptAligner/internal/logging"
	"github.com/Atmosphere89/PromptAligner/internal/mcptools"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()
	logging.Setup(cfg.LogLevel, os.Stderr)

	a, err := app.Build(cfg)
	if err != nil {
		return fmt.Errorf("building aligner: %w", err)
	}
	defer a.Close()

	s := mcptools.NewServer(cfg.AppName, app.Version, a.Scorer, a.Evaluator, cfg.Weights)
	if err := server.ServeStdio(s); err != nil {
		return fmt.Errorf("serving stdio: %w", err)
	}
	return nil
}
