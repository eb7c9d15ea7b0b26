package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/Atmosphere89/PromptAligner/internal/app"
	"github.com/Atmosphere89/PromptAligner/internal/config"
	"github.com/Atmosphere89/PromptAligner/internal/httpapi"
	"github.com/Atmosphere89/PromptAligner/internal/logging"
)

func main() {
	cfg := config.Load()
	logging.Setup(cfg.LogLevel, os.Stderr)

	a, err := app.Build(cfg)
	if err != nil {
		log.Fatalf("failed to start aligner: %v", err)
	}
	defer a.Close()

	handler := httpapi.NewAlignmentHandler(a.Scorer, a.Evaluator, cfg.Weights)
	server := httpapi.NewApp(httpapi.ServerConfig{
		AppName:     cfg.AppName,
		Version:     app.Version,
		ModelID:     a.Backend.ModelID(),
		CORSOrigins: cfg.CORSOrigins,
		AccessLog:   cfg.LogLevel == "debug",
	}, handler)

	slog.Info("fiber listening", "port", cfg.Port)
	if err := server.Listen(":" + cfg.Port); err != nil {
		slog.Error("server failed", "error", err)
		a.Close()
		os.Exit(1)
	}
}
