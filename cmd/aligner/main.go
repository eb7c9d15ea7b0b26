// Command aligner scores prompts from the command line and replays fixtures.
//
// Usage:
//
//	aligner score -prompt "a red fox" [-feedback "..."] [-caption "..."] [-json]
//	aligner replay -fixture internal/replay/testdata/worked_examples.json
//	aligner version
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/Atmosphere89/PromptAligner/internal/alignment"
	"github.com/Atmosphere89/PromptAligner/internal/app"
	"github.com/Atmosphere89/PromptAligner/internal/config"
	"github.com/Atmosphere89/PromptAligner/internal/evaluate"
	"github.com/Atmosphere89/PromptAligner/internal/logging"
	"github.com/Atmosphere89/PromptAligner/internal/replay"
)

// #region main

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	var exitCode int
	switch os.Args[1] {
	case "score":
		exitCode = runScore(os.Args[2:])
	case "replay":
		exitCode = runReplay(os.Args[2:])
	case "version", "--version", "-v":
		fmt.Printf("aligner v%s\n", app.Version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", os.Args[1])
		printUsage()
		exitCode = 2
	}
	os.Exit(exitCode)
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "usage: aligner score -prompt TEXT [-feedback TEXT] [-caption TEXT] [-json]")
	fmt.Fprintln(os.Stderr, "       aligner replay -fixture path/to/fixture.json [-backend hash]")
	fmt.Fprintln(os.Stderr, "       aligner version")
}

// build loads config, optionally overrides the embedding backend and wires the app.
func build(backend string) (*app.App, error) {
	cfg := config.Load()
	logging.Setup(cfg.LogLevel, os.Stderr)
	if backend != "" {
		cfg.EmbedBackend = backend
	}
	return app.Build(cfg)
}

// #endregion main

// #region score

func runScore(args []string) int {
	fs := flag.NewFlagSet("score", flag.ExitOnError)
	prompt := fs.String("prompt", "", "prompt to evaluate (required)")
	feedback := fs.String("feedback", "", "optional feedback; enables the consistency score")
	caption := fs.String("caption", "", "optional caption of an existing artifact")
	backend := fs.String("backend", "", "embedding backend override (ollama|onnx|grpc|hash)")
	asJSON := fs.Bool("json", false, "print the full evaluation as JSON")
	fs.Parse(args)

	a, err := build(*backend)
	if err != nil {
		fmt.Fprintf(os.Stderr, "setup: %v\n", err)
		return 2
	}
	defer a.Close()

	ev, err := a.Evaluator.Evaluate(context.Background(), evaluate.Request{
		Prompt:   *prompt,
		Feedback: *feedback,
		Caption:  *caption,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "[%s] %v\n", alignment.ErrorCode(err), err)
		return 1
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(ev); err != nil {
			fmt.Fprintf(os.Stderr, "encode: %v\n", err)
			return 1
		}
		return 0
	}

	fmt.Println(ev.Summary)
	fmt.Printf("Refined prompt: %s\n", ev.RefinedPrompt)
	if ev.Consistency != nil {
		s := ev.Consistency.Similarities
		fmt.Printf("  cos(prompt,feedback)=%.3f cos(prompt,caption)=%.3f cos(feedback,caption)=%.3f\n",
			s.PromptFeedback, s.PromptCaption, s.FeedbackCaption)
	}
	return 0
}

// #endregion score

// #region replay

func runReplay(args []string) int {
	fs := flag.NewFlagSet("replay", flag.ExitOnError)
	fixturePath := fs.String("fixture", "", "path to fixture JSON (required)")
	backend := fs.String("backend", "", "embedding backend override (ollama|onnx|grpc|hash)")
	fs.Parse(args)

	if *fixturePath == "" {
		printUsage()
		return 2
	}

	fixture, err := replay.LoadFixture(*fixturePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load fixture: %v\n", err)
		return 2
	}

	a, err := build(*backend)
	if err != nil {
		fmt.Fprintf(os.Stderr, "setup: %v\n", err)
		return 2
	}
	defer a.Close()

	fmt.Printf("Replaying %d cases from %s\n", len(fixture.Cases), *fixturePath)
	if fixture.Description != "" {
		fmt.Printf("  %s\n", fixture.Description)
	}

	results := replay.Replay(context.Background(), a.Evaluator, fixture.ToCases())
	for _, r := range results {
		status := "PASS"
		if !r.Passed {
			status = "FAIL"
		}
		line := fmt.Sprintf("  [%s] %s", status, r.CaseID)
		if r.Evaluation != nil {
			line += fmt.Sprintf("  harmony=%.4f", r.Evaluation.HarmonyIndex)
			if r.Evaluation.Consistency != nil {
				line += fmt.Sprintf(" cds=%.4f", r.Evaluation.Consistency.Score)
			}
		} else if r.ErrorCode != "" {
			line += "  error=" + r.ErrorCode
		}
		if r.Reason != "" {
			line += "  (" + r.Reason + ")"
		}
		fmt.Println(line)
	}

	sum := replay.Summarize(results)
	fmt.Printf("\n%d/%d passed", sum.Passed, sum.Total)
	if !math.IsNaN(sum.MeanHarmonyError) {
		fmt.Printf("  mean |Δharmony|=%.2e", sum.MeanHarmonyError)
	}
	if !math.IsNaN(sum.MeanCDSError) {
		fmt.Printf("  mean |Δcds|=%.2e", sum.MeanCDSError)
	}
	fmt.Println()

	if sum.Failed > 0 {
		return 1
	}
	return 0
}

// #endregion replay
