package replay

import (
	"context"
	"math"
	"testing"

	"github.com/Atmosphere89/PromptAligner/internal/alignment"
	"github.com/Atmosphere89/PromptAligner/internal/embedding"
	"github.com/Atmosphere89/PromptAligner/internal/evaluate"
)

// helper: evaluator over the deterministic hash embedder.
func hashEvaluator() *evaluate.Evaluator {
	scorer := alignment.NewScorer(embedding.NewHashEmbedder(128), alignment.DefaultScorerConfig())
	return evaluate.NewEvaluator(scorer, nil, nil, nil, evaluate.DefaultConfig())
}

func ptr(v float64) *float64 { return &v }

// 1. Bundled fixture passes end to end.
func TestReplay_WorkedExamplesFixture(t *testing.T) {
	f, err := LoadFixture("testdata/worked_examples.json")
	if err != nil {
		t.Fatalf("LoadFixture: %v", err)
	}
	if len(f.Cases) == 0 {
		t.Fatal("expected fixture cases")
	}

	results := Replay(context.Background(), hashEvaluator(), f.ToCases())
	for _, r := range results {
		if !r.Passed {
			t.Errorf("case %s failed: %s", r.CaseID, r.Reason)
		}
	}
	s := Summarize(results)
	if s.Total != len(f.Cases) || s.Failed != 0 {
		t.Errorf("unexpected summary %+v", s)
	}
}

// 2. A wrong expectation fails with a reason.
func TestReplay_HarmonyMismatch(t *testing.T) {
	cases := []Case{{
		ID:          "wrong",
		Request:     evaluate.Request{Prompt: "p"},
		WantHarmony: ptr(0.5),
		Tolerance:   DefaultTolerance,
	}}
	r := Replay(context.Background(), hashEvaluator(), cases)[0]
	if r.Passed {
		t.Fatal("expected failure")
	}
	if r.Reason == "" {
		t.Error("expected a reason")
	}
	if math.Abs(r.HarmonyError-(math.Cbrt(0.504)-0.5)) > 1e-9 {
		t.Errorf("unexpected harmony error %v", r.HarmonyError)
	}
}

// 3. Expected error that does not occur is a failure.
func TestReplay_MissingExpectedError(t *testing.T) {
	cases := []Case{{ID: "no-error", Request: evaluate.Request{Prompt: "p"}, WantError: alignment.CodeInvalidInput}}
	r := Replay(context.Background(), hashEvaluator(), cases)[0]
	if r.Passed {
		t.Error("expected failure when error does not occur")
	}
}

// 4. CDS expected but no feedback given.
func TestReplay_CDSWithoutFeedback(t *testing.T) {
	cases := []Case{{ID: "no-feedback", Request: evaluate.Request{Prompt: "p"}, WantCDS: ptr(0), Tolerance: 1}}
	r := Replay(context.Background(), hashEvaluator(), cases)[0]
	if r.Passed {
		t.Error("expected failure without a consistency score")
	}
}

// 5. Summary means use only checked cases.
func TestSummarize(t *testing.T) {
	results := []Result{
		{Passed: true, HarmonyError: 0.1, CDSError: math.NaN()},
		{Passed: false, HarmonyError: 0.3, CDSError: 0.2},
		{Passed: true, HarmonyError: math.NaN(), CDSError: math.NaN()},
	}
	s := Summarize(results)
	if s.Total != 3 || s.Passed != 2 || s.Failed != 1 {
		t.Errorf("unexpected counts %+v", s)
	}
	if math.Abs(s.MeanHarmonyError-0.2) > 1e-12 {
		t.Errorf("expected mean harmony error 0.2, got %v", s.MeanHarmonyError)
	}
	if math.Abs(s.MeanCDSError-0.2) > 1e-12 {
		t.Errorf("expected mean cds error 0.2, got %v", s.MeanCDSError)
	}

	empty := Summarize(nil)
	if !math.IsNaN(empty.MeanHarmonyError) || !math.IsNaN(empty.MeanCDSError) {
		t.Errorf("expected NaN means for no results, got %+v", empty)
	}
}
