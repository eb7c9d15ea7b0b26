package replay

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/Atmosphere89/PromptAligner/internal/alignment"
	"github.com/Atmosphere89/PromptAligner/internal/evaluate"
)

// DefaultTolerance is the absolute error allowed when a case sets none.
const DefaultTolerance = 1e-3

// #region types

// Case is one request with its expectations.
type Case struct {
	ID          string
	Request     evaluate.Request
	WantHarmony *float64
	WantCDS     *float64
	WantError   string
	Tolerance   float64
}

// Result captures the outcome of replaying one case.
type Result struct {
	CaseID string
	Passed bool
	Reason string

	Evaluation *evaluate.Evaluation // nil when the request failed
	ErrorCode  string

	HarmonyError float64 // |got - want|, NaN when unchecked
	CDSError     float64 // |got - want|, NaN when unchecked
}

// Summary provides aggregate stats from a replay run.
type Summary struct {
	Total  int
	Passed int
	Failed int

	MeanHarmonyError float64 // NaN when no case checked harmony
	MeanCDSError     float64 // NaN when no case checked CDS
}

// #endregion types

// #region replay

// Replay runs every case through ev in order and compares against expectations.
func Replay(ctx context.Context, ev *evaluate.Evaluator, cases []Case) []Result {
	results := make([]Result, 0, len(cases))
	for _, c := range cases {
		results = append(results, replayOne(ctx, ev, c))
	}
	return results
}

func replayOne(ctx context.Context, ev *evaluate.Evaluator, c Case) Result {
	r := Result{CaseID: c.ID, HarmonyError: math.NaN(), CDSError: math.NaN()}

	got, err := ev.Evaluate(ctx, c.Request)
	r.ErrorCode = alignment.ErrorCode(err)

	// 1. Error expectations
	if c.WantError != "" {
		if r.ErrorCode != c.WantError {
			r.Reason = fmt.Sprintf("expected error %s, got %q", c.WantError, r.ErrorCode)
			return r
		}
		r.Passed = true
		return r
	}
	if err != nil {
		r.Reason = fmt.Sprintf("unexpected error: %v", err)
		return r
	}
	r.Evaluation = &got

	// 2. Harmony
	if c.WantHarmony != nil {
		r.HarmonyError = math.Abs(got.HarmonyIndex - *c.WantHarmony)
		if r.HarmonyError > c.Tolerance {
			r.Reason = fmt.Sprintf("harmony %.6f, want %.6f", got.HarmonyIndex, *c.WantHarmony)
			return r
		}
	}

	// 3. CDS
	if c.WantCDS != nil {
		if got.Consistency == nil {
			r.Reason = "expected a consistency score, got none"
			return r
		}
		r.CDSError = math.Abs(got.Consistency.Score - *c.WantCDS)
		if r.CDSError > c.Tolerance {
			r.Reason = fmt.Sprintf("cds %.6f, want %.6f", got.Consistency.Score, *c.WantCDS)
			return r
		}
	}

	r.Passed = true
	return r
}

// #endregion replay

// #region summarize

// Summarize aggregates replay results.
func Summarize(results []Result) Summary {
	s := Summary{Total: len(results), MeanHarmonyError: math.NaN(), MeanCDSError: math.NaN()}
	var hErrs, cErrs []float64
	for _, r := range results {
		if r.Passed {
			s.Passed++
		} else {
			s.Failed++
		}
		if !math.IsNaN(r.HarmonyError) {
			hErrs = append(hErrs, r.HarmonyError)
		}
		if !math.IsNaN(r.CDSError) {
			cErrs = append(cErrs, r.CDSError)
		}
	}
	if len(hErrs) > 0 {
		s.MeanHarmonyError = stat.Mean(hErrs, nil)
	}
	if len(cErrs) > 0 {
		s.MeanCDSError = stat.Mean(cErrs, nil)
	}
	return s
}

// #endregion summarize
