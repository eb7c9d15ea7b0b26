package evaluate

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/Atmosphere89/PromptAligner/internal/alignment"
	"github.com/Atmosphere89/PromptAligner/internal/collab"
)

// #region evaluator

// Evaluator runs the full request: harmony index, optional consistency
// deviation and prompt refinement.
type Evaluator struct {
	scorer    *alignment.Scorer
	generator collab.ArtifactGenerator
	captioner collab.Captioner
	refiner   collab.PromptRefiner
	config    Config
}

// NewEvaluator creates an Evaluator. nil collaborators fall back to placeholders.
func NewEvaluator(scorer *alignment.Scorer, generator collab.ArtifactGenerator, captioner collab.Captioner, refiner collab.PromptRefiner, config Config) *Evaluator {
	if generator == nil {
		generator = collab.PlaceholderGenerator{}
	}
	if captioner == nil {
		captioner = collab.PlaceholderCaptioner{}
	}
	if refiner == nil {
		refiner = collab.PlaceholderRefiner{}
	}
	return &Evaluator{
		scorer:    scorer,
		generator: generator,
		captioner: captioner,
		refiner:   refiner,
		config:    config,
	}
}

// #endregion evaluator

// #region evaluate

// Evaluate scores req. The harmony index, the consistency branch and the
// refinement run concurrently; any failure fails the whole request.
func (e *Evaluator) Evaluate(ctx context.Context, req Request) (Evaluation, error) {
	if alignment.IsBlank(req.Prompt) {
		return Evaluation{}, fmt.Errorf("%w: prompt is empty", alignment.ErrInvalidInput)
	}
	signals := e.config.PlaceholderSignals
	if req.Signals != nil {
		signals = *req.Signals
	}
	weights := req.Weights.Apply(e.config.Weights)
	withFeedback := !alignment.IsBlank(req.Feedback)

	var (
		wg      sync.WaitGroup
		harmony float64
		hErr    error
		branch  consistencyBranch
		cErr    error
		refined string
		rErr    error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		harmony, hErr = alignment.ComputeHarmonyIndex(signals, weights)
	}()
	go func() {
		defer wg.Done()
		refined, rErr = e.refiner.Refine(ctx, req.Prompt)
	}()
	if withFeedback {
		wg.Add(1)
		go func() {
			defer wg.Done()
			branch, cErr = e.consistency(ctx, req)
		}()
	}
	wg.Wait()

	if hErr != nil {
		return Evaluation{}, fmt.Errorf("harmony index: %w", hErr)
	}
	if cErr != nil {
		return Evaluation{}, fmt.Errorf("consistency deviation: %w", cErr)
	}
	if rErr != nil {
		return Evaluation{}, rErr
	}

	ev := Evaluation{
		ID:            uuid.NewString(),
		HarmonyIndex:  harmony,
		RefinedPrompt: refined,
		Summary:       fmt.Sprintf("Harmony Index: %.3f", harmony),
	}
	if withFeedback {
		ev.Consistency = &branch.result
		ev.Artifact = branch.artifact
		ev.Caption = branch.caption
		ev.Summary += fmt.Sprintf(" | Consistency Deviation Score: %.3f", branch.result.Score)
	}

	attrs := []any{"id", ev.ID, "harmony", harmony}
	if ev.Consistency != nil {
		attrs = append(attrs, "cds", ev.Consistency.Score,
			"sim_pf", ev.Consistency.Similarities.PromptFeedback,
			"sim_pc", ev.Consistency.Similarities.PromptCaption,
			"sim_fc", ev.Consistency.Similarities.FeedbackCaption)
	}
	slog.Info("evaluation complete", attrs...)
	return ev, nil
}

// #endregion evaluate

// #region consistency-branch

type consistencyBranch struct {
	result   alignment.ConsistencyResult
	artifact collab.ArtifactRef
	caption  string
}

// consistency obtains a caption (supplied, or generate then caption) and
// scores it against prompt and feedback.
func (e *Evaluator) consistency(ctx context.Context, req Request) (consistencyBranch, error) {
	var b consistencyBranch
	if e.scorer == nil {
		return b, fmt.Errorf("%w: no scorer configured", alignment.ErrEmbeddingUnavailable)
	}

	b.caption = req.Caption
	if alignment.IsBlank(b.caption) {
		artifact, err := e.generator.Generate(ctx, req.Prompt)
		if err != nil {
			return b, fmt.Errorf("generate artifact: %w", err)
		}
		b.artifact = artifact
		b.caption, err = e.captioner.Caption(ctx, artifact)
		if err != nil {
			return b, fmt.Errorf("caption artifact: %w", err)
		}
	}

	triple, err := alignment.NewTextTriple(req.Prompt, req.Feedback, b.caption)
	if err != nil {
		return b, err
	}
	b.result, err = e.scorer.Score(ctx, triple)
	return b, err
}

// #endregion consistency-branch
