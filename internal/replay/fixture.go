package replay

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Atmosphere89/PromptAligner/internal/alignment"
	"github.com/Atmosphere89/PromptAligner/internal/evaluate"
)

// #region fixture-types

// Fixture is the top-level JSON structure for a replay fixture.
type Fixture struct {
	Description string        `json:"description"`
	Cases       []FixtureCase `json:"cases"`
}

// FixtureCase is one recorded request and what it should produce.
type FixtureCase struct {
	ID       string                      `json:"id"`
	Prompt   string                      `json:"prompt"`
	Feedback string                      `json:"feedback,omitempty"`
	Caption  string                      `json:"caption,omitempty"`
	Signals  *alignment.AlignmentSignals `json:"signals,omitempty"`
	Weights  *alignment.WeightOverride   `json:"weights,omitempty"` // missing fields keep the evaluator's weights
	Expect   FixtureExpect               `json:"expect"`
}

// FixtureExpect holds expected outputs. Nil scores are not checked.
type FixtureExpect struct {
	Harmony   *float64 `json:"harmony,omitempty"`
	CDS       *float64 `json:"cds,omitempty"`
	Error     string   `json:"error,omitempty"` // alignment error code
	Tolerance float64  `json:"tolerance,omitempty"`
}

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return &f, nil
}

// ToRequest converts a FixtureCase to an evaluation request.
func (fc *FixtureCase) ToRequest() evaluate.Request {
	return evaluate.Request{
		Prompt:   fc.Prompt,
		Feedback: fc.Feedback,
		Caption:  fc.Caption,
		Signals:  fc.Signals,
		Weights:  fc.Weights,
	}
}

// ToCase converts a FixtureCase to a domain Case.
func (fc *FixtureCase) ToCase() Case {
	tol := fc.Expect.Tolerance
	if tol <= 0 {
		tol = DefaultTolerance
	}
	return Case{
		ID:          fc.ID,
		Request:     fc.ToRequest(),
		WantHarmony: fc.Expect.Harmony,
		WantCDS:     fc.Expect.CDS,
		WantError:   fc.Expect.Error,
		Tolerance:   tol,
	}
}

// ToCases converts every fixture case.
func (f *Fixture) ToCases() []Case {
	out := make([]Case, len(f.Cases))
	for i := range f.Cases {
		out[i] = f.Cases[i].ToCase()
	}
	return out
}

// #endregion fixture-loader
