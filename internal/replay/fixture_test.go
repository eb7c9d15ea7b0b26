package replay

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Atmosphere89/PromptAligner/internal/alignment"
)

func TestLoadFixture_Conversion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.json")
	data := `{
		"description": "d",
		"cases": [{
			"id": "c1",
			"prompt": "p",
			"feedback": "f",
			"signals": {"content": 0.1, "aesthetic": 0.2, "structural": 0.3},
			"weights": {"alpha": 2, "gamma": 0},
			"expect": {"harmony": 0.5}
		}]
	}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	f, err := LoadFixture(path)
	if err != nil {
		t.Fatalf("LoadFixture: %v", err)
	}
	c := f.Cases[0].ToCase()
	if c.ID != "c1" || c.Request.Feedback != "f" {
		t.Errorf("unexpected case %+v", c)
	}
	if c.Request.Signals == nil || c.Request.Signals.Structural != 0.3 {
		t.Errorf("expected signals to convert, got %+v", c.Request.Signals)
	}
	if got := c.Request.Weights.Apply(alignment.DefaultWeights()); got != (alignment.Weights{Alpha: 2, Beta: 1, Gamma: 0}) {
		t.Errorf("expected weights {2 1 0}, got %+v", got)
	}
	if c.Tolerance != DefaultTolerance {
		t.Errorf("expected default tolerance, got %v", c.Tolerance)
	}
	if c.WantHarmony == nil || *c.WantHarmony != 0.5 || c.WantCDS != nil {
		t.Errorf("unexpected expectations %v %v", c.WantHarmony, c.WantCDS)
	}
}

func TestLoadFixture_Errors(t *testing.T) {
	if _, err := LoadFixture(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
	bad := filepath.Join(t.TempDir(), "bad.json")
	os.WriteFile(bad, []byte("{"), 0o644)
	if _, err := LoadFixture(bad); err == nil {
		t.Error("expected error for malformed JSON")
	}
}
