package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jvsguerra/SERD/internal/engine"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tuning.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissingFileIsEmpty(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("Load on missing file: %v", err)
	}

	params := cfg.Apply(engine.DefaultParams())
	if params != engine.DefaultParams() {
		t.Errorf("empty config changed defaults: %+v", params)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `{"step": 0.25, "mode": "sas", "workers": 4}`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	params := cfg.Apply(engine.DefaultParams())
	if params.Step != 0.25 {
		t.Errorf("step = %g, want 0.25", params.Step)
	}
	if params.SES {
		t.Error("mode sas not applied")
	}
	if params.Workers != 4 {
		t.Errorf("workers = %d, want 4", params.Workers)
	}
	// Untouched fields keep their defaults.
	if params.Probe != engine.DefaultParams().Probe {
		t.Errorf("probe = %g, want default", params.Probe)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name, content string
	}{
		{"negative step", `{"step": -1}`},
		{"negative probe", `{"probe": -0.1}`},
		{"unknown mode", `{"mode": "vdw"}`},
		{"negative workers", `{"workers": -2}`},
		{"malformed json", `{`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.content)); err == nil {
				t.Error("Load accepted invalid config")
			}
		})
	}
}
