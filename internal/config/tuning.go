// Package config loads surface-computation defaults from a JSON file.
// Fields are pointers so a file can override any subset of the built-in
// defaults. The CLI surface command loads it and its explicit flags override
// it; the HTTP API does not read it.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jvsguerra/SERD/internal/engine"
)

// TuningConfig is the on-disk override set for surface parameters.
type TuningConfig struct {
	Step    *float64 `json:"step,omitempty"`
	Probe   *float64 `json:"probe,omitempty"`
	Mode    *string  `json:"mode,omitempty"` // "ses" or "sas"
	Align   *bool    `json:"align,omitempty"`
	Workers *int     `json:"workers,omitempty"`
}

// Load reads a tuning file. A missing file is not an error: it returns an
// empty config so built-in defaults apply.
func Load(path string) (*TuningConfig, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &TuningConfig{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read tuning config %s: %w", path, err)
	}

	var cfg TuningConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse tuning config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("tuning config %s: %w", path, err)
	}
	return &cfg, nil
}

// Validate rejects values the engine would refuse at run time.
func (c *TuningConfig) Validate() error {
	if c.Step != nil && *c.Step <= 0 {
		return fmt.Errorf("step must be positive, got %g", *c.Step)
	}
	if c.Probe != nil && *c.Probe < 0 {
		return fmt.Errorf("probe must be non-negative, got %g", *c.Probe)
	}
	if c.Mode != nil && *c.Mode != "ses" && *c.Mode != "sas" {
		return fmt.Errorf("mode must be ses or sas, got %q", *c.Mode)
	}
	if c.Workers != nil && *c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", *c.Workers)
	}
	return nil
}

// Apply overlays the configured overrides on params.
func (c *TuningConfig) Apply(params engine.Params) engine.Params {
	if c.Step != nil {
		params.Step = *c.Step
	}
	if c.Probe != nil {
		params.Probe = *c.Probe
	}
	if c.Mode != nil {
		params.SES = *c.Mode != "sas"
	}
	if c.Align != nil {
		params.Align = *c.Align
	}
	if c.Workers != nil {
		params.Workers = *c.Workers
	}
	return params
}
