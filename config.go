package meisai

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tsawler/meisai/fields"
	"github.com/tsawler/meisai/layout"
	"github.com/tsawler/meisai/raster"
	"github.com/tsawler/meisai/tables"
	"github.com/tsawler/meisai/tokens"
)

// Config aggregates the tunable heuristics of every pipeline stage. All
// values are named configuration with documented defaults rather than inline
// literals: the tolerances, interpolation ratios, and confidence floors are
// empirically tuned and meant to be adjusted per document corpus.
type Config struct {
	// MinConfidence is the recognition confidence cutoff applied to engine
	// output before extraction (default: 0.5). The cutoff is owned here,
	// not assumed inside the recognition engine.
	MinConfidence float64 `yaml:"min_confidence"`

	// Languages are the Tesseract language packs loaded by the recognition
	// engine (default: jpn, eng).
	Languages []string `yaml:"languages"`

	Raster     raster.Config       `yaml:"raster"`
	Tokens     tokens.Config       `yaml:"tokens"`
	Layout     layout.Config       `yaml:"layout"`
	Anchors    tables.AnchorConfig `yaml:"anchors"`
	Assign     tables.AssignConfig `yaml:"assign"`
	Fields     fields.Config       `yaml:"fields"`
	Validation ValidationConfig    `yaml:"validation"`
}

// ValidationConfig holds the trigger constants of the total-amount
// cross-validation patch (see PatchTotal). The trigger signature is
// deliberately narrow and should not be loosened: its soundness outside the
// exact length-mismatch case is unverified.
type ValidationConfig struct {
	// MaterialityFloor is the minimum summed line item amount for the patch
	// to be considered at all (default: 10000).
	MaterialityFloor float64 `yaml:"materiality_floor"`

	// RatioThreshold: the patch fires only when the candidate total is below
	// this fraction of the summed amounts (default: 0.75).
	RatioThreshold float64 `yaml:"ratio_threshold"`
}

// DefaultConfig returns the default configuration for Japanese invoices at
// the default 180 DPI working resolution.
func DefaultConfig() Config {
	return Config{
		MinConfidence: 0.5,
		Languages:     []string{"jpn", "eng"},
		Raster:        raster.DefaultConfig(),
		Tokens:        tokens.DefaultConfig(),
		Layout:        layout.DefaultConfig(),
		Anchors:       tables.DefaultAnchorConfig(),
		Assign:        tables.DefaultAssignConfig(),
		Fields:        fields.DefaultConfig(),
		Validation: ValidationConfig{
			MaterialityFloor: 10000,
			RatioThreshold:   0.75,
		},
	}
}

// LoadConfig reads a YAML configuration file over the defaults, so a file
// only needs to name the values it changes.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return config, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return config, fmt.Errorf("failed to parse config: %w", err)
	}
	return config, nil
}
