// Copyright 2025 gridlab LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/rs/zerolog"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// 🔒 Recognized overwrite policies
const (
	OverwritePrompt = "prompt"
	OverwriteAlways = "always"
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 📚 Config represents a complete transform job
type Config struct {
	Inputs     []string `json:"inputs" yaml:"inputs" hcl:"inputs,optional"`                               // Input file paths or glob patterns
	SourceEPSG int      `json:"source_epsg" yaml:"source_epsg" hcl:"source_epsg,optional"`               // EPSG code the inputs are in
	TargetEPSG int      `json:"target_epsg" yaml:"target_epsg" hcl:"target_epsg,optional"`               // EPSG code to transform into
	OutputDir  string   `json:"output_dir" yaml:"output_dir" hcl:"output_dir,optional"`                  // Directory receiving transformed files
	Overwrite  string   `json:"overwrite,omitempty" yaml:"overwrite,omitempty" hcl:"overwrite,optional"` // prompt or always
	Workers    int      `json:"workers,omitempty" yaml:"workers,omitempty" hcl:"workers,optional"`       // File-level parallelism
	SampleSize int      `json:"sample_size,omitempty" yaml:"sample_size,omitempty" hcl:"sample_size,optional"`
	Precision  int      `json:"precision,omitempty" yaml:"precision,omitempty" hcl:"precision,optional"` // Decimals for coordinates without their own
	Strict     bool     `json:"strict,omitempty" yaml:"strict,omitempty" hcl:"strict,optional"`          // Refuse the identity passthrough
}

// 🎯 Load loads the configuration from a file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	// Read config file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	// Get parser
	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	// Parse config
	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// 🔍 Validate checks if the configuration is valid
func (cfg *Config) Validate() error {
	// Check required fields
	if len(cfg.Inputs) == 0 {
		return errors.Errorf("inputs is required")
	}
	if cfg.SourceEPSG <= 0 {
		return errors.Errorf("source_epsg is required")
	}
	if cfg.TargetEPSG <= 0 {
		return errors.Errorf("target_epsg is required")
	}
	if cfg.OutputDir == "" {
		return errors.Errorf("output_dir is required")
	}

	// Clean up paths
	cfg.OutputDir = filepath.Clean(cfg.OutputDir)

	// Set defaults
	if cfg.Overwrite == "" {
		cfg.Overwrite = OverwritePrompt
	}
	if cfg.Overwrite != OverwritePrompt && cfg.Overwrite != OverwriteAlways {
		return errors.Errorf("overwrite must be %q or %q, got %q", OverwritePrompt, OverwriteAlways, cfg.Overwrite)
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.SampleSize < 0 {
		return errors.Errorf("sample_size must not be negative")
	}
	if cfg.Precision < 0 {
		return errors.Errorf("precision must not be negative")
	}

	return nil
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	return fmt.Sprintf("EPSG:%d -> EPSG:%d (%d inputs) -> %s",
		cfg.SourceEPSG, cfg.TargetEPSG, len(cfg.Inputs), cfg.OutputDir)
}

// 🔧 YAMLParser implements the Parser interface for YAML files
type YAMLParser struct{}

func init() {
	Register(&YAMLParser{})
}

func (p *YAMLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".yaml") || strings.HasSuffix(filename, ".yml")
}

func (p *YAMLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, errors.Errorf("parsing YAML: %w", err)
	}

	return &cfg, nil
}

// 🔧 HCLParser implements the Parser interface for HCL files
type HCLParser struct{}

func init() {
	Register(&HCLParser{})
}

func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".hcl")
}

func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "config.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{},
	}

	var cfg Config
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &cfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	return &cfg, nil
}
