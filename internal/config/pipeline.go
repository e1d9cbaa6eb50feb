package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"tidyseries/internal/spec"
)

const (
	SupportedSchema = "v1"

	SourceKindWideTable = "wide_table"

	DefaultOutputPath = "data/labor_gap_long.csv"
)

// DefaultPipeline reads the default source (csv driver, settings from
// the source defaults and TIDY_SOURCE__ env) and writes one CSV file.
func DefaultPipeline() spec.File {
	var f spec.File
	f.SchemaVersion = SupportedSchema
	f.Source.Kind = SourceKindWideTable
	f.Source.Driver = "csv"
	f.Sinks = []string{"csv"}
	f.SinkConfigs.CSV.Path = DefaultOutputPath
	return f
}

// LoadPipelineSpec parses a pipeline YAML, validates schema_version, and
// returns the parsed spec and an absolute path to the source config (if set).
// A missing file yields DefaultPipeline.
func LoadPipelineSpec(path string) (spec.File, string, error) {
	if path == "" {
		return DefaultPipeline(), "", nil
	}
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultPipeline(), "", nil
	}
	if err != nil {
		return spec.File{}, "", err
	}

	cfg := DefaultPipeline()
	cfg.Sinks = nil
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, "", fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.SchemaVersion != SupportedSchema {
		return cfg, "", fmt.Errorf("pipeline schema_version %q not supported (want %q)", cfg.SchemaVersion, SupportedSchema)
	}
	if len(cfg.Sinks) == 0 {
		cfg.Sinks = []string{"csv"}
	}
	confPath := cfg.Source.Config
	if confPath != "" && !filepath.IsAbs(confPath) {
		confPath = filepath.Join(filepath.Dir(path), confPath)
	}
	return cfg, confPath, nil
}
