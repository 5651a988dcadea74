package config

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/scriptpack/internal/foundation/errors"
)

// Config describes one scriptpack build: which fragments to assemble, in what
// order, and which variants to write.
type Config struct {
	// Root anchors every other path. Defaults to the config file's directory.
	Root      string `yaml:"root,omitempty"`
	OutputDir string `yaml:"output_dir"`
	// License is optional; when set its lines become the block-comment header.
	License       string `yaml:"license,omitempty"`
	StampRevision bool   `yaml:"stamp_revision,omitempty"`

	// Marker is matched literally; empty marks nothing.
	Marker         string `yaml:"marker"`
	MinifiedSuffix string `yaml:"minified_suffix"`
	Minifier       string `yaml:"minifier"`
	// Manifest, when set, names a YAML manifest written inside OutputDir.
	Manifest string `yaml:"manifest,omitempty"`

	Fragments []Fragment `yaml:"fragments"`
	Variants  []Variant  `yaml:"variants"`
}

// Fragment is one source file in assembly order.
type Fragment struct {
	Path          string `yaml:"path"`
	SkipFirstLine bool   `yaml:"skip_first_line,omitempty"`
	Filterable    bool   `yaml:"filterable,omitempty"`
}

// Variant is one named output file.
type Variant struct {
	Name        string `yaml:"name"`
	File        string `yaml:"file,omitempty"`
	StripMarked bool   `yaml:"strip_marked,omitempty"`
	// EmitMinified defaults to true when omitted.
	EmitMinified *bool `yaml:"emit_minified,omitempty"`
}

// WantsMinified reports whether a minified sibling is produced for v.
func (v Variant) WantsMinified() bool {
	return v.EmitMinified == nil || *v.EmitMinified
}

// MinifiedFile is the derived name of the variant's minified output.
func (c *Config) MinifiedFile(v Variant) string {
	return v.File + c.MinifiedSuffix
}

// Load reads, defaults, normalizes and validates the configuration at configPath.
func Load(configPath string) (*Config, error) {
	if err := loadEnvFile(); err != nil {
		slog.Debug("No .env file loaded", "reason", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigError("configuration file not found").WithContext("path", configPath).Build()
		}
		return nil, errors.WrapError(err, errors.CategoryConfig, "read configuration file").Fatal().WithContext("path", configPath).Build()
	}

	cfg, perr := Parse(data)
	if perr != nil {
		return nil, perr.WithContext("path", configPath)
	}

	if cfg.Root == "" {
		cfg.Root = filepath.Dir(configPath)
	} else if !filepath.IsAbs(cfg.Root) {
		cfg.Root = filepath.Join(filepath.Dir(configPath), cfg.Root)
	}
	if abs, err := filepath.Abs(cfg.Root); err == nil {
		cfg.Root = abs
	}

	if err := Prepare(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML and expands ${VAR} references in path fields. Unknown
// keys are rejected. The marker is kept verbatim, and an omitted marker key
// yields DefaultMarker while an explicit empty string stays empty.
func Parse(data []byte) (*Config, *errors.ClassifiedError) {
	cfg := Config{Marker: DefaultMarker}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "parse configuration").Fatal().Build()
	}
	expandPaths(&cfg)
	return &cfg, nil
}

// expandPaths applies os.ExpandEnv to the fields that name files or directories.
func expandPaths(cfg *Config) {
	cfg.Root = os.ExpandEnv(cfg.Root)
	cfg.OutputDir = os.ExpandEnv(cfg.OutputDir)
	cfg.License = os.ExpandEnv(cfg.License)
	cfg.Manifest = os.ExpandEnv(cfg.Manifest)
	for i := range cfg.Fragments {
		cfg.Fragments[i].Path = os.ExpandEnv(cfg.Fragments[i].Path)
	}
	for i := range cfg.Variants {
		cfg.Variants[i].File = os.ExpandEnv(cfg.Variants[i].File)
	}
}

// Prepare applies defaults, normalizes paths and validates cfg in place.
func Prepare(cfg *Config) error {
	if err := ApplyDefaults(cfg); err != nil {
		return err
	}
	res, err := NormalizeConfig(cfg)
	if err != nil {
		return err
	}
	for _, w := range res.Warnings {
		slog.Warn("Configuration normalized", "detail", w)
	}
	return ValidateConfig(cfg)
}

// Init creates a new configuration file with example content.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return errors.ConfigError("configuration file already exists (use --force to overwrite)").
			WithContext("path", configPath).
			Build()
	}

	data, err := yaml.Marshal(Example())
	if err != nil {
		return errors.InternalError("marshal example configuration").WithCause(err).Build()
	}

	if dir := filepath.Dir(configPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.WrapError(err, errors.CategoryWrite, "create configuration directory").Fatal().WithContext("path", dir).Build()
		}
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return errors.WrapError(err, errors.CategoryWrite, "write configuration file").Fatal().WithContext("path", configPath).Build()
	}
	return nil
}

// Example returns the configuration written by Init: a full and a stripped
// variant of a two-fragment script, both with minified siblings.
func Example() *Config {
	return &Config{
		OutputDir:      DefaultOutputDir,
		License:        "LICENSE",
		Marker:         DefaultMarker,
		MinifiedSuffix: DefaultMinifiedSuffix,
		Minifier:       DefaultMinifier,
		Fragments: []Fragment{
			{Path: "src/observable.js"},
			{Path: "src/replica_listener.js", SkipFirstLine: true, Filterable: true},
		},
		Variants: []Variant{
			{Name: "full", File: "rl.js"},
			{Name: "stripped", File: "rl.stripped.js", StripMarked: true},
		},
	}
}

// String renders the configuration as YAML (used by the plan command).
func (c *Config) String() string {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Sprintf("<config: %v>", err)
	}
	return string(data)
}
