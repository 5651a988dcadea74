package config

import "git.home.luguber.info/inful/scriptpack/internal/minify"

// Default values applied when the configuration omits a field.
const (
	DefaultOutputDir      = "out"
	DefaultMarker         = "@@type-hints"
	DefaultMinifiedSuffix = ".min"
	DefaultMinifier       = minify.EngineESBuild
)

// DefaultApplier applies defaults for a specific configuration domain.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config) error
	Domain() string
}

// OutputDefaultApplier handles output directory, suffix and minifier defaults.
type OutputDefaultApplier struct{}

func (OutputDefaultApplier) Domain() string { return "output" }

func (OutputDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.OutputDir == "" {
		cfg.OutputDir = DefaultOutputDir
	}
	if cfg.MinifiedSuffix == "" {
		cfg.MinifiedSuffix = DefaultMinifiedSuffix
	}
	if cfg.Minifier == "" {
		cfg.Minifier = DefaultMinifier
	}
	return nil
}

// AssemblyDefaultApplier handles variant file defaults. The marker default is
// applied by Parse so that an explicit empty marker survives.
type AssemblyDefaultApplier struct{}

func (AssemblyDefaultApplier) Domain() string { return "assembly" }

func (AssemblyDefaultApplier) ApplyDefaults(cfg *Config) error {
	for i := range cfg.Variants {
		if cfg.Variants[i].File == "" && cfg.Variants[i].Name != "" {
			cfg.Variants[i].File = cfg.Variants[i].Name + ".js"
		}
	}
	return nil
}

var defaultAppliers = []DefaultApplier{
	OutputDefaultApplier{},
	AssemblyDefaultApplier{},
}

// ApplyDefaults runs every registered DefaultApplier in order.
func ApplyDefaults(cfg *Config) error {
	for _, a := range defaultAppliers {
		if err := a.ApplyDefaults(cfg); err != nil {
			return err
		}
	}
	return nil
}
