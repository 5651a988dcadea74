package testing

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/scriptpack/internal/config"
)

// ConfigBuilder provides a fluent interface for creating test configurations.
type ConfigBuilder struct {
	config *config.Config
	t      *testing.T
}

// NewConfigBuilder starts from the built-in defaults with no fragments and no variants.
func NewConfigBuilder(t *testing.T) *ConfigBuilder {
	return &ConfigBuilder{
		config: &config.Config{
			OutputDir:      config.DefaultOutputDir,
			Marker:         config.DefaultMarker,
			MinifiedSuffix: config.DefaultMinifiedSuffix,
			Minifier:       config.DefaultMinifier,
		},
		t: t,
	}
}

// WithOutputDir sets the output directory.
func (cb *ConfigBuilder) WithOutputDir(dir string) *ConfigBuilder {
	cb.config.OutputDir = dir
	return cb
}

// WithLicense sets the license file rendered into the header.
func (cb *ConfigBuilder) WithLicense(path string) *ConfigBuilder {
	cb.config.License = path
	return cb
}

// WithRevisionStamp enables the revision line in the header.
func (cb *ConfigBuilder) WithRevisionStamp() *ConfigBuilder {
	cb.config.StampRevision = true
	return cb
}

// WithMarker sets the type-hint marker.
func (cb *ConfigBuilder) WithMarker(marker string) *ConfigBuilder {
	cb.config.Marker = marker
	return cb
}

// WithMinifier selects the minifier engine.
func (cb *ConfigBuilder) WithMinifier(engine string) *ConfigBuilder {
	cb.config.Minifier = engine
	return cb
}

// WithManifest enables the build manifest under the output directory.
func (cb *ConfigBuilder) WithManifest(name string) *ConfigBuilder {
	cb.config.Manifest = name
	return cb
}

// WithFragment appends a fragment.
func (cb *ConfigBuilder) WithFragment(path string, skipFirstLine, filterable bool) *ConfigBuilder {
	cb.config.Fragments = append(cb.config.Fragments, config.Fragment{
		Path:          path,
		SkipFirstLine: skipFirstLine,
		Filterable:    filterable,
	})
	return cb
}

// WithVariant appends an output variant.
func (cb *ConfigBuilder) WithVariant(name, file string, stripMarked bool) *ConfigBuilder {
	cb.config.Variants = append(cb.config.Variants, config.Variant{
		Name:        name,
		File:        file,
		StripMarked: stripMarked,
	})
	return cb
}

// WithoutMinified turns off the minified sibling of the named variant.
func (cb *ConfigBuilder) WithoutMinified(name string) *ConfigBuilder {
	off := false
	for i := range cb.config.Variants {
		if cb.config.Variants[i].Name == name {
			cb.config.Variants[i].EmitMinified = &off
			return cb
		}
	}
	cb.t.Fatalf("no variant named %q", name)
	return cb
}

// Build returns the configuration as written, without defaults or validation applied.
func (cb *ConfigBuilder) Build() *config.Config {
	return cb.config
}

// BuildAndSave writes the configuration as YAML to path.
func (cb *ConfigBuilder) BuildAndSave(path string) *config.Config {
	cb.t.Helper()
	data, err := yaml.Marshal(cb.config)
	require.NoError(cb.t, err, "marshal test configuration")
	writeFile(cb.t, path, data)
	return cb.config
}

// ReplicaListenerConfig is the two-fragment, two-variant layout used by
// `scriptpack init`, with the license header and the manifest enabled.
func ReplicaListenerConfig(t *testing.T) *ConfigBuilder {
	return NewConfigBuilder(t).
		WithLicense("LICENSE").
		WithManifest("manifest.yaml").
		WithFragment("src/observable.js", false, false).
		WithFragment("src/replica_listener.js", true, true).
		WithVariant("full", "rl.js", false).
		WithVariant("stripped", "rl.stripped.js", true)
}
