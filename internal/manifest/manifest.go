package manifest

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"gopkg.in/yaml.v3"
)

// BuildManifest records the inputs and outputs of one build. It carries no
// timestamps so identical inputs produce a byte-identical manifest.
type BuildManifest struct {
	Tool     string   `yaml:"tool"`
	Minifier string   `yaml:"minifier"`
	Revision string   `yaml:"revision,omitempty"`
	Inputs   []File   `yaml:"inputs"`
	Outputs  []Output `yaml:"outputs"`
}

// File is one input file with its content digest.
type File struct {
	Path   string `yaml:"path"`
	SHA256 string `yaml:"sha256"`
	Bytes  int    `yaml:"bytes"`
}

// Output is one written file attributed to the target that produced it.
type Output struct {
	Target string `yaml:"target"`
	Kind   string `yaml:"kind"` // assembled|minified
	Path   string `yaml:"path"`
	SHA256 string `yaml:"sha256"`
	Bytes  int    `yaml:"bytes"`
}

// AddInput appends an input entry unless path is already recorded.
func (m *BuildManifest) AddInput(f File) {
	for _, existing := range m.Inputs {
		if existing.Path == f.Path {
			return
		}
	}
	m.Inputs = append(m.Inputs, f)
}

// AddOutput appends an output entry in write order.
func (m *BuildManifest) AddOutput(o Output) {
	m.Outputs = append(m.Outputs, o)
}

// ToYAML serializes the manifest to YAML.
func (m *BuildManifest) ToYAML() ([]byte, error) {
	data, err := yaml.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshal manifest: %w", err)
	}
	return data, nil
}

// FromYAML deserializes a manifest from YAML.
func FromYAML(data []byte) (*BuildManifest, error) {
	var m BuildManifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal manifest: %w", err)
	}
	return &m, nil
}

// Hash computes a deterministic digest over inputs and outputs. Two builds
// with the same hash wrote the same bytes from the same sources.
func (m *BuildManifest) Hash() (string, error) {
	hashInput := struct {
		Minifier string   `yaml:"minifier"`
		Inputs   []File   `yaml:"inputs"`
		Outputs  []Output `yaml:"outputs"`
	}{
		Minifier: m.Minifier,
		Inputs:   m.Inputs,
		Outputs:  m.Outputs,
	}

	data, err := yaml.Marshal(hashInput)
	if err != nil {
		return "", fmt.Errorf("marshal hash input: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
