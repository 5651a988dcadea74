package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() *BuildManifest {
	m := &BuildManifest{Tool: "scriptpack test", Minifier: "esbuild", Revision: "abc1234"}
	m.AddInput(File{Path: "src/observable.js", SHA256: "aa", Bytes: 10})
	m.AddInput(File{Path: "src/replica_listener.js", SHA256: "bb", Bytes: 20})
	m.AddOutput(Output{Target: "full", Kind: "assembled", Path: "out/rl.js", SHA256: "cc", Bytes: 30})
	m.AddOutput(Output{Target: "full", Kind: "minified", Path: "out/rl.js.min", SHA256: "dd", Bytes: 15})
	return m
}

func TestManifestYAML(t *testing.T) {
	m := sample()
	data, err := m.ToYAML()
	require.NoError(t, err)
	assert.Contains(t, string(data), "path: out/rl.js.min")
	assert.NotContains(t, string(data), "time")

	again, err := sample().ToYAML()
	require.NoError(t, err)
	assert.Equal(t, string(data), string(again))

	restored, err := FromYAML(data)
	require.NoError(t, err)
	assert.Equal(t, m, restored)
}

func TestFromYAMLInvalid(t *testing.T) {
	_, err := FromYAML([]byte("inputs: [::"))
	require.Error(t, err)
}

func TestAddInputDeduplicates(t *testing.T) {
	m := sample()
	m.AddInput(File{Path: "src/observable.js", SHA256: "zz", Bytes: 1})
	require.Len(t, m.Inputs, 2)
	assert.Equal(t, "aa", m.Inputs[0].SHA256)
}

func TestManifestHash(t *testing.T) {
	h1, err := sample().Hash()
	require.NoError(t, err)

	other := sample()
	other.Tool = "scriptpack other"
	other.Revision = "fffffff"
	h2, err := other.Hash()
	require.NoError(t, err)
	assert.Equal(t, h1, h2, "tool and revision do not affect the content hash")

	changed := sample()
	changed.Outputs[1].SHA256 = "ee"
	h3, err := changed.Hash()
	require.NoError(t, err)
	assert.NotEqual(t, h1, h3)
}
