package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/scriptpack/internal/foundation/errors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "scriptpack.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
fragments:
  - path: src/observable.js
  - path: ./src//replica_listener.js
    skip_first_line: true
    filterable: true
variants:
  - name: full
  - name: stripped
    file: rl.stripped.js
    strip_marked: true
    emit_minified: false
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	absDir, err := filepath.Abs(filepath.Dir(path))
	require.NoError(t, err)
	assert.Equal(t, absDir, cfg.Root)
	assert.Equal(t, DefaultOutputDir, cfg.OutputDir)
	assert.Equal(t, DefaultMarker, cfg.Marker)
	assert.Equal(t, DefaultMinifiedSuffix, cfg.MinifiedSuffix)
	assert.Equal(t, DefaultMinifier, cfg.Minifier)
	assert.Equal(t, filepath.Join("src", "replica_listener.js"), cfg.Fragments[1].Path)

	require.Len(t, cfg.Variants, 2)
	assert.Equal(t, "full.js", cfg.Variants[0].File)
	assert.True(t, cfg.Variants[0].WantsMinified())
	assert.Equal(t, "full.js.min", cfg.MinifiedFile(cfg.Variants[0]))
	assert.False(t, cfg.Variants[1].WantsMinified())
}

func TestLoadExpandsEnvironment(t *testing.T) {
	t.Setenv("SCRIPTPACK_TEST_OUT", "dist")
	path := writeConfig(t, `
output_dir: ${SCRIPTPACK_TEST_OUT}
fragments:
  - path: a.js
variants:
  - name: full
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "dist", cfg.OutputDir)
}

func TestParseKeepsMarkerVerbatim(t *testing.T) {
	t.Setenv("dev", "")
	tests := []struct {
		name   string
		marker string
		want   string
	}{
		{"dollar only", `marker: "$dev"`, "$dev"},
		{"dollar suffix", `marker: "// $dev"`, "// $dev"},
		{"braced", `marker: "${dev}"`, "${dev}"},
		{"omitted", ``, DefaultMarker},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, perr := Parse([]byte(tt.marker + `
fragments:
  - path: a.js
    filterable: true
variants:
  - name: stripped
    strip_marked: true
`))
			require.Nil(t, perr)
			require.NoError(t, Prepare(cfg))
			assert.Equal(t, tt.want, cfg.Marker)
		})
	}
}

func TestParseExplicitEmptyMarker(t *testing.T) {
	data := []byte(`
marker: ""
fragments:
  - path: a.js
    filterable: true
variants:
  - name: full
`)
	cfg, perr := Parse(data)
	require.Nil(t, perr)
	require.NoError(t, Prepare(cfg))
	assert.Empty(t, cfg.Marker)

	cfg, perr = Parse(append(data, "  - name: stripped\n    strip_marked: true\n"...))
	require.Nil(t, perr)
	err := Prepare(cfg)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryValidation))
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	path := writeConfig(t, `
fragments:
  - path: a.js
    skip_frist_line: true
variants:
  - name: full
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
	ce, ok := errors.AsClassified(err)
	require.True(t, ok)
	p, _ := ce.Context().GetString("path")
	assert.Equal(t, path, p)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestLoadRelativeRoot(t *testing.T) {
	path := writeConfig(t, `
root: project
fragments:
  - path: a.js
variants:
  - name: full
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "project"), cfg.Root)
}

func TestNormalizeAbsolutePathsUnderRoot(t *testing.T) {
	root := t.TempDir()
	cfg := &Config{
		Root:      root,
		OutputDir: filepath.Join(root, "out"),
		Minifier:  " TDEWOLFF ",
		Fragments: []Fragment{{Path: filepath.Join(root, "src", "a.js")}},
		Variants:  []Variant{{Name: " full ", File: "full.js"}},
	}
	res, err := NormalizeConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, "out", cfg.OutputDir)
	assert.Equal(t, filepath.Join("src", "a.js"), cfg.Fragments[0].Path)
	assert.Equal(t, "tdewolff", cfg.Minifier)
	assert.Equal(t, "full", cfg.Variants[0].Name)
	assert.NotEmpty(t, res.Warnings)
}

func TestNormalizeNil(t *testing.T) {
	_, err := NormalizeConfig(nil)
	require.Error(t, err)
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "scriptpack.yaml")
	require.NoError(t, Init(path, false))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, cfg.Fragments, 2)
	assert.Len(t, cfg.Variants, 2)

	err = Init(path, false)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))

	require.NoError(t, Init(path, true))
}

func TestStringRendersYAML(t *testing.T) {
	out := Example().String()
	assert.Contains(t, out, "output_dir: out")
	assert.Contains(t, out, "skip_first_line: true")
}
