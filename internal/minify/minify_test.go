package minify

import (
	"context"
	"strings"
	"testing"

	ferrors "git.home.luguber.info/inful/scriptpack/internal/foundation/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	fullScript     = "/**\n * MIT\n * Copyright 2024\n */\n\nvar x=1;\nx += 1; // marker\nconsole.log(x);\n"
	strippedScript = "/**\n * MIT\n * Copyright 2024\n */\n\nvar x=1;\nconsole.log(x);\n"
)

func TestNew(t *testing.T) {
	m, err := New("")
	require.NoError(t, err)
	assert.Equal(t, EngineESBuild, m.Name())

	m, err = New("Tdewolff")
	require.NoError(t, err)
	assert.Equal(t, EngineTdewolff, m.Name())

	_, err = New("uglify")
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
	assert.Equal(t, []string{EngineESBuild, EngineTdewolff}, Engines())
}

func TestFunc(t *testing.T) {
	upper := Func{Label: "upper", Fn: func(s string) (string, error) { return strings.ToUpper(s), nil }}
	out, err := upper.Minify(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, "ABC", out)
	assert.Equal(t, "upper", upper.Name())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = upper.Minify(ctx, "abc")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEngines(t *testing.T) {
	ctx := context.Background()

	for _, m := range []Minifier{ESBuild{}, Tdewolff{}} {
		t.Run(m.Name(), func(t *testing.T) {
			t.Run("strips comments and line breaks", func(t *testing.T) {
				out, err := m.Minify(ctx, fullScript)
				require.NoError(t, err)
				assert.NotContains(t, out, "marker")
				assert.NotContains(t, out, "Copyright")
				assert.NotContains(t, strings.TrimSuffix(out, "\n"), "\n")
				assert.Contains(t, out, "console.log(x)")
				assert.Less(t, len(out), len(fullScript))
			})

			t.Run("idempotent", func(t *testing.T) {
				for _, src := range []string{fullScript, strippedScript, "function add(a, b) {\n  return a + b;\n}\nadd(1, 2);\n"} {
					once, err := m.Minify(ctx, src)
					require.NoError(t, err)
					twice, err := m.Minify(ctx, once)
					require.NoError(t, err)
					assert.Equal(t, once, twice)
				}
			})

			t.Run("syntax error is reported", func(t *testing.T) {
				_, err := m.Minify(ctx, "var = ;")
				require.Error(t, err)
			})

			t.Run("canceled context", func(t *testing.T) {
				cctx, cancel := context.WithCancel(ctx)
				cancel()
				_, err := m.Minify(cctx, strippedScript)
				assert.ErrorIs(t, err, context.Canceled)
			})
		})
	}
}

func TestESBuild_ErrorMentionsEngine(t *testing.T) {
	_, err := ESBuild{}.Minify(context.Background(), "var s = \"abc\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "esbuild")
}
