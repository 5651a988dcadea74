package integration

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/scriptpack/internal/build"
	"git.home.luguber.info/inful/scriptpack/internal/config"
	"git.home.luguber.info/inful/scriptpack/internal/git"
	"git.home.luguber.info/inful/scriptpack/internal/manifest"
	"git.home.luguber.info/inful/scriptpack/internal/minify"
	"git.home.luguber.info/inful/scriptpack/internal/storage"
	sptest "git.home.luguber.info/inful/scriptpack/internal/testing"
)

const (
	// revisionPlaceholder replaces the stamped commit in golden files.
	revisionPlaceholder = "REVISION"
	// toolPlaceholder replaces the build-dependent tool string in manifests.
	toolPlaceholder = "TOOL"
)

// runGoldenTest copies projectPath into a scratch git repository, builds it
// with the configured minifier and compares every assembled output and the
// manifest against the files in goldenDir.
func runGoldenTest(t *testing.T, projectPath, goldenDir string, updateGolden bool) {
	t.Helper()

	p := sptest.NewProject(t).CopyTree(projectPath)
	hash := p.InitRepo()
	short := hash[:git.ShortHashLen]

	cfg := p.Load()
	report := runBuild(t, cfg)
	require.Equal(t, build.OutcomeSuccess, report.Outcome, report.Summary())

	for _, target := range report.Targets {
		golden := filepath.Join(goldenDir, filepath.Base(target.AssembledPath)+".golden")
		actual := normalizeRevision(p.ReadFile(filepath.ToSlash(target.AssembledPath)), short)
		verifyGoldenText(t, golden, actual, updateGolden)

		if target.MinifiedPath != "" {
			verifyMinified(t, p, target)
		}
	}

	if cfg.Manifest != "" {
		path := filepath.Join(cfg.OutputDir, cfg.Manifest)
		verifyManifest(t, p.ReadFile(filepath.ToSlash(path)), short,
			filepath.Join(goldenDir, "manifest.golden.yaml"), updateGolden)
	}
}

// runBuild runs the driver over the on-disk project with the real engines.
func runBuild(t *testing.T, cfg *config.Config) *build.Report {
	t.Helper()

	m, err := minify.New(cfg.Minifier)
	require.NoError(t, err)

	report, err := build.NewDriver(storage.NewOSStore(cfg.Root), m).
		Run(context.Background(), build.Request{Config: cfg})
	require.NoError(t, err)
	return report
}

// normalizeRevision swaps the stamped short hash for a stable placeholder.
func normalizeRevision(text, short string) string {
	return strings.ReplaceAll(text, build.RevisionPrefix+short, build.RevisionPrefix+revisionPlaceholder)
}

func verifyGoldenText(t *testing.T, goldenPath, actual string, updateGolden bool) {
	t.Helper()

	if updateGolden {
		require.NoError(t, os.WriteFile(goldenPath, []byte(actual), 0o600))
		t.Logf("Updated golden file: %s", goldenPath)
		return
	}

	// #nosec G304 -- golden path comes from the test table
	expected, err := os.ReadFile(goldenPath)
	require.NoError(t, err, "failed to read golden file (run with -update-golden to create)")
	assert.Equal(t, string(expected), actual, "output differs from %s", goldenPath)
}

// verifyMinified checks the minified sibling exists, is smaller than its
// source and still defines the top-level functions.
func verifyMinified(t *testing.T, p *sptest.Project, target build.TargetResult) {
	t.Helper()

	minified := p.ReadFile(filepath.ToSlash(target.MinifiedPath))
	assert.NotEmpty(t, minified)
	assert.Less(t, len(minified), target.AssembledBytes, "minified %s", target.MinifiedPath)
	assert.Equal(t, len(minified), target.MinifiedBytes)
	assert.Equal(t, storage.Digest([]byte(minified)), target.MinifiedDigest)
}

// verifyManifest compares the written manifest against goldenPath after
// clearing output digests and sizes, which depend on the commit and the
// minifier version.
func verifyManifest(t *testing.T, actualYAML, short, goldenPath string, updateGolden bool) {
	t.Helper()

	actual, err := manifest.FromYAML([]byte(actualYAML))
	require.NoError(t, err)

	for _, out := range actual.Outputs {
		assert.Len(t, out.SHA256, 64, "digest of %s", out.Path)
		assert.Positive(t, out.Bytes, "size of %s", out.Path)
	}
	normalizeManifest(actual, short)

	if updateGolden {
		data, err := actual.ToYAML()
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(goldenPath, data, 0o600))
		t.Logf("Updated golden file: %s", goldenPath)
		return
	}

	// #nosec G304 -- golden path comes from the test table
	data, err := os.ReadFile(goldenPath)
	require.NoError(t, err, "failed to read golden manifest (run with -update-golden to create)")
	expected, err := manifest.FromYAML(data)
	require.NoError(t, err)

	assert.Equal(t, expected, actual)
}

func normalizeManifest(m *manifest.BuildManifest, short string) {
	m.Tool = toolPlaceholder
	if m.Revision == short {
		m.Revision = revisionPlaceholder
	}
	for i := range m.Outputs {
		m.Outputs[i].Path = filepath.ToSlash(m.Outputs[i].Path)
		m.Outputs[i].SHA256 = ""
		m.Outputs[i].Bytes = 0
	}
}
