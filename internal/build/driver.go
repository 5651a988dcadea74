package build

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/scriptpack/internal/assemble"
	"git.home.luguber.info/inful/scriptpack/internal/config"
	"git.home.luguber.info/inful/scriptpack/internal/foundation/errors"
	"git.home.luguber.info/inful/scriptpack/internal/git"
	"git.home.luguber.info/inful/scriptpack/internal/logfields"
	"git.home.luguber.info/inful/scriptpack/internal/manifest"
	"git.home.luguber.info/inful/scriptpack/internal/metrics"
	"git.home.luguber.info/inful/scriptpack/internal/minify"
	"git.home.luguber.info/inful/scriptpack/internal/observability"
	"git.home.luguber.info/inful/scriptpack/internal/storage"
	"git.home.luguber.info/inful/scriptpack/internal/version"
)

// RevisionFunc resolves the revision of the tree at path.
type RevisionFunc func(path string) (git.Revision, error)

// Driver runs the build pipeline against a Store.
type Driver struct {
	store    storage.Store
	minifier minify.Minifier
	recorder metrics.Recorder
	logger   *slog.Logger
	revision RevisionFunc
}

// NewDriver creates a Driver with a no-op recorder and the default logger.
func NewDriver(store storage.Store, minifier minify.Minifier) *Driver {
	return &Driver{
		store:    store,
		minifier: minifier,
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
		revision: git.ReadRevision,
	}
}

// WithRecorder sets the metrics recorder.
func (d *Driver) WithRecorder(r metrics.Recorder) *Driver {
	if r == nil {
		r = metrics.NoopRecorder{}
	}
	d.recorder = r
	return d
}

// WithLogger sets the logger.
func (d *Driver) WithLogger(l *slog.Logger) *Driver {
	if l != nil {
		d.logger = l
	}
	return d
}

// WithRevisionFunc replaces revision lookup (for testing).
func (d *Driver) WithRevisionFunc(fn RevisionFunc) *Driver {
	d.revision = fn
	return d
}

// Run executes the complete pipeline. The returned report is never nil; on
// error it describes the outputs written before the failure.
func (d *Driver) Run(ctx context.Context, req Request) (*Report, error) {
	report := newReport(time.Now())
	report.Minifier = d.minifier.Name()

	err := d.run(ctx, req, report)

	report.finish(time.Now())
	d.recorder.ObserveBuildDuration(report.Duration())
	d.recorder.IncBuildOutcome(metrics.BuildOutcomeLabel(report.Outcome))
	observability.Log(ctx, d.logger, levelFor(report.Outcome), "Build finished",
		logfields.Outcome(string(report.Outcome)),
		logfields.DurationMS(float64(report.Duration().Microseconds())/1000))
	return report, err
}

func (d *Driver) run(ctx context.Context, req Request, report *Report) error {
	if req.Config == nil {
		report.Outcome = OutcomeFailed
		return errors.ConfigError("config required").Build()
	}
	cfg := req.Config

	outDir, err := ResolveOutputDir(cfg, req.OutputDir)
	if err != nil {
		report.Outcome = OutcomeFailed
		return err
	}
	report.OutputDir = outDir

	ctx = observability.WithRunID(ctx, uuid.NewString())
	observability.InfoContext(ctx, d.logger, "Build started",
		logfields.Path(outDir), logfields.Engine(d.minifier.Name()))

	man := &manifest.BuildManifest{Tool: version.String(), Minifier: d.minifier.Name()}

	if err := d.runStage(ctx, report, StagePrepareOutput, func(ctx context.Context) error {
		return d.store.EnsureDir(ctx, outDir)
	}); err != nil {
		return err
	}

	var header string
	if err := d.runStage(ctx, report, StageHeader, func(ctx context.Context) error {
		h, rev, err := d.buildHeader(ctx, cfg, man)
		header = h
		report.Revision = rev
		man.Revision = rev
		return err
	}); err != nil {
		return err
	}

	var fragments []assemble.Fragment
	if err := d.runStage(ctx, report, StageLoadFragments, func(ctx context.Context) error {
		var err error
		fragments, err = d.loadFragments(ctx, cfg, man)
		return err
	}); err != nil {
		return err
	}

	for _, target := range Targets(cfg, header, fragments) {
		if err := d.buildTarget(ctx, report, man, cfg, outDir, target); err != nil {
			return err
		}
	}

	if cfg.Manifest == "" {
		return nil
	}
	return d.runStage(ctx, report, StageManifest, func(ctx context.Context) error {
		data, err := man.ToYAML()
		if err != nil {
			return errors.InternalError("encode manifest").WithCause(err).Build()
		}
		digest, err := man.Hash()
		if err != nil {
			return errors.InternalError("hash manifest").WithCause(err).Build()
		}
		path := filepath.Join(outDir, cfg.Manifest)
		if err := d.store.WriteFile(ctx, path, data); err != nil {
			return err
		}
		report.ManifestPath = path
		report.ManifestHash = digest
		observability.InfoContext(ctx, d.logger, "Wrote manifest", logfields.Path(path), logfields.Hash(digest))
		d.recorder.ObserveOutputBytes(cfg.Manifest, metrics.OutputManifest, len(data))
		return nil
	})
}

// buildTarget assembles, writes and optionally minifies one variant.
func (d *Driver) buildTarget(ctx context.Context, report *Report, man *manifest.BuildManifest, cfg *config.Config, outDir string, target assemble.Target) error {
	ctx = observability.WithTarget(ctx, target.Name)

	var text string
	if err := d.runStage(ctx, report, StageAssemble, func(context.Context) error {
		text = assemble.Assemble(target.Plan)
		return nil
	}); err != nil {
		return err
	}

	assembledPath := filepath.Join(outDir, target.File)
	if err := d.runStage(ctx, report, StageWrite, func(ctx context.Context) error {
		data := []byte(text)
		if err := d.store.WriteFile(ctx, assembledPath, data); err != nil {
			return err
		}
		res := TargetResult{
			Name:            target.Name,
			AssembledPath:   assembledPath,
			AssembledBytes:  len(data),
			AssembledDigest: storage.Digest(data),
		}
		report.Targets = append(report.Targets, res)
		man.AddOutput(manifest.Output{
			Target: target.Name, Kind: string(metrics.OutputAssembled),
			Path: assembledPath, SHA256: res.AssembledDigest, Bytes: res.AssembledBytes,
		})
		d.recorder.ObserveOutputBytes(target.Name, metrics.OutputAssembled, len(data))
		observability.InfoContext(ctx, d.logger, "Wrote output", logfields.Path(assembledPath), logfields.Bytes(len(data)))
		return nil
	}); err != nil {
		return err
	}

	if !target.EmitMinified {
		return nil
	}

	minifiedPath := filepath.Join(outDir, target.File+cfg.MinifiedSuffix)
	return d.runStage(ctx, report, StageMinify, func(ctx context.Context) error {
		data, err := d.minifyFile(ctx, assembledPath)
		if err != nil {
			return err
		}
		if err := d.store.WriteFile(ctx, minifiedPath, data); err != nil {
			return err
		}
		res := &report.Targets[len(report.Targets)-1]
		res.MinifiedPath = minifiedPath
		res.MinifiedBytes = len(data)
		res.MinifiedDigest = storage.Digest(data)
		man.AddOutput(manifest.Output{
			Target: target.Name, Kind: string(metrics.OutputMinified),
			Path: minifiedPath, SHA256: res.MinifiedDigest, Bytes: res.MinifiedBytes,
		})
		d.recorder.ObserveOutputBytes(target.Name, metrics.OutputMinified, len(data))
		observability.InfoContext(ctx, d.logger, "Wrote output", logfields.Path(minifiedPath), logfields.Bytes(len(data)))
		return nil
	})
}

// minifyFile re-reads the assembled output at path and minifies it. The
// minified text is therefore always derived from exactly that file.
func (d *Driver) minifyFile(ctx context.Context, path string) ([]byte, error) {
	src, err := d.store.ReadText(ctx, path)
	if err != nil {
		return nil, err
	}
	out, err := d.minifier.Minify(ctx, src)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.MinifyError("minify output").
			WithCause(err).
			WithContext("path", path).
			WithContext("engine", d.minifier.Name()).
			Build()
	}
	return []byte(out), nil
}

// ResolveOutputDir picks the effective output directory relative to cfg.Root.
func ResolveOutputDir(cfg *config.Config, override string) (string, error) {
	if override == "" {
		return cfg.OutputDir, nil
	}
	dir := filepath.Clean(override)
	if filepath.IsAbs(dir) {
		root, err := filepath.Abs(cfg.Root)
		if err != nil {
			return "", errors.WrapError(err, errors.CategoryValidation, "resolve project root").
				WithContext("path", cfg.Root).
				Build()
		}
		rel, err := filepath.Rel(root, dir)
		if err != nil {
			return "", errors.WrapError(err, errors.CategoryValidation, "output directory is outside the project root").
				WithContext("path", override).
				Build()
		}
		dir = rel
	}
	if config.EscapesRoot(dir) {
		return "", errors.ValidationError("output directory is outside the project root").
			WithContext("path", override).
			Build()
	}
	return dir, nil
}
