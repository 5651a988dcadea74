package build

import (
	"context"

	"git.home.luguber.info/inful/scriptpack/internal/assemble"
	"git.home.luguber.info/inful/scriptpack/internal/config"
	"git.home.luguber.info/inful/scriptpack/internal/logfields"
	"git.home.luguber.info/inful/scriptpack/internal/manifest"
	"git.home.luguber.info/inful/scriptpack/internal/observability"
	"git.home.luguber.info/inful/scriptpack/internal/storage"
)

// RevisionPrefix starts the header line carrying the stamped revision.
const RevisionPrefix = "Revision: "

// buildHeader reads the license file and, when configured, stamps the
// revision of cfg.Root. The license is recorded as a manifest input. It returns "" when neither is configured.
func (d *Driver) buildHeader(ctx context.Context, cfg *config.Config, man *manifest.BuildManifest) (string, string, error) {
	var lines []string
	if cfg.License != "" {
		text, err := d.store.ReadText(ctx, cfg.License)
		if err != nil {
			return "", "", err
		}
		man.AddInput(manifest.File{Path: cfg.License, SHA256: storage.Digest([]byte(text)), Bytes: len(text)})
		lines = assemble.SplitLicense(text)
	}

	var short string
	if cfg.StampRevision {
		rev, err := d.revision(cfg.Root)
		if err != nil {
			return "", "", err
		}
		short = rev.Short()
		if short == "" {
			observability.WarnContext(ctx, d.logger, "Repository has no commits; revision not stamped", logfields.Path(cfg.Root))
		} else {
			lines = append(lines, RevisionPrefix+short)
		}
	}

	if cfg.License == "" && short == "" {
		return "", "", nil
	}
	return assemble.FormatHeader(lines), short, nil
}

// loadFragments reads every configured fragment once, in order, recording
// each as a manifest input.
func (d *Driver) loadFragments(ctx context.Context, cfg *config.Config, man *manifest.BuildManifest) ([]assemble.Fragment, error) {
	out := make([]assemble.Fragment, 0, len(cfg.Fragments))
	for _, f := range cfg.Fragments {
		frag, text, err := loadFragment(ctx, d.store, f)
		if err != nil {
			return nil, err
		}
		man.AddInput(manifest.File{Path: f.Path, SHA256: storage.Digest([]byte(text)), Bytes: len(text)})
		observability.DebugContext(ctx, d.logger, "Loaded fragment", logfields.Path(f.Path), logfields.Bytes(len(text)))
		out = append(out, frag)
	}
	return out, nil
}

func loadFragment(ctx context.Context, store storage.Store, f config.Fragment) (assemble.Fragment, string, error) {
	text, err := store.ReadText(ctx, f.Path)
	if err != nil {
		return assemble.Fragment{}, "", err
	}
	return assemble.Fragment{
		Path:          f.Path,
		Lines:         assemble.SplitLines(text),
		SkipFirstLine: f.SkipFirstLine,
		Filterable:    f.Filterable,
	}, text, nil
}

// Targets pairs each configured variant with its assembly plan. Fragments are
// shared between plans and never mutated.
func Targets(cfg *config.Config, header string, fragments []assemble.Fragment) []assemble.Target {
	out := make([]assemble.Target, 0, len(cfg.Variants))
	for _, v := range cfg.Variants {
		out = append(out, assemble.Target{
			Name: v.Name,
			File: v.File,
			Plan: assemble.Plan{
				Header:      header,
				Fragments:   fragments,
				StripMarked: v.StripMarked,
				Marker:      cfg.Marker,
			},
			EmitMinified: v.WantsMinified(),
		})
	}
	return out
}
