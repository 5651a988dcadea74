package build

import (
	"fmt"
	"io"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/scriptpack/internal/config"
)

// PlanView is the resolved build plan as printed by `scriptpack plan`.
// Describing a plan never touches the store.
type PlanView struct {
	Root          string       `yaml:"root"`
	OutputDir     string       `yaml:"output_dir"`
	License       string       `yaml:"license,omitempty"`
	StampRevision bool         `yaml:"stamp_revision"`
	Marker        string       `yaml:"marker"`
	Minifier      string       `yaml:"minifier"`
	Manifest      string       `yaml:"manifest,omitempty"`
	Targets       []TargetView `yaml:"targets"`
}

// TargetView describes one variant and its fragments.
type TargetView struct {
	Name        string         `yaml:"name"`
	File        string         `yaml:"file"`
	Minified    string         `yaml:"minified,omitempty"`
	StripMarked bool           `yaml:"strip_marked"`
	Fragments   []FragmentView `yaml:"fragments"`
}

// FragmentView describes one fragment as seen by a target.
type FragmentView struct {
	Path          string `yaml:"path"`
	SkipFirstLine bool   `yaml:"skip_first_line"`
	Filtered      bool   `yaml:"filtered"`
}

// Describe resolves the plan for cfg without reading any input.
func Describe(cfg *config.Config, outputOverride string) (*PlanView, error) {
	outDir, err := ResolveOutputDir(cfg, outputOverride)
	if err != nil {
		return nil, err
	}
	view := &PlanView{
		Root:          cfg.Root,
		OutputDir:     outDir,
		License:       cfg.License,
		StampRevision: cfg.StampRevision,
		Marker:        cfg.Marker,
		Minifier:      cfg.Minifier,
	}
	if cfg.Manifest != "" {
		view.Manifest = filepath.Join(outDir, cfg.Manifest)
	}
	for _, v := range cfg.Variants {
		tv := TargetView{
			Name:        v.Name,
			File:        filepath.Join(outDir, v.File),
			StripMarked: v.StripMarked,
		}
		if v.WantsMinified() {
			tv.Minified = filepath.Join(outDir, cfg.MinifiedFile(v))
		}
		for _, f := range cfg.Fragments {
			tv.Fragments = append(tv.Fragments, FragmentView{
				Path:          f.Path,
				SkipFirstLine: f.SkipFirstLine,
				Filtered:      f.Filterable && v.StripMarked,
			})
		}
		view.Targets = append(view.Targets, tv)
	}
	return view, nil
}

// WriteYAML renders the plan as YAML.
func (p *PlanView) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("encode plan: %w", err)
	}
	return enc.Close()
}

// WriteText renders the plan for humans.
func (p *PlanView) WriteText(w io.Writer) error {
	ew := &errWriter{w: w}
	ew.printf("root:      %s\n", p.Root)
	ew.printf("output:    %s\n", p.OutputDir)
	ew.printf("minifier:  %s\n", p.Minifier)
	if p.License != "" {
		ew.printf("license:   %s\n", p.License)
	}
	if p.StampRevision {
		ew.printf("revision:  stamped\n")
	}
	ew.printf("marker:    %q\n", p.Marker)
	for _, t := range p.Targets {
		ew.printf("\n%s -> %s\n", t.Name, t.File)
		if t.Minified != "" {
			ew.printf("  minified: %s\n", t.Minified)
		}
		for i, f := range t.Fragments {
			var flags string
			if f.SkipFirstLine {
				flags += " skip-first-line"
			}
			if f.Filtered {
				flags += " strip-marked"
			}
			ew.printf("  %d. %s%s\n", i+1, f.Path, flags)
		}
	}
	if p.Manifest != "" {
		ew.printf("\nmanifest: %s\n", p.Manifest)
	}
	return ew.err
}

type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}
