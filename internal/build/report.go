package build

import (
	"fmt"
	"strings"
	"time"

	"git.home.luguber.info/inful/scriptpack/internal/config"
)

// Request contains all inputs required to execute a build.
type Request struct {
	// Config is the loaded, validated configuration.
	Config *config.Config

	// OutputDir overrides Config.OutputDir when set. Relative values are
	// resolved against Config.Root; the result must stay inside it.
	OutputDir string
}

// Outcome is the final status of a run.
type Outcome string

const (
	OutcomeSuccess  Outcome = "success"
	OutcomeFailed   Outcome = "failed"
	OutcomeCanceled Outcome = "canceled"
)

// TargetResult records what was written for one variant.
type TargetResult struct {
	Name string

	AssembledPath   string
	AssembledBytes  int
	AssembledDigest string

	// Minified fields stay empty when the variant emits no minified sibling
	// or the run stopped before it was written.
	MinifiedPath   string
	MinifiedBytes  int
	MinifiedDigest string
}

// Report is the outcome of Driver.Run. On failure it lists what was written
// before the failing stage.
type Report struct {
	Outcome   Outcome
	OutputDir string
	Minifier  string
	Revision  string

	Targets      []TargetResult
	ManifestPath string
	// ManifestHash is BuildManifest.Hash of the written manifest. Equal hashes
	// mean the same bytes were written from the same sources.
	ManifestHash string

	StageDurations map[StageName]time.Duration
	FailedStage    StageName
	FailedTarget   string

	StartTime time.Time
	EndTime   time.Time
}

func newReport(start time.Time) *Report {
	return &Report{
		StageDurations: make(map[StageName]time.Duration),
		StartTime:      start,
	}
}

func (r *Report) fail(stage StageName, target string, outcome Outcome) {
	r.Outcome = outcome
	r.FailedStage = stage
	r.FailedTarget = target
}

func (r *Report) finish(end time.Time) {
	r.EndTime = end
	if r.Outcome == "" {
		r.Outcome = OutcomeSuccess
	}
}

// Duration is the wall time of the run.
func (r *Report) Duration() time.Duration {
	return r.EndTime.Sub(r.StartTime)
}

// Written lists every file path written, in write order.
func (r *Report) Written() []string {
	var out []string
	for _, t := range r.Targets {
		if t.AssembledPath != "" {
			out = append(out, t.AssembledPath)
		}
		if t.MinifiedPath != "" {
			out = append(out, t.MinifiedPath)
		}
	}
	if r.ManifestPath != "" {
		out = append(out, r.ManifestPath)
	}
	return out
}

// Summary renders a short human-readable description of the run.
func (r *Report) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "build %s in %s", r.Outcome, r.Duration().Round(time.Millisecond))
	if r.FailedStage != "" {
		fmt.Fprintf(&b, " (stage %s", r.FailedStage)
		if r.FailedTarget != "" {
			fmt.Fprintf(&b, ", target %s", r.FailedTarget)
		}
		b.WriteString(")")
	}
	for _, t := range r.Targets {
		fmt.Fprintf(&b, "\n  %s: %s (%d bytes)", t.Name, t.AssembledPath, t.AssembledBytes)
		if t.MinifiedPath != "" {
			fmt.Fprintf(&b, ", %s (%d bytes)", t.MinifiedPath, t.MinifiedBytes)
		}
	}
	if r.ManifestPath != "" {
		fmt.Fprintf(&b, "\n  manifest: %s (%s)", r.ManifestPath, r.ManifestHash)
	}
	return b.String()
}
