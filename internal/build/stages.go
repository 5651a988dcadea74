package build

import (
	"context"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/scriptpack/internal/foundation/errors"
	"git.home.luguber.info/inful/scriptpack/internal/logfields"
	"git.home.luguber.info/inful/scriptpack/internal/metrics"
	"git.home.luguber.info/inful/scriptpack/internal/observability"
)

// StageName is a strongly-typed identifier for a pipeline stage.
type StageName string

// Canonical stage names.
const (
	StagePrepareOutput StageName = "prepare_output"
	StageHeader        StageName = "header"
	StageLoadFragments StageName = "load_fragments"
	StageAssemble      StageName = "assemble"
	StageWrite         StageName = "write"
	StageMinify        StageName = "minify"
	StageManifest      StageName = "manifest"
)

// runStage executes fn as stage name, timing it and recording the result.
// Cancellation is checked before fn starts. Any returned error is annotated
// with the stage (and the target when ctx carries one) and aborts the run.
func (d *Driver) runStage(ctx context.Context, report *Report, name StageName, fn func(context.Context) error) error {
	ctx = observability.WithStage(ctx, string(name))
	target := observability.GetContext(ctx).Target

	if err := ctx.Err(); err != nil {
		d.recorder.IncStageResult(string(name), metrics.ResultCanceled)
		report.fail(name, target, OutcomeCanceled)
		return errors.NewError(errors.CategoryCanceled, "build canceled").
			WithCause(err).
			WithContext("stage", string(name)).
			Build()
	}

	t0 := time.Now()
	err := fn(ctx)
	dur := time.Since(t0)

	report.StageDurations[name] += dur
	d.recorder.ObserveStageDuration(string(name), dur)

	if err == nil {
		d.recorder.IncStageResult(string(name), metrics.ResultSuccess)
		observability.DebugContext(ctx, d.logger, "Stage complete",
			logfields.DurationMS(float64(dur.Microseconds())/1000))
		return nil
	}

	if ctx.Err() != nil {
		d.recorder.IncStageResult(string(name), metrics.ResultCanceled)
		report.fail(name, target, OutcomeCanceled)
		return errors.NewError(errors.CategoryCanceled, "build canceled").
			WithCause(err).
			WithContext("stage", string(name)).
			Build()
	}

	d.recorder.IncStageResult(string(name), metrics.ResultFatal)
	report.fail(name, target, OutcomeFailed)
	annotated := annotate(err, name, target)
	attrs := []slog.Attr{logfields.Error(annotated)}
	if ce, ok := errors.AsClassified(annotated); ok {
		if path, ok := ce.Context().GetString("path"); ok {
			attrs = append(attrs, logfields.Path(path))
		}
	}
	observability.ErrorContext(ctx, d.logger, "Stage failed", attrs...)
	return annotated
}

// annotate attaches stage and target context to err, classifying it as
// internal when it carries no category.
func annotate(err error, stage StageName, target string) error {
	ce, ok := errors.AsClassified(err)
	if !ok {
		ce = errors.InternalError("stage failed").WithCause(err).Build()
	}
	ce = ce.WithContext("stage", string(stage))
	if target != "" {
		ce = ce.WithContext("target", target)
	}
	return ce
}

func levelFor(o Outcome) slog.Level {
	switch o {
	case OutcomeSuccess:
		return slog.LevelInfo
	case OutcomeCanceled:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}
