package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/scriptpack/internal/build"
	"git.home.luguber.info/inful/scriptpack/internal/config"
	"git.home.luguber.info/inful/scriptpack/internal/logfields"
	"git.home.luguber.info/inful/scriptpack/internal/metrics"
	"git.home.luguber.info/inful/scriptpack/internal/minify"
	"git.home.luguber.info/inful/scriptpack/internal/storage"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Output      string `short:"o" help:"Override the configured output directory (must stay inside the project root)"`
	MetricsFile string `name:"metrics-file" help:"Write Prometheus metrics in text format to this file after the build"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	output, err := absOutput(b.Output)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	report, err := RunBuild(ctx, g, cfg, output, b.MetricsFile)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(g.Stdout, report.Summary())
	return nil
}

// RunBuild wires the on-disk store, the configured minifier and optional
// Prometheus metrics into a Driver and runs it.
func RunBuild(ctx context.Context, g *Global, cfg *config.Config, output, metricsFile string) (*build.Report, error) {
	m, err := minify.New(cfg.Minifier)
	if err != nil {
		return nil, err
	}

	driver := build.NewDriver(storage.NewOSStore(cfg.Root), m).WithLogger(g.Logger)

	var reg *prometheus.Registry
	if metricsFile != "" {
		reg = prometheus.NewRegistry()
		driver.WithRecorder(metrics.NewPrometheusRecorder(reg))
	}

	report, runErr := driver.Run(ctx, build.Request{Config: cfg, OutputDir: output})

	if reg != nil {
		if err := metrics.WriteTextfile(reg, metricsFile); err != nil {
			if runErr == nil {
				return report, err
			}
			g.Logger.Warn("Failed to write metrics file", logfields.Path(metricsFile), logfields.Error(err))
		}
	}
	return report, runErr
}
