package commands

import (
	"git.home.luguber.info/inful/scriptpack/internal/build"
	"git.home.luguber.info/inful/scriptpack/internal/config"
)

// PlanCmd implements the 'plan' command.
type PlanCmd struct {
	Output string `short:"o" help:"Override the configured output directory"`
	Format string `short:"f" help:"Output format (text, yaml)" enum:"text,yaml" default:"text"`
}

func (p *PlanCmd) Run(g *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	output, err := absOutput(p.Output)
	if err != nil {
		return err
	}
	view, err := build.Describe(cfg, output)
	if err != nil {
		return err
	}
	if p.Format == "yaml" {
		return view.WriteYAML(g.Stdout)
	}
	return view.WriteText(g.Stdout)
}
