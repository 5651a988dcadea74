package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/scriptpack/internal/foundation/errors"
	"git.home.luguber.info/inful/scriptpack/internal/version"
)

// LogLevelEnv selects the log level when --verbose is not given.
const LogLevelEnv = "SCRIPTPACK_LOG_LEVEL"

// exitUsage is returned for command line parse errors.
const exitUsage = 2

// Global context passed to subcommands.
type Global struct {
	Logger *slog.Logger
	Stdout io.Writer
	Stderr io.Writer
}

// CLI definition & global flags - used by commands that need access to root config.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"scriptpack.yaml" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build BuildCmd `cmd:"" help:"Assemble, write and minify every configured variant"`
	Plan  PlanCmd  `cmd:"" help:"Print the resolved build plan without reading sources"`
	Init  InitCmd  `cmd:"" help:"Initialize a new configuration file"`
}

// AfterApply runs after flag parsing; setup logging once.
func (c *CLI) AfterApply(g *Global) error {
	level := parseLogLevel(c.Verbose)
	g.Logger = slog.New(slog.NewTextHandler(g.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(g.Logger)
	return nil
}

// parseLogLevel honors --verbose first, then SCRIPTPACK_LOG_LEVEL, then info.
func parseLogLevel(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	switch strings.ToLower(strings.TrimSpace(os.Getenv(LogLevelEnv))) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Execute parses args, runs the selected command and returns the process
// exit code. Classified errors map to exit codes through CLIErrorAdapter.
func Execute(args []string, stdout, stderr io.Writer) int {
	cli := &CLI{}
	global := &Global{Logger: slog.Default(), Stdout: stdout, Stderr: stderr}

	exitCode := -1
	parser, err := kong.New(cli,
		kong.Name("scriptpack"),
		kong.Description("Assemble ordered JavaScript fragments into distributable, minified scripts."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(code int) {
			if exitCode < 0 {
				exitCode = code
			}
		}),
		kong.Vars{"version": version.String()},
		kong.Bind(global),
	)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "scriptpack: %v\n", err)
		return 10
	}

	kctx, err := parser.Parse(args)
	if exitCode >= 0 {
		return exitCode
	}
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "scriptpack: %v\n", err)
		return exitUsage
	}

	if err := kctx.Run(); err != nil {
		code := 1
		errors.NewCLIErrorAdapter(cli.Verbose, global.Logger).
			WithOutput(stderr).
			WithExit(func(c int) { code = c }).
			HandleError(err)
		return code
	}
	return 0
}

// absOutput turns a relative --output into an absolute path against the
// working directory. The build resolves it against the project root.
func absOutput(output string) (string, error) {
	if output == "" || filepath.IsAbs(output) {
		return output, nil
	}
	abs, err := filepath.Abs(output)
	if err != nil {
		return "", errors.WrapError(err, errors.CategoryValidation, "resolve output directory").
			WithContext("path", output).
			Build()
	}
	return abs, nil
}
