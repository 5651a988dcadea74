// Package minify wraps the JavaScript minifiers scriptpack can hand assembled text to.
package minify

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"git.home.luguber.info/inful/scriptpack/internal/foundation/errors"
)

// Engine names accepted in configuration.
const (
	EngineESBuild  = "esbuild"
	EngineTdewolff = "tdewolff"
)

// Minifier reduces assembled script text to a smaller, behaviorally equivalent text.
type Minifier interface {
	Name() string
	Minify(ctx context.Context, src string) (string, error)
}

// Func adapts a plain function to the Minifier interface.
type Func struct {
	Label string
	Fn    func(src string) (string, error)
}

func (f Func) Name() string { return f.Label }

func (f Func) Minify(ctx context.Context, src string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return f.Fn(src)
}

var engines = map[string]func() Minifier{
	EngineESBuild:  func() Minifier { return ESBuild{} },
	EngineTdewolff: func() Minifier { return Tdewolff{} },
}

// Engines lists the registered engine names in sorted order.
func Engines() []string {
	names := make([]string, 0, len(engines))
	for name := range engines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New resolves a minifier by engine name. An empty name selects esbuild.
func New(engine string) (Minifier, error) {
	if engine == "" {
		engine = EngineESBuild
	}
	ctor, ok := engines[strings.ToLower(engine)]
	if !ok {
		return nil, errors.ConfigError(fmt.Sprintf("unknown minifier engine %q", engine)).
			WithContext("supported", strings.Join(Engines(), ",")).
			Build()
	}
	return ctor(), nil
}
