package minify

import (
	"context"

	tdminify "github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/js"
)

const mediaTypeJS = "application/javascript"

// Tdewolff minifies with tdewolff/minify. Variable names are kept so names
// shared between fragments survive.
type Tdewolff struct{}

func (Tdewolff) Name() string { return EngineTdewolff }

func (Tdewolff) Minify(ctx context.Context, src string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m := tdminify.New()
	m.Add(mediaTypeJS, &js.Minifier{KeepVarNames: true})
	return m.String(mediaTypeJS, src)
}
