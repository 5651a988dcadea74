package minify

import (
	"context"
	"fmt"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
)

// ESBuild minifies through esbuild's transform API (whitespace and syntax,
// identifiers untouched so top-level names stay reachable).
type ESBuild struct{}

func (ESBuild) Name() string { return EngineESBuild }

func (ESBuild) Minify(ctx context.Context, src string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	result := api.Transform(src, api.TransformOptions{
		Loader:           api.LoaderJS,
		MinifyWhitespace: true,
		MinifySyntax:     true,
		LegalComments:    api.LegalCommentsInline,
	})
	if len(result.Errors) > 0 {
		msgs := make([]string, 0, len(result.Errors))
		for _, m := range result.Errors {
			if m.Location != nil {
				msgs = append(msgs, fmt.Sprintf("%d:%d: %s", m.Location.Line, m.Location.Column, m.Text))
				continue
			}
			msgs = append(msgs, m.Text)
		}
		return "", fmt.Errorf("esbuild: %s", strings.Join(msgs, "; "))
	}
	return string(result.Code), nil
}
