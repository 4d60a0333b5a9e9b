package weft

import (
	"context"

	"github.com/itsatony/go-weft/internal"
)

// Template is a compiled template: an immutable tree produced by
// Engine.Parse. One Template may be rendered concurrently from multiple
// goroutines; each render call builds its own evaluation context.
type Template struct {
	source string
	ast    *internal.RootNode
	engine *Engine
}

func newTemplate(source string, ast *internal.RootNode, engine *Engine) *Template {
	return &Template{
		source: source,
		ast:    ast,
		engine: engine,
	}
}

// Render walks the compiled tree against root and returns the output text.
// On failure it returns the error and an empty string, never truncated
// partial output. root becomes the implicit current value for unrooted
// paths.
func (t *Template) Render(ctx context.Context, root Value) (string, error) {
	scope := internal.NewScope(root)
	return t.engine.executor.Execute(ctx, t.ast, scope, t.engine)
}

// RenderAny is a convenience wrapper converting plain Go data through
// FromAny before rendering.
func (t *Template) RenderAny(ctx context.Context, data any) (string, error) {
	return t.Render(ctx, FromAny(data))
}

// Source returns the original template source string.
func (t *Template) Source() string {
	return t.source
}
