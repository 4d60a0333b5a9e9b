// Package weft is a small templating engine: it compiles textual templates
// containing literal text interleaved with control directives into an
// immutable tree, then renders that tree against a caller-supplied value.
//
// Directives use {{ and }} delimiters:
//
//	Hello, {{user.name}}!
//
// # Basic Usage
//
// Create an engine, compile a template, render it:
//
//	engine := weft.MustNew()
//	tmpl, err := engine.Parse("Hello, {{user.name}}!")
//	out, err := tmpl.Render(ctx, weft.FromAny(map[string]any{
//	    "user": map[string]any{"name": "Alice"},
//	}))
//	// out: "Hello, Alice!"
//
// # Directive Syntax
//
// Interpolation, optionally through a named formatter:
//
//	{{user.name}}
//	{{user.bio | sanitize}}
//
// Conditionals with else-if chaining:
//
//	{{if user.admin}}admin{{else if user.staff}}staff{{else}}guest{{endif}}
//
// Loops with an optional 0-based index variable:
//
//	{{for item in cart.items}}{{item.title}}{{endfor}}
//	{{for item, i in cart.items}}{{i}}: {{item.title}}{{endfor}}
//
// Scoped bindings:
//
//	{{with user.address as addr}}{{addr.city}}{{endwith}}
//
// Sub-template calls (the template must be registered on the engine):
//
//	{{call row with item, width=layout.width}}
//
// # Values
//
// Templates read an abstract value model with four shapes: scalar, sequence,
// structure, and absent. Construct values explicitly (weft.String, weft.Seq,
// weft.Struct, ...) or convert plain Go data with weft.FromAny.
//
// # Formatters
//
// Interpolations without an explicit formatter use the default formatter,
// which HTML-escapes scalar text. Register custom formatters before
// rendering:
//
//	engine.RegisterFormatter("shout", func(v weft.Value) (string, error) {
//	    return strings.ToUpper(v.Text()) + "!", nil
//	})
//
// # Concurrency
//
// A compiled Template is immutable and safe for concurrent renders; each
// render call builds its own evaluation context. Register formatters and
// templates before rendering begins.
//
// # Errors
//
// All errors are structured values carrying the pipeline stage, a render
// error kind, and line/column/offset position metadata, so embedders can
// build their own diagnostics:
//
//	out, err := tmpl.Render(ctx, root)
//	if weft.IsRenderError(err) {
//	    switch weft.RenderKind(err) {
//	    case weft.RenderKindPathNotFound:
//	        ...
//	    }
//	}
package weft
