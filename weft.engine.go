package weft

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/itsatony/go-weft/internal"
)

// Engine is the main entry point: it compiles templates, owns the formatter
// registry, and acts as the sub-template registry for call directives.
type Engine struct {
	registry  *internal.Registry
	templates map[string]*Template
	tmplMu    sync.RWMutex
	config    *engineConfig
	executor  *internal.Executor
	logger    *zap.Logger
}

// New creates a new Engine with the given options. The built-in formatters
// (default, raw, upper, lower, trim, json, sanitize) are pre-registered.
func New(opts ...Option) (*Engine, error) {
	config := defaultEngineConfig()
	for _, opt := range opts {
		opt(config)
	}

	logger := config.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	registry := internal.NewRegistry(logger)
	internal.RegisterBuiltins(registry)

	executor := internal.NewExecutor(registry, internal.ExecutorConfig{
		MaxDepth: config.maxDepth,
	}, logger)

	engine := &Engine{
		registry:  registry,
		templates: make(map[string]*Template),
		config:    config,
		executor:  executor,
		logger:    logger,
	}

	for _, nf := range config.formatters {
		if err := engine.RegisterFormatter(nf.name, nf.f); err != nil {
			return nil, err
		}
	}

	return engine, nil
}

// MustNew creates a new Engine and panics if there's an error.
func MustNew(opts ...Option) *Engine {
	engine, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return engine
}

// Parse compiles a template source string. The returned Template is
// immutable and can be rendered any number of times, concurrently.
func (e *Engine) Parse(source string) (*Template, error) {
	lexer := internal.NewLexer(source, internal.LexerConfig{
		OpenDelim:  e.config.openDelim,
		CloseDelim: e.config.closeDelim,
	}, e.logger)

	tokens, err := lexer.Tokenize()
	if err != nil {
		return nil, err
	}

	parser := internal.NewParser(tokens, source, e.config.maxDepth, e.logger)
	ast, err := parser.Parse()
	if err != nil {
		return nil, err
	}

	return newTemplate(source, ast, e), nil
}

// Render is a convenience method that compiles and renders in one step.
// For templates rendered more than once, use Parse.
func (e *Engine) Render(ctx context.Context, source string, root Value) (string, error) {
	tmpl, err := e.Parse(source)
	if err != nil {
		return "", err
	}
	return tmpl.Render(ctx, root)
}

// RegisterFormatter adds or replaces a named formatter. Re-registering a
// name overwrites the previous entry; registration must finish before
// rendering begins.
func (e *Engine) RegisterFormatter(name string, f Formatter) error {
	if name == "" {
		return NewFormatterRegistrationError(ErrMsgEmptyFormatterName)
	}
	if f == nil {
		return NewFormatterRegistrationError(ErrMsgNilFormatter)
	}
	e.registry.Register(name, internal.Formatter(f))
	return nil
}

// MustRegisterFormatter registers a formatter and panics on error.
func (e *Engine) MustRegisterFormatter(name string, f Formatter) {
	if err := e.RegisterFormatter(name, f); err != nil {
		panic(err)
	}
}

// HasFormatter checks if a formatter is registered under name.
func (e *Engine) HasFormatter(name string) bool {
	return e.registry.Has(name)
}

// ListFormatters returns all registered formatter names in sorted order.
func (e *Engine) ListFormatters() []string {
	return e.registry.Names()
}

// RegisterTemplate compiles and registers a named sub-template for call
// directives. Returns an error if a template with the same name exists.
func (e *Engine) RegisterTemplate(name string, source string) error {
	if name == "" {
		return NewEmptyTemplateNameError()
	}

	e.tmplMu.Lock()
	defer e.tmplMu.Unlock()

	if _, exists := e.templates[name]; exists {
		return NewTemplateExistsError(name)
	}

	tmpl, err := e.Parse(source)
	if err != nil {
		return err
	}

	e.templates[name] = tmpl
	return nil
}

// MustRegisterTemplate registers a template and panics on error.
func (e *Engine) MustRegisterTemplate(name string, source string) {
	if err := e.RegisterTemplate(name, source); err != nil {
		panic(err)
	}
}

// UnregisterTemplate removes a registered template by name.
// Returns true if the template existed and was removed.
func (e *Engine) UnregisterTemplate(name string) bool {
	e.tmplMu.Lock()
	defer e.tmplMu.Unlock()

	if _, exists := e.templates[name]; exists {
		delete(e.templates, name)
		return true
	}
	return false
}

// GetTemplate retrieves a registered template by name.
func (e *Engine) GetTemplate(name string) (*Template, bool) {
	e.tmplMu.RLock()
	defer e.tmplMu.RUnlock()

	tmpl, ok := e.templates[name]
	return tmpl, ok
}

// HasTemplate checks if a template is registered under name.
func (e *Engine) HasTemplate(name string) bool {
	_, ok := e.GetTemplate(name)
	return ok
}

// ListTemplates returns all registered template names in sorted order.
func (e *Engine) ListTemplates() []string {
	e.tmplMu.RLock()
	defer e.tmplMu.RUnlock()

	names := make([]string, 0, len(e.templates))
	for name := range e.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TemplateCount returns the number of registered templates.
func (e *Engine) TemplateCount() int {
	e.tmplMu.RLock()
	defer e.tmplMu.RUnlock()

	return len(e.templates)
}

// LoadFromStorage compiles and registers every template in the given
// storage backend. Returns the number of templates registered. Templates
// already registered under the same name cause a registration error; load
// storage-backed template sets before registering ad-hoc ones.
func (e *Engine) LoadFromStorage(ctx context.Context, storage TemplateStorage) (int, error) {
	names, err := storage.List(ctx)
	if err != nil {
		return 0, err
	}

	loaded := 0
	for _, name := range names {
		stored, err := storage.Get(ctx, name)
		if err != nil {
			return loaded, err
		}
		if err := e.RegisterTemplate(stored.Name, stored.Source); err != nil {
			return loaded, err
		}
		loaded++
	}

	e.logger.Debug("loaded templates from storage", zap.Int("count", loaded))
	return loaded, nil
}

// ResolveTemplate implements the executor's template resolver: it maps a
// call directive's name to a compiled tree.
func (e *Engine) ResolveTemplate(name string) (*internal.RootNode, bool) {
	tmpl, ok := e.GetTemplate(name)
	if !ok {
		return nil, false
	}
	return tmpl.ast, true
}

// MaxDepth returns the configured maximum nesting depth.
func (e *Engine) MaxDepth() int {
	return e.config.maxDepth
}
