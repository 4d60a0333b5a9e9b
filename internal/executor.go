package internal

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// DefaultMaxDepth bounds parser block nesting and renderer recursion
// (nested blocks plus sub-template calls).
const DefaultMaxDepth = 100

// TemplateResolver resolves sub-template names for call directives. The
// template registry is an external collaborator; the executor only asks it
// for compiled trees.
type TemplateResolver interface {
	ResolveTemplate(name string) (*RootNode, bool)
}

// ExecutorConfig configures an Executor.
type ExecutorConfig struct {
	// MaxDepth bounds combined block nesting and call recursion per render.
	// Zero or negative means DefaultMaxDepth.
	MaxDepth int
}

// Executor walks a compiled template tree against a scope and produces
// output text. It holds no per-render state, so one Executor serves any
// number of concurrent renders.
type Executor struct {
	registry *Registry
	config   ExecutorConfig
	logger   *zap.Logger
}

// NewExecutor creates an executor bound to a formatter registry.
func NewExecutor(registry *Registry, config ExecutorConfig, logger *zap.Logger) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.MaxDepth <= 0 {
		config.MaxDepth = DefaultMaxDepth
	}
	return &Executor{
		registry: registry,
		config:   config,
		logger:   logger,
	}
}

// Execute renders the tree depth-first into a buffer. On failure it returns
// the error and an empty string — never a truncated prefix.
func (e *Executor) Execute(ctx context.Context, root *RootNode, scope *Scope, templates TemplateResolver) (string, error) {
	state := &renderState{
		executor:  e,
		ctx:       ctx,
		templates: templates,
	}
	if err := state.walk(root.Nodes, scope); err != nil {
		return "", err
	}
	return state.buf.String(), nil
}

// renderState is the mutable state of one render call: the output buffer
// and the shared depth counter threaded through nested blocks and calls.
type renderState struct {
	executor  *Executor
	ctx       context.Context
	templates TemplateResolver
	buf       strings.Builder
	depth     int
}

func (s *renderState) walk(nodes []Node, scope *Scope) error {
	if err := s.ctx.Err(); err != nil {
		return err
	}

	for _, node := range nodes {
		switch n := node.(type) {
		case *TextNode:
			s.buf.WriteString(n.Text)
		case *ValueNode:
			if err := s.renderValue(n, scope); err != nil {
				return err
			}
		case *IfNode:
			if err := s.renderIf(n, scope); err != nil {
				return err
			}
		case *ForNode:
			if err := s.renderFor(n, scope); err != nil {
				return err
			}
		case *WithNode:
			if err := s.renderWith(n, scope); err != nil {
				return err
			}
		case *CallNode:
			if err := s.renderCall(n, scope); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *renderState) renderValue(n *ValueNode, scope *Scope) error {
	value, err := n.Path.Resolve(scope)
	if err != nil {
		return err
	}

	name := n.Formatter
	if name == "" {
		name = DefaultFormatterName
	}
	formatter, ok := s.executor.registry.Get(name)
	if !ok {
		return NewUnknownFormatterError(name, n.Pos)
	}

	out, err := formatter(value)
	if err != nil {
		return NewFormatError(name, n.Pos, err)
	}
	s.buf.WriteString(out)
	return nil
}

// renderIf resolves the condition and applies the truthiness rule. A
// condition path that fails to resolve counts as Absent, hence falsy.
func (s *renderState) renderIf(n *IfNode, scope *Scope) error {
	cond, err := n.Cond.Resolve(scope)
	if err != nil {
		if ErrorKind(err) == RenderKindPathNotFound {
			cond = AbsentValue()
		} else {
			return err
		}
	}

	if err := s.enter(n.Pos); err != nil {
		return err
	}
	defer s.leave()

	if cond.Truthy() {
		return s.walk(n.Then, scope)
	}
	return s.walk(n.Else, scope)
}

func (s *renderState) renderFor(n *ForNode, scope *Scope) error {
	source, err := n.Source.Resolve(scope)
	if err != nil {
		return err
	}
	if source.Kind() != KindSequence {
		return NewTypeMismatchError(n.Source.String(), KindSequence.String(), source.Kind().String(), n.Pos)
	}

	if err := s.enter(n.Pos); err != nil {
		return err
	}
	defer s.leave()

	for i, elem := range source.Elements() {
		scope.Push(n.Var, elem)
		if n.Index != "" {
			scope.Push(n.Index, IntValue(int64(i)))
		}

		err := s.walk(n.Body, scope)

		if n.Index != "" {
			scope.Pop()
		}
		scope.Pop()

		if err != nil {
			return err
		}
	}
	return nil
}

func (s *renderState) renderWith(n *WithNode, scope *Scope) error {
	value, err := n.Source.Resolve(scope)
	if err != nil {
		return err
	}

	if err := s.enter(n.Pos); err != nil {
		return err
	}
	defer s.leave()

	scope.Push(n.Name, value)
	defer scope.Pop()

	return s.walk(n.Body, scope)
}

// renderCall resolves the named sub-template and renders it against a fresh
// scope rooted at the positional argument, with named arguments bound. The
// shared depth counter carries across the call, bounding recursive and
// mutually recursive template sets.
func (s *renderState) renderCall(n *CallNode, scope *Scope) error {
	if s.templates == nil {
		return NewUnknownTemplateError(n.Template, n.Pos)
	}
	sub, ok := s.templates.ResolveTemplate(n.Template)
	if !ok {
		return NewUnknownTemplateError(n.Template, n.Pos)
	}

	root, err := n.Root.Resolve(scope)
	if err != nil {
		return err
	}

	callScope := NewScope(root)
	for _, arg := range n.Args {
		value, err := arg.Path.Resolve(scope)
		if err != nil {
			return err
		}
		callScope.Push(arg.Name, value)
	}

	if err := s.enter(n.Pos); err != nil {
		return err
	}
	defer s.leave()

	return s.walk(sub.Nodes, callScope)
}

func (s *renderState) enter(pos Position) error {
	s.depth++
	if s.depth > s.executor.config.MaxDepth {
		return NewDepthExceededError(s.executor.config.MaxDepth, pos)
	}
	return nil
}

func (s *renderState) leave() {
	s.depth--
}
