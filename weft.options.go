package weft

import (
	"go.uber.org/zap"
)

// Option is a functional option for configuring the Engine.
type Option func(*engineConfig)

// engineConfig holds the internal configuration for an Engine.
type engineConfig struct {
	openDelim  string
	closeDelim string
	maxDepth   int
	logger     *zap.Logger
	formatters []namedFormatter
}

type namedFormatter struct {
	name string
	f    Formatter
}

// defaultEngineConfig returns the default engine configuration.
func defaultEngineConfig() *engineConfig {
	return &engineConfig{
		openDelim:  DefaultOpenDelim,
		closeDelim: DefaultCloseDelim,
		maxDepth:   DefaultMaxDepth,
		logger:     nil,
	}
}

// WithDelimiters sets custom delimiters for directives.
// Default: "{{" and "}}"
func WithDelimiters(open, close string) Option {
	return func(c *engineConfig) {
		if open != "" {
			c.openDelim = open
		}
		if close != "" {
			c.closeDelim = close
		}
	}
}

// WithMaxDepth sets the maximum nesting depth for both parsing (block
// nesting) and rendering (nested blocks plus sub-template calls).
// Default: 100
func WithMaxDepth(depth int) Option {
	return func(c *engineConfig) {
		c.maxDepth = depth
	}
}

// WithLogger sets the logger for the engine.
// Default: nil (no logging)
func WithLogger(logger *zap.Logger) Option {
	return func(c *engineConfig) {
		c.logger = logger
	}
}

// WithFormatter registers a custom formatter at construction time,
// equivalent to calling RegisterFormatter after New. A name colliding with
// a built-in replaces it.
func WithFormatter(name string, f Formatter) Option {
	return func(c *engineConfig) {
		c.formatters = append(c.formatters, namedFormatter{name: name, f: f})
	}
}
