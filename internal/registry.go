package internal

import (
	"sort"
	"sync"

	"go.uber.org/zap"
)

// DefaultFormatterName is the reserved name of the formatter applied when an
// interpolation names none.
const DefaultFormatterName = "default"

// Formatter converts a value into display text at interpolation time.
type Formatter func(Value) (string, error)

// Registry maps formatter names to formatter functions. Registration is an
// embedding-time operation; the registry is read-only during a render call.
// Re-registering a name overwrites the previous entry (last-write-wins).
type Registry struct {
	mu         sync.RWMutex
	formatters map[string]Formatter
	logger     *zap.Logger
}

// NewRegistry creates an empty formatter registry.
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		formatters: make(map[string]Formatter),
		logger:     logger,
	}
}

// Register adds or replaces the formatter under name.
func (r *Registry) Register(name string, f Formatter) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.formatters[name]; exists {
		r.logger.Debug("overwriting formatter", zap.String("formatter", name))
	}
	r.formatters[name] = f
}

// Get returns the formatter registered under name.
func (r *Registry) Get(name string) (Formatter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.formatters[name]
	return f, ok
}

// Has reports whether a formatter is registered under name.
func (r *Registry) Has(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// Names returns all registered formatter names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.formatters))
	for name := range r.formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of registered formatters.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.formatters)
}
