package weft

import (
	"context"
	"sort"
	"sync"
	"time"
)

// StoredTemplate is a template source with metadata held by a storage
// backend. Storage is a collaborator of the engine core: it feeds the
// sub-template registry (see Engine.LoadFromStorage) but the renderer never
// touches it.
type StoredTemplate struct {
	// Name is the template name used for lookups and call directives.
	Name string `json:"name"`

	// Source is the raw template source code.
	Source string `json:"source"`

	// Metadata contains arbitrary key-value pairs for user-defined data.
	Metadata map[string]string `json:"metadata,omitempty"`

	// CreatedAt is when the template was first saved.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is when the template was last modified.
	UpdatedAt time.Time `json:"updated_at"`
}

// Clone returns a deep copy.
func (t *StoredTemplate) Clone() *StoredTemplate {
	if t == nil {
		return nil
	}
	out := *t
	if t.Metadata != nil {
		out.Metadata = make(map[string]string, len(t.Metadata))
		for k, v := range t.Metadata {
			out.Metadata[k] = v
		}
	}
	return &out
}

// TemplateStorage is the interface for pluggable template source backends.
// Implementations must be safe for concurrent use.
//
// The interface follows patterns from database/sql for familiarity:
// context for cancellation and timeouts, explicit error returns, Close for
// resource cleanup.
type TemplateStorage interface {
	// Get retrieves a stored template by name.
	// Returns a storage not-found error if the name doesn't exist.
	Get(ctx context.Context, name string) (*StoredTemplate, error)

	// Save stores a template, overwriting any existing entry with the same
	// name. CreatedAt/UpdatedAt are maintained by the implementation.
	Save(ctx context.Context, tmpl *StoredTemplate) error

	// Delete removes a template by name.
	// Returns a storage not-found error if the name doesn't exist.
	Delete(ctx context.Context, name string) error

	// List returns all stored template names in sorted order.
	List(ctx context.Context) ([]string, error)

	// Close releases backend resources. Operations after Close fail.
	Close() error
}

// StorageDriver creates TemplateStorage instances from a connection string.
type StorageDriver interface {
	Open(connectionString string) (TemplateStorage, error)
}

var (
	storageDriversMu sync.RWMutex
	storageDrivers   = make(map[string]StorageDriver)
)

// RegisterStorageDriver makes a storage driver available under name.
// Called from driver init functions; last registration wins.
func RegisterStorageDriver(name string, driver StorageDriver) {
	storageDriversMu.Lock()
	defer storageDriversMu.Unlock()
	storageDrivers[name] = driver
}

// OpenStorage opens a storage backend by driver name ("memory",
// "filesystem", "postgres") and connection string.
func OpenStorage(driverName, connectionString string) (TemplateStorage, error) {
	storageDriversMu.RLock()
	driver, ok := storageDrivers[driverName]
	storageDriversMu.RUnlock()

	if !ok {
		return nil, NewStorageDriverUnknownError(driverName)
	}
	return driver.Open(connectionString)
}

// ListStorageDrivers returns the registered driver names in sorted order.
func ListStorageDrivers() []string {
	storageDriversMu.RLock()
	defer storageDriversMu.RUnlock()

	names := make([]string, 0, len(storageDrivers))
	for name := range storageDrivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
