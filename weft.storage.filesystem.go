package weft

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// FilesystemStorage implements TemplateStorage over a directory: one
// ".weft" file per template, the file stem being the template name. It is
// the natural backend for templates kept under version control. Metadata is
// not persisted by this backend; timestamps come from file modification
// times.
type FilesystemStorage struct {
	root   string
	mu     sync.RWMutex
	closed bool
}

// FilesystemStorageDriver is the driver for creating FilesystemStorage
// instances. The connection string is the root directory path.
type FilesystemStorageDriver struct{}

func init() {
	RegisterStorageDriver(StorageDriverNameFilesystem, &FilesystemStorageDriver{})
}

// Open creates a FilesystemStorage rooted at the given directory.
func (d *FilesystemStorageDriver) Open(connectionString string) (TemplateStorage, error) {
	return NewFilesystemStorage(connectionString)
}

// NewFilesystemStorage creates a filesystem template storage rooted at dir,
// creating the directory if needed.
func NewFilesystemStorage(dir string) (*FilesystemStorage, error) {
	if dir == "" {
		return nil, NewStorageError(ErrMsgStorageOpenFailed, nil)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, NewStorageError(ErrMsgStorageOpenFailed, err)
	}
	return &FilesystemStorage{root: dir}, nil
}

// validName rejects names that would escape the root directory or collide
// with path syntax.
func validName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	if strings.ContainsAny(name, `/\`) {
		return false
	}
	return true
}

func (s *FilesystemStorage) path(name string) string {
	return filepath.Join(s.root, name+FilesystemTemplateExt)
}

// Get retrieves a stored template by name.
func (s *FilesystemStorage) Get(ctx context.Context, name string) (*StoredTemplate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !validName(name) {
		return nil, NewStorageInvalidNameError(name)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageClosedError()
	}

	path := s.path(name)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NewStorageTemplateNotFoundError(name)
		}
		return nil, NewStorageError(ErrMsgStorageIO, err)
	}

	tmpl := &StoredTemplate{
		Name:   name,
		Source: string(data),
	}
	if info, err := os.Stat(path); err == nil {
		tmpl.CreatedAt = info.ModTime().UTC()
		tmpl.UpdatedAt = info.ModTime().UTC()
	}
	return tmpl, nil
}

// Save writes the template source to its file, overwriting any existing one.
func (s *FilesystemStorage) Save(ctx context.Context, tmpl *StoredTemplate) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if tmpl == nil || !validName(tmpl.Name) {
		name := ""
		if tmpl != nil {
			name = tmpl.Name
		}
		return NewStorageInvalidNameError(name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStorageClosedError()
	}

	if err := os.WriteFile(s.path(tmpl.Name), []byte(tmpl.Source), 0o644); err != nil {
		return NewStorageError(ErrMsgStorageIO, err)
	}
	return nil
}

// Delete removes a template's file.
func (s *FilesystemStorage) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !validName(name) {
		return NewStorageInvalidNameError(name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStorageClosedError()
	}

	err := os.Remove(s.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return NewStorageTemplateNotFoundError(name)
		}
		return NewStorageError(ErrMsgStorageIO, err)
	}
	return nil
}

// List returns the names of all ".weft" files under the root, sorted.
func (s *FilesystemStorage) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageClosedError()
	}

	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, NewStorageError(ErrMsgStorageIO, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !strings.HasSuffix(entry.Name(), FilesystemTemplateExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), FilesystemTemplateExt))
	}
	sort.Strings(names)
	return names, nil
}

// Close marks the storage closed. Subsequent operations fail.
func (s *FilesystemStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	return nil
}
