package weft

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Manifest error messages.
const (
	ErrMsgManifestRead        = "failed to read bundle manifest"
	ErrMsgManifestParse       = "failed to parse bundle manifest"
	ErrMsgManifestEmpty       = "bundle manifest has no templates"
	ErrMsgManifestEntryName   = "bundle entry is missing a name"
	ErrMsgManifestEntrySource = "bundle entry needs exactly one of source or file"
	ErrMsgManifestFileRead    = "failed to read bundle entry file"
)

// Bundle is a YAML manifest describing a named template set:
//
//	templates:
//	  - name: page
//	    file: page.weft
//	  - name: row
//	    source: "<li>{{item.title}}</li>"
//
// Entries carry either an inline source or a file path relative to the
// manifest location.
type Bundle struct {
	Templates []BundleTemplate `yaml:"templates"`
}

// BundleTemplate is one entry of a Bundle. Exactly one of Source and File
// must be set.
type BundleTemplate struct {
	Name   string `yaml:"name"`
	Source string `yaml:"source,omitempty"`
	File   string `yaml:"file,omitempty"`
}

// LoadBundle parses and validates a bundle manifest from YAML bytes.
func LoadBundle(data []byte) (*Bundle, error) {
	var bundle Bundle
	if err := yaml.Unmarshal(data, &bundle); err != nil {
		return nil, NewStorageError(ErrMsgManifestParse, err)
	}
	if len(bundle.Templates) == 0 {
		return nil, NewStorageError(ErrMsgManifestEmpty, nil)
	}
	for _, entry := range bundle.Templates {
		if entry.Name == "" {
			return nil, NewStorageError(ErrMsgManifestEntryName, nil)
		}
		if (entry.Source == "") == (entry.File == "") {
			return nil, NewStorageError(ErrMsgManifestEntrySource, nil)
		}
	}
	return &bundle, nil
}

// LoadBundleFile reads and parses a bundle manifest from disk.
func LoadBundleFile(path string) (*Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewStorageError(ErrMsgManifestRead, err)
	}
	return LoadBundle(data)
}

// RegisterBundle compiles and registers every template in the bundle.
// File-backed entries are read relative to baseDir. Returns the number of
// templates registered.
func (e *Engine) RegisterBundle(bundle *Bundle, baseDir string) (int, error) {
	registered := 0
	for _, entry := range bundle.Templates {
		source := entry.Source
		if entry.File != "" {
			data, err := os.ReadFile(filepath.Join(baseDir, entry.File))
			if err != nil {
				return registered, NewStorageError(ErrMsgManifestFileRead, err)
			}
			source = string(data)
		}
		if err := e.RegisterTemplate(entry.Name, source); err != nil {
			return registered, err
		}
		registered++
	}
	return registered, nil
}

// RegisterBundleFile loads a manifest from disk and registers its
// templates, resolving file-backed entries relative to the manifest's
// directory.
func (e *Engine) RegisterBundleFile(path string) (int, error) {
	bundle, err := LoadBundleFile(path)
	if err != nil {
		return 0, err
	}
	return e.RegisterBundle(bundle, filepath.Dir(path))
}
