// Package manifest reads and rewrites the version field of a project
// manifest while leaving every other byte of the file untouched.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store is a manifest file holding a single version field.
type Store interface {
	// Path returns the manifest file path.
	Path() string

	// ReadVersion returns the current value of the version field.
	ReadVersion() (string, error)

	// WriteVersion replaces the version field, preserving all other content.
	WriteVersion(version string) error
}

// Open returns the Store for path, chosen by file name and extension.
// Field is a dotted path to the version field; empty selects the default
// for the format.
func Open(path, field string) (Store, error) {
	base := strings.ToLower(filepath.Base(path))

	switch {
	case strings.HasSuffix(base, ".json"):
		return NewJSONStore(path, field), nil
	case strings.HasSuffix(base, ".yaml"), strings.HasSuffix(base, ".yml"):
		return NewYAMLStore(path, field), nil
	case strings.HasSuffix(base, ".toml"):
		return NewTOMLStore(path, field), nil
	case base == "version", strings.HasSuffix(base, ".txt"):
		return NewTextStore(path), nil
	default:
		return nil, fmt.Errorf("unsupported manifest type: %s", path)
	}
}

// readFile reads path and returns its contents and permissions so rewrites
// keep the original mode.
func readFile(path string) ([]byte, os.FileMode, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to stat manifest: %w", err)
	}
	data, err := os.ReadFile(path) //nolint:gosec // path is operator supplied
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read manifest: %w", err)
	}
	return data, info.Mode().Perm(), nil
}

func writeFile(path string, data []byte, mode os.FileMode) error {
	if err := os.WriteFile(path, data, mode); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

func splitField(field string) []string {
	return strings.Split(field, ".")
}
