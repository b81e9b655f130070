package manifest

import (
	"bytes"
	"fmt"
	"strings"
)

// TextStore edits a plain VERSION file whose only content is the version.
type TextStore struct {
	path string
}

// NewTextStore creates a plain text store.
func NewTextStore(path string) *TextStore {
	return &TextStore{path: path}
}

// Path returns the manifest file path.
func (s *TextStore) Path() string {
	return s.path
}

// ReadVersion returns the trimmed file content.
func (s *TextStore) ReadVersion() (string, error) {
	data, _, err := readFile(s.path)
	if err != nil {
		return "", err
	}
	v := strings.TrimSpace(string(data))
	if v == "" {
		return "", fmt.Errorf("%s is empty", s.path)
	}
	return v, nil
}

// WriteVersion replaces the version, keeping surrounding whitespace.
func (s *TextStore) WriteVersion(version string) error {
	data, mode, err := readFile(s.path)
	if err != nil {
		return err
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return fmt.Errorf("%s is empty", s.path)
	}
	start := bytes.Index(data, trimmed)
	updated := make([]byte, 0, len(data)-len(trimmed)+len(version))
	updated = append(updated, data[:start]...)
	updated = append(updated, version...)
	updated = append(updated, data[start+len(trimmed):]...)
	return writeFile(s.path, updated, mode)
}
