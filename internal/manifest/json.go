package manifest

import (
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// JSONStore edits a JSON manifest such as package.json.
type JSONStore struct {
	path  string
	field string
}

// NewJSONStore creates a JSON store. The field uses gjson path syntax and
// defaults to "version".
func NewJSONStore(path, field string) *JSONStore {
	if field == "" {
		field = "version"
	}
	return &JSONStore{path: path, field: field}
}

// Path returns the manifest file path.
func (s *JSONStore) Path() string {
	return s.path
}

// ReadVersion returns the version string stored at the field.
func (s *JSONStore) ReadVersion() (string, error) {
	data, _, err := readFile(s.path)
	if err != nil {
		return "", err
	}
	return s.lookup(data)
}

// WriteVersion sets the field to version. sjson rewrites only the value
// bytes, so indentation and key order are preserved.
func (s *JSONStore) WriteVersion(version string) error {
	data, mode, err := readFile(s.path)
	if err != nil {
		return err
	}
	if _, err := s.lookup(data); err != nil {
		return err
	}

	updated, err := sjson.SetBytes(data, s.field, version)
	if err != nil {
		return fmt.Errorf("failed to set %s in %s: %w", s.field, s.path, err)
	}
	return writeFile(s.path, updated, mode)
}

func (s *JSONStore) lookup(data []byte) (string, error) {
	if !gjson.ValidBytes(data) {
		return "", fmt.Errorf("%s is not valid JSON", s.path)
	}
	r := gjson.GetBytes(data, s.field)
	if !r.Exists() {
		return "", fmt.Errorf("%s has no %q field", s.path, s.field)
	}
	if r.Type != gjson.String {
		return "", fmt.Errorf("%s field %q is not a string", s.path, s.field)
	}
	return r.String(), nil
}
