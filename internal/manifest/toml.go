package manifest

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// TOMLStore edits a TOML manifest such as Cargo.toml or pyproject.toml.
type TOMLStore struct {
	path  string
	field string
}

// NewTOMLStore creates a TOML store. An empty field selects package.version
// for Cargo.toml and project.version otherwise.
func NewTOMLStore(path, field string) *TOMLStore {
	if field == "" {
		field = "project.version"
		if strings.EqualFold(filepath.Base(path), "Cargo.toml") {
			field = "package.version"
		}
	}
	return &TOMLStore{path: path, field: field}
}

// Path returns the manifest file path.
func (s *TOMLStore) Path() string {
	return s.path
}

// ReadVersion returns the string value at the field.
func (s *TOMLStore) ReadVersion() (string, error) {
	data, _, err := readFile(s.path)
	if err != nil {
		return "", err
	}
	return s.lookup(data)
}

var tomlKeyValue = regexp.MustCompile(`^(\s*([A-Za-z0-9_-]+)\s*=\s*)(["'])([^"']*)(["'])(.*)$`)

// WriteVersion rewrites the value on the key's line inside its table, then
// parses the result to make sure the document is still valid.
func (s *TOMLStore) WriteVersion(version string) error {
	data, mode, err := readFile(s.path)
	if err != nil {
		return err
	}
	if _, err := s.lookup(data); err != nil {
		return err
	}

	parts := splitField(s.field)
	table, key := strings.Join(parts[:len(parts)-1], "."), parts[len(parts)-1]

	lines := strings.SplitAfter(string(data), "\n")
	current := ""
	replaced := false
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "[") {
			current = strings.TrimSpace(strings.Trim(trimmed, "[]"))
			continue
		}
		if current != table {
			continue
		}
		m := tomlKeyValue.FindStringSubmatch(strings.TrimRight(line, "\r\n"))
		if m == nil || m[2] != key {
			continue
		}
		eol := line[len(strings.TrimRight(line, "\r\n")):]
		lines[i] = m[1] + m[3] + version + m[5] + m[6] + eol
		replaced = true
		break
	}
	if !replaced {
		return fmt.Errorf("%s: %q is not a simple string assignment", s.path, s.field)
	}

	updated := []byte(strings.Join(lines, ""))
	got, err := s.lookup(updated)
	if err != nil {
		return err
	}
	if got != version {
		return fmt.Errorf("%s: rewrite produced %q, want %q", s.path, got, version)
	}
	return writeFile(s.path, updated, mode)
}

func (s *TOMLStore) lookup(data []byte) (string, error) {
	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return "", fmt.Errorf("failed to parse %s: %w", s.path, err)
	}

	var cur any = doc
	for _, key := range splitField(s.field) {
		m, ok := cur.(map[string]any)
		if !ok {
			return "", fmt.Errorf("%s has no %q field", s.path, s.field)
		}
		if cur, ok = m[key]; !ok {
			return "", fmt.Errorf("%s has no %q field", s.path, s.field)
		}
	}

	v, ok := cur.(string)
	if !ok {
		return "", fmt.Errorf("%s field %q is not a string", s.path, s.field)
	}
	return v, nil
}
