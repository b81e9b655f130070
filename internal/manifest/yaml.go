package manifest

import (
	"bytes"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// YAMLStore edits a YAML manifest such as pubspec.yaml or Chart.yaml.
type YAMLStore struct {
	path  string
	field string
}

// NewYAMLStore creates a YAML store. The field is a dotted key path and
// defaults to "version".
func NewYAMLStore(path, field string) *YAMLStore {
	if field == "" {
		field = "version"
	}
	return &YAMLStore{path: path, field: field}
}

// Path returns the manifest file path.
func (s *YAMLStore) Path() string {
	return s.path
}

// ReadVersion returns the scalar value at the field.
func (s *YAMLStore) ReadVersion() (string, error) {
	data, _, err := readFile(s.path)
	if err != nil {
		return "", err
	}
	node, err := s.lookup(data)
	if err != nil {
		return "", err
	}
	return node.Value, nil
}

// WriteVersion replaces the scalar in place using the node position, so
// comments and layout survive; re-encoding the tree would not keep them.
func (s *YAMLStore) WriteVersion(version string) error {
	data, mode, err := readFile(s.path)
	if err != nil {
		return err
	}
	node, err := s.lookup(data)
	if err != nil {
		return err
	}

	start, ok := offsetOf(data, node.Line, node.Column)
	if !ok {
		return fmt.Errorf("%s: cannot locate %q at line %d", s.path, s.field, node.Line)
	}

	var oldRaw, newRaw string
	switch node.Style {
	case yaml.DoubleQuotedStyle:
		oldRaw, newRaw = strconv.Quote(node.Value), strconv.Quote(version)
	case yaml.SingleQuotedStyle:
		oldRaw, newRaw = "'"+node.Value+"'", "'"+version+"'"
	case 0:
		oldRaw, newRaw = node.Value, version
	default:
		return fmt.Errorf("%s: field %q uses an unsupported scalar style", s.path, s.field)
	}

	end := start + len(oldRaw)
	if end > len(data) || string(data[start:end]) != oldRaw {
		return fmt.Errorf("%s: field %q is not a simple scalar", s.path, s.field)
	}

	var buf bytes.Buffer
	buf.Grow(len(data) - len(oldRaw) + len(newRaw))
	buf.Write(data[:start])
	buf.WriteString(newRaw)
	buf.Write(data[end:])
	return writeFile(s.path, buf.Bytes(), mode)
}

func (s *YAMLStore) lookup(data []byte) (*yaml.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", s.path, err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("%s is empty", s.path)
	}

	node := doc.Content[0]
	for _, key := range splitField(s.field) {
		if node.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("%s has no %q field", s.path, s.field)
		}
		var next *yaml.Node
		for i := 0; i+1 < len(node.Content); i += 2 {
			if node.Content[i].Value == key {
				next = node.Content[i+1]
				break
			}
		}
		if next == nil {
			return nil, fmt.Errorf("%s has no %q field", s.path, s.field)
		}
		node = next
	}

	if node.Kind != yaml.ScalarNode {
		return nil, fmt.Errorf("%s field %q is not a scalar", s.path, s.field)
	}
	return node, nil
}

// offsetOf converts a 1-based line and column into a byte offset.
func offsetOf(data []byte, line, column int) (int, bool) {
	offset := 0
	for l := 1; l < line; l++ {
		i := bytes.IndexByte(data[offset:], '\n')
		if i < 0 {
			return 0, false
		}
		offset += i + 1
	}
	offset += column - 1
	if offset > len(data) {
		return 0, false
	}
	return offset, true
}
