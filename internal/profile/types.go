package profile

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Metadata keys written by the profiler
const (
	KeyDistinctCount      = "distinct_count"
	KeyDistinctProportion = "distinct_proportion"
	KeyIsUnique           = "is_unique"
	KeyNotNullProportion  = "not_null_proportion"
	KeyRowCount           = "row_count"
)

// ErrMissingMetadata is returned when a profiled column lacks a required statistic
var ErrMissingMetadata = errors.New("missing profile metadata")

// Document is the schema file written for a directory of models
type Document struct {
	Version int      `yaml:"version"`
	Models  []*Model `yaml:"models"`
}

// Model is the profile of one table or view
type Model struct {
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	Columns     []*Column `yaml:"columns"`
	// Extra keeps any other keys emitted by the profiler
	Extra map[string]any `yaml:",inline"`
}

// Column is the profile of one column, later enriched with tests
type Column struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Extra       map[string]any `yaml:",inline"`
	Tests       []Test         `yaml:"tests,omitempty"`
	Meta        Metadata       `yaml:"meta"`
}

// MarshalYAML keeps the profiler's extra keys ahead of tests, with meta last
func (c Column) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	add := func(key string, v any) error {
		var value yaml.Node
		if err := value.Encode(v); err != nil {
			return fmt.Errorf("encode %s of column %s: %w", key, c.Name, err)
		}
		node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: key}, &value)
		return nil
	}

	if err := add("name", c.Name); err != nil {
		return nil, err
	}
	if err := add("description", c.Description); err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(c.Extra))
	for k := range c.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := add(k, c.Extra[k]); err != nil {
			return nil, err
		}
	}

	if len(c.Tests) > 0 {
		if err := add("tests", c.Tests); err != nil {
			return nil, err
		}
	}
	if err := add("meta", c.Meta); err != nil {
		return nil, err
	}
	return node, nil
}

// Metadata holds the data type and, before processing, the column statistics
type Metadata struct {
	DataType       string `yaml:"data_type"`
	AllNullWarning string `yaml:"all_null_warning,omitempty"`
	// Stats holds every other key, such as distinct_count or is_unique
	Stats map[string]any `yaml:",inline"`
}

// ExcludedColumn is a column left out of profiling, restored at Position
type ExcludedColumn struct {
	Name     string
	DataType string
	Position int
}

// DistinctCount returns distinct_count, which may be encoded as "3.0"
func (m *Metadata) DistinctCount() (int, error) {
	v, err := m.stat(KeyDistinctCount)
	if err != nil {
		return 0, err
	}
	f, err := toFloat(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", KeyDistinctCount, err)
	}
	return int(f), nil
}

// IsUnique returns is_unique
func (m *Metadata) IsUnique() (bool, error) {
	v, err := m.stat(KeyIsUnique)
	if err != nil {
		return false, err
	}
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(b))
		if err != nil {
			return false, fmt.Errorf("invalid %s: %w", KeyIsUnique, err)
		}
		return parsed, nil
	default:
		return false, fmt.Errorf("invalid %s: %v (%T)", KeyIsUnique, v, v)
	}
}

// NotNullProportion returns not_null_proportion
func (m *Metadata) NotNullProportion() (float64, error) {
	v, err := m.stat(KeyNotNullProportion)
	if err != nil {
		return 0, err
	}
	f, err := toFloat(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", KeyNotNullProportion, err)
	}
	return f, nil
}

func (m *Metadata) stat(key string) (any, error) {
	v, ok := m.Stats[key]
	if !ok || v == nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingMetadata, key)
	}
	return v, nil
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	case float64:
		return n, nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(n), 64)
	default:
		return 0, fmt.Errorf("not a number: %v (%T)", v, v)
	}
}

// Test is a dbt column test: either a named generic test or accepted_values
type Test struct {
	Name           string
	AcceptedValues *AcceptedValues
}

// AcceptedValues configures an accepted_values test
type AcceptedValues struct {
	Values []any `yaml:"values"`
	// Quote is false for non-string columns; nil keeps dbt's default quoting
	Quote *bool `yaml:"quote,omitempty"`
}

const acceptedValuesKey = "accepted_values"

// Named tests
var (
	NotNull = Test{Name: "not_null"}
	Unique  = Test{Name: "unique"}
)

// NewAcceptedValues builds an accepted_values test; quoting is disabled unless quote is set
func NewAcceptedValues(values []any, quote bool) Test {
	av := &AcceptedValues{Values: values}
	if !quote {
		av.Quote = &quote
	}
	return Test{Name: acceptedValuesKey, AcceptedValues: av}
}

// MarshalYAML renders named tests as plain strings
func (t Test) MarshalYAML() (any, error) {
	if t.AcceptedValues != nil {
		return map[string]*AcceptedValues{acceptedValuesKey: t.AcceptedValues}, nil
	}
	return t.Name, nil
}

// UnmarshalYAML accepts both the string and the mapping form
func (t *Test) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*t = Test{Name: node.Value}
		return nil
	case yaml.MappingNode:
		var m map[string]*AcceptedValues
		if err := node.Decode(&m); err != nil {
			return err
		}
		av, ok := m[acceptedValuesKey]
		if !ok || len(m) != 1 {
			return fmt.Errorf("line %d: unsupported test definition", node.Line)
		}
		*t = Test{Name: acceptedValuesKey, AcceptedValues: av}
		return nil
	default:
		return fmt.Errorf("line %d: unsupported test definition", node.Line)
	}
}

// ParseModels decodes the YAML list of models printed by the profiler
func ParseModels(text string) ([]*Model, error) {
	var models []*Model
	if err := yaml.Unmarshal([]byte(text), &models); err != nil {
		return nil, fmt.Errorf("parse profile: %w", err)
	}
	return models, nil
}
