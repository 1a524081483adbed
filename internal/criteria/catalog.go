// Package criteria holds the organization-wide acceptance criteria catalog
// and diffs it against a ticket's existing criteria.
package criteria

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Catalog is the general criteria document.
type Catalog struct {
	Criteria []Category `yaml:"criteria"`
}

// Category groups rules under a heading, optionally documenting field types.
type Category struct {
	Category   string        `yaml:"category"`
	Rules      []string      `yaml:"rules"`
	FieldTypes FieldTypeList `yaml:"field_types,omitempty"`
}

// FieldType describes one kind of form field.
type FieldType struct {
	Name        string
	Description string
}

// FieldTypeList keeps field types in document order.
type FieldTypeList []FieldType

// UnmarshalYAML decodes a mapping while preserving key order.
func (l *FieldTypeList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("field_types: expected mapping, got %v", node.Tag)
	}
	out := make(FieldTypeList, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		var ft FieldType
		if err := node.Content[i].Decode(&ft.Name); err != nil {
			return err
		}
		if err := node.Content[i+1].Decode(&ft.Description); err != nil {
			return err
		}
		out = append(out, ft)
	}
	*l = out
	return nil
}

// IsEmpty reports whether the catalog has no rules and no field types.
func (c Catalog) IsEmpty() bool {
	for _, cat := range c.Criteria {
		if len(cat.Rules) > 0 || len(cat.FieldTypes) > 0 {
			return false
		}
	}
	return true
}

// RuleCount is the number of rules across categories.
func (c Catalog) RuleCount() int {
	n := 0
	for _, cat := range c.Criteria {
		n += len(cat.Rules)
	}
	return n
}
