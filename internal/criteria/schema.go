package criteria

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

var catalogSchema = map[string]any{
	"type":     "object",
	"required": []any{"criteria"},
	"properties": map[string]any{
		"criteria": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":     "object",
				"required": []any{"category", "rules"},
				"properties": map[string]any{
					"category": map[string]any{"type": "string", "minLength": 1},
					"rules": map[string]any{
						"type":  "array",
						"items": map[string]any{"type": "string"},
					},
					"field_types": map[string]any{
						"type":                 "object",
						"additionalProperties": map[string]any{"type": "string"},
					},
				},
			},
		},
	},
}

// Validate checks a decoded catalog document against the catalog schema.
func Validate(doc any) error {
	result, err := gojsonschema.Validate(gojsonschema.NewGoLoader(catalogSchema), gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("validate criteria catalog: %w", err)
	}
	if result.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("invalid criteria catalog: %s", strings.Join(msgs, "; "))
}
