package analysis

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/NancyCima/Azure-Dashboard/internal/content"
)

// Ticket is the analyzable part of a work item. Unknown JSON keys are kept
// in Extra.
type Ticket struct {
	ID                 int
	Title              string
	Description        string
	AcceptanceCriteria string
	FigmaLink          string
	Extra              map[string]any
}

var ticketKeys = map[string]bool{
	"id": true, "title": true, "description": true, "acceptance_criteria": true, "figma_link": true,
}

// UnmarshalJSON accepts numeric or string ids and null text fields.
func (t *Ticket) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return fmt.Errorf("ticket must be a JSON object")
	}

	id, err := decodeID(raw["id"])
	if err != nil {
		return err
	}
	out := Ticket{ID: id}
	fields := map[string]*string{
		"title":               &out.Title,
		"description":         &out.Description,
		"acceptance_criteria": &out.AcceptanceCriteria,
		"figma_link":          &out.FigmaLink,
	}
	for key, dst := range fields {
		if err := decodeText(raw[key], dst); err != nil {
			return fmt.Errorf("ticket %s: %w", key, err)
		}
	}
	for key, val := range raw {
		if ticketKeys[key] {
			continue
		}
		var v any
		if err := json.Unmarshal(val, &v); err != nil {
			return err
		}
		if out.Extra == nil {
			out.Extra = make(map[string]any)
		}
		out.Extra[key] = v
	}
	*t = out
	return nil
}

// MarshalJSON writes known fields and Extra back into one object.
func (t Ticket) MarshalJSON() ([]byte, error) {
	obj := make(map[string]any, len(t.Extra)+5)
	for k, v := range t.Extra {
		obj[k] = v
	}
	if t.ID != 0 {
		obj["id"] = t.ID
	}
	obj["title"] = t.Title
	obj["description"] = t.Description
	obj["acceptance_criteria"] = t.AcceptanceCriteria
	if t.FigmaLink != "" {
		obj["figma_link"] = t.FigmaLink
	}
	return json.Marshal(obj)
}

// HasText reports whether description or acceptance criteria carry content.
func (t Ticket) HasText() bool {
	return !content.IsEmpty(content.PlainText(t.Description)) || !content.IsEmpty(content.PlainText(t.AcceptanceCriteria))
}

func decodeID(raw json.RawMessage) (int, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, err
	}
	switch id := v.(type) {
	case float64:
		return int(id), nil
	case string:
		if strings.TrimSpace(id) == "" {
			return 0, nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(id))
		if err != nil {
			return 0, fmt.Errorf("ticket id %q is not a number", id)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("ticket id has unsupported type %T", v)
	}
}

func decodeText(raw json.RawMessage, dst *string) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return json.Unmarshal(raw, dst)
}
