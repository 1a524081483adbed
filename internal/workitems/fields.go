package workitems

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Azure DevOps field reference names.
const (
	FieldWorkItemType       = "System.WorkItemType"
	FieldTitle              = "System.Title"
	FieldState              = "System.State"
	FieldAssignedTo         = "System.AssignedTo"
	FieldTags               = "System.Tags"
	FieldDescription        = "System.Description"
	FieldAcceptanceCriteria = "Microsoft.VSTS.Common.AcceptanceCriteria"
	FieldPriority           = "Microsoft.VSTS.Common.Priority"
	FieldOriginalEstimate   = "Microsoft.VSTS.Scheduling.OriginalEstimate"
	FieldCompletedWork      = "Microsoft.VSTS.Scheduling.CompletedWork"
	FieldRemainingWork      = "Microsoft.VSTS.Scheduling.RemainingWork"
	FieldStoryPoints        = "Microsoft.VSTS.Scheduling.StoryPoints"
	FieldDueDate            = "Microsoft.VSTS.Scheduling.DueDate"
	FieldTargetDate         = "Microsoft.VSTS.Scheduling.TargetDate"
)

// Link types that make an item depend on, or parent, another. Successor
// links (Dependency-Forward) point the other way and are not dependencies.
const (
	relParent    = "System.LinkTypes.Hierarchy-Reverse"
	relChild     = "System.LinkTypes.Hierarchy-Forward"
	relDependsOn = "System.LinkTypes.Dependency-Reverse"
)

// Relation is a link entry of a nested work item.
type Relation struct {
	Rel string `json:"rel"`
	URL string `json:"url"`
}

// FieldsItem is the nested tracker shape: {"id":..,"fields":{..},"relations":[..]}.
type FieldsItem struct {
	ID        int            `json:"id"`
	URL       string         `json:"url"`
	Fields    map[string]any `json:"fields"`
	Relations []Relation     `json:"relations"`
	Links     struct {
		HTML struct {
			Href string `json:"href"`
		} `json:"html"`
	} `json:"_links"`
}

// FromFields converts the nested shape into a WorkItem.
func FromFields(src FieldsItem) WorkItem {
	f := src.Fields
	item := WorkItem{
		ID:                 src.ID,
		Title:              stringField(f, FieldTitle),
		WorkItemType:       stringField(f, FieldWorkItemType),
		State:              stringField(f, FieldState),
		AssignedTo:         identityField(f, FieldAssignedTo),
		Description:        stringField(f, FieldDescription),
		AcceptanceCriteria: stringField(f, FieldAcceptanceCriteria),
		EstimatedHours:     numberField(f, FieldOriginalEstimate),
		CompletedHours:     numberField(f, FieldCompletedWork),
		NewEstimate:        newEstimate(f),
		StoryPoints:        numberField(f, FieldStoryPoints),
		DueDate:            firstString(f, FieldDueDate, FieldTargetDate),
		WorkItemURL:        src.Links.HTML.Href,
	}
	if item.WorkItemURL == "" {
		item.WorkItemURL = src.URL
	}
	if tags, ok := f[FieldTags].(string); ok {
		item.Tags = &tags
	}
	if p := numberField(f, FieldPriority); p != nil {
		v := int(*p)
		item.Priority = &v
	}
	item.Dependencies = []int{}
	for _, rel := range src.Relations {
		id, ok := idFromURL(rel.URL)
		if !ok {
			continue
		}
		switch rel.Rel {
		case relParent, relDependsOn:
			item.Dependencies = append(item.Dependencies, id)
		case relChild:
			item.ChildIDs = append(item.ChildIDs, id)
		}
	}
	return item
}

// DecodeList accepts a JSON array of work items in either the flat or the
// nested shape, or an object wrapping the array under "value".
func DecodeList(data []byte) ([]WorkItem, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var wrapped struct {
			Value json.RawMessage `json:"value"`
		}
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return nil, fmt.Errorf("decode work items: %w", err)
		}
		data = wrapped.Value
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode work items: %w", err)
	}
	items := make([]WorkItem, 0, len(raw))
	for i, msg := range raw {
		item, err := decodeOne(msg)
		if err != nil {
			return nil, fmt.Errorf("decode work item %d: %w", i, err)
		}
		items = append(items, item)
	}
	return items, nil
}

func decodeOne(msg json.RawMessage) (WorkItem, error) {
	var shape struct {
		Fields map[string]any `json:"fields"`
	}
	if err := json.Unmarshal(msg, &shape); err != nil {
		return WorkItem{}, err
	}
	if shape.Fields != nil {
		var nested FieldsItem
		if err := json.Unmarshal(msg, &nested); err != nil {
			return WorkItem{}, err
		}
		return FromFields(nested), nil
	}
	var flat struct {
		WorkItem
		Type string `json:"type"`
	}
	if err := json.Unmarshal(msg, &flat); err != nil {
		return WorkItem{}, err
	}
	item := flat.WorkItem
	if item.WorkItemType == "" {
		item.WorkItemType = flat.Type
	}
	return item, nil
}

func stringField(f map[string]any, key string) string {
	s, _ := f[key].(string)
	return s
}

func firstString(f map[string]any, keys ...string) string {
	for _, k := range keys {
		if s := stringField(f, k); s != "" {
			return s
		}
	}
	return ""
}

func identityField(f map[string]any, key string) string {
	switch v := f[key].(type) {
	case string:
		return v
	case map[string]any:
		if name, ok := v["displayName"].(string); ok {
			return name
		}
		if name, ok := v["uniqueName"].(string); ok {
			return name
		}
	}
	return ""
}

func numberField(f map[string]any, key string) *float64 {
	switch v := f[key].(type) {
	case float64:
		return &v
	case string:
		if n, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return &n
		}
	}
	return nil
}

// newEstimate is completed plus remaining work, when either is known.
func newEstimate(f map[string]any) *float64 {
	completed := numberField(f, FieldCompletedWork)
	remaining := numberField(f, FieldRemainingWork)
	if completed == nil && remaining == nil {
		return nil
	}
	total := hours(completed) + hours(remaining)
	return &total
}

func idFromURL(u string) (int, bool) {
	u = strings.TrimRight(u, "/")
	i := strings.LastIndex(u, "/")
	if i < 0 {
		return 0, false
	}
	id, err := strconv.Atoi(u[i+1:])
	if err != nil {
		return 0, false
	}
	return id, true
}
