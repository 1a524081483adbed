package workitems

import (
	"reflect"
	"testing"
)

func TestDecodeListFlatShape(t *testing.T) {
	body := `[{"id":1,"title":"Login","work_item_type":"User Story","tags":"US New","state":"New","dependencies":[]},
	          {"id":2,"type":"Task","state":"Active","dependencies":[1],"estimated_hours":4,"completed_hours":1}]`
	items, err := DecodeList([]byte(body))
	if err != nil {
		t.Fatalf("DecodeList: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if !items[0].HasTagsExactly(TagNew) || !items[0].IsUserStory() {
		t.Fatalf("unexpected first item %+v", items[0])
	}
	if items[1].WorkItemType != "Task" || !reflect.DeepEqual(items[1].Dependencies, []int{1}) {
		t.Fatalf("unexpected second item %+v", items[1])
	}
	if items[1].EstimatedHours == nil || *items[1].EstimatedHours != 4 {
		t.Fatalf("expected estimated hours, got %+v", items[1].EstimatedHours)
	}
}

func TestDecodeListNestedShape(t *testing.T) {
	body := `{"count":1,"value":[{
		"id": 42,
		"url": "https://dev.azure.com/org/_apis/wit/workItems/42",
		"fields": {
			"System.WorkItemType": "Task",
			"System.Title": "Build form",
			"System.State": "Closed",
			"System.Tags": "Etapa 01; Frontend",
			"System.AssignedTo": {"displayName": "Ana Perez"},
			"Microsoft.VSTS.Scheduling.OriginalEstimate": 8,
			"Microsoft.VSTS.Scheduling.CompletedWork": 6,
			"Microsoft.VSTS.Scheduling.RemainingWork": 1,
			"Microsoft.VSTS.Common.Priority": 2
		},
		"relations": [
			{"rel": "System.LinkTypes.Hierarchy-Reverse", "url": "https://dev.azure.com/org/_apis/wit/workItems/7"},
			{"rel": "System.LinkTypes.Hierarchy-Forward", "url": "https://dev.azure.com/org/_apis/wit/workItems/43"},
			{"rel": "AttachedFile", "url": "https://dev.azure.com/org/_apis/wit/attachments/abc"}
		],
		"_links": {"html": {"href": "https://dev.azure.com/org/proj/_workitems/edit/42"}}
	}]}`
	items, err := DecodeList([]byte(body))
	if err != nil {
		t.Fatalf("DecodeList: %v", err)
	}
	it := items[0]
	if it.ID != 42 || it.WorkItemType != "Task" || it.Title != "Build form" || it.State != "Closed" {
		t.Fatalf("unexpected item %+v", it)
	}
	if it.AssignedTo != "Ana Perez" {
		t.Fatalf("expected display name, got %q", it.AssignedTo)
	}
	if it.Tags == nil || *it.Tags != "Etapa 01; Frontend" {
		t.Fatalf("unexpected tags %v", it.Tags)
	}
	if !reflect.DeepEqual(it.Dependencies, []int{7}) || !reflect.DeepEqual(it.ChildIDs, []int{43}) {
		t.Fatalf("unexpected relations deps=%v children=%v", it.Dependencies, it.ChildIDs)
	}
	if it.NewEstimate == nil || *it.NewEstimate != 7 {
		t.Fatalf("expected new estimate 7, got %v", it.NewEstimate)
	}
	if it.Priority == nil || *it.Priority != 2 {
		t.Fatalf("expected priority 2, got %v", it.Priority)
	}
	if it.WorkItemURL != "https://dev.azure.com/org/proj/_workitems/edit/42" {
		t.Fatalf("unexpected url %q", it.WorkItemURL)
	}
}

func TestDecodeListSuccessorLinkIsNotADependency(t *testing.T) {
	body := `[
		{"id": 1, "fields": {"System.WorkItemType": "User Story", "System.State": "New", "System.Tags": "US New"}},
		{"id": 5, "fields": {"System.WorkItemType": "Task", "System.State": "Active"},
		 "relations": [
			{"rel": "System.LinkTypes.Dependency-Forward", "url": "https://dev.azure.com/org/_apis/wit/workItems/1"},
			{"rel": "System.LinkTypes.Dependency-Reverse", "url": "https://dev.azure.com/org/_apis/wit/workItems/9"}
		 ]}
	]`
	items, err := DecodeList([]byte(body))
	if err != nil {
		t.Fatalf("DecodeList: %v", err)
	}
	if !reflect.DeepEqual(items[1].Dependencies, []int{9}) {
		t.Fatalf("expected only the predecessor as dependency, got %v", items[1].Dependencies)
	}

	visible := Filter(items)
	if len(visible) != 1 || visible[0].ID != 5 {
		t.Fatalf("expected task 5 to stay visible, got %+v", visible)
	}
}

func TestDecodeListRejectsGarbage(t *testing.T) {
	if _, err := DecodeList([]byte(`{"value": 3}`)); err == nil {
		t.Fatalf("expected error")
	}
}

func TestMergeTag(t *testing.T) {
	tests := []struct{ existing, tag, want string }{
		{"", "US Checked", "US Checked"},
		{"Etapa 01", "US Checked", "Etapa 01; US Checked"},
		{"Etapa 01; US Checked", "US Checked", "Etapa 01; US Checked"},
	}
	for _, tt := range tests {
		if got := mergeTag(tt.existing, tt.tag); got != tt.want {
			t.Fatalf("mergeTag(%q, %q) = %q, want %q", tt.existing, tt.tag, got, tt.want)
		}
	}
}
