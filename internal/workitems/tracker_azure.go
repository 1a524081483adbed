package workitems

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	azureAPIVersion = "7.0"
	azureBatchSize  = 200
)

// AzureSource talks to the Azure DevOps work item REST API directly.
type AzureSource struct {
	OrgURL  string
	Project string
	PAT     string
	Client  *http.Client
}

// NewAzureSource builds a source for one organization and project.
func NewAzureSource(orgURL, project, pat string, timeout time.Duration) *AzureSource {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &AzureSource{
		OrgURL:  strings.TrimRight(orgURL, "/"),
		Project: project,
		PAT:     pat,
		Client:  &http.Client{Timeout: timeout},
	}
}

type wiqlResponse struct {
	WorkItems []struct {
		ID int `json:"id"`
	} `json:"workItems"`
}

type batchResponse struct {
	Value []FieldsItem `json:"value"`
}

type patchOp struct {
	Op    string `json:"op"`
	Path  string `json:"path"`
	Value any    `json:"value"`
}

// List runs a WIQL query for the project and fetches the items with relations.
func (a *AzureSource) List(ctx context.Context) ([]WorkItem, error) {
	query := map[string]string{
		"query": "SELECT [System.Id] FROM WorkItems WHERE [System.TeamProject] = @project ORDER BY [System.CreatedDate] DESC",
	}
	wiqlURL := fmt.Sprintf("%s/%s/_apis/wit/wiql?api-version=%s", a.OrgURL, url.PathEscape(a.Project), azureAPIVersion)
	req, err := a.newRequest(ctx, http.MethodPost, wiqlURL, "application/json", query)
	if err != nil {
		return nil, err
	}
	var wiql wiqlResponse
	if err := do(a.Client, req, &wiql); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(wiql.WorkItems))
	for _, w := range wiql.WorkItems {
		ids = append(ids, strconv.Itoa(w.ID))
	}

	items := make([]WorkItem, 0, len(ids))
	for start := 0; start < len(ids); start += azureBatchSize {
		end := min(start+azureBatchSize, len(ids))
		batchURL := fmt.Sprintf("%s/_apis/wit/workitems?ids=%s&$expand=relations&api-version=%s",
			a.OrgURL, strings.Join(ids[start:end], ","), azureAPIVersion)
		req, err := a.newRequest(ctx, http.MethodGet, batchURL, "", nil)
		if err != nil {
			return nil, err
		}
		var batch batchResponse
		if err := do(a.Client, req, &batch); err != nil {
			return nil, err
		}
		for _, fi := range batch.Value {
			items = append(items, FromFields(fi))
		}
	}
	return items, nil
}

// AddTag appends tag to System.Tags unless already present.
func (a *AzureSource) AddTag(ctx context.Context, id int, tag string) error {
	itemURL := a.itemURL(id)
	req, err := a.newRequest(ctx, http.MethodGet, itemURL+"&fields="+FieldTags, "", nil)
	if err != nil {
		return err
	}
	var current FieldsItem
	if err := do(a.Client, req, &current); err != nil {
		return err
	}

	tags := mergeTag(stringField(current.Fields, FieldTags), tag)
	return a.patch(ctx, id, []patchOp{{Op: "add", Path: "/fields/" + FieldTags, Value: tags}})
}

// UpdateAcceptanceCriteria replaces the acceptance criteria field.
func (a *AzureSource) UpdateAcceptanceCriteria(ctx context.Context, id int, criteria string) error {
	return a.patch(ctx, id, []patchOp{{Op: "add", Path: "/fields/" + FieldAcceptanceCriteria, Value: criteria}})
}

func (a *AzureSource) patch(ctx context.Context, id int, ops []patchOp) error {
	req, err := a.newRequest(ctx, http.MethodPatch, a.itemURL(id), "application/json-patch+json", ops)
	if err != nil {
		return err
	}
	return do(a.Client, req, nil)
}

func (a *AzureSource) itemURL(id int) string {
	return fmt.Sprintf("%s/_apis/wit/workitems/%d?api-version=%s", a.OrgURL, id, azureAPIVersion)
}

func (a *AzureSource) newRequest(ctx context.Context, method, u, contentType string, payload any) (*http.Request, error) {
	var body *bytes.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(b)
	}
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequestWithContext(ctx, method, u, body)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, u, nil)
	}
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth("", a.PAT)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req, nil
}

// mergeTag appends tag to a "; " separated tag list.
func mergeTag(existing, tag string) string {
	var parts []string
	for _, t := range strings.Split(existing, ";") {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if t == tag {
			return existing
		}
		parts = append(parts, t)
	}
	return strings.Join(append(parts, tag), "; ")
}
