package workitems

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// GatewaySource reads work items from the tracker gateway's REST API.
type GatewaySource struct {
	BaseURL string
	Client  *http.Client
}

// NewGatewaySource builds a source for baseURL with the given timeout.
func NewGatewaySource(baseURL string, timeout time.Duration) *GatewaySource {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &GatewaySource{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: timeout},
	}
}

func (g *GatewaySource) itemsURL() string {
	return g.BaseURL + "/api/v1/workitems/work-items"
}

// List fetches every work item.
func (g *GatewaySource) List(ctx context.Context) ([]WorkItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.itemsURL(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	var body []byte
	if err := do(g.Client, req, &body); err != nil {
		return nil, err
	}
	return DecodeList(body)
}

// AddTag appends tag to the item's tags.
func (g *GatewaySource) AddTag(ctx context.Context, id int, tag string) error {
	return g.send(ctx, http.MethodPost, fmt.Sprintf("%s/%d/tags", g.itemsURL(), id), map[string]string{"tag": tag})
}

// UpdateAcceptanceCriteria replaces the item's acceptance criteria.
func (g *GatewaySource) UpdateAcceptanceCriteria(ctx context.Context, id int, criteria string) error {
	return g.send(ctx, http.MethodPatch, fmt.Sprintf("%s/%d/acceptance-criteria", g.itemsURL(), id), map[string]string{"acceptance_criteria": criteria})
}

func (g *GatewaySource) send(ctx context.Context, method, url string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return do(g.Client, req, nil)
}
