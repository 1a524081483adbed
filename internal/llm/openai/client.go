package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/NancyCima/Azure-Dashboard/internal/llm"
	"github.com/NancyCima/Azure-Dashboard/internal/shared/telemetry"
)

const provider = "openai"

// Client implements llm.Client using OpenAI Chat Completions.
type Client struct {
	api    *goopenai.Client
	model  string
	logger telemetry.Logger
}

// Option customizes a Client.
type Option func(*goopenai.ClientConfig)

// WithBaseURL points the client at a compatible endpoint.
func WithBaseURL(url string) Option {
	return func(cfg *goopenai.ClientConfig) { cfg.BaseURL = strings.TrimRight(url, "/") }
}

// WithHTTPClient overrides the transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(cfg *goopenai.ClientConfig) { cfg.HTTPClient = hc }
}

// NewClient constructs a new OpenAI client.
func NewClient(apiKey, model string, logger telemetry.Logger, opts ...Option) (*Client, error) {
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("LLM_MODEL is required for OpenAI")
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}
	if logger == nil {
		logger = telemetry.Default()
	}
	cfg := goopenai.DefaultConfig(apiKey)
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Client{api: goopenai.NewClientWithConfig(cfg), model: model, logger: logger}, nil
}

// Complete sends a system and user message, inlining images as data URIs.
func (c *Client) Complete(ctx context.Context, r llm.Request) (string, error) {
	req := goopenai.ChatCompletionRequest{
		Model:    c.model,
		Messages: []goopenai.ChatCompletionMessage{{Role: goopenai.ChatMessageRoleSystem, Content: r.System}, userMessage(r)},
	}
	if usesCompletionTokens(c.model) {
		req.MaxCompletionTokens = r.MaxTokens
	} else {
		req.MaxTokens = r.MaxTokens
		req.Temperature = r.Temperature
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", classify(err)
	}
	if len(resp.Choices) == 0 {
		return "", &llm.Error{Kind: llm.ErrorOther, Provider: provider, Err: errors.New("response missing choices")}
	}
	c.logger.Info("llm.response", map[string]any{
		"provider":          provider,
		"model":             c.model,
		"images":            len(r.Images),
		"prompt_tokens":     resp.Usage.PromptTokens,
		"completion_tokens": resp.Usage.CompletionTokens,
		"total_tokens":      resp.Usage.TotalTokens,
	})
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func userMessage(r llm.Request) goopenai.ChatCompletionMessage {
	if len(r.Images) == 0 {
		return goopenai.ChatCompletionMessage{Role: goopenai.ChatMessageRoleUser, Content: r.Prompt}
	}
	parts := []goopenai.ChatMessagePart{{Type: goopenai.ChatMessagePartTypeText, Text: r.Prompt}}
	for _, img := range r.Images {
		parts = append(parts, goopenai.ChatMessagePart{
			Type:     goopenai.ChatMessagePartTypeImageURL,
			ImageURL: &goopenai.ChatMessageImageURL{URL: img.DataURI(), Detail: goopenai.ImageURLDetailAuto},
		})
	}
	return goopenai.ChatCompletionMessage{Role: goopenai.ChatMessageRoleUser, MultiContent: parts}
}

// usesCompletionTokens reports reasoning model families that reject
// max_tokens and a custom temperature.
func usesCompletionTokens(model string) bool {
	m := strings.ToLower(strings.TrimSpace(model))
	for _, prefix := range []string{"o1", "o3", "o4", "gpt-5"} {
		if strings.HasPrefix(m, prefix) {
			return true
		}
	}
	return false
}

func classify(err error) error {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		return &llm.Error{Kind: llm.KindFromStatus(apiErr.HTTPStatusCode), Provider: provider, StatusCode: apiErr.HTTPStatusCode, Err: err}
	}
	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) {
		return &llm.Error{Kind: llm.KindFromStatus(reqErr.HTTPStatusCode), Provider: provider, StatusCode: reqErr.HTTPStatusCode, Err: err}
	}
	if llm.IsConnectionError(err) {
		return &llm.Error{Kind: llm.ErrorConnection, Provider: provider, Err: err}
	}
	return &llm.Error{Kind: llm.ErrorOther, Provider: provider, Err: err}
}

var _ llm.Client = (*Client)(nil)
