// Package anthropic implements llm.Client on the Anthropic Messages API.
package anthropic

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/NancyCima/Azure-Dashboard/internal/llm"
	"github.com/NancyCima/Azure-Dashboard/internal/shared/telemetry"
)

const provider = "anthropic"

// DefaultModel is used when no Claude model is configured.
const DefaultModel = "claude-sonnet-4-5"

// Client implements llm.Client using Claude models.
type Client struct {
	api    sdk.Client
	model  string
	logger telemetry.Logger
}

// NewClient constructs a client. Extra options (base URL, HTTP client) are
// passed to the SDK; retries are disabled.
func NewClient(apiKey, model string, logger telemetry.Logger, opts ...option.RequestOption) (*Client, error) {
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("LLM_MODEL is required for Anthropic")
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY is required")
	}
	if logger == nil {
		logger = telemetry.Default()
	}
	all := append([]option.RequestOption{option.WithAPIKey(apiKey), option.WithMaxRetries(0)}, opts...)
	return &Client{api: sdk.NewClient(all...), model: model, logger: logger}, nil
}

// Complete sends the prompt and any images as base64 image blocks.
func (c *Client) Complete(ctx context.Context, r llm.Request) (string, error) {
	blocks := make([]sdk.ContentBlockParamUnion, 0, len(r.Images)+1)
	for _, img := range r.Images {
		mime := img.MIMEType
		if mime == "" {
			mime = "image/jpeg"
		}
		blocks = append(blocks, sdk.NewImageBlockBase64(mime, img.Base64))
	}
	blocks = append(blocks, sdk.NewTextBlock(r.Prompt))

	maxTokens := int64(r.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = 1000
	}
	params := sdk.MessageNewParams{
		Model:     sdk.Model(c.model),
		MaxTokens: maxTokens,
		Messages:  []sdk.MessageParam{sdk.NewUserMessage(blocks...)},
	}
	if r.System != "" {
		params.System = []sdk.TextBlockParam{{Text: r.System}}
	}
	if r.Temperature > 0 {
		params.Temperature = sdk.Float(float64(r.Temperature))
	}

	message, err := c.api.Messages.New(ctx, params)
	if err != nil {
		return "", classify(err)
	}
	c.logger.Info("llm.response", map[string]any{
		"provider":      provider,
		"model":         c.model,
		"images":        len(r.Images),
		"input_tokens":  message.Usage.InputTokens,
		"output_tokens": message.Usage.OutputTokens,
	})

	var sb strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", &llm.Error{Kind: llm.ErrorOther, Provider: provider, Err: errors.New("no text content in response")}
	}
	return strings.TrimSpace(sb.String()), nil
}

func classify(err error) error {
	var apiErr *sdk.Error
	if errors.As(err, &apiErr) {
		return &llm.Error{Kind: llm.KindFromStatus(apiErr.StatusCode), Provider: provider, StatusCode: apiErr.StatusCode, Err: err}
	}
	if llm.IsConnectionError(err) {
		return &llm.Error{Kind: llm.ErrorConnection, Provider: provider, Err: err}
	}
	return &llm.Error{Kind: llm.ErrorOther, Provider: provider, Err: err}
}

var _ llm.Client = (*Client)(nil)
