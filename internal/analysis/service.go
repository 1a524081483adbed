package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/NancyCima/Azure-Dashboard/internal/criteria"
	"github.com/NancyCima/Azure-Dashboard/internal/llm"
	"github.com/NancyCima/Azure-Dashboard/internal/shared/apperr"
	"github.com/NancyCima/Azure-Dashboard/internal/shared/metrics"
	"github.com/NancyCima/Azure-Dashboard/internal/shared/telemetry"
)

const (
	defaultMaxTokens   = 1000
	defaultTemperature = 0.7
)

// Service turns a ticket and its images into suggested acceptance criteria.
type Service struct {
	LLM             llm.Client
	Catalog         criteria.Catalog
	Images          ImageNormalizer
	Logger          telemetry.Logger
	DefaultLanguage Language
	ProviderName    string
	MaxTokens       int
	Temperature     float32
	Timeout         time.Duration
}

// NewService constructs a Service with default generation settings.
func NewService(client llm.Client, cat criteria.Catalog, providerName string, logger telemetry.Logger) *Service {
	if logger == nil {
		logger = telemetry.Default()
	}
	return &Service{
		LLM:             client,
		Catalog:         cat,
		Images:          DefaultImageNormalizer(),
		Logger:          logger,
		DefaultLanguage: Spanish,
		ProviderName:    providerName,
		MaxTokens:       defaultMaxTokens,
		Temperature:     defaultTemperature,
	}
}

// Analyze validates the ticket, prepares images, asks the model and parses
// its reply. Images that fail to normalize are dropped.
func (s *Service) Analyze(ctx context.Context, ticket Ticket, uploads []Upload) (Result, error) {
	fallback := s.DefaultLanguage
	if fallback == "" {
		fallback = Spanish
	}
	if !ticket.HasText() && len(uploads) == 0 {
		lang := DetectLanguage(ticket.Title, fallback)
		return Result{}, s.fail(apperr.Input(messagesFor(lang).errNoContent, ""))
	}

	metrics.AnalysisStarted.Inc()
	start := time.Now()

	images := s.normalizeImages(ticket.ID, uploads)
	if !ticket.HasText() && len(images) == 0 {
		lang := DetectLanguage(ticket.Title, fallback)
		return Result{}, s.fail(apperr.Input(messagesFor(lang).errNoContent, "none of the uploaded images could be read"))
	}

	prompt, lang := BuildPrompt(PromptInput{
		Title:              ticket.Title,
		Description:        ticket.Description,
		AcceptanceCriteria: ticket.AcceptanceCriteria,
		FigmaLink:          ticket.FigmaLink,
		ImageCount:         len(images),
		Criteria:           s.Catalog,
	}, fallback)

	callCtx := ctx
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	maxTokens := s.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	reply, err := s.LLM.Complete(callCtx, llm.Request{
		System:      SystemPrompt,
		Prompt:      prompt,
		Images:      images,
		MaxTokens:   maxTokens,
		Temperature: s.Temperature,
	})
	if err != nil {
		return Result{}, s.fail(s.mapLLMError(err, lang))
	}

	result := ParseResponse(reply, lang)
	metrics.AnalysisCompleted.WithLabelValues(string(lang)).Inc()
	metrics.AnalysisDuration.Observe(time.Since(start).Seconds())
	s.Logger.Info("analysis.completed", map[string]any{
		"work_item_id":        ticket.ID,
		"language":            string(lang),
		"images":              len(images),
		"suggested_criteria":  len(result.SuggestedCriteria),
		"general_suggestions": len(result.GeneralSuggestions),
		"duration_ms":         time.Since(start).Milliseconds(),
	})
	return result, nil
}

func (s *Service) normalizeImages(ticketID int, uploads []Upload) []llm.Image {
	if len(uploads) == 0 {
		return nil
	}
	normalizer := s.Images
	if normalizer == nil {
		normalizer = DefaultImageNormalizer()
	}
	images := make([]llm.Image, 0, len(uploads))
	for _, up := range uploads {
		img, err := normalizer.Normalize(up.Data)
		if err != nil {
			metrics.ImagesDropped.Inc()
			s.Logger.Warn("analysis.image_dropped", map[string]any{
				"work_item_id": ticketID,
				"filename":     up.Filename,
				"content_type": up.ContentType,
				"error":        err.Error(),
			})
			continue
		}
		images = append(images, img)
	}
	return images
}

func (s *Service) mapLLMError(err error, lang Language) *apperr.Error {
	kind := llm.KindOf(err)
	if kind == llm.ErrorOther && llm.IsConnectionError(err) {
		kind = llm.ErrorConnection
	}
	msg := messagesFor(lang).llmErrorMessage(kind)
	switch kind {
	case llm.ErrorConnection:
		return apperr.UpstreamUnavailable(fmt.Sprintf(msg, s.providerName()), err)
	case llm.ErrorAuth:
		return apperr.UpstreamAuth(fmt.Sprintf(msg, s.providerName()), err)
	case llm.ErrorRateLimit:
		return apperr.UpstreamRateLimited(fmt.Sprintf(msg, s.providerName()), err)
	case llm.ErrorBadRequest:
		return apperr.UpstreamBadRequest(fmt.Sprintf(msg, s.providerName()), err)
	default:
		return apperr.Internal(msg, err)
	}
}

func (s *Service) fail(err *apperr.Error) error {
	metrics.AnalysisFailed.WithLabelValues(err.Kind.String()).Inc()
	fields := map[string]any{"kind": err.Kind.String(), "message": err.Message}
	if err.Err != nil {
		fields["error"] = err.Err.Error()
	}
	s.Logger.Warn("analysis.failed", fields)
	return err
}

func (s *Service) providerName() string {
	if s.ProviderName == "" {
		return "LLM"
	}
	return s.ProviderName
}
