package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/time/rate"
	genai "google.golang.org/genai"

	"github.com/rfp-optimize/platform/internal/core/domain"
	"github.com/rfp-optimize/platform/internal/infrastructure/resilience"
)

var ErrEmptyResponse = errors.New("gemini: empty response from model")

// Client wraps the official genai SDK. Every request asks for
// application/json output; the raw candidate text is returned for the caller
// to parse.
type Client struct {
	cli      *genai.Client
	model    string
	limiter  *rate.Limiter
	executor *resilience.Executor
}

// New builds a Gemini-backed completion client. rps caps outbound request
// rate to stay inside the API quota; zero disables the cap.
func New(ctx context.Context, apiKey, model string, rps int, executor *resilience.Executor) (*Client, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if rps > 0 {
		limiter = rate.NewLimiter(rate.Limit(rps), rps)
	}

	return &Client{cli: cli, model: model, limiter: limiter, executor: executor}, nil
}

func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	var out string
	err := c.executor.Execute(ctx, "gemini.generate", func(ctx context.Context) error {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		resp, err := c.cli.Models.GenerateContent(ctx, c.model,
			[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
			&genai.GenerateContentConfig{ResponseMIMEType: "application/json"},
		)
		if err != nil {
			return fmt.Errorf("gemini generate: %w", err)
		}
		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
			return ErrEmptyResponse
		}
		out = strings.TrimSpace(resp.Candidates[0].Content.Parts[0].Text)
		return nil
	}, classifyGeminiError)
	if err != nil {
		if classifyGeminiError(err).Retryable || resilience.IsCircuitOpen(err) {
			return "", domain.WrapError(domain.ErrTemporary, "gemini generate", err)
		}
		return "", err
	}
	return out, nil
}

func classifyGeminiError(err error) resilience.Classification {
	if err == nil {
		return resilience.Classification{}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return resilience.Classification{Retryable: false, RecordFailure: false}
	}
	if resilience.IsCircuitOpen(err) {
		return resilience.Classification{Retryable: true, RecordFailure: true}
	}
	if errors.Is(err, ErrEmptyResponse) {
		return resilience.Classification{Retryable: true, RecordFailure: false}
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		if isRetryableStatus(apiErr.Code) {
			return resilience.Classification{Retryable: true, RecordFailure: true}
		}
		return resilience.Classification{Retryable: false, RecordFailure: false}
	}

	// Transport-level failures without a structured code.
	return resilience.Classification{Retryable: true, RecordFailure: true}
}

func isRetryableStatus(code int) bool {
	switch code {
	case 408, 429, 500, 502, 503, 504:
		return true
	default:
		return false
	}
}
