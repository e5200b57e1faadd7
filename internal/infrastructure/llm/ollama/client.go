package ollama

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/rfp-optimize/platform/internal/infrastructure/resilience"
)

// Client talks to a local Ollama server. It implements the completion port
// used by the analysis pipeline; model output is returned as-is, parsing is
// the caller's concern.
type Client struct {
	baseURL    string
	genModel   string
	httpClient *http.Client
	executor   *resilience.Executor
}

func New(baseURL, genModel string, executor *resilience.Executor) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		genModel:   genModel,
		httpClient: &http.Client{Timeout: 120 * time.Second},
		executor:   executor,
	}
}

func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	reqBody := map[string]any{
		"model":  c.genModel,
		"prompt": prompt,
		"stream": false,
		"format": "json",
	}

	var response struct {
		Response string `json:"response"`
	}
	err := c.executor.Execute(ctx, "ollama.generate", func(ctx context.Context) error {
		return c.postJSON(ctx, "/api/generate", reqBody, &response, "generate")
	}, classifyOllamaError)
	if err != nil {
		return "", wrapTemporaryIfNeeded("ollama generate", err)
	}
	return strings.TrimSpace(response.Response), nil
}
