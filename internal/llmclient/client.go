// Package llmclient is a small hand-rolled HTTP client for the LLM backend
// used to generate questions, grounded on the teacher's OpenAI Responses
// API wrapper but trimmed to the one operation this pipeline needs.
package llmclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/lecturepipe/backend/internal/pkg/retry"
	"github.com/lecturepipe/backend/internal/platform/logger"
)

type httpError struct {
	StatusCode int
	Body       string
}

func (e *httpError) Error() string       { return fmt.Sprintf("llm http %d: %s", e.StatusCode, e.Body) }
func (e *httpError) HTTPStatusCode() int { return e.StatusCode }

type Client struct {
	log        *logger.Logger
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	retryPolicy retry.Policy
}

func New(baseURL, apiKey, model string, baseLog *logger.Logger) *Client {
	return &Client{
		log:        baseLog.With("component", "LLMClient"),
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: 5 * time.Minute},
		retryPolicy: retry.Policy{
			MaxAttempts: 2,
			Base:        retry.DefaultBase,
			Cap:         retry.DefaultCap,
			Jitter:      0.5,
			Retryable:   retry.IsRetryableError,
		},
	}
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responsesRequest struct {
	Model       string    `json:"model"`
	Input       []message `json:"input"`
	Temperature float64   `json:"temperature"`
}

type responsesResponse struct {
	Refusal string `json:"refusal"`
	Output  []struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"output"`
}

// GenerateText sends system+user messages to the LLM backend and returns
// the raw response text, retrying 5xx/timeouts up to the configured max
// attempts per spec.md §4.6 step 3.
func (c *Client) GenerateText(ctx context.Context, system, user string) (string, error) {
	req := responsesRequest{
		Model: c.model,
		Input: []message{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: 0.2,
	}

	var resp responsesResponse
	err := c.retryPolicy.DoGeneric(ctx, func(ctx context.Context) error {
		return c.doOnce(ctx, req, &resp)
	})
	if err != nil {
		return "", err
	}
	if resp.Refusal != "" {
		return "", fmt.Errorf("model refused: %s", resp.Refusal)
	}

	var sb strings.Builder
	for _, out := range resp.Output {
		for _, c := range out.Content {
			if c.Type == "output_text" {
				sb.WriteString(c.Text)
			}
		}
	}
	text := sb.String()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("no output_text found in response")
	}
	return text, nil
}

func (c *Client) doOnce(ctx context.Context, body responsesRequest, out *responsesResponse) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/responses", &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &httpError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode llm response: %w; raw=%s", err, string(raw))
	}
	return nil
}
