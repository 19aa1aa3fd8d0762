// Package embedder implements the Embedder: turning transcription text into
// a fixed-dimension, unit-L2-norm vector for cosine-similarity search.
package embedder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/lecturepipe/backend/internal/domain"
	"github.com/lecturepipe/backend/internal/pkg/retry"
	"github.com/lecturepipe/backend/internal/platform/logger"
)

// maxInputRunes bounds the text sent to the embedding model; truncation is
// from the end and silent, per spec.md §4.5.
const maxInputRunes = 8000

type httpError struct {
	StatusCode int
	Body       string
}

func (e *httpError) Error() string       { return fmt.Sprintf("embedder http %d: %s", e.StatusCode, e.Body) }
func (e *httpError) HTTPStatusCode() int { return e.StatusCode }

// Embedder calls a remote embeddings endpoint (OpenAI-compatible request
// shape) and re-normalizes the result to unit L2 norm.
type Embedder struct {
	log        *logger.Logger
	baseURL    string
	apiKey     string
	model      string
	dimension  int
	httpClient *http.Client
	retryPolicy retry.Policy
}

func New(baseURL, apiKey, model string, dimension int, baseLog *logger.Logger) *Embedder {
	baseURL = strings.TrimRight(baseURL, "/")
	return &Embedder{
		log:        baseLog.With("component", "Embedder"),
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
		dimension:  dimension,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		retryPolicy: retry.Policy{
			MaxAttempts: 3,
			Base:        retry.DefaultBase,
			Cap:         retry.DefaultCap,
			Jitter:      0.5,
			Retryable:   retry.IsRetryableError,
		},
	}
}

// Dimension reports the configured embedding width D.
func (e *Embedder) Dimension() int { return e.dimension }

type embeddingsRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingsResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
}

// Embed returns a unit-norm vector of length e.Dimension() for text. Text
// longer than maxInputRunes is truncated from the end without notice to
// the caller, per spec.md §4.5's truncation policy. Any failure is wrapped
// in domain.ErrEmbeddingFailed.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		trimmed = " "
	}
	runes := []rune(trimmed)
	if len(runes) > maxInputRunes {
		trimmed = string(runes[:maxInputRunes])
	}

	reqBody := embeddingsRequest{Model: e.model, Input: []string{trimmed}}

	var resp embeddingsResponse
	err := e.retryPolicy.DoGeneric(ctx, func(ctx context.Context) error {
		return e.doOnce(ctx, reqBody, &resp)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEmbeddingFailed, err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("%w: empty embeddings response", domain.ErrEmbeddingFailed)
	}

	vec := make([]float32, len(resp.Data[0].Embedding))
	for i, f := range resp.Data[0].Embedding {
		vec[i] = float32(f)
	}
	if e.dimension > 0 && len(vec) != e.dimension {
		return nil, fmt.Errorf("%w: expected dimension %d, got %d", domain.ErrEmbeddingFailed, e.dimension, len(vec))
	}

	return normalizeL2(vec), nil
}

func (e *Embedder) doOnce(ctx context.Context, body embeddingsRequest, out *embeddingsResponse) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/v1/embeddings", &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+e.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(req)
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
		return fmt.Errorf("decode embeddings response: %w", err)
	}
	return nil
}

// normalizeL2 rescales v to unit L2 norm. A zero vector is returned
// unchanged to avoid a divide-by-zero.
func normalizeL2(v []float32) []float32 {
	var sumSq float64
	for _, x := range v {
		sumSq += float64(x) * float64(x)
	}
	if sumSq == 0 {
		return v
	}
	norm := math.Sqrt(sumSq)
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}
