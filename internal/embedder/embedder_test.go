package embedder

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lecturepipe/backend/internal/domain"
	"github.com/lecturepipe/backend/internal/platform/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return log
}

func TestNormalizeL2ProducesUnitVector(t *testing.T) {
	v := []float32{3, 4}
	out := normalizeL2(v)
	var sumSq float64
	for _, x := range out {
		sumSq += float64(x) * float64(x)
	}
	norm := math.Sqrt(sumSq)
	if math.Abs(norm-1.0) > 1e-6 {
		t.Errorf("norm = %f, want 1.0", norm)
	}
	if math.Abs(float64(out[0])-0.6) > 1e-6 || math.Abs(float64(out[1])-0.8) > 1e-6 {
		t.Errorf("got %v, want [0.6 0.8]", out)
	}
}

func TestNormalizeL2HandlesZeroVector(t *testing.T) {
	v := []float32{0, 0, 0}
	out := normalizeL2(v)
	for _, x := range out {
		if x != 0 {
			t.Errorf("expected zero vector unchanged, got %v", out)
		}
	}
}

func TestEmbedReturnsUnitNormVectorFromServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req embeddingsRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		_ = json.NewEncoder(w).Encode(embeddingsResponse{
			Data: []struct {
				Embedding []float64 `json:"embedding"`
				Index     int       `json:"index"`
			}{{Embedding: []float64{1, 2, 2}, Index: 0}},
		})
	}))
	defer srv.Close()

	e := New(srv.URL, "test-key", "test-model", 3, testLogger(t))
	vec, err := e.Embed(t.Context(), "hello world")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vec) != 3 {
		t.Fatalf("expected dimension 3, got %d", len(vec))
	}
	var sumSq float64
	for _, x := range vec {
		sumSq += float64(x) * float64(x)
	}
	if math.Abs(math.Sqrt(sumSq)-1.0) > 1e-6 {
		t.Errorf("expected unit norm, got norm %f", math.Sqrt(sumSq))
	}
}

func TestEmbedRejectsWrongDimension(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(embeddingsResponse{
			Data: []struct {
				Embedding []float64 `json:"embedding"`
				Index     int       `json:"index"`
			}{{Embedding: []float64{1, 2}, Index: 0}},
		})
	}))
	defer srv.Close()

	e := New(srv.URL, "test-key", "test-model", 384, testLogger(t))
	_, err := e.Embed(t.Context(), "hello")
	if !errors.Is(err, domain.ErrEmbeddingFailed) {
		t.Fatalf("expected ErrEmbeddingFailed, got %v", err)
	}
}

func TestEmbedTruncatesLongInputWithoutError(t *testing.T) {
	var seenInputLen int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req embeddingsRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		seenInputLen = len([]rune(req.Input[0]))
		_ = json.NewEncoder(w).Encode(embeddingsResponse{
			Data: []struct {
				Embedding []float64 `json:"embedding"`
				Index     int       `json:"index"`
			}{{Embedding: []float64{1, 0}, Index: 0}},
		})
	}))
	defer srv.Close()

	e := New(srv.URL, "test-key", "test-model", 2, testLogger(t))
	longText := strings.Repeat("a", maxInputRunes+500)
	_, err := e.Embed(t.Context(), longText)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seenInputLen != maxInputRunes {
		t.Errorf("expected truncated input of %d runes, got %d", maxInputRunes, seenInputLen)
	}
}

func TestEmbedPermanentFailurePropagatesEmbeddingFailed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"bad request"}`))
	}))
	defer srv.Close()

	e := New(srv.URL, "test-key", "test-model", 0, testLogger(t))
	_, err := e.Embed(t.Context(), "hello")
	if !errors.Is(err, domain.ErrEmbeddingFailed) {
		t.Fatalf("expected ErrEmbeddingFailed, got %v", err)
	}
}
