package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/lecturepipe/backend/internal/platform/logger"
)

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	t.Cleanup(log.Sync)
	return log
}

func TestVideoHandlerDownloadRejectsEmptyURLs(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewVideoHandler(nil, nil, newTestLogger(t))

	r := gin.New()
	r.POST("/videos/download", h.Download)

	req := httptest.NewRequest(http.MethodPost, "/videos/download", strings.NewReader(`{"urls":[]}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestGenerationHandlerGenerateRejectsEmptyVideoIDs(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewGenerationHandler(nil, nil, newTestLogger(t))

	r := gin.New()
	r.POST("/questions/generate", h.Generate)

	req := httptest.NewRequest(http.MethodPost, "/questions/generate", strings.NewReader(`{"video_ids":[],"question_count":5}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestGenerationHandlerReorderRejectsEmptyQuestionIDs(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewGenerationHandler(nil, nil, newTestLogger(t))

	r := gin.New()
	r.PUT("/generations/:id/questions/reorder", h.ReorderQuestions)

	req := httptest.NewRequest(http.MethodPut, "/generations/1/questions/reorder", strings.NewReader(`{"question_ids":[]}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}
