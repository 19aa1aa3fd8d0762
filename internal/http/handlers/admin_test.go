package handlers

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/lecturepipe/backend/internal/store"
	"github.com/lecturepipe/backend/internal/store/testutil"
)

func TestAdminHandlerSweepOrphansRemovesUnreferencedAudio(t *testing.T) {
	conn := testutil.DB(t)
	tx := testutil.Tx(t, conn)
	log := testutil.Logger(t)

	storagePath := t.TempDir()
	audioDir := filepath.Join(storagePath, "audio")
	if err := os.MkdirAll(audioDir, 0o755); err != nil {
		t.Fatalf("mkdir audio dir: %v", err)
	}
	orphanPath := filepath.Join(audioDir, "dQw4w9WgXcQ.wav")
	if err := os.WriteFile(orphanPath, []byte("audio"), 0o644); err != nil {
		t.Fatalf("write orphan file: %v", err)
	}

	st := &store.Store{Chunk: store.NewChunkStore(tx, log)}
	h := NewAdminHandler(st, storagePath, log)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/admin/sweep-orphans", h.SweepOrphans)

	req := httptest.NewRequest(http.MethodPost, "/admin/sweep-orphans", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if _, err := os.Stat(orphanPath); !os.IsNotExist(err) {
		t.Fatalf("expected orphan file removed, stat err=%v", err)
	}
}

func TestAdminHandlerSweepOrphansNoAudioDir(t *testing.T) {
	conn := testutil.DB(t)
	tx := testutil.Tx(t, conn)
	log := testutil.Logger(t)

	st := &store.Store{Chunk: store.NewChunkStore(tx, log)}
	h := NewAdminHandler(st, t.TempDir(), log)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/admin/sweep-orphans", h.SweepOrphans)

	req := httptest.NewRequest(http.MethodPost, "/admin/sweep-orphans", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}
