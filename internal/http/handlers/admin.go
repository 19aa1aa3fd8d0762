package handlers

import (
	"os"

	"github.com/lecturepipe/backend/internal/http/response"
	"github.com/lecturepipe/backend/internal/platform/logger"
	"github.com/lecturepipe/backend/internal/store"

	"github.com/gin-gonic/gin"
)

// AdminHandler exposes maintenance operations that don't belong to any one
// domain resource.
type AdminHandler struct {
	store       *store.Store
	storagePath string
	log         *logger.Logger
}

func NewAdminHandler(st *store.Store, storagePath string, baseLog *logger.Logger) *AdminHandler {
	return &AdminHandler{store: st, storagePath: storagePath, log: baseLog.With("handler", "AdminHandler")}
}

// SweepOrphans handles POST /admin/sweep-orphans. It reports (and removes)
// original audio files left behind when a Video row's delete-then-file-
// removal sequence failed partway, per spec.md §3's "orphan files are
// reported and swept separately" clause.
func (h *AdminHandler) SweepOrphans(c *gin.Context) {
	orphans, err := h.store.Chunk.ListOrphanAudioFiles(c.Request.Context(), h.storagePath)
	if err != nil {
		respondAPIErr(c, err)
		return
	}

	var removed []string
	var failed []string
	for _, path := range orphans {
		if err := removeOrphan(path); err != nil {
			h.log.Warn("failed to remove orphan audio file", "path", path, "error", err)
			failed = append(failed, path)
			continue
		}
		removed = append(removed, path)
	}

	response.RespondOK(c, gin.H{
		"removed": removed,
		"failed":  failed,
		"total":   len(orphans),
	})
}

func removeOrphan(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
