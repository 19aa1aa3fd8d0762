package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lecturepipe/backend/internal/embedder"
	"github.com/lecturepipe/backend/internal/http/response"
	"github.com/lecturepipe/backend/internal/pipeline"
	"github.com/lecturepipe/backend/internal/platform/logger"
	"github.com/lecturepipe/backend/internal/store"
	"github.com/lecturepipe/backend/internal/transcribe"
)

type TranscriptionHandler struct {
	store *store.Store
	orch  *transcribe.Orchestrator
	emb   *embedder.Embedder
	log   *logger.Logger
}

func NewTranscriptionHandler(st *store.Store, orch *transcribe.Orchestrator, emb *embedder.Embedder, baseLog *logger.Logger) *TranscriptionHandler {
	return &TranscriptionHandler{store: st, orch: orch, emb: emb, log: baseLog.With("handler", "TranscriptionHandler")}
}

type transcribeRequest struct {
	VideoIDs []string `json:"video_ids"`
	Language string   `json:"language"`
}

// Transcribe handles POST /videos/transcribe (alias POST /transcriptions/transcribe).
func (h *TranscriptionHandler) Transcribe(c *gin.Context) {
	var req transcribeRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.VideoIDs) == 0 {
		response.RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err)
		return
	}

	batch := pipeline.RunTranscriptions(c.Request.Context(), h.store, h.orch, h.emb, req.Language, req.VideoIDs)

	successful, notFound, noAudio, failed := 0, 0, 0, 0
	results := make([]gin.H, 0, len(batch.Results))
	for _, r := range batch.Results {
		switch r.Status {
		case pipeline.StatusSuccess:
			successful++
		case pipeline.StatusNotFound:
			notFound++
		case pipeline.StatusNoAudio:
			noAudio++
		default:
			failed++
		}
		results = append(results, itemJSON(r.Item, r.Status, r.Error, gin.H{
			"transcription_id": r.Data.TranscriptionID,
			"steps_completed":  r.Data.StepsCompleted,
			"total_steps":      r.Data.TotalSteps,
		}))
	}

	response.RespondOK(c, gin.H{
		"results":      results,
		"total":        batch.Total,
		"successful":   successful,
		"not_found":    notFound,
		"no_audio":     noAudio,
		"failed":       failed,
	})
}

// List handles GET /transcriptions?skip&limit&video_id.
func (h *TranscriptionHandler) List(c *gin.Context) {
	skip, limit := parsePagination(c)
	var videoID *uint
	if q := c.Query("video_id"); q != "" {
		video, err := h.store.Video.GetByExternalID(c.Request.Context(), q)
		if err != nil {
			respondAPIErr(c, err)
			return
		}
		videoID = &video.ID
	}
	transcriptions, err := h.store.Transcription.List(c.Request.Context(), skip, limit, videoID)
	if err != nil {
		respondAPIErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"transcriptions": transcriptions})
}

// Get handles GET /transcriptions/{id}.
func (h *TranscriptionHandler) Get(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		response.RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", nil)
		return
	}
	t, err := h.store.Transcription.GetByID(c.Request.Context(), id)
	if err != nil {
		respondAPIErr(c, err)
		return
	}
	response.RespondOK(c, t)
}

// GetByVideo handles GET /transcriptions/video/{external_id}.
func (h *TranscriptionHandler) GetByVideo(c *gin.Context) {
	video, err := h.store.Video.GetByExternalID(c.Request.Context(), c.Param("external_id"))
	if err != nil {
		respondAPIErr(c, err)
		return
	}
	transcriptions, err := h.store.Transcription.ListByVideoID(c.Request.Context(), video.ID)
	if err != nil {
		respondAPIErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"transcriptions": transcriptions})
}

// Delete handles DELETE /transcriptions/{id}.
func (h *TranscriptionHandler) Delete(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		response.RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", nil)
		return
	}
	if err := h.store.Transcription.Delete(c.Request.Context(), id); err != nil {
		respondAPIErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
