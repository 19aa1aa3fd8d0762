package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/lecturepipe/backend/internal/domain"
	"github.com/lecturepipe/backend/internal/fetcher"
	"github.com/lecturepipe/backend/internal/http/response"
	"github.com/lecturepipe/backend/internal/pipeline"
	"github.com/lecturepipe/backend/internal/platform/apierr"
	"github.com/lecturepipe/backend/internal/platform/logger"
	"github.com/lecturepipe/backend/internal/store"
)

type VideoHandler struct {
	store   *store.Store
	fetcher *fetcher.Fetcher
	log     *logger.Logger
}

func NewVideoHandler(st *store.Store, f *fetcher.Fetcher, baseLog *logger.Logger) *VideoHandler {
	return &VideoHandler{store: st, fetcher: f, log: baseLog.With("handler", "VideoHandler")}
}

type downloadRequest struct {
	URLs []string `json:"urls"`
}

// Download handles POST /videos/download. Per-item outcomes are reported
// in-band (200 OK regardless of individual item failures, spec.md §4.8).
func (h *VideoHandler) Download(c *gin.Context) {
	var req downloadRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.URLs) == 0 {
		response.RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err)
		return
	}

	batch := pipeline.RunDownloads(c.Request.Context(), h.fetcher, req.URLs)

	successful, duplicates, failed := 0, 0, 0
	results := make([]gin.H, 0, len(batch.Results))
	for _, r := range batch.Results {
		switch r.Status {
		case pipeline.StatusSuccess:
			successful++
		case pipeline.StatusDuplicate:
			duplicates++
		default:
			failed++
		}
		results = append(results, itemJSON(r.Item, r.Status, r.Error, gin.H{
			"video_id": r.Data.ExternalID,
			"title":    r.Data.Title,
		}))
	}

	response.RespondOK(c, gin.H{
		"results":    results,
		"total":      batch.Total,
		"successful": successful,
		"duplicates": duplicates,
		"failed":     failed,
	})
}

// List handles GET /videos?skip&limit.
func (h *VideoHandler) List(c *gin.Context) {
	skip, limit := parsePagination(c)
	videos, err := h.store.Video.List(c.Request.Context(), skip, limit)
	if err != nil {
		respondAPIErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"videos": videos})
}

// Get handles GET /videos/{external_id}.
func (h *VideoHandler) Get(c *gin.Context) {
	v, err := h.store.Video.GetByExternalID(c.Request.Context(), c.Param("external_id"))
	if err != nil {
		respondAPIErr(c, err)
		return
	}
	response.RespondOK(c, v)
}

// Delete handles DELETE /videos/{external_id}?cascade=true.
func (h *VideoHandler) Delete(c *gin.Context) {
	cascade, _ := strconv.ParseBool(c.Query("cascade"))
	if err := h.store.Video.Delete(c.Request.Context(), c.Param("external_id"), cascade); err != nil {
		respondDeleteErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func respondDeleteErr(c *gin.Context, err error) {
	var depErr *domain.DependencyViolationError
	if errors.As(err, &depErr) {
		dependents := make([]response.DependentResource, len(depErr.Dependents))
		for i, d := range depErr.Dependents {
			dependents[i] = response.DependentResource{Type: d.Type, ID: d.ID}
		}
		response.RespondDependencyViolation(c, dependents)
		return
	}
	respondAPIErr(c, err)
}

func respondAPIErr(c *gin.Context, err error) {
	mapped := apierr.Map(err)
	response.RespondError(c, mapped.Status, mapped.Code, mapped.Err)
}
