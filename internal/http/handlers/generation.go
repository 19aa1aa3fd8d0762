package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lecturepipe/backend/internal/http/response"
	"github.com/lecturepipe/backend/internal/pipeline"
	"github.com/lecturepipe/backend/internal/platform/apierr"
	"github.com/lecturepipe/backend/internal/platform/logger"
	"github.com/lecturepipe/backend/internal/questiongen"
	"github.com/lecturepipe/backend/internal/store"
)

type GenerationHandler struct {
	store *store.Store
	gen   *questiongen.Generator
	log   *logger.Logger
}

func NewGenerationHandler(st *store.Store, gen *questiongen.Generator, baseLog *logger.Logger) *GenerationHandler {
	return &GenerationHandler{store: st, gen: gen, log: baseLog.With("handler", "GenerationHandler")}
}

type generateRequest struct {
	VideoIDs      []string `json:"video_ids"`
	QuestionCount int      `json:"question_count"`
}

// Generate handles POST /questions/generate. If the LLM call itself fails
// after retries, the whole request fails 503 with no Generation created
// (spec.md §4.6); otherwise it's 200 with in-band per-item status.
func (h *GenerationHandler) Generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.VideoIDs) == 0 {
		response.RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err)
		return
	}

	batch, summary, err := pipeline.RunQuestionGeneration(c.Request.Context(), h.gen, req.VideoIDs, req.QuestionCount)
	if err != nil {
		respondAPIErr(c, err)
		return
	}

	results := make([]gin.H, 0, len(batch.Results))
	for _, r := range batch.Results {
		results = append(results, itemJSON(r.Item, r.Status, r.Error, gin.H{
			"generation_id": r.Data.GenerationID,
		}))
	}

	response.RespondOK(c, gin.H{
		"results":          results,
		"total":            summary.Total,
		"successful":       summary.Successful,
		"failed":           summary.Failed,
		"no_transcription": summary.NoTranscription,
		"total_questions":  summary.TotalQuestions,
		"generation_id":    summary.GenerationID,
	})
}

// List handles GET /generations?skip&limit.
func (h *GenerationHandler) List(c *gin.Context) {
	skip, limit := parsePagination(c)
	generations, err := h.store.Generation.List(c.Request.Context(), skip, limit)
	if err != nil {
		respondAPIErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"generations": generations})
}

// Get handles GET /generations/{id}; questions are preloaded ordered by
// order_index.
func (h *GenerationHandler) Get(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		response.RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", nil)
		return
	}
	g, err := h.store.Generation.GetByID(c.Request.Context(), id)
	if err != nil {
		respondAPIErr(c, err)
		return
	}
	response.RespondOK(c, g)
}

// Delete handles DELETE /generations/{id}.
func (h *GenerationHandler) Delete(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		response.RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", nil)
		return
	}
	if err := h.store.Generation.Delete(c.Request.Context(), id); err != nil {
		respondAPIErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type updateQuestionRequest struct {
	QuestionText *string `json:"question_text"`
	Answer       *string `json:"answer"`
	Context      *string `json:"context"`
	Difficulty   *string `json:"difficulty"`
	QuestionType *string `json:"question_type"`
	OrderIndex   *int    `json:"order_index"`
}

// UpdateQuestion handles PUT /generations/{id}/questions/{qid}.
func (h *GenerationHandler) UpdateQuestion(c *gin.Context) {
	qid, ok := parseUintParam(c, "qid")
	if !ok {
		response.RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", nil)
		return
	}

	var req updateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err)
		return
	}

	fields := map[string]interface{}{}
	if req.QuestionText != nil {
		fields["question_text"] = *req.QuestionText
	}
	if req.Answer != nil {
		fields["answer"] = *req.Answer
	}
	if req.Context != nil {
		fields["context"] = *req.Context
	}
	if req.Difficulty != nil {
		fields["difficulty"] = *req.Difficulty
	}
	if req.QuestionType != nil {
		fields["question_type"] = *req.QuestionType
	}
	if req.OrderIndex != nil {
		fields["order_index"] = *req.OrderIndex
	}

	q, err := h.store.Question.UpdateFields(c.Request.Context(), qid, fields)
	if err != nil {
		respondAPIErr(c, err)
		return
	}
	response.RespondOK(c, q)
}

// DeleteQuestion handles DELETE /generations/{id}/questions/{qid}.
func (h *GenerationHandler) DeleteQuestion(c *gin.Context) {
	qid, ok := parseUintParam(c, "qid")
	if !ok {
		response.RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", nil)
		return
	}
	if err := h.store.Question.Delete(c.Request.Context(), qid); err != nil {
		respondAPIErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type reorderRequest struct {
	QuestionIDs []uint `json:"question_ids"`
}

// ReorderQuestions handles PUT /generations/{id}/questions/reorder.
func (h *GenerationHandler) ReorderQuestions(c *gin.Context) {
	genID, ok := parseUintParam(c, "id")
	if !ok {
		response.RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", nil)
		return
	}
	var req reorderRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.QuestionIDs) == 0 {
		response.RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err)
		return
	}

	if err := h.store.Question.ReorderQuestions(c.Request.Context(), genID, req.QuestionIDs); err != nil {
		mapped := apierr.Map(err)
		response.RespondError(c, mapped.Status, mapped.Code, mapped.Err)
		return
	}
	response.RespondOK(c, gin.H{"generation_id": genID, "question_ids": req.QuestionIDs})
}
