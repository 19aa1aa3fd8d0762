package http

import (
	"github.com/gin-gonic/gin"

	httpH "github.com/lecturepipe/backend/internal/http/handlers"
	httpMW "github.com/lecturepipe/backend/internal/http/middleware"
	"github.com/lecturepipe/backend/internal/platform/logger"
)

type RouterConfig struct {
	VideoHandler         *httpH.VideoHandler
	TranscriptionHandler *httpH.TranscriptionHandler
	GenerationHandler    *httpH.GenerationHandler
	HealthHandler        *httpH.HealthHandler
	AdminHandler         *httpH.AdminHandler

	CORSOrigins []string
	Log         *logger.Logger
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.Default()
	r.Use(httpMW.AttachRequestContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		if cfg.VideoHandler != nil {
			api.POST("/videos/download", cfg.VideoHandler.Download)
			api.GET("/videos", cfg.VideoHandler.List)
			api.GET("/videos/:external_id", cfg.VideoHandler.Get)
			api.DELETE("/videos/:external_id", cfg.VideoHandler.Delete)
		}

		if cfg.TranscriptionHandler != nil {
			api.POST("/videos/transcribe", cfg.TranscriptionHandler.Transcribe)
			api.POST("/transcriptions/transcribe", cfg.TranscriptionHandler.Transcribe)
			api.GET("/transcriptions", cfg.TranscriptionHandler.List)
			api.GET("/transcriptions/:id", cfg.TranscriptionHandler.Get)
			api.GET("/transcriptions/video/:external_id", cfg.TranscriptionHandler.GetByVideo)
			api.DELETE("/transcriptions/:id", cfg.TranscriptionHandler.Delete)
		}

		if cfg.GenerationHandler != nil {
			api.POST("/questions/generate", cfg.GenerationHandler.Generate)
			api.GET("/generations", cfg.GenerationHandler.List)
			api.GET("/generations/:id", cfg.GenerationHandler.Get)
			api.DELETE("/generations/:id", cfg.GenerationHandler.Delete)
			api.PUT("/generations/:id/questions/reorder", cfg.GenerationHandler.ReorderQuestions)
			api.PUT("/generations/:id/questions/:qid", cfg.GenerationHandler.UpdateQuestion)
			api.DELETE("/generations/:id/questions/:qid", cfg.GenerationHandler.DeleteQuestion)
		}

		if cfg.AdminHandler != nil {
			api.POST("/admin/sweep-orphans", cfg.AdminHandler.SweepOrphans)
		}
	}

	return r
}
