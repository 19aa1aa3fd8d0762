package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/lecturepipe/backend/internal/chunker"
	"github.com/lecturepipe/backend/internal/data/db"
	"github.com/lecturepipe/backend/internal/embedder"
	"github.com/lecturepipe/backend/internal/fetcher"
	httpRouter "github.com/lecturepipe/backend/internal/http"
	httpH "github.com/lecturepipe/backend/internal/http/handlers"
	"github.com/lecturepipe/backend/internal/llmclient"
	"github.com/lecturepipe/backend/internal/platform/localmedia"
	"github.com/lecturepipe/backend/internal/platform/logger"
	"github.com/lecturepipe/backend/internal/questiongen"
	"github.com/lecturepipe/backend/internal/store"
	"github.com/lecturepipe/backend/internal/transcribe"
)

// App wires every named component into one running service: storage, the
// media fetcher/chunker/transcriber/embedder, the question generator, and
// the HTTP surface in front of them.
type App struct {
	Log    *logger.Logger
	DB     *gorm.DB
	Router *gin.Engine
	Cfg    Config
	cancel context.CancelFunc
}

// New builds the App. Any error here is a startup failure (missing
// database, vector extension, or required media binaries); the caller
// should exit non-zero rather than serve traffic.
func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	pg, err := db.NewPostgresService(cfg.DatabaseURL, log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init postgres: %w", err)
	}
	if err := pg.AutoMigrateAll(cfg.EmbeddingDim); err != nil {
		log.Sync()
		return nil, fmt.Errorf("postgres automigrate: %w", err)
	}
	theDB := pg.DB()

	st := store.New(theDB, log)
	st.Transcription.SetEmbeddingDim(cfg.EmbeddingDim)

	tools := localmedia.New(log)
	if err := tools.AssertReady(context.Background()); err != nil {
		log.Sync()
		return nil, fmt.Errorf("media tools not ready: %w", err)
	}

	f := fetcher.New(st, tools, log, cfg.StoragePath, cfg.MaxConcurrentDownloads)
	maxChunkBytes := int64(cfg.MaxChunkSizeMB) * 1024 * 1024
	minSilence := time.Duration(cfg.MinSilenceDurationS * float64(time.Second))
	ch := chunker.New(st, tools, log, cfg.StoragePath, maxChunkBytes, cfg.SilenceThresholdDB, minSilence)

	provider, err := transcribe.New(context.Background(), transcribe.Config{
		Kind:                  transcribe.Kind(cfg.TranscriptionProvider),
		LocalBinaryPath:       cfg.TranscriptionModel,
		RemoteCredentialsFile: cfg.RemoteCredentialsFile,
		RemoteSampleRateHz:    int32(cfg.RemoteSampleRateHz),
	}, log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init transcription provider: %w", err)
	}
	orch := transcribe.NewOrchestrator(provider, ch, st.Chunk, log)

	emb := embedder.New(cfg.EmbeddingBaseURL, cfg.EmbeddingAPIKey, cfg.EmbeddingModel, cfg.EmbeddingDim, log)
	llm := llmclient.New(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, log)
	gen := questiongen.New(st, llm, log)

	router := httpRouter.NewRouter(httpRouter.RouterConfig{
		VideoHandler:         httpH.NewVideoHandler(st, f, log),
		TranscriptionHandler: httpH.NewTranscriptionHandler(st, orch, emb, log),
		GenerationHandler:    httpH.NewGenerationHandler(st, gen, log),
		HealthHandler:        httpH.NewHealthHandler(),
		AdminHandler:         httpH.NewAdminHandler(st, cfg.StoragePath, log),
		CORSOrigins:          cfg.CORSOrigins,
		Log:                  log,
	})

	return &App{
		Log:    log,
		DB:     theDB,
		Router: router,
		Cfg:    cfg,
	}, nil
}

func (a *App) Start() {
	if a == nil || a.cancel != nil {
		return
	}
	_, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
}

func (a *App) Run(addr string) error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	return a.Router.Run(addr)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
