package app

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lecturepipe/backend/internal/platform/logger"
	"github.com/lecturepipe/backend/internal/utils"
)

// configOverlayEnv names an optional YAML file that can pre-seed defaults
// below the individual environment variables, following the same
// override-file-or-fallback idiom used for job pipeline specs: if present
// and valid it supplies defaults, but any individual env var always wins.
const configOverlayEnv = "LECTUREPIPE_CONFIG_YAML"

// Config holds every recognized configuration variable from spec.md §6.
type Config struct {
	Port string

	DatabaseURL string
	StoragePath string

	TranscriptionProvider string // "local" | "remote"
	TranscriptionModel    string
	RemoteCredentialsFile string
	RemoteSampleRateHz    int

	EmbeddingBaseURL string
	EmbeddingAPIKey  string
	EmbeddingModel   string
	EmbeddingDim     int

	LLMBaseURL string
	LLMAPIKey  string
	LLMModel   string

	MaxChunkSizeMB              int
	SilenceThresholdDB          float64
	MinSilenceDurationS         float64
	DeleteOriginalAfterChunking bool

	MaxConcurrentDownloads int64

	CORSOrigins []string
}

type configOverlay struct {
	Port                        string   `yaml:"port"`
	DatabaseURL                 string   `yaml:"database_url"`
	StoragePath                 string   `yaml:"storage_path"`
	TranscriptionProvider       string   `yaml:"transcription_provider"`
	TranscriptionModel          string   `yaml:"transcription_model"`
	EmbeddingModelName          string   `yaml:"embedding_model_name"`
	EmbeddingDim                int      `yaml:"embedding_dim"`
	LLMBaseURL                  string   `yaml:"llm_base_url"`
	LLMModel                    string   `yaml:"llm_model"`
	MaxChunkSizeMB              int      `yaml:"max_chunk_size_mb"`
	SilenceThresholdDB          float64  `yaml:"silence_threshold_db"`
	MinSilenceDurationS         float64  `yaml:"min_silence_duration_s"`
	DeleteOriginalAfterChunking bool     `yaml:"delete_original_after_chunking"`
	CORSOrigins                 []string `yaml:"cors_origins"`
}

func LoadConfig(log *logger.Logger) Config {
	overlay := loadConfigOverlay(log)

	return Config{
		Port: utils.GetEnv("PORT", orDefault(overlay.Port, "8080"), log),

		DatabaseURL: utils.GetEnv("DATABASE_URL", overlay.DatabaseURL, log),
		StoragePath: utils.GetEnv("STORAGE_PATH", orDefault(overlay.StoragePath, "/var/lib/lecturepipe"), log),

		TranscriptionProvider: utils.GetEnv("TRANSCRIPTION_PROVIDER", orDefault(overlay.TranscriptionProvider, "local"), log),
		TranscriptionModel:    utils.GetEnv("TRANSCRIPTION_MODEL", overlay.TranscriptionModel, log),
		RemoteCredentialsFile: utils.GetEnv("TRANSCRIPTION_REMOTE_CREDENTIALS_FILE", "", log),
		RemoteSampleRateHz:    utils.GetEnvAsInt("TRANSCRIPTION_REMOTE_SAMPLE_RATE_HZ", 16000, log),

		EmbeddingBaseURL: utils.GetEnv("EMBEDDING_BASE_URL", "", log),
		EmbeddingAPIKey:  utils.GetEnv("EMBEDDING_API_KEY", "", log),
		EmbeddingModel:   utils.GetEnv("EMBEDDING_MODEL_NAME", overlay.EmbeddingModelName, log),
		EmbeddingDim:     utils.GetEnvAsInt("EMBEDDING_DIM", orDefaultInt(overlay.EmbeddingDim, 384), log),

		LLMBaseURL: utils.GetEnv("LLM_BASE_URL", overlay.LLMBaseURL, log),
		LLMAPIKey:  utils.GetEnv("LLM_API_KEY", "", log),
		LLMModel:   utils.GetEnv("LLM_MODEL", overlay.LLMModel, log),

		MaxChunkSizeMB:              utils.GetEnvAsInt("MAX_CHUNK_SIZE_MB", orDefaultInt(overlay.MaxChunkSizeMB, 25), log),
		SilenceThresholdDB:          utils.GetEnvAsFloat("SILENCE_THRESHOLD_DB", orDefaultFloat(overlay.SilenceThresholdDB, -35), log),
		MinSilenceDurationS:         utils.GetEnvAsFloat("MIN_SILENCE_DURATION_S", orDefaultFloat(overlay.MinSilenceDurationS, 0.3), log),
		DeleteOriginalAfterChunking: utils.GetEnvAsBool("DELETE_ORIGINAL_AFTER_CHUNKING", overlay.DeleteOriginalAfterChunking, log),

		MaxConcurrentDownloads: int64(utils.GetEnvAsInt("MAX_CONCURRENT_DOWNLOADS", 2, log)),

		CORSOrigins: corsOrigins(overlay.CORSOrigins, log),
	}
}

func corsOrigins(overlayOrigins []string, log *logger.Logger) []string {
	raw := utils.GetEnv("CORS_ORIGINS", "", log)
	if raw == "" {
		return overlayOrigins
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}

func loadConfigOverlay(log *logger.Logger) configOverlay {
	path := strings.TrimSpace(os.Getenv(configOverlayEnv))
	if path == "" {
		return configOverlay{}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if log != nil {
			log.Warn("config overlay file unreadable, ignoring", "path", path, "error", err)
		}
		return configOverlay{}
	}
	var overlay configOverlay
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		if log != nil {
			log.Warn("config overlay file invalid YAML, ignoring", "path", path, "error", err)
		}
		return configOverlay{}
	}
	return overlay
}

func orDefault(val, fallback string) string {
	if val == "" {
		return fallback
	}
	return val
}

func orDefaultInt(val, fallback int) int {
	if val == 0 {
		return fallback
	}
	return val
}

func orDefaultFloat(val, fallback float64) float64 {
	if val == 0 {
		return fallback
	}
	return val
}
