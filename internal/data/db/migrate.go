package db

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/lecturepipe/backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		&types.Video{},
		&types.AudioChunk{},
		&types.Transcription{},
		&types.Generation{},
		&types.Question{},
	)
}

// EnsureVectorIndex creates the IVFFlat cosine-distance index on the
// transcriptions vector column, per spec.md §4.1. IVFFlat requires rows to
// exist for its clustering to be meaningful; CREATE INDEX IF NOT EXISTS on
// an empty table still succeeds and is safe to re-run on every startup.
func EnsureVectorIndex(db *gorm.DB, embeddingDim int) error {
	if embeddingDim <= 0 {
		return fmt.Errorf("embedding dimension must be positive, got %d", embeddingDim)
	}
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_transcriptions_vector_cosine
		ON transcriptions
		USING ivfflat (vector_embedding vector_cosine_ops)
		WITH (lists = 100);
	`).Error; err != nil {
		return fmt.Errorf("create idx_transcriptions_vector_cosine: %w", err)
	}
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_questions_generation_order
		ON questions (generation_id, order_index);
	`).Error; err != nil {
		return fmt.Errorf("create idx_questions_generation_order: %w", err)
	}
	return nil
}
