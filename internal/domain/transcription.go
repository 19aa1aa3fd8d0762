package domain

import (
	"time"

	"github.com/pgvector/pgvector-go"
)

type TranscriptionStatus string

const (
	TranscriptionStatusCompleted           TranscriptionStatus = "completed"
	TranscriptionStatusCompletedNoEmbedding TranscriptionStatus = "completed_no_embedding"
)

// Transcription holds the full text produced for a Video and, when
// embedding succeeded, a fixed-dimension unit-norm vector suitable for
// cosine-similarity search. Multiple Transcriptions per Video are allowed;
// re-running transcription creates a new row rather than overwriting.
type Transcription struct {
	ID        uint                `gorm:"primaryKey;autoIncrement"`
	VideoID   uint                 `gorm:"column:video_id;not null;index"`
	Text      string               `gorm:"column:transcription_text;type:text;not null"`
	Vector    *pgvector.Vector     `gorm:"column:vector_embedding;type:vector(384)"`
	Status    TranscriptionStatus  `gorm:"column:status;type:varchar(32);not null;default:completed"`
	CreatedAt time.Time            `gorm:"column:created_at;autoCreateTime"`
}

func (Transcription) TableName() string { return "transcriptions" }
