// Package store is the Store component: durable persistence of Video,
// AudioChunk, Transcription, Generation, and Question rows, with FK/cascade
// invariants enforced per spec.md §4.1.
package store

import (
	"gorm.io/gorm"

	"github.com/lecturepipe/backend/internal/platform/logger"
)

// Store composes the per-entity repositories into a single facade, passed
// explicitly through the service container (no ambient globals).
type Store struct {
	Video          *VideoStore
	Chunk          *ChunkStore
	Transcription  *TranscriptionStore
	Generation     *GenerationStore
	Question       *QuestionStore
}

func New(db *gorm.DB, log *logger.Logger) *Store {
	return &Store{
		Video:         NewVideoStore(db, log),
		Chunk:         NewChunkStore(db, log),
		Transcription: NewTranscriptionStore(db, log),
		Generation:    NewGenerationStore(db, log),
		Question:      NewQuestionStore(db, log),
	}
}
