package store

import (
	"context"
	"errors"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"github.com/lecturepipe/backend/internal/domain"
	"github.com/lecturepipe/backend/internal/platform/logger"
)

type TranscriptionStore struct {
	db           *gorm.DB
	log          *logger.Logger
	embeddingDim int
}

func NewTranscriptionStore(db *gorm.DB, baseLog *logger.Logger) *TranscriptionStore {
	return &TranscriptionStore{db: db, log: baseLog.With("store", "TranscriptionStore")}
}

// SetEmbeddingDim configures the expected vector width D; Insert rejects
// vectors whose length differs, per spec.md §4.1 ("rejects inserts whose
// vector length != D").
func (s *TranscriptionStore) SetEmbeddingDim(d int) { s.embeddingDim = d }

// Insert fails with domain.ErrNotFound if the video does not exist. A nil
// vector stores status "completed_no_embedding"; spec.md §4.1 never
// unique-constrains on video, so re-running creates a new row.
func (s *TranscriptionStore) Insert(ctx context.Context, videoID uint, text string, vec []float32) (*domain.Transcription, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&domain.Video{}).Where("id = ?", videoID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, domain.ErrNotFound
	}

	t := &domain.Transcription{
		VideoID: videoID,
		Text:    text,
		Status:  domain.TranscriptionStatusCompletedNoEmbedding,
	}
	if vec != nil {
		if s.embeddingDim > 0 && len(vec) != s.embeddingDim {
			return nil, domain.ErrValidation
		}
		v := pgvector.NewVector(vec)
		t.Vector = &v
		t.Status = domain.TranscriptionStatusCompleted
	}

	if err := s.db.WithContext(ctx).Create(t).Error; err != nil {
		return nil, err
	}
	return t, nil
}

func (s *TranscriptionStore) GetByID(ctx context.Context, id uint) (*domain.Transcription, error) {
	var t domain.Transcription
	err := s.db.WithContext(ctx).First(&t, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *TranscriptionStore) GetMostRecentByVideoID(ctx context.Context, videoID uint) (*domain.Transcription, error) {
	var t domain.Transcription
	err := s.db.WithContext(ctx).Where("video_id = ?", videoID).Order("created_at DESC").First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *TranscriptionStore) ListByVideoID(ctx context.Context, videoID uint) ([]*domain.Transcription, error) {
	var ts []*domain.Transcription
	if err := s.db.WithContext(ctx).Where("video_id = ?", videoID).Order("created_at ASC").Find(&ts).Error; err != nil {
		return nil, err
	}
	return ts, nil
}

func (s *TranscriptionStore) List(ctx context.Context, skip, limit int, videoID *uint) ([]*domain.Transcription, error) {
	var ts []*domain.Transcription
	q := s.db.WithContext(ctx).Order("id ASC")
	if videoID != nil {
		q = q.Where("video_id = ?", *videoID)
	}
	if skip > 0 {
		q = q.Offset(skip)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&ts).Error; err != nil {
		return nil, err
	}
	return ts, nil
}

func (s *TranscriptionStore) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&domain.Transcription{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
