package store

import (
	"context"
	"errors"
	"os"

	"gorm.io/gorm"

	"github.com/lecturepipe/backend/internal/domain"
	"github.com/lecturepipe/backend/internal/platform/logger"
)

type VideoStore struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewVideoStore(db *gorm.DB, baseLog *logger.Logger) *VideoStore {
	return &VideoStore{db: db, log: baseLog.With("store", "VideoStore")}
}

// Insert rejects with domain.ErrDuplicate if externalID already exists.
func (s *VideoStore) Insert(ctx context.Context, externalID, title, thumbnailURL, audioPath string) (*domain.Video, error) {
	existing, err := s.GetByExternalID(ctx, externalID)
	if err == nil && existing != nil {
		return nil, domain.ErrDuplicate
	}
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	status := domain.DownloadStatusPending
	if audioPath != "" {
		status = domain.DownloadStatusCompleted
	}
	v := &domain.Video{
		ExternalID:   externalID,
		Title:        title,
		ThumbnailURL: thumbnailURL,
		AudioPath:    audioPath,
		Status:       status,
	}
	if err := s.db.WithContext(ctx).Create(v).Error; err != nil {
		return nil, err
	}
	return v, nil
}

func (s *VideoStore) GetByID(ctx context.Context, id uint) (*domain.Video, error) {
	var v domain.Video
	err := s.db.WithContext(ctx).First(&v, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *VideoStore) GetByExternalID(ctx context.Context, externalID string) (*domain.Video, error) {
	var v domain.Video
	err := s.db.WithContext(ctx).First(&v, "external_id = ?", externalID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *VideoStore) List(ctx context.Context, skip, limit int) ([]*domain.Video, error) {
	var vids []*domain.Video
	q := s.db.WithContext(ctx).Order("id ASC")
	if skip > 0 {
		q = q.Offset(skip)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&vids).Error; err != nil {
		return nil, err
	}
	return vids, nil
}

// CountDependents reports the number of Chunk, Transcription, and Question
// rows that reference videoID, used to build the DependencyViolation
// listing on a non-cascading delete.
func (s *VideoStore) CountDependents(ctx context.Context, videoID uint, externalID string) (chunks, transcriptions, questions int64, err error) {
	if err = s.db.WithContext(ctx).Model(&domain.AudioChunk{}).Where("video_id = ?", videoID).Count(&chunks).Error; err != nil {
		return
	}
	if err = s.db.WithContext(ctx).Model(&domain.Transcription{}).Where("video_id = ?", videoID).Count(&transcriptions).Error; err != nil {
		return
	}
	err = s.db.WithContext(ctx).Model(&domain.Question{}).Where("video_external_id = ?", externalID).Count(&questions).Error
	return
}

// Delete removes the Video row, its Chunks, Transcriptions, and Questions
// (the schema carries no enforced foreign-key cascade), and best-effort
// deletes the audio files it and its chunks reference. If cascade is false
// and dependents exist, it fails with a DependencyViolationError listing
// them and deletes nothing.
func (s *VideoStore) Delete(ctx context.Context, externalID string, cascade bool) error {
	v, err := s.GetByExternalID(ctx, externalID)
	if err != nil {
		return err
	}

	var chunks []domain.AudioChunk
	if err := s.db.WithContext(ctx).Where("video_id = ?", v.ID).Order("chunk_index ASC").Find(&chunks).Error; err != nil {
		return err
	}

	if !cascade {
		nChunks, nTranscriptions, nQuestions, err := s.CountDependents(ctx, v.ID, v.ExternalID)
		if err != nil {
			return err
		}
		if nChunks > 0 || nTranscriptions > 0 || nQuestions > 0 {
			var dependents []domain.DependentResource
			if nChunks > 0 {
				for _, c := range chunks {
					dependents = append(dependents, domain.DependentResource{Type: "chunk", ID: c.ID})
				}
			}
			if nTranscriptions > 0 {
				var transcriptions []domain.Transcription
				if err := s.db.WithContext(ctx).Where("video_id = ?", v.ID).Find(&transcriptions).Error; err != nil {
					return err
				}
				for _, t := range transcriptions {
					dependents = append(dependents, domain.DependentResource{Type: "transcription", ID: t.ID})
				}
			}
			if nQuestions > 0 {
				var questions []domain.Question
				if err := s.db.WithContext(ctx).Where("video_external_id = ?", v.ExternalID).Find(&questions).Error; err != nil {
					return err
				}
				for _, q := range questions {
					dependents = append(dependents, domain.DependentResource{Type: "question", ID: q.ID})
				}
			}
			return &domain.DependencyViolationError{Dependents: dependents}
		}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("video_external_id = ?", v.ExternalID).Delete(&domain.Question{}).Error; err != nil {
			return err
		}
		if err := tx.Where("video_id = ?", v.ID).Delete(&domain.Transcription{}).Error; err != nil {
			return err
		}
		if err := tx.Where("video_id = ?", v.ID).Delete(&domain.AudioChunk{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Video{}, "id = ?", v.ID).Error
	})
	if err != nil {
		return err
	}

	// Row is the source of truth; best-effort file deletion is logged, not
	// rolled back, on failure.
	if v.AudioPath != "" {
		if err := os.Remove(v.AudioPath); err != nil && !os.IsNotExist(err) {
			s.log.Warn("failed to delete audio file after video row delete", "path", v.AudioPath, "error", err)
		}
	}
	for _, c := range chunks {
		if err := os.Remove(c.FilePath); err != nil && !os.IsNotExist(err) {
			s.log.Warn("failed to delete chunk file after video row delete", "path", c.FilePath, "error", err)
		}
	}

	return nil
}
