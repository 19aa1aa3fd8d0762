package store

import (
	"context"
	"encoding/json"
	"errors"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/lecturepipe/backend/internal/domain"
	"github.com/lecturepipe/backend/internal/platform/logger"
)

type GenerationStore struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGenerationStore(db *gorm.DB, baseLog *logger.Logger) *GenerationStore {
	return &GenerationStore{db: db, log: baseLog.With("store", "GenerationStore")}
}

// Create persists a Generation row recording which video external IDs fed
// into it, per spec.md §4.1's Generation.video_external_ids field.
func (s *GenerationStore) Create(ctx context.Context, videoExternalIDs []string) (*domain.Generation, error) {
	raw, err := json.Marshal(videoExternalIDs)
	if err != nil {
		return nil, err
	}
	g := &domain.Generation{
		VideoExternalIDs: datatypes.JSON(raw),
		QuestionCount:    0,
	}
	if err := s.db.WithContext(ctx).Create(g).Error; err != nil {
		return nil, err
	}
	return g, nil
}

func (s *GenerationStore) GetByID(ctx context.Context, id uint) (*domain.Generation, error) {
	var g domain.Generation
	err := s.db.WithContext(ctx).
		Preload("Questions", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("order_index ASC")
		}).
		First(&g, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *GenerationStore) List(ctx context.Context, skip, limit int) ([]*domain.Generation, error) {
	var gens []*domain.Generation
	q := s.db.WithContext(ctx).Order("id ASC")
	if skip > 0 {
		q = q.Offset(skip)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&gens).Error; err != nil {
		return nil, err
	}
	return gens, nil
}

// SetQuestionCount updates the denormalized count after questions are
// attached, keeping Generation.question_count consistent without a join on
// every read.
func (s *GenerationStore) SetQuestionCount(ctx context.Context, id uint, count int) error {
	res := s.db.WithContext(ctx).Model(&domain.Generation{}).Where("id = ?", id).Update("question_count", count)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes the Generation row and its Questions (no enforced
// foreign-key cascade backs this, so both are removed explicitly).
func (s *GenerationStore) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("generation_id = ?", id).Delete(&domain.Question{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&domain.Generation{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}
