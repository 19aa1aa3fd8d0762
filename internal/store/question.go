package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/lecturepipe/backend/internal/domain"
	"github.com/lecturepipe/backend/internal/platform/logger"
)

type QuestionStore struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuestionStore(db *gorm.DB, baseLog *logger.Logger) *QuestionStore {
	return &QuestionStore{db: db, log: baseLog.With("store", "QuestionStore")}
}

// CreateAll persists questions in order_index order within one transaction,
// then updates the owning Generation's denormalized question_count.
func (s *QuestionStore) CreateAll(ctx context.Context, generationID uint, questions []*domain.Question) error {
	if len(questions) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, q := range questions {
			q.GenerationID = generationID
			q.OrderIndex = i
		}
		if err := tx.CreateInBatches(questions, 100).Error; err != nil {
			return err
		}
		return tx.Model(&domain.Generation{}).
			Where("id = ?", generationID).
			Update("question_count", len(questions)).Error
	})
}

func (s *QuestionStore) GetByID(ctx context.Context, id uint) (*domain.Question, error) {
	var q domain.Question
	err := s.db.WithContext(ctx).First(&q, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (s *QuestionStore) ListByGenerationID(ctx context.Context, generationID uint) ([]*domain.Question, error) {
	var qs []*domain.Question
	if err := s.db.WithContext(ctx).
		Where("generation_id = ?", generationID).
		Order("order_index ASC").
		Find(&qs).Error; err != nil {
		return nil, err
	}
	return qs, nil
}

// UpdateFields partially updates a Question: every column named in fields
// is written (the HTTP handler may pass question_text, answer, context,
// difficulty, question_type and order_index); columns not named are left
// untouched.
func (s *QuestionStore) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) (*domain.Question, error) {
	res := s.db.WithContext(ctx).Model(&domain.Question{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrNotFound
	}
	return s.GetByID(ctx, id)
}

func (s *QuestionStore) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&domain.Question{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ReorderQuestions assigns order_index by position in orderedIDs. It
// rejects the request with domain.ErrValidation, leaving order unchanged,
// unless orderedIDs is exactly the Generation's current question set (same
// IDs, no fewer, no extras), per spec.md §4.1's reorder_questions contract.
func (s *QuestionStore) ReorderQuestions(ctx context.Context, generationID uint, orderedIDs []uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current []domain.Question
		if err := tx.Where("generation_id = ?", generationID).Find(&current).Error; err != nil {
			return err
		}

		currentSet := make(map[uint]bool, len(current))
		for _, q := range current {
			currentSet[q.ID] = true
		}

		if len(orderedIDs) != len(currentSet) {
			return domain.ErrValidation
		}
		seen := make(map[uint]bool, len(orderedIDs))
		for _, id := range orderedIDs {
			if !currentSet[id] || seen[id] {
				return domain.ErrValidation
			}
			seen[id] = true
		}

		for i, id := range orderedIDs {
			if err := tx.Model(&domain.Question{}).
				Where("id = ? AND generation_id = ?", id, generationID).
				Update("order_index", i).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
