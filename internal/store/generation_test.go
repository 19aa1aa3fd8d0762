package store

import (
	"context"
	"errors"
	"testing"

	"github.com/lecturepipe/backend/internal/domain"
	"github.com/lecturepipe/backend/internal/store/testutil"
)

func seedGenerationWithQuestions(t *testing.T, gs *GenerationStore, qs *QuestionStore, n int) *domain.Generation {
	t.Helper()
	ctx := context.Background()
	g, err := gs.Create(ctx, []string{"vidAAAAAAAA"})
	if err != nil {
		t.Fatalf("create generation: %v", err)
	}
	questions := make([]*domain.Question, n)
	for i := range questions {
		questions[i] = &domain.Question{
			VideoExternalID: "vidAAAAAAAA",
			QuestionText:    "q",
			Answer:          "a",
		}
	}
	if err := qs.CreateAll(ctx, g.ID, questions); err != nil {
		t.Fatalf("create questions: %v", err)
	}
	got, err := gs.GetByID(ctx, g.ID)
	if err != nil {
		t.Fatalf("get generation: %v", err)
	}
	return got
}

func TestGenerationStoreDeleteRemovesQuestions(t *testing.T) {
	conn := testutil.DB(t)
	tx := testutil.Tx(t, conn)
	log := testutil.Logger(t)
	gs := NewGenerationStore(tx, log)
	qs := NewQuestionStore(tx, log)
	ctx := context.Background()

	g := seedGenerationWithQuestions(t, gs, qs, 2)

	if err := gs.Delete(ctx, g.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := gs.GetByID(ctx, g.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected generation gone, got %v", err)
	}
	remaining, err := qs.ListByGenerationID(ctx, g.ID)
	if err != nil {
		t.Fatalf("ListByGenerationID: %v", err)
	}
	if len(remaining) != 0 {
		t.Fatalf("expected questions removed, found %d", len(remaining))
	}
}

func TestQuestionStoreReorderRejectsMismatchedSet(t *testing.T) {
	conn := testutil.DB(t)
	tx := testutil.Tx(t, conn)
	log := testutil.Logger(t)
	gs := NewGenerationStore(tx, log)
	qs := NewQuestionStore(tx, log)
	ctx := context.Background()

	g := seedGenerationWithQuestions(t, gs, qs, 3)
	ids := make([]uint, len(g.Questions))
	for i, q := range g.Questions {
		ids[i] = q.ID
	}

	if err := qs.ReorderQuestions(ctx, g.ID, ids[:2]); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for short id list, got %v", err)
	}

	duped := []uint{ids[0], ids[0], ids[1]}
	if err := qs.ReorderQuestions(ctx, g.ID, duped); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for duplicate ids, got %v", err)
	}
}

func TestQuestionStoreReorderAppliesNewOrder(t *testing.T) {
	conn := testutil.DB(t)
	tx := testutil.Tx(t, conn)
	log := testutil.Logger(t)
	gs := NewGenerationStore(tx, log)
	qs := NewQuestionStore(tx, log)
	ctx := context.Background()

	g := seedGenerationWithQuestions(t, gs, qs, 3)
	ids := make([]uint, len(g.Questions))
	for i, q := range g.Questions {
		ids[i] = q.ID
	}
	reversed := []uint{ids[2], ids[1], ids[0]}

	if err := qs.ReorderQuestions(ctx, g.ID, reversed); err != nil {
		t.Fatalf("ReorderQuestions: %v", err)
	}

	got, err := qs.ListByGenerationID(ctx, g.ID)
	if err != nil {
		t.Fatalf("ListByGenerationID: %v", err)
	}
	for i, q := range got {
		if q.ID != reversed[i] {
			t.Fatalf("position %d: expected question %d, got %d", i, reversed[i], q.ID)
		}
	}
}

func TestQuestionStoreUpdateFieldsPartialUpdate(t *testing.T) {
	conn := testutil.DB(t)
	tx := testutil.Tx(t, conn)
	log := testutil.Logger(t)
	gs := NewGenerationStore(tx, log)
	qs := NewQuestionStore(tx, log)
	ctx := context.Background()

	g := seedGenerationWithQuestions(t, gs, qs, 1)
	qid := g.Questions[0].ID

	updated, err := qs.UpdateFields(ctx, qid, map[string]interface{}{"answer": "new answer"})
	if err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	if updated.Answer != "new answer" {
		t.Fatalf("expected answer updated, got %q", updated.Answer)
	}
	if updated.QuestionText != "q" {
		t.Fatalf("expected question_text untouched, got %q", updated.QuestionText)
	}
}
