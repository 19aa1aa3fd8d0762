package store

import (
	"context"
	"errors"
	"testing"

	"github.com/lecturepipe/backend/internal/domain"
	"github.com/lecturepipe/backend/internal/store/testutil"
)

func TestTranscriptionStoreInsertRejectsUnknownVideo(t *testing.T) {
	conn := testutil.DB(t)
	tx := testutil.Tx(t, conn)
	ts := NewTranscriptionStore(tx, testutil.Logger(t))

	if _, err := ts.Insert(context.Background(), 999999, "text", nil); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTranscriptionStoreInsertNilVectorStoresNoEmbeddingStatus(t *testing.T) {
	conn := testutil.DB(t)
	tx := testutil.Tx(t, conn)
	log := testutil.Logger(t)
	vs := NewVideoStore(tx, log)
	ts := NewTranscriptionStore(tx, log)
	ctx := context.Background()

	v, err := vs.Insert(ctx, "novecABCDEF", "lecture", "", "")
	if err != nil {
		t.Fatalf("insert video: %v", err)
	}

	got, err := ts.Insert(ctx, v.ID, "hello world", nil)
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if got.Status != domain.TranscriptionStatusCompletedNoEmbedding {
		t.Fatalf("expected status completed_no_embedding, got %q", got.Status)
	}
	if got.Vector != nil {
		t.Fatalf("expected nil vector")
	}
}

func TestTranscriptionStoreInsertRejectsMismatchedVectorLength(t *testing.T) {
	conn := testutil.DB(t)
	tx := testutil.Tx(t, conn)
	log := testutil.Logger(t)
	vs := NewVideoStore(tx, log)
	ts := NewTranscriptionStore(tx, log)
	ts.SetEmbeddingDim(384)
	ctx := context.Background()

	v, err := vs.Insert(ctx, "badvecGHIJK", "lecture", "", "")
	if err != nil {
		t.Fatalf("insert video: %v", err)
	}

	shortVec := make([]float32, 10)
	if _, err := ts.Insert(ctx, v.ID, "hello world", shortVec); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for mismatched vector length, got %v", err)
	}
}

func TestTranscriptionStoreInsertAcceptsMatchingVectorLength(t *testing.T) {
	conn := testutil.DB(t)
	tx := testutil.Tx(t, conn)
	log := testutil.Logger(t)
	vs := NewVideoStore(tx, log)
	ts := NewTranscriptionStore(tx, log)
	ts.SetEmbeddingDim(384)
	ctx := context.Background()

	v, err := vs.Insert(ctx, "okvecLMNOPQ", "lecture", "", "")
	if err != nil {
		t.Fatalf("insert video: %v", err)
	}

	vec := make([]float32, 384)
	got, err := ts.Insert(ctx, v.ID, "hello world", vec)
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if got.Status != domain.TranscriptionStatusCompleted {
		t.Fatalf("expected status completed, got %q", got.Status)
	}
	if got.Vector == nil {
		t.Fatalf("expected non-nil vector")
	}
}
