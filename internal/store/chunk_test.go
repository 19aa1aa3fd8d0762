package store

import (
	"context"
	"testing"

	"github.com/lecturepipe/backend/internal/domain"
	"github.com/lecturepipe/backend/internal/store/testutil"
)

func TestChunkStoreCreateAllAndGetByVideoID(t *testing.T) {
	conn := testutil.DB(t)
	tx := testutil.Tx(t, conn)
	log := testutil.Logger(t)
	vs := NewVideoStore(tx, log)
	cs := NewChunkStore(tx, log)
	ctx := context.Background()

	v, err := vs.Insert(ctx, "chunkvidAAA", "lecture", "", "/audio/chunkvidAAA.m4a")
	if err != nil {
		t.Fatalf("insert video: %v", err)
	}

	chunks := []*domain.AudioChunk{
		{VideoID: v.ID, Index: 1, FilePath: "/audio/chunkvidAAA.001.m4a", StartMS: 1000, EndMS: 2000, FileSize: 512},
		{VideoID: v.ID, Index: 0, FilePath: "/audio/chunkvidAAA.000.m4a", StartMS: 0, EndMS: 1000, FileSize: 512},
	}
	if err := cs.CreateAll(ctx, chunks); err != nil {
		t.Fatalf("CreateAll: %v", err)
	}

	got, err := cs.GetByVideoID(ctx, v.ID)
	if err != nil {
		t.Fatalf("GetByVideoID: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(got))
	}
	if got[0].Index != 0 || got[1].Index != 1 {
		t.Fatalf("expected chunks ordered by index, got %d then %d", got[0].Index, got[1].Index)
	}
}

func TestChunkStoreCreateAllEmptyIsNoop(t *testing.T) {
	conn := testutil.DB(t)
	tx := testutil.Tx(t, conn)
	cs := NewChunkStore(tx, testutil.Logger(t))

	if err := cs.CreateAll(context.Background(), nil); err != nil {
		t.Fatalf("expected no error on empty batch, got %v", err)
	}
}
