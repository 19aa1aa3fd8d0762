package store

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gorm.io/gorm"

	"github.com/lecturepipe/backend/internal/domain"
	"github.com/lecturepipe/backend/internal/platform/logger"
)

type ChunkStore struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChunkStore(db *gorm.DB, baseLog *logger.Logger) *ChunkStore {
	return &ChunkStore{db: db, log: baseLog.With("store", "ChunkStore")}
}

func (s *ChunkStore) GetByVideoID(ctx context.Context, videoID uint) ([]*domain.AudioChunk, error) {
	var chunks []*domain.AudioChunk
	if err := s.db.WithContext(ctx).
		Where("video_id = ?", videoID).
		Order("chunk_index ASC").
		Find(&chunks).Error; err != nil {
		return nil, err
	}
	return chunks, nil
}

// CreateAll persists chunks atomically: all rows commit together or none
// do, per spec.md §4.3 ("Persist Chunks atomically").
func (s *ChunkStore) CreateAll(ctx context.Context, chunks []*domain.AudioChunk) error {
	if len(chunks) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(chunks, 100).Error
	})
}

var orphanAudioPattern = regexp.MustCompile(`^[0-9A-Za-z_-]{11}\.\w+$`)

// ListOrphanAudioFiles walks <storage>/audio and reports original audio
// files with no matching Video.AudioPath row, supporting the "orphan files
// are reported and swept separately" clause in spec.md §3.
func (s *ChunkStore) ListOrphanAudioFiles(ctx context.Context, storageRoot string) ([]string, error) {
	audioDir := filepath.Join(storageRoot, "audio")
	entries, err := os.ReadDir(audioDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var known []string
	if err := s.db.WithContext(ctx).Model(&domain.Video{}).Where("audio_path <> ''").Pluck("audio_path", &known).Error; err != nil {
		return nil, err
	}
	knownSet := make(map[string]bool, len(known))
	for _, p := range known {
		knownSet[p] = true
	}

	var orphans []string
	for _, e := range entries {
		if e.IsDir() || !orphanAudioPattern.MatchString(strings.ToLower(e.Name())) {
			continue
		}
		full := filepath.Join(audioDir, e.Name())
		if !knownSet[full] {
			orphans = append(orphans, full)
		}
	}
	return orphans, nil
}
