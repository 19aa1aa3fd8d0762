// Package chunker implements the Chunker: splitting oversized audio files
// at silence boundaries into pieces small enough for remote transcription.
package chunker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/lecturepipe/backend/internal/domain"
	"github.com/lecturepipe/backend/internal/platform/localmedia"
	"github.com/lecturepipe/backend/internal/platform/logger"
	"github.com/lecturepipe/backend/internal/store"
)

const safetyMargin = 0.95

type Chunker struct {
	store      *store.Store
	tools      localmedia.Tools
	log        *logger.Logger
	storageDir string

	maxBytes     int64
	noiseFloorDB float64
	minSilence   time.Duration
}

// New builds a Chunker. maxChunkBytes, noiseFloorDB and minSilence come
// straight from spec.md §6's max_chunk_size_mb/silence_threshold_db/
// min_silence_duration_s config knobs; the caller (app.New) resolves their
// defaults, this constructor just carries whatever it's given.
func New(st *store.Store, tools localmedia.Tools, baseLog *logger.Logger, storageDir string, maxChunkBytes int64, noiseFloorDB float64, minSilence time.Duration) *Chunker {
	return &Chunker{
		store:        st,
		tools:        tools,
		log:          baseLog.With("component", "Chunker"),
		storageDir:   storageDir,
		maxBytes:     maxChunkBytes,
		noiseFloorDB: noiseFloorDB,
		minSilence:   minSilence,
	}
}

// MaxBytes reports the configured max_chunk_size_mb threshold in bytes,
// independent of any transcription provider's own request-size limit.
func (c *Chunker) MaxBytes() int64 { return c.maxBytes }

// plannedSegment is a single [start, end) slice of the source audio before
// it has been extracted to disk.
type plannedSegment struct {
	StartMS int64
	EndMS   int64
}

// Chunk splits video's audio into pieces no larger than thresholdBytes. It
// is idempotent: if chunks already exist for the video it returns them
// without re-running FFmpeg. Returns an empty slice, no error, if the
// original audio is already under threshold.
func (c *Chunker) Chunk(ctx context.Context, video *domain.Video, thresholdBytes int64) ([]*domain.AudioChunk, error) {
	if video.AudioPath == "" {
		return nil, domain.ErrNoAudio
	}

	existing, err := c.store.Chunk.GetByVideoID(ctx, video.ID)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return existing, nil
	}

	info, err := os.Stat(video.AudioPath)
	if err != nil {
		return nil, fmt.Errorf("%w: stat audio: %v", domain.ErrChunkingFailed, err)
	}
	fileSize := info.Size()
	if fileSize <= thresholdBytes {
		return nil, nil
	}

	duration, _, _, err := c.tools.ProbeAudio(ctx, video.AudioPath)
	if err != nil {
		return nil, fmt.Errorf("%w: probe: %v", domain.ErrChunkingFailed, err)
	}

	silences, err := c.tools.DetectSilences(ctx, video.AudioPath, c.noiseFloorDB, c.minSilence)
	if err != nil {
		return nil, fmt.Errorf("%w: silence detection: %v", domain.ErrChunkingFailed, err)
	}

	midpoints := silenceMidpointsMS(silences)
	totalMS := duration.Milliseconds()
	targetMS := int64(float64(totalMS) * (float64(thresholdBytes) / float64(fileSize)) * safetyMargin)
	if targetMS <= 0 {
		targetMS = totalMS
	}

	segments := planSegments(totalMS, targetMS, midpoints)

	outDir := filepath.Join(c.storageDir, "audio", "chunks", video.ExternalID)
	ext := filepath.Ext(video.AudioPath)

	chunks, err := c.extractSegments(ctx, video, segments, outDir, ext)
	if err != nil {
		return nil, err
	}

	if err := c.store.Chunk.CreateAll(ctx, chunks); err != nil {
		cleanupFiles(chunks)
		return nil, fmt.Errorf("%w: persist chunks: %v", domain.ErrChunkingFailed, err)
	}

	return chunks, nil
}

// silenceMidpointsMS converts each silence interval into its midpoint,
// sorted ascending, used as candidate cut points.
func silenceMidpointsMS(silences []localmedia.SilenceInterval) []int64 {
	midpoints := make([]int64, 0, len(silences))
	for _, s := range silences {
		midpoints = append(midpoints, (s.StartMS+s.EndMS)/2)
	}
	sort.Slice(midpoints, func(i, j int) bool { return midpoints[i] < midpoints[j] })
	return midpoints
}

// planSegments walks silence midpoints greedily per spec: starting at
// offset 0, choose the latest midpoint <= offset+targetMS; if none exists
// in that window, force a cut at exactly offset+targetMS.
func planSegments(totalMS, targetMS int64, midpoints []int64) []plannedSegment {
	var segments []plannedSegment
	offset := int64(0)

	for offset < totalMS {
		window := offset + targetMS
		if window >= totalMS {
			segments = append(segments, plannedSegment{StartMS: offset, EndMS: totalMS})
			break
		}

		cut := window
		best := int64(-1)
		for _, m := range midpoints {
			if m > offset && m <= window {
				best = m
			}
			if m > window {
				break
			}
		}
		if best > 0 {
			cut = best
		}

		segments = append(segments, plannedSegment{StartMS: offset, EndMS: cut})
		offset = cut
	}

	return segments
}

func (c *Chunker) extractSegments(ctx context.Context, video *domain.Video, segments []plannedSegment, outDir, ext string) ([]*domain.AudioChunk, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: mkdir chunk dir: %v", domain.ErrChunkingFailed, err)
	}

	var chunks []*domain.AudioChunk
	for i, seg := range segments {
		outPath := filepath.Join(outDir, fmt.Sprintf("%s_chunk_%03d%s", video.ExternalID, i, ext))
		if err := c.tools.ExtractSegment(ctx, video.AudioPath, outPath, seg.StartMS, seg.EndMS); err != nil {
			cleanupFiles(chunks)
			_ = os.Remove(outPath)
			return nil, fmt.Errorf("%w: segment %d: %v", domain.ErrChunkingFailed, i, err)
		}
		info, err := os.Stat(outPath)
		if err != nil {
			cleanupFiles(chunks)
			return nil, fmt.Errorf("%w: stat segment %d: %v", domain.ErrChunkingFailed, i, err)
		}
		chunks = append(chunks, &domain.AudioChunk{
			VideoID:  video.ID,
			Index:    i,
			FilePath: outPath,
			StartMS:  seg.StartMS,
			EndMS:    seg.EndMS,
			FileSize: info.Size(),
		})
	}
	return chunks, nil
}

func cleanupFiles(chunks []*domain.AudioChunk) {
	for _, ch := range chunks {
		_ = os.Remove(ch.FilePath)
	}
}
