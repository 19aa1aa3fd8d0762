// Package transcribe implements the Transcriber: a polymorphic
// local-model/remote-API interface plus the orchestration layer that
// invokes the Chunker when needed and retries failed chunks.
package transcribe

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/lecturepipe/backend/internal/domain"
	"github.com/lecturepipe/backend/internal/pkg/retry"
	"github.com/lecturepipe/backend/internal/platform/logger"
)

// Provider transcribes a single audio file end to end. A concrete variant
// exists per backend (LocalModel, RemoteAPI); both satisfy this interface.
type Provider interface {
	// Transcribe returns the full text of audioPath. language is passed
	// through opaquely. isChunk distinguishes a chunk-sized segment from a
	// whole uncut file, since some providers apply different wall-clock
	// timeouts to each. MaxFileSizeBytes returns 0 when unbounded.
	Transcribe(ctx context.Context, audioPath, language string, isChunk bool) (string, error)
	MaxFileSizeBytes() int64
}

// ChunkLister is the narrow view of the Chunk store the orchestrator needs.
type ChunkLister interface {
	GetByVideoID(ctx context.Context, videoID uint) ([]*domain.AudioChunk, error)
}

// ChunkerService is the narrow view of the Chunker the orchestrator needs.
type ChunkerService interface {
	Chunk(ctx context.Context, video *domain.Video, thresholdBytes int64) ([]*domain.AudioChunk, error)
	// MaxBytes returns the configured max_chunk_size_mb threshold in bytes,
	// 0 if unconfigured.
	MaxBytes() int64
}

type Orchestrator struct {
	provider    Provider
	chunker     ChunkerService
	chunks      ChunkLister
	log         *logger.Logger
	retryPolicy retry.Policy
}

func NewOrchestrator(provider Provider, ch ChunkerService, chunks ChunkLister, baseLog *logger.Logger) *Orchestrator {
	return &Orchestrator{
		provider: provider,
		chunker:  ch,
		chunks:   chunks,
		log:      baseLog.With("component", "Transcriber"),
		retryPolicy: retry.Policy{
			MaxAttempts: 3,
			Base:        retry.DefaultBase,
			Cap:         retry.DefaultCap,
			Jitter:      0.5,
			Retryable:   retry.IsRetryableError,
		},
	}
}

// Transcribe produces the full text for video, chunking first when the
// audio exceeds the configured chunking threshold and no chunks exist yet.
// Per spec: if any chunk ultimately fails after retries, the whole
// transcription fails and no partial text is persisted.
func (o *Orchestrator) Transcribe(ctx context.Context, video *domain.Video, language string) (string, error) {
	if video.AudioPath == "" {
		return "", domain.ErrNoAudio
	}

	chunks, err := o.chunks.GetByVideoID(ctx, video.ID)
	if err != nil {
		return "", err
	}

	if len(chunks) == 0 {
		if threshold := o.chunkThreshold(); threshold > 0 {
			info, statErr := os.Stat(video.AudioPath)
			if statErr != nil {
				return "", fmt.Errorf("%w: stat audio: %v", domain.ErrTranscriptionFailed, statErr)
			}
			if info.Size() > threshold {
				chunks, err = o.chunker.Chunk(ctx, video, threshold)
				if err != nil {
					return "", err
				}
			}
		}
	}

	if len(chunks) == 0 {
		text, err := o.transcribeWithRetry(ctx, video.AudioPath, language, false)
		if err != nil {
			return "", fmt.Errorf("%w: %v", domain.ErrTranscriptionFailed, err)
		}
		return text, nil
	}

	parts := make([]string, len(chunks))
	for _, ch := range chunks {
		text, err := o.transcribeWithRetry(ctx, ch.FilePath, language, true)
		if err != nil {
			return "", fmt.Errorf("%w: chunk %d: %v", domain.ErrTranscriptionFailed, ch.Index, err)
		}
		parts[ch.Index] = text
	}

	return strings.Join(parts, " "), nil
}

// chunkThreshold decides how large audio may get before it must be split.
// The configured max_chunk_size_mb threshold drives the decision on its own,
// so chunking still happens under the default local provider, which has no
// request-size limit of its own (MaxFileSizeBytes returns 0). If the
// provider does impose a smaller hard limit (e.g. RemoteAPI's per-request
// cap), that limit wins so chunks stay small enough for it to accept.
func (o *Orchestrator) chunkThreshold() int64 {
	configured := o.chunker.MaxBytes()
	providerLimit := o.provider.MaxFileSizeBytes()

	switch {
	case configured > 0 && providerLimit > 0:
		if providerLimit < configured {
			return providerLimit
		}
		return configured
	case configured > 0:
		return configured
	default:
		return providerLimit
	}
}

func (o *Orchestrator) transcribeWithRetry(ctx context.Context, audioPath, language string, isChunk bool) (string, error) {
	var text string
	err := o.retryPolicy.DoGeneric(ctx, func(ctx context.Context) error {
		t, err := o.provider.Transcribe(ctx, audioPath, language, isChunk)
		if err != nil {
			return err
		}
		text = t
		return nil
	})
	return text, err
}
