package pipeline

import (
	"context"
	"errors"

	"github.com/lecturepipe/backend/internal/domain"
	"github.com/lecturepipe/backend/internal/embedder"
	"github.com/lecturepipe/backend/internal/store"
	"github.com/lecturepipe/backend/internal/transcribe"
)

// TranscribeResult is the per-item payload for a batch transcription run.
// StepsCompleted/TotalSteps track progress through locate → prepare →
// transcribe → embed → persist, per spec.md §6.
type TranscribeResult struct {
	VideoExternalID string `json:"video_external_id"`
	TranscriptionID uint   `json:"transcription_id,omitempty"`
	Status          string `json:"transcription_status,omitempty"`
	StepsCompleted  int    `json:"steps_completed"`
	TotalSteps      int    `json:"total_steps"`
}

const totalTranscribeSteps = 5

const (
	StatusNotFound = "not_found"
	StatusNoAudio  = "no_audio"
)

// RunTranscriptions transcribes each requested video sequentially, embeds
// the resulting text, and persists a Transcription row regardless of
// whether embedding succeeds (spec.md §4.5: a failed embedding still
// stores the text with a null vector and status "completed_no_embedding").
// Maps outcomes to the Transcribe status enumeration from spec.md §4.7:
// success | not_found | no_audio | failed.
func RunTranscriptions(ctx context.Context, st *store.Store, orch *transcribe.Orchestrator, emb *embedder.Embedder, language string, videoExternalIDs []string) BatchResult[TranscribeResult] {
	return Run(ctx, videoExternalIDs, func(ctx context.Context, externalID string) (string, TranscribeResult, error) {
		data := TranscribeResult{VideoExternalID: externalID, TotalSteps: totalTranscribeSteps}

		// step 1: locate
		video, err := st.Video.GetByExternalID(ctx, externalID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return StatusNotFound, data, err
			}
			return StatusFailed, data, err
		}
		data.StepsCompleted = 1

		if video.AudioPath == "" {
			return StatusNoAudio, data, domain.ErrNoAudio
		}
		data.StepsCompleted = 2 // prepare: audio artifact confirmed present

		text, err := orch.Transcribe(ctx, video, language)
		if err != nil {
			if errors.Is(err, domain.ErrNoAudio) {
				return StatusNoAudio, data, err
			}
			return StatusFailed, data, err
		}
		data.StepsCompleted = 3

		var vec []float32
		if emb != nil {
			if v, embErr := emb.Embed(ctx, text); embErr == nil {
				vec = v
			}
		}
		data.StepsCompleted = 4

		t, err := st.Transcription.Insert(ctx, video.ID, text, vec)
		if err != nil {
			return StatusFailed, data, err
		}
		data.StepsCompleted = 5

		data.TranscriptionID = t.ID
		data.Status = string(t.Status)
		return StatusSuccess, data, nil
	})
}
