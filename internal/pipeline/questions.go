package pipeline

import (
	"context"

	"github.com/lecturepipe/backend/internal/questiongen"
)

// QuestionResult is the per-item payload for a batch question-generation
// run: one entry per requested video external id.
type QuestionResult struct {
	VideoExternalID string `json:"video_external_id"`
	GenerationID    uint   `json:"generation_id,omitempty"`
}

const StatusNoTranscription = "no_transcription"

// RunQuestionGeneration calls the Question Generator once for the whole
// batch (a single Generation draws from every requested video) and fans the
// result back out into the per-item status enumeration from spec.md §4.7:
// success | no_transcription | failed. If the LLM call itself fails, no
// Generation is created and every item is reported failed.
func RunQuestionGeneration(ctx context.Context, gen *questiongen.Generator, videoExternalIDs []string, count int) (BatchResult[QuestionResult], *questiongen.Summary, error) {
	summary, err := gen.Generate(ctx, questiongen.Request{VideoExternalIDs: videoExternalIDs, Count: count})
	if err != nil {
		result := Run(ctx, videoExternalIDs, func(ctx context.Context, id string) (string, QuestionResult, error) {
			return StatusFailed, QuestionResult{VideoExternalID: id}, err
		})
		return result, nil, err
	}

	contributed := toSet(summary.ContributedIDs)
	noTranscription := toSet(summary.NoTranscriptionIDs)

	result := Run(ctx, videoExternalIDs, func(ctx context.Context, id string) (string, QuestionResult, error) {
		data := QuestionResult{VideoExternalID: id, GenerationID: summary.GenerationID}
		switch {
		case contributed[id]:
			return StatusSuccess, data, nil
		case noTranscription[id]:
			return StatusNoTranscription, data, nil
		default:
			return StatusFailed, data, nil
		}
	})
	return result, summary, nil
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
