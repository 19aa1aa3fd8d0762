// Package questiongen implements the Question Generator: building a
// grounded prompt from stored transcriptions, calling the LLM backend, and
// validating/persisting the resulting questions.
package questiongen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/lecturepipe/backend/internal/domain"
	"github.com/lecturepipe/backend/internal/llmclient"
	"github.com/lecturepipe/backend/internal/platform/logger"
	"github.com/lecturepipe/backend/internal/store"
)

const (
	defaultCount     = 10
	minCount         = 1
	maxCount         = 50
	promptCharBudget = 20000
)

const systemPrompt = `You are an assistant that writes educational questions grounded strictly in the provided transcript excerpts. Respond with a JSON array only, no surrounding prose. Each element must be an object with fields: question_text, answer, context, difficulty (one of "easy","medium","hard"), question_type (one of "factual","conceptual","analytical"), and video_id (the external id the question was drawn from).`

type videoSource struct {
	ExternalID string
	VideoID    uint
	Text       string
}

type Generator struct {
	store *store.Store
	llm   *llmclient.Client
	log   *logger.Logger
}

func New(st *store.Store, llm *llmclient.Client, baseLog *logger.Logger) *Generator {
	return &Generator{store: st, llm: llm, log: baseLog.With("component", "QuestionGenerator")}
}

type Request struct {
	VideoExternalIDs []string
	Count            int
}

type Summary struct {
	GenerationID    uint
	Total           int
	Successful      int
	Failed          int
	NoTranscription int
	TotalQuestions  int

	// ContributedIDs and NoTranscriptionIDs let callers (the Pipeline
	// Orchestrator) fan the aggregate summary back out into a per-item
	// status without re-deriving it.
	ContributedIDs     []string
	NoTranscriptionIDs []string
}

type rawQuestion struct {
	QuestionText    string `json:"question_text"`
	Answer          string `json:"answer"`
	Context         string `json:"context"`
	Difficulty      string `json:"difficulty"`
	QuestionType    string `json:"question_type"`
	VideoExternalID string `json:"video_id"`
}

// Generate builds a prompt from the most recent Transcription of each
// requested video, calls the LLM backend, validates its JSON response, and
// persists a Generation plus its Questions. No Generation row is created if
// the LLM call itself fails.
func (g *Generator) Generate(ctx context.Context, req Request) (*Summary, error) {
	count := req.Count
	if count <= 0 {
		count = defaultCount
	}
	if count < minCount {
		count = minCount
	}
	if count > maxCount {
		count = maxCount
	}

	requested := make(map[string]bool, len(req.VideoExternalIDs))
	for _, id := range req.VideoExternalIDs {
		requested[id] = true
	}

	var sources []videoSource
	var noTranscriptionIDs []string
	for _, externalID := range req.VideoExternalIDs {
		video, err := g.store.Video.GetByExternalID(ctx, externalID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				noTranscriptionIDs = append(noTranscriptionIDs, externalID)
				continue
			}
			return nil, err
		}
		t, err := g.store.Transcription.GetMostRecentByVideoID(ctx, video.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				noTranscriptionIDs = append(noTranscriptionIDs, externalID)
				continue
			}
			return nil, err
		}
		sources = append(sources, videoSource{ExternalID: externalID, VideoID: video.ID, Text: t.Text})
	}

	if len(sources) == 0 {
		return &Summary{
			Total:              len(req.VideoExternalIDs),
			NoTranscription:    len(noTranscriptionIDs),
			NoTranscriptionIDs: noTranscriptionIDs,
		}, nil
	}

	userPrompt := buildPrompt(sources, count)

	responseText, err := g.llm.GenerateText(ctx, systemPrompt, userPrompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrLLMUnavailable, err)
	}

	arrayJSON, err := extractFirstJSONArray(responseText)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrLLMUnavailable, err)
	}

	var raw []rawQuestion
	if err := json.Unmarshal([]byte(arrayJSON), &raw); err != nil {
		return nil, fmt.Errorf("%w: parse questions array: %v", domain.ErrLLMUnavailable, err)
	}

	questions, contributedBy := validateQuestions(raw, requested)

	gen, err := g.store.Generation.Create(ctx, req.VideoExternalIDs)
	if err != nil {
		return nil, err
	}
	if err := g.store.Question.CreateAll(ctx, gen.ID, questions); err != nil {
		return nil, err
	}

	failed := 0
	var contributedIDs []string
	for _, source := range sources {
		if contributedBy[source.ExternalID] {
			contributedIDs = append(contributedIDs, source.ExternalID)
		} else {
			failed++
		}
	}

	return &Summary{
		GenerationID:       gen.ID,
		Total:              len(req.VideoExternalIDs),
		Successful:         len(contributedBy),
		Failed:             failed,
		NoTranscription:    len(noTranscriptionIDs),
		TotalQuestions:     len(questions),
		ContributedIDs:     contributedIDs,
		NoTranscriptionIDs: noTranscriptionIDs,
	}, nil
}

// buildPrompt concatenates transcription text with an equal character
// budget per video, preferring breadth over any single long transcript
// dominating the prompt.
func buildPrompt(sources []videoSource, count int) string {
	perVideoBudget := promptCharBudget / len(sources)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Generate exactly %d questions total, drawn from the following transcripts.\n\n", count)
	for _, s := range sources {
		text := s.Text
		if len(text) > perVideoBudget {
			text = text[:perVideoBudget]
		}
		fmt.Fprintf(&sb, "=== video_id: %s ===\n%s\n\n", s.ExternalID, text)
	}
	return sb.String()
}

var validDifficulties = map[string]domain.QuestionDifficulty{
	"easy":   domain.DifficultyEasy,
	"medium": domain.DifficultyMedium,
	"hard":   domain.DifficultyHard,
}

var validQuestionTypes = map[string]domain.QuestionType{
	"factual":    domain.QuestionTypeFactual,
	"conceptual": domain.QuestionTypeConceptual,
	"analytical": domain.QuestionTypeAnalytical,
}

// validateQuestions drops malformed items and returns the surviving
// Questions in parsed order, plus the set of external ids that contributed
// at least one valid question.
func validateQuestions(raw []rawQuestion, requested map[string]bool) ([]*domain.Question, map[string]bool) {
	var questions []*domain.Question
	contributed := make(map[string]bool)

	for _, r := range raw {
		text := strings.TrimSpace(r.QuestionText)
		if text == "" {
			continue
		}
		if !requested[r.VideoExternalID] {
			continue
		}

		q := &domain.Question{
			VideoExternalID: r.VideoExternalID,
			QuestionText:    text,
			Answer:          r.Answer,
			Context:         r.Context,
		}
		if d, ok := validDifficulties[strings.ToLower(strings.TrimSpace(r.Difficulty))]; ok {
			q.Difficulty = &d
		}
		if t, ok := validQuestionTypes[strings.ToLower(strings.TrimSpace(r.QuestionType))]; ok {
			q.QuestionType = &t
		}

		questions = append(questions, q)
		contributed[r.VideoExternalID] = true
	}

	return questions, contributed
}
