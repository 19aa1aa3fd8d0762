package questiongen

import (
	"strings"
	"testing"

	"github.com/lecturepipe/backend/internal/domain"
)

func TestExtractFirstJSONArray(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"bare array", `[{"a":1}]`, `[{"a":1}]`},
		{"prose before and after", `Here you go:\n[{"a":1},{"b":2}]\nHope that helps!`, `[{"a":1},{"b":2}]`},
		{"bracket inside string value ignored", `[{"text":"list: [1,2,3]"}]`, `[{"text":"list: [1,2,3]"}]`},
		{"nested arrays", `[[1,2],[3,4]]`, `[[1,2],[3,4]]`},
		{"escaped quote inside string", `[{"text":"she said \"hi [ok]\""}]`, `[{"text":"she said \"hi [ok]\""}]`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := extractFirstJSONArray(tc.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestExtractFirstJSONArrayNoArray(t *testing.T) {
	_, err := extractFirstJSONArray("no array here, just an object {\"a\":1}")
	if err == nil {
		t.Fatal("expected error when no array present")
	}
}

func TestValidateQuestionsDropsMalformedItems(t *testing.T) {
	requested := map[string]bool{"aaaaaaaaaaa": true, "bbbbbbbbbbb": true}
	raw := []rawQuestion{
		{QuestionText: "What is X?", VideoExternalID: "aaaaaaaaaaa", Difficulty: "easy", QuestionType: "factual"},
		{QuestionText: "", VideoExternalID: "aaaaaaaaaaa"},                     // empty text dropped
		{QuestionText: "Unknown video", VideoExternalID: "ccccccccccc"},       // not in requested set, dropped
		{QuestionText: "Bad enums", VideoExternalID: "bbbbbbbbbbb", Difficulty: "impossible", QuestionType: "weird"},
	}

	questions, contributed := validateQuestions(raw, requested)
	if len(questions) != 2 {
		t.Fatalf("expected 2 surviving questions, got %d: %+v", len(questions), questions)
	}
	if questions[0].Difficulty == nil || *questions[0].Difficulty != domain.DifficultyEasy {
		t.Errorf("expected easy difficulty, got %v", questions[0].Difficulty)
	}
	if questions[1].Difficulty != nil {
		t.Errorf("expected nil difficulty for invalid enum, got %v", *questions[1].Difficulty)
	}
	if questions[1].QuestionType != nil {
		t.Errorf("expected nil question_type for invalid enum, got %v", *questions[1].QuestionType)
	}
	if !contributed["aaaaaaaaaaa"] || !contributed["bbbbbbbbbbb"] {
		t.Errorf("expected both requested videos to have contributed, got %v", contributed)
	}
	if contributed["ccccccccccc"] {
		t.Error("video outside requested set must not be marked as contributed")
	}
}

func TestBuildPromptSplitsCharBudgetEquallyPerVideo(t *testing.T) {
	// Each transcript is as long as the whole budget; with two videos each
	// must be cut to half of it. 'z' and 'k' appear nowhere else in the
	// prompt, so counting them measures each video's share.
	sources := []videoSource{
		{ExternalID: "aaaaaaaaaaa", Text: strings.Repeat("z", promptCharBudget)},
		{ExternalID: "bbbbbbbbbbb", Text: strings.Repeat("k", promptCharBudget)},
	}
	prompt := buildPrompt(sources, 10)
	perVideo := promptCharBudget / len(sources)
	if got := strings.Count(prompt, "z"); got != perVideo {
		t.Errorf("video aaaaaaaaaaa: got %d chars of transcript, want %d", got, perVideo)
	}
	if got := strings.Count(prompt, "k"); got != perVideo {
		t.Errorf("video bbbbbbbbbbb: got %d chars of transcript, want %d", got, perVideo)
	}
}
