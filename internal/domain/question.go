package domain

import "time"

type QuestionDifficulty string

const (
	DifficultyEasy   QuestionDifficulty = "easy"
	DifficultyMedium QuestionDifficulty = "medium"
	DifficultyHard   QuestionDifficulty = "hard"
)

type QuestionType string

const (
	QuestionTypeFactual     QuestionType = "factual"
	QuestionTypeConceptual  QuestionType = "conceptual"
	QuestionTypeAnalytical  QuestionType = "analytical"
)

// Question is one AI-generated educational question belonging to a
// Generation. VideoExternalID is denormalized from the source video for
// filtered listing without a join. OrderIndex is unique within its
// Generation and forms a 0-based contiguous sequence.
type Question struct {
	ID              uint                `gorm:"primaryKey;autoIncrement"`
	GenerationID    uint                 `gorm:"column:generation_id;not null;index;index:idx_question_generation_video,priority:1"`
	VideoExternalID string               `gorm:"column:video_external_id;type:varchar(11);not null;index:idx_question_generation_video,priority:2"`
	QuestionText    string               `gorm:"column:question_text;type:text;not null"`
	Answer          string               `gorm:"column:answer;type:text"`
	Context         string               `gorm:"column:context;type:text"`
	Difficulty      *QuestionDifficulty  `gorm:"column:difficulty;type:varchar(20)"`
	QuestionType    *QuestionType        `gorm:"column:question_type;type:varchar(50)"`
	OrderIndex      int                  `gorm:"column:order_index;not null;default:0;index"`
	CreatedAt       time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

func (Question) TableName() string { return "questions" }
