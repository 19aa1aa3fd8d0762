package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Generation represents one batch question-generation event: the set of
// source video external ids it drew from, and the Questions it produced.
type Generation struct {
	ID               uint            `gorm:"primaryKey;autoIncrement"`
	VideoExternalIDs datatypes.JSON  `gorm:"column:video_external_ids;type:jsonb;not null"`
	QuestionCount    int             `gorm:"column:question_count;not null;default:0"`
	CreatedAt        time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time       `gorm:"column:updated_at;autoUpdateTime"`

	// No DB-level foreign-key cascade: GenerationStore.Delete removes
	// Questions explicitly within a transaction.
	Questions []Question `gorm:"foreignKey:GenerationID"`
}

func (Generation) TableName() string { return "generations" }
