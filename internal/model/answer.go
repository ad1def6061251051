package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Step struct {
	Number      int    `json:"step_number"`
	Description string `json:"description"`
	Expression  string `json:"expression,omitempty"`
	Reasoning   string `json:"reasoning"`
}

type Answer struct {
	ID          string                    `gorm:"type:char(36);primaryKey" json:"id"`
	QuestionID  string                    `gorm:"type:char(36);not null;uniqueIndex" json:"question_id"`
	Steps       datatypes.JSONSlice[Step] `gorm:"not null" json:"steps"`
	FinalAnswer string                    `gorm:"type:text;not null" json:"final_answer"`
	Explanation string                    `gorm:"type:text" json:"explanation"`
	DurationMs  int64                     `json:"duration_ms"`
	SolvedBy    string                    `gorm:"size:64;not null" json:"solved_by"`
	CreatedAt   time.Time                 `json:"created_at"`
}

func (a *Answer) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
