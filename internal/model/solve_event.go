package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SolveEvent is an audit record of one stage of a question's lifecycle,
// persisted asynchronously by the event worker.
type SolveEvent struct {
	ID         string    `gorm:"type:char(36);primaryKey" json:"id"`
	QuestionID string    `gorm:"type:char(36);not null;index" json:"question_id"`
	UserID     string    `gorm:"type:char(36);not null;index" json:"user_id"`
	Stage      string    `gorm:"size:32;not null" json:"stage"`
	Backend    string    `gorm:"size:64" json:"backend,omitempty"`
	DurationMs int64     `json:"duration_ms"`
	Detail     string    `gorm:"type:text" json:"detail,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

const (
	EventStageReceived = "received"
	EventStageSolved   = "solved"
	EventStageFailed   = "failed"
)

func (e *SolveEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}
