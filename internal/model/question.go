package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QuestionStatus string

const (
	StatusPending    QuestionStatus = "pending"
	StatusProcessing QuestionStatus = "processing"
	StatusCompleted  QuestionStatus = "completed"
	StatusFailed     QuestionStatus = "failed"
)

type Category string

const (
	CategoryAlgebra    Category = "algebra"
	CategoryCalculus   Category = "calculus"
	CategoryGeometry   Category = "geometry"
	CategoryArithmetic Category = "arithmetic"
	CategoryOther      Category = "other"
)

func ValidCategory(c Category) bool {
	switch c {
	case CategoryAlgebra, CategoryCalculus, CategoryGeometry, CategoryArithmetic, CategoryOther:
		return true
	}
	return false
}

type Question struct {
	ID        string         `gorm:"type:char(36);primaryKey" json:"id"`
	UserID    string         `gorm:"type:char(36);not null;index" json:"user_id"`
	Text      string         `gorm:"type:text;not null" json:"text"`
	Category  Category       `gorm:"size:16;not null" json:"category"`
	Status    QuestionStatus `gorm:"size:16;not null;index;default:pending" json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`

	Answer *Answer `gorm:"constraint:OnDelete:CASCADE" json:"answer,omitempty"`
}

func (q *Question) BeforeCreate(tx *gorm.DB) error {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	if q.Status == "" {
		q.Status = StatusPending
	}
	return nil
}
