package repository

import (
	"fmt"

	"gorm.io/gorm"

	"mathsolve/internal/model"
)

type SolveEventRepository struct {
	db *gorm.DB
}

func NewSolveEventRepository(db *gorm.DB) *SolveEventRepository {
	return &SolveEventRepository{db: db}
}

func (r *SolveEventRepository) Create(event *model.SolveEvent) error {
	if err := r.db.Create(event).Error; err != nil {
		return fmt.Errorf("create solve event failed: %w", err)
	}
	return nil
}

func (r *SolveEventRepository) ListByQuestionID(questionID string, limit int) ([]model.SolveEvent, error) {
	if limit <= 0 || limit > 200 {
		limit = 100
	}
	var events []model.SolveEvent
	if err := r.db.Where("question_id = ?", questionID).Order("created_at ASC").Limit(limit).Find(&events).Error; err != nil {
		return nil, fmt.Errorf("list solve events failed: %w", err)
	}
	return events, nil
}
