package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"mathsolve/internal/model"
)

type AnswerRepository struct {
	db *gorm.DB
}

func NewAnswerRepository(db *gorm.DB) *AnswerRepository {
	return &AnswerRepository{db: db}
}

func (r *AnswerRepository) Create(answer *model.Answer) error {
	if err := r.db.Create(answer).Error; err != nil {
		return fmt.Errorf("create answer failed: %w", err)
	}
	return nil
}

func (r *AnswerRepository) GetByQuestionID(questionID string) (*model.Answer, error) {
	var answer model.Answer
	if err := r.db.Where("question_id = ?", questionID).First(&answer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query answer by question id failed: %w", err)
	}
	return &answer, nil
}

// Update replaces an existing answer. Not used by the submit workflow; answers
// are written once there. Kept for administrative corrections.
func (r *AnswerRepository) Update(answer *model.Answer) error {
	if err := r.db.Save(answer).Error; err != nil {
		return fmt.Errorf("update answer failed: %w", err)
	}
	return nil
}

func (r *AnswerRepository) DeleteByQuestionID(questionID string) error {
	if err := r.db.Where("question_id = ?", questionID).Delete(&model.Answer{}).Error; err != nil {
		return fmt.Errorf("delete answer failed: %w", err)
	}
	return nil
}
