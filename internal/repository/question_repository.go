package repository

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"mathsolve/internal/model"
)

type QuestionRepository struct {
	db *gorm.DB
}

type QuestionStats struct {
	Total           int64   `json:"total"`
	Completed       int64   `json:"completed"`
	Pending         int64   `json:"pending"`
	Failed          int64   `json:"failed"`
	AvgDurationMs   float64 `json:"avg_duration_ms"`
	SubmittedToday  int64   `json:"submitted_today"`
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{db: db}
}

func (r *QuestionRepository) Create(question *model.Question) error {
	if err := r.db.Create(question).Error; err != nil {
		return fmt.Errorf("create question failed: %w", err)
	}
	return nil
}

func (r *QuestionRepository) GetByID(id string) (*model.Question, error) {
	var question model.Question
	if err := r.db.First(&question, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query question by id failed: %w", err)
	}
	return &question, nil
}

func (r *QuestionRepository) GetByIDWithAnswer(id string) (*model.Question, error) {
	var question model.Question
	if err := r.db.Preload("Answer").First(&question, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query question with answer failed: %w", err)
	}
	return &question, nil
}

func (r *QuestionRepository) ListByStatus(status model.QuestionStatus, limit int) ([]model.Question, error) {
	if limit <= 0 || limit > 200 {
		limit = 100
	}
	var questions []model.Question
	if err := r.db.Where("status = ?", status).Order("created_at ASC").Limit(limit).Find(&questions).Error; err != nil {
		return nil, fmt.Errorf("list questions by status failed: %w", err)
	}
	return questions, nil
}

func (r *QuestionRepository) UpdateStatus(id string, status model.QuestionStatus) error {
	if err := r.db.Model(&model.Question{}).Where("id = ?", id).Update("status", status).Error; err != nil {
		return fmt.Errorf("update question status failed: %w", err)
	}
	return nil
}

func (r *QuestionRepository) Delete(id string) error {
	if err := r.db.Delete(&model.Question{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("delete question failed: %w", err)
	}
	return nil
}

// ListByUserPaginated returns one page of the user's questions, newest first,
// with answers preloaded where present, plus the total count for the user.
func (r *QuestionRepository) ListByUserPaginated(userID string, page, pageSize int) ([]model.Question, int64, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	var total int64
	if err := r.db.Model(&model.Question{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count user questions failed: %w", err)
	}

	var questions []model.Question
	if err := r.db.Preload("Answer").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&questions).Error; err != nil {
		return nil, 0, fmt.Errorf("list user questions failed: %w", err)
	}
	return questions, total, nil
}

func (r *QuestionRepository) Stats() (*QuestionStats, error) {
	stats := &QuestionStats{}

	if err := r.db.Model(&model.Question{}).Count(&stats.Total).Error; err != nil {
		return nil, fmt.Errorf("count questions failed: %w", err)
	}
	counts := map[model.QuestionStatus]*int64{
		model.StatusCompleted: &stats.Completed,
		model.StatusPending:   &stats.Pending,
		model.StatusFailed:    &stats.Failed,
	}
	for status, dest := range counts {
		if err := r.db.Model(&model.Question{}).Where("status = ?", status).Count(dest).Error; err != nil {
			return nil, fmt.Errorf("count questions by status failed: %w", err)
		}
	}

	var avg *float64
	if err := r.db.Model(&model.Answer{}).Select("AVG(duration_ms)").Scan(&avg).Error; err != nil {
		return nil, fmt.Errorf("average answer duration failed: %w", err)
	}
	if avg != nil {
		stats.AvgDurationMs = *avg
	}

	startOfDay := time.Now().Truncate(24 * time.Hour)
	if err := r.db.Model(&model.Question{}).Where("created_at >= ?", startOfDay).Count(&stats.SubmittedToday).Error; err != nil {
		return nil, fmt.Errorf("count today's questions failed: %w", err)
	}

	return stats, nil
}
