package app

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"mathsolve/internal/logger"
	"mathsolve/internal/model"
)

const MaxBulkItems = 50

var ErrBulkSizeInvalid = errors.New("bulk batch must contain between 1 and 50 items")

type BulkItem struct {
	UserID   string         `json:"user_id"`
	Text     string         `json:"question"`
	Category model.Category `json:"category"`
}

type BulkItemResult struct {
	Question   string `json:"question"`
	Success    bool   `json:"success"`
	QuestionID string `json:"question_id,omitempty"`
	Error      string `json:"error,omitempty"`
	DurationMs int64  `json:"duration_ms"`
}

type BulkResult struct {
	Total      int              `json:"total"`
	Successful int              `json:"successful"`
	Failed     int              `json:"failed"`
	Items      []BulkItemResult `json:"items"`
	ElapsedMs  int64            `json:"elapsed_ms"`
}

// BulkService fans a batch out to independent goroutines. Items share no
// transaction: a failing item leaves its already-created rows in place and
// never aborts its siblings. The bulk path bypasses the solution cache
// entirely, in both directions.
type BulkService struct {
	questionRepo QuestionStore
	answerRepo   AnswerStore
	userRepo     UserStore
	solver       QuestionSolver
	log          *logger.Logger
}

func NewBulkService(
	questionRepo QuestionStore,
	answerRepo AnswerStore,
	userRepo UserStore,
	questionSolver QuestionSolver,
	log *logger.Logger,
) *BulkService {
	return &BulkService{
		questionRepo: questionRepo,
		answerRepo:   answerRepo,
		userRepo:     userRepo,
		solver:       questionSolver,
		log:          log,
	}
}

func (s *BulkService) BulkSubmit(ctx context.Context, items []BulkItem) (*BulkResult, error) {
	if len(items) == 0 || len(items) > MaxBulkItems {
		return nil, ErrBulkSizeInvalid
	}

	started := time.Now()
	results := make([]BulkItemResult, len(items))

	var wg sync.WaitGroup
	for i, item := range items {
		wg.Add(1)
		go func(index int, item BulkItem) {
			defer wg.Done()
			results[index] = s.processItem(ctx, item)
		}(i, item)
	}
	wg.Wait()

	result := &BulkResult{
		Total:     len(items),
		Items:     results,
		ElapsedMs: time.Since(started).Milliseconds(),
	}
	for _, item := range results {
		if item.Success {
			result.Successful++
		} else {
			result.Failed++
		}
	}
	s.log.Info("bulk batch processed",
		"total", result.Total,
		"successful", result.Successful,
		"failed", result.Failed,
		"elapsed_ms", result.ElapsedMs,
	)
	return result, nil
}

func (s *BulkService) processItem(ctx context.Context, item BulkItem) BulkItemResult {
	started := time.Now()
	result := BulkItemResult{Question: item.Text}

	fail := func(err error) BulkItemResult {
		result.QuestionID = ""
		result.Error = err.Error()
		result.DurationMs = time.Since(started).Milliseconds()
		return result
	}

	text := strings.TrimSpace(item.Text)
	if item.UserID == "" || text == "" {
		return fail(ErrInvalidInput)
	}
	if !model.ValidCategory(item.Category) {
		return fail(ErrInvalidCategory)
	}

	user, err := s.userRepo.GetByID(item.UserID)
	if err != nil {
		return fail(err)
	}
	if user == nil {
		return fail(ErrUserNotFound)
	}

	question := &model.Question{
		UserID:   item.UserID,
		Text:     text,
		Category: item.Category,
		Status:   model.StatusPending,
	}
	if err := s.questionRepo.Create(question); err != nil {
		return fail(err)
	}
	result.QuestionID = question.ID

	if err := s.questionRepo.UpdateStatus(question.ID, model.StatusProcessing); err != nil {
		return fail(err)
	}

	solution := s.solver.Solve(ctx, text, item.Category)
	if solution == nil || len(solution.Steps) == 0 {
		_ = s.questionRepo.UpdateStatus(question.ID, model.StatusFailed)
		return fail(errors.New("solver returned no solution"))
	}

	answer := &model.Answer{
		QuestionID:  question.ID,
		Steps:       solution.Steps,
		FinalAnswer: solution.FinalAnswer,
		Explanation: solution.Explanation,
		DurationMs:  time.Since(started).Milliseconds(),
		SolvedBy:    solution.SolvedBy,
	}
	if err := s.answerRepo.Create(answer); err != nil {
		_ = s.questionRepo.UpdateStatus(question.ID, model.StatusFailed)
		return fail(err)
	}

	if err := s.questionRepo.UpdateStatus(question.ID, model.StatusCompleted); err != nil {
		s.log.Warn("mark bulk question completed failed", "question_id", question.ID, "error", err)
	}

	result.Success = true
	result.DurationMs = time.Since(started).Milliseconds()
	return result
}
