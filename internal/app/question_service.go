package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"mathsolve/internal/logger"
	"mathsolve/internal/model"
	"mathsolve/internal/repository"
	"mathsolve/internal/solver"
)

var (
	ErrQuestionNotFound = errors.New("question not found")
	ErrInvalidCategory  = errors.New("invalid question category")
)

type QuestionStore interface {
	Create(question *model.Question) error
	GetByIDWithAnswer(id string) (*model.Question, error)
	UpdateStatus(id string, status model.QuestionStatus) error
	Delete(id string) error
	ListByUserPaginated(userID string, page, pageSize int) ([]model.Question, int64, error)
	Stats() (*repository.QuestionStats, error)
}

type AnswerStore interface {
	Create(answer *model.Answer) error
}

type UserStore interface {
	GetByID(id string) (*model.User, error)
}

type SolutionCache interface {
	Get(ctx context.Context, key string, dest interface{}) bool
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) bool
	Delete(ctx context.Context, key string) bool
}

type QuestionSolver interface {
	Solve(ctx context.Context, question string, category model.Category) *solver.StructuredSolution
}

// SolveEventPublisher forwards lifecycle events to the audit stream. It is
// optional and always best-effort.
type SolveEventPublisher interface {
	Publish(ctx context.Context, event model.SolveEvent) error
}

type QuestionService struct {
	questionRepo QuestionStore
	answerRepo   AnswerStore
	userRepo     UserStore
	cache        SolutionCache
	solver       QuestionSolver
	publisher    SolveEventPublisher
	log          *logger.Logger

	answerTTL  time.Duration
	historyTTL time.Duration
}

type SubmitInput struct {
	UserID   string
	Text     string
	Category model.Category
}

// AnswerResult is the immediate-answer response shape.
type AnswerResult struct {
	QuestionID  string                `json:"question_id"`
	Question    string                `json:"question"`
	Category    model.Category        `json:"category"`
	Status      model.QuestionStatus  `json:"status"`
	Steps       []model.Step          `json:"steps"`
	FinalAnswer string                `json:"final_answer"`
	Explanation string                `json:"explanation"`
	Confidence  float64               `json:"confidence"`
	SolvedBy    string                `json:"solved_by"`
	DurationMs  int64                 `json:"duration_ms"`
	CreatedAt   time.Time             `json:"created_at"`
}

// PendingResult is the processing-placeholder response shape.
type PendingResult struct {
	QuestionID string `json:"question_id"`
	Status     string `json:"status"`
	Message    string `json:"message"`
}

// SubmitOutcome carries exactly one of the two response shapes.
type SubmitOutcome struct {
	Answer  *AnswerResult  `json:"answer,omitempty"`
	Pending *PendingResult `json:"pending,omitempty"`
}

// cachedSolution is the envelope stored under the question-text key.
type cachedSolution struct {
	solver.StructuredSolution
	DurationMs int64 `json:"duration_ms"`
}

type HistoryItem struct {
	QuestionID  string               `json:"question_id"`
	Text        string               `json:"text"`
	Category    model.Category       `json:"category"`
	Status      model.QuestionStatus `json:"status"`
	CreatedAt   time.Time            `json:"created_at"`
	FinalAnswer string               `json:"final_answer,omitempty"`
	SolvedBy    string               `json:"solved_by,omitempty"`
	DurationMs  int64                `json:"duration_ms,omitempty"`
}

type HistoryResult struct {
	UserID     string        `json:"user_id"`
	Items      []HistoryItem `json:"items"`
	TotalCount int64         `json:"total_count"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
}

func NewQuestionService(
	questionRepo QuestionStore,
	answerRepo AnswerStore,
	userRepo UserStore,
	cache SolutionCache,
	questionSolver QuestionSolver,
	publisher SolveEventPublisher,
	log *logger.Logger,
	answerTTL, historyTTL time.Duration,
) *QuestionService {
	if answerTTL <= 0 {
		answerTTL = time.Hour
	}
	if historyTTL <= 0 {
		historyTTL = 5 * time.Minute
	}
	return &QuestionService{
		questionRepo: questionRepo,
		answerRepo:   answerRepo,
		userRepo:     userRepo,
		cache:        cache,
		solver:       questionSolver,
		publisher:    publisher,
		log:          log,
		answerTTL:    answerTTL,
		historyTTL:   historyTTL,
	}
}

// Submit runs the full workflow: user check, cache lookup, solve, persist,
// cache populate. Only ErrUserNotFound and ErrInvalidCategory/ErrInvalidInput
// propagate; solver-side trouble becomes a failed row plus a placeholder.
func (s *QuestionService) Submit(ctx context.Context, input SubmitInput) (*SubmitOutcome, error) {
	text := strings.TrimSpace(input.Text)
	if input.UserID == "" || text == "" {
		return nil, ErrInvalidInput
	}
	if !model.ValidCategory(input.Category) {
		return nil, ErrInvalidCategory
	}

	user, err := s.userRepo.GetByID(input.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	key := QuestionCacheKey(text)

	var cached cachedSolution
	if s.cache.Get(ctx, key, &cached) {
		return s.submitFromCache(ctx, input, text, cached)
	}

	question := &model.Question{
		UserID:   input.UserID,
		Text:     text,
		Category: input.Category,
		Status:   model.StatusPending,
	}
	if err := s.questionRepo.Create(question); err != nil {
		return nil, err
	}
	if err := s.questionRepo.UpdateStatus(question.ID, model.StatusProcessing); err != nil {
		s.log.Warn("mark question processing failed", "question_id", question.ID, "error", err)
	}
	s.publishEvent(ctx, model.SolveEvent{
		QuestionID: question.ID,
		UserID:     input.UserID,
		Stage:      model.EventStageReceived,
	})

	started := time.Now()
	solution := s.solver.Solve(ctx, text, input.Category)
	durationMs := time.Since(started).Milliseconds()

	// The solver contract is no-fail, but a broken implementation is still
	// downgraded to a failed row rather than an error past this boundary.
	if solution == nil || len(solution.Steps) == 0 {
		return s.failSubmission(ctx, question, durationMs, "solver returned no solution"), nil
	}

	answer := &model.Answer{
		QuestionID:  question.ID,
		Steps:       solution.Steps,
		FinalAnswer: solution.FinalAnswer,
		Explanation: solution.Explanation,
		DurationMs:  durationMs,
		SolvedBy:    solution.SolvedBy,
	}
	if err := s.answerRepo.Create(answer); err != nil {
		s.log.Error("persist answer failed", "question_id", question.ID, "error", err)
		return s.failSubmission(ctx, question, durationMs, "answer persistence failed"), nil
	}

	if err := s.questionRepo.UpdateStatus(question.ID, model.StatusCompleted); err != nil {
		s.log.Warn("mark question completed failed", "question_id", question.ID, "error", err)
	}

	s.cache.Set(ctx, key, cachedSolution{StructuredSolution: *solution, DurationMs: durationMs}, s.answerTTL)
	s.publishEvent(ctx, model.SolveEvent{
		QuestionID: question.ID,
		UserID:     input.UserID,
		Stage:      model.EventStageSolved,
		Backend:    solution.SolvedBy,
		DurationMs: durationMs,
	})

	return &SubmitOutcome{Answer: &AnswerResult{
		QuestionID:  question.ID,
		Question:    text,
		Category:    input.Category,
		Status:      model.StatusCompleted,
		Steps:       solution.Steps,
		FinalAnswer: solution.FinalAnswer,
		Explanation: solution.Explanation,
		Confidence:  solution.Confidence,
		SolvedBy:    solution.SolvedBy,
		DurationMs:  durationMs,
		CreatedAt:   time.Now(),
	}}, nil
}

// submitFromCache re-attributes a previously solved text to a fresh question
// row without re-invoking the solver.
func (s *QuestionService) submitFromCache(ctx context.Context, input SubmitInput, text string, cached cachedSolution) (*SubmitOutcome, error) {
	question := &model.Question{
		UserID:   input.UserID,
		Text:     text,
		Category: input.Category,
		Status:   model.StatusPending,
	}
	if err := s.questionRepo.Create(question); err != nil {
		return nil, err
	}

	answer := &model.Answer{
		QuestionID:  question.ID,
		Steps:       cached.Steps,
		FinalAnswer: cached.FinalAnswer,
		Explanation: cached.Explanation,
		DurationMs:  cached.DurationMs,
		SolvedBy:    cached.SolvedBy,
	}
	if err := s.answerRepo.Create(answer); err != nil {
		s.log.Error("persist cached answer failed", "question_id", question.ID, "error", err)
		return s.failSubmission(ctx, question, 0, "answer persistence failed"), nil
	}
	if err := s.questionRepo.UpdateStatus(question.ID, model.StatusCompleted); err != nil {
		s.log.Warn("mark question completed failed", "question_id", question.ID, "error", err)
	}

	s.log.Info("question served from cache", "question_id", question.ID, "backend", cached.SolvedBy)
	return &SubmitOutcome{Answer: &AnswerResult{
		QuestionID:  question.ID,
		Question:    text,
		Category:    input.Category,
		Status:      model.StatusCompleted,
		Steps:       cached.Steps,
		FinalAnswer: cached.FinalAnswer,
		Explanation: cached.Explanation,
		Confidence:  cached.Confidence,
		SolvedBy:    cached.SolvedBy,
		DurationMs:  cached.DurationMs,
		CreatedAt:   time.Now(),
	}}, nil
}

// failSubmission persists the failed status but reports "processing" to the
// caller. The mismatch is long-standing observed behavior that clients depend
// on; see the status mismatch test before changing it.
func (s *QuestionService) failSubmission(ctx context.Context, question *model.Question, durationMs int64, detail string) *SubmitOutcome {
	if err := s.questionRepo.UpdateStatus(question.ID, model.StatusFailed); err != nil {
		s.log.Warn("mark question failed failed", "question_id", question.ID, "error", err)
	}
	s.publishEvent(ctx, model.SolveEvent{
		QuestionID: question.ID,
		UserID:     question.UserID,
		Stage:      model.EventStageFailed,
		DurationMs: durationMs,
		Detail:     detail,
	})
	return &SubmitOutcome{Pending: &PendingResult{
		QuestionID: question.ID,
		Status:     string(model.StatusProcessing),
		Message:    "Your question is being processed. Check back shortly.",
	}}
}

func (s *QuestionService) GetQuestion(id string) (*model.Question, error) {
	if id == "" {
		return nil, ErrInvalidInput
	}
	question, err := s.questionRepo.GetByIDWithAnswer(id)
	if err != nil {
		return nil, err
	}
	if question == nil {
		return nil, ErrQuestionNotFound
	}
	return question, nil
}

func (s *QuestionService) DeleteQuestion(ctx context.Context, id string) error {
	if id == "" {
		return ErrInvalidInput
	}
	question, err := s.questionRepo.GetByIDWithAnswer(id)
	if err != nil {
		return err
	}
	if question == nil {
		return ErrQuestionNotFound
	}
	if err := s.questionRepo.Delete(id); err != nil {
		return err
	}
	s.cache.Delete(ctx, QuestionCacheKey(question.Text))
	return nil
}

func (s *QuestionService) GetHistory(ctx context.Context, userID string, page, pageSize int) (*HistoryResult, error) {
	if userID == "" {
		return nil, ErrInvalidInput
	}
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	key := historyCacheKey(userID, page, pageSize)
	var cached HistoryResult
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	questions, total, err := s.questionRepo.ListByUserPaginated(userID, page, pageSize)
	if err != nil {
		return nil, err
	}

	items := make([]HistoryItem, 0, len(questions))
	for _, question := range questions {
		item := HistoryItem{
			QuestionID: question.ID,
			Text:       question.Text,
			Category:   question.Category,
			Status:     question.Status,
			CreatedAt:  question.CreatedAt,
		}
		if question.Answer != nil {
			item.FinalAnswer = question.Answer.FinalAnswer
			item.SolvedBy = question.Answer.SolvedBy
			item.DurationMs = question.Answer.DurationMs
		}
		items = append(items, item)
	}

	result := &HistoryResult{
		UserID:     userID,
		Items:      items,
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
	}
	s.cache.Set(ctx, key, result, s.historyTTL)
	return result, nil
}

func (s *QuestionService) GetStats() (*repository.QuestionStats, error) {
	return s.questionRepo.Stats()
}

func (s *QuestionService) publishEvent(ctx context.Context, event model.SolveEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.Warn("publish solve event failed", "question_id", event.QuestionID, "stage", event.Stage, "error", err)
	}
}
