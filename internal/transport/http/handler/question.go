package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"mathsolve/internal/app"
	"mathsolve/internal/model"
	"mathsolve/internal/transport/http/response"
)

type QuestionHandler struct {
	questionService *app.QuestionService
	bulkService     *app.BulkService
}

type SubmitQuestionRequest struct {
	UserID   string `json:"user_id" binding:"required,uuid"`
	Question string `json:"question" binding:"required"`
	Category string `json:"category" binding:"required,oneof=algebra calculus geometry arithmetic other"`
}

type BulkIngestRequest struct {
	Items []SubmitQuestionRequest `json:"items" binding:"required,min=1,max=50,dive"`
}

func NewQuestionHandler(questionService *app.QuestionService, bulkService *app.BulkService) *QuestionHandler {
	return &QuestionHandler{
		questionService: questionService,
		bulkService:     bulkService,
	}
}

func (h *QuestionHandler) Submit(c *gin.Context) {
	var req SubmitQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	outcome, err := h.questionService.Submit(c.Request.Context(), app.SubmitInput{
		UserID:   req.UserID,
		Text:     req.Question,
		Category: model.Category(req.Category),
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput), errors.Is(err, app.ErrInvalidCategory):
			response.Error(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, app.ErrUserNotFound):
			response.Error(c, http.StatusNotFound, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, "submit question failed")
		}
		return
	}

	if outcome.Pending != nil {
		response.OKWithMessage(c, outcome.Pending, outcome.Pending.Message)
		return
	}
	response.OK(c, outcome.Answer)
}

func (h *QuestionHandler) Get(c *gin.Context) {
	question, err := h.questionService.GetQuestion(c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, app.ErrQuestionNotFound):
			response.Error(c, http.StatusNotFound, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, "get question failed")
		}
		return
	}
	response.OK(c, question)
}

func (h *QuestionHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.questionService.DeleteQuestion(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, app.ErrQuestionNotFound):
			response.Error(c, http.StatusNotFound, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, "delete question failed")
		}
		return
	}
	response.OKWithMessage(c, gin.H{"deleted_question_id": id}, "question deleted")
}

func (h *QuestionHandler) History(c *gin.Context) {
	userID := c.Param("userId")

	page := 1
	if raw := c.Query("page"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			page = parsed
		}
	}
	pageSize := 20
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			pageSize = parsed
		}
	}

	history, err := h.questionService.GetHistory(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, app.ErrUserNotFound):
			response.Error(c, http.StatusNotFound, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, "get history failed")
		}
		return
	}
	response.OK(c, history)
}

func (h *QuestionHandler) Stats(c *gin.Context) {
	stats, err := h.questionService.GetStats()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "get stats failed")
		return
	}
	response.OK(c, stats)
}

func (h *QuestionHandler) BulkIngest(c *gin.Context) {
	var req BulkIngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	items := make([]app.BulkItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, app.BulkItem{
			UserID:   item.UserID,
			Text:     item.Question,
			Category: model.Category(item.Category),
		})
	}

	result, err := h.bulkService.BulkSubmit(c.Request.Context(), items)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrBulkSizeInvalid):
			response.Error(c, http.StatusBadRequest, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, "bulk ingest failed")
		}
		return
	}
	response.OK(c, result)
}
