package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/biodun42/ThinkFast/internal/domain/entity"
	"github.com/biodun42/ThinkFast/internal/handler/dto"
	apperrors "github.com/biodun42/ThinkFast/internal/pkg/errors"
	"github.com/biodun42/ThinkFast/internal/service"
	"github.com/biodun42/ThinkFast/internal/service/session"
	"github.com/biodun42/ThinkFast/internal/trivia"
)

// SessionHandler обрабатывает запросы жизненного цикла сессии квиза
type SessionHandler struct {
	quizService *service.QuizService
}

// NewSessionHandler создает новый обработчик сессий
func NewSessionHandler(quizService *service.QuizService) *SessionHandler {
	return &SessionHandler{quizService: quizService}
}

// StartSessionRequest представляет запрос на запуск сессии
type StartSessionRequest struct {
	QuestionCount  int    `json:"question_count" binding:"omitempty,min=1,max=50"`
	TimeLimitSec   int    `json:"time_limit_sec" binding:"omitempty,min=0,max=300"`
	Category       string `json:"category"`
	Difficulty     string `json:"difficulty" binding:"omitempty,oneof=easy medium hard"`
	SearchQuery    string `json:"search_query"`
	DailyChallenge bool   `json:"daily_challenge"`
}

// SubmitAnswerRequest представляет запрос с ответом на текущий вопрос
type SubmitAnswerRequest struct {
	Answer string `json:"answer" binding:"required"`
}

// LifelineRequest представляет запрос на применение подсказки
type LifelineRequest struct {
	Lifeline string `json:"lifeline" binding:"required"`
}

// StartSession запускает новую сессию квиза
// POST /api/sessions
func (h *SessionHandler) StartSession(c *gin.Context) {
	var req StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, snap, err := h.quizService.StartSession(c.Request.Context(), service.StartSessionParams{
		QuestionCount:  req.QuestionCount,
		TimeLimitSec:   req.TimeLimitSec,
		Category:       req.Category,
		Difficulty:     req.Difficulty,
		SearchQuery:    req.SearchQuery,
		DailyChallenge: req.DailyChallenge,
	})
	if err != nil {
		h.handleSessionError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewSnapshotResponse(id, snap))
}

// GetSession возвращает текущее состояние сессии
// GET /api/sessions/:id
func (h *SessionHandler) GetSession(c *gin.Context) {
	sessionID := c.MustGet("sessionID").(string)

	snap, err := h.quizService.GetSnapshot(sessionID)
	if err != nil {
		h.handleSessionError(c, err)
		return
	}

	resp := gin.H{"session": dto.NewSnapshotResponse(sessionID, snap)}
	if snap.Status == session.StatusFinished {
		if result, err := h.quizService.GetResult(sessionID); err == nil {
			resp["result"] = dto.NewResultResponse(result)
		}
	}
	c.JSON(http.StatusOK, resp)
}

// SubmitAnswer фиксирует ответ на текущий вопрос
// POST /api/sessions/:id/answer
func (h *SessionHandler) SubmitAnswer(c *gin.Context) {
	sessionID := c.MustGet("sessionID").(string)

	var req SubmitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, accepted, err := h.quizService.SubmitAnswer(sessionID, req.Answer)
	if err != nil {
		h.handleSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAnswerResponse(entry, accepted))
}

// ApplyLifeline применяет подсказку к текущему вопросу
// POST /api/sessions/:id/lifeline
func (h *SessionHandler) ApplyLifeline(c *gin.Context) {
	sessionID := c.MustGet("sessionID").(string)

	var req LifelineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	effect, accepted, err := h.quizService.ApplyLifeline(sessionID, entity.LifelineID(req.Lifeline))
	if err != nil {
		h.handleSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewLifelineEffectResponse(effect, accepted))
}

// PauseSession ставит сессию на паузу
// POST /api/sessions/:id/pause
func (h *SessionHandler) PauseSession(c *gin.Context) {
	sessionID := c.MustGet("sessionID").(string)

	paused, err := h.quizService.PauseSession(sessionID)
	if err != nil {
		h.handleSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"paused": paused})
}

// ResumeSession снимает сессию с паузы
// POST /api/sessions/:id/resume
func (h *SessionHandler) ResumeSession(c *gin.Context) {
	sessionID := c.MustGet("sessionID").(string)

	resumed, err := h.quizService.ResumeSession(sessionID)
	if err != nil {
		h.handleSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"resumed": resumed})
}

// ExitSession останавливает сессию и удаляет ее из реестра
// DELETE /api/sessions/:id
func (h *SessionHandler) ExitSession(c *gin.Context) {
	sessionID := c.MustGet("sessionID").(string)

	if err := h.quizService.ExitSession(sessionID); err != nil {
		h.handleSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Session exited"})
}

// handleSessionError преобразует ошибки сервисов в HTTP-статусы
func (h *SessionHandler) handleSessionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound), errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
	case errors.Is(err, service.ErrSessionFinished):
		c.JSON(http.StatusConflict, gin.H{"error": "Session already finished"})
	case errors.Is(err, session.ErrInsufficientQuestions):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "No questions available for the requested configuration"})
	case errors.Is(err, trivia.ErrSourceUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"error": "Question source is unavailable, try again"})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Printf("[SessionHandler] Внутренняя ошибка: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
