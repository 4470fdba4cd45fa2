package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/biodun42/ThinkFast/internal/service"
	"github.com/biodun42/ThinkFast/internal/trivia"
)

// CatalogHandler обрабатывает запросы каталога: категории вопросов и
// ежедневное испытание
type CatalogHandler struct {
	quizService      *service.QuizService
	challengeService *service.ChallengeService
}

// NewCatalogHandler создает новый обработчик каталога
func NewCatalogHandler(quizService *service.QuizService, challengeService *service.ChallengeService) *CatalogHandler {
	return &CatalogHandler{
		quizService:      quizService,
		challengeService: challengeService,
	}
}

// GetCategories возвращает категории вопросов внешнего источника
// GET /api/categories
func (h *CatalogHandler) GetCategories(c *gin.Context) {
	categories, err := h.quizService.GetCategories(c.Request.Context())
	if err != nil {
		h.handleSourceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// GetDailyChallenge возвращает состояние сегодняшнего испытания.
// Сами вопросы клиенту не отдаются: сессия испытания запускается через
// POST /api/sessions с daily_challenge=true.
// GET /api/daily-challenge
func (h *CatalogHandler) GetDailyChallenge(c *gin.Context) {
	challenge, err := h.challengeService.Get(c.Request.Context())
	if err != nil {
		h.handleSourceError(c, err)
		return
	}

	resp := gin.H{
		"date":           challenge.Date,
		"question_count": len(challenge.Questions),
		"completed":      challenge.Completed,
	}
	if challenge.Score != nil {
		resp["score"] = *challenge.Score
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CatalogHandler) handleSourceError(c *gin.Context, err error) {
	if errors.Is(err, trivia.ErrSourceUnavailable) {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Question source is unavailable, try again"})
		return
	}
	log.Printf("[CatalogHandler] Внутренняя ошибка: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}
