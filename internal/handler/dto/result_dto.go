package dto

import (
	"time"

	"github.com/biodun42/ThinkFast/internal/domain/entity"
	"github.com/biodun42/ThinkFast/internal/service/session"
)

// ResultResponse представляет итог сессии в формате для ответа клиенту
type ResultResponse struct {
	Score          int       `json:"score"`
	TotalQuestions int       `json:"total_questions"`
	Percentage     int       `json:"percentage"`
	TimeSpent      string    `json:"time_spent"`
	TimeSpentSec   float64   `json:"time_spent_sec"`
	Category       string    `json:"category"`
	Difficulty     string    `json:"difficulty"`
	Message        string    `json:"message"`
	CompletedAt    time.Time `json:"completed_at"`
}

// LeaderboardEntryResponse представляет строку таблицы лидеров
type LeaderboardEntryResponse struct {
	Rank           int       `json:"rank"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"total_questions"`
	Percentage     int       `json:"percentage"`
	TimeSpent      string    `json:"time_spent"`
	Category       string    `json:"category"`
	Difficulty     string    `json:"difficulty"`
	CompletedAt    time.Time `json:"completed_at"`
}

// NewResultResponse создает DTO итога сессии
func NewResultResponse(result *entity.QuizResult) *ResultResponse {
	if result == nil {
		return nil
	}
	return &ResultResponse{
		Score:          result.Score,
		TotalQuestions: result.TotalQuestions,
		Percentage:     result.Percentage,
		TimeSpent:      session.FormatTime(result.TimeSpentSec),
		TimeSpentSec:   result.TimeSpentSec,
		Category:       result.Category,
		Difficulty:     result.Difficulty,
		Message:        session.ScoreMessage(result.Percentage),
		CompletedAt:    result.CompletedAt,
	}
}

// NewLeaderboardResponse создает слайс DTO для таблицы лидеров.
// Ранг — позиция в отсортированном списке, начиная с 1.
func NewLeaderboardResponse(results []entity.QuizResult) []*LeaderboardEntryResponse {
	list := make([]*LeaderboardEntryResponse, len(results))
	for i, result := range results {
		list[i] = &LeaderboardEntryResponse{
			Rank:           i + 1,
			Score:          result.Score,
			TotalQuestions: result.TotalQuestions,
			Percentage:     result.Percentage,
			TimeSpent:      session.FormatTime(result.TimeSpentSec),
			Category:       result.Category,
			Difficulty:     result.Difficulty,
			CompletedAt:    result.CompletedAt,
		}
	}
	return list
}
