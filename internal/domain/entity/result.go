package entity

import (
	"time"
)

// QuizResult представляет итоговый результат сессии для таблицы лидеров.
// TotalQuestions хранит запрошенное при старте количество вопросов, а не длину
// журнала ответов: процент считается от заказанного объёма даже при недоборе.
type QuizResult struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Score          int       `gorm:"not null;default:0" json:"score"`
	TotalQuestions int       `gorm:"not null;default:0" json:"total_questions"`
	TimeSpentSec   float64   `gorm:"not null;default:0" json:"time_spent_sec"`
	Category       string    `gorm:"size:100;not null;default:''" json:"category"`
	Difficulty     string    `gorm:"size:20;not null;default:''" json:"difficulty"`
	Percentage     int       `gorm:"not null;default:0;index:idx_leaderboard_pct" json:"percentage"`
	CompletedAt    time.Time `gorm:"not null" json:"completed_at"`
	CreatedAt      time.Time `json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (QuizResult) TableName() string {
	return "leaderboard_results"
}
