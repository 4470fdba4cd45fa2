package session

import (
	"fmt"
	"math"
	"time"

	"github.com/biodun42/ThinkFast/internal/domain/entity"
)

// ScorePercentage считает процент правильных ответов с округлением до
// ближайшего целого (round half-up на точном частном).
func ScorePercentage(score, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(score) / float64(total) * 100))
}

// Summarize сводит журнал ответов в итоговый результат сессии.
// Чистая функция журнала и конфигурации: настенные часы участвуют только
// через уже записанные значения времени ответов.
//
// totalQuestions — запрошенное при старте количество вопросов, не длина
// журнала: при недоборе вопросов или досрочном выходе процент считается от
// заказанного объёма и может быть меньше 100 даже при безошибочном журнале.
func Summarize(answers []entity.UserAnswer, totalQuestions int, category, difficulty string, completedAt time.Time) entity.QuizResult {
	score := 0
	totalTime := 0.0
	for _, a := range answers {
		if a.IsCorrect {
			score++
		}
		totalTime += a.TimeSpentSec
	}

	return entity.QuizResult{
		Score:          score,
		TotalQuestions: totalQuestions,
		TimeSpentSec:   totalTime,
		Category:       category,
		Difficulty:     difficulty,
		Percentage:     ScorePercentage(score, totalQuestions),
		CompletedAt:    completedAt,
	}
}

// FormatTime форматирует секунды как "м:сс" для отображения
func FormatTime(seconds float64) string {
	total := int(seconds)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// ScoreMessage возвращает текст оценки результата для экрана итогов
func ScoreMessage(percentage int) string {
	switch {
	case percentage >= 90:
		return "Brilliant!"
	case percentage >= 80:
		return "Excellent!"
	case percentage >= 70:
		return "Great job!"
	case percentage >= 60:
		return "Good work!"
	case percentage >= 50:
		return "Not bad!"
	default:
		return "Keep practicing!"
	}
}
