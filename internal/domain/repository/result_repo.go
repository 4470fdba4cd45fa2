package repository

import (
	"github.com/biodun42/ThinkFast/internal/domain/entity"
)

// LeaderboardSize — сколько лучших результатов хранится в таблице лидеров
const LeaderboardSize = 10

// ResultRepository определяет методы для работы с таблицей лидеров
type ResultRepository interface {
	// Add добавляет результат и усекает таблицу до LeaderboardSize лучших
	// по проценту (по убыванию)
	Add(result *entity.QuizResult) error

	// GetTop возвращает лучшие результаты, отсортированные по проценту по убыванию
	GetTop(limit int) ([]entity.QuizResult, error)

	// Clear удаляет все результаты
	Clear() error
}
