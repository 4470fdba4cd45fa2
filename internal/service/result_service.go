package service

import (
	"log"

	"github.com/biodun42/ThinkFast/internal/domain/entity"
	"github.com/biodun42/ThinkFast/internal/domain/repository"
)

// ResultService предоставляет методы для работы с таблицей лидеров
type ResultService struct {
	resultRepo repository.ResultRepository
}

// NewResultService создает новый сервис результатов
func NewResultService(resultRepo repository.ResultRepository) *ResultService {
	return &ResultService{resultRepo: resultRepo}
}

// GetLeaderboard возвращает таблицу лидеров, отсортированную по проценту
func (s *ResultService) GetLeaderboard() ([]entity.QuizResult, error) {
	return s.resultRepo.GetTop(repository.LeaderboardSize)
}

// AddResult сохраняет результат в таблицу лидеров.
// Репозиторий сам обрезает таблицу до лучших записей.
func (s *ResultService) AddResult(result *entity.QuizResult) error {
	if err := s.resultRepo.Add(result); err != nil {
		log.Printf("[ResultService] Ошибка сохранения результата: %v", err)
		return err
	}
	return nil
}

// ClearLeaderboard удаляет все результаты
func (s *ResultService) ClearLeaderboard() error {
	log.Printf("[ResultService] Очистка таблицы лидеров")
	return s.resultRepo.Clear()
}
