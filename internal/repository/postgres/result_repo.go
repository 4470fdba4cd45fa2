package postgres

import (
	"log"

	"gorm.io/gorm"

	"github.com/biodun42/ThinkFast/internal/domain/entity"
	"github.com/biodun42/ThinkFast/internal/domain/repository"
)

// ResultRepo реализует repository.ResultRepository поверх PostgreSQL
type ResultRepo struct {
	db *gorm.DB
}

// NewResultRepo создает новый репозиторий результатов
func NewResultRepo(db *gorm.DB) *ResultRepo {
	return &ResultRepo{db: db}
}

// Add сохраняет результат и обрезает таблицу лидеров до лучших записей.
// Обе операции выполняются в одной транзакции, чтобы между вставкой и
// обрезкой не появилось лишних строк.
func (r *ResultRepo) Add(result *entity.QuizResult) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(result).Error; err != nil {
			return err
		}

		// Удаляем все, что не попало в топ по проценту.
		// При равных процентах выигрывает более свежий результат.
		sql := `
		DELETE FROM leaderboard_results
		WHERE id NOT IN (
		    SELECT id FROM leaderboard_results
		    ORDER BY percentage DESC, completed_at DESC
		    LIMIT ?
		);`
		if err := tx.Exec(sql, repository.LeaderboardSize).Error; err != nil {
			log.Printf("[ResultRepo] Ошибка обрезки таблицы лидеров: %v", err)
			return err
		}
		return nil
	})
}

// GetTop возвращает лучшие результаты, отсортированные по проценту
func (r *ResultRepo) GetTop(limit int) ([]entity.QuizResult, error) {
	if limit <= 0 || limit > repository.LeaderboardSize {
		limit = repository.LeaderboardSize
	}
	var results []entity.QuizResult
	err := r.db.
		Order("percentage DESC, completed_at DESC").
		Limit(limit).
		Find(&results).Error
	// Пустой слайс - валидный результат, ErrRecordNotFound здесь не бывает
	return results, err
}

// Clear удаляет все результаты из таблицы лидеров
func (r *ResultRepo) Clear() error {
	return r.db.Exec("DELETE FROM leaderboard_results").Error
}
