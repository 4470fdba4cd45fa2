package service

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/biodun42/ThinkFast/internal/domain/entity"
	"github.com/biodun42/ThinkFast/internal/domain/repository"
)

// просроченное испытание вчерашнего дня живет в кеше не дольше двух суток
const challengeTTL = 48 * time.Hour

// ChallengeSource выдает набор вопросов ежедневного испытания
type ChallengeSource interface {
	GetDailyChallenge(ctx context.Context) ([]entity.Question, error)
}

// ChallengeService управляет ежедневным испытанием: один набор из 10 вопросов
// средней сложности на календарную дату, с кешированием в Redis
type ChallengeService struct {
	source    ChallengeSource
	cacheRepo repository.CacheRepository
	now       func() time.Time

	// mu сериализует генерацию испытания: два одновременных запроса
	// не должны получить разные наборы вопросов на одну дату
	mu sync.Mutex
}

// NewChallengeService создает новый сервис ежедневного испытания
func NewChallengeService(source ChallengeSource, cacheRepo repository.CacheRepository) *ChallengeService {
	return &ChallengeService{
		source:    source,
		cacheRepo: cacheRepo,
		now:       time.Now,
	}
}

// Get возвращает испытание на сегодня. Кеш с устаревшей датой считается
// промахом: на новую дату генерируется новый набор вопросов.
func (s *ChallengeService) Get(ctx context.Context) (*entity.DailyChallenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := s.today()

	var challenge entity.DailyChallenge
	if err := s.cacheRepo.GetJSON(repository.KeyDailyChallenge, &challenge); err == nil {
		if challenge.IsForDate(today) {
			return &challenge, nil
		}
		log.Printf("[ChallengeService] Испытание в кеше устарело (%s), генерирую новое на %s", challenge.Date, today)
	}

	questions, err := s.source.GetDailyChallenge(ctx)
	if err != nil {
		return nil, err
	}

	challenge = entity.DailyChallenge{
		Date:      today,
		Questions: questions,
	}

	if err := s.cacheRepo.SetJSON(repository.KeyDailyChallenge, &challenge, challengeTTL); err != nil {
		// Кеш недоступен - испытание все равно отдаем, но завтрашний
		// запрос сгенерирует другой набор
		log.Printf("[ChallengeService] Не удалось закешировать испытание: %v", err)
	}

	return &challenge, nil
}

// MarkCompleted помечает сегодняшнее испытание пройденным с набранным счетом.
// Вызывается при завершении сессии испытания, ошибки кеша только логируются.
func (s *ChallengeService) MarkCompleted(score int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var challenge entity.DailyChallenge
	if err := s.cacheRepo.GetJSON(repository.KeyDailyChallenge, &challenge); err != nil {
		log.Printf("[ChallengeService] Не удалось прочитать испытание для отметки о прохождении: %v", err)
		return
	}
	if !challenge.IsForDate(s.today()) {
		// Сессия пережила смену даты, отмечать уже нечего
		return
	}

	challenge.Completed = true
	challenge.Score = &score

	if err := s.cacheRepo.SetJSON(repository.KeyDailyChallenge, &challenge, challengeTTL); err != nil {
		log.Printf("[ChallengeService] Не удалось сохранить отметку о прохождении испытания: %v", err)
	}
}

func (s *ChallengeService) today() string {
	return s.now().Format("2006-01-02")
}
