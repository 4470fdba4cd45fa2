package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/biodun42/ThinkFast/internal/domain/entity"
	"github.com/biodun42/ThinkFast/internal/domain/repository"
	apperrors "github.com/biodun42/ThinkFast/internal/pkg/errors"
	"github.com/biodun42/ThinkFast/internal/service/session"
)

// QuestionSource — внешний источник вопросов (the-trivia-api.com)
type QuestionSource interface {
	GetCategories(ctx context.Context) (map[string][]string, error)
	GetQuestions(ctx context.Context, limit int, category, difficulty string) ([]entity.Question, error)
	SearchQuestions(ctx context.Context, query string, limit int, difficulty string) ([]entity.Question, error)
}

// EventStream объединяет приемник событий сессии и канал тактильного отклика.
// Реализуется WebSocket-хабом.
type EventStream interface {
	session.EventSink
	session.Notifier
}

// StreamProvider выдает поток событий для конкретной сессии
type StreamProvider interface {
	Stream(sessionID string) EventStream
	CloseStream(sessionID string)
}

// StartSessionParams — параметры запуска сессии с экрана настройки квиза
type StartSessionParams struct {
	// QuestionCount — запрошенное количество вопросов. Итоговый процент
	// считается от него, даже если источник вернул меньше.
	QuestionCount int

	// TimeLimitSec — лимит времени на вопрос. 0 — таймер выключен.
	TimeLimitSec int

	Category   string
	Difficulty string

	// SearchQuery — свободный текстовый запрос. Непустой запрос имеет
	// приоритет над категорией.
	SearchQuery string

	// DailyChallenge — сессия по вопросам ежедневного испытания
	DailyChallenge bool
}

// Завершенная сессия остается в реестре, чтобы клиент успел забрать
// результат через GET; затем реестр и поток событий освобождаются.
const finishedSessionRetention = 5 * time.Minute

// QuizService управляет активными сессиями квиза: запускает их, хранит реестр
// id → Runner и проксирует операции сессии к нужному контроллеру
type QuizService struct {
	source        QuestionSource
	resultRepo    repository.ResultRepository
	challenges    *ChallengeService
	streams       StreamProvider
	sessionConfig *session.Config
	preparer      *session.Preparer

	// retention — сколько завершенная сессия доступна до выгрузки из реестра
	retention time.Duration

	// sessions: session id (uuid) → *session.Runner
	sessions sync.Map
}

// NewQuizService создает новый сервис квизов
func NewQuizService(
	source QuestionSource,
	resultRepo repository.ResultRepository,
	challenges *ChallengeService,
	streams StreamProvider,
	sessionConfig *session.Config,
) *QuizService {
	if sessionConfig == nil {
		sessionConfig = session.DefaultConfig()
	}
	return &QuizService{
		source:        source,
		resultRepo:    resultRepo,
		challenges:    challenges,
		streams:       streams,
		sessionConfig: sessionConfig,
		preparer:      session.NewPreparer(),
		retention:     finishedSessionRetention,
	}
}

// StartSession запускает новую сессию: получает вопросы из источника,
// перемешивает варианты ответов и поднимает Runner с реальными таймерами.
// Возвращает id сессии и срез начального состояния.
func (s *QuizService) StartSession(ctx context.Context, params StartSessionParams) (string, session.Snapshot, error) {
	if params.QuestionCount <= 0 {
		params.QuestionCount = 10
	}
	if params.TimeLimitSec < 0 {
		params.TimeLimitSec = 0
	}

	questions, err := s.fetchQuestions(ctx, &params)
	if err != nil {
		return "", session.Snapshot{}, err
	}

	prepared := s.preparer.PrepareAll(questions)

	id := uuid.New().String()

	var stream EventStream
	if s.streams != nil {
		stream = s.streams.Stream(id)
	}

	deps := session.Dependencies{}
	if stream != nil {
		deps.Feedback = stream
	}

	ctrl, err := session.NewController(prepared, session.StartConfig{
		QuestionCount: params.QuestionCount,
		TimeLimitSec:  params.TimeLimitSec,
		Category:      params.Category,
		Difficulty:    params.Difficulty,
	}, deps)
	if err != nil {
		return "", session.Snapshot{}, err
	}

	var sink session.EventSink
	if stream != nil {
		sink = stream
	}

	runner := session.NewRunner(id, ctrl, s.sessionConfig, sink, func(result entity.QuizResult) {
		s.persistResult(id, params, result)
		s.scheduleCleanup(id)
	})

	s.sessions.Store(id, runner)
	runner.Start()

	if len(prepared) < params.QuestionCount {
		log.Printf("[QuizService] Сессия %s: источник вернул %d вопросов из %d запрошенных",
			id, len(prepared), params.QuestionCount)
	}
	log.Printf("[QuizService] Сессия %s запущена: %d вопросов, лимит %d сек, категория %q",
		id, len(prepared), params.TimeLimitSec, params.Category)

	return id, ctrl.Snapshot(), nil
}

// fetchQuestions выбирает источник вопросов по параметрам запуска
func (s *QuizService) fetchQuestions(ctx context.Context, params *StartSessionParams) ([]entity.Question, error) {
	if params.DailyChallenge {
		challenge, err := s.challenges.Get(ctx)
		if err != nil {
			return nil, err
		}
		// У ежедневного испытания фиксированный набор: итог считается от него
		params.QuestionCount = len(challenge.Questions)
		params.Category = "daily"
		params.Difficulty = "medium"
		return challenge.Questions, nil
	}

	if params.SearchQuery != "" {
		return s.source.SearchQuestions(ctx, params.SearchQuery, params.QuestionCount, params.Difficulty)
	}
	return s.source.GetQuestions(ctx, params.QuestionCount, params.Category, params.Difficulty)
}

// persistResult сохраняет итог завершенной сессии. Ошибка сохранения логируется
// и не влияет на завершение сессии: клиент все равно получит экран результатов.
func (s *QuizService) persistResult(sessionID string, params StartSessionParams, result entity.QuizResult) {
	if s.resultRepo != nil {
		stored := result
		if err := s.resultRepo.Add(&stored); err != nil {
			log.Printf("[QuizService] Сессия %s: не удалось сохранить результат в таблицу лидеров: %v", sessionID, err)
		}
	}

	if params.DailyChallenge && s.challenges != nil {
		s.challenges.MarkCompleted(result.Score)
	}
}

// scheduleCleanup выгружает завершенную сессию из реестра и закрывает ее
// поток событий после периода хранения. Клиент, вышедший раньше через
// DELETE, уже удалил сессию — тогда отложенная выгрузка ничего не находит.
func (s *QuizService) scheduleCleanup(sessionID string) {
	time.AfterFunc(s.retention, func() {
		if _, ok := s.sessions.LoadAndDelete(sessionID); ok {
			log.Printf("[QuizService] Завершенная сессия %s выгружена из реестра", sessionID)
		}
		if s.streams != nil {
			s.streams.CloseStream(sessionID)
		}
	})
}

// SubmitAnswer передает ответ пользователя в сессию.
// accepted=false означает, что ответ на текущий вопрос уже дан.
func (s *QuizService) SubmitAnswer(sessionID, answer string) (*entity.UserAnswer, bool, error) {
	runner, err := s.runner(sessionID)
	if err != nil {
		return nil, false, err
	}
	if runner.Controller().Status() == session.StatusFinished {
		return nil, false, ErrSessionFinished
	}
	entry, accepted := runner.Submit(answer)
	return entry, accepted, nil
}

// ApplyLifeline применяет подсказку к текущему вопросу сессии
func (s *QuizService) ApplyLifeline(sessionID string, lifelineID entity.LifelineID) (session.LifelineEffect, bool, error) {
	if !entity.IsValidLifelineID(lifelineID) {
		return session.LifelineEffect{}, false, fmt.Errorf("%w: unknown lifeline %q", apperrors.ErrValidation, lifelineID)
	}
	runner, err := s.runner(sessionID)
	if err != nil {
		return session.LifelineEffect{}, false, err
	}
	if runner.Controller().Status() == session.StatusFinished {
		return session.LifelineEffect{}, false, ErrSessionFinished
	}
	effect, accepted := runner.ApplyLifeline(lifelineID)
	return effect, accepted, nil
}

// PauseSession ставит сессию на паузу
func (s *QuizService) PauseSession(sessionID string) (bool, error) {
	runner, err := s.runner(sessionID)
	if err != nil {
		return false, err
	}
	return runner.Pause(), nil
}

// ResumeSession снимает сессию с паузы
func (s *QuizService) ResumeSession(sessionID string) (bool, error) {
	runner, err := s.runner(sessionID)
	if err != nil {
		return false, err
	}
	return runner.Resume(), nil
}

// GetSnapshot возвращает срез текущего состояния сессии
func (s *QuizService) GetSnapshot(sessionID string) (session.Snapshot, error) {
	runner, err := s.runner(sessionID)
	if err != nil {
		return session.Snapshot{}, err
	}
	return runner.Snapshot(), nil
}

// GetResult возвращает итог завершенной сессии
func (s *QuizService) GetResult(sessionID string) (*entity.QuizResult, error) {
	runner, err := s.runner(sessionID)
	if err != nil {
		return nil, err
	}
	result, ok := runner.Controller().Result()
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return result, nil
}

// ExitSession останавливает сессию и удаляет ее из реестра.
// Все запланированные таймеры сессии после выхода поглощаются.
func (s *QuizService) ExitSession(sessionID string) error {
	value, ok := s.sessions.LoadAndDelete(sessionID)
	if !ok {
		return ErrSessionNotFound
	}
	value.(*session.Runner).Exit()
	if s.streams != nil {
		s.streams.CloseStream(sessionID)
	}
	return nil
}

// GetCategories возвращает категории вопросов внешнего источника
func (s *QuizService) GetCategories(ctx context.Context) (map[string][]string, error) {
	return s.source.GetCategories(ctx)
}

// runner находит Runner сессии в реестре
func (s *QuizService) runner(sessionID string) (*session.Runner, error) {
	value, ok := s.sessions.Load(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return value.(*session.Runner), nil
}
