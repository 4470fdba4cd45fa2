package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/biodun42/ThinkFast/internal/domain/entity"
	apperrors "github.com/biodun42/ThinkFast/internal/pkg/errors"
	"github.com/biodun42/ThinkFast/internal/service/session"
)

// ============================================================================
// Моки для QuizService
// ============================================================================

// MockQuestionSource реализует QuestionSource
type MockQuestionSource struct {
	mock.Mock
}

func (m *MockQuestionSource) GetCategories(ctx context.Context) (map[string][]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string][]string), args.Error(1)
}

func (m *MockQuestionSource) GetQuestions(ctx context.Context, limit int, category, difficulty string) ([]entity.Question, error) {
	args := m.Called(ctx, limit, category, difficulty)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Question), args.Error(1)
}

func (m *MockQuestionSource) SearchQuestions(ctx context.Context, query string, limit int, difficulty string) ([]entity.Question, error) {
	args := m.Called(ctx, query, limit, difficulty)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Question), args.Error(1)
}

// MockResultRepository реализует repository.ResultRepository
type MockResultRepository struct {
	mock.Mock
}

func (m *MockResultRepository) Add(result *entity.QuizResult) error {
	args := m.Called(result)
	return args.Error(0)
}

func (m *MockResultRepository) GetTop(limit int) ([]entity.QuizResult, error) {
	args := m.Called(limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.QuizResult), args.Error(1)
}

func (m *MockResultRepository) Clear() error {
	args := m.Called()
	return args.Error(0)
}

// ============================================================================
// Вспомогательные функции
// ============================================================================

func sourceQuestions(n int) []entity.Question {
	questions := make([]entity.Question, n)
	for i := range questions {
		questions[i] = entity.Question{
			ID:               string(rune('a' + i)),
			Category:         "Geography",
			Text:             "What is the capital of France?",
			CorrectAnswer:    "Paris",
			IncorrectAnswers: []string{"Rome", "Berlin", "Madrid"},
			Difficulty:       "medium",
		}
	}
	return questions
}

// fastSessionConfig делает таймеры сессии короткими, чтобы тесты не ждали
func fastSessionConfig() *session.Config {
	return &session.Config{
		TickInterval:       5 * time.Millisecond,
		SubmitSettleDelay:  5 * time.Millisecond,
		TimeoutSettleDelay: 5 * time.Millisecond,
		SkipSettleDelay:    5 * time.Millisecond,
	}
}

func newTestQuizService(source *MockQuestionSource, resultRepo *MockResultRepository) *QuizService {
	// Типизированный nil-указатель нельзя передавать в интерфейсный параметр:
	// проверка resultRepo != nil в сервисе его не отловит
	if resultRepo == nil {
		return NewQuizService(source, nil, nil, nil, fastSessionConfig())
	}
	return NewQuizService(source, resultRepo, nil, nil, fastSessionConfig())
}

func waitForFinish(t *testing.T, check func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if check() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("Ожидаемое состояние не наступило за отведенное время")
}

// ============================================================================
// Тесты
// ============================================================================

func TestQuizService_StartSession(t *testing.T) {
	// Arrange
	source := new(MockQuestionSource)
	source.On("GetQuestions", mock.Anything, 5, "history", "easy").
		Return(sourceQuestions(5), nil)
	svc := newTestQuizService(source, nil)

	// Act
	id, snap, err := svc.StartSession(context.Background(), StartSessionParams{
		QuestionCount: 5,
		TimeLimitSec:  0,
		Category:      "history",
		Difficulty:    "easy",
	})

	// Assert
	require.NoError(t, err)
	assert.NotEmpty(t, id, "Сессия должна получить непустой id")
	assert.Equal(t, session.StatusInProgress, snap.Status)
	assert.Equal(t, 5, snap.QuestionsLoaded)
	assert.Equal(t, 0, snap.QuestionIndex)
	source.AssertExpectations(t)
}

func TestQuizService_StartSession_SearchQueryTakesPriority(t *testing.T) {
	// Arrange
	source := new(MockQuestionSource)
	source.On("SearchQuestions", mock.Anything, "space", 10, "").
		Return(sourceQuestions(10), nil)
	svc := newTestQuizService(source, nil)

	// Act
	_, _, err := svc.StartSession(context.Background(), StartSessionParams{
		QuestionCount: 10,
		Category:      "history",
		SearchQuery:   "space",
	})

	// Assert: непустой поисковый запрос важнее категории
	require.NoError(t, err)
	source.AssertExpectations(t)
	source.AssertNotCalled(t, "GetQuestions", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestQuizService_StartSession_NoQuestions(t *testing.T) {
	// Arrange
	source := new(MockQuestionSource)
	source.On("GetQuestions", mock.Anything, 10, "", "").
		Return([]entity.Question{}, nil)
	svc := newTestQuizService(source, nil)

	// Act
	_, _, err := svc.StartSession(context.Background(), StartSessionParams{QuestionCount: 10})

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, session.ErrInsufficientQuestions)
}

func TestQuizService_StartSession_SourceError(t *testing.T) {
	// Arrange
	sourceErr := errors.New("connection refused")
	source := new(MockQuestionSource)
	source.On("GetQuestions", mock.Anything, 10, "", "").
		Return(nil, sourceErr)
	svc := newTestQuizService(source, nil)

	// Act
	_, _, err := svc.StartSession(context.Background(), StartSessionParams{QuestionCount: 10})

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, sourceErr)
}

func TestQuizService_SubmitAnswer(t *testing.T) {
	// Arrange
	source := new(MockQuestionSource)
	source.On("GetQuestions", mock.Anything, 3, "", "").
		Return(sourceQuestions(3), nil)
	svc := newTestQuizService(source, nil)

	id, _, err := svc.StartSession(context.Background(), StartSessionParams{QuestionCount: 3})
	require.NoError(t, err)

	// Act
	entry, accepted, err := svc.SubmitAnswer(id, "Paris")

	// Assert
	require.NoError(t, err)
	assert.True(t, accepted)
	require.NotNil(t, entry)
	assert.True(t, entry.IsCorrect)
}

func TestQuizService_SubmitAnswer_UnknownSession(t *testing.T) {
	// Arrange
	svc := newTestQuizService(new(MockQuestionSource), nil)

	// Act
	_, _, err := svc.SubmitAnswer("00000000-0000-0000-0000-000000000000", "Paris")

	// Assert
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestQuizService_ApplyLifeline_InvalidID(t *testing.T) {
	// Arrange
	svc := newTestQuizService(new(MockQuestionSource), nil)

	// Act
	_, _, err := svc.ApplyLifeline("any-session", "time_machine")

	// Assert: невалидная подсказка отклоняется раньше поиска сессии
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestQuizService_SessionFinish_PersistsResult(t *testing.T) {
	// Arrange
	source := new(MockQuestionSource)
	source.On("GetQuestions", mock.Anything, 1, "", "").
		Return(sourceQuestions(1), nil)

	resultRepo := new(MockResultRepository)
	saved := make(chan *entity.QuizResult, 1)
	resultRepo.On("Add", mock.AnythingOfType("*entity.QuizResult")).
		Run(func(args mock.Arguments) {
			saved <- args.Get(0).(*entity.QuizResult)
		}).
		Return(nil)

	svc := newTestQuizService(source, resultRepo)
	id, _, err := svc.StartSession(context.Background(), StartSessionParams{QuestionCount: 1})
	require.NoError(t, err)

	// Act: ответ на единственный вопрос завершает сессию
	_, accepted, err := svc.SubmitAnswer(id, "Paris")
	require.NoError(t, err)
	require.True(t, accepted)

	// Assert
	select {
	case result := <-saved:
		assert.Equal(t, 1, result.Score)
		assert.Equal(t, 100, result.Percentage)
	case <-time.After(2 * time.Second):
		t.Fatal("Результат не был сохранен после завершения сессии")
	}
}

func TestQuizService_SessionFinish_PersistFailureDoesNotLoseResult(t *testing.T) {
	// Arrange: репозиторий недоступен, но итог сессии остается доступным клиенту
	source := new(MockQuestionSource)
	source.On("GetQuestions", mock.Anything, 1, "", "").
		Return(sourceQuestions(1), nil)

	resultRepo := new(MockResultRepository)
	resultRepo.On("Add", mock.AnythingOfType("*entity.QuizResult")).
		Return(errors.New("db down"))

	svc := newTestQuizService(source, resultRepo)
	id, _, err := svc.StartSession(context.Background(), StartSessionParams{QuestionCount: 1})
	require.NoError(t, err)

	// Act
	_, _, err = svc.SubmitAnswer(id, "Rome")
	require.NoError(t, err)

	waitForFinish(t, func() bool {
		snap, err := svc.GetSnapshot(id)
		return err == nil && snap.Status == session.StatusFinished
	})

	// Assert
	result, err := svc.GetResult(id)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Score)
	assert.Equal(t, 0, result.Percentage)
}

// stubStreamProvider фиксирует закрытие потоков событий
type stubStreamProvider struct {
	mu     sync.Mutex
	closed []string
}

func (p *stubStreamProvider) Stream(sessionID string) EventStream { return nil }

func (p *stubStreamProvider) CloseStream(sessionID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = append(p.closed, sessionID)
}

func (p *stubStreamProvider) closedStreams() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.closed))
	copy(out, p.closed)
	return out
}

func TestQuizService_FinishedSession_EvictedAfterRetention(t *testing.T) {
	// Arrange: одновопросная сессия с коротким периодом хранения
	source := new(MockQuestionSource)
	source.On("GetQuestions", mock.Anything, 1, "", "").
		Return(sourceQuestions(1), nil)
	streams := &stubStreamProvider{}
	svc := NewQuizService(source, nil, nil, streams, fastSessionConfig())
	svc.retention = 10 * time.Millisecond

	id, _, err := svc.StartSession(context.Background(), StartSessionParams{QuestionCount: 1})
	require.NoError(t, err)

	// Act: завершаем сессию
	_, _, err = svc.SubmitAnswer(id, "Paris")
	require.NoError(t, err)

	// Assert: после периода хранения сессия выгружена, поток закрыт
	waitForFinish(t, func() bool {
		_, err := svc.GetSnapshot(id)
		return errors.Is(err, ErrSessionNotFound)
	})
	assert.Contains(t, streams.closedStreams(), id, "Поток событий завершенной сессии должен быть закрыт")
}

func TestQuizService_SubmitAnswer_FinishedSession(t *testing.T) {
	// Arrange: сессия из одного вопроса доводится до завершения
	source := new(MockQuestionSource)
	source.On("GetQuestions", mock.Anything, 1, "", "").
		Return(sourceQuestions(1), nil)
	svc := newTestQuizService(source, nil)

	id, _, err := svc.StartSession(context.Background(), StartSessionParams{QuestionCount: 1})
	require.NoError(t, err)

	_, _, err = svc.SubmitAnswer(id, "Paris")
	require.NoError(t, err)

	waitForFinish(t, func() bool {
		snap, err := svc.GetSnapshot(id)
		return err == nil && snap.Status == session.StatusFinished
	})

	// Act
	_, _, err = svc.SubmitAnswer(id, "Paris")

	// Assert
	assert.ErrorIs(t, err, ErrSessionFinished, "Завершенная сессия не принимает ответы")
	_, _, err = svc.ApplyLifeline(id, entity.LifelineFiftyFifty)
	assert.ErrorIs(t, err, ErrSessionFinished, "Завершенная сессия не принимает подсказки")
}

func TestQuizService_ExitSession(t *testing.T) {
	// Arrange
	source := new(MockQuestionSource)
	source.On("GetQuestions", mock.Anything, 3, "", "").
		Return(sourceQuestions(3), nil)
	svc := newTestQuizService(source, nil)

	id, _, err := svc.StartSession(context.Background(), StartSessionParams{QuestionCount: 3})
	require.NoError(t, err)

	// Act
	err = svc.ExitSession(id)

	// Assert: сессия удалена из реестра, повторный выход - ошибка
	require.NoError(t, err)
	assert.ErrorIs(t, svc.ExitSession(id), ErrSessionNotFound)
	_, err = svc.GetSnapshot(id)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestQuizService_PauseResume(t *testing.T) {
	// Arrange
	source := new(MockQuestionSource)
	source.On("GetQuestions", mock.Anything, 3, "", "").
		Return(sourceQuestions(3), nil)
	svc := NewQuizService(source, nil, nil, nil, &session.Config{
		// Большой интервал тика: пауза проверяется без гонки с таймером
		TickInterval:       time.Hour,
		SubmitSettleDelay:  time.Hour,
		TimeoutSettleDelay: time.Hour,
		SkipSettleDelay:    time.Hour,
	})

	id, _, err := svc.StartSession(context.Background(), StartSessionParams{
		QuestionCount: 3,
		TimeLimitSec:  30,
	})
	require.NoError(t, err)

	// Act / Assert
	paused, err := svc.PauseSession(id)
	require.NoError(t, err)
	assert.True(t, paused)

	snap, err := svc.GetSnapshot(id)
	require.NoError(t, err)
	assert.True(t, snap.Paused)

	resumed, err := svc.ResumeSession(id)
	require.NoError(t, err)
	assert.True(t, resumed)
}
