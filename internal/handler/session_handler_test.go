package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biodun42/ThinkFast/internal/domain/entity"
	"github.com/biodun42/ThinkFast/internal/service"
	"github.com/biodun42/ThinkFast/internal/service/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestGinContext создает *gin.Context для тестов с JSON body
func newTestGinContext(method, path string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()

	var req *http.Request
	if body != nil {
		bodyBytes, _ := json.Marshal(body)
		req, _ = http.NewRequest(method, path, bytes.NewReader(bodyBytes))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, _ = http.NewRequest(method, path, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	return c, w
}

// parseJSONResponse парсит JSON ответ из *httptest.ResponseRecorder
func parseJSONResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err, "Response body should be valid JSON: %s", w.Body.String())
	return resp
}

// fakeQuestionSource отдает фиксированный набор вопросов без сети
type fakeQuestionSource struct {
	questions []entity.Question
}

func (f *fakeQuestionSource) GetCategories(ctx context.Context) (map[string][]string, error) {
	return map[string][]string{"Geography": {"geography"}}, nil
}

func (f *fakeQuestionSource) GetQuestions(ctx context.Context, limit int, category, difficulty string) ([]entity.Question, error) {
	return f.questions, nil
}

func (f *fakeQuestionSource) SearchQuestions(ctx context.Context, query string, limit int, difficulty string) ([]entity.Question, error) {
	return f.questions, nil
}

func fakeQuestions(n int) []entity.Question {
	questions := make([]entity.Question, n)
	for i := range questions {
		questions[i] = entity.Question{
			ID:               "q-" + string(rune('a'+i)),
			Category:         "geography",
			Text:             "Столица Франции?",
			CorrectAnswer:    "Paris",
			IncorrectAnswers: []string{"Rome", "Berlin", "Madrid"},
			Difficulty:       "easy",
		}
	}
	return questions
}

func newTestSessionHandler(n int) *SessionHandler {
	source := &fakeQuestionSource{questions: fakeQuestions(n)}
	svc := service.NewQuizService(source, nil, nil, nil, &session.Config{
		TickInterval:       time.Hour,
		SubmitSettleDelay:  time.Hour,
		TimeoutSettleDelay: time.Hour,
		SkipSettleDelay:    time.Hour,
	})
	return NewSessionHandler(svc)
}

// ============================================================================
// Request validation tests — handler возвращает 400 до вызова сервиса
// ============================================================================

func TestStartSession_ValidationErrors(t *testing.T) {
	handler := &SessionHandler{} // nil service — OK для validation tests

	tests := []struct {
		name string
		body interface{}
	}{
		{
			name: "empty body",
			body: nil,
		},
		{
			name: "negative question count",
			body: map[string]interface{}{"question_count": -1},
		},
		{
			name: "question count above limit",
			body: map[string]interface{}{"question_count": 100},
		},
		{
			name: "time limit above maximum",
			body: map[string]interface{}{"time_limit_sec": 500},
		},
		{
			name: "unknown difficulty",
			body: map[string]interface{}{"difficulty": "extreme"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestGinContext("POST", "/api/sessions", tt.body)
			handler.StartSession(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestSubmitAnswer_MissingAnswer(t *testing.T) {
	handler := &SessionHandler{}

	c, w := newTestGinContext("POST", "/api/sessions/x/answer", map[string]string{})
	c.Set("sessionID", "00000000-0000-0000-0000-000000000000")
	handler.SubmitAnswer(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// ============================================================================
// Flow tests — реальный QuizService с фейковым источником вопросов
// ============================================================================

func TestStartSession_ReturnsSnapshotWithoutCorrectAnswer(t *testing.T) {
	// Arrange
	handler := newTestSessionHandler(3)

	// Act
	c, w := newTestGinContext("POST", "/api/sessions", map[string]interface{}{
		"question_count": 3,
	})
	handler.StartSession(c)

	// Assert
	require.Equal(t, http.StatusCreated, w.Code)
	resp := parseJSONResponse(t, w)
	assert.NotEmpty(t, resp["session_id"], "Ответ должен содержать id сессии")
	assert.Equal(t, "in_progress", resp["status"])

	question, ok := resp["question"].(map[string]interface{})
	require.True(t, ok, "Ответ должен содержать текущий вопрос")
	assert.Len(t, question["answers"], 4)

	// Правильный ответ не должен утекать клиенту ни под каким ключом
	assert.NotContains(t, w.Body.String(), "correct_answer")
	assert.NotContains(t, w.Body.String(), "correctAnswer")
}

func TestSubmitAnswer_Flow(t *testing.T) {
	// Arrange: сессия запускается через handler, ответ уходит туда же
	handler := newTestSessionHandler(3)

	c, w := newTestGinContext("POST", "/api/sessions", map[string]interface{}{"question_count": 3})
	handler.StartSession(c)
	require.Equal(t, http.StatusCreated, w.Code)
	sessionID := parseJSONResponse(t, w)["session_id"].(string)

	// Act
	c, w = newTestGinContext("POST", "/api/sessions/"+sessionID+"/answer", map[string]string{"answer": "Paris"})
	c.Set("sessionID", sessionID)
	handler.SubmitAnswer(c)

	// Assert: после фиксации ответа правильный ответ раскрывается
	require.Equal(t, http.StatusOK, w.Code)
	resp := parseJSONResponse(t, w)
	assert.Equal(t, true, resp["accepted"])
	assert.Equal(t, true, resp["is_correct"])
	assert.Equal(t, "Paris", resp["correct_answer"])
}

func TestSubmitAnswer_UnknownSession(t *testing.T) {
	handler := newTestSessionHandler(3)

	c, w := newTestGinContext("POST", "/api/sessions/x/answer", map[string]string{"answer": "Paris"})
	c.Set("sessionID", "00000000-0000-0000-0000-000000000000")
	handler.SubmitAnswer(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestApplyLifeline_UnknownLifeline(t *testing.T) {
	handler := newTestSessionHandler(3)

	c, w := newTestGinContext("POST", "/api/sessions/x/lifeline", map[string]string{"lifeline": "time_machine"})
	c.Set("sessionID", "00000000-0000-0000-0000-000000000000")
	handler.ApplyLifeline(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExitSession_RemovesSession(t *testing.T) {
	// Arrange
	handler := newTestSessionHandler(3)

	c, w := newTestGinContext("POST", "/api/sessions", map[string]interface{}{"question_count": 3})
	handler.StartSession(c)
	require.Equal(t, http.StatusCreated, w.Code)
	sessionID := parseJSONResponse(t, w)["session_id"].(string)

	// Act
	c, w = newTestGinContext("DELETE", "/api/sessions/"+sessionID, nil)
	c.Set("sessionID", sessionID)
	handler.ExitSession(c)
	require.Equal(t, http.StatusOK, w.Code)

	// Assert: сессии больше нет
	c, w = newTestGinContext("GET", "/api/sessions/"+sessionID, nil)
	c.Set("sessionID", sessionID)
	handler.GetSession(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
