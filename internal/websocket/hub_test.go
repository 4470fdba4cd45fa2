package websocket

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biodun42/ThinkFast/internal/domain/entity"
	"github.com/biodun42/ThinkFast/internal/service/session"
)

func newBufferedClient(size int) *Client {
	return &Client{send: make(chan []byte, size)}
}

func receiveEvent(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case data := <-c.send:
		var event Event
		require.NoError(t, json.Unmarshal(data, &event))
		return event
	default:
		t.Fatal("Ожидалось событие в канале клиента")
		return Event{}
	}
}

func TestHub_StreamReusedForSameSession(t *testing.T) {
	// Arrange
	hub := NewHub()

	// Act
	first := hub.stream("session-1")
	second := hub.stream("session-1")
	other := hub.stream("session-2")

	// Assert
	assert.Same(t, first, second, "Повторный запрос должен вернуть тот же поток")
	assert.NotSame(t, first, other)
}

func TestSessionStream_BroadcastTimerTick(t *testing.T) {
	// Arrange
	hub := NewHub()
	stream := hub.stream("session-1")
	client := newBufferedClient(4)
	stream.register(client)

	// Act
	stream.OnTimerTick("session-1", 25)

	// Assert
	event := receiveEvent(t, client)
	assert.Equal(t, EventTimerTick, event.Type)
	payload := event.Data.(map[string]interface{})
	assert.Equal(t, float64(25), payload["remaining"])
}

func TestSessionStream_QuestionAdvancedHidesCorrectAnswer(t *testing.T) {
	// Arrange
	hub := NewHub()
	stream := hub.stream("session-1")
	client := newBufferedClient(4)
	stream.register(client)

	snap := session.Snapshot{
		Status: session.StatusInProgress,
		Question: &entity.PreparedQuestion{
			Question: entity.Question{
				ID:            "q1",
				Text:          "What is the capital of France?",
				CorrectAnswer: "Paris",
			},
			AllAnswers: []string{"Rome", "Paris", "Berlin", "Madrid"},
		},
	}

	// Act
	stream.OnQuestionAdvanced("session-1", snap)

	// Assert: в сыром JSON события нет поля с правильным ответом
	data := <-client.send
	assert.NotContains(t, string(data), "correctAnswer")
	assert.NotContains(t, string(data), "correct_answer")

	var event Event
	require.NoError(t, json.Unmarshal(data, &event))
	assert.Equal(t, EventQuestionAdvanced, event.Type)
}

func TestSessionStream_SlowClientDoesNotBlock(t *testing.T) {
	// Arrange: у клиента буфер на одно событие
	hub := NewHub()
	stream := hub.stream("session-1")
	client := newBufferedClient(1)
	stream.register(client)

	// Act: второе событие должно быть отброшено, а не заблокировать рассылку
	stream.OnTimerTick("session-1", 10)
	stream.OnTimerTick("session-1", 9)

	// Assert
	assert.Len(t, client.send, 1)
	event := receiveEvent(t, client)
	payload := event.Data.(map[string]interface{})
	assert.Equal(t, float64(10), payload["remaining"])
}

func TestHub_CloseStreamDisconnectsClients(t *testing.T) {
	// Arrange
	hub := NewHub()
	stream := hub.stream("session-1")
	client := newBufferedClient(4)
	stream.register(client)

	// Act
	hub.CloseStream("session-1")

	// Assert: канал клиента закрыт, поздние события не паникуют
	_, open := <-client.send
	assert.False(t, open, "Канал клиента должен быть закрыт")
	assert.NotPanics(t, func() {
		stream.OnTimerTick("session-1", 5)
	})
}

func TestSessionStream_RegisterAfterClose(t *testing.T) {
	// Arrange
	hub := NewHub()
	stream := hub.stream("session-1")
	hub.CloseStream("session-1")

	// Act
	client := newBufferedClient(4)
	stream.register(client)

	// Assert: опоздавший клиент сразу отключается
	_, open := <-client.send
	assert.False(t, open)
}

func TestSessionStream_NotifyFeedback(t *testing.T) {
	// Arrange
	hub := NewHub()
	stream := hub.stream("session-1")
	client := newBufferedClient(4)
	stream.register(client)

	// Act
	stream.Notify(session.FeedbackSuccess)

	// Assert
	event := receiveEvent(t, client)
	assert.Equal(t, EventFeedback, event.Type)
	payload := event.Data.(map[string]interface{})
	assert.Equal(t, "success", payload["kind"])
}
