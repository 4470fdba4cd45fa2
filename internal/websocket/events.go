package websocket

// Типы событий, отправляемых клиенту по WebSocket
const (
	// EventTimerTick — секундный тик таймера вопроса
	EventTimerTick = "session:timer_tick"

	// EventQuestionAdvanced — переход к следующему вопросу
	EventQuestionAdvanced = "session:question_advanced"

	// EventSessionFinished — сессия завершена, в payload итоговый результат
	EventSessionFinished = "session:finished"

	// EventFeedback — тактильный отклик на действие пользователя
	EventFeedback = "session:feedback"
)

// Event — конверт сообщения, отправляемого клиенту
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// TimerTickPayload — payload события EventTimerTick
type TimerTickPayload struct {
	SessionID string `json:"session_id"`
	Remaining int    `json:"remaining"`
}

// FeedbackPayload — payload события EventFeedback
type FeedbackPayload struct {
	SessionID string `json:"session_id"`
	Kind      string `json:"kind"`
}
