package dto

import (
	"github.com/biodun42/ThinkFast/internal/domain/entity"
	"github.com/biodun42/ThinkFast/internal/service/session"
)

// QuestionResponse представляет вопрос в формате для ответа клиенту.
// Правильный ответ клиенту не отдается: Answers содержит только видимые
// варианты в перемешанном при загрузке порядке, за вычетом скрытых подсказкой.
type QuestionResponse struct {
	ID         string   `json:"id"`
	Category   string   `json:"category"`
	Text       string   `json:"text"`
	Difficulty string   `json:"difficulty"`
	Answers    []string `json:"answers"`
}

// LifelineResponse представляет подсказку в формате для ответа клиенту
type LifelineResponse struct {
	ID          entity.LifelineID `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Used        bool              `json:"used"`
}

// SnapshotResponse представляет срез состояния сессии
type SnapshotResponse struct {
	SessionID       string             `json:"session_id,omitempty"`
	Status          string             `json:"status"`
	QuestionIndex   int                `json:"question_index"`
	QuestionsTotal  int                `json:"questions_total"`
	QuestionsLoaded int                `json:"questions_loaded"`
	Question        *QuestionResponse  `json:"question,omitempty"`
	TimerEnabled    bool               `json:"timer_enabled"`
	TimeLeft        int                `json:"time_left"`
	Paused          bool               `json:"paused"`
	Submitted       bool               `json:"submitted"`
	Lifelines       []LifelineResponse `json:"lifelines"`
	Answered        int                `json:"answered"`
}

// AnswerResponse представляет исход ответа на вопрос
type AnswerResponse struct {
	Accepted       bool    `json:"accepted"`
	IsCorrect      bool    `json:"is_correct,omitempty"`
	CorrectAnswer  string  `json:"correct_answer,omitempty"`
	SelectedAnswer string  `json:"selected_answer,omitempty"`
	TimeSpentSec   float64 `json:"time_spent_sec,omitempty"`
}

// LifelineEffectResponse представляет результат применения подсказки
type LifelineEffectResponse struct {
	Accepted         bool              `json:"accepted"`
	ID               entity.LifelineID `json:"id,omitempty"`
	HiddenAnswers    []string          `json:"hidden_answers,omitempty"`
	Skipped          bool              `json:"skipped,omitempty"`
	ExtraTimeApplied bool              `json:"extra_time_applied,omitempty"`
}

// NewQuestionResponse создает DTO вопроса без правильного ответа
func NewQuestionResponse(q *entity.PreparedQuestion, hidden []string) *QuestionResponse {
	if q == nil {
		return nil
	}
	hiddenSet := make(map[string]bool, len(hidden))
	for _, a := range hidden {
		hiddenSet[a] = true
	}
	return &QuestionResponse{
		ID:         q.ID,
		Category:   q.Category,
		Text:       q.Text,
		Difficulty: q.Difficulty,
		Answers:    q.VisibleAnswers(hiddenSet),
	}
}

// NewSnapshotResponse создает DTO среза состояния сессии
func NewSnapshotResponse(sessionID string, snap session.Snapshot) *SnapshotResponse {
	lifelines := make([]LifelineResponse, len(snap.Lifelines))
	for i, l := range snap.Lifelines {
		lifelines[i] = LifelineResponse{
			ID:          l.ID,
			Name:        l.Name,
			Description: l.Description,
			Used:        l.Used,
		}
	}

	return &SnapshotResponse{
		SessionID:       sessionID,
		Status:          snap.Status,
		QuestionIndex:   snap.QuestionIndex,
		QuestionsTotal:  snap.QuestionsTotal,
		QuestionsLoaded: snap.QuestionsLoaded,
		Question:        NewQuestionResponse(snap.Question, snap.HiddenAnswers),
		TimerEnabled:    snap.TimerEnabled,
		TimeLeft:        snap.TimeLeft,
		Paused:          snap.Paused,
		Submitted:       snap.Submitted,
		Lifelines:       lifelines,
		Answered:        snap.Answered,
	}
}

// NewAnswerResponse создает DTO исхода ответа.
// Правильный ответ раскрывается только после фиксации ответа на вопрос.
func NewAnswerResponse(entry *entity.UserAnswer, accepted bool) *AnswerResponse {
	if !accepted || entry == nil {
		return &AnswerResponse{Accepted: false}
	}
	return &AnswerResponse{
		Accepted:       true,
		IsCorrect:      entry.IsCorrect,
		CorrectAnswer:  entry.CorrectAnswer,
		SelectedAnswer: entry.SelectedAnswer,
		TimeSpentSec:   entry.TimeSpentSec,
	}
}

// NewLifelineEffectResponse создает DTO результата применения подсказки
func NewLifelineEffectResponse(effect session.LifelineEffect, accepted bool) *LifelineEffectResponse {
	if !accepted {
		return &LifelineEffectResponse{Accepted: false}
	}
	return &LifelineEffectResponse{
		Accepted:         true,
		ID:               effect.ID,
		HiddenAnswers:    effect.HiddenAnswers,
		Skipped:          effect.Skipped != nil,
		ExtraTimeApplied: effect.ExtraTimeApplied,
	}
}
