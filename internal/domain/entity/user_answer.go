package entity

// Сентинельные значения для SelectedAnswer
const (
	// AnswerTimeout записывается в лог, когда время на вопрос истекло
	AnswerTimeout = ""

	// AnswerSkipped записывается в лог при использовании подсказки "пропустить"
	AnswerSkipped = "SKIPPED"
)

// UserAnswer представляет запись в журнале ответов сессии.
// Журнал append-only: записи не изменяются после добавления.
// Текст вопроса и правильный ответ денормализованы для экрана разбора результатов.
type UserAnswer struct {
	QuestionID     string  `json:"question_id"`
	SelectedAnswer string  `json:"selected_answer"`
	IsCorrect      bool    `json:"is_correct"`
	TimeSpentSec   float64 `json:"time_spent_sec"`
	QuestionText   string  `json:"question_text"`
	CorrectAnswer  string  `json:"correct_answer"`
}

// IsTimeout проверяет, была ли запись создана по истечении времени
func (a *UserAnswer) IsTimeout() bool {
	return a.SelectedAnswer == AnswerTimeout
}

// IsSkipped проверяет, был ли вопрос пропущен подсказкой
func (a *UserAnswer) IsSkipped() bool {
	return a.SelectedAnswer == AnswerSkipped
}
