package entity

// Question представляет вопрос викторины, полученный из внешнего источника.
// После загрузки вопрос неизменяем.
type Question struct {
	ID               string   `json:"id"`
	Category         string   `json:"category"`
	Text             string   `json:"question"`
	CorrectAnswer    string   `json:"correctAnswer"`
	IncorrectAnswers []string `json:"incorrectAnswers"`
	Type             string   `json:"type"`
	Difficulty       string   `json:"difficulty"`
	Tags             []string `json:"tags"`
}

// IsCorrectAnswer проверяет, совпадает ли ответ с правильным.
// Сравнение строгое, по точному равенству строк.
func (q *Question) IsCorrectAnswer(answer string) bool {
	return answer == q.CorrectAnswer
}

// AnswerCount возвращает общее количество вариантов ответа
func (q *Question) AnswerCount() int {
	return 1 + len(q.IncorrectAnswers)
}

// PreparedQuestion представляет вопрос с единожды перемешанными вариантами ответа.
// AllAnswers — перестановка правильного и неправильных ответов, вычисляется один раз
// при загрузке вопроса в сессию и больше не меняется.
type PreparedQuestion struct {
	Question
	AllAnswers []string `json:"allAnswers"`
}

// VisibleAnswers возвращает варианты ответа за вычетом скрытых подсказкой 50/50
func (p *PreparedQuestion) VisibleAnswers(hidden map[string]bool) []string {
	if len(hidden) == 0 {
		return p.AllAnswers
	}
	visible := make([]string, 0, len(p.AllAnswers))
	for _, a := range p.AllAnswers {
		if !hidden[a] {
			visible = append(visible, a)
		}
	}
	return visible
}
