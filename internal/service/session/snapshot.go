package session

import (
	"github.com/biodun42/ThinkFast/internal/domain/entity"
)

// Snapshot — согласованный срез состояния сессии для отдачи клиенту.
// Снимается одним захватом мьютекса, чтобы номер вопроса, таймер и
// подсказки не разъезжались между собой.
type Snapshot struct {
	Status          string
	QuestionIndex   int
	QuestionsTotal  int // запрошенное количество, знаменатель процента
	QuestionsLoaded int // фактически доступное количество

	Question      *entity.PreparedQuestion
	HiddenAnswers []string

	TimerEnabled bool
	TimeLeft     int
	Paused       bool
	Submitted    bool

	Lifelines []entity.Lifeline
	Answered  int
}

// Snapshot возвращает срез текущего состояния
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		Status:          c.status,
		QuestionIndex:   c.index,
		QuestionsTotal:  c.cfg.QuestionCount,
		QuestionsLoaded: len(c.questions),
		TimerEnabled:    c.hasTimer(),
		TimeLeft:        c.timeLeft,
		Paused:          c.paused,
		Submitted:       c.submitted,
		Answered:        len(c.answers),
	}
	if c.paused {
		snap.Status = StatusPaused
	}

	if c.status == StatusInProgress {
		q := c.questions[c.index]
		snap.Question = &q
		for _, a := range q.AllAnswers {
			if c.hidden[a] {
				snap.HiddenAnswers = append(snap.HiddenAnswers, a)
			}
		}
	}

	snap.Lifelines = make([]entity.Lifeline, len(c.lifelines))
	copy(snap.Lifelines, c.lifelines)
	return snap
}
