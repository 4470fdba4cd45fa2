package session

import (
	"math/rand"
	"sync"
	"time"

	"github.com/biodun42/ThinkFast/internal/domain/entity"
)

// Preparer превращает сырые вопросы в форму для показа: единожды перемешанный
// порядок вариантов ответа, неизменный до конца жизни вопроса.
type Preparer struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewPreparer создает подготовщик вопросов с собственным источником случайности
func NewPreparer() *Preparer {
	return NewPreparerWithSource(rand.NewSource(time.Now().UnixNano()))
}

// NewPreparerWithSource создает подготовщик с заданным источником (для тестов)
func NewPreparerWithSource(src rand.Source) *Preparer {
	return &Preparer{rnd: rand.New(src)}
}

// Prepare строит PreparedQuestion: AllAnswers — равновероятная случайная
// перестановка правильного и неправильных ответов. Состав всегда одинаков,
// порядок — нет. Результат после создания не изменяется.
func (p *Preparer) Prepare(q entity.Question) entity.PreparedQuestion {
	all := make([]string, 0, q.AnswerCount())
	all = append(all, q.CorrectAnswer)
	all = append(all, q.IncorrectAnswers...)
	p.shuffle(all)
	return entity.PreparedQuestion{Question: q, AllAnswers: all}
}

// PrepareAll подготавливает весь список вопросов при загрузке в сессию
func (p *Preparer) PrepareAll(questions []entity.Question) []entity.PreparedQuestion {
	prepared := make([]entity.PreparedQuestion, len(questions))
	for i, q := range questions {
		prepared[i] = p.Prepare(q)
	}
	return prepared
}

// shuffle выполняет тасование Фишера-Йетса: для i от конца к 1 выбирается
// равномерно случайный j из [0, i], элементы i и j меняются местами.
func (p *Preparer) shuffle(items []string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := len(items) - 1; i > 0; i-- {
		j := p.rnd.Intn(i + 1)
		items[i], items[j] = items[j], items[i]
	}
}
