package session

import (
	"sync"
	"time"

	"github.com/biodun42/ThinkFast/internal/domain/entity"
)

// StartConfig — конфигурация сессии, зафиксированная на экране настройки квиза
type StartConfig struct {
	// QuestionCount — запрошенное количество вопросов. Итог считается от него,
	// даже если источник вернул меньше.
	QuestionCount int

	// TimeLimitSec — лимит времени на вопрос в секундах. 0 — таймер выключен.
	TimeLimitSec int

	Category   string
	Difficulty string
}

// LifelineEffect описывает результат применения подсказки
type LifelineEffect struct {
	ID entity.LifelineID

	// HiddenAnswers — ответы, скрытые подсказкой 50/50 (только текущий вопрос)
	HiddenAnswers []string

	// Skipped — запись журнала, созданная подсказкой "пропустить"
	Skipped *entity.UserAnswer

	// ExtraTimeApplied — true, если к таймеру добавлено время
	ExtraTimeApplied bool
}

// Controller владеет состоянием активной сессии и выполняет все переходы
// машины состояний. Все обращения сериализуются мьютексом: HTTP-обработчик,
// секундный тик и таймер паузы перед переходом гоняются за одним состоянием.
//
// Вызовы вне допустимого под-состояния (двойной ответ, подсказка после ответа,
// тик после завершения) молча поглощаются и никогда не паникуют: так гонка
// между колбэком таймера и нажатием пользователя не может испортить состояние.
type Controller struct {
	mu   sync.Mutex
	cfg  StartConfig
	deps Dependencies

	questions []entity.PreparedQuestion
	index     int
	answers   []entity.UserAnswer
	lifelines []entity.Lifeline
	hidden    map[string]bool

	timeLeft      int
	paused        bool
	submitted     bool
	questionStart time.Time

	status string
	result *entity.QuizResult
}

// NewController создает контроллер для подготовленного списка вопросов.
// Возвращает ErrInsufficientQuestions, если источник не вернул ни одного
// вопроса. Недобор относительно запрошенного количества ошибкой не является:
// сессия идет по фактически доступным вопросам.
func NewController(questions []entity.PreparedQuestion, cfg StartConfig, deps Dependencies) (*Controller, error) {
	if len(questions) == 0 {
		return nil, ErrInsufficientQuestions
	}
	deps.normalize()

	c := &Controller{
		cfg:           cfg,
		deps:          deps,
		questions:     questions,
		answers:       make([]entity.UserAnswer, 0, len(questions)),
		lifelines:     entity.DefaultLifelines(),
		hidden:        make(map[string]bool),
		questionStart: deps.Now(),
		status:        StatusInProgress,
	}
	if c.hasTimer() {
		c.timeLeft = cfg.TimeLimitSec
	}
	return c, nil
}

// SubmitAnswer фиксирует ответ пользователя на текущий вопрос.
// Правильность — точное равенство строк с правильным ответом вопроса.
// Возвращает accepted=false (без записи в журнал), если ответ на текущий
// вопрос уже дан или сессия не активна.
func (c *Controller) SubmitAnswer(answer string) (*entity.UserAnswer, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.awaitingAnswer() {
		return nil, false
	}

	q := &c.questions[c.index]
	entry := c.appendAnswer(answer, q.IsCorrectAnswer(answer))
	if entry.IsCorrect {
		c.deps.Feedback.Notify(FeedbackSuccess)
	} else {
		c.deps.Feedback.Notify(FeedbackError)
	}
	return entry, true
}

// TimeExpire фиксирует истечение времени на текущий вопрос: в журнал
// добавляется запись с пустым ответом, всегда неправильная. No-op, если
// ответ уже дан или таймер выключен.
func (c *Controller) TimeExpire() (*entity.UserAnswer, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.expireLocked()
}

// expireLocked — общий путь истечения времени для TimeExpire и Tick.
// Вызывается строго под мьютексом.
func (c *Controller) expireLocked() (*entity.UserAnswer, bool) {
	if !c.awaitingAnswer() || !c.hasTimer() {
		return nil, false
	}
	entry := c.appendAnswer(entity.AnswerTimeout, false)
	c.deps.Feedback.Notify(FeedbackError)
	return entry, true
}

// ApplyLifeline применяет подсказку. Флаг использования переключается только
// один раз: повторное применение, как и применение после ответа, — no-op.
func (c *Controller) ApplyLifeline(id entity.LifelineID) (LifelineEffect, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.awaitingAnswer() {
		return LifelineEffect{}, false
	}

	lifeline := c.findLifeline(id)
	if lifeline == nil || lifeline.Used {
		return LifelineEffect{}, false
	}
	lifeline.Used = true
	c.deps.Feedback.Notify(FeedbackLight)

	effect := LifelineEffect{ID: id}
	q := &c.questions[c.index]

	switch id {
	case entity.LifelineFiftyFifty:
		// Скрываем первые два неправильных ответа в порядке показа.
		// Порядок показа уже случаен, правильный ответ не скрывается никогда.
		for _, a := range q.AllAnswers {
			if len(effect.HiddenAnswers) == 2 {
				break
			}
			if a != q.CorrectAnswer && !c.hidden[a] {
				c.hidden[a] = true
				effect.HiddenAnswers = append(effect.HiddenAnswers, a)
			}
		}

	case entity.LifelineSkip:
		effect.Skipped = c.appendAnswer(entity.AnswerSkipped, false)

	case entity.LifelineExtraTime:
		if c.hasTimer() {
			c.timeLeft += entity.ExtraTimeBonusSec
			effect.ExtraTimeApplied = true
		}
	}

	return effect, true
}

// Tick обрабатывает один секундный тик внешнего таймера.
// Возвращает оставшееся время, признак того, что именно этот тик исчерпал
// таймер (истечение срабатывает ровно один раз), и признак того, что тик
// вообще был применен.
func (c *Controller) Tick() (remaining int, expired bool, ticked bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.awaitingAnswer() || !c.hasTimer() {
		return c.timeLeft, false, false
	}

	c.timeLeft--
	if c.timeLeft <= 0 {
		c.timeLeft = 0
		// После записи истечения submitted=true, повторные тики поглощаются
		c.expireLocked()
		return 0, true, true
	}
	return c.timeLeft, false, true
}

// Pause приостанавливает сессию. Пауза — спутник таймера: при выключенном
// таймере вызов — no-op.
func (c *Controller) Pause() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.status != StatusInProgress || !c.hasTimer() || c.paused {
		return false
	}
	c.paused = true
	return true
}

// Resume снимает паузу
func (c *Controller) Resume() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.status != StatusInProgress || !c.paused {
		return false
	}
	c.paused = false
	return true
}

// Advance переходит к следующему вопросу либо завершает сессию, если текущий
// вопрос был последним. Вызывается оболочкой после паузы показа результата.
// No-op, пока на текущий вопрос не дан ответ.
func (c *Controller) Advance() (advanced bool, finished bool, result *entity.QuizResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.status != StatusInProgress || !c.submitted || c.paused {
		return false, false, nil
	}
	advanced, finished, result = c.advanceLocked()
	return advanced, finished, result
}

// TryAdvance — как Advance, но отличает отказ из-за паузы от прочих причин:
// deferred=true означает, что ответ дан и переход готов, но сессия стоит на
// паузе. Решение принимается под мьютексом контроллера одним шагом, поэтому
// Pause, вклинившийся между планированием и срабатыванием таймера перехода,
// виден вызывающему и переход можно отложить, а не потерять.
func (c *Controller) TryAdvance() (advanced bool, finished bool, result *entity.QuizResult, deferred bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.status != StatusInProgress || !c.submitted {
		return false, false, nil, false
	}
	if c.paused {
		return false, false, nil, true
	}
	advanced, finished, result = c.advanceLocked()
	return advanced, finished, result, false
}

// advanceLocked выполняет сам переход. Вызывается строго под мьютексом,
// когда все охранные проверки уже пройдены.
func (c *Controller) advanceLocked() (advanced bool, finished bool, result *entity.QuizResult) {
	if c.index >= len(c.questions)-1 {
		c.status = StatusFinished
		r := Summarize(c.answers, c.cfg.QuestionCount, c.cfg.Category, c.cfg.Difficulty, c.deps.Now())
		c.result = &r
		return true, true, c.result
	}

	c.index++
	c.submitted = false
	c.hidden = make(map[string]bool)
	c.questionStart = c.deps.Now()
	if c.hasTimer() {
		// Лимит сбрасывается до полного: бонус extra_time прошлого вопроса не переносится
		c.timeLeft = c.cfg.TimeLimitSec
	}
	return true, false, nil
}

// Exit деактивирует контроллер: пользователь покинул сессию. Все последующие
// вызовы, включая опоздавшие колбэки таймеров, молча отбрасываются.
func (c *Controller) Exit() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.status == StatusInProgress {
		c.status = StatusAbandoned
	}
}

// Result возвращает итоговый результат, если сессия завершена
func (c *Controller) Result() (*entity.QuizResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.result == nil {
		return nil, false
	}
	return c.result, true
}

// Answers возвращает копию журнала ответов
func (c *Controller) Answers() []entity.UserAnswer {
	c.mu.Lock()
	defer c.mu.Unlock()
	answers := make([]entity.UserAnswer, len(c.answers))
	copy(answers, c.answers)
	return answers
}

// Status возвращает текущий статус сессии
func (c *Controller) Status() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.paused {
		return StatusPaused
	}
	return c.status
}

// IsPaused сообщает, стоит ли сессия на паузе
func (c *Controller) IsPaused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paused
}

// HasTimer сообщает, включен ли таймер в конфигурации сессии
func (c *Controller) HasTimer() bool {
	return c.cfg.TimeLimitSec > 0
}

// Config возвращает конфигурацию, с которой была запущена сессия
func (c *Controller) Config() StartConfig {
	return c.cfg
}

// --- внутренние помощники (вызываются под мьютексом) ---

// awaitingAnswer: сессия активна, не на паузе, ответ на текущий вопрос не дан
func (c *Controller) awaitingAnswer() bool {
	return c.status == StatusInProgress && !c.paused && !c.submitted
}

func (c *Controller) hasTimer() bool {
	return c.cfg.TimeLimitSec > 0
}

func (c *Controller) findLifeline(id entity.LifelineID) *entity.Lifeline {
	for i := range c.lifelines {
		if c.lifelines[i].ID == id {
			return &c.lifelines[i]
		}
	}
	return nil
}

// appendAnswer добавляет запись в журнал и переводит вопрос в под-состояние
// "ответ дан". Время ответа — разница настенных часов между показом вопроса
// и фиксацией ответа.
func (c *Controller) appendAnswer(selected string, isCorrect bool) *entity.UserAnswer {
	q := &c.questions[c.index]
	entry := entity.UserAnswer{
		QuestionID:     q.ID,
		SelectedAnswer: selected,
		IsCorrect:      isCorrect,
		TimeSpentSec:   c.deps.Now().Sub(c.questionStart).Seconds(),
		QuestionText:   q.Text,
		CorrectAnswer:  q.CorrectAnswer,
	}
	c.answers = append(c.answers, entry)
	c.submitted = true
	return &c.answers[len(c.answers)-1]
}
