package session

import (
	"errors"
	"time"
)

// Статусы сессии
const (
	StatusInProgress = "in_progress"
	StatusPaused     = "paused"
	StatusFinished   = "finished"
	StatusAbandoned  = "abandoned"
)

// Ошибки запуска сессии
var (
	// ErrInsufficientQuestions означает, что источник не вернул ни одного вопроса.
	// Недобор (меньше запрошенного, но больше нуля) ошибкой не является.
	ErrInsufficientQuestions = errors.New("no questions available to start session")
)

// Config содержит настройки таймингов сессии.
// Задержки между показом результата ответа и переходом к следующему вопросу
// принадлежат оболочке, а не контроллеру: контроллер лишь гарантирует, что
// Advance — отдельный шаг.
type Config struct {
	// TickInterval — период тика таймера вопроса
	TickInterval time.Duration

	// SubmitSettleDelay — пауза после ответа пользователя перед переходом
	SubmitSettleDelay time.Duration

	// TimeoutSettleDelay — пауза после истечения времени перед переходом
	TimeoutSettleDelay time.Duration

	// SkipSettleDelay — пауза после пропуска вопроса перед переходом
	SkipSettleDelay time.Duration
}

// DefaultConfig возвращает конфигурацию по умолчанию.
// Значения задержек соответствуют поведению мобильного клиента.
func DefaultConfig() *Config {
	return &Config{
		TickInterval:       time.Second,
		SubmitSettleDelay:  1500 * time.Millisecond,
		TimeoutSettleDelay: 1000 * time.Millisecond,
		SkipSettleDelay:    500 * time.Millisecond,
	}
}

// FeedbackKind — вид тактильного отклика
type FeedbackKind string

const (
	FeedbackSuccess FeedbackKind = "success"
	FeedbackError   FeedbackKind = "error"
	FeedbackLight   FeedbackKind = "light"
)

// Notifier — внешний коллаборатор тактильного отклика.
// Вызов fire-and-forget: результат контроллером не используется.
type Notifier interface {
	Notify(kind FeedbackKind)
}

// NopNotifier — заглушка, игнорирующая уведомления
type NopNotifier struct{}

func (NopNotifier) Notify(FeedbackKind) {}

// Dependencies содержит зависимости контроллера сессии
type Dependencies struct {
	// Feedback получает уведомления об успехе/ошибке ответа
	Feedback Notifier

	// Now — источник времени. Контроллер не владеет реальными часами:
	// все тики и задержки приходят извне.
	Now func() time.Time
}

func (d *Dependencies) normalize() {
	if d.Feedback == nil {
		d.Feedback = NopNotifier{}
	}
	if d.Now == nil {
		d.Now = time.Now
	}
}
