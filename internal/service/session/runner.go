package session

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/biodun42/ThinkFast/internal/domain/entity"
)

// EventSink получает события жизненного цикла сессии.
// Реализуется транспортным слоем (WebSocket-хаб), который доставляет их клиенту.
type EventSink interface {
	OnTimerTick(sessionID string, remaining int)
	OnQuestionAdvanced(sessionID string, snap Snapshot)
	OnSessionFinished(sessionID string, result entity.QuizResult)
}

// NopSink — заглушка для сессий без подписчика событий
type NopSink struct{}

func (NopSink) OnTimerTick(string, int)                     {}
func (NopSink) OnQuestionAdvanced(string, Snapshot)         {}
func (NopSink) OnSessionFinished(string, entity.QuizResult) {}

// Runner владеет реальными часами сессии: секундным тикером вопроса и
// таймерами паузы перед переходом. Контроллер часов не имеет — Runner
// вызывает его Tick и Advance и полагается на его идемпотентные охранные
// проверки: опоздавший или задублированный колбэк таймера поглощается
// под-состоянием, а не явной отменой таймера.
type Runner struct {
	id     string
	ctrl   *Controller
	config *Config
	sink   EventSink

	// onFinish вызывается один раз при завершении сессии (сохранение результата)
	onFinish func(result entity.QuizResult)

	ctx    context.Context
	cancel context.CancelFunc

	mu             sync.Mutex
	pendingAdvance bool
}

// NewRunner создает Runner для запущенного контроллера
func NewRunner(id string, ctrl *Controller, config *Config, sink EventSink, onFinish func(entity.QuizResult)) *Runner {
	if config == nil {
		config = DefaultConfig()
	}
	if sink == nil {
		sink = NopSink{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Runner{
		id:       id,
		ctrl:     ctrl,
		config:   config,
		sink:     sink,
		onFinish: onFinish,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Controller возвращает контроллер сессии
func (r *Runner) Controller() *Controller {
	return r.ctrl
}

// Start запускает секундный тикер, если таймер включен
func (r *Runner) Start() {
	if !r.ctrl.HasTimer() {
		return
	}
	go r.tickLoop()
}

// tickLoop раз в секунду продвигает таймер вопроса.
// Тикер не останавливается на паузе и после ответа: охранные проверки
// контроллера сами поглощают неприменимые тики.
func (r *Runner) tickLoop() {
	ticker := time.NewTicker(r.config.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			remaining, expired, ticked := r.ctrl.Tick()
			if ticked {
				r.sink.OnTimerTick(r.id, remaining)
			}
			if expired {
				log.Printf("[SessionRunner] Сессия %s: время на вопрос истекло", r.id)
				r.scheduleAdvance(r.config.TimeoutSettleDelay)
			}
		case <-r.ctx.Done():
			return
		}
	}
}

// Submit передает ответ контроллеру и, если ответ принят, планирует переход
// к следующему вопросу после паузы показа результата.
func (r *Runner) Submit(answer string) (*entity.UserAnswer, bool) {
	entry, accepted := r.ctrl.SubmitAnswer(answer)
	if accepted {
		r.scheduleAdvance(r.config.SubmitSettleDelay)
	}
	return entry, accepted
}

// ApplyLifeline применяет подсказку. Пропуск вопроса планирует переход
// с короткой паузой.
func (r *Runner) ApplyLifeline(id entity.LifelineID) (LifelineEffect, bool) {
	effect, accepted := r.ctrl.ApplyLifeline(id)
	if accepted && effect.Skipped != nil {
		r.scheduleAdvance(r.config.SkipSettleDelay)
	}
	return effect, accepted
}

// Pause ставит сессию на паузу
func (r *Runner) Pause() bool {
	return r.ctrl.Pause()
}

// Resume снимает паузу. Переход, отложенный на время паузы, выполняется
// сразу. Флаг отложенного перехода поглощается под r.mu даже когда сама
// пауза была снята конкурентным вызовом: ранний выход без проверки флага
// оставил бы переход висеть навсегда.
func (r *Runner) Resume() bool {
	resumed := r.ctrl.Resume()

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pendingAdvance && !r.ctrl.IsPaused() {
		r.pendingAdvance = false
		r.runAdvance()
	}
	return resumed
}

// Exit останавливает все таймеры и деактивирует сессию.
// Ни одно событие после выхода состояние не изменит.
func (r *Runner) Exit() {
	r.ctrl.Exit()
	r.cancel()
	log.Printf("[SessionRunner] Сессия %s остановлена", r.id)
}

// Snapshot возвращает срез текущего состояния
func (r *Runner) Snapshot() Snapshot {
	return r.ctrl.Snapshot()
}

// Done возвращает канал, закрываемый при остановке сессии
func (r *Runner) Done() <-chan struct{} {
	return r.ctx.Done()
}

// scheduleAdvance планирует Advance после паузы показа результата
func (r *Runner) scheduleAdvance(delay time.Duration) {
	time.AfterFunc(delay, r.fireAdvance)
}

// fireAdvance выполняет отложенный переход. После выхода колбэк
// отбрасывается; решение «переход или пауза» принимается под r.mu — тем же
// мьютексом, под которым Resume поглощает отложенный переход, так что
// гонка Pause/Resume с колбэком таймера не может потерять переход.
func (r *Runner) fireAdvance() {
	if r.ctx.Err() != nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.runAdvance()
}

// runAdvance вызывается строго под r.mu. Отказ контроллера из-за паузы
// фиксируется в pendingAdvance: даже если пауза уже снята, идущий Resume
// еще не дошел до своей проверки флага и обязан его поглотить.
func (r *Runner) runAdvance() {
	advanced, finished, result, deferred := r.ctrl.TryAdvance()
	if deferred {
		r.pendingAdvance = true
		return
	}
	if !advanced {
		return
	}

	if finished {
		log.Printf("[SessionRunner] Сессия %s завершена: %d/%d (%d%%)",
			r.id, result.Score, result.TotalQuestions, result.Percentage)
		r.cancel()
		r.sink.OnSessionFinished(r.id, *result)
		if r.onFinish != nil {
			r.onFinish(*result)
		}
		return
	}

	r.sink.OnQuestionAdvanced(r.id, r.ctrl.Snapshot())
}
