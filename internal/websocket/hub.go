package websocket

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/biodun42/ThinkFast/internal/domain/entity"
	"github.com/biodun42/ThinkFast/internal/handler/dto"
	"github.com/biodun42/ThinkFast/internal/service"
	"github.com/biodun42/ThinkFast/internal/service/session"
)

// Hub хранит потоки событий активных сессий: id сессии → SessionStream.
// Поток создается при запуске сессии и живет, пока сессия не закрыта.
type Hub struct {
	mu      sync.RWMutex
	streams map[string]*SessionStream
}

// NewHub создает новый хаб потоков событий
func NewHub() *Hub {
	return &Hub{
		streams: make(map[string]*SessionStream),
	}
}

// Stream возвращает поток событий сессии, создавая его при необходимости.
// Реализует service.StreamProvider.
func (h *Hub) Stream(sessionID string) service.EventStream {
	return h.stream(sessionID)
}

func (h *Hub) stream(sessionID string) *SessionStream {
	h.mu.Lock()
	defer h.mu.Unlock()

	if s, ok := h.streams[sessionID]; ok {
		return s
	}
	s := newSessionStream(sessionID)
	h.streams[sessionID] = s
	return s
}

// Subscribe подключает WebSocket-клиента к потоку событий сессии
func (h *Hub) Subscribe(sessionID string, client *Client) {
	h.stream(sessionID).register(client)
}

// CloseStream закрывает поток событий сессии и отключает всех подписчиков.
// Вызывается при выходе из сессии.
func (h *Hub) CloseStream(sessionID string) {
	h.mu.Lock()
	s, ok := h.streams[sessionID]
	delete(h.streams, sessionID)
	h.mu.Unlock()

	if ok {
		s.close()
	}
}

// SessionStream рассылает события одной сессии всем ее подписчикам.
// Реализует session.EventSink и session.Notifier: события приходят из
// Runner и контроллера, уходят в send-каналы клиентов.
type SessionStream struct {
	sessionID string

	mu      sync.Mutex
	clients map[*Client]bool
	closed  bool
}

func newSessionStream(sessionID string) *SessionStream {
	return &SessionStream{
		sessionID: sessionID,
		clients:   make(map[*Client]bool),
	}
}

// OnTimerTick реализует session.EventSink
func (s *SessionStream) OnTimerTick(sessionID string, remaining int) {
	s.broadcast(Event{
		Type: EventTimerTick,
		Data: TimerTickPayload{SessionID: sessionID, Remaining: remaining},
	})
}

// OnQuestionAdvanced реализует session.EventSink.
// В payload уходит срез состояния без правильного ответа.
func (s *SessionStream) OnQuestionAdvanced(sessionID string, snap session.Snapshot) {
	s.broadcast(Event{
		Type: EventQuestionAdvanced,
		Data: dto.NewSnapshotResponse(sessionID, snap),
	})
}

// OnSessionFinished реализует session.EventSink
func (s *SessionStream) OnSessionFinished(sessionID string, result entity.QuizResult) {
	s.broadcast(Event{
		Type: EventSessionFinished,
		Data: dto.NewResultResponse(&result),
	})
}

// Notify реализует session.Notifier: тактильный отклик доставляется клиенту
// тем же каналом, что и события таймера
func (s *SessionStream) Notify(kind session.FeedbackKind) {
	s.broadcast(Event{
		Type: EventFeedback,
		Data: FeedbackPayload{SessionID: s.sessionID, Kind: string(kind)},
	})
}

// broadcast сериализует событие и раскладывает его по send-каналам клиентов.
// Медленный клиент с полным буфером пропускает событие: рассылка никогда
// не блокирует таймеры сессии.
func (s *SessionStream) broadcast(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("[WebSocket] Ошибка сериализации события %s: %v", event.Type, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	for client := range s.clients {
		select {
		case client.send <- data:
		default:
			log.Printf("[WebSocket] Буфер клиента сессии %s переполнен, событие %s пропущено",
				s.sessionID, event.Type)
		}
	}
}

// register добавляет подписчика. Клиент, пришедший в закрытый поток,
// немедленно отключается.
func (s *SessionStream) register(client *Client) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		client.closeSend()
		return
	}
	s.clients[client] = true
	s.mu.Unlock()

	client.stream = s
	log.Printf("[WebSocket] Клиент подключен к сессии %s", s.sessionID)
}

// unregister удаляет подписчика при разрыве соединения
func (s *SessionStream) unregister(client *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.clients[client]; ok {
		delete(s.clients, client)
		client.closeSend()
	}
}

// close отключает всех подписчиков потока
func (s *SessionStream) close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	for client := range s.clients {
		client.closeSend()
	}
	s.clients = make(map[*Client]bool)
	log.Printf("[WebSocket] Поток событий сессии %s закрыт", s.sessionID)
}
