package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"

	"github.com/biodun42/ThinkFast/internal/service"
	"github.com/biodun42/ThinkFast/internal/websocket"
)

// WSHandler обрабатывает WebSocket-подписки на события сессии
type WSHandler struct {
	hub         *websocket.Hub
	quizService *service.QuizService
}

// NewWSHandler создает новый обработчик WebSocket
func NewWSHandler(hub *websocket.Hub, quizService *service.QuizService) *WSHandler {
	return &WSHandler{
		hub:         hub,
		quizService: quizService,
	}
}

var upgrader = gorillaws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Пустой Origin - не браузерный клиент (мобильное приложение, curl).
		// Разрешаем такие подключения.
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}

		// Список разрешенных origin (синхронизирован с CORS в main.go)
		allowedOrigins := []string{
			"http://localhost:5173",
			"http://localhost:8000",
			"http://localhost:3000",
		}
		for _, allowed := range allowedOrigins {
			if origin == allowed {
				return true
			}
		}

		log.Printf("[WSHandler] Отклонен неразрешенный origin: %s", origin)
		return false
	},
}

// HandleConnection подключает клиента к потоку событий сессии
// GET /api/sessions/:id/ws
func (h *WSHandler) HandleConnection(c *gin.Context) {
	sessionID := c.MustGet("sessionID").(string)

	// Сессия должна существовать до апгрейда соединения
	if _, err := h.quizService.GetSnapshot(sessionID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[WSHandler] Ошибка апгрейда соединения: %v", err)
		return
	}

	client := websocket.NewClient(conn)
	h.hub.Subscribe(sessionID, client)
	client.Run()
}
