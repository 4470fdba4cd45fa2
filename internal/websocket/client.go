package websocket

import (
	"log"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Время, которое разрешено писать сообщение клиенту
	writeWait = 10 * time.Second

	// Время, которое разрешено клиенту читать следующее сообщение.
	// 30 секунд для быстрого обнаружения отключений
	pongWait = 30 * time.Second

	// Периодичность отправки ping-сообщений клиенту
	pingPeriod = (pongWait * 9) / 10

	// Максимальный размер входящего сообщения
	maxMessageSize = 512

	// Размер буфера канала отправки сообщений клиенту
	clientBufferSize = 64
)

// Client является посредником между WebSocket-соединением и потоком
// событий сессии. Входящие сообщения не обрабатываются: канал событий
// однонаправленный, readPump нужен только для pong и обнаружения разрыва.
type Client struct {
	conn   *websocket.Conn
	stream *SessionStream

	// Буферизованный канал для исходящих сообщений
	send chan []byte

	// Флаг, указывающий что канал send закрыт (для предотвращения panic)
	sendClosed atomic.Bool
}

// NewClient создает клиента для принятого WebSocket-соединения
func NewClient(conn *websocket.Conn) *Client {
	return &Client{
		conn: conn,
		send: make(chan []byte, clientBufferSize),
	}
}

// Run запускает насосы чтения и записи. Блокируется до разрыва соединения.
func (c *Client) Run() {
	go c.writePump()
	c.readPump()
}

// closeSend закрывает канал отправки ровно один раз
func (c *Client) closeSend() {
	if c.sendClosed.CompareAndSwap(false, true) {
		close(c.send)
	}
}

// readPump читает из соединения до разрыва. Содержимое входящих сообщений
// игнорируется, но чтение необходимо для обработки pong и close-фреймов.
func (c *Client) readPump() {
	defer func() {
		if c.stream != nil {
			c.stream.unregister(c)
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[WebSocket] Неожиданный разрыв соединения: %v", err)
			}
			return
		}
	}
}

// writePump пишет события из канала send в соединение и поддерживает его
// ping-сообщениями
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Поток событий закрыл канал
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
