package chat

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"tour_chat/internal/config"
	"tour_chat/pkg/logger"
)

// Client связывает вебсокет-соединение с проверенной личностью
// (userId, role) на время жизни сессии. Никуда не сохраняется.
type Client struct {
	UserID string
	Role   string

	conn *websocket.Conn
	send chan []byte
	cfg  config.ChatConfig
	log  logger.Logger

	mu     sync.Mutex
	closed bool
}

func NewClient(conn *websocket.Conn, userID, role string, cfg config.ChatConfig, log logger.Logger) *Client {
	return &Client{
		UserID: userID,
		Role:   role,
		conn:   conn,
		send:   make(chan []byte, cfg.SendBufferSize),
		cfg:    cfg,
		log:    log,
	}
}

// Deliver кладёт кадр в буфер соединения, не блокируясь. Переполненный
// буфер означает зависшее соединение - кадр отбрасывается. После Close
// доставка тоже просто возвращает false: рассылка может идти из чужой
// горутины параллельно с отключением, и писать в закрытый канал нельзя.
func (c *Client) Deliver(data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

// ReadPump читает входящие кадры и передаёт их хабу. Возвращается при
// разрыве соединения; снятие с учёта делает вызывающий.
func (c *Client) ReadPump(ctx context.Context, hub *Hub, allowSend func(ctx context.Context) bool) {
	c.conn.SetReadLimit(c.cfg.MaxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Warn("Unexpected connection close", "error", err, "user_id", c.UserID)
			}
			return
		}

		var event InboundEvent
		if err := json.Unmarshal(raw, &event); err != nil {
			c.deliverError("malformed frame")
			continue
		}

		switch event.Event {
		case EventSendMessage:
			c.handleSend(ctx, hub, event.Data, allowSend)
		default:
			c.deliverError("unknown event: " + event.Event)
		}
	}
}

func (c *Client) handleSend(ctx context.Context, hub *Hub, data json.RawMessage, allowSend func(ctx context.Context) bool) {
	var payload SendMessagePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		c.deliverError("malformed sendMessage payload")
		return
	}

	// Отправителем всегда считается проверенная личность соединения,
	// что бы ни было в кадре.
	if payload.SenderID != "" && payload.SenderID != c.UserID {
		c.log.Warn("Frame sender differs from session identity",
			"frame_sender", payload.SenderID, "user_id", c.UserID)
	}

	if allowSend != nil && !allowSend(ctx) {
		c.deliverError("rate limit exceeded")
		return
	}

	cmd := SendCommand{
		SenderID:   c.UserID,
		Content:    payload.Content,
		ReceiverID: payload.ReceiverID,
	}
	if err := hub.Handle(ctx, cmd); err != nil {
		c.deliverError(err.Error())
	}
}

func (c *Client) deliverError(message string) {
	data, err := json.Marshal(OutboundEvent{Event: EventError, Data: ErrorPayload{Message: message}})
	if err != nil {
		return
	}
	c.Deliver(data)
}

// WritePump сериализует записи в сокет и держит соединение живым
// пингами. Единственное место, где пишется в conn.
func (c *Client) WritePump() {
	pingPeriod := c.cfg.PongWait * 9 / 10
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
