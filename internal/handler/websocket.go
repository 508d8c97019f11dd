package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"tour_chat/internal/chat"
	"tour_chat/internal/config"
	"tour_chat/internal/service"
	"tour_chat/pkg/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true // В продакшене нужно проверять origin
	},
}

type WebSocketHandler struct {
	hub              *chat.Hub
	rateLimitService service.RateLimitService
	cfg              config.ChatConfig
	log              logger.Logger
}

func NewWebSocketHandler(hub *chat.Hub, rateLimitService service.RateLimitService, cfg config.ChatConfig, log logger.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		hub:              hub,
		rateLimitService: rateLimitService,
		cfg:              cfg,
		log:              log,
	}
}

// HandleChat держит одно клиентское соединение от upgrade до разрыва.
// Личность уже проверена auth-middleware.
func (h *WebSocketHandler) HandleChat(c *gin.Context) {
	userID := c.GetString("user_id")
	role := c.GetString("user_role")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error("Failed to upgrade connection", "error", err, "user_id", userID)
		return
	}

	client := chat.NewClient(conn, userID, role, h.cfg, h.log)
	ctx := c.Request.Context()

	_ = h.hub.Handle(ctx, chat.ConnectCommand{Conn: client, UserID: userID, Role: role})
	h.log.Info("Chat connection opened", "user_id", userID, "role", role)

	go client.WritePump()
	client.ReadPump(ctx, h.hub, h.allowSend(userID))

	// Разрыв: снимаем с учёта и закрываем исходящий буфер
	_ = h.hub.Handle(context.Background(), chat.DisconnectCommand{Conn: client})
	client.Close()
	h.log.Info("Chat connection closed", "user_id", userID)
}

// Троттлинг отправок по отправителю. При недоступном Redis пропускаем:
// лимит здесь защита от флуда, а не контракт.
func (h *WebSocketHandler) allowSend(userID string) func(ctx context.Context) bool {
	key := "send:" + userID
	return func(ctx context.Context) bool {
		allowed, err := h.rateLimitService.CheckLimit(ctx, key, h.cfg.SendLimitPerMinute, 60)
		if err != nil {
			return true
		}
		if !allowed {
			return false
		}
		if _, err := h.rateLimitService.Increment(ctx, key, 60); err != nil {
			h.log.Warn("Send rate limit increment failed", "error", err, "user_id", userID)
		}
		return true
	}
}
