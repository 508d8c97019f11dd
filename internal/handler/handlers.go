package handler

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"tour_chat/internal/chat"
	"tour_chat/internal/config"
	"tour_chat/internal/service"
	"tour_chat/pkg/logger"
)

type Handlers struct {
	Health    *HealthHandler
	Chat      *ChatHandler
	WebSocket *WebSocketHandler
}

func NewHandlers(services *service.Services, hub *chat.Hub, db *pgxpool.Pool, redis *redis.Client, cfg *config.Config, log logger.Logger) *Handlers {
	return &Handlers{
		Health:    NewHealthHandler(cfg, db, redis),
		Chat:      NewChatHandler(services.Chat, log),
		WebSocket: NewWebSocketHandler(hub, services.RateLimit, cfg.Chat, log),
	}
}
