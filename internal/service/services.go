package service

import (
	"tour_chat/internal/config"
	"tour_chat/internal/repository"
	"tour_chat/pkg/logger"
)

type Services struct {
	Chat      ChatService
	RateLimit RateLimitService
}

func NewServices(repos *repository.Repositories, cfg *config.Config, log logger.Logger) *Services {
	return &Services{
		Chat:      NewChatService(repos.Message, repos.User, log),
		RateLimit: NewRateLimitService(repos.RateLimit, log),
	}
}
