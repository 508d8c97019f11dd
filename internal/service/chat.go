package service

import (
	"context"
	"strings"

	"tour_chat/internal/domain"
	"tour_chat/internal/repository"
	"tour_chat/pkg/errors"
	"tour_chat/pkg/logger"
)

type ChatService interface {
	SendMessage(ctx context.Context, senderID, content string, receiverID *string) (*domain.Message, error)
	MessagesByUser(ctx context.Context, userID string) ([]*domain.Message, error)
	Contacts(ctx context.Context) ([]*domain.Contact, error)
}

type chatService struct {
	messageRepo repository.MessageRepository
	userRepo    repository.UserRepository
	log         logger.Logger
}

func NewChatService(messageRepo repository.MessageRepository, userRepo repository.UserRepository, log logger.Logger) ChatService {
	return &chatService{
		messageRepo: messageRepo,
		userRepo:    userRepo,
		log:         log,
	}
}

// SendMessage сохраняет сообщение. Если получатель не указан (первое
// сообщение клиента), адресатом назначается сотрудник поддержки.
// Когда ни одного админа нет, операция прерывается целиком - ничего
// не сохраняется.
func (s *chatService) SendMessage(ctx context.Context, senderID, content string, receiverID *string) (*domain.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, errors.ErrEmptyContent
	}

	if receiverID == nil || *receiverID == "" {
		admin, err := s.userRepo.FindAdmin(ctx)
		if err != nil {
			s.log.Warn("Admin fallback resolution failed", "error", err, "sender_id", senderID)
			return nil, err
		}
		receiverID = &admin.ID
	}

	message, err := s.messageRepo.Create(ctx, content, senderID, receiverID)
	if err != nil {
		return nil, err
	}

	s.log.Debug("Message persisted",
		"message_id", message.ID, "sender_id", message.SenderID, "kind", message.Kind())

	return message, nil
}

func (s *chatService) MessagesByUser(ctx context.Context, userID string) ([]*domain.Message, error) {
	return s.messageRepo.GetByUser(ctx, userID)
}

func (s *chatService) Contacts(ctx context.Context) ([]*domain.Contact, error) {
	return s.messageRepo.GetContacts(ctx)
}
