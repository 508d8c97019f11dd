package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"tour_chat/internal/domain"
	"tour_chat/internal/service"
	"tour_chat/pkg/errors"
	"tour_chat/pkg/logger"
)

// ChatHandler - read-side чата для админской панели: список
// обращений и история переписки с конкретным клиентом.
type ChatHandler struct {
	chatService service.ChatService
	log         logger.Logger
}

func NewChatHandler(chatService service.ChatService, log logger.Logger) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		log:         log,
	}
}

type ContactResponse struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

func (h *ChatHandler) GetContacts(c *gin.Context) {
	if c.GetString("user_role") != domain.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": errors.ErrForbidden.Error()})
		return
	}

	contacts, err := h.chatService.Contacts(c.Request.Context())
	if err != nil {
		c.JSON(errors.HTTPStatusFromError(err), gin.H{"error": err.Error()})
		return
	}

	response := lo.Map(contacts, func(contact *domain.Contact, _ int) ContactResponse {
		return ContactResponse{
			ID:       contact.ID,
			FullName: contact.FullName,
			Email:    contact.Email,
		}
	})

	c.JSON(http.StatusOK, response)
}

func (h *ChatHandler) GetMessages(c *gin.Context) {
	userID := c.Param("userId")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user ID is required"})
		return
	}

	// Историю видит админ либо сам участник диалога
	if c.GetString("user_role") != domain.RoleAdmin && c.GetString("user_id") != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": errors.ErrForbidden.Error()})
		return
	}

	messages, err := h.chatService.MessagesByUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(errors.HTTPStatusFromError(err), gin.H{"error": err.Error()})
		return
	}

	if messages == nil {
		messages = []*domain.Message{}
	}
	c.JSON(http.StatusOK, messages)
}
