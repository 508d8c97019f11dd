package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"tour_chat/internal/domain"
	"tour_chat/pkg/logger"
)

type stubChatService struct {
	contacts []*domain.Contact
	messages []*domain.Message
}

func (s *stubChatService) SendMessage(context.Context, string, string, *string) (*domain.Message, error) {
	return nil, nil
}

func (s *stubChatService) MessagesByUser(context.Context, string) ([]*domain.Message, error) {
	return s.messages, nil
}

func (s *stubChatService) Contacts(context.Context) ([]*domain.Contact, error) {
	return s.contacts, nil
}

func newChatRouter(svc *stubChatService, userID, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	chatHandler := NewChatHandler(svc, logger.New("error"))

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("user_role", role)
	})
	router.GET("/chat/contacts", chatHandler.GetContacts)
	router.GET("/chat/messages/:userId", chatHandler.GetMessages)
	return router
}

func Test_Contacts_Requires_Admin(t *testing.T) {
	req := require.New(t)
	router := newChatRouter(&stubChatService{}, "u1", domain.RoleUser)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/chat/contacts", nil))

	req.Equal(http.StatusForbidden, w.Code)
}

func Test_Contacts_Response_Shape_And_Order(t *testing.T) {
	req := require.New(t)
	svc := &stubChatService{contacts: []*domain.Contact{
		{ID: "u2", FullName: "Customer Two", Email: "u2@example.com", LastMessageAt: time.Now()},
		{ID: "u1", FullName: "Customer One", Email: "u1@example.com", LastMessageAt: time.Now().Add(-time.Hour)},
	}}
	router := newChatRouter(svc, "admin-1", domain.RoleAdmin)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/chat/contacts", nil))

	req.Equal(http.StatusOK, w.Code)

	var contacts []ContactResponse
	req.NoError(json.Unmarshal(w.Body.Bytes(), &contacts))
	req.Len(contacts, 2)
	req.Equal("u2", contacts[0].ID)
	req.Equal("u1", contacts[1].ID)
	req.Equal("u2@example.com", contacts[0].Email)
}

func Test_Messages_Visible_To_Admin(t *testing.T) {
	req := require.New(t)
	receiver := "admin-1"
	svc := &stubChatService{messages: []*domain.Message{
		{ID: uuid.New(), Content: "Hello", SenderID: "u1", ReceiverID: &receiver, CreatedAt: time.Now()},
	}}
	router := newChatRouter(svc, "admin-1", domain.RoleAdmin)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/chat/messages/u1", nil))

	req.Equal(http.StatusOK, w.Code)

	var messages []*domain.Message
	req.NoError(json.Unmarshal(w.Body.Bytes(), &messages))
	req.Len(messages, 1)
	req.Equal("Hello", messages[0].Content)
}

func Test_Messages_Visible_To_Own_User(t *testing.T) {
	req := require.New(t)
	router := newChatRouter(&stubChatService{}, "u1", domain.RoleUser)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/chat/messages/u1", nil))

	req.Equal(http.StatusOK, w.Code)
	req.Equal("[]", w.Body.String())
}

func Test_Messages_Of_Another_User_Forbidden(t *testing.T) {
	req := require.New(t)
	router := newChatRouter(&stubChatService{}, "u1", domain.RoleUser)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/chat/messages/u2", nil))

	req.Equal(http.StatusForbidden, w.Code)
}
