package chat

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"tour_chat/internal/domain"
	"tour_chat/pkg/errors"
	"tour_chat/pkg/logger"
)

// fakeChatService резолвит получателя и "сохраняет" в памяти
type fakeChatService struct {
	adminID string
	saved   []*domain.Message
	err     error
}

func (f *fakeChatService) SendMessage(_ context.Context, senderID, content string, receiverID *string) (*domain.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	if receiverID == nil || *receiverID == "" {
		if f.adminID == "" {
			return nil, errors.ErrNoAdminAvailable
		}
		receiverID = &f.adminID
	}
	message := &domain.Message{
		ID:         uuid.New(),
		Content:    content,
		SenderID:   senderID,
		ReceiverID: receiverID,
		CreatedAt:  time.Now(),
		Sender:     &domain.UserRef{ID: senderID, FullName: senderID},
		Receiver:   &domain.UserRef{ID: *receiverID, FullName: *receiverID},
	}
	f.saved = append(f.saved, message)
	return message, nil
}

func (f *fakeChatService) MessagesByUser(context.Context, string) ([]*domain.Message, error) {
	return nil, nil
}

func (f *fakeChatService) Contacts(context.Context) ([]*domain.Contact, error) {
	return nil, nil
}

func decodeEvent(t *testing.T, frame []byte) (string, domain.Message) {
	t.Helper()
	var event struct {
		Event string         `json:"event"`
		Data  domain.Message `json:"data"`
	}
	require.NoError(t, json.Unmarshal(frame, &event))
	return event.Event, event.Data
}

func newTestHub(svc *fakeChatService) (*Hub, *Registry) {
	log := logger.New("error")
	registry := NewRegistry(log)
	return NewHub(registry, svc, log), registry
}

func Test_Send_Without_Receiver_Resolves_Admin(t *testing.T) {
	req := require.New(t)
	svc := &fakeChatService{adminID: "admin-1"}
	hub, registry := newTestHub(svc)

	sender := &fakeConn{}
	registry.Join(sender, "u1", "USER")

	err := hub.Handle(context.Background(), SendCommand{SenderID: "u1", Content: "Hello"})
	req.NoError(err)

	req.Len(svc.saved, 1)
	req.Equal("admin-1", *svc.saved[0].ReceiverID)
}

func Test_Send_Fans_Out_To_Sender_Receiver_And_Admin_Rooms(t *testing.T) {
	req := require.New(t)
	svc := &fakeChatService{adminID: "admin-1"}
	hub, registry := newTestHub(svc)

	senderTab1 := &fakeConn{}
	senderTab2 := &fakeConn{}
	adminConn := &fakeConn{}
	otherAdmin := &fakeConn{}
	registry.Join(senderTab1, "u1", "USER")
	registry.Join(senderTab2, "u1", "USER")
	registry.Join(adminConn, "admin-1", "ADMIN")
	registry.Join(otherAdmin, "admin-2", "ADMIN")

	err := hub.Handle(context.Background(), SendCommand{SenderID: "u1", Content: "Hello"})
	req.NoError(err)

	// Эхо в обе вкладки отправителя
	req.Equal(1, senderTab1.count())
	req.Equal(1, senderTab2.count())
	// Адресат получает ровно один кадр, хотя состоит в двух комнатах
	req.Equal(1, adminConn.count())
	// Второй админ видит обращение через общую комнату
	req.Equal(1, otherAdmin.count())

	event, data := decodeEvent(t, senderTab1.frames[0])
	req.Equal(EventReceiveMessage, event)
	req.Equal("Hello", data.Content)
	req.Equal("u1", data.SenderID)
	req.Equal("admin-1", *data.ReceiverID)
}

func Test_Admin_Reply_Also_Notifies_Shared_Room(t *testing.T) {
	req := require.New(t)
	svc := &fakeChatService{adminID: "admin-1"}
	hub, registry := newTestHub(svc)

	user := &fakeConn{}
	replying := &fakeConn{}
	otherAdmin := &fakeConn{}
	registry.Join(user, "u1", "USER")
	registry.Join(replying, "admin-1", "ADMIN")
	registry.Join(otherAdmin, "admin-2", "ADMIN")

	receiver := "u1"
	err := hub.Handle(context.Background(), SendCommand{SenderID: "admin-1", Content: "How can I help?", ReceiverID: &receiver})
	req.NoError(err)

	req.Equal(1, user.count())
	req.Equal(1, replying.count())
	// admin-1 не является получателем, значит кадр уходит и в общую комнату
	req.Equal(1, otherAdmin.count())
}

func Test_Admin_Message_To_Self_Stays_In_Private_Room(t *testing.T) {
	req := require.New(t)
	svc := &fakeChatService{adminID: "admin-1"}
	hub, registry := newTestHub(svc)

	self := &fakeConn{}
	otherAdmin := &fakeConn{}
	registry.Join(self, "admin-1", "ADMIN")
	registry.Join(otherAdmin, "admin-2", "ADMIN")

	receiver := "admin-1"
	err := hub.Handle(context.Background(), SendCommand{SenderID: "admin-1", Content: "note to self", ReceiverID: &receiver})
	req.NoError(err)

	req.Equal(1, self.count())
	req.Equal(0, otherAdmin.count())
}

func Test_Send_Without_Admin_Broadcasts_Nothing(t *testing.T) {
	req := require.New(t)
	svc := &fakeChatService{} // ни одного админа
	hub, registry := newTestHub(svc)

	sender := &fakeConn{}
	registry.Join(sender, "u1", "USER")

	err := hub.Handle(context.Background(), SendCommand{SenderID: "u1", Content: "Hello"})
	req.ErrorIs(err, errors.ErrNoAdminAvailable)

	// Ничего не сохранено и ничего не доставлено - даже эхо
	req.Empty(svc.saved)
	req.Equal(0, sender.count())
}

func Test_Connect_And_Disconnect_Commands(t *testing.T) {
	req := require.New(t)
	svc := &fakeChatService{adminID: "admin-1"}
	hub, registry := newTestHub(svc)

	conn := &fakeConn{}
	req.NoError(hub.Handle(context.Background(), ConnectCommand{Conn: conn, UserID: "u1", Role: "USER"}))
	req.Equal(1, registry.roomSize(privateRoomKey("u1")))

	req.NoError(hub.Handle(context.Background(), DisconnectCommand{Conn: conn}))
	req.Equal(0, registry.roomSize(privateRoomKey("u1")))
}

func Test_Broadcast_To_Empty_Rooms_Still_Persists(t *testing.T) {
	req := require.New(t)
	svc := &fakeChatService{adminID: "admin-1"}
	hub, _ := newTestHub(svc)

	// Никто не подключён - сообщение всё равно должно сохраниться
	err := hub.Handle(context.Background(), SendCommand{SenderID: "u1", Content: "anyone there?"})
	req.NoError(err)
	req.Len(svc.saved, 1)
}
