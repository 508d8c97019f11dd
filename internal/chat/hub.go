package chat

import (
	"context"
	"encoding/json"
	"fmt"

	"tour_chat/internal/service"
	"tour_chat/pkg/logger"
)

// Hub - единая точка входа для событий чата: подключений, отключений
// и отправок. Каждое событие обрабатывается в горутине вызывающего,
// общий только реестр комнат.
type Hub struct {
	registry *Registry
	chat     service.ChatService
	log      logger.Logger
}

func NewHub(registry *Registry, chatService service.ChatService, log logger.Logger) *Hub {
	return &Hub{
		registry: registry,
		chat:     chatService,
		log:      log,
	}
}

func (h *Hub) Handle(ctx context.Context, cmd Command) error {
	switch c := cmd.(type) {
	case ConnectCommand:
		h.registry.Join(c.Conn, c.UserID, c.Role)
		return nil
	case DisconnectCommand:
		h.registry.Leave(c.Conn)
		return nil
	case SendCommand:
		return h.send(ctx, c)
	default:
		return fmt.Errorf("unknown command %T", cmd)
	}
}

// send: сохранить, затем разослать. Рассылка начинается строго после
// успешного сохранения, поэтому внутри одного диалога порядок доставки
// совпадает с порядком записи. Если сохранение не удалось, не уходит
// ничего - в том числе эхо отправителю, по отсутствию которого клиент
// понимает, что сообщение не прошло.
func (h *Hub) send(ctx context.Context, cmd SendCommand) error {
	message, err := h.chat.SendMessage(ctx, cmd.SenderID, cmd.Content, cmd.ReceiverID)
	if err != nil {
		return err
	}

	data, err := json.Marshal(OutboundEvent{Event: EventReceiveMessage, Data: message})
	if err != nil {
		h.log.Error("Failed to marshal message", "error", err, "message_id", message.ID)
		return err
	}

	// Эхо в комнату отправителя держит его вторые вкладки в курсе.
	rooms := []roomKey{privateRoomKey(message.SenderID)}
	if message.ReceiverID != nil && *message.ReceiverID != message.SenderID {
		// Общую комнату оповещаем только о чужих сообщениях, чтобы
		// остальные админы видели новые обращения.
		rooms = append(rooms, privateRoomKey(*message.ReceiverID), adminRoomKey)
	}

	h.registry.Broadcast(data, rooms...)
	return nil
}
