package chat

import "encoding/json"

// Имена событий совпадают с протоколом веб-клиента.
const (
	EventSendMessage    = "sendMessage"
	EventReceiveMessage = "receiveMessage"
	EventError          = "error"
)

// InboundEvent - кадр, пришедший от клиента по вебсокету
type InboundEvent struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// OutboundEvent - кадр, уходящий клиенту
type OutboundEvent struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// SendMessagePayload - полезная нагрузка события sendMessage.
// receiverId отсутствует у первого сообщения клиента - адресата
// подберёт диспетчер.
type SendMessagePayload struct {
	SenderID   string  `json:"senderId"`
	Content    string  `json:"content"`
	ReceiverID *string `json:"receiverId,omitempty"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
