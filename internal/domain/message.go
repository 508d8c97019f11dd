package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	MessageKindText  = "text"
	MessageKindImage = "image"
)

// Картинки приходят от клиента как data-URL прямо в content.
// Отдельного поля типа в схеме нет: текст, начинающийся с этого префикса,
// будет принят за картинку.
const imageContentPrefix = "data:image"

// Message - единица переписки. После сохранения не изменяется:
// ни редактирования, ни удаления в этой подсистеме нет.
type Message struct {
	ID         uuid.UUID `json:"id"`
	Content    string    `json:"content"`
	SenderID   string    `json:"senderId"`
	ReceiverID *string   `json:"receiverId"`
	CreatedAt  time.Time `json:"createdAt"`

	Sender   *UserRef `json:"sender,omitempty"`
	Receiver *UserRef `json:"receiver,omitempty"`
}

func (m *Message) Kind() string {
	if strings.HasPrefix(m.Content, imageContentPrefix) {
		return MessageKindImage
	}
	return MessageKindText
}
