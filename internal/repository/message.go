package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"tour_chat/internal/domain"
	"tour_chat/pkg/errors"
	"tour_chat/pkg/logger"
)

type MessageRepository interface {
	Create(ctx context.Context, content, senderID string, receiverID *string) (*domain.Message, error)
	GetByUser(ctx context.Context, userID string) ([]*domain.Message, error)
	GetContacts(ctx context.Context) ([]*domain.Contact, error)
}

type messageRepository struct {
	db  *pgxpool.Pool
	log logger.Logger
}

func NewMessageRepository(db *pgxpool.Pool, log logger.Logger) MessageRepository {
	return &messageRepository{db: db, log: log}
}

func (r *messageRepository) Create(ctx context.Context, content, senderID string, receiverID *string) (*domain.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, errors.ErrEmptyContent
	}

	id := uuid.New()
	query := `
		INSERT INTO messages (id, content, sender_id, receiver_id, created_at)
		VALUES ($1, $2, $3, $4, now())
	`

	if _, err := r.db.Exec(ctx, query, id, content, senderID, receiverID); err != nil {
		r.log.Error("Failed to create message", "error", err, "sender_id", senderID)
		return nil, err
	}

	// Перечитываем с join на users, чтобы сразу отдать имена участников
	return r.getByID(ctx, id)
}

func (r *messageRepository) getByID(ctx context.Context, id uuid.UUID) (*domain.Message, error) {
	query := `
		SELECT m.id, m.content, m.sender_id, m.receiver_id, m.created_at,
		       s.full_name, rc.full_name
		FROM messages m
		JOIN users s ON s.id = m.sender_id
		LEFT JOIN users rc ON rc.id = m.receiver_id
		WHERE m.id = $1
	`

	message, err := scanMessage(r.db.QueryRow(ctx, query, id))
	if err != nil {
		r.log.Error("Failed to load message", "error", err, "message_id", id)
		return nil, err
	}
	return message, nil
}

func (r *messageRepository) GetByUser(ctx context.Context, userID string) ([]*domain.Message, error) {
	query := `
		SELECT m.id, m.content, m.sender_id, m.receiver_id, m.created_at,
		       s.full_name, rc.full_name
		FROM messages m
		JOIN users s ON s.id = m.sender_id
		LEFT JOIN users rc ON rc.id = m.receiver_id
		WHERE m.sender_id = $1 OR m.receiver_id = $1
		ORDER BY m.created_at ASC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.log.Error("Failed to get messages", "error", err, "user_id", userID)
		return nil, err
	}
	defer rows.Close()

	var messages []*domain.Message
	for rows.Next() {
		message, err := scanMessage(rows)
		if err != nil {
			r.log.Error("Failed to scan message", "error", err)
			return nil, err
		}
		messages = append(messages, message)
	}

	return messages, rows.Err()
}

// GetContacts возвращает клиентов, которые писали в поддержку,
// от самых свежих к старым. При равном времени последнего сообщения
// порядок фиксируется вторичной сортировкой по id пользователя.
func (r *messageRepository) GetContacts(ctx context.Context) ([]*domain.Contact, error) {
	query := `
		SELECT u.id, u.full_name, u.email, MAX(m.created_at) AS last_message_at
		FROM messages m
		JOIN users u ON u.id = m.sender_id
		WHERE UPPER(u.role) = $1
		GROUP BY u.id, u.full_name, u.email
		ORDER BY last_message_at DESC, u.id ASC
	`

	rows, err := r.db.Query(ctx, query, domain.RoleUser)
	if err != nil {
		r.log.Error("Failed to get contacts", "error", err)
		return nil, err
	}
	defer rows.Close()

	var contacts []*domain.Contact
	for rows.Next() {
		contact := &domain.Contact{}
		if err := rows.Scan(&contact.ID, &contact.FullName, &contact.Email, &contact.LastMessageAt); err != nil {
			r.log.Error("Failed to scan contact", "error", err)
			return nil, err
		}
		contacts = append(contacts, contact)
	}

	return contacts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMessage(row rowScanner) (*domain.Message, error) {
	message := &domain.Message{}
	var senderName string
	var receiverID, receiverName sql.NullString

	err := row.Scan(
		&message.ID, &message.Content, &message.SenderID, &receiverID,
		&message.CreatedAt, &senderName, &receiverName,
	)
	if err != nil {
		return nil, err
	}

	message.Sender = &domain.UserRef{ID: message.SenderID, FullName: senderName}
	if receiverID.Valid {
		message.ReceiverID = &receiverID.String
		message.Receiver = &domain.UserRef{ID: receiverID.String, FullName: receiverName.String}
	}

	return message, nil
}
