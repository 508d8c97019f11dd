package repository

import (
	"context"
	stderrors "errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"tour_chat/internal/domain"
	"tour_chat/pkg/errors"
	"tour_chat/pkg/logger"
)

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	FindAdmin(ctx context.Context) (*domain.User, error)
}

type userRepository struct {
	db  *pgxpool.Pool
	log logger.Logger
}

func NewUserRepository(db *pgxpool.Pool, log logger.Logger) UserRepository {
	return &userRepository{db: db, log: log}
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `
		SELECT id, email, full_name, role, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	user := &domain.User{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&user.ID, &user.Email, &user.FullName, &user.Role,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return nil, errors.ErrUserNotFound
		}
		r.log.Error("Failed to get user", "error", err, "user_id", id)
		return nil, err
	}

	return user, nil
}

// FindAdmin возвращает одного сотрудника поддержки. Сначала ищем
// каноническую роль 'ADMIN', затем пробуем старые записи в нижнем
// регистре. Какой именно админ вернётся при нескольких - не оговорено.
func (r *userRepository) FindAdmin(ctx context.Context) (*domain.User, error) {
	admin, err := r.findByRole(ctx, domain.RoleAdmin)
	if err == nil {
		return admin, nil
	}
	if !stderrors.Is(err, pgx.ErrNoRows) {
		r.log.Error("Failed to find admin", "error", err)
		return nil, err
	}

	admin, err = r.findByRole(ctx, "admin")
	if err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return nil, errors.ErrNoAdminAvailable
		}
		r.log.Error("Failed to find admin", "error", err)
		return nil, err
	}

	return admin, nil
}

func (r *userRepository) findByRole(ctx context.Context, role string) (*domain.User, error) {
	query := `
		SELECT id, email, full_name, role, created_at, updated_at
		FROM users
		WHERE role = $1
		ORDER BY created_at ASC
		LIMIT 1
	`

	user := &domain.User{}
	err := r.db.QueryRow(ctx, query, role).Scan(
		&user.ID, &user.Email, &user.FullName, &user.Role,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return user, nil
}
