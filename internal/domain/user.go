package domain

import (
	"strings"
	"time"
)

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"fullName"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UserRef - короткая проекция пользователя для отображения в чате
type UserRef struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
}

// Contact - клиент, который хоть раз писал в поддержку
type Contact struct {
	ID            string    `json:"id"`
	FullName      string    `json:"fullName"`
	Email         string    `json:"email"`
	LastMessageAt time.Time `json:"lastMessageAt"`
}

// NormalizeRole приводит роль к каноническому виду ('admin' -> 'ADMIN').
// Старые записи хранят роль в нижнем регистре.
func NormalizeRole(role string) string {
	return strings.ToUpper(strings.TrimSpace(role))
}

func (u *User) IsAdmin() bool {
	return NormalizeRole(u.Role) == RoleAdmin
}

func (u *User) Ref() *UserRef {
	if u == nil {
		return nil
	}
	return &UserRef{ID: u.ID, FullName: u.FullName}
}
