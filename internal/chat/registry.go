package chat

import (
	"sync"

	"tour_chat/internal/domain"
	"tour_chat/pkg/logger"
)

type roomKey string

// Общая комната поддержки: в ней состоят все подключения админов.
// Ключ фиксированный, состав меняется только внутри реестра.
const adminRoomKey roomKey = "support:admins"

func privateRoomKey(userID string) roomKey {
	return roomKey("user:" + userID)
}

// Conn - живое соединение (одна вкладка или устройство).
// Deliver не блокируется: false означает, что буфер соединения
// переполнен и кадр отброшен.
type Conn interface {
	Deliver(data []byte) bool
}

// Registry держит состав комнат: ключ комнаты -> множество живых
// соединений. Комнаты существуют только в памяти процесса и
// собираются заново при каждом подключении.
type Registry struct {
	log logger.Logger

	mu      sync.RWMutex
	rooms   map[roomKey]map[Conn]struct{}
	members map[Conn][]roomKey
}

func NewRegistry(log logger.Logger) *Registry {
	return &Registry{
		log:     log,
		rooms:   make(map[roomKey]map[Conn]struct{}),
		members: make(map[Conn][]roomKey),
	}
}

// Join добавляет соединение в личную комнату пользователя и, для
// админов, в общую комнату поддержки. Дедупликации нет: N вкладок
// одного пользователя дают N членств в одной комнате.
func (r *Registry) Join(conn Conn, userID, role string) {
	keys := []roomKey{privateRoomKey(userID)}
	if domain.NormalizeRole(role) == domain.RoleAdmin {
		keys = append(keys, adminRoomKey)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, key := range keys {
		room, ok := r.rooms[key]
		if !ok {
			room = make(map[Conn]struct{})
			r.rooms[key] = room
		}
		room[conn] = struct{}{}
	}
	r.members[conn] = keys

	r.log.Debug("Connection joined", "user_id", userID, "role", role, "rooms", len(keys))
}

// Leave убирает соединение из всех его комнат. Повторный вызов для
// уже убранного соединения - no-op.
func (r *Registry) Leave(conn Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	keys, ok := r.members[conn]
	if !ok {
		return
	}
	delete(r.members, conn)

	for _, key := range keys {
		room, ok := r.rooms[key]
		if !ok {
			continue
		}
		delete(room, conn)
		if len(room) == 0 {
			delete(r.rooms, key)
		}
	}
}

// Broadcast доставляет кадр каждому соединению из объединения
// указанных комнат, по одному разу на соединение. Доставка
// fire-and-forget: отвалившиеся соединения молча пропускаются,
// durability обеспечивает хранилище, а не транспорт.
func (r *Registry) Broadcast(data []byte, keys ...roomKey) {
	targets := make(map[Conn]struct{})

	r.mu.RLock()
	for _, key := range keys {
		for conn := range r.rooms[key] {
			targets[conn] = struct{}{}
		}
	}
	r.mu.RUnlock()

	for conn := range targets {
		if !conn.Deliver(data) {
			r.log.Warn("Dropped frame for slow connection")
		}
	}
}

func (r *Registry) roomSize(key roomKey) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms[key])
}
