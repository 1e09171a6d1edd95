package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"quizroom-service/internal/app"
)

// RoomRegistry is a Redis-aware implementation of app.RoomRegistry.
// Notes:
//   - Room state itself stays in a local in-memory map; the state machine is
//     single-process and rooms die with the host connection anyway.
//   - Redis only marks room liveness under a TTL, so sidecar tooling can see
//     which join codes are active (and the codes stay reserved across the TTL).
type RoomRegistry struct {
	client *redis.Client
	ttl    time.Duration
	mu     sync.RWMutex
	rooms  map[string]*app.Room
}

func NewRoomRegistry(client *redis.Client, ttl time.Duration) *RoomRegistry {
	return &RoomRegistry{
		client: client,
		ttl:    ttl,
		rooms:  make(map[string]*app.Room),
	}
}

func (r *RoomRegistry) Put(room *app.Room) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rooms[room.ID()] = room
	// best-effort liveness marker
	_ = r.client.Set(context.Background(), r.key(room.ID()), "1", r.ttl).Err()
}

func (r *RoomRegistry) Get(roomID string) (*app.Room, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	room, ok := r.rooms[roomID]
	return room, ok
}

func (r *RoomRegistry) Delete(roomID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rooms, roomID)
	_ = r.client.Del(context.Background(), r.key(roomID)).Err()
}

func (r *RoomRegistry) key(roomID string) string {
	return "room:live:" + roomID
}
