package memory

import (
	"sync"

	"quizroom-service/internal/app"
)

// RoomRegistry is an in-memory implementation of app.RoomRegistry.
type RoomRegistry struct {
	mu    sync.RWMutex
	rooms map[string]*app.Room
}

func NewRoomRegistry() *RoomRegistry {
	return &RoomRegistry{
		rooms: make(map[string]*app.Room),
	}
}

func (r *RoomRegistry) Put(room *app.Room) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rooms[room.ID()] = room
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
}

// Len reports the number of live rooms.
func (r *RoomRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}
