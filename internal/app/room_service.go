package app

import (
	"context"
	"log"
	"math/rand"
	"sync"
	"time"

	"quizroom-service/internal/domain"
)

// RoomRegistry owns the process-wide room table (in-memory, Redis-marked, etc).
type RoomRegistry interface {
	Put(room *Room)
	Get(roomID string) (*Room, bool)
	Delete(roomID string)
}

// QuestionSource produces up to count questions matching the filters, each with
// an id outside excludeIDs. It degrades to a short or empty result, never an error.
type QuestionSource interface {
	Fetch(ctx context.Context, filters domain.Filters, count int, excludeIDs map[string]struct{}) []domain.Question
}

// CatalogDescriber reports what the question bank can offer.
type CatalogDescriber interface {
	Describe(ctx context.Context) (domain.Catalog, error)
}

// RoomService contains the room lifecycle use cases. Every transition returns
// the outbound events it produced; guard failures return no events.
type RoomService struct {
	rooms   RoomRegistry
	source  QuestionSource
	catalog CatalogDescriber
	baseURL string
	now     func() time.Time
	mu      sync.Mutex // guards rnd
	rnd     *rand.Rand
}

func NewRoomService(rooms RoomRegistry, source QuestionSource, catalog CatalogDescriber, baseURL string) *RoomService {
	return &RoomService{
		rooms:   rooms,
		source:  source,
		catalog: catalog,
		baseURL: baseURL,
		now:     time.Now,
		rnd:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// WithClock is test-only for deterministic timestamps.
func (s *RoomService) WithClock(now func() time.Time) *RoomService {
	s.now = now
	return s
}

// WithRand is test-only for deterministic room codes.
func (s *RoomService) WithRand(rnd *rand.Rand) *RoomService {
	s.rnd = rnd
	return s
}

// CreateParams configures a new room.
type CreateParams struct {
	HostName    string
	TotalRounds int // UnlimitedRounds for no fixed target
	Filters     domain.Filters
	PlayAsHost  bool
}

// Catalog returns the question bank metadata for the requesting connection.
func (s *RoomService) Catalog(ctx context.Context, connID string) []Event {
	catalog, err := s.catalog.Describe(ctx)
	if err != nil {
		log.Printf("catalog describe failed: %v", err)
		return []Event{errorEvent(connID, "question catalog unavailable")}
	}
	return []Event{{To: []string{connID}, Type: EventCatalog, Payload: catalog}}
}

// CreateRoom selects the question queue and registers a new waiting room.
// It fails only when the source yields zero questions.
func (s *RoomService) CreateRoom(ctx context.Context, connID string, params CreateParams) ([]Event, error) {
	count := params.TotalRounds
	if count == UnlimitedRounds {
		count = initialUnlimitedBatch
	}

	questions := s.source.Fetch(ctx, params.Filters, count, nil)
	if len(questions) == 0 {
		return []Event{errorEvent(connID, domain.ErrNoQuestions.Error())}, domain.ErrNoQuestions
	}

	room := newRoom(s.newRoomCode(), connID, params.HostName, questions, params.TotalRounds, params.Filters, s.now)
	if params.PlayAsHost {
		room.players[connID] = domain.Player{ID: connID, Name: params.HostName}
	}
	s.rooms.Put(room)

	payload := RoomCreatedPayload{
		RoomID:      room.id,
		TotalRounds: params.TotalRounds,
		HostName:    params.HostName,
	}
	if s.baseURL != "" {
		payload.JoinURL = s.baseURL + "/?room=" + room.id
	}
	return []Event{{To: []string{connID}, Type: EventRoomCreated, Payload: payload}}, nil
}

// JoinRoom registers a player. Unknown room ids are reported to the caller;
// everyone else in the room learns about the arrival.
func (s *RoomService) JoinRoom(connID, roomID, name string) ([]Event, error) {
	room, ok := s.rooms.Get(roomID)
	if !ok {
		return []Event{errorEvent(connID, domain.ErrRoomNotFound.Error())}, domain.ErrRoomNotFound
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	if room.state == StateFinished {
		return []Event{errorEvent(connID, domain.ErrRoomInProgress.Error())}, domain.ErrRoomInProgress
	}
	if name == room.hostName && connID != room.hostConn {
		return []Event{errorEvent(connID, domain.ErrNameTaken.Error())}, domain.ErrNameTaken
	}
	for _, p := range room.players {
		if p.Name == name {
			return []Event{errorEvent(connID, domain.ErrNameTaken.Error())}, domain.ErrNameTaken
		}
	}

	room.players[connID] = domain.Player{ID: connID, Name: name}

	joined := Event{To: []string{connID}, Type: EventJoinedRoom, Payload: JoinedRoomPayload{
		RoomID:     roomID,
		PlayerName: name,
		State:      string(room.state),
	}}
	update := Event{To: room.memberConnsLocked(), Type: EventPlayerListUpdate, Payload: PlayerListPayload{
		RoomID:  roomID,
		Players: room.playerListLocked(),
	}}
	return []Event{joined, update}, nil
}

// StartGame begins the first round. Host-only; any other caller or state is a no-op.
func (s *RoomService) StartGame(connID, roomID string) []Event {
	room, ok := s.rooms.Get(roomID)
	if !ok {
		return nil
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	if room.state != StateWaiting || connID != room.hostConn {
		return nil
	}

	room.state = StateInQuestion
	room.resetRoundLocked()
	return []Event{room.questionStartedLocked()}
}

// PlayerDone records a player's completion signal, at most once per round.
// When every player is done the answer is revealed to the whole room.
func (s *RoomService) PlayerDone(connID, roomID string, answer int) []Event {
	room, ok := s.rooms.Get(roomID)
	if !ok {
		return nil
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	if room.state != StateInQuestion {
		return nil
	}
	if _, isPlayer := room.players[connID]; !isPlayer {
		return nil
	}
	if _, already := room.done[connID]; already {
		return nil
	}

	room.done[connID] = struct{}{}
	room.finishTimes[connID] = room.now().Sub(room.startTime).Milliseconds()
	if answer > 0 {
		room.answers[connID] = answer
	}

	if len(room.done) >= len(room.players) {
		return []Event{room.revealLocked()}
	}
	return nil
}

// HostRevealAnswer is the solo-practice path: with zero players the host may
// reveal immediately, with empty timing and answer maps.
func (s *RoomService) HostRevealAnswer(connID, roomID string) []Event {
	room, ok := s.rooms.Get(roomID)
	if !ok {
		return nil
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	if room.state != StateInQuestion || connID != room.hostConn || len(room.players) != 0 {
		return nil
	}
	return []Event{room.revealLocked()}
}

// HostNext advances the cursor: next round, or game over when the fixed
// target is reached or an unlimited queue can no longer be replenished.
func (s *RoomService) HostNext(ctx context.Context, connID, roomID string) []Event {
	room, ok := s.rooms.Get(roomID)
	if !ok {
		return nil
	}

	room.mu.Lock()
	if room.state != StateShowingAnswer || connID != room.hostConn {
		room.mu.Unlock()
		return nil
	}
	if room.replenishing {
		// A previous HostNext is still waiting on the question source.
		room.mu.Unlock()
		log.Printf("room %s: %v", roomID, domain.ErrReplenishInFlight)
		return nil
	}

	room.questionIndex++

	if room.totalRounds != UnlimitedRounds && room.questionIndex >= room.totalRounds {
		return s.finishLocked(room)
	}

	if room.totalRounds == UnlimitedRounds && len(room.questions)-room.questionIndex < replenishLowWater {
		room.replenishing = true
		filters := room.filters
		exclude := room.questionIDsLocked()
		room.mu.Unlock()

		// The fetch may block on the AI provider; the room stays in
		// showing_answer and concurrent HostNext calls are rejected above.
		batch := s.source.Fetch(ctx, filters, replenishBatch, exclude)

		room.mu.Lock()
		room.replenishing = false
		if _, live := s.rooms.Get(roomID); !live {
			// The host disconnected during the fetch and tore the room down.
			room.mu.Unlock()
			return nil
		}
		for _, q := range batch {
			if _, dup := exclude[q.ID]; dup {
				continue
			}
			exclude[q.ID] = struct{}{}
			room.questions = append(room.questions, q)
		}
	}

	if room.questionIndex >= len(room.questions) {
		return s.finishLocked(room)
	}

	room.state = StateInQuestion
	room.resetRoundLocked()
	event := room.questionStartedLocked()
	room.mu.Unlock()
	return []Event{event}
}

// finishLocked ends the game and broadcasts the final round total.
// The room mutex is held on entry and released here.
func (s *RoomService) finishLocked(room *Room) []Event {
	room.state = StateFinished
	total := room.totalRounds
	if total == UnlimitedRounds {
		total = room.questionIndex
	}
	event := Event{To: room.memberConnsLocked(), Type: EventGameOver, Payload: GameOverPayload{
		RoomID:      room.id,
		TotalRounds: total,
	}}
	room.mu.Unlock()
	return []Event{event}
}

// Disconnect handles a dropped connection. A dropped host tears the room down
// and notifies everyone; a dropped player is pruned from the player list and
// per-round tracking without re-evaluating the round's completion threshold.
func (s *RoomService) Disconnect(connID, roomID string) []Event {
	if roomID == "" {
		return nil
	}
	room, ok := s.rooms.Get(roomID)
	if !ok {
		return nil
	}

	room.mu.Lock()

	if connID == room.hostConn {
		remaining := make([]string, 0, len(room.players))
		for id := range room.players {
			if id != connID {
				remaining = append(remaining, id)
			}
		}
		room.mu.Unlock()
		s.rooms.Delete(roomID)
		if len(remaining) == 0 {
			return nil
		}
		return []Event{{To: remaining, Type: EventError, Payload: ErrorPayload{Message: "host disconnected, session ended"}}}
	}

	if _, isPlayer := room.players[connID]; !isPlayer {
		room.mu.Unlock()
		return nil
	}
	delete(room.players, connID)
	delete(room.done, connID)
	delete(room.finishTimes, connID)
	delete(room.answers, connID)

	update := Event{To: room.memberConnsLocked(), Type: EventPlayerListUpdate, Payload: PlayerListPayload{
		RoomID:  roomID,
		Players: room.playerListLocked(),
	}}
	room.mu.Unlock()
	return []Event{update}
}

const roomCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// newRoomCode generates a short human-typeable code that is free in the registry.
func (s *RoomService) newRoomCode() string {
	for {
		code := make([]byte, 6)
		s.mu.Lock()
		for i := range code {
			code[i] = roomCodeAlphabet[s.rnd.Intn(len(roomCodeAlphabet))]
		}
		s.mu.Unlock()
		if _, taken := s.rooms.Get(string(code)); !taken {
			return string(code)
		}
	}
}
