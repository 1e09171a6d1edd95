package app

import (
	"sort"
	"sync"
	"time"

	"quizroom-service/internal/domain"
)

// RoomState is the lifecycle phase of a room.
type RoomState string

const (
	StateWaiting       RoomState = "waiting"
	StateInQuestion    RoomState = "in_question"
	StateShowingAnswer RoomState = "showing_answer"
	StateFinished      RoomState = "finished"
)

// UnlimitedRounds is the sentinel round target for rooms without a fixed length.
const UnlimitedRounds = 0

const (
	// initialUnlimitedBatch seeds the queue of an unlimited room.
	initialUnlimitedBatch = 5
	// replenishBatch is requested whenever an unlimited queue runs low.
	replenishBatch = 5
	// replenishLowWater triggers a fetch when fewer unconsumed questions remain.
	replenishLowWater = 3
)

// Room is one live quiz session. All mutation happens through RoomService
// transitions; the mutex keeps transitions on the same room from interleaving.
type Room struct {
	mu sync.Mutex

	id       string
	hostConn string
	hostName string
	players  map[string]domain.Player

	questions     []domain.Question
	questionIndex int
	totalRounds   int // UnlimitedRounds means no fixed target
	filters       domain.Filters

	state       RoomState
	done        map[string]struct{}
	finishTimes map[string]int64
	answers     map[string]int
	startTime   time.Time

	// replenishing guards against overlapping queue fetches for this room.
	replenishing bool

	now func() time.Time
}

func newRoom(id, hostConn, hostName string, questions []domain.Question, totalRounds int, filters domain.Filters, now func() time.Time) *Room {
	return &Room{
		id:          id,
		hostConn:    hostConn,
		hostName:    hostName,
		players:     make(map[string]domain.Player),
		questions:   questions,
		totalRounds: totalRounds,
		filters:     filters,
		state:       StateWaiting,
		done:        make(map[string]struct{}),
		finishTimes: make(map[string]int64),
		answers:     make(map[string]int),
		now:         now,
	}
}

// NewRoom is exported for infrastructure layers that need to construct rooms.
func NewRoom(id, hostConn, hostName string, questions []domain.Question, totalRounds int, filters domain.Filters) *Room {
	return newRoom(id, hostConn, hostName, questions, totalRounds, filters, time.Now)
}

// ID returns the room's join code.
func (r *Room) ID() string {
	return r.id
}

// HostConn returns the host's connection id.
func (r *Room) HostConn() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hostConn
}

// State returns the current lifecycle phase.
func (r *Room) State() RoomState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// memberConnsLocked lists every connection in the room, host first.
func (r *Room) memberConnsLocked() []string {
	conns := make([]string, 0, len(r.players)+1)
	conns = append(conns, r.hostConn)
	for id := range r.players {
		if id != r.hostConn {
			conns = append(conns, id)
		}
	}
	return conns
}

// playerListLocked snapshots the players sorted by name for stable payloads.
func (r *Room) playerListLocked() []domain.Player {
	players := make([]domain.Player, 0, len(r.players))
	for _, p := range r.players {
		players = append(players, p)
	}
	sort.Slice(players, func(i, j int) bool { return players[i].Name < players[j].Name })
	return players
}

// resetRoundLocked clears per-round tracking and stamps the round start.
func (r *Room) resetRoundLocked() {
	r.done = make(map[string]struct{})
	r.finishTimes = make(map[string]int64)
	r.answers = make(map[string]int)
	r.startTime = r.now()
}

// currentQuestionLocked returns the question under the cursor.
func (r *Room) currentQuestionLocked() domain.Question {
	return r.questions[r.questionIndex]
}

// questionIDsLocked collects every queued question id, used as the
// exclusion set for replenishment fetches.
func (r *Room) questionIDsLocked() map[string]struct{} {
	ids := make(map[string]struct{}, len(r.questions))
	for _, q := range r.questions {
		ids[q.ID] = struct{}{}
	}
	return ids
}

// questionStartedLocked builds the round-start broadcast for all members.
func (r *Room) questionStartedLocked() Event {
	return Event{
		To:   r.memberConnsLocked(),
		Type: EventQuestionStarted,
		Payload: QuestionStartedPayload{
			RoomID:      r.id,
			Round:       r.questionIndex + 1,
			TotalRounds: r.totalRounds,
			Question:    r.currentQuestionLocked().Public(),
			StartTime:   r.startTime.UnixMilli(),
		},
	}
}

// revealLocked transitions to showing_answer and builds the reveal broadcast
// with per-player elapsed times and, for mcq, submitted-answer correctness.
func (r *Room) revealLocked() Event {
	r.state = StateShowingAnswer
	question := r.currentQuestionLocked()

	results := make(map[string]domain.PlayerResult, len(r.finishTimes))
	for connID, elapsed := range r.finishTimes {
		player, ok := r.players[connID]
		if !ok {
			continue
		}
		result := domain.PlayerResult{Name: player.Name, ElapsedMs: elapsed}
		if answer, answered := r.answers[connID]; answered && question.Type == domain.TypeMCQ {
			correct := answer == question.CorrectOption
			result.Answer = answer
			result.Correct = &correct
		}
		results[connID] = result
	}

	return Event{
		To:   r.memberConnsLocked(),
		Type: EventShowAnswer,
		Payload: ShowAnswerPayload{
			RoomID:        r.id,
			Round:         r.questionIndex + 1,
			Question:      question,
			PlayerResults: results,
		},
	}
}
