package app

import "quizroom-service/internal/domain"

// Outbound event names. The transport layer maps these onto the wire envelope.
const (
	EventCatalog          = "catalog"
	EventRoomCreated      = "roomCreated"
	EventJoinedRoom       = "joinedRoom"
	EventPlayerListUpdate = "playerListUpdate"
	EventQuestionStarted  = "questionStarted"
	EventShowAnswer       = "showAnswer"
	EventGameOver         = "gameOver"
	EventError            = "errorMessage"
)

// Event is a single outbound message addressed to one or more connections.
// Transitions return events instead of writing to sockets so the state
// machine stays testable without a network layer.
type Event struct {
	To      []string
	Type    string
	Payload any
}

type RoomCreatedPayload struct {
	RoomID      string `json:"roomId"`
	JoinURL     string `json:"joinUrl,omitempty"`
	TotalRounds int    `json:"totalRounds"`
	HostName    string `json:"hostName"`
}

type JoinedRoomPayload struct {
	RoomID     string `json:"roomId"`
	PlayerName string `json:"playerName"`
	State      string `json:"state"`
}

type PlayerListPayload struct {
	RoomID  string          `json:"roomId"`
	Players []domain.Player `json:"players"`
}

type QuestionStartedPayload struct {
	RoomID      string                `json:"roomId"`
	Round       int                   `json:"round"`       // 1-based
	TotalRounds int                   `json:"totalRounds"` // 0 means unlimited
	Question    domain.PublicQuestion `json:"question"`
	StartTime   int64                 `json:"startTime"` // unix millis, elapsed-time basis
}

type ShowAnswerPayload struct {
	RoomID        string                         `json:"roomId"`
	Round         int                            `json:"round"`
	Question      domain.Question                `json:"question"`
	PlayerResults map[string]domain.PlayerResult `json:"playerResults"`
}

type GameOverPayload struct {
	RoomID      string `json:"roomId"`
	TotalRounds int    `json:"totalRounds"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

func errorEvent(connID, message string) Event {
	return Event{To: []string{connID}, Type: EventError, Payload: ErrorPayload{Message: message}}
}
