package http

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"sync"

	"github.com/gorilla/websocket"

	"quizroom-service/internal/app"
	"quizroom-service/internal/domain"
)

// WSHandler upgrades connections and dispatches room events into the state machine.
type WSHandler struct {
	service  *app.RoomService
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[string]*client
}

type client struct {
	id     string
	send   chan outboundMessage
	roomID string
}

func NewWSHandler(service *app.RoomService) *WSHandler {
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		clients: make(map[string]*client),
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type outboundMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// roundTarget accepts either a positive integer or the string "unlimited".
type roundTarget int

func (t *roundTarget) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "unlimited" {
			*t = app.UnlimitedRounds
			return nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("invalid round target %q", s)
		}
		*t = roundTarget(n)
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*t = roundTarget(n)
	return nil
}

type createRoomPayload struct {
	HostName    string              `json:"hostName"`
	TotalRounds roundTarget         `json:"totalRounds"`
	Grade       int                 `json:"grade,omitempty"`
	Subject     string              `json:"subject,omitempty"`
	Chapter     string              `json:"chapter,omitempty"`
	Type        domain.QuestionType `json:"type,omitempty"`
	UseAI       bool                `json:"useAi,omitempty"`
	PlayAsHost  bool                `json:"playAsHost,omitempty"`
}

type joinRoomPayload struct {
	RoomID string `json:"roomId"`
	Name   string `json:"name"`
}

type roomPayload struct {
	RoomID string `json:"roomId"`
}

type playerDonePayload struct {
	RoomID string `json:"roomId"`
	Answer int    `json:"answer,omitempty"`
}

// ServeWS upgrades HTTP requests to websockets and pumps events through the room service.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	c := &client{
		id:   newConnID(),
		send: make(chan outboundMessage, 16),
	}
	h.register(c)
	defer h.unregister(c)

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for msg := range c.send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		h.dispatch(r, c, inbound)
	}

	h.deliver(h.service.Disconnect(c.id, h.roomOf(c)))
	close(c.send)
	<-writerDone
}

// dispatch routes one inbound event. Events are handled to completion before
// the next read, so transitions for one connection never interleave.
func (h *WSHandler) dispatch(r *http.Request, c *client, inbound inboundMessage) {
	switch inbound.Type {
	case "getQuestionCatalog":
		h.deliver(h.service.Catalog(r.Context(), c.id))

	case "createRoom":
		var payload createRoomPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil || payload.HostName == "" {
			h.sendError(c, "invalid createRoom payload")
			return
		}
		if payload.TotalRounds < 0 || (payload.TotalRounds == 0 && !isUnlimited(inbound.Payload)) {
			h.sendError(c, "totalRounds must be a positive integer or \"unlimited\"")
			return
		}
		events, err := h.service.CreateRoom(r.Context(), c.id, app.CreateParams{
			HostName:    payload.HostName,
			TotalRounds: int(payload.TotalRounds),
			Filters: domain.Filters{
				Grade:   payload.Grade,
				Subject: payload.Subject,
				Chapter: payload.Chapter,
				Type:    payload.Type,
				UseAI:   payload.UseAI,
			},
			PlayAsHost: payload.PlayAsHost,
		})
		if err == nil {
			h.trackRoom(c, events)
		}
		h.deliver(events)

	case "joinRoom":
		var payload joinRoomPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil || payload.Name == "" {
			h.sendError(c, "invalid joinRoom payload")
			return
		}
		events, err := h.service.JoinRoom(c.id, payload.RoomID, payload.Name)
		if err == nil {
			h.setRoom(c, payload.RoomID)
		}
		h.deliver(events)

	case "startGame":
		var payload roomPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			return
		}
		h.deliver(h.service.StartGame(c.id, payload.RoomID))

	case "playerDone":
		var payload playerDonePayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			return
		}
		h.deliver(h.service.PlayerDone(c.id, payload.RoomID, payload.Answer))

	case "hostRevealAnswer":
		var payload roomPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			return
		}
		h.deliver(h.service.HostRevealAnswer(c.id, payload.RoomID))

	case "hostNext":
		var payload roomPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			return
		}
		h.deliver(h.service.HostNext(r.Context(), c.id, payload.RoomID))

	default:
		h.sendError(c, "unsupported message type")
	}
}

// deliver fans app events out to their target connections. Slow consumers
// get messages dropped rather than stalling everyone else in the room.
func (h *WSHandler) deliver(events []app.Event) {
	for _, event := range events {
		msg := outboundMessage{Type: event.Type, Payload: event.Payload}
		for _, connID := range event.To {
			h.mu.RLock()
			target, ok := h.clients[connID]
			h.mu.RUnlock()
			if !ok {
				continue
			}
			select {
			case target.send <- msg:
			default:
				log.Printf("dropping %s for slow connection %s", event.Type, connID)
			}
		}
	}
}

func (h *WSHandler) sendError(c *client, message string) {
	h.deliver([]app.Event{{To: []string{c.id}, Type: app.EventError, Payload: app.ErrorPayload{Message: message}}})
}

// trackRoom records the room id a host just created, read from the outbound event.
func (h *WSHandler) trackRoom(c *client, events []app.Event) {
	for _, event := range events {
		if created, ok := event.Payload.(app.RoomCreatedPayload); ok {
			h.setRoom(c, created.RoomID)
			return
		}
	}
}

func (h *WSHandler) setRoom(c *client, roomID string) {
	h.mu.Lock()
	c.roomID = roomID
	h.mu.Unlock()
}

func (h *WSHandler) roomOf(c *client) string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return c.roomID
}

func (h *WSHandler) register(c *client) {
	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()
}

func (h *WSHandler) unregister(c *client) {
	h.mu.Lock()
	delete(h.clients, c.id)
	h.mu.Unlock()
}

func isUnlimited(raw json.RawMessage) bool {
	var probe struct {
		TotalRounds any `json:"totalRounds"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return false
	}
	s, ok := probe.TotalRounds.(string)
	return ok && s == "unlimited"
}

func newConnID() string {
	buf := make([]byte, 8)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}
