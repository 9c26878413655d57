// Package relay implements the chat relay core: the name registry, per-room
// history with fan-out groups, presence broadcasting, and the per-event
// routing that decides which connections receive which payload.
package relay

import (
	"fmt"
	"strings"
	"sync"

	"github.com/ratnamishratech/chat-relay/internal/observability"
	"go.uber.org/zap"
)

// Hub is the routing engine. It owns the per-connection session state
// (identity, current room, private recipient) and applies one inbound event
// at a time: the hub mutex serializes all handlers so no event observes a
// torn intermediate state of the registry or a room's history.
type Hub struct {
	mu          sync.Mutex
	log         *zap.Logger
	registry    *Registry
	rooms       *Rooms
	presence    *Presence
	states      map[string]*clientState
	serviceName string
}

// clientState is the transient session record for one connection. Mutated
// only by events from that same connection, plus teardown on disconnect.
// Room and private recipient are independent; routing prefers room scope.
type clientState struct {
	username  string
	room      string
	recipient string
}

func NewHub(log *zap.Logger, registry *Registry, rooms *Rooms, presence *Presence, serviceName string) *Hub {
	return &Hub{
		log:         log,
		registry:    registry,
		rooms:       rooms,
		presence:    presence,
		states:      make(map[string]*clientState),
		serviceName: serviceName,
	}
}

func (h *Hub) state(c Conn) *clientState {
	st, ok := h.states[c.ID()]
	if !ok {
		st = &clientState{}
		h.states[c.ID()] = st
	}
	return st
}

// Connect registers a new transport connection with the hub. The connection
// is immediately part of the presence fan-out, logged in or not.
func (h *Hub) Connect(c Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.states[c.ID()] = &clientState{}
	h.presence.Add(c)
}

// Disconnect tears down everything the connection held: presence membership,
// room delivery group, and the registered name, announcing the departure.
func (h *Hub) Disconnect(c Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	st, ok := h.states[c.ID()]
	if !ok {
		return
	}
	delete(h.states, c.ID())
	h.presence.Remove(c)
	h.rooms.Leave(c)

	if st.username != "" && h.registry.Release(st.username) {
		observability.LoggedInUsers.WithLabelValues(h.serviceName).Set(float64(h.registry.Count()))
		h.log.Info("user left", zap.String("username", st.username), zap.String("conn_id", c.ID()))
	}
}

// Login claims a display name for the connection. A collision is reported to
// the sender only; a connection that already holds a name keeps it.
func (h *Hub) Login(c Conn, name string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	st := h.state(c)
	if st.username != "" {
		return
	}
	if err := h.registry.Register(name, c); err != nil {
		c.Send(EventLoginError, "Username is already taken. Please choose another one")
		return
	}
	st.username = name
	observability.LoggedInUsers.WithLabelValues(h.serviceName).Set(float64(h.registry.Count()))
	h.log.Info("user logged in", zap.String("username", name), zap.String("conn_id", c.ID()))
}

// Typing relays a typing indicator. Room scope wins over private scope; with
// neither a room nor a resolvable private recipient the event is dropped.
func (h *Hub) Typing(c Conn, isTyping bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	st := h.state(c)
	notice := TypingNotice{Username: st.username, IsTyping: isTyping}
	if st.room != "" {
		h.rooms.BroadcastExcept(st.room, EventTyping, notice, c.ID())
		return
	}
	if st.recipient != "" {
		if peer, ok := h.registry.Lookup(st.recipient); ok {
			peer.Send(EventTyping, notice)
		}
	}
}

// PrivateChat designates a private peer for the connection. On success the
// recipient alone gets a system notice; the sender is never echoed.
func (h *Hub) PrivateChat(c Conn, recipient string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	st := h.state(c)
	st.recipient = strings.TrimSpace(recipient)

	peer, ok := h.registry.Lookup(st.recipient)
	if !ok {
		c.Send(EventPrivateChatError, fmt.Sprintf("User %s not found.", st.recipient))
		return
	}
	peer.Send(EventPrivateMessage, PrivateMessage{
		Message: fmt.Sprintf("You are now chatting privately with %s", st.username),
		Sender:  "System",
	})
}

// JoinRoom moves the connection into a room, creating it if needed, and
// replays the room's history to the joining connection only.
func (h *Hub) JoinRoom(c Conn, roomName string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	st := h.state(c)
	history := h.rooms.Join(c, roomName)
	st.room = roomName

	if len(history) > 0 {
		c.Send(EventMessageHistory, history)
	}
	h.log.Info("joined room", zap.String("username", st.username), zap.String("room", roomName))
}

// ChatMessage appends a message to the connection's current room and fans it
// out to every member, sender included. Without a room it is dropped; a body
// already present in the room's history is suppressed entirely.
func (h *Hub) ChatMessage(c Conn, p ChatPayload) {
	h.mu.Lock()
	defer h.mu.Unlock()

	st := h.state(c)
	if st.room == "" {
		return
	}

	msg := Message{
		User:     st.username,
		Message:  p.Message,
		IsImage:  p.IsImage,
		FileType: p.FileType,
		FileUrl:  p.FileUrl,
	}
	if !h.rooms.Append(st.room, msg) {
		observability.ChatMessagesTotal.WithLabelValues(h.serviceName, "duplicate").Inc()
		return
	}
	h.rooms.Broadcast(st.room, EventChatMessage, msg)
	observability.ChatMessagesTotal.WithLabelValues(h.serviceName, "room").Inc()
}

// PrivateMessage routes a direct message to the recipient and echoes it to
// the sender's registered connection. An unresolvable recipient yields
// privateChatError to the sender and no delivery to anyone.
func (h *Hub) PrivateMessage(c Conn, p PrivatePayload) {
	h.mu.Lock()
	defer h.mu.Unlock()

	st := h.state(c)
	msg := PrivateMessage{
		Message:  p.Message,
		Sender:   st.username,
		IsImage:  p.IsImage,
		FileType: p.FileType,
		FileUrl:  p.FileUrl,
	}

	peer, ok := h.registry.Lookup(p.Recipient)
	if !ok {
		c.Send(EventPrivateChatError, fmt.Sprintf("User %s not found.", p.Recipient))
		return
	}
	peer.Send(EventPrivateMessage, msg)
	if sender, ok := h.registry.Lookup(st.username); ok {
		sender.Send(EventPrivateMessage, msg)
	}
	observability.ChatMessagesTotal.WithLabelValues(h.serviceName, "private").Inc()
}
