// Package ws is the WebSocket transport: it upgrades connections, frames
// events as JSON envelopes, and feeds decoded events into the relay hub.
package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ratnamishratech/chat-relay/internal/observability"
	"github.com/ratnamishratech/chat-relay/internal/relay"
)

type Handler struct {
	hub         *relay.Hub
	queueSize   int
	serviceName string

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewHandler(hub *relay.Hub, queueSize int, serviceName string) *Handler {
	return &Handler{
		hub:         hub,
		queueSize:   queueSize,
		serviceName: serviceName,
		sessions:    make(map[string]*Session),
	}
}

// CloseAll closes every live session. Used during graceful shutdown;
// http.Server.Shutdown does not touch hijacked connections.
func (h *Handler) CloseAll() {
	h.mu.Lock()
	sessions := make([]*Session, 0, len(h.sessions))
	for _, s := range h.sessions {
		sessions = append(sessions, s)
	}
	h.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := observability.GetLogger(r.Context())
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("upgrade error", zap.Error(err))
		return
	}

	session := NewSession(uuid.NewString(), conn, h.queueSize)
	h.mu.Lock()
	h.sessions[session.ID()] = session
	h.mu.Unlock()
	h.hub.Connect(session)
	session.Start()

	log.Info("connected", zap.String("session_id", session.ID()), zap.String("remote_addr", r.RemoteAddr))
	observability.WebSocketConnectionsActive.WithLabelValues(h.serviceName).Inc()

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	go h.readLoop(session)
}

func (h *Handler) readLoop(s *Session) {
	defer func() {
		h.mu.Lock()
		delete(h.sessions, s.ID())
		h.mu.Unlock()
		h.hub.Disconnect(s)
		s.Close()
		observability.GetLogger(context.Background()).Info("disconnected", zap.String("session_id", s.ID()))
		observability.WebSocketConnectionsActive.WithLabelValues(h.serviceName).Dec()
	}()

	for {
		_, raw, err := s.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				observability.Log.Error("read loop error", zap.String("session_id", s.ID()), zap.Error(err))
			}
			return
		}
		h.dispatch(s, raw)
	}
}

// dispatch decodes one inbound frame and routes it to the hub. Malformed
// payloads are logged and skipped; unknown event names are ignored.
func (h *Handler) dispatch(s *Session, raw []byte) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		observability.Log.Warn("invalid frame", zap.String("session_id", s.ID()), zap.Error(err))
		return
	}

	switch env.Event {
	case relay.EventLogin:
		var name string
		if err := json.Unmarshal(env.Data, &name); err != nil {
			observability.Log.Warn("invalid login payload", zap.String("session_id", s.ID()), zap.Error(err))
			return
		}
		h.hub.Login(s, name)

	case relay.EventTyping:
		var isTyping bool
		if err := json.Unmarshal(env.Data, &isTyping); err != nil {
			observability.Log.Warn("invalid typing payload", zap.String("session_id", s.ID()), zap.Error(err))
			return
		}
		h.hub.Typing(s, isTyping)

	case relay.EventPrivateChat:
		var recipient string
		if err := json.Unmarshal(env.Data, &recipient); err != nil {
			observability.Log.Warn("invalid privateChat payload", zap.String("session_id", s.ID()), zap.Error(err))
			return
		}
		h.hub.PrivateChat(s, recipient)

	case relay.EventJoinRoom:
		var roomName string
		if err := json.Unmarshal(env.Data, &roomName); err != nil {
			observability.Log.Warn("invalid joinRoom payload", zap.String("session_id", s.ID()), zap.Error(err))
			return
		}
		h.hub.JoinRoom(s, roomName)

	case relay.EventChatMessage:
		var p relay.ChatPayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			observability.Log.Warn("invalid chatMessage payload", zap.String("session_id", s.ID()), zap.Error(err))
			return
		}
		h.hub.ChatMessage(s, p)

	case relay.EventPrivateMessage:
		var p relay.PrivatePayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			observability.Log.Warn("invalid privateMessage payload", zap.String("session_id", s.ID()), zap.Error(err))
			return
		}
		h.hub.PrivateMessage(s, p)
	}
}
