package ws

import (
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ratnamishratech/chat-relay/internal/observability"
)

const (
	DefaultSendQueueSize = 128
	writeWait            = 10 * time.Second
	pongWait             = 60 * time.Second
	pingPeriod           = (pongWait * 9) / 10
)

// Session wraps one WebSocket connection. Outbound events go through a
// buffered queue drained by the write loop; delivery is fire-and-forget and a
// connection that cannot keep up is dropped.
type Session struct {
	id string

	Conn      *websocket.Conn
	SendQueue chan []byte
	done      chan struct{}
	closed    atomic.Int32
}

func NewSession(id string, conn *websocket.Conn, queueSize int) *Session {
	if queueSize <= 0 {
		queueSize = DefaultSendQueueSize
	}
	return &Session{
		id:        id,
		Conn:      conn,
		SendQueue: make(chan []byte, queueSize),
		done:      make(chan struct{}),
	}
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) Start() {
	go s.writeLoop()
}

func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Send encodes a named event and queues it for delivery. Never blocks;
// returns false when the session is closed or the queue overflowed.
func (s *Session) Send(event string, data any) bool {
	payload, err := encodeEvent(event, data)
	if err != nil {
		observability.Log.Error("session: encode error", zap.String("session_id", s.id), zap.String("event", event), zap.Error(err))
		return false
	}
	return s.TrySend(payload)
}

func (s *Session) TrySend(msg []byte) bool {
	if s.closed.Load() == 1 {
		return false
	}
	select {
	case s.SendQueue <- msg:
		return true
	default:
		observability.Log.Warn("session: backpressure overflow - dropping connection", zap.String("session_id", s.id))
		s.CloseWithReason(websocket.CloseInternalServerErr, "backpressure overflow")
		return false
	}
}

func (s *Session) Close() {
	s.CloseWithReason(websocket.CloseNormalClosure, "server closing")
}

func (s *Session) CloseWithReason(code int, reason string) {
	if !s.closed.CompareAndSwap(0, 1) {
		return
	}

	close(s.done)

	if s.Conn != nil {
		// Send close message to client
		deadline := time.Now().Add(time.Second)
		_ = s.Conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), deadline)
		s.Conn.Close()
	}
}

func (s *Session) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.Close()
	}()

	for {
		select {
		case msg, ok := <-s.SendQueue:
			_ = s.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = s.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				observability.Log.Error("session: write error", zap.String("session_id", s.id), zap.Error(err))
				return
			}
		case <-ticker.C:
			_ = s.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				observability.Log.Error("session: ping error", zap.String("session_id", s.id), zap.Error(err))
				return
			}
		case <-s.done:
			return
		}
	}
}
