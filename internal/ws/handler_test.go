package ws

import (
	"encoding/json"
	"fmt"
	"testing"

	"go.uber.org/zap"

	"github.com/ratnamishratech/chat-relay/internal/observability"
	"github.com/ratnamishratech/chat-relay/internal/relay"
)

func newTestHandler() *Handler {
	observability.InitLogger("test")
	presence := relay.NewPresence()
	registry := relay.NewRegistry(presence)
	rooms := relay.NewRooms(0)
	hub := relay.NewHub(zap.NewNop(), registry, rooms, presence, "test")
	return NewHandler(hub, 32, "test")
}

func frame(t *testing.T, event string, data any) []byte {
	t.Helper()
	raw, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal data: %v", err)
	}
	out, err := json.Marshal(Envelope{Event: event, Data: raw})
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}
	return out
}

// drain decodes every queued outbound frame of the session.
func drain(t *testing.T, s *Session) []Envelope {
	t.Helper()
	var out []Envelope
	for {
		select {
		case raw := <-s.SendQueue:
			var env Envelope
			if err := json.Unmarshal(raw, &env); err != nil {
				t.Fatalf("invalid outbound frame %q: %v", raw, err)
			}
			out = append(out, env)
		default:
			return out
		}
	}
}

func eventsOf(envs []Envelope) []string {
	var names []string
	for _, e := range envs {
		names = append(names, e.Event)
	}
	return names
}

func TestDispatch_LoginJoinChat(t *testing.T) {
	h := newTestHandler()

	a := NewSession("a", nil, 32)
	b := NewSession("b", nil, 32)
	h.hub.Connect(a)
	h.hub.Connect(b)

	h.dispatch(a, frame(t, "login", "alice"))
	h.dispatch(a, frame(t, "joinRoom", "lobby"))
	h.dispatch(a, frame(t, "chatMessage", map[string]any{"message": "hello"}))

	got := drain(t, a)
	want := []string{"userJoined", "userCount", "chatMessage"}
	if fmt.Sprint(eventsOf(got)) != fmt.Sprint(want) {
		t.Fatalf("expected events %v, got %v", want, eventsOf(got))
	}

	var msg relay.Message
	if err := json.Unmarshal(got[2].Data, &msg); err != nil {
		t.Fatalf("decode chatMessage: %v", err)
	}
	if msg.User != "alice" || msg.Message != "hello" || msg.IsImage {
		t.Errorf("unexpected message %+v", msg)
	}

	// Second connection joins and gets the history replay
	h.dispatch(b, frame(t, "login", "bob"))
	h.dispatch(b, frame(t, "joinRoom", "lobby"))

	envs := drain(t, b)
	var history []relay.Message
	found := false
	for _, e := range envs {
		if e.Event == "messageHistory" {
			found = true
			if err := json.Unmarshal(e.Data, &history); err != nil {
				t.Fatalf("decode messageHistory: %v", err)
			}
		}
	}
	if !found {
		t.Fatalf("expected messageHistory, got %v", eventsOf(envs))
	}
	if len(history) != 1 || history[0].Message != "hello" {
		t.Errorf("unexpected history %v", history)
	}
}

func TestDispatch_PrivateMessage(t *testing.T) {
	h := newTestHandler()

	a := NewSession("a", nil, 32)
	b := NewSession("b", nil, 32)
	h.hub.Connect(a)
	h.hub.Connect(b)
	h.dispatch(a, frame(t, "login", "alice"))
	h.dispatch(b, frame(t, "login", "bob"))
	drain(t, a)
	drain(t, b)

	h.dispatch(a, frame(t, "privateMessage", map[string]any{"message": "psst", "recipient": "bob"}))

	for _, s := range []*Session{a, b} {
		envs := drain(t, s)
		if len(envs) != 1 || envs[0].Event != "privateMessage" {
			t.Fatalf("session %s: expected one privateMessage, got %v", s.ID(), eventsOf(envs))
		}
		var pm relay.PrivateMessage
		if err := json.Unmarshal(envs[0].Data, &pm); err != nil {
			t.Fatalf("decode privateMessage: %v", err)
		}
		if pm.Sender != "alice" || pm.Message != "psst" {
			t.Errorf("session %s: unexpected payload %+v", s.ID(), pm)
		}
	}
}

func TestDispatch_MalformedAndUnknownIgnored(t *testing.T) {
	h := newTestHandler()

	a := NewSession("a", nil, 32)
	h.hub.Connect(a)

	h.dispatch(a, []byte("not json"))
	h.dispatch(a, frame(t, "login", 42)) // wrong payload type
	h.dispatch(a, frame(t, "selfDestruct", "now"))

	if envs := drain(t, a); len(envs) != 0 {
		t.Errorf("expected no outbound frames, got %v", eventsOf(envs))
	}
}
