package relay

import "sync"

// Rooms holds every room's delivery group and message history. Rooms are
// created implicitly on first join or append and live for the process
// lifetime. History is append-only and insertion-ordered; joining or leaving
// never mutates it.
type Rooms struct {
	mu           sync.RWMutex
	rooms        map[string]*room
	byConn       map[string]string // connection ID -> current room
	historyLimit int               // 0 = unbounded
}

type room struct {
	members map[string]Conn
	history []Message
}

// NewRooms creates an empty room store. historyLimit caps per-room history
// (oldest entries dropped); 0 keeps everything.
func NewRooms(historyLimit int) *Rooms {
	return &Rooms{
		rooms:        make(map[string]*room),
		byConn:       make(map[string]string),
		historyLimit: historyLimit,
	}
}

func (s *Rooms) get(name string) *room {
	r, ok := s.rooms[name]
	if !ok {
		r = &room{members: make(map[string]Conn)}
		s.rooms[name] = r
	}
	return r
}

// Join moves c into the named room's delivery group, removing it from its
// previous room first, and returns a snapshot of the room's history for the
// one-time replay to the joining connection.
func (s *Rooms) Join(c Conn, name string) []Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.byConn[c.ID()]; ok && prev != name {
		if r, ok := s.rooms[prev]; ok {
			delete(r.members, c.ID())
		}
	}

	r := s.get(name)
	r.members[c.ID()] = c
	s.byConn[c.ID()] = name

	history := make([]Message, len(r.history))
	copy(history, r.history)
	return history
}

// Leave removes c from whatever room it is in. No-op for connections that
// never joined one.
func (s *Rooms) Leave(c Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name, ok := s.byConn[c.ID()]
	if !ok {
		return
	}
	delete(s.byConn, c.ID())
	if r, ok := s.rooms[name]; ok {
		delete(r.members, c.ID())
	}
}

// Append stores msg in the named room unless a message with an identical body
// is already retained there. The body is the sole dedupe key; author and
// media fields do not participate. Returns whether the message was newly
// appended.
func (s *Rooms) Append(name string, msg Message) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.get(name)
	for _, m := range r.history {
		if m.Message == msg.Message {
			return false
		}
	}
	r.history = append(r.history, msg)
	if s.historyLimit > 0 && len(r.history) > s.historyLimit {
		r.history = r.history[len(r.history)-s.historyLimit:]
	}
	return true
}

// Broadcast delivers an event to every member of the room, sender included.
func (s *Rooms) Broadcast(name, event string, data any) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.rooms[name]
	if !ok {
		return
	}
	for _, c := range r.members {
		c.Send(event, data)
	}
}

// BroadcastExcept delivers an event to every member of the room except the
// connection with the given ID.
func (s *Rooms) BroadcastExcept(name, event string, data any, exceptID string) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.rooms[name]
	if !ok {
		return
	}
	for id, c := range r.members {
		if id == exceptID {
			continue
		}
		c.Send(event, data)
	}
}
