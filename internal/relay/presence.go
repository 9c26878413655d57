package relay

import "sync"

// Presence fans events out to every currently connected client, regardless of
// login or room state. No filtering, no suppression.
type Presence struct {
	mu    sync.RWMutex
	conns map[string]Conn
}

func NewPresence() *Presence {
	return &Presence{conns: make(map[string]Conn)}
}

func (p *Presence) Add(c Conn) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.conns[c.ID()] = c
}

func (p *Presence) Remove(c Conn) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.conns, c.ID())
}

func (p *Presence) Broadcast(event string, data any) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, c := range p.conns {
		c.Send(event, data)
	}
}
