package relay

import (
	"fmt"
	"sync"
)

// Registry maps display names to live connections and enforces name
// uniqueness: at most one connection holds a given name at a time. Every
// successful Register and Release is announced to all connections through the
// presence broadcaster, updated user count included.
type Registry struct {
	mu       sync.RWMutex
	users    map[string]Conn
	presence *Presence
}

func NewRegistry(presence *Presence) *Registry {
	return &Registry{
		users:    make(map[string]Conn),
		presence: presence,
	}
}

func (r *Registry) Register(name string, c Conn) error {
	r.mu.Lock()
	if _, taken := r.users[name]; taken {
		r.mu.Unlock()
		return ErrNameTaken
	}
	r.users[name] = c
	count := len(r.users)
	r.mu.Unlock()

	r.presence.Broadcast(EventUserJoined, fmt.Sprintf("%s has joined the chat.", name))
	r.presence.Broadcast(EventUserCount, count)
	return nil
}

func (r *Registry) Lookup(name string) (Conn, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.users[name]
	return c, ok
}

// Release removes the mapping for name. Idempotent: releasing a name that is
// not registered is a no-op and returns false.
func (r *Registry) Release(name string) bool {
	r.mu.Lock()
	if _, ok := r.users[name]; !ok {
		r.mu.Unlock()
		return false
	}
	delete(r.users, name)
	count := len(r.users)
	r.mu.Unlock()

	r.presence.Broadcast(EventUserLeft, fmt.Sprintf("%s has left the chat.", name))
	r.presence.Broadcast(EventUserCount, count)
	return true
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}
