package relay

import "sync"

// fakeConn records every event pushed at it, standing in for a transport
// session.
type fakeConn struct {
	id string

	mu     sync.Mutex
	events []sentEvent
}

type sentEvent struct {
	event string
	data  any
}

func newFakeConn(id string) *fakeConn {
	return &fakeConn{id: id}
}

func (f *fakeConn) ID() string { return f.id }

func (f *fakeConn) Send(event string, data any) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, sentEvent{event: event, data: data})
	return true
}

func (f *fakeConn) received(event string) []any {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []any
	for _, e := range f.events {
		if e.event == event {
			out = append(out, e.data)
		}
	}
	return out
}

func (f *fakeConn) last(event string) (any, bool) {
	got := f.received(event)
	if len(got) == 0 {
		return nil, false
	}
	return got[len(got)-1], true
}

func (f *fakeConn) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = nil
}
