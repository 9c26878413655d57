package relay

import (
	"errors"
	"testing"
)

func TestRegistry_NameUniqueness(t *testing.T) {
	p := NewPresence()
	r := NewRegistry(p)

	c1 := newFakeConn("c1")
	c2 := newFakeConn("c2")
	p.Add(c1)
	p.Add(c2)

	if err := r.Register("alice", c1); err != nil {
		t.Fatalf("first register failed: %v", err)
	}

	err := r.Register("alice", c2)
	if !errors.Is(err, ErrNameTaken) {
		t.Fatalf("expected ErrNameTaken, got %v", err)
	}

	// Registry must be unchanged: alice still resolves to c1
	got, ok := r.Lookup("alice")
	if !ok || got.ID() != "c1" {
		t.Errorf("expected alice -> c1, got %v", got)
	}
	if r.Count() != 1 {
		t.Errorf("expected count 1, got %d", r.Count())
	}
}

func TestRegistry_RegisterBroadcastsToAll(t *testing.T) {
	p := NewPresence()
	r := NewRegistry(p)

	c1 := newFakeConn("c1")
	c2 := newFakeConn("c2")
	p.Add(c1)
	p.Add(c2)

	if err := r.Register("alice", c1); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	// Both connections, the acting one included, get the notice and count
	for _, c := range []*fakeConn{c1, c2} {
		joined := c.received(EventUserJoined)
		if len(joined) != 1 || joined[0] != "alice has joined the chat." {
			t.Errorf("conn %s: unexpected userJoined events %v", c.ID(), joined)
		}
		count, ok := c.last(EventUserCount)
		if !ok || count != 1 {
			t.Errorf("conn %s: expected userCount 1, got %v", c.ID(), count)
		}
	}
}

func TestRegistry_ReleaseIdempotent(t *testing.T) {
	p := NewPresence()
	r := NewRegistry(p)

	c1 := newFakeConn("c1")
	p.Add(c1)

	if r.Release("ghost") {
		t.Error("releasing an absent name should be a no-op")
	}
	if got := c1.received(EventUserLeft); len(got) != 0 {
		t.Errorf("no-op release must not broadcast, got %v", got)
	}

	if err := r.Register("alice", c1); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if !r.Release("alice") {
		t.Fatal("expected release to remove alice")
	}
	if r.Release("alice") {
		t.Error("second release should be a no-op")
	}

	left := c1.received(EventUserLeft)
	if len(left) != 1 || left[0] != "alice has left the chat." {
		t.Errorf("unexpected userLeft events %v", left)
	}
	count, _ := c1.last(EventUserCount)
	if count != 0 {
		t.Errorf("expected final userCount 0, got %v", count)
	}
}

func TestRegistry_NameReusableAfterRelease(t *testing.T) {
	p := NewPresence()
	r := NewRegistry(p)

	c1 := newFakeConn("c1")
	c2 := newFakeConn("c2")

	if err := r.Register("alice", c1); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	r.Release("alice")

	if err := r.Register("alice", c2); err != nil {
		t.Fatalf("name should be reusable after release, got %v", err)
	}
	got, ok := r.Lookup("alice")
	if !ok || got.ID() != "c2" {
		t.Errorf("expected alice -> c2, got %v", got)
	}
}
