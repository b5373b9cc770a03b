package ws

import (
	"errors"
	"reflect"
	"sync"
	"testing"
)

// fakeConn records every event sent to it. Safe for concurrent use.
type fakeConn struct {
	mu     sync.Mutex
	events []Event
	closed bool
}

func (c *fakeConn) Send(ev Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return errors.New("closed")
	}
	c.events = append(c.events, ev)
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) received() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Event, len(c.events))
	copy(out, c.events)
	return out
}

func TestHub_JoinIdempotent(t *testing.T) {
	h := NewHub()
	c := &fakeConn{}

	h.Join(c, "general", "alice")
	h.Join(c, "general", "alice")

	if got := len(h.Members("general")); got != 1 {
		t.Errorf("Members() count = %d, want 1", got)
	}
}

func TestHub_LeaveReturnsIdentity(t *testing.T) {
	h := NewHub()
	c := &fakeConn{}
	h.Join(c, "general", "alice")

	room, username, ok := h.Leave(c)
	if !ok {
		t.Fatal("Leave() ok = false, want true")
	}
	if room != "general" || username != "alice" {
		t.Errorf("Leave() = (%q, %q), want (general, alice)", room, username)
	}

	// Removing an absent handle is a no-op.
	if _, _, ok := h.Leave(c); ok {
		t.Error("second Leave() ok = true, want false")
	}
}

func TestHub_MembershipAndPresenceAgree(t *testing.T) {
	h := NewHub()
	a, b, c := &fakeConn{}, &fakeConn{}, &fakeConn{}

	h.Join(a, "general", "alice")
	h.Join(b, "general", "bob")
	h.Join(c, "ruby", "carol")
	h.Leave(b)

	if got := len(h.Members("general")); got != 1 {
		t.Errorf("general members = %d, want 1", got)
	}
	if got := h.Usernames("general"); !reflect.DeepEqual(got, []string{"alice"}) {
		t.Errorf("general usernames = %v, want [alice]", got)
	}
	if got := h.Usernames("ruby"); !reflect.DeepEqual(got, []string{"carol"}) {
		t.Errorf("ruby usernames = %v, want [carol]", got)
	}
}

func TestHub_UsernamesDeduplicated(t *testing.T) {
	h := NewHub()
	tab1, tab2, other := &fakeConn{}, &fakeConn{}, &fakeConn{}

	// alice has two tabs open
	h.Join(tab1, "general", "alice")
	h.Join(tab2, "general", "alice")
	h.Join(other, "general", "bob")

	got := h.Usernames("general")
	want := []string{"alice", "bob"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Usernames() = %v, want %v", got, want)
	}
}

func TestHub_UnknownRoomIsEmpty(t *testing.T) {
	h := NewHub()

	if got := h.Members("nowhere"); len(got) != 0 {
		t.Errorf("Members(nowhere) = %v, want empty", got)
	}
	if got := h.Usernames("nowhere"); len(got) != 0 {
		t.Errorf("Usernames(nowhere) = %v, want empty", got)
	}
	// Broadcasting to an empty room is a no-op, not an error.
	h.Broadcast("nowhere", Event{Type: EventMessage})
}

func TestHub_BroadcastReachesRoomOnly(t *testing.T) {
	h := NewHub()
	a, b, c := &fakeConn{}, &fakeConn{}, &fakeConn{}
	h.Join(a, "general", "alice")
	h.Join(b, "general", "bob")
	h.Join(c, "ruby", "carol")

	h.Broadcast("general", Event{Type: EventMessage, Username: "alice", Content: "hi"})

	if got := len(a.received()); got != 1 {
		t.Errorf("a received %d events, want 1", got)
	}
	if got := len(b.received()); got != 1 {
		t.Errorf("b received %d events, want 1", got)
	}
	if got := len(c.received()); got != 0 {
		t.Errorf("c received %d events, want 0", got)
	}
}

func TestHub_BroadcastExceptSkipsSender(t *testing.T) {
	h := NewHub()
	a, b := &fakeConn{}, &fakeConn{}
	h.Join(a, "general", "alice")
	h.Join(b, "general", "bob")

	h.BroadcastExcept("general", a, Event{Type: EventTyping, Username: "alice"})

	if got := len(a.received()); got != 0 {
		t.Errorf("sender received %d events, want 0", got)
	}
	if got := len(b.received()); got != 1 {
		t.Errorf("b received %d events, want 1", got)
	}
}

func TestHub_BroadcastSkipsClosedConns(t *testing.T) {
	h := NewHub()
	a, b := &fakeConn{}, &fakeConn{}
	h.Join(a, "general", "alice")
	h.Join(b, "general", "bob")
	_ = b.Close()

	h.Broadcast("general", Event{Type: EventMessage, Username: "alice", Content: "hi"})

	if got := len(a.received()); got != 1 {
		t.Errorf("a received %d events, want 1", got)
	}
	if got := len(b.received()); got != 0 {
		t.Errorf("closed conn received %d events, want 0", got)
	}
}
