package ws

import (
	"sort"
	"sync"
)

// Conn is one client's live socket as the hub sees it. Send must fail, not
// block, once the underlying socket is closed.
type Conn interface {
	Send(ev Event) error
	Close() error
}

type entry struct {
	room     string
	username string
}

// Hub is the single membership table: every joined connection maps to exactly
// one {room, username} entry. Room membership and presence are derived views
// of the same map, so they cannot diverge.
type Hub struct {
	mu    sync.RWMutex
	conns map[Conn]entry
}

func NewHub() *Hub {
	return &Hub{conns: make(map[Conn]entry)}
}

// Join records c as username in room. Joining again with the same handle
// overwrites the entry, so it is idempotent.
func (h *Hub) Join(c Conn, room, username string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[c] = entry{room: room, username: username}
}

// Leave removes c and reports the identity it had, so the caller can still
// announce the departure after the handle is gone. Removing an absent handle
// is a no-op with ok=false.
func (h *Hub) Leave(c Conn) (room, username string, ok bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	e, ok := h.conns[c]
	if !ok {
		return "", "", false
	}
	delete(h.conns, c)
	return e.room, e.username, true
}

// Members returns a snapshot of the connections joined to room. Unknown rooms
// are empty sets.
func (h *Hub) Members(room string) []Conn {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var out []Conn
	for c, e := range h.conns {
		if e.room == room {
			out = append(out, c)
		}
	}
	return out
}

// Usernames returns the de-duplicated, sorted list of usernames in room.
// One person with two tabs shows up once.
func (h *Hub) Usernames(room string) []string {
	h.mu.RLock()
	seen := make(map[string]struct{})
	for _, e := range h.conns {
		if e.room == room {
			seen[e.username] = struct{}{}
		}
	}
	h.mu.RUnlock()

	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Broadcast sends ev to every connection in room. Send errors mean the
// handle is stale; it is skipped here and cleaned up by the disconnect path.
func (h *Hub) Broadcast(room string, ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c, e := range h.conns {
		if e.room == room {
			_ = c.Send(ev) // best-effort
		}
	}
}

// BroadcastExcept is Broadcast minus one handle. Used for typing indicators
// so senders do not see their own echo.
func (h *Hub) BroadcastExcept(room string, except Conn, ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c, e := range h.conns {
		if e.room == room && c != except {
			_ = c.Send(ev)
		}
	}
}
