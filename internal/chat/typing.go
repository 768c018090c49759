package chat

import "sync"

// TypingTracker keeps the per-room set of usernames currently typing.
// A username counts as typing in a room while at least one of its
// member connections has the flag set; only transitions of the
// username's aggregate flag are broadcast. Entries are cleared when a
// connection leaves its room or disconnects, so no room's typing set
// ever names a user without a live member session there.
type TypingTracker struct {
	mu       sync.Mutex
	rooms    map[string]map[string]map[string]struct{} // room -> username -> typing conn ids
	registry *Registry
	hub      *Hub
}

func NewTypingTracker(registry *Registry, hub *Hub) *TypingTracker {
	return &TypingTracker{
		rooms:    make(map[string]map[string]map[string]struct{}),
		registry: registry,
		hub:      hub,
	}
}

// SetTyping updates the typing flag for the connection in its current
// room. Connections that have not joined a room are ignored. When the
// username's aggregate flag flips, the change is broadcast to the room
// as a single-user delta.
func (t *TypingTracker) SetTyping(connID string, isTyping bool) {
	sess, ok := t.registry.Get(connID)
	if !ok {
		return
	}
	room := t.registry.CurrentRoom(connID)
	if room == "" {
		return
	}

	username := sess.Identity.Username
	if flipped := t.update(room, username, connID, isTyping); flipped {
		t.hub.Broadcast(room, newUserTypingEvent(username, isTyping))
	}
}

// Clear drops the connection's typing entry, as if it had sent
// typing=false. Called on room leave, on disconnect, and after a
// successful message send. Idempotent.
func (t *TypingTracker) Clear(connID string) {
	t.SetTyping(connID, false)
}

// Typing returns the usernames currently typing in the room.
func (t *TypingTracker) Typing(room string) []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	var users []string
	for username := range t.rooms[room] {
		users = append(users, username)
	}
	return users
}

// update mutates the typing tables and reports whether the username's
// aggregate flag changed.
func (t *TypingTracker) update(room, username, connID string, isTyping bool) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	usernames := t.rooms[room]

	if isTyping {
		if usernames == nil {
			usernames = make(map[string]map[string]struct{})
			t.rooms[room] = usernames
		}
		conns := usernames[username]
		if conns == nil {
			conns = make(map[string]struct{})
			usernames[username] = conns
		}
		conns[connID] = struct{}{}
		return len(conns) == 1
	}

	conns, ok := usernames[username]
	if !ok {
		return false
	}
	if _, ok := conns[connID]; !ok {
		return false
	}
	delete(conns, connID)
	if len(conns) > 0 {
		return false
	}
	delete(usernames, username)
	if len(usernames) == 0 {
		delete(t.rooms, room)
	}
	return true
}
