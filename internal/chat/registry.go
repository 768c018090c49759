package chat

import (
	"sort"
	"sync"

	"moodchat/internal/models"

	"github.com/samber/lo"
)

// Registry maps live connections to their verified identity and
// current room, and maintains the global presence set. Presence is
// reference-counted per username: a username stays online as long as
// at least one of its sessions is connected.
type Registry struct {
	mu         sync.Mutex
	sessions   map[string]*Session
	presence   map[string]int
	sendBuffer int
}

func NewRegistry(sendBuffer int) *Registry {
	return &Registry{
		sessions:   make(map[string]*Session),
		presence:   make(map[string]int),
		sendBuffer: sendBuffer,
	}
}

// Register creates a session for a verified connection. The second
// return reports whether the username just came online, in which case
// the caller broadcasts the updated presence set.
func (r *Registry) Register(connID string, identity models.Identity) (*Session, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[connID]; exists {
		return nil, false, ErrDuplicateConnection
	}

	sess := newSession(connID, identity, r.sendBuffer)
	r.sessions[connID] = sess
	r.presence[identity.Username]++

	return sess, r.presence[identity.Username] == 1, nil
}

// Unregister removes a session. It is idempotent: unknown connection
// ids return (nil, false). The second return reports whether the
// username's last session just went away, in which case the caller
// broadcasts the updated presence set.
func (r *Registry) Unregister(connID string) (*Session, bool) {
	r.mu.Lock()

	sess, exists := r.sessions[connID]
	if !exists {
		r.mu.Unlock()
		return nil, false
	}

	delete(r.sessions, connID)

	username := sess.Identity.Username
	wentOffline := false
	if r.presence[username] > 0 {
		r.presence[username]--
		if r.presence[username] == 0 {
			delete(r.presence, username)
			wentOffline = true
		}
	}
	r.mu.Unlock()

	sess.close()
	return sess, wentOffline
}

func (r *Registry) Get(connID string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.sessions[connID]
	return sess, ok
}

// CurrentRoom returns the room the connection has joined, or "" if it
// has not joined one (or is gone).
func (r *Registry) CurrentRoom(connID string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if sess, ok := r.sessions[connID]; ok {
		return sess.room
	}
	return ""
}

func (r *Registry) setRoom(connID, room string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if sess, ok := r.sessions[connID]; ok {
		sess.room = room
	}
}

// OnlineUsers returns the presence set as a sorted username list.
func (r *Registry) OnlineUsers() []string {
	r.mu.Lock()
	users := lo.Keys(r.presence)
	r.mu.Unlock()

	sort.Strings(users)
	return users
}

// Sessions returns a snapshot of every live session.
func (r *Registry) Sessions() []*Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	return lo.Values(r.sessions)
}
