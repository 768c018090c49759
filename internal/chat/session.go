package chat

import (
	"sync"

	"moodchat/internal/models"
)

// Session is the live binding between one connection and one verified
// identity. The identity is fixed for the session's lifetime; the
// current room is guarded by the Registry.
type Session struct {
	ID       string
	Identity models.Identity

	room string // guarded by Registry.mu; "" until the first join

	outbox    chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func newSession(id string, identity models.Identity, sendBuffer int) *Session {
	return &Session{
		ID:       id,
		Identity: identity,
		outbox:   make(chan []byte, sendBuffer),
		done:     make(chan struct{}),
	}
}

// Outbox is drained by the transport's write loop.
func (s *Session) Outbox() <-chan []byte {
	return s.outbox
}

// Done is closed when the session is unregistered. The transport's
// write loop exits on it.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// push queues a frame without blocking. A closed session or a full
// queue drops the frame; delivery is best-effort.
func (s *Session) push(frame []byte) bool {
	select {
	case <-s.done:
		return false
	default:
	}

	select {
	case s.outbox <- frame:
		return true
	default:
		return false
	}
}

func (s *Session) close() {
	s.closeOnce.Do(func() {
		close(s.done)
	})
}
