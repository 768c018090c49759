package chat

import (
	"context"
	"encoding/json"
	"errors"

	"moodchat/internal/metrics"
	"moodchat/internal/models"
	"moodchat/pkg/logger"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Controller orchestrates the session registry, room hub, typing
// tracker, and message pipeline over a connection's lifetime. The
// transport verifies the credential, then calls Connect once, Handle
// for every inbound frame (on the connection's read goroutine), and
// Disconnect when the connection goes away.
type Controller struct {
	registry *Registry
	hub      *Hub
	typing   *TypingTracker
	pipeline *Pipeline
	rooms    []string
	metrics  metrics.Collector
}

func NewController(
	registry *Registry,
	hub *Hub,
	typing *TypingTracker,
	pipeline *Pipeline,
	rooms []string,
	collector metrics.Collector,
) *Controller {
	return &Controller{
		registry: registry,
		hub:      hub,
		typing:   typing,
		pipeline: pipeline,
		rooms:    rooms,
		metrics:  collector,
	}
}

// Connect registers a session for a verified identity. The new
// connection always receives the current presence set; everyone else
// is notified only when the username actually came online.
func (c *Controller) Connect(identity models.Identity) (*Session, error) {
	connID := uuid.NewString()

	sess, cameOnline, err := c.registry.Register(connID, identity)
	if err != nil {
		logger.Error("Refusing connection for %s: %v", identity.Username, err)
		return nil, err
	}
	c.metrics.ConnectionOpened()
	logger.Info("User %s connected (%s)", identity.Username, connID)

	if cameOnline {
		c.hub.BroadcastGlobal(newOnlineUsersEvent(c.registry.OnlineUsers()))
	} else {
		c.hub.Send(connID, newOnlineUsersEvent(c.registry.OnlineUsers()))
	}

	return sess, nil
}

// Disconnect tears a session down: typing entry cleared, room left,
// session unregistered, presence broadcast when the username went
// offline. Idempotent; a second call for the same connection id is a
// no-op. In-flight submissions for the connection are unaffected.
func (c *Controller) Disconnect(connID string) {
	c.typing.Clear(connID)
	c.hub.Leave(connID)

	sess, wentOffline := c.registry.Unregister(connID)
	if sess == nil {
		return
	}
	c.metrics.ConnectionClosed()
	logger.Info("User %s disconnected (%s)", sess.Identity.Username, connID)

	if wentOffline {
		c.hub.BroadcastGlobal(newOnlineUsersEvent(c.registry.OnlineUsers()))
	}
}

// Handle dispatches one inbound frame. Per-event failures are
// reported to the originating connection only and never disturb other
// sessions.
func (c *Controller) Handle(ctx context.Context, sess *Session, raw []byte) {
	var event ClientEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		c.hub.Send(sess.ID, newErrorEvent("bad_event", "malformed event"))
		return
	}

	switch event.Event {
	case EventJoin:
		c.handleJoin(sess, event.Room)
	case EventSendMessage:
		if _, err := c.pipeline.Submit(ctx, sess.ID, event.Room, event.Text); err != nil {
			c.reportError(sess, err)
		}
	case EventDeleteMessage:
		if err := c.pipeline.Delete(ctx, sess.ID, event.ID); err != nil {
			c.reportError(sess, err)
		}
	case EventTyping:
		c.typing.SetTyping(sess.ID, event.IsTyping)
	default:
		c.hub.Send(sess.ID, newErrorEvent("bad_event", "unknown event type"))
	}
}

func (c *Controller) handleJoin(sess *Session, room string) {
	if !lo.Contains(c.rooms, room) {
		c.reportError(sess, ErrUnknownRoom)
		return
	}

	// Leaving a room clears the typing flag there; do it while the
	// session is still a member so the old room sees the change.
	if c.registry.CurrentRoom(sess.ID) != room {
		c.typing.Clear(sess.ID)
	}
	c.hub.Join(sess.ID, room)
}

// RateLimited tells a connection its events are being dropped. The
// transport calls this instead of Handle when the connection exceeds
// its inbound rate.
func (c *Controller) RateLimited(sess *Session) {
	c.hub.Send(sess.ID, newErrorEvent("rate_limited", "too many events, slow down"))
}

func (c *Controller) reportError(sess *Session, err error) {
	code := "internal"
	switch {
	case errors.Is(err, ErrUnknownRoom):
		code = "unknown_room"
	case errors.Is(err, ErrNotInRoom):
		code = "not_in_room"
	case errors.Is(err, ErrInvalidMessage):
		code = "invalid_message"
	case errors.Is(err, ErrPersist):
		code = "persist_failed"
	case errors.Is(err, ErrMessageNotFound):
		code = "not_found"
	case errors.Is(err, ErrForbidden):
		code = "forbidden"
	}

	c.hub.Send(sess.ID, newErrorEvent(code, err.Error()))
}
