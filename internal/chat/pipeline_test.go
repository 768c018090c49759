package chat

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPipeline_Submit(t *testing.T) {
	t.Run("should persist and broadcast a scored message", func(t *testing.T) {
		req := require.New(t)
		c := newCore(t)
		c.scorer.fn = func(ctx context.Context, text string) (int, error) { return 3, nil }

		alice := c.connect(t, "alice")
		bob := c.connect(t, "bob")
		c.hub.Join(alice.ID, "general")
		c.hub.Join(bob.ID, "general")
		drain(t, alice)
		drain(t, bob)

		msg, err := c.pipeline.Submit(context.Background(), alice.ID, "general", "great day")

		req.NoError(err)
		req.Equal("msg-1", msg.ID)
		req.Equal(3, msg.Sentiment)
		req.Equal("alice", msg.Author)
		req.Equal("uid-alice", msg.AuthorID)
		req.Equal("general", msg.Room)
		req.WithinDuration(time.Now().UTC(), msg.CreatedAt, time.Minute)

		for _, sess := range []*Session{alice, bob} {
			events := eventsOfType(drain(t, sess), EventMessage)
			req.Len(events, 1)
			req.Equal("great day", events[0].Message.Text)
			req.Equal(3, events[0].Message.Sentiment)
			req.Equal("alice", events[0].Message.Author)
		}
	})

	t.Run("should reject whitespace-only text", func(t *testing.T) {
		req := require.New(t)
		c := newCore(t)

		alice := c.connect(t, "alice")
		c.hub.Join(alice.ID, "general")

		_, err := c.pipeline.Submit(context.Background(), alice.ID, "general", "   \t\n")
		req.ErrorIs(err, ErrInvalidMessage)
		req.Zero(c.store.count())
	})

	t.Run("should reject a sender that is not in the room", func(t *testing.T) {
		req := require.New(t)
		c := newCore(t)

		alice := c.connect(t, "alice")
		c.hub.Join(alice.ID, "random")

		_, err := c.pipeline.Submit(context.Background(), alice.ID, "general", "hello")
		req.ErrorIs(err, ErrNotInRoom)
		req.Zero(c.store.count())
	})

	t.Run("should degrade to a neutral score when the scorer fails", func(t *testing.T) {
		req := require.New(t)
		c := newCore(t)
		c.scorer.fn = func(ctx context.Context, text string) (int, error) {
			return 0, errors.New("scorer down")
		}

		alice := c.connect(t, "alice")
		c.hub.Join(alice.ID, "general")
		drain(t, alice)

		msg, err := c.pipeline.Submit(context.Background(), alice.ID, "general", "great day")

		req.NoError(err)
		req.Zero(msg.Sentiment)
		req.Equal(1, c.store.count())
	})

	t.Run("should degrade to a neutral score when the scorer times out", func(t *testing.T) {
		req := require.New(t)
		c := newCore(t)
		c.pipeline.scoreTimeout = 10 * time.Millisecond
		c.scorer.fn = func(ctx context.Context, text string) (int, error) {
			select {
			case <-ctx.Done():
				return 0, ctx.Err()
			case <-time.After(time.Second):
				return 5, nil
			}
		}

		alice := c.connect(t, "alice")
		c.hub.Join(alice.ID, "general")
		drain(t, alice)

		msg, err := c.pipeline.Submit(context.Background(), alice.ID, "general", "great day")

		req.NoError(err)
		req.Zero(msg.Sentiment)
	})

	t.Run("should fail without broadcasting when persistence fails", func(t *testing.T) {
		req := require.New(t)
		c := newCore(t)
		c.store.saveErr = errors.New("store unreachable")

		alice := c.connect(t, "alice")
		bob := c.connect(t, "bob")
		c.hub.Join(alice.ID, "general")
		c.hub.Join(bob.ID, "general")
		drain(t, alice)
		drain(t, bob)

		_, err := c.pipeline.Submit(context.Background(), alice.ID, "general", "hello")

		req.ErrorIs(err, ErrPersist)
		req.Empty(eventsOfType(drain(t, bob), EventMessage))
		// Membership and presence are untouched by the failure.
		req.Equal([]string{alice.ID, bob.ID}, c.hub.Members("general"))
		req.Equal([]string{"alice", "bob"}, c.registry.OnlineUsers())
	})

	t.Run("should clear the sender's typing flag after a successful send", func(t *testing.T) {
		req := require.New(t)
		c := newCore(t)

		alice := c.connect(t, "alice")
		bob := c.connect(t, "bob")
		c.hub.Join(alice.ID, "general")
		c.hub.Join(bob.ID, "general")
		c.typing.SetTyping(alice.ID, true)
		drain(t, bob)

		_, err := c.pipeline.Submit(context.Background(), alice.ID, "general", "done typing")
		req.NoError(err)

		events := eventsOfType(drain(t, bob), EventUserTyping)
		req.Len(events, 1)
		req.False(events[0].Typing.IsTyping)
		req.Empty(c.typing.Typing("general"))
	})

	t.Run("should still persist and deliver when the sender disconnects mid-flight", func(t *testing.T) {
		req := require.New(t)
		c := newCore(t)

		alice := c.connect(t, "alice")
		bob := c.connect(t, "bob")
		c.hub.Join(alice.ID, "general")
		c.hub.Join(bob.ID, "general")
		drain(t, alice)
		drain(t, bob)

		c.store.saveHook = func() {
			c.controller.Disconnect(alice.ID)
		}

		msg, err := c.pipeline.Submit(context.Background(), alice.ID, "general", "parting words")

		req.NoError(err)
		req.Equal(1, c.store.count())
		req.NotEmpty(msg.ID)

		events := eventsOfType(drain(t, bob), EventMessage)
		req.Len(events, 1)
		req.Equal("parting words", events[0].Message.Text)
		// The sender is gone; its delivery was dropped, not retried.
		req.False(alice.push([]byte("anything")))
	})
}

func TestPipeline_Delete(t *testing.T) {
	submit := func(t *testing.T, c *core, sess *Session) string {
		t.Helper()
		msg, err := c.pipeline.Submit(context.Background(), sess.ID, "general", "to be deleted")
		require.NoError(t, err)
		return msg.ID
	}

	t.Run("should delete and broadcast a tombstone to the message's room", func(t *testing.T) {
		req := require.New(t)
		c := newCore(t)

		alice := c.connect(t, "alice")
		bob := c.connect(t, "bob")
		outsider := c.connect(t, "carol")
		c.hub.Join(alice.ID, "general")
		c.hub.Join(bob.ID, "general")
		c.hub.Join(outsider.ID, "random")
		id := submit(t, c, alice)
		drain(t, alice)
		drain(t, bob)
		drain(t, outsider)

		req.NoError(c.pipeline.Delete(context.Background(), alice.ID, id))

		events := eventsOfType(drain(t, bob), EventMessageDeleted)
		req.Len(events, 1)
		req.Equal(id, events[0].ID)
		// Deletion stays scoped to the room the message belonged to.
		req.Empty(drain(t, outsider))
		req.Zero(c.store.count())
	})

	t.Run("should refuse deletion by anyone but the author", func(t *testing.T) {
		req := require.New(t)
		c := newCore(t)

		alice := c.connect(t, "alice")
		bob := c.connect(t, "bob")
		c.hub.Join(alice.ID, "general")
		c.hub.Join(bob.ID, "general")
		id := submit(t, c, alice)

		err := c.pipeline.Delete(context.Background(), bob.ID, id)
		req.ErrorIs(err, ErrForbidden)
		req.Equal(1, c.store.count())
	})

	t.Run("should report an unknown message id", func(t *testing.T) {
		req := require.New(t)
		c := newCore(t)

		alice := c.connect(t, "alice")
		c.hub.Join(alice.ID, "general")

		err := c.pipeline.Delete(context.Background(), alice.ID, "msg-404")
		req.ErrorIs(err, ErrMessageNotFound)
	})
}
