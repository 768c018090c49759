package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"moodchat/internal/database"
	"moodchat/internal/metrics"
	"moodchat/internal/models"
	"moodchat/internal/sentiment"
	"moodchat/pkg/logger"
)

// Pipeline validates, scores, persists, and fans out chat messages and
// deletions. No membership or presence lock is held while the scorer
// or the store is in flight; broadcasting re-reads membership after
// the write completes. Within a room, messages go out in the order
// their writes complete, which under concurrent senders may differ
// from submission order.
type Pipeline struct {
	registry     *Registry
	hub          *Hub
	typing       *TypingTracker
	store        database.MessageRepository
	scorer       sentiment.Scorer
	scoreTimeout time.Duration
	metrics      metrics.Collector
}

func NewPipeline(
	registry *Registry,
	hub *Hub,
	typing *TypingTracker,
	store database.MessageRepository,
	scorer sentiment.Scorer,
	scoreTimeout time.Duration,
	collector metrics.Collector,
) *Pipeline {
	return &Pipeline{
		registry:     registry,
		hub:          hub,
		typing:       typing,
		store:        store,
		scorer:       scorer,
		scoreTimeout: scoreTimeout,
		metrics:      collector,
	}
}

// Submit runs a message through validate -> score -> persist ->
// broadcast. A scorer failure degrades to a neutral score; a
// persistence failure fails the submission and nothing is broadcast.
// The sender's typing flag is cleared after a successful send.
func (p *Pipeline) Submit(ctx context.Context, connID, room, text string) (*models.Message, error) {
	sess, ok := p.registry.Get(connID)
	if !ok {
		return nil, ErrNotInRoom
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrInvalidMessage
	}
	if p.registry.CurrentRoom(connID) != room {
		return nil, ErrNotInRoom
	}

	msg := &models.Message{
		Text:      text,
		Sentiment: p.score(ctx, text),
		AuthorID:  sess.Identity.UserID,
		Author:    sess.Identity.Username,
		Room:      room,
		CreatedAt: time.Now().UTC(),
	}

	id, err := p.store.SaveMessage(ctx, msg)
	if err != nil {
		p.metrics.RecordPersistFailure()
		return nil, fmt.Errorf("%w: %v", ErrPersist, err)
	}
	msg.ID = id
	p.metrics.RecordMessagePersisted()

	// The sender may have disconnected while the write was in
	// flight; the message stays persisted and the broadcast simply
	// no longer reaches that connection.
	p.hub.Broadcast(room, newMessageEvent(msg))
	p.typing.Clear(connID)

	return msg, nil
}

// Delete removes a message and broadcasts an id-only tombstone to the
// room the message belonged to. Only the author may delete.
func (p *Pipeline) Delete(ctx context.Context, connID, messageID string) error {
	sess, ok := p.registry.Get(connID)
	if !ok {
		return ErrForbidden
	}

	msg, err := p.store.FindMessageByID(ctx, messageID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	if msg == nil {
		return ErrMessageNotFound
	}
	if msg.AuthorID != sess.Identity.UserID {
		return ErrForbidden
	}

	deleted, err := p.store.DeleteMessageByID(ctx, messageID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	if !deleted {
		return ErrMessageNotFound
	}

	p.hub.Broadcast(msg.Room, newMessageDeletedEvent(messageID))
	return nil
}

// score calls the sentiment scorer under a bounded timeout. Any
// failure degrades to a neutral score of zero; message delivery never
// waits on scoring quality.
func (p *Pipeline) score(ctx context.Context, text string) int {
	scoreCtx, cancel := context.WithTimeout(ctx, p.scoreTimeout)
	defer cancel()

	start := time.Now()
	score, err := p.scorer.Score(scoreCtx, text)
	p.metrics.RecordScoreLatency(time.Since(start))
	if err != nil {
		p.metrics.RecordScorerFailure()
		logger.Warn("Sentiment scorer failed, using neutral score: %v", err)
		return 0
	}
	return score
}
