package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"moodchat/internal/metrics"
	"moodchat/internal/models"

	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory stand-in for the persistence collaborator.
type fakeStore struct {
	mu       sync.Mutex
	messages map[string]*models.Message
	nextID   int

	saveErr  error
	saveHook func() // runs inside SaveMessage, before the write lands
}

func newFakeStore() *fakeStore {
	return &fakeStore{messages: make(map[string]*models.Message)}
}

func (s *fakeStore) SaveMessage(ctx context.Context, msg *models.Message) (string, error) {
	if s.saveHook != nil {
		s.saveHook()
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.saveErr != nil {
		return "", s.saveErr
	}

	s.nextID++
	id := fmt.Sprintf("msg-%d", s.nextID)
	stored := *msg
	stored.ID = id
	s.messages[id] = &stored
	return id, nil
}

func (s *fakeStore) FindMessageByID(ctx context.Context, id string) (*models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg, ok := s.messages[id]
	if !ok {
		return nil, nil
	}
	copied := *msg
	return &copied, nil
}

func (s *fakeStore) DeleteMessageByID(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.messages[id]; !ok {
		return false, nil
	}
	delete(s.messages, id)
	return true, nil
}

func (s *fakeStore) FindMessagesByRoom(ctx context.Context, room string, limit int) ([]*models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*models.Message
	for _, msg := range s.messages {
		if msg.Room == room {
			copied := *msg
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (s *fakeStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}

// fakeScorer scores via a pluggable function.
type fakeScorer struct {
	fn func(ctx context.Context, text string) (int, error)
}

func (s *fakeScorer) Score(ctx context.Context, text string) (int, error) {
	if s.fn == nil {
		return 0, nil
	}
	return s.fn(ctx, text)
}

type core struct {
	registry   *Registry
	hub        *Hub
	typing     *TypingTracker
	pipeline   *Pipeline
	controller *Controller
	store      *fakeStore
	scorer     *fakeScorer
}

func newCore(t *testing.T) *core {
	t.Helper()

	store := newFakeStore()
	scorer := &fakeScorer{}

	registry := NewRegistry(64)
	hub := NewHub(registry, metrics.Nop{})
	typing := NewTypingTracker(registry, hub)
	pipeline := NewPipeline(registry, hub, typing, store, scorer, time.Second, metrics.Nop{})
	controller := NewController(registry, hub, typing, pipeline, []string{"general", "random", "tech"}, metrics.Nop{})

	return &core{
		registry:   registry,
		hub:        hub,
		typing:     typing,
		pipeline:   pipeline,
		controller: controller,
		store:      store,
		scorer:     scorer,
	}
}

func (c *core) connect(t *testing.T, username string) *Session {
	t.Helper()

	sess, err := c.controller.Connect(models.Identity{UserID: "uid-" + username, Username: username})
	require.NoError(t, err)
	return sess
}

func (c *core) handle(t *testing.T, sess *Session, event ClientEvent) {
	t.Helper()

	raw, err := json.Marshal(event)
	require.NoError(t, err)
	c.controller.Handle(context.Background(), sess, raw)
}

// drain empties the session's outbox and decodes every frame.
func drain(t *testing.T, sess *Session) []ServerEvent {
	t.Helper()

	var events []ServerEvent
	for {
		select {
		case frame := <-sess.Outbox():
			var event ServerEvent
			require.NoError(t, json.Unmarshal(frame, &event))
			events = append(events, event)
		default:
			return events
		}
	}
}

// eventsOfType filters drained events by type.
func eventsOfType(events []ServerEvent, eventType EventType) []ServerEvent {
	var out []ServerEvent
	for _, e := range events {
		if e.Event == eventType {
			out = append(out, e)
		}
	}
	return out
}
