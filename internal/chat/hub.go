package chat

import (
	"sync"

	"moodchat/internal/metrics"
)

// Hub multiplexes events to the connections bound to each room. A
// session is in at most one room; joining a new room implicitly
// leaves the previous one. Membership is kept in join order, which is
// the per-room delivery order for broadcasts.
//
// Lock order: Hub.mu may be held while taking Registry.mu, never the
// reverse. Broadcasts snapshot membership under the lock and deliver
// after releasing it, so a slow consumer never serializes other rooms.
type Hub struct {
	mu       sync.Mutex
	rooms    map[string][]string // room name -> connection ids, join order
	registry *Registry
	metrics  metrics.Collector
}

func NewHub(registry *Registry, collector metrics.Collector) *Hub {
	return &Hub{
		rooms:    make(map[string][]string),
		registry: registry,
		metrics:  collector,
	}
}

// Join adds the connection to a room, leaving its previous room first
// if it had one. It returns the previous room ("" if none). No event
// is broadcast to the new room's members; clients fetch history
// themselves.
func (h *Hub) Join(connID, room string) (string, bool) {
	if _, ok := h.registry.Get(connID); !ok {
		return "", false
	}

	h.mu.Lock()
	prev := h.registry.CurrentRoom(connID)
	if prev == room {
		h.mu.Unlock()
		return prev, true
	}
	if prev != "" {
		h.rooms[prev] = removeMember(h.rooms[prev], connID)
		if len(h.rooms[prev]) == 0 {
			delete(h.rooms, prev)
		}
	}
	h.rooms[room] = append(h.rooms[room], connID)
	h.registry.setRoom(connID, room)
	h.mu.Unlock()

	return prev, true
}

// Leave removes the connection from its current room, if any.
func (h *Hub) Leave(connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room := h.registry.CurrentRoom(connID)
	if room == "" {
		return
	}

	h.rooms[room] = removeMember(h.rooms[room], connID)
	if len(h.rooms[room]) == 0 {
		delete(h.rooms, room)
	}
	h.registry.setRoom(connID, "")
}

// Members returns the room's connection ids in join order.
func (h *Hub) Members(room string) []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	members := make([]string, len(h.rooms[room]))
	copy(members, h.rooms[room])
	return members
}

// Broadcast delivers an event to every connection in the room, in
// join order. Delivery to a connection that has disconnected or whose
// queue is full is silently dropped.
func (h *Hub) Broadcast(room string, event ServerEvent) {
	h.deliver(h.Members(room), event)
}

// BroadcastGlobal delivers an event to all live connections regardless
// of room. Used for presence updates only.
func (h *Hub) BroadcastGlobal(event ServerEvent) {
	sessions := h.registry.Sessions()

	frame := event.encode()
	for _, sess := range sessions {
		if !sess.push(frame) {
			h.metrics.RecordDroppedFrame()
		}
	}
}

// Send delivers an event to a single connection, best-effort.
func (h *Hub) Send(connID string, event ServerEvent) {
	h.deliver([]string{connID}, event)
}

func (h *Hub) deliver(connIDs []string, event ServerEvent) {
	frame := event.encode()
	for _, connID := range connIDs {
		sess, ok := h.registry.Get(connID)
		if !ok {
			continue
		}
		if !sess.push(frame) {
			h.metrics.RecordDroppedFrame()
		}
	}
}

func removeMember(members []string, connID string) []string {
	for i, id := range members {
		if id == connID {
			return append(members[:i], members[i+1:]...)
		}
	}
	return members
}
