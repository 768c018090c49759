package chat

import (
	"encoding/json"

	"moodchat/internal/models"
)

type EventType string

// Wire event names. Inbound events come from clients, outbound events
// are fanned out by the core.
const (
	EventJoin          EventType = "join"
	EventSendMessage   EventType = "sendMessage"
	EventDeleteMessage EventType = "deleteMessage"
	EventTyping        EventType = "typing"

	EventMessage        EventType = "message"
	EventMessageDeleted EventType = "messageDeleted"
	EventOnlineUsers    EventType = "onlineUsers"
	EventUserTyping     EventType = "userTyping"
	EventError          EventType = "error"
)

// ClientEvent is an inbound frame. Which fields matter depends on the
// event type.
type ClientEvent struct {
	Event    EventType `json:"event"`
	Room     string    `json:"room,omitempty"`
	Text     string    `json:"text,omitempty"`
	ID       string    `json:"id,omitempty"`
	IsTyping bool      `json:"isTyping,omitempty"`
}

// ServerEvent is an outbound frame.
type ServerEvent struct {
	Event   EventType       `json:"event"`
	Message *models.Message `json:"message,omitempty"`
	ID      string          `json:"id,omitempty"`
	Users   []string        `json:"users,omitempty"`
	Typing  *TypingPayload  `json:"typing,omitempty"`
	Error   *ErrorPayload   `json:"error,omitempty"`
}

type TypingPayload struct {
	Username string `json:"username"`
	IsTyping bool   `json:"isTyping"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func newMessageEvent(msg *models.Message) ServerEvent {
	return ServerEvent{Event: EventMessage, Message: msg}
}

func newMessageDeletedEvent(id string) ServerEvent {
	return ServerEvent{Event: EventMessageDeleted, ID: id}
}

func newOnlineUsersEvent(users []string) ServerEvent {
	return ServerEvent{Event: EventOnlineUsers, Users: users}
}

func newUserTypingEvent(username string, isTyping bool) ServerEvent {
	return ServerEvent{Event: EventUserTyping, Typing: &TypingPayload{Username: username, IsTyping: isTyping}}
}

func newErrorEvent(code, message string) ServerEvent {
	return ServerEvent{Event: EventError, Error: &ErrorPayload{Code: code, Message: message}}
}

func (e ServerEvent) encode() []byte {
	data, err := json.Marshal(e)
	if err != nil {
		// All payload types are marshalable; this cannot fail.
		return nil
	}
	return data
}
