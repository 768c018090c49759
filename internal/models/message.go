package models

import "time"

// Message is a persisted chat message. Sentiment is an integer score:
// positive means favorable, negative unfavorable, zero neutral or
// unknown (the scorer was unavailable).
type Message struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Sentiment int       `json:"sentiment"`
	AuthorID  string    `json:"author_id"`
	Author    string    `json:"author"`
	Room      string    `json:"room"`
	CreatedAt time.Time `json:"created_at"`
}
