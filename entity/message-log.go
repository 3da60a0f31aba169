package entity

import "time"

// MessageLogEntry is one inbound message recorded for auditing.
type MessageLogEntry struct {
	ChatID    string    `json:"chat_id" bson:"chat_id"`
	Body      string    `json:"body" bson:"body"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
