package entity

import "time"

// RegistrationDraft is an in-progress registration, keyed by chat id.
// Step advances through the fixed sequence in bot/conversation.
type RegistrationDraft struct {
	ChatID       string `json:"chat_id" bson:"chat_id"`
	Step         string `json:"step" bson:"step"`
	Name         string `json:"name" bson:"name"`
	Phone        string `json:"phone" bson:"phone"`
	BusinessName string `json:"business_name" bson:"business_name"`
	OriginChatID string `json:"origin_chat_id" bson:"origin_chat_id"`
}

// Registration is a committed registration. Rows are append-only and only
// ever removed by id through an admin action.
type Registration struct {
	ID           int64     `json:"id" bson:"id"`
	Name         string    `json:"name" bson:"name"`
	Phone        string    `json:"phone" bson:"phone"`
	BusinessName string    `json:"business_name" bson:"business_name"`
	OriginChatID string    `json:"origin_chat_id" bson:"origin_chat_id"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}
