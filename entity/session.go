package entity

import "time"

// Attendance labels recorded alongside the session row. Menu options store
// the raw option digit as the label.
const (
	LabelMenu     = "menu_principal"
	LabelNewOrder = "novo_pedido"
	LabelSupport  = "atendimento"
)

// Attendance is the active-session row for a chat. A chat with no row is
// treated as fresh.
type Attendance struct {
	ChatID       string    `json:"chat_id" bson:"chat_id"`
	Label        string    `json:"label" bson:"label"`
	LastActivity time.Time `json:"last_activity" bson:"last_activity"`
}

// ChatEntry is a single chat in a dashboard session listing.
type ChatEntry struct {
	ChatID      string `json:"chat_id"`
	DisplayName string `json:"display_name"`
	Label       string `json:"label,omitempty"`
}

// SessionOverview is the dashboard breakdown of all known chats by mode.
// Menu holds greeted chats that are in none of the other groups.
type SessionOverview struct {
	Attended       []ChatEntry `json:"attended"`
	InHandoff      []ChatEntry `json:"in_handoff"`
	InRegistration []ChatEntry `json:"in_registration"`
	Menu           []ChatEntry `json:"menu"`
}
