package chat

import "io"

// Messenger is the messaging transport adapter interface. The conversation
// engine only ever sends through it; receiving is wired by the transport
// calling into the engine.
type Messenger interface {
	SendText(chatID, text string) error
	SendFile(chatID string, file FileMessage) error
}

// ContactLookup resolves counterpart details on the transport.
type ContactLookup interface {
	// DisplayName returns the contact's push name, or "" when unknown.
	DisplayName(chatID string) string
	// IsRegistered reports whether the chat id is reachable on the transport.
	IsRegistered(chatID string) (bool, error)
}

// FileMessage is an outbound document with a caption.
type FileMessage struct {
	Filename string
	Caption  string
	Reader   io.Reader
}

// Message is a normalized inbound message event.
type Message struct {
	From string // chat id of the counterpart
	Body string // raw text
	ID   string // transport-assigned message id
}
