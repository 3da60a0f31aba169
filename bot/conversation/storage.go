package conversation

import (
	"SaborBot/entity"
	"context"
	"time"
)

// Store is the persistence contract of the conversation engine. Lookups
// return (nil, nil) or (false, nil) when no row exists; "not found" is a
// normal result, not an error. Bulk Clear* operations are idempotent.
type Store interface {
	IsBlocked(ctx context.Context, chatID string) (bool, error)
	LogMessage(ctx context.Context, entry entity.MessageLogEntry) error

	IsGreeted(ctx context.Context, chatID string) (bool, error)
	MarkGreeted(ctx context.Context, chatID string) error
	ResetGreeting(ctx context.Context, chatID string) error
	ListGreetedChats(ctx context.Context) ([]string, error)
	ClearGreetings(ctx context.Context) error

	InHandoff(ctx context.Context, chatID string) (bool, error)
	StartHandoff(ctx context.Context, chatID string) error
	EndHandoff(ctx context.Context, chatID string) error
	ListHandoffChats(ctx context.Context) ([]string, error)
	ClearHandoffs(ctx context.Context) error

	GetAttendance(ctx context.Context, chatID string) (*entity.Attendance, error)
	UpsertAttendance(ctx context.Context, att entity.Attendance) error
	DeleteAttendance(ctx context.Context, chatID string) error
	ListActiveAttendances(ctx context.Context, since time.Time) ([]entity.Attendance, error)
	ClearAttendances(ctx context.Context) error

	GetDraft(ctx context.Context, chatID string) (*entity.RegistrationDraft, error)
	SaveDraft(ctx context.Context, draft entity.RegistrationDraft) error
	DeleteDraft(ctx context.Context, chatID string) error
	ListDraftChats(ctx context.Context) ([]string, error)
	ClearDrafts(ctx context.Context) error

	CreateRegistration(ctx context.Context, reg entity.Registration) (int64, error)
	ListRegistrations(ctx context.Context) ([]entity.Registration, error)
	DeleteRegistration(ctx context.Context, id int64) error
	ClearRegistrations(ctx context.Context) error

	GetPendingAction(ctx context.Context, chatID string) (*entity.PendingAction, error)
	SavePendingAction(ctx context.Context, action entity.PendingAction) error
	ClearPendingAction(ctx context.Context, chatID string) error
}

// Gate is the global bot-status switch consulted on every inbound message.
type Gate interface {
	Get(ctx context.Context) (entity.BotStatus, error)
	Set(ctx context.Context, status entity.BotStatus) error
}
