package session

import (
	"context"

	"SaborBot/entity"
)

type Core interface {
	SessionsOverview(ctx context.Context) (*entity.SessionOverview, error)
	Intervene(ctx context.Context, chatID string) error
	Reactivate(ctx context.Context, chatID string) error
	ResetGreeting(ctx context.Context, chatID string) error
	ChatMessages(ctx context.Context, chatID string, limit int64) ([]entity.MessageLogEntry, error)
}
