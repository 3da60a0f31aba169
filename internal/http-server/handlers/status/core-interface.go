package status

import (
	"context"

	"SaborBot/entity"
)

type Core interface {
	GetBotStatus(ctx context.Context) (entity.BotStatus, error)
	SetBotStatus(ctx context.Context, status entity.BotStatus) error
	TransportReady() bool
}
