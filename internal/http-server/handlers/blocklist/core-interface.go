package blocklist

import "context"

type Core interface {
	BlockNumber(ctx context.Context, chatID string) error
	UnblockNumber(ctx context.Context, chatID string) error
	ListBlockedNumbers(ctx context.Context) ([]string, error)
}
