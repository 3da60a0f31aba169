package core

import (
	"context"
	"fmt"
)

func (c *Core) BlockNumber(ctx context.Context, chatID string) error {
	if c.repo == nil {
		return fmt.Errorf("repository is not set")
	}
	return c.repo.BlockNumber(ctx, chatID)
}

func (c *Core) UnblockNumber(ctx context.Context, chatID string) error {
	if c.repo == nil {
		return fmt.Errorf("repository is not set")
	}
	return c.repo.UnblockNumber(ctx, chatID)
}

func (c *Core) ListBlockedNumbers(ctx context.Context) ([]string, error) {
	if c.repo == nil {
		return nil, fmt.Errorf("repository is not set")
	}
	return c.repo.ListBlockedNumbers(ctx)
}
