package core

import (
	"context"
	"fmt"

	"SaborBot/entity"
)

func (c *Core) GetBotStatus(ctx context.Context) (entity.BotStatus, error) {
	if c.status == nil {
		return entity.BotActive, fmt.Errorf("status service is not set")
	}
	return c.status.Get(ctx)
}

func (c *Core) SetBotStatus(ctx context.Context, status entity.BotStatus) error {
	if c.status == nil {
		return fmt.Errorf("status service is not set")
	}
	return c.status.Set(ctx, status)
}

func (c *Core) SessionsOverview(ctx context.Context) (*entity.SessionOverview, error) {
	if c.conv == nil {
		return nil, fmt.Errorf("conversation engine is not set")
	}
	return c.conv.SessionsOverview(ctx)
}

// Intervene pauses the bot for a chat so a human agent can take over, the
// same transition option 9 of the admin chat menu performs.
func (c *Core) Intervene(ctx context.Context, chatID string) error {
	if c.repo == nil {
		return fmt.Errorf("repository is not set")
	}
	if err := c.repo.StartHandoff(ctx, chatID); err != nil {
		return fmt.Errorf("failed to start handoff: %w", err)
	}
	if err := c.repo.DeleteAttendance(ctx, chatID); err != nil {
		return fmt.Errorf("failed to clear attendance: %w", err)
	}
	c.broadcastSessions(ctx)
	return nil
}

// Reactivate returns a chat from handoff back to the bot.
func (c *Core) Reactivate(ctx context.Context, chatID string) error {
	if c.repo == nil {
		return fmt.Errorf("repository is not set")
	}
	if err := c.repo.EndHandoff(ctx, chatID); err != nil {
		return fmt.Errorf("failed to end handoff: %w", err)
	}
	if err := c.repo.DeleteAttendance(ctx, chatID); err != nil {
		return fmt.Errorf("failed to clear attendance: %w", err)
	}
	c.broadcastSessions(ctx)
	return nil
}

// ResetGreeting clears the greeted mark so the chat is welcomed again.
func (c *Core) ResetGreeting(ctx context.Context, chatID string) error {
	if c.repo == nil {
		return fmt.Errorf("repository is not set")
	}
	return c.repo.ResetGreeting(ctx, chatID)
}

// ChatMessages returns the newest logged messages for a chat.
func (c *Core) ChatMessages(ctx context.Context, chatID string, limit int64) ([]entity.MessageLogEntry, error) {
	if c.repo == nil {
		return nil, fmt.Errorf("repository is not set")
	}
	return c.repo.ListMessages(ctx, chatID, limit)
}

func (c *Core) broadcastSessions(ctx context.Context) {
	if c.hub == nil || c.conv == nil {
		return
	}
	overview, err := c.conv.SessionsOverview(ctx)
	if err != nil {
		return
	}
	c.hub.BroadcastSessions(overview)
}
