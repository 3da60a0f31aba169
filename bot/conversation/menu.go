package conversation

import (
	"context"
	"fmt"
	"time"

	"SaborBot/entity"
)

// handleMenu dispatches main-menu keywords and option digits. Every
// selection refreshes the session's activity stamp; options 2, 3 and 5
// additionally hand the chat over to a human agent.
func (e *Engine) handleMenu(ctx context.Context, chatID, normalized string) error {
	if normalized == "menu" || normalized == "voltar" {
		if err := e.recordChoice(ctx, chatID, entity.LabelMenu); err != nil {
			return err
		}
		return e.m.SendText(chatID, backToMenuText())
	}

	if normalized == "cadastro" || normalized == "cadastrar" {
		if err := e.store.SaveDraft(ctx, entity.RegistrationDraft{
			ChatID:       chatID,
			Step:         stepName,
			OriginChatID: chatID,
		}); err != nil {
			return fmt.Errorf("starting registration: %w", err)
		}
		return e.m.SendText(chatID, msgRegistrationName)
	}

	option := normalized
	if digit, ok := numberWords[normalized]; ok {
		option = digit
	}

	reply, ok := menuReplies[option]
	if !ok {
		return e.m.SendText(chatID, msgInvalidOption)
	}

	if err := e.recordChoice(ctx, chatID, option); err != nil {
		return err
	}

	header, wantsAgent := handoffOptions[option]
	if wantsAgent {
		if err := e.store.StartHandoff(ctx, chatID); err != nil {
			return fmt.Errorf("starting handoff: %w", err)
		}
	}

	if err := e.m.SendText(chatID, reply); err != nil {
		return err
	}

	if wantsAgent {
		name := e.displayName(chatID)
		e.notifyAdmin(
			handoffNotice(header, name, chatID, e.opts.ChatIdSuffix),
			reactivationHint(chatID),
		)
	}
	return nil
}

func (e *Engine) recordChoice(ctx context.Context, chatID, label string) error {
	if err := e.store.UpsertAttendance(ctx, entity.Attendance{
		ChatID:       chatID,
		Label:        label,
		LastActivity: time.Now(),
	}); err != nil {
		return fmt.Errorf("recording attendance: %w", err)
	}
	return nil
}
