package conversation

import (
	"context"
	"fmt"
	"time"

	"SaborBot/bot/chat"
	"SaborBot/entity"
	"SaborBot/internal/lib/sl"
)

// Registration steps advance through a fixed linear sequence; confirmation
// sub-steps allow in-place correction before moving forward.
const (
	stepName            = "nome"
	stepConfirmName     = "confirmar_nome"
	stepPhone           = "numero"
	stepBusiness        = "restaurante"
	stepConfirmBusiness = "confirmar_restaurante"
	stepCheckin         = "checkin"
)

const (
	minNameLen     = 2
	minBusinessLen = 3
)

// handleRegistration advances a registration draft by one inbound message.
// "menu"/"cancelar" abandon the draft, "recomecar" restarts it from the
// first step preserving nothing.
func (e *Engine) handleRegistration(ctx context.Context, chatID, normalized, raw string, draft entity.RegistrationDraft) error {
	switch normalized {
	case "menu", "cancelar":
		if err := e.store.DeleteDraft(ctx, chatID); err != nil {
			return fmt.Errorf("abandoning registration: %w", err)
		}
		return e.m.SendText(chatID, backToMenuText())
	case "recomecar", "recomeçar":
		return e.restartRegistration(ctx, chatID)
	}

	switch draft.Step {
	case stepName:
		return e.captureName(ctx, chatID, raw, draft)

	case stepConfirmName:
		if chat.IsConfirmation(normalized) {
			draft.Step = stepPhone
			if err := e.store.SaveDraft(ctx, draft); err != nil {
				return fmt.Errorf("saving draft: %w", err)
			}
			return e.m.SendText(chatID, fmt.Sprintf(
				"📱 Qual número você deseja usar para o cadastro? Digite *sim* para usar o número atual (%s) ou informe outro número (ex.: 11999999999). \n\nDigite *menu* ou *cancelar* para voltar ao menu principal.",
				chat.PhoneDigits(chatID)))
		}
		// Any other non-empty input re-captures the name.
		return e.captureName(ctx, chatID, raw, draft)

	case stepPhone:
		return e.capturePhone(ctx, chatID, normalized, raw, draft)

	case stepBusiness:
		return e.captureBusiness(ctx, chatID, raw, draft)

	case stepConfirmBusiness:
		if chat.IsConfirmation(normalized) {
			draft.Step = stepCheckin
			if err := e.store.SaveDraft(ctx, draft); err != nil {
				return fmt.Errorf("saving draft: %w", err)
			}
			return e.m.SendText(chatID, registrationSummary(draft, e.opts.ChatIdSuffix))
		}
		return e.captureBusiness(ctx, chatID, raw, draft)

	case stepCheckin:
		if chat.IsConfirmation(normalized) {
			return e.commitRegistration(ctx, chatID, draft)
		}
		return e.m.SendText(chatID, msgRegistrationCheckin)
	}

	// Unknown step in the store; restart rather than wedging the chat.
	e.log.Warn("unknown registration step", sl.Err(fmt.Errorf("step %q", draft.Step)))
	return e.restartRegistration(ctx, chatID)
}

func (e *Engine) restartRegistration(ctx context.Context, chatID string) error {
	if err := e.store.SaveDraft(ctx, entity.RegistrationDraft{
		ChatID:       chatID,
		Step:         stepName,
		OriginChatID: chatID,
	}); err != nil {
		return fmt.Errorf("restarting registration: %w", err)
	}
	return e.m.SendText(chatID, msgRegistrationRestart)
}

func (e *Engine) captureName(ctx context.Context, chatID, raw string, draft entity.RegistrationDraft) error {
	if len([]rune(raw)) < minNameLen {
		return e.m.SendText(chatID, msgRegistrationBadName)
	}
	draft.Name = raw
	draft.Step = stepConfirmName
	draft.OriginChatID = chatID
	if err := e.store.SaveDraft(ctx, draft); err != nil {
		return fmt.Errorf("saving draft: %w", err)
	}
	return e.m.SendText(chatID, fmt.Sprintf(
		"✅ Nome informado: *%s*\nEstá correto? Digite *sim* para continuar, envie outro nome ou *menu* para voltar ao menu principal.", raw))
}

// capturePhone accepts "sim" to register the sender's own number, or
// validates an alternative one: digits-only, country prefix stripped,
// 10-15 digit window, then a transport reachability check.
func (e *Engine) capturePhone(ctx context.Context, chatID, normalized, raw string, draft entity.RegistrationDraft) error {
	var phone string
	if chat.IsConfirmation(normalized) {
		phone = chatID
	} else {
		phone = chat.CanonicalChatId(raw, e.opts.CountryPrefix, e.opts.ChatIdSuffix)
		if phone == "" {
			return e.m.SendText(chatID, msgRegistrationBadPhone)
		}
		registered, err := e.contacts.IsRegistered(phone)
		if err != nil {
			e.log.Warn("contact reachability check failed", sl.Err(err))
			return e.m.SendText(chatID, msgRegistrationUnreachable)
		}
		if !registered {
			return e.m.SendText(chatID, msgRegistrationUnreachable)
		}
	}

	draft.Phone = phone
	draft.Step = stepBusiness
	if err := e.store.SaveDraft(ctx, draft); err != nil {
		return fmt.Errorf("saving draft: %w", err)
	}
	return e.m.SendText(chatID, msgRegistrationBusiness)
}

func (e *Engine) captureBusiness(ctx context.Context, chatID, raw string, draft entity.RegistrationDraft) error {
	if len([]rune(raw)) < minBusinessLen {
		return e.m.SendText(chatID, msgRegistrationBadBusiness)
	}
	draft.BusinessName = raw
	draft.Step = stepConfirmBusiness
	if err := e.store.SaveDraft(ctx, draft); err != nil {
		return fmt.Errorf("saving draft: %w", err)
	}
	return e.m.SendText(chatID, fmt.Sprintf(
		"✅ Pizzaria informada: *%s*\nEstá correto? Digite *sim* para continuar, envie outro nome ou *menu* para voltar ao menu principal.", raw))
}

// commitRegistration persists the finalized record, notifies the admin and
// deletes the draft.
func (e *Engine) commitRegistration(ctx context.Context, chatID string, draft entity.RegistrationDraft) error {
	reg := entity.Registration{
		Name:         draft.Name,
		Phone:        draft.Phone,
		BusinessName: draft.BusinessName,
		OriginChatID: draft.OriginChatID,
		CreatedAt:    time.Now(),
	}
	id, err := e.store.CreateRegistration(ctx, reg)
	if err != nil {
		return fmt.Errorf("persisting registration: %w", err)
	}
	reg.ID = id

	e.notifyAdmin(registrationAdminNotice(reg, e.opts.ChatIdSuffix))
	if e.events != nil {
		e.events.BroadcastRegistration(reg)
	}

	if err := e.store.DeleteDraft(ctx, chatID); err != nil {
		e.log.Warn("draft cleanup after commit", sl.Err(err))
	}
	return e.m.SendText(chatID, "✅ Cadastro concluído com sucesso! Em breve, entraremos em contato para configurar sua pizzaria.\n\n"+mainMenu)
}
