package conversation

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"SaborBot/bot/chat"
	"SaborBot/entity"
	"SaborBot/internal/lib/export"
	"SaborBot/internal/lib/sl"
)

// handleAdmin runs the nested admin sub-machine. It is entered only for
// authorized identities, via "mudarmenu" or an existing pending action, and
// never silently drops admin input.
func (e *Engine) handleAdmin(ctx context.Context, chatID, normalized, raw string, pending *entity.PendingAction) error {
	if normalized == "mudarmenu" {
		if err := e.armAdminMenu(ctx, chatID); err != nil {
			return err
		}
		return e.m.SendText(chatID, adminMenu)
	}
	if pending == nil {
		return nil
	}

	if pending.Action == entity.ActionAdminMenu {
		return e.handleAdminMenuOption(ctx, chatID, normalized)
	}

	if normalized == "cancelar" {
		if err := e.armAdminMenu(ctx, chatID); err != nil {
			return err
		}
		return e.m.SendText(chatID, "❌ Ação cancelada. \n\n"+adminMenu)
	}

	switch pending.Action {
	case entity.ActionAwaitRegistrationID:
		return e.collectRegistrationID(ctx, chatID, raw)
	case entity.ActionAwaitIntervention:
		return e.collectTargetChat(ctx, chatID, raw, "intervir", entity.ActionIntervene,
			"⚠️ Confirmar intervenção em %s? O bot ficará pausado para este usuário. Digite *sim* para confirmar ou *cancelar* para voltar.")
	case entity.ActionAwaitReactivation:
		return e.collectTargetChat(ctx, chatID, raw, "reativar", entity.ActionReactivate,
			"⚠️ Confirmar reativação do bot para %s? Digite *sim* para confirmar ou *cancelar* para voltar.")
	case entity.ActionAwaitGreetingReset:
		return e.collectTargetChat(ctx, chatID, raw, "resetsaudacao", entity.ActionResetGreeting,
			"⚠️ Confirmar reset de saudação para %s? Digite *sim* para confirmar ou *cancelar* para voltar.")
	}

	if chat.IsConfirmation(normalized) {
		return e.executePendingAction(ctx, chatID, *pending)
	}
	return e.m.SendText(chatID, msgConfirmOrCancel)
}

// armAdminMenu returns the sub-machine to the menu state.
func (e *Engine) armAdminMenu(ctx context.Context, chatID string) error {
	if err := e.store.SavePendingAction(ctx, entity.PendingAction{
		ChatID: chatID,
		Action: entity.ActionAdminMenu,
	}); err != nil {
		return fmt.Errorf("arming admin menu: %w", err)
	}
	return nil
}

func (e *Engine) handleAdminMenuOption(ctx context.Context, chatID, option string) error {
	if option == "cancelar" || option == "menu" {
		if err := e.store.ClearPendingAction(ctx, chatID); err != nil {
			return fmt.Errorf("leaving admin menu: %w", err)
		}
		return e.m.SendText(chatID, backToMenuText())
	}

	confirmPrompts := map[string]struct {
		action string
		prompt string
	}{
		"1":  {entity.ActionResetAttendances, "⚠️ Confirmar reset de atendimentos? Isso apagará todos os registros de atendimentos. Digite *sim* para confirmar ou *cancelar* para voltar."},
		"2":  {entity.ActionResetGreetings, "⚠️ Confirmar reset de saudados? Isso apagará todos os registros de saudação. Digite *sim* para confirmar ou *cancelar* para voltar."},
		"3":  {entity.ActionResetRegistrations, "⚠️ Confirmar reset de cadastros? Isso apagará todos os cadastros e cadastros em andamento. Digite *sim* para confirmar ou *cancelar* para voltar."},
		"4":  {entity.ActionResetStore, "⚠️ Confirmar reset do banco inteiro? Isso apagará todos os dados (atendimentos, saudados, cadastros). Digite *sim* para confirmar ou *cancelar* para voltar."},
		"12": {entity.ActionStopBot, "⚠️ Confirmar parada do bot para todos os usuários? Isso fará com que o bot responda apenas com uma mensagem de 'fechado'. Digite *sim* para confirmar ou *cancelar* para voltar."},
		"13": {entity.ActionStartBot, "⚠️ Confirmar reativação do bot para todos os usuários? Digite *sim* para confirmar ou *cancelar* para voltar."},
	}
	if c, ok := confirmPrompts[option]; ok {
		if err := e.store.SavePendingAction(ctx, entity.PendingAction{
			ChatID: chatID,
			Action: c.action,
		}); err != nil {
			return fmt.Errorf("storing pending action: %w", err)
		}
		return e.m.SendText(chatID, c.prompt)
	}

	paramPrompts := map[string]struct {
		action string
		prompt string
	}{
		"7":  {entity.ActionAwaitRegistrationID, "📝 Digite o ID do cadastro a ser deletado (ex.: deletarcadastro 1)."},
		"9":  {entity.ActionAwaitIntervention, fmt.Sprintf("📝 Digite o chat ID do usuário para intervir (parar bot) (ex.: intervir 5511999999999%s).", e.opts.ChatIdSuffix)},
		"10": {entity.ActionAwaitReactivation, fmt.Sprintf("📝 Digite o chat ID do usuário para reativar o bot (ex.: reativar 5511999999999%s).", e.opts.ChatIdSuffix)},
		"11": {entity.ActionAwaitGreetingReset, fmt.Sprintf("📝 Digite o chat ID do usuário para resetar saudação (ex.: resetsaudacao 5511999999999%s).", e.opts.ChatIdSuffix)},
	}
	if p, ok := paramPrompts[option]; ok {
		if err := e.store.SavePendingAction(ctx, entity.PendingAction{
			ChatID: chatID,
			Action: p.action,
		}); err != nil {
			return fmt.Errorf("storing pending action: %w", err)
		}
		return e.m.SendText(chatID, p.prompt)
	}

	switch option {
	case "5":
		regs, err := e.store.ListRegistrations(ctx)
		if err != nil {
			return fmt.Errorf("listing registrations: %w", err)
		}
		return e.m.SendText(chatID, formatRegistrations(regs, e.opts.ChatIdSuffix))
	case "6":
		return e.exportRegistrations(ctx, chatID)
	case "8":
		overview, err := e.SessionsOverview(ctx)
		if err != nil {
			return fmt.Errorf("listing sessions: %w", err)
		}
		return e.m.SendText(chatID, FormatOverview(overview))
	}

	return e.m.SendText(chatID, msgInvalidAdminOption)
}

func (e *Engine) exportRegistrations(ctx context.Context, chatID string) error {
	regs, err := e.store.ListRegistrations(ctx)
	if err != nil {
		return fmt.Errorf("listing registrations: %w", err)
	}
	if len(regs) == 0 {
		return e.m.SendText(chatID, "📋 Nenhum cadastro encontrado para exportar.")
	}
	data, err := export.RegistrationsCSV(regs)
	if err != nil {
		return fmt.Errorf("rendering csv: %w", err)
	}
	return e.m.SendFile(chatID, chat.FileMessage{
		Filename: "cadastros_exportados.csv",
		Caption:  exportCaption(len(regs), time.Now()),
		Reader:   bytes.NewReader(data),
	})
}

// collectRegistrationID parses "deletarcadastro <id>" and moves to the
// confirm state; parse failures re-prompt without losing context.
func (e *Engine) collectRegistrationID(ctx context.Context, chatID, raw string) error {
	fields := strings.Fields(strings.ToLower(raw))
	if len(fields) != 2 || fields[0] != "deletarcadastro" {
		return e.m.SendText(chatID, "❌ ID inválido. Digite: deletarcadastro <id> (ex.: deletarcadastro 1)")
	}
	id, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return e.m.SendText(chatID, "❌ ID inválido. Digite: deletarcadastro <id> (ex.: deletarcadastro 1)")
	}
	if err := e.store.SavePendingAction(ctx, entity.PendingAction{
		ChatID:    chatID,
		Action:    entity.ActionDeleteRegistration,
		Parameter: strconv.FormatInt(id, 10),
	}); err != nil {
		return fmt.Errorf("storing pending action: %w", err)
	}
	return e.m.SendText(chatID, fmt.Sprintf("⚠️ Confirmar exclusão do cadastro ID %d? Digite *sim* para confirmar ou *cancelar* para voltar.", id))
}

// collectTargetChat parses "<command> <chatId>" and moves to the confirm
// state carrying the target as parameter.
func (e *Engine) collectTargetChat(ctx context.Context, chatID, raw, command, action, confirmFormat string) error {
	fields := strings.Fields(raw)
	if len(fields) != 2 || strings.ToLower(fields[0]) != command {
		return e.m.SendText(chatID, fmt.Sprintf("❌ Formato inválido. Digite: %s <chatId> (ex.: %s 5511999999999%s)", command, command, e.opts.ChatIdSuffix))
	}
	target := fields[1]
	if !strings.HasSuffix(target, e.opts.ChatIdSuffix) {
		return e.m.SendText(chatID, fmt.Sprintf(msgInvalidChatId, e.opts.ChatIdSuffix, e.opts.ChatIdSuffix))
	}
	if err := e.store.SavePendingAction(ctx, entity.PendingAction{
		ChatID:    chatID,
		Action:    action,
		Parameter: target,
	}); err != nil {
		return fmt.Errorf("storing pending action: %w", err)
	}
	return e.m.SendText(chatID, fmt.Sprintf(confirmFormat, target))
}

// executePendingAction runs the confirmed action. Bulk resets are
// idempotent; an unknown stored action replies "invalid" and clears the
// pending state so the admin never gets stuck. Either way the sub-machine
// returns to the menu state.
func (e *Engine) executePendingAction(ctx context.Context, chatID string, pending entity.PendingAction) error {
	var reply string

	switch pending.Action {
	case entity.ActionResetAttendances:
		if err := e.store.ClearAttendances(ctx); err != nil {
			return fmt.Errorf("clearing attendances: %w", err)
		}
		if err := e.store.ClearHandoffs(ctx); err != nil {
			return fmt.Errorf("clearing handoffs: %w", err)
		}
		reply = "🔄 Atendimentos resetados com sucesso."

	case entity.ActionResetGreetings:
		if err := e.store.ClearGreetings(ctx); err != nil {
			return fmt.Errorf("clearing greetings: %w", err)
		}
		reply = "🔄 Saudados resetados com sucesso."

	case entity.ActionResetRegistrations:
		if err := e.store.ClearRegistrations(ctx); err != nil {
			return fmt.Errorf("clearing registrations: %w", err)
		}
		if err := e.store.ClearDrafts(ctx); err != nil {
			return fmt.Errorf("clearing drafts: %w", err)
		}
		reply = "🔄 Cadastros e cadastros em andamento resetados com sucesso."

	case entity.ActionResetStore:
		for _, clear := range []func(context.Context) error{
			e.store.ClearAttendances,
			e.store.ClearGreetings,
			e.store.ClearDrafts,
			e.store.ClearRegistrations,
			e.store.ClearHandoffs,
		} {
			if err := clear(ctx); err != nil {
				return fmt.Errorf("resetting store: %w", err)
			}
		}
		reply = "🔄 Banco de dados inteiro resetado com sucesso."

	case entity.ActionDeleteRegistration:
		id, err := strconv.ParseInt(pending.Parameter, 10, 64)
		if err != nil {
			reply = "❌ ID inválido."
			break
		}
		if err := e.store.DeleteRegistration(ctx, id); err != nil {
			return fmt.Errorf("deleting registration %d: %w", id, err)
		}
		reply = fmt.Sprintf("✅ Cadastro ID %d deletado com sucesso.", id)

	case entity.ActionIntervene:
		if err := e.store.StartHandoff(ctx, pending.Parameter); err != nil {
			return fmt.Errorf("starting handoff for %s: %w", pending.Parameter, err)
		}
		if err := e.store.DeleteAttendance(ctx, pending.Parameter); err != nil {
			e.log.Warn("attendance cleanup on intervention", sl.Err(err))
		}
		reply = fmt.Sprintf("✅ Bot pausado para %s. Agora você pode conversar diretamente. Use *reativar %s* para reativar.", pending.Parameter, pending.Parameter)

	case entity.ActionReactivate:
		if err := e.reactivateChat(ctx, pending.Parameter); err != nil {
			return err
		}
		if err := e.m.SendText(pending.Parameter, reactivatedText()); err != nil {
			e.log.Warn("reactivation notice to target failed", sl.Err(err))
		}
		reply = fmt.Sprintf("✅ Bot reativado para %s.", pending.Parameter)

	case entity.ActionResetGreeting:
		if err := e.store.ResetGreeting(ctx, pending.Parameter); err != nil {
			return fmt.Errorf("resetting greeting for %s: %w", pending.Parameter, err)
		}
		reply = fmt.Sprintf("✅ Saudação resetada para %s.", pending.Parameter)

	case entity.ActionStopBot:
		if err := e.gate.Set(ctx, entity.BotStopped); err != nil {
			return fmt.Errorf("stopping bot: %w", err)
		}
		reply = "🛑 Bot parado globalmente com sucesso. Agora apenas o administrador pode interagir."

	case entity.ActionStartBot:
		if err := e.gate.Set(ctx, entity.BotActive); err != nil {
			return fmt.Errorf("reactivating bot: %w", err)
		}
		reply = "✅ Bot reativado globalmente com sucesso."

	default:
		e.log.Warn("unknown pending admin action", sl.Err(fmt.Errorf("action %q", pending.Action)))
		reply = "❌ Ação inválida."
	}

	if err := e.armAdminMenu(ctx, chatID); err != nil {
		return err
	}
	if err := e.m.SendText(chatID, reply); err != nil {
		return err
	}
	return e.m.SendText(chatID, adminMenu)
}
