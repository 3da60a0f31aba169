package conversation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"SaborBot/bot/chat"
	"SaborBot/entity"
	"SaborBot/internal/lib/sl"
)

const orderWebhookPrefix = "olá, novo pedido:"

// Options carries the engine's identity and timing configuration.
type Options struct {
	// Admins is the set of chat ids authorized for admin commands: the
	// admin principal plus the optional secondary notification number.
	Admins []string
	// AdminChatId receives admin notifications.
	AdminChatId string
	// SecondaryChatId additionally receives new-customer notifications.
	SecondaryChatId string
	ChatIdSuffix    string
	CountryPrefix   string
	// Timeout is the inactivity window after which a session expires.
	Timeout time.Duration
}

// Events receives dashboard notifications for state the engine changes.
type Events interface {
	BroadcastRegistration(reg entity.Registration)
}

// Engine is the per-message conversation state machine. It classifies the
// inbound message, consults the store and computes replies, store mutations
// and admin notifications.
type Engine struct {
	store    Store
	gate     Gate
	m        chat.Messenger
	contacts chat.ContactLookup
	locker   *chat.ChatLocker
	events   Events
	opts     Options
	log      *slog.Logger
}

// SetEvents wires the optional dashboard event sink.
func (e *Engine) SetEvents(events Events) {
	e.events = events
}

// NewEngine creates the conversation engine.
func NewEngine(store Store, gate Gate, m chat.Messenger, contacts chat.ContactLookup, opts Options, log *slog.Logger) *Engine {
	return &Engine{
		store:    store,
		gate:     gate,
		m:        m,
		contacts: contacts,
		locker:   chat.NewChatLocker(),
		opts:     opts,
		log:      log.With(sl.Module("conversation")),
	}
}

func (e *Engine) isAdmin(chatID string) bool {
	for _, admin := range e.opts.Admins {
		if chatID == admin {
			return true
		}
	}
	return false
}

func (e *Engine) displayName(chatID string) string {
	if name := e.contacts.DisplayName(chatID); name != "" {
		return name
	}
	return "cliente"
}

// notifyAdmin sends a notification to the admin principal. Send failures
// never abort the reply already delivered to the user.
func (e *Engine) notifyAdmin(texts ...string) {
	for _, text := range texts {
		if err := e.m.SendText(e.opts.AdminChatId, text); err != nil {
			e.log.Warn("admin notification failed", sl.Err(err))
		}
	}
}

// HandleMessage runs one inbound message through the state machine. The
// per-chat lock is held for the whole pass and released on every exit path.
func (e *Engine) HandleMessage(ctx context.Context, msg chat.Message) error {
	chatID := msg.From
	raw := strings.TrimSpace(msg.Body)
	normalized := chat.NormalizeCommand(raw)

	log := e.log.With(slog.String("chat_id", chatID), slog.String("message_id", msg.ID))

	blocked, err := e.store.IsBlocked(ctx, chatID)
	if err != nil {
		log.Error("deny-list lookup", sl.Err(err))
		if sendErr := e.m.SendText(chatID, msgInternalError); sendErr != nil {
			log.Warn("internal-error reply failed", sl.Err(sendErr))
		}
		return err
	}
	if blocked {
		log.Debug("message dropped: sender blocked")
		return nil
	}

	status, err := e.gate.Get(ctx)
	if err != nil {
		log.Error("bot status lookup", sl.Err(err))
		status = entity.BotActive
	}
	if status == entity.BotStopped && !e.isAdmin(chatID) {
		return e.m.SendText(chatID, msgClosed)
	}

	release := e.locker.Lock(chatID)
	defer release()

	if err := e.store.LogMessage(ctx, entity.MessageLogEntry{
		ChatID:    chatID,
		Body:      raw,
		CreatedAt: time.Now(),
	}); err != nil {
		log.Warn("message log write failed", sl.Err(err))
	}

	if err := e.dispatch(ctx, chatID, normalized, raw); err != nil {
		log.Error("message handling failed", sl.Err(err))
		if sendErr := e.m.SendText(chatID, msgInternalError); sendErr != nil {
			log.Warn("internal-error reply failed", sl.Err(sendErr))
		}
		return err
	}
	return nil
}

func (e *Engine) dispatch(ctx context.Context, chatID, normalized, raw string) error {
	inHandoff, err := e.store.InHandoff(ctx, chatID)
	if err != nil {
		return fmt.Errorf("handoff lookup: %w", err)
	}
	if inHandoff {
		switch normalized {
		case "finalizaratendimento", "menu", "cancelar":
			if err := e.store.EndHandoff(ctx, chatID); err != nil {
				return fmt.Errorf("ending handoff: %w", err)
			}
			if err := e.store.DeleteAttendance(ctx, chatID); err != nil {
				e.log.Warn("attendance cleanup after handoff", sl.Err(err))
			}
			return e.m.SendText(chatID, attendanceClosedText())
		}
		// A human agent owns this chat; the machine stays silent.
		e.log.Debug("message swallowed: chat in handoff", slog.String("chat_id", chatID))
		return nil
	}

	att, err := e.store.GetAttendance(ctx, chatID)
	if err != nil {
		return fmt.Errorf("attendance lookup: %w", err)
	}
	if att != nil {
		att.LastActivity = time.Now()
		if err := e.store.UpsertAttendance(ctx, *att); err != nil {
			e.log.Warn("attendance touch failed", sl.Err(err))
		}
	}

	if strings.HasPrefix(strings.ToLower(raw), orderWebhookPrefix) {
		return e.handleOrderWebhook(ctx, chatID, raw)
	}

	pending, err := e.store.GetPendingAction(ctx, chatID)
	if err != nil {
		return fmt.Errorf("pending action lookup: %w", err)
	}

	// The bare shortcut stays valid from any state, but a pending admin
	// prompt owns the input so its own reativar flow can confirm first.
	if e.isAdmin(chatID) && pending == nil && strings.HasPrefix(strings.ToLower(raw), "reativar") {
		return e.handleDirectReactivate(ctx, chatID, raw)
	}

	greeted, err := e.store.IsGreeted(ctx, chatID)
	if err != nil {
		return fmt.Errorf("greeting lookup: %w", err)
	}
	if !greeted {
		return e.greet(ctx, chatID)
	}

	if e.isAdmin(chatID) && (pending != nil || normalized == "mudarmenu") {
		return e.handleAdmin(ctx, chatID, normalized, raw, pending)
	}

	if isAdminKeyword(normalized) {
		return e.m.SendText(chatID, msgRestricted)
	}

	draft, err := e.store.GetDraft(ctx, chatID)
	if err != nil {
		return fmt.Errorf("draft lookup: %w", err)
	}
	if draft != nil {
		return e.handleRegistration(ctx, chatID, normalized, raw, *draft)
	}

	return e.handleMenu(ctx, chatID, normalized)
}

// handleOrderWebhook forces the chat into handoff when the site pushes an
// order through the chat channel, independent of greeted state.
func (e *Engine) handleOrderWebhook(ctx context.Context, chatID, raw string) error {
	if err := e.store.StartHandoff(ctx, chatID); err != nil {
		return fmt.Errorf("starting handoff: %w", err)
	}
	if err := e.store.UpsertAttendance(ctx, entity.Attendance{
		ChatID:       chatID,
		Label:        entity.LabelNewOrder,
		LastActivity: time.Now(),
	}); err != nil {
		return fmt.Errorf("recording attendance: %w", err)
	}
	if err := e.m.SendText(chatID, "📩 *Novo pedido recebido!* Um atendente irá verificar seu pedido em breve. Por favor, aguarde.\n\nDigite *Finalizar atendimento* quando quiser voltar ao menu principal."); err != nil {
		return err
	}
	name := e.displayName(chatID)
	e.notifyAdmin(
		orderNotice(name, chatID, e.opts.ChatIdSuffix, raw),
		reactivationHint(chatID),
	)
	return nil
}

// handleDirectReactivate handles the admin's "reativar <chatId>" shortcut,
// valid from any state.
func (e *Engine) handleDirectReactivate(ctx context.Context, chatID, raw string) error {
	fields := strings.Fields(raw)
	if len(fields) < 2 {
		return e.m.SendText(chatID, fmt.Sprintf("❌ Formato inválido. Digite: reativar <chatId> (ex.: reativar 5511999999999%s)", e.opts.ChatIdSuffix))
	}
	target := fields[1]
	if !strings.HasSuffix(target, e.opts.ChatIdSuffix) {
		return e.m.SendText(chatID, fmt.Sprintf(msgInvalidChatId, e.opts.ChatIdSuffix, e.opts.ChatIdSuffix))
	}
	if err := e.reactivateChat(ctx, target); err != nil {
		return err
	}
	if err := e.m.SendText(chatID, fmt.Sprintf("✅ Bot reativado para %s.", target)); err != nil {
		return err
	}
	if err := e.m.SendText(target, reactivatedText()); err != nil {
		e.log.Warn("reactivation notice to target failed", sl.Err(err))
	}
	return nil
}

// reactivateChat clears handoff and attendance for the target chat.
func (e *Engine) reactivateChat(ctx context.Context, target string) error {
	if err := e.store.EndHandoff(ctx, target); err != nil {
		return fmt.Errorf("ending handoff for %s: %w", target, err)
	}
	if err := e.store.DeleteAttendance(ctx, target); err != nil {
		return fmt.Errorf("clearing attendance for %s: %w", target, err)
	}
	return nil
}

// greet sends the one-time welcome. Greeted is marked before sending so a
// failed send does not re-trigger the welcome storm on the next message.
func (e *Engine) greet(ctx context.Context, chatID string) error {
	if err := e.store.MarkGreeted(ctx, chatID); err != nil {
		return fmt.Errorf("marking greeted: %w", err)
	}
	name := e.displayName(chatID)
	if err := e.m.SendText(chatID, welcomeText(name)); err != nil {
		return err
	}
	notice := newCustomerNotice(name, chatID, e.opts.ChatIdSuffix)
	e.notifyAdmin(notice)
	if e.opts.SecondaryChatId != "" && e.opts.SecondaryChatId != e.opts.AdminChatId {
		if err := e.m.SendText(e.opts.SecondaryChatId, notice); err != nil {
			e.log.Warn("secondary notification failed", sl.Err(err))
		}
	}
	return nil
}

// SessionsOverview assembles the breakdown of all known chats by mode.
// Greeted chats in no other group count as "at the menu".
func (e *Engine) SessionsOverview(ctx context.Context) (*entity.SessionOverview, error) {
	since := time.Now().Add(-e.opts.Timeout)

	attended, err := e.store.ListActiveAttendances(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("listing attendances: %w", err)
	}
	handoffs, err := e.store.ListHandoffChats(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing handoffs: %w", err)
	}
	drafts, err := e.store.ListDraftChats(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing drafts: %w", err)
	}
	greeted, err := e.store.ListGreetedChats(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing greeted: %w", err)
	}

	overview := &entity.SessionOverview{}
	busy := make(map[string]bool)

	for _, att := range attended {
		busy[att.ChatID] = true
		label := att.Label
		if label == "" {
			label = entity.LabelSupport
		}
		overview.Attended = append(overview.Attended, entity.ChatEntry{
			ChatID:      att.ChatID,
			DisplayName: e.contacts.DisplayName(att.ChatID),
			Label:       label,
		})
	}
	for _, id := range handoffs {
		busy[id] = true
		overview.InHandoff = append(overview.InHandoff, entity.ChatEntry{
			ChatID:      id,
			DisplayName: e.contacts.DisplayName(id),
		})
	}
	for _, id := range drafts {
		busy[id] = true
		overview.InRegistration = append(overview.InRegistration, entity.ChatEntry{
			ChatID:      id,
			DisplayName: e.contacts.DisplayName(id),
		})
	}
	for _, id := range greeted {
		if busy[id] {
			continue
		}
		overview.Menu = append(overview.Menu, entity.ChatEntry{
			ChatID:      id,
			DisplayName: e.contacts.DisplayName(id),
		})
	}
	return overview, nil
}

// isAdminKeyword reports whether the normalized input looks like an
// admin-only command, used to answer non-admins with a restriction notice.
func isAdminKeyword(normalized string) bool {
	switch {
	case strings.HasPrefix(normalized, "reset"),
		strings.HasPrefix(normalized, "deletarcadastro"),
		strings.HasPrefix(normalized, "intervir"),
		strings.HasPrefix(normalized, "resetsaudacao"):
		return true
	case normalized == "listarcadastros",
		normalized == "exportarcadastros",
		normalized == "mudarmenu",
		normalized == "listaratendimentos":
		return true
	}
	return false
}

func waLink(chatID, suffix string) string {
	return chat.WaLink(chatID, suffix)
}
