package bot

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"SaborBot/bot/chat"
	"SaborBot/internal/lib/sl"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
	"github.com/PaulSonOfLars/gotgbot/v2/ext/handlers"
	"github.com/PaulSonOfLars/gotgbot/v2/ext/handlers/filters/message"
)

// MessageHandler receives normalized inbound messages.
type MessageHandler interface {
	HandleMessage(ctx context.Context, msg chat.Message) error
}

// TgBot runs the conversation over Telegram as an alternative transport.
// Chat ids are the decimal Telegram chat ids; deployments on this
// transport configure an empty chat id suffix.
type TgBot struct {
	log         *slog.Logger
	api         *tgbotapi.Bot
	botUsername string
	handler     MessageHandler

	mu    sync.RWMutex
	names map[string]string

	ready   atomic.Bool
	onReady func(bool)
}

func NewTgBot(botName, apiKey string, log *slog.Logger) (*TgBot, error) {
	tgBot := &TgBot{
		log:         log.With(sl.Module("tgbot")),
		botUsername: botName,
		names:       make(map[string]string),
	}

	api, err := tgbotapi.NewBot(apiKey, nil)
	if err != nil {
		return nil, fmt.Errorf("creating api instance: %v", err)
	}
	tgBot.api = api

	return tgBot, nil
}

// SetHandler sets the sink for inbound messages.
func (t *TgBot) SetHandler(handler MessageHandler) {
	t.handler = handler
}

// SetReadyCallback sets a hook fired once when polling starts.
func (t *TgBot) SetReadyCallback(fn func(bool)) {
	t.onReady = fn
}

// Ready reports whether polling has started.
func (t *TgBot) Ready() bool {
	return t.ready.Load()
}

// Start begins polling for updates and blocks until the updater stops.
func (t *TgBot) Start() error {
	dispatcher := ext.NewDispatcher(&ext.DispatcherOpts{
		// If an error is returned by a handler, log it and continue going.
		Error: func(b *tgbotapi.Bot, ctx *ext.Context, err error) ext.DispatcherAction {
			log.Println("an error occurred while handling update:", err.Error())
			return ext.DispatcherActionNoop
		},
		MaxRoutines: ext.DefaultMaxRoutines,
	})
	updater := ext.NewUpdater(dispatcher, nil)

	dispatcher.AddHandler(handlers.NewMessage(message.Text, t.handleMessage))

	err := updater.StartPolling(t.api, &ext.PollingOpts{
		DropPendingUpdates: true,
		GetUpdatesOpts: &tgbotapi.GetUpdatesOpts{
			Timeout: 9,
			RequestOpts: &tgbotapi.RequestOpts{
				Timeout: time.Second * 10,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to start polling: %w", err)
	}
	if t.ready.CompareAndSwap(false, true) && t.onReady != nil {
		t.onReady(true)
	}
	t.log.Info("telegram polling started", slog.String("bot", t.botUsername))

	// Idle, to keep updates coming in, and avoid bot stopping.
	updater.Idle()

	return nil
}

func (t *TgBot) handleMessage(b *tgbotapi.Bot, ectx *ext.Context) error {
	if t.handler == nil || ectx.EffectiveMessage == nil {
		return nil
	}

	chatID := strconv.FormatInt(ectx.EffectiveChat.Id, 10)
	if sender := ectx.EffectiveSender; sender != nil && sender.Name() != "" {
		t.mu.Lock()
		t.names[chatID] = sender.Name()
		t.mu.Unlock()
	}

	msg := chat.Message{
		From: chatID,
		Body: ectx.EffectiveMessage.Text,
		ID:   strconv.FormatInt(ectx.EffectiveMessage.MessageId, 10),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := t.handler.HandleMessage(ctx, msg); err != nil {
		t.log.Error("handling inbound message",
			slog.String("chat_id", msg.From),
			slog.String("message_id", msg.ID),
			sl.Err(err),
		)
	}
	return nil
}

// DisplayName returns the sender name seen on the last update, or "".
func (t *TgBot) DisplayName(chatID string) string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.names[chatID]
}

// IsRegistered reports whether the chat id parses as a Telegram chat id.
func (t *TgBot) IsRegistered(chatID string) (bool, error) {
	_, err := strconv.ParseInt(chatID, 10, 64)
	return err == nil, nil
}

func (t *TgBot) SendText(chatID, text string) error {
	id, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid telegram chat id %q: %w", chatID, err)
	}
	_, err = t.api.SendMessage(id, text, &tgbotapi.SendMessageOpts{})
	return err
}

func (t *TgBot) SendFile(chatID string, file chat.FileMessage) error {
	id, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid telegram chat id %q: %w", chatID, err)
	}
	doc := tgbotapi.InputFileByReader(file.Filename, file.Reader)
	_, err = t.api.SendDocument(id, doc, &tgbotapi.SendDocumentOpts{
		Caption: file.Caption,
	})
	return err
}
