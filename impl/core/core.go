package core

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"SaborBot/entity"
	"SaborBot/internal/lib/sl"
	"SaborBot/internal/ws"
)

type Repository interface {
	CheckApiKey(key string) (string, error)
	GenerateApiKey(username string) (string, error)

	ListRegistrations(ctx context.Context) ([]entity.Registration, error)
	DeleteRegistration(ctx context.Context, id int64) error

	StartHandoff(ctx context.Context, chatID string) error
	EndHandoff(ctx context.Context, chatID string) error
	DeleteAttendance(ctx context.Context, chatID string) error
	ResetGreeting(ctx context.Context, chatID string) error

	ListMessages(ctx context.Context, chatID string, limit int64) ([]entity.MessageLogEntry, error)

	BlockNumber(ctx context.Context, chatID string) error
	UnblockNumber(ctx context.Context, chatID string) error
	ListBlockedNumbers(ctx context.Context) ([]string, error)
}

// StatusService is the global bot switch.
type StatusService interface {
	Get(ctx context.Context) (entity.BotStatus, error)
	Set(ctx context.Context, status entity.BotStatus) error
}

// Conversation exposes the engine state queries the dashboard needs.
type Conversation interface {
	SessionsOverview(ctx context.Context) (*entity.SessionOverview, error)
}

// Transport reports messaging connectivity.
type Transport interface {
	Ready() bool
}

type Core struct {
	repo      Repository
	status    StatusService
	conv      Conversation
	transport Transport
	hub       *ws.Hub
	authKey   string

	keysMu sync.RWMutex
	keys   map[string]string

	log *slog.Logger
}

func New(log *slog.Logger) *Core {
	return &Core{
		log:  log.With(sl.Module("core")),
		keys: make(map[string]string),
	}
}

func (c *Core) SetRepository(repo Repository) {
	c.repo = repo
}

func (c *Core) SetStatusService(status StatusService) {
	c.status = status
}

func (c *Core) SetConversation(conv Conversation) {
	c.conv = conv
}

func (c *Core) SetTransport(transport Transport) {
	c.transport = transport
}

func (c *Core) SetHub(hub *ws.Hub) {
	c.hub = hub
}

func (c *Core) SetAuthKey(key string) {
	c.authKey = key
}

// SnapshotEvents is sent to a dashboard client right after it connects.
func (c *Core) SnapshotEvents() []ws.Event {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	events := []ws.Event{
		{Type: "transport_ready", Data: map[string]bool{"ready": c.TransportReady()}},
	}

	if status, err := c.GetBotStatus(ctx); err == nil {
		events = append(events, ws.Event{
			Type: "bot_status",
			Data: map[string]string{"status": string(status)},
		})
	}

	if overview, err := c.SessionsOverview(ctx); err == nil {
		events = append(events, ws.Event{Type: "sessions", Data: overview})
	} else {
		c.log.Warn("sessions snapshot failed", sl.Err(err))
	}

	return events
}

func (c *Core) TransportReady() bool {
	if c.transport == nil {
		return false
	}
	return c.transport.Ready()
}
