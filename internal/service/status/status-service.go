// Package status holds the single source of truth for the global bot
// switch: a persisted document fronted by an in-process cache, with state
// changes pushed to dashboard clients.
package status

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"SaborBot/entity"
	"SaborBot/internal/lib/sl"
)

// Repository persists the switch across restarts.
type Repository interface {
	GetBotStatus(ctx context.Context) (entity.BotStatus, error)
	SetBotStatus(ctx context.Context, status entity.BotStatus) error
}

// Broadcaster pushes switch changes to connected dashboard clients.
type Broadcaster interface {
	BroadcastBotStatus(status entity.BotStatus)
}

type Service struct {
	repository  Repository
	broadcaster Broadcaster
	mu          sync.RWMutex
	cached      entity.BotStatus
	log         *slog.Logger
}

func NewStatusService(logger *slog.Logger) *Service {
	return &Service{
		cached: entity.BotActive,
		log:    logger.With(sl.Module("status-service")),
	}
}

func (s *Service) SetRepository(repository Repository) {
	s.repository = repository
}

func (s *Service) SetBroadcaster(broadcaster Broadcaster) {
	s.broadcaster = broadcaster
}

// Init loads the persisted switch into the cache. A missing document
// defaults to active and is written back so the row exists.
func (s *Service) Init(ctx context.Context) error {
	if s.repository == nil {
		return nil
	}
	status, err := s.repository.GetBotStatus(ctx)
	if err != nil {
		return fmt.Errorf("loading bot status: %w", err)
	}
	if !status.Valid() {
		status = entity.BotActive
		if err := s.repository.SetBotStatus(ctx, status); err != nil {
			return fmt.Errorf("seeding bot status: %w", err)
		}
	}
	s.mu.Lock()
	s.cached = status
	s.mu.Unlock()
	s.log.Info("bot status loaded", slog.String("status", string(status)))
	return nil
}

// Get returns the cached switch state. The cache is authoritative between
// Set calls, so the hot message path never touches the store.
func (s *Service) Get(_ context.Context) (entity.BotStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cached, nil
}

// Set persists the new state, updates the cache and notifies dashboards.
// The cache is only updated after a successful write.
func (s *Service) Set(ctx context.Context, status entity.BotStatus) error {
	if !status.Valid() {
		return fmt.Errorf("invalid bot status %q", status)
	}
	if s.repository != nil {
		if err := s.repository.SetBotStatus(ctx, status); err != nil {
			return fmt.Errorf("persisting bot status: %w", err)
		}
	}
	s.mu.Lock()
	s.cached = status
	s.mu.Unlock()

	if s.broadcaster != nil {
		s.broadcaster.BroadcastBotStatus(status)
	}
	s.log.Info("bot status changed", slog.String("status", string(status)))
	return nil
}
