// Package sweeper expires idle sessions on a fixed interval so abandoned
// chats return to a fresh state instead of holding stale attendance rows.
package sweeper

import (
	"context"
	"log/slog"
	"time"

	"SaborBot/entity"
	"SaborBot/internal/lib/sl"
)

// Repository lists and removes expired session rows.
type Repository interface {
	ListExpiredAttendances(ctx context.Context, before time.Time) ([]entity.Attendance, error)
	DeleteAttendance(ctx context.Context, chatID string) error
	EndHandoff(ctx context.Context, chatID string) error
}

// Notifier sends the inactivity notice to the expired chat.
type Notifier interface {
	SendText(chatID, text string) error
}

type Service struct {
	repository Repository
	notifier   Notifier
	window     time.Duration
	interval   time.Duration
	notice     string
	log        *slog.Logger
}

func NewSweeperService(window, interval time.Duration, notice string, logger *slog.Logger) *Service {
	return &Service{
		window:   window,
		interval: interval,
		notice:   notice,
		log:      logger.With(sl.Module("sweeper-service")),
	}
}

func (s *Service) SetRepository(repository Repository) {
	s.repository = repository
}

func (s *Service) SetNotifier(notifier Notifier) {
	s.notifier = notifier
}

// Run sweeps on every tick until the context is cancelled.
func (s *Service) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep expires every session idle longer than the window. Each chat is
// handled independently; one failing chat never blocks the rest.
func (s *Service) Sweep(ctx context.Context) {
	cutoff := time.Now().Add(-s.window)

	expired, err := s.repository.ListExpiredAttendances(ctx, cutoff)
	if err != nil {
		s.log.Error("listing expired sessions", sl.Err(err))
		return
	}

	for _, att := range expired {
		log := s.log.With(slog.String("chat_id", att.ChatID))

		if err := s.repository.DeleteAttendance(ctx, att.ChatID); err != nil {
			log.Error("expiring session", sl.Err(err))
			continue
		}
		if err := s.repository.EndHandoff(ctx, att.ChatID); err != nil {
			log.Warn("ending handoff for expired session", sl.Err(err))
		}

		if s.notifier != nil && s.notice != "" {
			if err := s.notifier.SendText(att.ChatID, s.notice); err != nil {
				log.Warn("inactivity notice failed", sl.Err(err))
			}
		}
		log.Info("session expired", slog.Time("last_activity", att.LastActivity))
	}
}
