package sweeper

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"SaborBot/entity"
)

type fakeRepo struct {
	expired     []entity.Attendance
	deleted     []string
	ended       []string
	deleteError error
}

func (r *fakeRepo) ListExpiredAttendances(_ context.Context, _ time.Time) ([]entity.Attendance, error) {
	return r.expired, nil
}

func (r *fakeRepo) DeleteAttendance(_ context.Context, chatID string) error {
	if r.deleteError != nil && chatID == "bad@c.us" {
		return r.deleteError
	}
	r.deleted = append(r.deleted, chatID)
	return nil
}

func (r *fakeRepo) EndHandoff(_ context.Context, chatID string) error {
	r.ended = append(r.ended, chatID)
	return nil
}

type fakeNotifier struct {
	notified []string
}

func (n *fakeNotifier) SendText(chatID, _ string) error {
	n.notified = append(n.notified, chatID)
	return nil
}

func newTestService(repo *fakeRepo, notifier *fakeNotifier) *Service {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := NewSweeperService(time.Hour, time.Minute, "sessão expirada", log)
	s.SetRepository(repo)
	if notifier != nil {
		s.SetNotifier(notifier)
	}
	return s
}

func TestSweepExpiresIdleSessions(t *testing.T) {
	t.Parallel()

	repo := &fakeRepo{expired: []entity.Attendance{
		{ChatID: "a@c.us"},
		{ChatID: "b@c.us"},
	}}
	notifier := &fakeNotifier{}
	s := newTestService(repo, notifier)

	s.Sweep(context.Background())

	if len(repo.deleted) != 2 {
		t.Fatalf("deleted = %v, want both chats", repo.deleted)
	}
	if len(repo.ended) != 2 {
		t.Fatalf("ended = %v, want both chats", repo.ended)
	}
	if len(notifier.notified) != 2 {
		t.Fatalf("notified = %v, want both chats", notifier.notified)
	}
}

func TestSweepContinuesPastFailures(t *testing.T) {
	t.Parallel()

	repo := &fakeRepo{
		expired: []entity.Attendance{
			{ChatID: "bad@c.us"},
			{ChatID: "good@c.us"},
		},
		deleteError: errors.New("boom"),
	}
	notifier := &fakeNotifier{}
	s := newTestService(repo, notifier)

	s.Sweep(context.Background())

	if len(repo.deleted) != 1 || repo.deleted[0] != "good@c.us" {
		t.Fatalf("deleted = %v, want only the healthy chat", repo.deleted)
	}
	if len(notifier.notified) != 1 || notifier.notified[0] != "good@c.us" {
		t.Fatalf("notified = %v", notifier.notified)
	}
}

func TestSweepWithoutNotifier(t *testing.T) {
	t.Parallel()

	repo := &fakeRepo{expired: []entity.Attendance{{ChatID: "a@c.us"}}}
	s := newTestService(repo, nil)

	s.Sweep(context.Background())

	if len(repo.deleted) != 1 {
		t.Fatalf("deleted = %v, want one chat", repo.deleted)
	}
}
