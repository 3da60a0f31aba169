package ws

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

type fakeAuth map[string]string

func (a fakeAuth) ValidateToken(token string) (string, error) {
	username, ok := a[token]
	if !ok {
		return "", fmt.Errorf("unknown token")
	}
	return username, nil
}

func TestServeWsRejectsMissingToken(t *testing.T) {
	t.Parallel()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	hub := NewHub(log)

	rec := httptest.NewRecorder()
	ServeWs(hub, fakeAuth{}, log, rec, httptest.NewRequest(http.MethodGet, "/ws", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestServeWsRejectsUnknownToken(t *testing.T) {
	t.Parallel()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	hub := NewHub(log)

	rec := httptest.NewRecorder()
	ServeWs(hub, fakeAuth{"good": "admin"}, log, rec, httptest.NewRequest(http.MethodGet, "/ws?token=bad", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestServeWsRequiresUpgradeHandshake(t *testing.T) {
	t.Parallel()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	hub := NewHub(log)

	// A valid token on a plain GET must fail the upgrade, not register.
	rec := httptest.NewRecorder()
	ServeWs(hub, fakeAuth{"good": "admin"}, log, rec, httptest.NewRequest(http.MethodGet, "/ws?token=good", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if len(hub.clients) != 0 {
		t.Fatalf("clients = %d, want none registered", len(hub.clients))
	}
}
