package registration_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"SaborBot/entity"
	"SaborBot/internal/http-server/handlers/registration"
	"SaborBot/internal/lib/api/response"

	"github.com/go-chi/chi/v5"
)

type fakeCore struct {
	regs      []entity.Registration
	csv       []byte
	deleted   []int64
	deleteErr error
}

func (c *fakeCore) ListRegistrations(_ context.Context) ([]entity.Registration, error) {
	return c.regs, nil
}

func (c *fakeCore) ExportRegistrationsCSV(_ context.Context) ([]byte, error) {
	return c.csv, nil
}

func (c *fakeCore) DeleteRegistration(_ context.Context, id int64) error {
	if c.deleteErr != nil {
		return c.deleteErr
	}
	c.deleted = append(c.deleted, id)
	return nil
}

func newTestRouter(core *fakeCore) *chi.Mux {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := chi.NewRouter()
	router.Get("/registrations", registration.List(log, core))
	router.Get("/registrations/export", registration.Export(log, core))
	router.Delete("/registrations/{id}", registration.Delete(log, core))
	return router
}

func TestListReturnsRegistrations(t *testing.T) {
	t.Parallel()

	core := &fakeCore{regs: []entity.Registration{
		{ID: 1, Name: "Maria", Phone: "5511988887777@c.us", BusinessName: "Pizza Bella", CreatedAt: time.Now()},
	}}
	router := newTestRouter(core)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/registrations", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var reply response.Response
	if err := json.NewDecoder(rec.Body).Decode(&reply); err != nil {
		t.Fatalf("decoding reply: %v", err)
	}
	if reply.Status != response.StatusOk {
		t.Fatalf("reply status = %q", reply.Status)
	}
	rows, ok := reply.Data.([]interface{})
	if !ok || len(rows) != 1 {
		t.Fatalf("data = %v, want one row", reply.Data)
	}
}

func TestListReturnsEmptyArrayNotNull(t *testing.T) {
	t.Parallel()

	router := newTestRouter(&fakeCore{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/registrations", nil))

	if strings.Contains(rec.Body.String(), `"data":null`) {
		t.Fatalf("body = %s, want empty array", rec.Body.String())
	}
}

func TestExportSendsCSVAttachment(t *testing.T) {
	t.Parallel()

	core := &fakeCore{csv: []byte("id,nome\n1,Maria\n")}
	router := newTestRouter(core)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/registrations/export", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "text/csv" {
		t.Fatalf("content type = %q", got)
	}
	if got := rec.Header().Get("Content-Disposition"); !strings.Contains(got, "cadastros.csv") {
		t.Fatalf("content disposition = %q", got)
	}
	if rec.Body.String() != "id,nome\n1,Maria\n" {
		t.Fatalf("body = %q", rec.Body.String())
	}
}

func TestDeleteParsesID(t *testing.T) {
	t.Parallel()

	core := &fakeCore{}
	router := newTestRouter(core)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/registrations/7", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if len(core.deleted) != 1 || core.deleted[0] != 7 {
		t.Fatalf("deleted = %v, want [7]", core.deleted)
	}
}

func TestDeleteRejectsBadID(t *testing.T) {
	t.Parallel()

	core := &fakeCore{}
	router := newTestRouter(core)

	for _, id := range []string{"abc", "0", "-3"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/registrations/"+id, nil))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("id %q: status = %d, want 400", id, rec.Code)
		}
	}
	if len(core.deleted) != 0 {
		t.Fatalf("deleted = %v, want none", core.deleted)
	}
}

func TestDeleteReportsStoreFailure(t *testing.T) {
	t.Parallel()

	core := &fakeCore{deleteErr: errors.New("boom")}
	router := newTestRouter(core)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/registrations/7", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}
