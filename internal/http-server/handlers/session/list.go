package session

import (
	"SaborBot/internal/lib/api/response"
	"SaborBot/internal/lib/sl"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

// List returns the breakdown of all known chats by mode.
func List(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.session"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		overview, err := handler.SessionsOverview(r.Context())
		if err != nil {
			logger.Error("sessions overview", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Failed to list sessions"))
			return
		}

		render.JSON(w, r, response.OkData(overview))
	}
}
