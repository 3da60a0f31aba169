package status

import (
	"SaborBot/internal/lib/api/response"
	"SaborBot/internal/lib/sl"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

type StatusReply struct {
	Status         string `json:"status"`
	TransportReady bool   `json:"transport_ready"`
}

// Get returns the global bot switch and transport readiness.
func Get(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.status"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		status, err := handler.GetBotStatus(r.Context())
		if err != nil {
			logger.Error("get bot status", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Failed to get bot status"))
			return
		}

		render.JSON(w, r, response.OkData(StatusReply{
			Status:         string(status),
			TransportReady: handler.TransportReady(),
		}))
	}
}
