package status

import (
	"SaborBot/entity"
	"SaborBot/internal/lib/api/response"
	"SaborBot/internal/lib/sl"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

type SetRequest struct {
	Status string `json:"status"`
}

// Set switches the bot between active and stopped.
func Set(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.status"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req SetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("Invalid request body"))
			return
		}

		status := entity.BotStatus(req.Status)
		if !status.Valid() {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("Status must be 'active' or 'stopped'"))
			return
		}

		if err := handler.SetBotStatus(r.Context(), status); err != nil {
			logger.Error("set bot status", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Failed to set bot status"))
			return
		}
		logger.Debug("bot status set", slog.String("status", req.Status))

		render.JSON(w, r, response.Ok(fmt.Sprintf("Bot status: %s", req.Status)))
	}
}
