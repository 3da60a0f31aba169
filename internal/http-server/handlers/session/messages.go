package session

import (
	"SaborBot/internal/lib/api/response"
	"SaborBot/internal/lib/sl"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

const defaultMessageLimit = 50

// Messages returns the newest logged messages for a chat, most recent first.
func Messages(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.session"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		chatID := r.URL.Query().Get("chat_id")
		if chatID == "" {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("chat_id is required"))
			return
		}

		limit := int64(defaultMessageLimit)
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || parsed < 1 {
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.Error("Invalid limit"))
				return
			}
			limit = parsed
		}

		messages, err := handler.ChatMessages(r.Context(), chatID, limit)
		if err != nil {
			logger.Error("chat messages", slog.String("chat_id", chatID), sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Failed to list messages"))
			return
		}

		render.JSON(w, r, response.OkData(messages))
	}
}
