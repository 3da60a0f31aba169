package session

import (
	"SaborBot/internal/lib/api/response"
	"SaborBot/internal/lib/sl"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

type TargetRequest struct {
	ChatID string `json:"chat_id"`
}

// targetAction handles the shared decode-validate-act shape of the three
// per-chat session mutations.
func targetAction(log *slog.Logger, name string, act func(ctx context.Context, chatID string) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.session"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req TargetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("Invalid request body"))
			return
		}
		if req.ChatID == "" {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("chat_id is required"))
			return
		}

		if err := act(r.Context(), req.ChatID); err != nil {
			logger.Error(name, slog.String("chat_id", req.ChatID), sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error(fmt.Sprintf("Failed to %s", name)))
			return
		}
		logger.Debug(name, slog.String("chat_id", req.ChatID))

		render.JSON(w, r, response.Ok(fmt.Sprintf("Done: %s", name)))
	}
}

// Intervene pauses the bot for a chat so a human can take over.
func Intervene(log *slog.Logger, handler Core) http.HandlerFunc {
	return targetAction(log, "intervene", handler.Intervene)
}

// Reactivate returns a chat from handoff to the bot.
func Reactivate(log *slog.Logger, handler Core) http.HandlerFunc {
	return targetAction(log, "reactivate", handler.Reactivate)
}

// ResetGreeting clears the greeted mark so the chat is welcomed again.
func ResetGreeting(log *slog.Logger, handler Core) http.HandlerFunc {
	return targetAction(log, "reset greeting", handler.ResetGreeting)
}
