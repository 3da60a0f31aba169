package blocklist

import (
	"SaborBot/internal/lib/api/response"
	"SaborBot/internal/lib/sl"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

type NumberRequest struct {
	ChatID string `json:"chat_id"`
}

// Add puts a chat id on the deny-list; its messages are dropped silently.
func Add(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := handlerLogger(log, r)

		chatID, ok := decodeNumber(logger, w, r)
		if !ok {
			return
		}

		if err := handler.BlockNumber(r.Context(), chatID); err != nil {
			logger.Error("block number", slog.String("chat_id", chatID), sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Failed to block number"))
			return
		}
		logger.Debug("number blocked", slog.String("chat_id", chatID))

		render.JSON(w, r, response.Ok("Number blocked"))
	}
}

// Remove takes a chat id off the deny-list.
func Remove(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := handlerLogger(log, r)

		chatID, ok := decodeNumber(logger, w, r)
		if !ok {
			return
		}

		if err := handler.UnblockNumber(r.Context(), chatID); err != nil {
			logger.Error("unblock number", slog.String("chat_id", chatID), sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Failed to unblock number"))
			return
		}
		logger.Debug("number unblocked", slog.String("chat_id", chatID))

		render.JSON(w, r, response.Ok("Number unblocked"))
	}
}

// List returns all deny-listed chat ids.
func List(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := handlerLogger(log, r)

		numbers, err := handler.ListBlockedNumbers(r.Context())
		if err != nil {
			logger.Error("list blocked numbers", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Failed to list blocked numbers"))
			return
		}

		if numbers == nil {
			numbers = []string{}
		}
		render.JSON(w, r, response.OkData(numbers))
	}
}

func handlerLogger(log *slog.Logger, r *http.Request) *slog.Logger {
	return log.With(
		sl.Module("http.handlers.blocklist"),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

func decodeNumber(logger *slog.Logger, w http.ResponseWriter, r *http.Request) (string, bool) {
	var req NumberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("Invalid request body"))
		return "", false
	}
	if req.ChatID == "" {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("chat_id is required"))
		return "", false
	}
	return req.ChatID, true
}
