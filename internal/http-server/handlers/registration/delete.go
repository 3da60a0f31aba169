package registration

import (
	"SaborBot/internal/lib/api/response"
	"SaborBot/internal/lib/sl"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

// Delete removes a single registration by id.
func Delete(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.registration"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id <= 0 {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("Invalid registration id"))
			return
		}

		if err := handler.DeleteRegistration(r.Context(), id); err != nil {
			logger.Error("delete registration", slog.Int64("id", id), sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Failed to delete registration"))
			return
		}
		logger.Debug("registration deleted", slog.Int64("id", id))

		render.JSON(w, r, response.Ok(fmt.Sprintf("Registration %d deleted", id)))
	}
}
