package registration

import (
	"SaborBot/entity"
	"SaborBot/internal/lib/api/response"
	"SaborBot/internal/lib/sl"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

// List returns all committed registrations ordered by id.
func List(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.registration"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		regs, err := handler.ListRegistrations(r.Context())
		if err != nil {
			logger.Error("list registrations", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Failed to list registrations"))
			return
		}

		if regs == nil {
			regs = []entity.Registration{}
		}
		render.JSON(w, r, response.OkData(regs))
	}
}
