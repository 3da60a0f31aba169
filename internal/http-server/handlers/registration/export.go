package registration

import (
	"SaborBot/internal/lib/api/response"
	"SaborBot/internal/lib/sl"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

// Export streams all registrations as a CSV attachment.
func Export(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.registration"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		data, err := handler.ExportRegistrationsCSV(r.Context())
		if err != nil {
			logger.Error("export registrations", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Failed to export registrations"))
			return
		}

		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="cadastros.csv"`)
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(data); err != nil {
			logger.Warn("writing csv body", sl.Err(err))
		}
	}
}
