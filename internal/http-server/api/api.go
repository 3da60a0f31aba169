package api

import (
	"SaborBot/bot/whatsapp"
	"SaborBot/internal/config"
	"SaborBot/internal/http-server/handlers/blocklist"
	"SaborBot/internal/http-server/handlers/errors"
	"SaborBot/internal/http-server/handlers/key"
	"SaborBot/internal/http-server/handlers/registration"
	"SaborBot/internal/http-server/handlers/session"
	"SaborBot/internal/http-server/handlers/status"
	whatsapphandler "SaborBot/internal/http-server/handlers/whatsapp"
	"SaborBot/internal/http-server/middleware/authenticate"
	"SaborBot/internal/http-server/middleware/timeout"
	"SaborBot/internal/lib/sl"
	"SaborBot/internal/ws"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

type Server struct {
	conf       *config.Config
	httpServer *http.Server
	log        *slog.Logger
}

type Handler interface {
	authenticate.Authenticate
	ws.Authenticator
	status.Core
	registration.Core
	session.Core
	blocklist.Core
	key.Core
}

func New(conf *config.Config, log *slog.Logger, handler Handler, hub *ws.Hub, waBot *whatsapp.WhatsAppBot) error {

	server := Server{
		conf: conf,
		log:  log.With(sl.Module("api.server")),
	}

	router := chi.NewRouter()
	router.Use(timeout.Timeout(5))
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)

	router.NotFound(errors.NotFound(log))
	router.MethodNotAllowed(errors.NotAllowed(log))

	// WebSocket upgrades carry their token as a query param and skip the
	// Bearer middleware.
	router.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWs(hub, handler, log, w, r)
	})

	// Meta calls the webhook unauthenticated; payloads are checked by
	// signature instead.
	if waBot != nil {
		router.Get("/webhook/whatsapp", whatsapphandler.WebhookVerify(log, waBot))
		router.Post("/webhook/whatsapp", whatsapphandler.WebhookHandler(log, waBot))
	}

	router.Route("/api/v1", func(v1 chi.Router) {
		v1.Use(render.SetContentType(render.ContentTypeJSON))
		v1.Use(authenticate.New(log, handler))

		v1.Route("/status", func(r chi.Router) {
			r.Get("/", status.Get(log, handler))
			r.Post("/", status.Set(log, handler))
		})
		v1.Route("/registrations", func(r chi.Router) {
			r.Get("/", registration.List(log, handler))
			r.Get("/export", registration.Export(log, handler))
			r.Delete("/{id}", registration.Delete(log, handler))
		})
		v1.Route("/sessions", func(r chi.Router) {
			r.Get("/", session.List(log, handler))
			r.Get("/messages", session.Messages(log, handler))
			r.Post("/intervene", session.Intervene(log, handler))
			r.Post("/reactivate", session.Reactivate(log, handler))
			r.Post("/reset-greeting", session.ResetGreeting(log, handler))
		})
		v1.Route("/blocklist", func(r chi.Router) {
			r.Get("/", blocklist.List(log, handler))
			r.Post("/", blocklist.Add(log, handler))
			r.Delete("/", blocklist.Remove(log, handler))
		})
		v1.Route("/key", func(r chi.Router) {
			r.Post("/new", key.Generate(log, handler))
		})
	})

	httpLog := slog.NewLogLogger(log.Handler(), slog.LevelError)
	server.httpServer = &http.Server{
		Handler:  router,
		ErrorLog: httpLog,
	}

	serverAddress := fmt.Sprintf("%s:%s", conf.Listen.BindIP, conf.Listen.Port)
	listener, err := net.Listen("tcp", serverAddress)
	if err != nil {
		return err
	}

	server.log.Info("starting api server", slog.String("address", serverAddress))

	return server.httpServer.Serve(listener)
}
