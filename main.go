package main

import (
	"SaborBot/bot"
	"SaborBot/bot/chat"
	"SaborBot/bot/conversation"
	"SaborBot/bot/whatsapp"
	"SaborBot/impl/core"
	"SaborBot/internal/config"
	repository "SaborBot/internal/database"
	"SaborBot/internal/http-server/api"
	"SaborBot/internal/lib/logger"
	"SaborBot/internal/lib/sl"
	"SaborBot/internal/service/status"
	"SaborBot/internal/service/sweeper"
	"SaborBot/internal/ws"
	"context"
	"flag"
	"log/slog"
	"time"
)

func main() {

	configPath := flag.String("conf", "config.yml", "path to config file")
	logPath := flag.String("log", "/var/log/", "path to log file directory")
	flag.Parse()

	conf := config.MustLoad(*configPath)
	lg := logger.SetupLogger(conf.Env, *logPath)

	lg.Info("starting saborbot", slog.String("config", *configPath), slog.String("env", conf.Env))
	lg.Debug("debug messages enabled")

	ctx := context.Background()

	hub := ws.NewHub(lg)
	go hub.Run()

	handler := core.New(lg)
	handler.SetAuthKey(conf.Listen.ApiKey)
	handler.SetHub(hub)
	hub.SetSnapshotter(handler)

	db, err := repository.NewMongoClient(conf, lg)
	if err != nil {
		lg.With(
			sl.Err(err),
		).Error("mongo client")
		return
	}
	if db == nil {
		lg.Error("mongo is disabled; the bot cannot run without its store")
		return
	}
	handler.SetRepository(db)
	lg.With(
		slog.String("host", conf.Mongo.Host),
		slog.String("port", conf.Mongo.Port),
		slog.String("user", conf.Mongo.User),
		slog.String("database", conf.Mongo.Database),
	).Info("mongo client initialized")

	statusService := status.NewStatusService(lg)
	statusService.SetRepository(db)
	statusService.SetBroadcaster(hub)
	if err := statusService.Init(ctx); err != nil {
		lg.With(
			sl.Err(err),
		).Error("status service init")
		return
	}
	handler.SetStatusService(statusService)

	// One messaging transport carries the conversation. WhatsApp is the
	// primary channel; Telegram serves deployments without a Meta setup.
	var (
		messenger chat.Messenger
		contacts  chat.ContactLookup
		waBot     *whatsapp.WhatsAppBot
		tgBot     *bot.TgBot
	)
	switch {
	case conf.WhatsApp.Enabled:
		waBot = whatsapp.NewWhatsAppBot(
			conf.WhatsApp.AccessToken,
			conf.WhatsApp.VerifyToken,
			conf.WhatsApp.AppSecret,
			conf.WhatsApp.PhoneNumberID,
			conf.Bot.ChatIdSuffix,
			lg,
		)
		waBot.SetReadyCallback(hub.BroadcastReadiness)
		messenger, contacts = waBot, waBot
		handler.SetTransport(waBot)
		lg.Info("whatsapp transport initialized")

	case conf.Telegram.Enabled:
		tgBot, err = bot.NewTgBot(conf.Telegram.BotName, conf.Telegram.ApiKey, lg)
		if err != nil {
			lg.With(
				sl.Err(err),
			).Error("failed to initialize telegram bot")
			return
		}
		tgBot.SetReadyCallback(hub.BroadcastReadiness)
		messenger, contacts = tgBot, tgBot
		handler.SetTransport(tgBot)
		lg.With(
			slog.String("bot_name", conf.Telegram.BotName),
		).Info("telegram transport initialized")

	default:
		lg.Error("no messaging transport enabled")
		return
	}

	engine := conversation.NewEngine(db, statusService, messenger, contacts, conversation.Options{
		Admins:          conf.AuthorizedAdmins(),
		AdminChatId:     conf.Bot.AdminChatId,
		SecondaryChatId: conf.Bot.SecondaryChatId,
		ChatIdSuffix:    conf.Bot.ChatIdSuffix,
		CountryPrefix:   conf.Bot.CountryPrefix,
		Timeout:         time.Duration(conf.Bot.TimeoutMinutes) * time.Minute,
	}, lg)
	engine.SetEvents(hub)
	handler.SetConversation(engine)

	if waBot != nil {
		waBot.SetHandler(engine)
	}
	if tgBot != nil {
		tgBot.SetHandler(engine)
		go func() {
			if err := tgBot.Start(); err != nil {
				lg.Error("telegram bot error", sl.Err(err))
			}
		}()
	}

	sweep := sweeper.NewSweeperService(
		time.Duration(conf.Bot.TimeoutMinutes)*time.Minute,
		time.Duration(conf.Bot.SweepMinutes)*time.Minute,
		conversation.InactivityNotice(),
		lg,
	)
	sweep.SetRepository(db)
	sweep.SetNotifier(messenger)
	go sweep.Run(ctx)

	// *** blocking start with http server ***
	err = api.New(conf, lg, handler, hub, waBot)
	if err != nil {
		lg.Error("server start", sl.Err(err))
		return
	}
	lg.Error("service stopped")
}
