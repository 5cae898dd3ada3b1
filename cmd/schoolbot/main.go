package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/loxno92/schoolbot/bot"
	"github.com/loxno92/schoolbot/buildinfo"
	"github.com/loxno92/schoolbot/config"
	"github.com/loxno92/schoolbot/logger"
	"github.com/loxno92/schoolbot/session"
	"github.com/loxno92/schoolbot/storage"
	"github.com/loxno92/schoolbot/telegram"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("schoolbot: %v", err)
	}
}

func run() error {
	// .env is optional; real deployments use environment variables directly.
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yml"
	}
	log.Printf("loading config: %s", cfgPath)

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	if err := logger.Init(cfg); err != nil {
		return err
	}
	defer func() {
		if err := logger.Shutdown(); err != nil {
			log.Printf("logger shutdown error: %v", err)
		}
	}()

	store := storage.Open(cfg.Storage.DataFile)
	if err := seedAdmin(store, cfg.Telegram.AdminID); err != nil {
		return err
	}

	sessions := session.NewManager()
	app := bot.New(cfg.Telegram.AdminID, store, sessions)

	startedAt := time.Now()
	opts := telegram.RunOptions{
		Config:      cfg,
		Middlewares: telegram.DefaultMiddlewares(cfg, nil),
		Routes: func(tb *tele.Bot) []telegram.Route {
			app.Bind(tb)
			return app.Routes()
		},
		Commands: bot.Commands(),
		OnStart: func(ctx context.Context, rt telegram.Runtime) error {
			logger.L.With("component", "app").Info("app ready",
				slog.String("event", "ready"),
				slog.String("version", buildinfo.Version),
				slog.Duration("startup_duration", logger.RoundMS(time.Since(startedAt))),
			)
			return nil
		},
		OnStop: func(ctx context.Context, rt telegram.Runtime) error {
			logger.L.With("component", "app").Info("shutting down...",
				slog.String("event", "shutdown"),
			)
			return nil
		},
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return telegram.Run(ctx, opts)
}

// seedAdmin makes sure the admin identity is part of the registered set so it
// receives broadcasts and can use the user-facing menus.
func seedAdmin(store *storage.Store, adminID int64) error {
	err := store.Update(func(doc *storage.Document) error {
		if doc.IsRegistered(adminID) {
			return storage.ErrNoChange
		}
		doc.Register(adminID)
		return nil
	})
	if errors.Is(err, storage.ErrNoChange) {
		return nil
	}
	if err == nil {
		logger.Info(logger.Background(), "app", "admin.seeded",
			slog.Int64("user_id", adminID),
		)
	}
	return err
}
