// Package bot implements the conversation logic: registration approval,
// schedule and homework publishing, feedback exchange and announcements.
package bot

import (
	"fmt"
	"time"

	"github.com/loxno92/schoolbot/logger"
	"github.com/loxno92/schoolbot/session"
	"github.com/loxno92/schoolbot/storage"
	"github.com/loxno92/schoolbot/telegram"
	tghelpers "github.com/loxno92/schoolbot/telegram/helpers"
	"github.com/loxno92/schoolbot/telegram/middleware"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// Bot wires the document store and session manager into telegram handlers.
type Bot struct {
	adminID  int64
	store    *storage.Store
	sessions *session.Manager
	api      tghelpers.API
}

// New constructs the bot around its two state owners. Bind must be called
// with the live telegram API before any handler runs.
func New(adminID int64, store *storage.Store, sessions *session.Manager) *Bot {
	return &Bot{
		adminID:  adminID,
		store:    store,
		sessions: sessions,
	}
}

// Bind attaches the outbound API used for cross-user sends (approvals,
// replies, broadcasts).
func (b *Bot) Bind(api tghelpers.API) {
	b.api = api
}

// Routes lists every endpoint the bot serves. /admin is gated twice: the
// middleware answers strangers, the handler re-verifies before acting.
func (b *Bot) Routes() []telegram.Route {
	adminGate := middleware.AdminOnlyMiddleware(middleware.AdminOptions{
		AdminID: b.adminID,
		OnReject: func(c tele.Context) error {
			return tghelpers.SendText(c, msgNoAdminRights)
		},
	})
	return []telegram.Route{
		{Endpoint: "/start", Handler: b.withSummary("start", b.handleStart)},
		{Endpoint: "/admin", Handler: b.withSummary("admin", adminGate(b.handleAdmin))},
		{Endpoint: tele.OnText, Handler: b.withSummary("text", b.handleText)},
		{Endpoint: tele.OnCallback, Handler: b.withSummary("callback", b.handleCallback)},
	}
}

// Commands is the public command list. /admin is intentionally not listed.
func Commands() []tele.Command {
	return []tele.Command{
		{Text: "/start", Description: "Главное меню"},
	}
}

func (b *Bot) isAdmin(userID int64) bool {
	return userID == b.adminID
}

// withSummary wraps a handler with panic recovery, a summary log line and the
// user-facing fallback for unexpected failures. Errors never propagate to the
// poller: the user gets a generic message and the mode is left untouched.
func (b *Bot) withSummary(name string, fn tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		start := time.Now()
		ctx := tghelpers.WithHandler(c, name)

		defer func() {
			if r := recover(); r != nil {
				logger.Error(ctx, "bot", "handler.panic",
					slog.String("handler", name),
					slog.String("err", logger.SanitizeLimit(fmt.Sprint(r), 256)),
				)
				_ = tghelpers.SendText(c, msgInternalError)
			}
		}()

		err := fn(c)
		b.logSummary(c, name, start, err)
		if err != nil {
			_ = tghelpers.SendText(c, msgInternalError)
		}
		return nil
	}
}

func (b *Bot) logSummary(c tele.Context, name string, start time.Time, err error) {
	ctx := tghelpers.WithHandler(c, name)
	msgs, kb := middleware.GetCounters(c)

	status, outcome := "ok", "ok"
	if err != nil {
		status, outcome = "fail", "fail"
	}

	attrs := []slog.Attr{
		slog.String("status", status),
		slog.String("handler", name),
		slog.String("outcome", outcome),
		slog.Int("messages", msgs),
		slog.Bool("kb", kb),
		slog.Int64("duration_ms", logger.RoundMS(time.Since(start)).Milliseconds()),
	}
	if uid := senderID(c); uid != 0 {
		attrs = append(attrs, slog.Int64("user_id", uid))
		attrs = append(attrs, slog.String("mode", b.sessions.Get(uid).Kind.String()))
	}
	if err != nil {
		attrs = append(attrs,
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
			slog.String("cause", name),
		)
	}
	logger.LogEvent(ctx, logger.Component("bot"), slog.LevelInfo, "handler.handled", attrs...)
}

func senderID(c tele.Context) int64 {
	if u := c.Sender(); u != nil {
		return u.ID
	}
	return 0
}
