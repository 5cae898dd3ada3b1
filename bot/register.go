package bot

import (
	"github.com/loxno92/schoolbot/logger"
	"github.com/loxno92/schoolbot/storage"
	tghelpers "github.com/loxno92/schoolbot/telegram/helpers"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// submitRegistration records the name pair as a pending request. A malformed
// line keeps registration mode armed so the user can just try again.
func (b *Bot) submitRegistration(c tele.Context) error {
	userID := senderID(c)

	fn, err := parseFullName(c.Text())
	if err != nil {
		return tghelpers.SendText(c, msgRegisterFormat)
	}

	err = b.store.Update(func(doc *storage.Document) error {
		doc.AddPending(userID, fn.name, fn.surname)
		return nil
	})
	if err != nil {
		return err
	}
	b.sessions.Clear(userID)

	logger.Info(tghelpers.BuildContext(c), "bot", "registration.pending",
		slog.Int64("user_id", userID),
	)
	return tghelpers.SendText(c, msgRegisterSent)
}
