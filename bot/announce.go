package bot

import (
	"github.com/loxno92/schoolbot/logger"
	"github.com/loxno92/schoolbot/session"
	"github.com/loxno92/schoolbot/storage"
	tghelpers "github.com/loxno92/schoolbot/telegram/helpers"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

func (b *Bot) promptAnnouncement(c tele.Context) error {
	if err := tghelpers.SendText(c, msgAnnouncementPrompt); err != nil {
		return err
	}
	b.sessions.Set(senderID(c), session.Mode{Kind: session.AwaitingAnnouncement})
	return nil
}

// submitAnnouncement appends the text to the announcement log and fans it out
// to the registered-user set as snapshotted inside the same write lock, so a
// user approved mid-broadcast is either in or out, never half-notified.
func (b *Bot) submitAnnouncement(c tele.Context) error {
	userID := senderID(c)
	defer b.sessions.Clear(userID)

	text := c.Text()
	var recipients []int64
	err := b.store.Update(func(doc *storage.Document) error {
		doc.AddAnnouncement(text)
		recipients = append(recipients, doc.Users...)
		return nil
	})
	if err != nil {
		return err
	}

	for _, id := range recipients {
		if err := tghelpers.SendTo(c, b.api, id, msgAnnouncementPrefix+text); err != nil {
			logger.Warn(tghelpers.BuildContext(c), "bot", "announce.send",
				slog.Int64("user_id", id),
				slog.String("err", err.Error()),
			)
		}
	}

	logger.Info(tghelpers.BuildContext(c), "bot", "announce.sent",
		slog.Int("recipients", len(recipients)),
	)
	return tghelpers.SendText(c, msgAnnouncementSent)
}
