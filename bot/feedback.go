package bot

import (
	"fmt"

	"github.com/loxno92/schoolbot/logger"
	"github.com/loxno92/schoolbot/session"
	"github.com/loxno92/schoolbot/storage"
	tghelpers "github.com/loxno92/schoolbot/telegram/helpers"
	"github.com/loxno92/schoolbot/telegram/keyboard"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

func (b *Bot) promptFeedback(c tele.Context) error {
	if err := tghelpers.SendText(c, msgFeedbackPrompt); err != nil {
		return err
	}
	b.sessions.Set(senderID(c), session.Mode{Kind: session.AwaitingFeedback})
	return nil
}

// submitFeedback appends the message with the next monotonic id and confirms
// to the sender.
func (b *Bot) submitFeedback(c tele.Context) error {
	userID := senderID(c)
	defer b.sessions.Clear(userID)

	var fb storage.Feedback
	err := b.store.Update(func(doc *storage.Document) error {
		fb = doc.AddFeedback(userID, c.Text())
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info(tghelpers.BuildContext(c), "bot", "feedback.received",
		slog.Int("feedback_id", fb.ID),
		slog.Int64("user_id", userID),
	)
	return tghelpers.SendText(c, msgFeedbackSent)
}

// showFeedbackList renders every feedback record for the admin, each with its
// own reply button, then a trailing navigation message.
func (b *Bot) showFeedbackList(c tele.Context) error {
	doc := b.store.Load()
	if len(doc.Feedback) == 0 {
		return tghelpers.SendText(c, msgNoFeedback)
	}

	for _, fb := range doc.Feedback {
		markup := keyboard.InlineButtons(keyboard.InlineBtn{
			Text: btnReply,
			Data: fmt.Sprintf("%s%d", prefixReplyFeedback, fb.ID),
		})
		text := fmt.Sprintf("ID: %d\nСообщение от %d:\n%s", fb.ID, fb.UserID, fb.Text)
		if err := tghelpers.SendKB(c, text, markup); err != nil {
			return err
		}
	}

	back := keyboard.InlineButtons(keyboard.InlineBtn{Text: btnBack, Data: tagAdminMenu})
	return tghelpers.SendKB(c, msgChooseFeedback, back)
}

func (b *Bot) promptReply(c tele.Context, feedbackID int) error {
	if err := tghelpers.SendText(c, msgReplyPrompt); err != nil {
		return err
	}
	b.sessions.Set(senderID(c), session.Mode{
		Kind:       session.AwaitingReply,
		FeedbackID: feedbackID,
	})
	return nil
}

// submitReply forwards the admin's text to the feedback author. The reply
// mode is cleared whether or not the record still exists.
func (b *Bot) submitReply(c tele.Context, feedbackID int) error {
	userID := senderID(c)
	defer b.sessions.Clear(userID)

	var (
		fb    storage.Feedback
		found bool
	)
	err := b.store.View(func(doc *storage.Document) error {
		fb, found = doc.FeedbackByID(feedbackID)
		return nil
	})
	if err != nil {
		return err
	}
	if !found {
		return tghelpers.SendText(c, msgFeedbackNotFound)
	}

	if err := tghelpers.SendTo(c, b.api, fb.UserID, msgReplyPrefix+c.Text()); err != nil {
		return err
	}
	return tghelpers.SendText(c, msgReplySent)
}
