package bot

import (
	"github.com/loxno92/schoolbot/session"
	tghelpers "github.com/loxno92/schoolbot/telegram/helpers"
	"github.com/loxno92/schoolbot/telegram/keyboard"

	tele "gopkg.in/telebot.v4"
)

// handleStart greets by registration status. It never mutates the document:
// repeated /start from an unknown user only re-arms registration mode.
func (b *Bot) handleStart(c tele.Context) error {
	userID := senderID(c)
	if userID == 0 {
		return nil
	}

	return b.sessions.Do(userID, func() error {
		doc := b.store.Load()
		switch {
		case doc.IsRegistered(userID):
			return tghelpers.SendKB(c, msgChooseAction, mainMenu())
		case doc.IsPending(userID):
			return tghelpers.SendText(c, msgPendingWait)
		default:
			if err := tghelpers.SendText(c, msgRegisterPrompt); err != nil {
				return err
			}
			b.sessions.Set(userID, session.Mode{Kind: session.AwaitingRegistration})
			return nil
		}
	})
}

func mainMenu() *tele.ReplyMarkup {
	return keyboard.ReplyButtons(
		[]string{labelSchedule},
		[]string{labelHomework},
		[]string{labelFeedback},
	)
}
