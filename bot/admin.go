package bot

import (
	"errors"
	"fmt"

	"github.com/loxno92/schoolbot/storage"
	tghelpers "github.com/loxno92/schoolbot/telegram/helpers"
	"github.com/loxno92/schoolbot/telegram/keyboard"

	tele "gopkg.in/telebot.v4"
)

// handleAdmin serves the /admin command. Non-admins get an explicit refusal;
// the command is not listed publicly.
func (b *Bot) handleAdmin(c tele.Context) error {
	userID := senderID(c)
	if userID == 0 {
		return nil
	}

	return b.sessions.Do(userID, func() error {
		if !b.isAdmin(userID) {
			return tghelpers.SendText(c, msgNoAdminRights)
		}
		return b.showAdminMenu(c)
	})
}

func (b *Bot) showAdminMenu(c tele.Context) error {
	markup := keyboard.InlineButtons(
		keyboard.InlineBtn{Text: btnApproveRequests, Data: tagApproveUser},
		keyboard.InlineBtn{Text: btnAddSchedule, Data: tagAddSchedule},
		keyboard.InlineBtn{Text: btnAddHomework, Data: tagAddHomework},
		keyboard.InlineBtn{Text: btnSendAnnouncement, Data: tagSendAnnouncement},
		keyboard.InlineBtn{Text: btnViewFeedback, Data: tagViewFeedback},
	)
	return tghelpers.SendKB(c, msgAdminPanel, markup)
}

// showPendingUsers lists registration requests, one message per request with
// its own approve button, then a trailing navigation message.
func (b *Bot) showPendingUsers(c tele.Context) error {
	doc := b.store.Load()
	if len(doc.PendingUsers) == 0 {
		return tghelpers.SendText(c, msgNoPending)
	}

	for _, id := range doc.PendingIDs() {
		pu := doc.PendingUsers[id]
		markup := keyboard.InlineButtons(keyboard.InlineBtn{
			Text: btnApprove,
			Data: fmt.Sprintf("%s%d", prefixApprove, id),
		})
		text := fmt.Sprintf("ID: %d, Имя: %s, Фамилия: %s", id, pu.Name, pu.Surname)
		if err := tghelpers.SendKB(c, text, markup); err != nil {
			return err
		}
	}

	back := keyboard.InlineButtons(keyboard.InlineBtn{Text: btnBack, Data: tagAdminMenu})
	return tghelpers.SendKB(c, msgChoosePending, back)
}

// approveUser moves one pending identity into the registered set and notifies
// both sides. A stale button (already approved or never pending) only gets a
// not-found reply; the document is not rewritten.
func (b *Bot) approveUser(c tele.Context, userID int64) error {
	var approved storage.PendingUser
	err := b.store.Update(func(doc *storage.Document) error {
		pu, ok := doc.Approve(userID)
		if !ok {
			return storage.ErrNoChange
		}
		approved = pu
		return nil
	})
	if errors.Is(err, storage.ErrNoChange) {
		return tghelpers.SendText(c, msgPendingNotFound)
	}
	if err != nil {
		return err
	}

	if err := tghelpers.SendText(c, fmt.Sprintf("Пользователь %s %s одобрен.", approved.Name, approved.Surname)); err != nil {
		return err
	}
	return tghelpers.SendTo(c, b.api, userID, msgApprovedByAdmin)
}
