package bot

import (
	"strings"

	"github.com/loxno92/schoolbot/session"
	"github.com/loxno92/schoolbot/storage"
	tghelpers "github.com/loxno92/schoolbot/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// showSchedule renders the whole week: every stored day with its lesson list.
func (b *Bot) showSchedule(c tele.Context) error {
	doc := b.store.Load()
	if len(doc.Schedule) == 0 {
		return tghelpers.SendText(c, msgNoSchedule)
	}

	var sb strings.Builder
	sb.WriteString(msgScheduleHeader)
	sb.WriteString("\n")
	for _, day := range orderedDays(doc.Schedule) {
		sb.WriteString("\n")
		sb.WriteString(capitalize(day))
		sb.WriteString(":\n")
		for _, lesson := range doc.Schedule[day] {
			sb.WriteString("- ")
			sb.WriteString(lesson)
			sb.WriteString("\n")
		}
	}
	return tghelpers.SendText(c, sb.String())
}

func (b *Bot) promptSchedule(c tele.Context) error {
	if err := tghelpers.SendText(c, msgSchedulePrompt); err != nil {
		return err
	}
	b.sessions.Set(senderID(c), session.Mode{Kind: session.AwaitingScheduleLine})
	return nil
}

// submitScheduleLine stores one authored day. The mode is left either way:
// a malformed line has to be re-entered from the admin menu.
func (b *Bot) submitScheduleLine(c tele.Context) error {
	userID := senderID(c)
	defer b.sessions.Clear(userID)

	line, err := parseScheduleLine(c.Text())
	if err != nil {
		return tghelpers.SendText(c, msgBadFormat)
	}

	err = b.store.Update(func(doc *storage.Document) error {
		doc.SetSchedule(line.day, line.lessons)
		return nil
	})
	if err != nil {
		return err
	}
	return tghelpers.SendText(c, msgScheduleUpdated)
}
