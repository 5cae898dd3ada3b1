package bot

import (
	"fmt"
	"strings"

	"github.com/loxno92/schoolbot/session"
	"github.com/loxno92/schoolbot/storage"
	tghelpers "github.com/loxno92/schoolbot/telegram/helpers"
	"github.com/loxno92/schoolbot/telegram/keyboard"

	tele "gopkg.in/telebot.v4"
)

// showHomeworkMenu offers the week overview plus one button per stored day.
func (b *Bot) showHomeworkMenu(c tele.Context) error {
	doc := b.store.Load()
	if len(doc.Homework) == 0 {
		return tghelpers.SendText(c, msgNoHomework)
	}

	buttons := []keyboard.InlineBtn{
		{Text: btnHomeworkAll, Data: tagHomeworkAll},
	}
	for _, day := range orderedDays(doc.Homework) {
		buttons = append(buttons, keyboard.InlineBtn{
			Text: fmt.Sprintf("ДЗ на %s", capitalize(day)),
			Data: prefixHomework + day,
		})
	}
	return tghelpers.SendKB(c, msgChooseDay, keyboard.InlineButtons(buttons...))
}

// showHomeworkAll renders every stored assignment grouped by day.
func (b *Bot) showHomeworkAll(c tele.Context) error {
	doc := b.store.Load()
	if len(doc.Homework) == 0 {
		return tghelpers.SendText(c, msgNoHomework)
	}

	var sb strings.Builder
	sb.WriteString("Домашнее задание на неделю:\n")
	for _, day := range orderedDays(doc.Homework) {
		sb.WriteString("\n")
		sb.WriteString(capitalize(day))
		sb.WriteString(":\n")
		byLesson := doc.Homework[day]
		for _, lesson := range sortedKeys(byLesson) {
			fmt.Fprintf(&sb, "- %s: %s\n", lesson, byLesson[lesson])
		}
	}

	back := keyboard.InlineButtons(keyboard.InlineBtn{Text: btnBack, Data: tagHomework})
	return tghelpers.SendKB(c, sb.String(), back)
}

// showHomeworkDay lists one day's assignments with per-lesson drill-down.
func (b *Bot) showHomeworkDay(c tele.Context, day string) error {
	doc := b.store.Load()
	byLesson := doc.Homework[day]
	if len(byLesson) == 0 {
		return tghelpers.SendText(c, msgNoHomeworkDay)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Домашнее задание на %s:\n", capitalize(day))
	var buttons []keyboard.InlineBtn
	for _, lesson := range sortedKeys(byLesson) {
		fmt.Fprintf(&sb, "- %s: %s\n", lesson, byLesson[lesson])
		buttons = append(buttons, keyboard.InlineBtn{
			Text: fmt.Sprintf("ДЗ по %s", capitalize(lesson)),
			Data: prefixHomework + day + "_" + lesson,
		})
	}
	buttons = append(buttons, keyboard.InlineBtn{Text: btnBack, Data: tagHomework})

	return tghelpers.SendKB(c, sb.String(), keyboard.InlineButtons(buttons...))
}

func (b *Bot) showHomeworkLesson(c tele.Context, day, lesson string) error {
	doc := b.store.Load()
	task, ok := doc.Homework[day][lesson]
	if !ok || task == "" {
		return tghelpers.SendText(c, msgNoSuchHomework)
	}

	text := fmt.Sprintf("ДЗ на %s по %s:\n%s", capitalize(day), capitalize(lesson), task)
	back := keyboard.InlineButtons(keyboard.InlineBtn{Text: btnBack, Data: prefixHomework + day})
	return tghelpers.SendKB(c, text, back)
}

func (b *Bot) promptHomework(c tele.Context) error {
	if err := tghelpers.SendText(c, msgHomeworkPrompt); err != nil {
		return err
	}
	b.sessions.Set(senderID(c), session.Mode{Kind: session.AwaitingHomeworkLine})
	return nil
}

// submitHomeworkLine stores one (day, lesson) assignment, overwriting any
// previous text for that pair.
func (b *Bot) submitHomeworkLine(c tele.Context) error {
	userID := senderID(c)
	defer b.sessions.Clear(userID)

	line, err := parseHomeworkLine(c.Text())
	if err != nil {
		return tghelpers.SendText(c, msgBadFormat)
	}

	err = b.store.Update(func(doc *storage.Document) error {
		doc.SetHomework(line.day, line.lesson, line.text)
		return nil
	})
	if err != nil {
		return err
	}
	return tghelpers.SendText(c, msgHomeworkAdded)
}
