package bot

import (
	"github.com/loxno92/schoolbot/logger"
	"github.com/loxno92/schoolbot/session"
	tghelpers "github.com/loxno92/schoolbot/telegram/helpers"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// handleText routes free text by the sender's active mode first, then by menu
// label. Anything that matches nothing is dropped without a reply.
func (b *Bot) handleText(c tele.Context) error {
	userID := senderID(c)
	if userID == 0 {
		return nil
	}

	return b.sessions.Do(userID, func() error {
		mode := b.sessions.Get(userID)
		switch {
		case mode.Kind == session.AwaitingRegistration:
			return b.submitRegistration(c)
		case mode.Kind == session.AwaitingScheduleLine && b.isAdmin(userID):
			return b.submitScheduleLine(c)
		case mode.Kind == session.AwaitingHomeworkLine && b.isAdmin(userID):
			return b.submitHomeworkLine(c)
		case mode.Kind == session.AwaitingAnnouncement && b.isAdmin(userID):
			return b.submitAnnouncement(c)
		case mode.Kind == session.AwaitingReply && b.isAdmin(userID):
			return b.submitReply(c, mode.FeedbackID)
		}

		doc := b.store.Load()
		if mode.Kind == session.AwaitingFeedback && doc.IsRegistered(userID) {
			return b.submitFeedback(c)
		}

		if doc.IsRegistered(userID) {
			switch c.Text() {
			case labelSchedule:
				return b.showSchedule(c)
			case labelHomework:
				return b.showHomeworkMenu(c)
			case labelFeedback:
				return b.promptFeedback(c)
			}
		}

		logger.Debug(tghelpers.BuildContext(c), "bot", "text.drop",
			slog.Int64("user_id", userID),
			slog.String("mode", mode.Kind.String()),
		)
		return nil
	})
}

// handleCallback decodes the raw payload and dispatches the action. The
// callback is answered up front so the client stops its spinner even when the
// payload is dropped.
func (b *Bot) handleCallback(c tele.Context) error {
	cb := c.Callback()
	if cb == nil {
		return nil
	}
	_ = c.Respond()

	userID := senderID(c)
	if userID == 0 {
		return nil
	}

	act, ok := parseAction(cb.Data)
	if !ok {
		logger.Debug(tghelpers.BuildContext(c), "bot", "callback.drop",
			slog.Int64("user_id", userID),
			slog.String("cb_key", logger.SanitizeLimit(cb.Data, 64)),
		)
		return nil
	}

	return b.sessions.Do(userID, func() error {
		return b.dispatch(c, userID, act)
	})
}

func (b *Bot) dispatch(c tele.Context, userID int64, act action) error {
	switch act.kind {
	case actionHomeworkMenu:
		return b.showHomeworkMenu(c)
	case actionHomeworkAll:
		return b.showHomeworkAll(c)
	case actionHomeworkDay:
		return b.showHomeworkDay(c, act.day)
	case actionHomeworkLesson:
		return b.showHomeworkLesson(c, act.day, act.lesson)
	}

	// Everything below is admin-only. Unauthorized presses are dropped with
	// no reply and no state change.
	if !b.isAdmin(userID) {
		logger.Debug(tghelpers.BuildContext(c), "bot", "callback.denied",
			slog.Int64("user_id", userID),
		)
		return nil
	}

	switch act.kind {
	case actionPendingList:
		return b.showPendingUsers(c)
	case actionApprove:
		return b.approveUser(c, act.userID)
	case actionAddSchedule:
		return b.promptSchedule(c)
	case actionAddHomework:
		return b.promptHomework(c)
	case actionSendAnnouncement:
		return b.promptAnnouncement(c)
	case actionViewFeedback:
		return b.showFeedbackList(c)
	case actionReplyFeedback:
		return b.promptReply(c, act.feedbackID)
	case actionAdminMenu:
		return b.showAdminMenu(c)
	}
	return nil
}
