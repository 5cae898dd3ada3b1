package bot

import (
	"strconv"
	"strings"
)

// Callback data tags. Arguments are appended with "_", so day and lesson
// names must not contain underscores themselves.
const (
	tagHomework         = "homework"
	tagHomeworkAll      = "homework_all"
	tagApproveUser      = "approve_user"
	tagAddSchedule      = "add_schedule"
	tagAddHomework      = "add_homework"
	tagSendAnnouncement = "send_announcement"
	tagViewFeedback     = "view_feedback"
	tagAdminMenu        = "admin_menu"

	prefixApprove       = "approve_"
	prefixReplyFeedback = "reply_feedback_"
	prefixHomework      = "homework_"
)

type actionKind int

const (
	actionNone actionKind = iota
	actionHomeworkMenu
	actionHomeworkAll
	actionHomeworkDay
	actionHomeworkLesson
	actionPendingList
	actionApprove
	actionAddSchedule
	actionAddHomework
	actionSendAnnouncement
	actionViewFeedback
	actionReplyFeedback
	actionAdminMenu
)

// action is a decoded callback payload.
type action struct {
	kind       actionKind
	userID     int64
	feedbackID int
	day        string
	lesson     string
}

// parseAction decodes raw callback data. Exact tags win over prefixed ones,
// so "approve_user" lists pending registrations while "approve_42" approves
// one. Unrecognized payloads report ok=false and are dropped by the caller.
func parseAction(data string) (action, bool) {
	data = strings.TrimSpace(strings.TrimPrefix(data, "\f"))

	switch data {
	case tagHomework:
		return action{kind: actionHomeworkMenu}, true
	case tagHomeworkAll:
		return action{kind: actionHomeworkAll}, true
	case tagApproveUser:
		return action{kind: actionPendingList}, true
	case tagAddSchedule:
		return action{kind: actionAddSchedule}, true
	case tagAddHomework:
		return action{kind: actionAddHomework}, true
	case tagSendAnnouncement:
		return action{kind: actionSendAnnouncement}, true
	case tagViewFeedback:
		return action{kind: actionViewFeedback}, true
	case tagAdminMenu:
		return action{kind: actionAdminMenu}, true
	}

	if rest, ok := strings.CutPrefix(data, prefixReplyFeedback); ok {
		id, err := strconv.Atoi(rest)
		if err != nil || id <= 0 {
			return action{}, false
		}
		return action{kind: actionReplyFeedback, feedbackID: id}, true
	}

	if rest, ok := strings.CutPrefix(data, prefixApprove); ok {
		id, err := strconv.ParseInt(rest, 10, 64)
		if err != nil || id <= 0 {
			return action{}, false
		}
		return action{kind: actionApprove, userID: id}, true
	}

	if rest, ok := strings.CutPrefix(data, prefixHomework); ok {
		parts := strings.Split(rest, "_")
		switch len(parts) {
		case 1:
			if parts[0] == "" {
				return action{}, false
			}
			return action{kind: actionHomeworkDay, day: parts[0]}, true
		case 2:
			if parts[0] == "" || parts[1] == "" {
				return action{}, false
			}
			return action{kind: actionHomeworkLesson, day: parts[0], lesson: parts[1]}, true
		}
		return action{}, false
	}

	return action{}, false
}
