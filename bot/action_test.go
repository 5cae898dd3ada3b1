package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAction(t *testing.T) {
	cases := []struct {
		name string
		data string
		want action
		ok   bool
	}{
		{"pending list", "approve_user", action{kind: actionPendingList}, true},
		{"approve with id", "approve_42", action{kind: actionApprove, userID: 42}, true},
		{"add schedule", "add_schedule", action{kind: actionAddSchedule}, true},
		{"add homework", "add_homework", action{kind: actionAddHomework}, true},
		{"announcement", "send_announcement", action{kind: actionSendAnnouncement}, true},
		{"view feedback", "view_feedback", action{kind: actionViewFeedback}, true},
		{"admin menu", "admin_menu", action{kind: actionAdminMenu}, true},
		{"homework menu", "homework", action{kind: actionHomeworkMenu}, true},
		{"homework all", "homework_all", action{kind: actionHomeworkAll}, true},
		{"homework day", "homework_вторник", action{kind: actionHomeworkDay, day: "вторник"}, true},
		{"homework lesson", "homework_вторник_алгебра", action{kind: actionHomeworkLesson, day: "вторник", lesson: "алгебра"}, true},
		{"reply feedback", "reply_feedback_5", action{kind: actionReplyFeedback, feedbackID: 5}, true},
		{"control prefix stripped", "\fadmin_menu", action{kind: actionAdminMenu}, true},

		{"empty", "", action{}, false},
		{"unknown tag", "bogus", action{}, false},
		{"approve without id", "approve_", action{}, false},
		{"approve bad id", "approve_abc", action{}, false},
		{"approve negative id", "approve_-5", action{}, false},
		{"reply bad id", "reply_feedback_x", action{}, false},
		{"homework trailing underscore", "homework_", action{}, false},
		{"homework too many parts", "homework_a_b_c", action{}, false},
		{"homework empty lesson", "homework_вторник_", action{}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := parseAction(tc.data)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, tc.want, got)
			}
		})
	}
}
