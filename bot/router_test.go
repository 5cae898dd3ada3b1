package bot

import (
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/loxno92/schoolbot/session"
	"github.com/loxno92/schoolbot/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tele "gopkg.in/telebot.v4"
)

const testAdminID int64 = 99

// fakeCtx implements the slice of tele.Context the handlers touch. Unused
// interface methods panic via the embedded nil Context, which keeps the fake
// honest about what handlers actually call.
type fakeCtx struct {
	tele.Context
	user    *tele.User
	text    string
	cbData  string
	sent    []string
	markups []*tele.ReplyMarkup
	kv      map[string]interface{}
}

func newFakeCtx(userID int64) *fakeCtx {
	return &fakeCtx{
		user: &tele.User{ID: userID},
		kv:   map[string]interface{}{},
	}
}

func (f *fakeCtx) Sender() *tele.User { return f.user }

func (f *fakeCtx) Chat() *tele.Chat { return &tele.Chat{ID: f.user.ID} }

func (f *fakeCtx) Text() string { return f.text }

func (f *fakeCtx) Update() tele.Update { return tele.Update{ID: 1} }

func (f *fakeCtx) Callback() *tele.Callback {
	if f.cbData == "" {
		return nil
	}
	return &tele.Callback{Data: f.cbData, Sender: f.user}
}

func (f *fakeCtx) Respond(_ ...*tele.CallbackResponse) error { return nil }

func (f *fakeCtx) Get(key string) interface{} { return f.kv[key] }

func (f *fakeCtx) Set(key string, value interface{}) { f.kv[key] = value }

func (f *fakeCtx) Send(what interface{}, opts ...interface{}) error {
	if s, ok := what.(string); ok {
		f.sent = append(f.sent, s)
	}
	for _, o := range opts {
		if so, ok := o.(*tele.SendOptions); ok && so.ReplyMarkup != nil {
			f.markups = append(f.markups, so.ReplyMarkup)
		}
	}
	return nil
}

func (f *fakeCtx) last() string {
	if len(f.sent) == 0 {
		return ""
	}
	return f.sent[len(f.sent)-1]
}

// fakeAPI records cross-user sends keyed by recipient id.
type fakeAPI struct {
	mu   sync.Mutex
	sent map[int64][]string
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{sent: map[int64][]string{}}
}

func (a *fakeAPI) Send(to tele.Recipient, what interface{}, _ ...interface{}) (*tele.Message, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	id, err := strconv.ParseInt(to.Recipient(), 10, 64)
	if err != nil {
		return nil, err
	}
	if s, ok := what.(string); ok {
		a.sent[id] = append(a.sent[id], s)
	}
	return &tele.Message{}, nil
}

func (a *fakeAPI) sentTo(id int64) []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.sent[id]...)
}

func newTestBot(t *testing.T) (*Bot, *fakeAPI) {
	t.Helper()
	store := storage.Open(filepath.Join(t.TempDir(), "data.json"))
	b := New(testAdminID, store, session.NewManager())
	api := newFakeAPI()
	b.Bind(api)
	return b, api
}

func register(t *testing.T, b *Bot, ids ...int64) {
	t.Helper()
	require.NoError(t, b.store.Update(func(doc *storage.Document) error {
		for _, id := range ids {
			doc.Register(id)
		}
		return nil
	}))
}

func text(t *testing.T, b *Bot, userID int64, msg string) *fakeCtx {
	t.Helper()
	c := newFakeCtx(userID)
	c.text = msg
	require.NoError(t, b.handleText(c))
	return c
}

func callback(t *testing.T, b *Bot, userID int64, data string) *fakeCtx {
	t.Helper()
	c := newFakeCtx(userID)
	c.cbData = data
	require.NoError(t, b.handleCallback(c))
	return c
}

func TestStartUnknownUserArmsRegistration(t *testing.T) {
	b, _ := newTestBot(t)

	c := newFakeCtx(7)
	require.NoError(t, b.handleStart(c))
	assert.Equal(t, msgRegisterPrompt, c.last())
	assert.Equal(t, session.AwaitingRegistration, b.sessions.Get(7).Kind)

	// Repeated /start only re-arms the mode, the document is untouched.
	require.NoError(t, b.handleStart(newFakeCtx(7)))
	doc := b.store.Load()
	assert.Empty(t, doc.Users)
	assert.Empty(t, doc.PendingUsers)
}

func TestStartPendingAndRegistered(t *testing.T) {
	b, _ := newTestBot(t)
	require.NoError(t, b.store.Update(func(doc *storage.Document) error {
		doc.AddPending(7, "Анна", "Иванова")
		return nil
	}))

	c := newFakeCtx(7)
	require.NoError(t, b.handleStart(c))
	assert.Equal(t, msgPendingWait, c.last())
	assert.Equal(t, session.Idle, b.sessions.Get(7).Kind)

	register(t, b, 8)
	c = newFakeCtx(8)
	require.NoError(t, b.handleStart(c))
	assert.Equal(t, msgChooseAction, c.last())
	require.Len(t, c.markups, 1)
	assert.True(t, c.markups[0].ResizeKeyboard)
}

func TestRegistrationFlow(t *testing.T) {
	b, _ := newTestBot(t)
	require.NoError(t, b.handleStart(newFakeCtx(7)))

	// Malformed input keeps registration mode armed.
	c := text(t, b, 7, "Анна")
	assert.Equal(t, msgRegisterFormat, c.last())
	assert.Equal(t, session.AwaitingRegistration, b.sessions.Get(7).Kind)
	assert.Empty(t, b.store.Load().PendingUsers)

	c = text(t, b, 7, "Анна Иванова")
	assert.Equal(t, msgRegisterSent, c.last())
	assert.Equal(t, session.Idle, b.sessions.Get(7).Kind)

	doc := b.store.Load()
	assert.Equal(t, storage.PendingUser{Name: "Анна", Surname: "Иванова"}, doc.PendingUsers[7])
	assert.False(t, doc.IsRegistered(7))
}

func TestApproveFlow(t *testing.T) {
	b, api := newTestBot(t)
	require.NoError(t, b.store.Update(func(doc *storage.Document) error {
		doc.AddPending(42, "Пётр", "Сидоров")
		return nil
	}))

	c := callback(t, b, testAdminID, "approve_user")
	require.NotEmpty(t, c.sent)
	assert.Contains(t, c.sent[0], "ID: 42")
	assert.Equal(t, msgChoosePending, c.last())

	c = callback(t, b, testAdminID, "approve_42")
	assert.Equal(t, "Пользователь Пётр Сидоров одобрен.", c.sent[0])
	assert.Contains(t, api.sentTo(42), msgApprovedByAdmin)
	assert.True(t, b.store.Load().IsRegistered(42))

	// A stale button press after approval only reports not-found.
	c = callback(t, b, testAdminID, "approve_42")
	assert.Equal(t, msgPendingNotFound, c.last())
}

func TestApproveDeniedForNonAdmin(t *testing.T) {
	b, api := newTestBot(t)
	require.NoError(t, b.store.Update(func(doc *storage.Document) error {
		doc.AddPending(42, "Пётр", "Сидоров")
		return nil
	}))
	register(t, b, 8)

	c := callback(t, b, 8, "approve_42")
	assert.Empty(t, c.sent)
	assert.Empty(t, api.sentTo(42))
	assert.False(t, b.store.Load().IsRegistered(42))
}

func TestScheduleAuthoring(t *testing.T) {
	b, _ := newTestBot(t)

	c := callback(t, b, testAdminID, "add_schedule")
	assert.Equal(t, msgSchedulePrompt, c.last())
	assert.Equal(t, session.AwaitingScheduleLine, b.sessions.Get(testAdminID).Kind)

	c = text(t, b, testAdminID, "Вторник:алгебра,физика")
	assert.Equal(t, msgScheduleUpdated, c.last())
	assert.Equal(t, session.Idle, b.sessions.Get(testAdminID).Kind)
	assert.Equal(t, []string{"алгебра", "физика"}, b.store.Load().Schedule["вторник"])

	// A malformed line abandons the mode without touching the document.
	callback(t, b, testAdminID, "add_schedule")
	c = text(t, b, testAdminID, "без разделителя")
	assert.Equal(t, msgBadFormat, c.last())
	assert.Equal(t, session.Idle, b.sessions.Get(testAdminID).Kind)
	assert.Equal(t, []string{"алгебра", "физика"}, b.store.Load().Schedule["вторник"])
}

func TestScheduleLineFromNonAdminDropped(t *testing.T) {
	b, _ := newTestBot(t)
	b.sessions.Set(8, session.Mode{Kind: session.AwaitingScheduleLine})

	c := text(t, b, 8, "вторник:алгебра")
	assert.Empty(t, c.sent)
	assert.Empty(t, b.store.Load().Schedule)
}

func TestScheduleView(t *testing.T) {
	b, _ := newTestBot(t)
	register(t, b, 8)

	c := text(t, b, 8, labelSchedule)
	assert.Equal(t, msgNoSchedule, c.last())

	require.NoError(t, b.store.Update(func(doc *storage.Document) error {
		doc.SetSchedule("вторник", []string{"алгебра", "физика"})
		doc.SetSchedule("понедельник", []string{"история"})
		return nil
	}))

	c = text(t, b, 8, labelSchedule)
	out := c.last()
	assert.Contains(t, out, msgScheduleHeader)
	assert.Contains(t, out, "Понедельник:")
	assert.Contains(t, out, "- история")
	assert.Contains(t, out, "- физика")
	// Weekday order, not map order.
	assert.Less(t, strings.Index(out, "Понедельник"), strings.Index(out, "Вторник"))
}

func TestHomeworkAuthoringAndBrowse(t *testing.T) {
	b, _ := newTestBot(t)
	register(t, b, 8)

	callback(t, b, testAdminID, "add_homework")
	assert.Equal(t, session.AwaitingHomeworkLine, b.sessions.Get(testAdminID).Kind)
	c := text(t, b, testAdminID, "Вторник:Алгебра:стр. 10 №3")
	assert.Equal(t, msgHomeworkAdded, c.last())

	c = text(t, b, 8, labelHomework)
	assert.Equal(t, msgChooseDay, c.last())
	require.Len(t, c.markups, 1)
	kb := c.markups[0].InlineKeyboard
	require.NotEmpty(t, kb)
	assert.Equal(t, "homework_all", kb[0][0].Data)
	assert.Equal(t, "homework_вторник", kb[1][0].Data)

	c = callback(t, b, 8, "homework_вторник")
	assert.Contains(t, c.last(), "алгебра: стр. 10 №3")

	c = callback(t, b, 8, "homework_вторник_алгебра")
	assert.Contains(t, c.last(), "ДЗ на Вторник по Алгебра:")
	assert.Contains(t, c.last(), "стр. 10 №3")

	c = callback(t, b, 8, "homework_all")
	assert.Contains(t, c.last(), "Вторник:")

	c = callback(t, b, 8, "homework_среда")
	assert.Equal(t, msgNoHomeworkDay, c.last())

	c = callback(t, b, 8, "homework_вторник_химия")
	assert.Equal(t, msgNoSuchHomework, c.last())
}

func TestFeedbackFlow(t *testing.T) {
	b, api := newTestBot(t)
	register(t, b, 8)

	c := text(t, b, 8, labelFeedback)
	assert.Equal(t, msgFeedbackPrompt, c.last())
	assert.Equal(t, session.AwaitingFeedback, b.sessions.Get(8).Kind)

	c = text(t, b, 8, "не работает кнопка")
	assert.Equal(t, msgFeedbackSent, c.last())
	assert.Equal(t, session.Idle, b.sessions.Get(8).Kind)

	doc := b.store.Load()
	require.Len(t, doc.Feedback, 1)
	assert.Equal(t, 1, doc.Feedback[0].ID)
	assert.Equal(t, int64(8), doc.Feedback[0].UserID)

	c = callback(t, b, testAdminID, "view_feedback")
	assert.Contains(t, c.sent[0], "не работает кнопка")
	assert.Equal(t, msgChooseFeedback, c.last())

	c = callback(t, b, testAdminID, "reply_feedback_1")
	assert.Equal(t, msgReplyPrompt, c.last())
	assert.Equal(t, session.Mode{Kind: session.AwaitingReply, FeedbackID: 1}, b.sessions.Get(testAdminID))

	c = text(t, b, testAdminID, "починим завтра")
	assert.Equal(t, msgReplySent, c.last())
	assert.Contains(t, api.sentTo(8), msgReplyPrefix+"починим завтра")
	assert.Equal(t, session.Idle, b.sessions.Get(testAdminID).Kind)
}

func TestReplyToMissingFeedback(t *testing.T) {
	b, api := newTestBot(t)

	callback(t, b, testAdminID, "reply_feedback_999")
	c := text(t, b, testAdminID, "ответ в пустоту")
	assert.Equal(t, msgFeedbackNotFound, c.last())
	// The mode is cleared even when the record is gone.
	assert.Equal(t, session.Idle, b.sessions.Get(testAdminID).Kind)
	assert.Empty(t, api.sent)
}

func TestAnnouncementBroadcast(t *testing.T) {
	b, api := newTestBot(t)
	register(t, b, 1, 2, testAdminID)

	c := callback(t, b, testAdminID, "send_announcement")
	assert.Equal(t, msgAnnouncementPrompt, c.last())

	c = text(t, b, testAdminID, "Завтра каникулы")
	assert.Equal(t, msgAnnouncementSent, c.last())
	assert.Contains(t, api.sentTo(1), msgAnnouncementPrefix+"Завтра каникулы")
	assert.Contains(t, api.sentTo(2), msgAnnouncementPrefix+"Завтра каникулы")

	doc := b.store.Load()
	assert.Equal(t, []string{"Завтра каникулы"}, doc.Announcements)
}

func TestAdminCommand(t *testing.T) {
	b, _ := newTestBot(t)

	c := newFakeCtx(8)
	require.NoError(t, b.handleAdmin(c))
	assert.Equal(t, msgNoAdminRights, c.last())

	c = newFakeCtx(testAdminID)
	require.NoError(t, b.handleAdmin(c))
	assert.Equal(t, msgAdminPanel, c.last())
	require.Len(t, c.markups, 1)
	assert.Len(t, c.markups[0].InlineKeyboard, 5)
}

func TestUnknownInputDropped(t *testing.T) {
	b, _ := newTestBot(t)
	register(t, b, 8)

	// Unknown callback payloads and unrecognized free text produce nothing.
	c := callback(t, b, 8, "bogus_payload")
	assert.Empty(t, c.sent)

	c = text(t, b, 8, "просто текст")
	assert.Empty(t, c.sent)

	// Unregistered users do not get menu labels either.
	c = text(t, b, 9, labelSchedule)
	assert.Empty(t, c.sent)
}

func TestAdminPromptDeniedForNonAdmin(t *testing.T) {
	b, _ := newTestBot(t)
	register(t, b, 8)

	c := callback(t, b, 8, "add_schedule")
	assert.Empty(t, c.sent)
	assert.Equal(t, session.Idle, b.sessions.Get(8).Kind)
}

func TestWithSummarySwallowsHandlerError(t *testing.T) {
	b, _ := newTestBot(t)

	h := b.withSummary("boom", func(tele.Context) error {
		return assert.AnError
	})
	c := newFakeCtx(8)
	require.NoError(t, h(c))
	assert.Equal(t, msgInternalError, c.last())
}
