package storage

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// PendingUser holds the name pair submitted during registration.
type PendingUser struct {
	Name    string `json:"name"`
	Surname string `json:"surname"`
}

// Feedback is a free-text message from a registered user to the admin.
type Feedback struct {
	ID     int    `json:"id"`
	UserID int64  `json:"user_id"`
	Text   string `json:"text"`
}

// Document is the whole persisted dataset. Every mutation replaces the file
// wholesale; there is no partial update path.
type Document struct {
	Users         []int64
	PendingUsers  map[int64]PendingUser
	Schedule      map[string][]string
	Homework      map[string]map[string]string
	Feedback      []Feedback
	Announcements []string
}

// NewDocument returns a document with every collection allocated and empty.
func NewDocument() *Document {
	return &Document{
		Users:         []int64{},
		PendingUsers:  map[int64]PendingUser{},
		Schedule:      map[string][]string{},
		Homework:      map[string]map[string]string{},
		Feedback:      []Feedback{},
		Announcements: []string{},
	}
}

// IsRegistered reports whether the identity belongs to the approved-user set.
func (d *Document) IsRegistered(userID int64) bool {
	for _, id := range d.Users {
		if id == userID {
			return true
		}
	}
	return false
}

// IsPending reports whether the identity awaits admin approval.
func (d *Document) IsPending(userID int64) bool {
	_, ok := d.PendingUsers[userID]
	return ok
}

// Register adds the identity to the approved-user set. Idempotent.
func (d *Document) Register(userID int64) {
	if d.IsRegistered(userID) {
		return
	}
	d.Users = append(d.Users, userID)
}

// AddPending records a registration request for the identity.
func (d *Document) AddPending(userID int64, name, surname string) {
	d.PendingUsers[userID] = PendingUser{Name: name, Surname: surname}
}

// Approve moves the identity from pending to registered. The returned flag is
// false when the identity is not pending, in which case nothing changes.
func (d *Document) Approve(userID int64) (PendingUser, bool) {
	pu, ok := d.PendingUsers[userID]
	if !ok {
		return PendingUser{}, false
	}
	delete(d.PendingUsers, userID)
	d.Register(userID)
	return pu, true
}

// PendingIDs returns pending identities in ascending order for stable rendering.
func (d *Document) PendingIDs() []int64 {
	ids := make([]int64, 0, len(d.PendingUsers))
	for id := range d.PendingUsers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// SetSchedule overwrites the lesson list for a day wholesale.
func (d *Document) SetSchedule(day string, lessons []string) {
	d.Schedule[day] = lessons
}

// SetHomework records the assignment for a (day, lesson) pair, overwriting any
// previous value.
func (d *Document) SetHomework(day, lesson, assignment string) {
	byLesson, ok := d.Homework[day]
	if !ok {
		byLesson = map[string]string{}
		d.Homework[day] = byLesson
	}
	byLesson[lesson] = assignment
}

// AddFeedback appends a feedback record with the next monotonic id. Callers
// must hold the store write boundary so ids stay unique.
func (d *Document) AddFeedback(userID int64, text string) Feedback {
	fb := Feedback{ID: d.nextFeedbackID(), UserID: userID, Text: text}
	d.Feedback = append(d.Feedback, fb)
	return fb
}

func (d *Document) nextFeedbackID() int {
	max := 0
	for _, fb := range d.Feedback {
		if fb.ID > max {
			max = fb.ID
		}
	}
	return max + 1
}

// FeedbackByID looks up a feedback record by id.
func (d *Document) FeedbackByID(id int) (Feedback, bool) {
	for _, fb := range d.Feedback {
		if fb.ID == id {
			return fb, true
		}
	}
	return Feedback{}, false
}

// AddAnnouncement appends the text to the announcement log.
func (d *Document) AddAnnouncement(text string) {
	d.Announcements = append(d.Announcements, text)
}

// wireDocument mirrors Document in the on-disk layout: pending registrations
// are keyed by decimal strings because JSON objects cannot carry integer keys.
type wireDocument struct {
	Users         []int64                      `json:"users"`
	PendingUsers  map[string]PendingUser       `json:"pending_users"`
	Schedule      map[string][]string          `json:"schedule"`
	Homework      map[string]map[string]string `json:"homework"`
	Feedback      []Feedback                   `json:"feedback"`
	Announcements []string                     `json:"announcements"`
}

// MarshalJSON encodes the document in the storage format.
func (d *Document) MarshalJSON() ([]byte, error) {
	wire := wireDocument{
		Users:         d.Users,
		PendingUsers:  make(map[string]PendingUser, len(d.PendingUsers)),
		Schedule:      d.Schedule,
		Homework:      d.Homework,
		Feedback:      d.Feedback,
		Announcements: d.Announcements,
	}
	if wire.Users == nil {
		wire.Users = []int64{}
	}
	if wire.Schedule == nil {
		wire.Schedule = map[string][]string{}
	}
	if wire.Homework == nil {
		wire.Homework = map[string]map[string]string{}
	}
	if wire.Feedback == nil {
		wire.Feedback = []Feedback{}
	}
	if wire.Announcements == nil {
		wire.Announcements = []string{}
	}
	for id, pu := range d.PendingUsers {
		wire.PendingUsers[strconv.FormatInt(id, 10)] = pu
	}
	return json.Marshal(wire)
}

// UnmarshalJSON decodes the storage format, normalizing identity keys back to
// integers. A malformed key fails the whole decode so the caller falls back to
// the empty document.
func (d *Document) UnmarshalJSON(data []byte) error {
	var wire wireDocument
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	out := NewDocument()
	if wire.Users != nil {
		out.Users = wire.Users
	}
	for key, pu := range wire.PendingUsers {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return fmt.Errorf("pending user key %q: %w", key, err)
		}
		out.PendingUsers[id] = pu
	}
	if wire.Schedule != nil {
		out.Schedule = wire.Schedule
	}
	if wire.Homework != nil {
		out.Homework = wire.Homework
	}
	if wire.Feedback != nil {
		out.Feedback = wire.Feedback
	}
	if wire.Announcements != nil {
		out.Announcements = wire.Announcements
	}

	*d = *out
	return nil
}
