// Package session tracks which multi-step dialog each user is currently
// inside. State lives for the process lifetime only and is never persisted.
package session

import "sync"

// Kind enumerates the mutually exclusive conversation modes.
type Kind int

const (
	// Idle means no active dialog; plain menu navigation.
	Idle Kind = iota
	// AwaitingRegistration expects a "Имя Фамилия" line from an unknown user.
	AwaitingRegistration
	// AwaitingScheduleLine expects a schedule authoring line from the admin.
	AwaitingScheduleLine
	// AwaitingHomeworkLine expects a homework authoring line from the admin.
	AwaitingHomeworkLine
	// AwaitingAnnouncement expects broadcast text from the admin.
	AwaitingAnnouncement
	// AwaitingFeedback expects free-text feedback from a registered user.
	AwaitingFeedback
	// AwaitingReply expects the admin's reply to a specific feedback record.
	AwaitingReply
)

func (k Kind) String() string {
	switch k {
	case Idle:
		return "idle"
	case AwaitingRegistration:
		return "registration"
	case AwaitingScheduleLine:
		return "schedule_line"
	case AwaitingHomeworkLine:
		return "homework_line"
	case AwaitingAnnouncement:
		return "announcement"
	case AwaitingFeedback:
		return "feedback"
	case AwaitingReply:
		return "reply"
	}
	return "unknown"
}

// Mode is the single active dialog of a user. FeedbackID is meaningful only
// when Kind is AwaitingReply.
type Mode struct {
	Kind       Kind
	FeedbackID int
}

// Manager owns per-user modes and serializes event handling per identity so
// overlapping updates for one user cannot race on the mode.
type Manager struct {
	mu    sync.RWMutex
	modes map[int64]Mode
	locks map[int64]*sync.Mutex
}

// NewManager constructs an empty in-memory Manager.
func NewManager() *Manager {
	return &Manager{
		modes: make(map[int64]Mode),
		locks: make(map[int64]*sync.Mutex),
	}
}

// Get returns the current mode of a user, Idle if none was ever set.
func (m *Manager) Get(userID int64) Mode {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.modes[userID]
}

// Set replaces whatever mode the user was in. Entering a new dialog always
// leaves the previous one.
func (m *Manager) Set(userID int64, mode Mode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if mode.Kind == Idle {
		delete(m.modes, userID)
		return
	}
	m.modes[userID] = mode
}

// Clear resets the user to Idle.
func (m *Manager) Clear(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.modes, userID)
}

// InProgress reports whether the user is inside a dialog.
func (m *Manager) InProgress(userID int64) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	mode, ok := m.modes[userID]
	return ok && mode.Kind != Idle
}

// Do runs fn while holding the per-identity lock. Events for different users
// proceed in parallel; two events for the same user run one at a time.
func (m *Manager) Do(userID int64, fn func() error) error {
	lock := m.userLock(userID)
	lock.Lock()
	defer lock.Unlock()
	return fn()
}

func (m *Manager) userLock(userID int64) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	lock, ok := m.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		m.locks[userID] = lock
	}
	return lock
}
