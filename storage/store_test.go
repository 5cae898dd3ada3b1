package storage

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return Open(filepath.Join(t.TempDir(), "data.json"))
}

func TestLoadMissingFileYieldsEmptyDocument(t *testing.T) {
	s := newTestStore(t)
	doc := s.Load()

	require.Empty(t, doc.Users)
	require.Empty(t, doc.PendingUsers)
	require.Empty(t, doc.Schedule)
	require.Empty(t, doc.Homework)
	require.Empty(t, doc.Feedback)
	require.Empty(t, doc.Announcements)
}

func TestLoadUnparsableFileYieldsEmptyDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	doc := Open(path).Load()
	require.Empty(t, doc.Users)
	require.Empty(t, doc.PendingUsers)
}

func TestRoundTrip(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Update(func(d *Document) error {
		d.Register(100)
		d.Register(200)
		d.AddPending(315, "Анна", "Иванова")
		d.SetSchedule("вторник", []string{"алгебра", "физика"})
		d.SetHomework("вторник", "алгебра", "стр.10")
		d.AddFeedback(100, "привет")
		d.AddAnnouncement("завтра контрольная")
		return nil
	}))

	doc := s.Load()
	require.Equal(t, []int64{100, 200}, doc.Users)
	require.Equal(t, PendingUser{Name: "Анна", Surname: "Иванова"}, doc.PendingUsers[315])
	require.Equal(t, []string{"алгебра", "физика"}, doc.Schedule["вторник"])
	require.Equal(t, "стр.10", doc.Homework["вторник"]["алгебра"])
	require.Equal(t, []Feedback{{ID: 1, UserID: 100, Text: "привет"}}, doc.Feedback)
	require.Equal(t, []string{"завтра контрольная"}, doc.Announcements)

	// A second load must reconstruct the identical document.
	require.Equal(t, doc, s.Load())
}

func TestPendingKeysStoredAsStrings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	s := Open(path)
	require.NoError(t, s.Update(func(d *Document) error {
		d.AddPending(42, "Пётр", "Сидоров")
		return nil
	}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(raw), `"42"`)

	doc := s.Load()
	require.Equal(t, "Пётр", doc.PendingUsers[42].Name)
}

func TestUpdateErrorAbandonsWrite(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Update(func(d *Document) error {
		d.Register(1)
		return nil
	}))

	errBoom := os.ErrInvalid
	err := s.Update(func(d *Document) error {
		d.Register(2)
		return errBoom
	})
	require.ErrorIs(t, err, errBoom)

	require.Equal(t, []int64{1}, s.Load().Users)
}

func TestApproveIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Update(func(d *Document) error {
		d.AddPending(7, "Анна", "Иванова")
		return nil
	}))

	var approved PendingUser
	require.NoError(t, s.Update(func(d *Document) error {
		pu, ok := d.Approve(7)
		require.True(t, ok)
		approved = pu
		return nil
	}))
	require.Equal(t, "Анна", approved.Name)

	// Second approval finds nothing pending and changes nothing.
	require.NoError(t, s.Update(func(d *Document) error {
		_, ok := d.Approve(7)
		require.False(t, ok)
		return nil
	}))

	doc := s.Load()
	require.Equal(t, []int64{7}, doc.Users)
	require.Empty(t, doc.PendingUsers)
}

func TestScheduleOverwritesDayWholesale(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Update(func(d *Document) error {
		d.SetSchedule("вторник", []string{"алгебра", "физика"})
		return nil
	}))
	require.NoError(t, s.Update(func(d *Document) error {
		d.SetSchedule("вторник", []string{"химия"})
		return nil
	}))
	require.Equal(t, []string{"химия"}, s.Load().Schedule["вторник"])
}

func TestConcurrentFeedbackIDsStayUnique(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Update(func(d *Document) error {
		d.Register(1)
		d.Register(2)
		return nil
	}))

	const writers = 16
	var wg sync.WaitGroup
	wg.Add(writers)
	for i := 0; i < writers; i++ {
		userID := int64(i%2 + 1)
		go func() {
			defer wg.Done()
			_ = s.Update(func(d *Document) error {
				d.AddFeedback(userID, "сообщение")
				return nil
			})
		}()
	}
	wg.Wait()

	doc := s.Load()
	require.Len(t, doc.Feedback, writers)
	seen := map[int]bool{}
	for _, fb := range doc.Feedback {
		require.False(t, seen[fb.ID], "duplicate feedback id %d", fb.ID)
		seen[fb.ID] = true
	}
	require.True(t, seen[1])
	require.True(t, seen[writers])
}
