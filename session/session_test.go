package session

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultModeIsIdle(t *testing.T) {
	m := NewManager()
	require.Equal(t, Mode{}, m.Get(1))
	require.False(t, m.InProgress(1))
}

func TestSetReplacesPreviousMode(t *testing.T) {
	m := NewManager()
	m.Set(1, Mode{Kind: AwaitingFeedback})
	m.Set(1, Mode{Kind: AwaitingReply, FeedbackID: 3})

	mode := m.Get(1)
	require.Equal(t, AwaitingReply, mode.Kind)
	require.Equal(t, 3, mode.FeedbackID)
}

func TestSetIdleClears(t *testing.T) {
	m := NewManager()
	m.Set(1, Mode{Kind: AwaitingRegistration})
	require.True(t, m.InProgress(1))

	m.Set(1, Mode{})
	require.False(t, m.InProgress(1))
	require.Equal(t, Mode{}, m.Get(1))
}

func TestClear(t *testing.T) {
	m := NewManager()
	m.Set(5, Mode{Kind: AwaitingAnnouncement})
	m.Clear(5)
	require.False(t, m.InProgress(5))
}

func TestModesAreScopedPerUser(t *testing.T) {
	m := NewManager()
	m.Set(1, Mode{Kind: AwaitingScheduleLine})
	m.Set(2, Mode{Kind: AwaitingHomeworkLine})

	require.Equal(t, AwaitingScheduleLine, m.Get(1).Kind)
	require.Equal(t, AwaitingHomeworkLine, m.Get(2).Kind)
	require.Equal(t, Idle, m.Get(3).Kind)
}

func TestDoSerializesPerIdentity(t *testing.T) {
	m := NewManager()

	const iterations = 200
	counter := 0
	var wg sync.WaitGroup
	wg.Add(iterations)
	for i := 0; i < iterations; i++ {
		go func() {
			defer wg.Done()
			_ = m.Do(42, func() error {
				counter++
				return nil
			})
		}()
	}
	wg.Wait()
	require.Equal(t, iterations, counter)
}
