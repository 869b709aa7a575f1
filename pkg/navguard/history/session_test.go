package history_test

import (
	"testing"

	"github.com/BrandonKowalski/navguard/pkg/navguard/history"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_PushKeepsLocationAndDoesNotNotify(t *testing.T) {
	s := history.NewSession(history.Location{Screen: 3, Input: "quiz"})
	notified := 0
	s.Subscribe(func(history.Change) { notified++ })

	require.NoError(t, s.Push("sentinel"))

	assert.Equal(t, 2, s.Depth())
	assert.Equal(t, 3, s.Current().Location.Screen)
	assert.Equal(t, "quiz", s.Current().Location.Input)
	assert.Equal(t, "sentinel", s.Current().State)
	assert.Zero(t, notified)
}

func TestSession_GoNotifiesAfterMove(t *testing.T) {
	s := history.NewSession(history.Location{Screen: 0})
	s.Navigate(history.Location{Screen: 1})
	s.Navigate(history.Location{Screen: 2})

	var got []history.Change
	s.Subscribe(func(c history.Change) {
		assert.Equal(t, c.To, s.Depth(), "listener must observe the new position")
		got = append(got, c)
	})

	require.NoError(t, s.Go(-2))
	require.Len(t, got, 1)
	assert.Equal(t, history.Change{From: 3, To: 1, Delta: -2, Entry: history.Entry{Location: history.Location{Screen: 0}}}, got[0])

	require.NoError(t, s.Forward())
	assert.Equal(t, 2, s.Depth())
	assert.Len(t, got, 2)
}

func TestSession_OutOfRangeIsIgnored(t *testing.T) {
	s := history.NewSession(history.Location{})
	notified := 0
	s.Subscribe(func(history.Change) { notified++ })

	err := s.Back()
	assert.ErrorIs(t, err, history.ErrOutOfRange)
	assert.ErrorIs(t, s.Forward(), history.ErrOutOfRange)
	assert.Equal(t, 1, s.Depth())
	assert.Zero(t, notified)
	assert.NoError(t, s.Go(0))
}

func TestSession_PushTruncatesForwardEntries(t *testing.T) {
	s := history.NewSession(history.Location{Screen: 0})
	s.Navigate(history.Location{Screen: 1})
	s.Navigate(history.Location{Screen: 2})
	require.NoError(t, s.Go(-2))
	assert.True(t, s.CanGoForward())

	require.NoError(t, s.Push(nil))

	assert.Equal(t, 2, s.Len())
	assert.False(t, s.CanGoForward())
	assert.Equal(t, 0, s.Current().Location.Screen)
}

func TestSession_ListenerMayMoveAgain(t *testing.T) {
	s := history.NewSession(history.Location{Screen: 0})
	s.Navigate(history.Location{Screen: 1})
	s.Navigate(history.Location{Screen: 2})

	var depths []int
	s.Subscribe(func(c history.Change) {
		depths = append(depths, c.To)
		if c.To == 2 {
			require.NoError(t, s.Back())
		}
	})

	require.NoError(t, s.Back())
	assert.Equal(t, []int{2, 1}, depths)
	assert.Equal(t, 1, s.Depth())
}

func TestSession_UnsubscribeIsIdempotent(t *testing.T) {
	s := history.NewSession(history.Location{})
	s.Navigate(history.Location{Screen: 1})
	notified := 0
	unsubscribe := s.Subscribe(func(history.Change) { notified++ })
	other := s.Subscribe(func(history.Change) {})

	unsubscribe()
	unsubscribe()

	assert.Equal(t, 1, s.Listeners())
	require.NoError(t, s.Back())
	assert.Zero(t, notified)

	other()
	assert.Zero(t, s.Listeners())
}

func TestSession_SetResumeAndReset(t *testing.T) {
	s := history.NewSession(history.Location{Screen: 1})
	s.SetResume(7)
	assert.Equal(t, 7, s.Current().Location.Resume)

	s.Navigate(history.Location{Screen: 2})
	s.Reset(history.Location{Screen: 9})
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, 9, s.Current().Location.Screen)
	assert.False(t, s.CanGoBack())
}
