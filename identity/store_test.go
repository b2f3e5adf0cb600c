package identity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreStartsLoading(t *testing.T) {
	s := NewStore()

	sess, loading := s.Current()
	assert.Nil(t, sess)
	assert.True(t, loading)
}

func TestAwaitTimesOutWhileUnresolved(t *testing.T) {
	s := NewStore()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := s.Await(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestAwaitReturnsAfterResolution(t *testing.T) {
	s := NewStore()
	want := &Session{Email: "a@x.com"}

	go func() {
		time.Sleep(10 * time.Millisecond)
		s.Set(want)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	sess, err := s.Await(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, sess)
}

func TestAwaitSignedOut(t *testing.T) {
	s := NewStore()
	s.Clear()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	sess, err := s.Await(ctx)
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestSubscribeAndUnsubscribe(t *testing.T) {
	s := NewStore()

	var got []*Session
	unsubscribe := s.Subscribe(func(sess *Session) {
		got = append(got, sess)
	})

	first := &Session{Email: "a@x.com"}
	s.Set(first)
	require.Len(t, got, 1)
	assert.Equal(t, first, got[0])

	s.Clear()
	require.Len(t, got, 2)
	assert.Nil(t, got[1])

	unsubscribe()
	s.Set(&Session{Email: "b@x.com"})
	assert.Len(t, got, 2, "no notifications after unsubscribe")
}
