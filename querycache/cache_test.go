package querycache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchFillsAndReuses(t *testing.T) {
	c, err := New(16)
	require.NoError(t, err)

	calls := 0
	fn := func(ctx context.Context) (any, error) {
		calls++
		return "value", nil
	}

	v, err := c.Fetch(context.Background(), "k", fn)
	require.NoError(t, err)
	assert.Equal(t, "value", v)

	v, err = c.Fetch(context.Background(), "k", fn)
	require.NoError(t, err)
	assert.Equal(t, "value", v)
	assert.Equal(t, 1, calls)
}

func TestCancelInflightStopsFetch(t *testing.T) {
	c, err := New(16)
	require.NoError(t, err)

	started := make(chan struct{})
	done := make(chan error, 1)

	go func() {
		_, err := c.Fetch(context.Background(), "k", func(ctx context.Context) (any, error) {
			close(started)
			<-ctx.Done()
			return nil, ctx.Err()
		})
		done <- err
	}()

	<-started
	c.CancelInflight("k")

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("fetch did not observe cancellation")
	}

	_, ok := c.Get("k")
	assert.False(t, ok, "canceled fetch must not populate the cache")
}

func TestMutateAppliesEditBeforeSend(t *testing.T) {
	c, err := New(16)
	require.NoError(t, err)
	c.Set("k", 1)

	var seen any
	edited, err := c.Mutate(context.Background(), "k",
		func(v any) any { return v.(int) + 1 },
		func(ctx context.Context) error {
			seen, _ = c.Get("k")
			return nil
		},
	)

	require.NoError(t, err)
	assert.Equal(t, 2, edited, "edited value is returned")
	assert.Equal(t, 2, seen, "speculative edit visible while the request is in flight")

	_, ok := c.Get("k")
	assert.False(t, ok, "entry invalidated on settlement")
}

func TestMutateRollsBackOnError(t *testing.T) {
	c, err := New(16)
	require.NoError(t, err)
	c.Set("k", 1)

	boom := errors.New("boom")

	_, err = c.Mutate(context.Background(), "k",
		func(v any) any { return v.(int) + 1 },
		func(ctx context.Context) error { return boom },
	)
	assert.ErrorIs(t, err, boom)

	// After a failed mutation the entry is invalidated like any settlement,
	// so the next read refetches authoritative state.
	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestMutateWithoutCachedEntrySkipsEdit(t *testing.T) {
	c, err := New(16)
	require.NoError(t, err)

	editCalled := false
	edited, err := c.Mutate(context.Background(), "missing",
		func(v any) any { editCalled = true; return v },
		func(ctx context.Context) error { return nil },
	)

	require.NoError(t, err)
	assert.Nil(t, edited)
	assert.False(t, editCalled)
}

func TestMutateCancelsInflightFetch(t *testing.T) {
	c, err := New(16)
	require.NoError(t, err)

	started := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)
		_, _ = c.Fetch(context.Background(), "k", func(ctx context.Context) (any, error) {
			close(started)
			<-ctx.Done()
			return "stale", ctx.Err()
		})
	}()

	<-started
	_, err = c.Mutate(context.Background(), "k",
		func(v any) any { return v },
		func(ctx context.Context) error { return nil },
	)
	require.NoError(t, err)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("in-flight fetch was not canceled by the mutation")
	}
}
