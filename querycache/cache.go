package querycache

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/puzpuzpuz/xsync/v3"

	"convonest/metrics"
)

// Cache is the keyed in-memory query cache backing the view handlers.
// Entries live only as long as the process; everything authoritative stays
// on the server and is reconciled by invalidation after each mutation.
type Cache struct {
	entries  *lru.Cache[string, any]
	inflight *xsync.MapOf[string, context.CancelFunc]
}

func New(size int) (*Cache, error) {
	entries, err := lru.New[string, any](size)
	if err != nil {
		return nil, err
	}
	return &Cache{
		entries:  entries,
		inflight: xsync.NewMapOf[string, context.CancelFunc](),
	}, nil
}

func (c *Cache) Get(key string) (any, bool) {
	return c.entries.Get(key)
}

func (c *Cache) Set(key string, v any) {
	c.entries.Add(key, v)
}

func (c *Cache) Invalidate(key string) {
	c.entries.Remove(key)
}

// CancelInflight cancels any fetch currently running for key, so a stale
// response cannot overwrite a newer optimistic edit.
func (c *Cache) CancelInflight(key string) {
	if cancel, ok := c.inflight.LoadAndDelete(key); ok {
		cancel()
	}
}

// Fetch returns the cached entry for key, or runs fn to fill it. The fetch
// runs under a cancelable context registered in the in-flight table; a
// canceled fetch never writes its result back.
func (c *Cache) Fetch(ctx context.Context, key string, fn func(context.Context) (any, error)) (any, error) {
	if v, ok := c.entries.Get(key); ok {
		return v, nil
	}

	fctx, cancel := context.WithCancel(ctx)
	defer cancel()
	c.inflight.Store(key, cancel)
	defer c.inflight.Delete(key)

	v, err := fn(fctx)
	if err != nil {
		return nil, err
	}
	if fctx.Err() == nil {
		c.entries.Add(key, v)
	}
	return v, nil
}

// Mutate runs the three-phase optimistic protocol for key:
//
//  1. cancel any in-flight fetch for the key and snapshot the cached entry
//  2. apply the speculative edit and make it visible immediately
//  3. send the real request; roll the entry back to the snapshot if it
//     fails, then invalidate on settlement either way so the next read
//     refetches authoritative state
//
// It returns the speculatively edited value and the send error.
func (c *Cache) Mutate(ctx context.Context, key string, edit func(any) any, send func(context.Context) error) (any, error) {
	c.CancelInflight(key)

	snapshot, had := c.entries.Get(key)

	var edited any
	if had {
		edited = edit(snapshot)
		c.entries.Add(key, edited)
		metrics.OptimisticApplied.Inc()
	}

	err := send(ctx)
	if err != nil && had {
		c.entries.Add(key, snapshot)
		metrics.OptimisticRolledBack.Inc()
	}

	c.entries.Remove(key)
	return edited, err
}
