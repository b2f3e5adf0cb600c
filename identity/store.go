package identity

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v3"
)

// Store is the process-wide observable session state. It starts in a
// loading state until the first Set or Clear resolves it; consumers that
// need a credential can Await that resolution with a bounded context.
// Subscribers are notified on every session change and must release their
// subscription with the returned unsubscribe func.
type Store struct {
	mu      sync.RWMutex
	session *Session
	loading bool
	ready   chan struct{}

	subs   *xsync.MapOf[uint64, func(*Session)]
	nextID atomic.Uint64
}

func NewStore() *Store {
	return &Store{
		loading: true,
		ready:   make(chan struct{}),
		subs:    xsync.NewMapOf[uint64, func(*Session)](),
	}
}

// Current returns the session (nil when signed out) and the loading flag.
func (s *Store) Current() (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session, s.loading
}

// Set resolves the store to a signed-in session and notifies subscribers.
func (s *Store) Set(sess *Session) {
	s.mu.Lock()
	s.session = sess
	first := s.loading
	s.loading = false
	if first {
		close(s.ready)
	}
	s.mu.Unlock()

	s.notify(sess)
}

// Clear resolves the store to signed-out and notifies subscribers.
func (s *Store) Clear() {
	s.Set(nil)
}

// Await blocks until the first session resolution or ctx expiry. A nil
// session with a nil error means resolution completed signed-out.
func (s *Store) Await(ctx context.Context) (*Session, error) {
	s.mu.RLock()
	loading := s.loading
	ready := s.ready
	s.mu.RUnlock()

	if loading {
		select {
		case <-ready:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	sess, _ := s.Current()
	return sess, nil
}

// Subscribe registers fn for session changes. The returned func removes the
// subscription; callers tie it to their own teardown.
func (s *Store) Subscribe(fn func(*Session)) func() {
	id := s.nextID.Add(1)
	s.subs.Store(id, fn)
	return func() {
		s.subs.Delete(id)
	}
}

func (s *Store) notify(sess *Session) {
	s.subs.Range(func(_ uint64, fn func(*Session)) bool {
		fn(sess)
		return true
	})
}
