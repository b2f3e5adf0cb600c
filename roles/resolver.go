package roles

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"convonest/identity"
	"convonest/models"
)

type State int

const (
	Unknown State = iota
	Resolving
	Resolved
)

// LookupFunc resolves a role for a lowercased email.
type LookupFunc func(ctx context.Context, email string) (string, error)

// Resolver tracks the current session's role. Every session change resets it
// to Unknown; a present session starts a lookup, and a failed lookup falls
// back to the plain user role. Route guards block until Resolved.
type Resolver struct {
	mu    sync.Mutex
	state State
	role  string
	gen   uint64

	lookup      LookupFunc
	timeout     time.Duration
	unsubscribe func()
}

func NewResolver(sessions *identity.Store, lookup LookupFunc) *Resolver {
	r := &Resolver{
		lookup:  lookup,
		timeout: 10 * time.Second,
	}
	r.unsubscribe = sessions.Subscribe(r.onSession)
	return r
}

// Role returns the cached role and the resolver state. The role is only
// meaningful in the Resolved state.
func (r *Resolver) Role() (string, State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.role, r.state
}

// Close releases the session subscription.
func (r *Resolver) Close() {
	if r.unsubscribe != nil {
		r.unsubscribe()
	}
}

func (r *Resolver) onSession(sess *identity.Session) {
	r.mu.Lock()
	r.gen++
	gen := r.gen
	r.role = ""

	if sess == nil {
		// Signed out: nothing to look up.
		r.state = Resolved
		r.mu.Unlock()
		return
	}

	r.state = Resolving
	email := strings.ToLower(sess.Email)
	r.mu.Unlock()

	go r.resolve(gen, email)
}

func (r *Resolver) resolve(gen uint64, email string) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	role, err := r.lookup(ctx, email)
	if err != nil {
		slog.Warn("role lookup failed, defaulting", "email", email, "err", err)
		role = models.RoleUser
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.gen != gen {
		// Session changed while the lookup was in flight.
		return
	}
	r.role = role
	r.state = Resolved
}
