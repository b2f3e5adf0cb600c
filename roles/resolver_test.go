package roles

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"convonest/identity"
	"convonest/models"
)

func waitResolved(t *testing.T, r *Resolver) string {
	t.Helper()
	require.Eventually(t, func() bool {
		_, state := r.Role()
		return state == Resolved
	}, time.Second, 5*time.Millisecond)
	role, _ := r.Role()
	return role
}

func TestResolverStartsUnknown(t *testing.T) {
	sessions := identity.NewStore()
	r := NewResolver(sessions, func(ctx context.Context, email string) (string, error) {
		return models.RoleAdmin, nil
	})
	defer r.Close()

	_, state := r.Role()
	assert.Equal(t, Unknown, state)
}

func TestResolverLooksUpLowercasedEmail(t *testing.T) {
	sessions := identity.NewStore()

	var lookedUp string
	r := NewResolver(sessions, func(ctx context.Context, email string) (string, error) {
		lookedUp = email
		return models.RoleAdmin, nil
	})
	defer r.Close()

	sessions.Set(&identity.Session{Email: "Admin@X.Com"})

	role := waitResolved(t, r)
	assert.Equal(t, models.RoleAdmin, role)
	assert.Equal(t, "admin@x.com", lookedUp)
}

func TestResolverDefaultsOnLookupFailure(t *testing.T) {
	sessions := identity.NewStore()
	r := NewResolver(sessions, func(ctx context.Context, email string) (string, error) {
		return "", errors.New("api down")
	})
	defer r.Close()

	sessions.Set(&identity.Session{Email: "a@x.com"})

	assert.Equal(t, models.RoleUser, waitResolved(t, r))
}

func TestResolverResetsOnSessionChange(t *testing.T) {
	sessions := identity.NewStore()
	block := make(chan struct{})

	r := NewResolver(sessions, func(ctx context.Context, email string) (string, error) {
		if email == "slow@x.com" {
			<-block
			return models.RoleAdmin, nil
		}
		return models.RoleUser, nil
	})
	defer r.Close()

	sessions.Set(&identity.Session{Email: "slow@x.com"})
	_, state := r.Role()
	assert.Equal(t, Resolving, state)

	// A new session supersedes the in-flight lookup.
	sessions.Set(&identity.Session{Email: "fast@x.com"})
	assert.Equal(t, models.RoleUser, waitResolved(t, r))

	// The stale lookup's result must not overwrite the newer one.
	close(block)
	time.Sleep(20 * time.Millisecond)
	role, _ := r.Role()
	assert.Equal(t, models.RoleUser, role)
}

func TestResolverSignedOutResolvesImmediately(t *testing.T) {
	sessions := identity.NewStore()
	r := NewResolver(sessions, func(ctx context.Context, email string) (string, error) {
		t.Fatal("no lookup for a signed-out session")
		return "", nil
	})
	defer r.Close()

	sessions.Clear()

	role, state := r.Role()
	assert.Equal(t, Resolved, state)
	assert.Empty(t, role)
}
