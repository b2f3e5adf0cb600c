package handlers

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"convonest/models"
	"convonest/querycache"
)

func TestVoteAppliesOptimisticEdit(t *testing.T) {
	var voteHits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		voteHits.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	cache, err := querycache.New(16)
	require.NoError(t, err)
	cache.Set("post:p1", models.Post{
		ID:         "p1",
		UpVote:     3,
		DownVote:   1,
		DownvoteBy: []string{"a@x.com"},
	})

	h := NewPostHandler(testAPIClient(srv), cache)
	r := signedInRouter("a@x.com")
	r.POST("/posts/:id/vote", h.Vote)

	w := postJSON(r, "/posts/p1/vote", `{"direction":"up"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(1), voteHits.Load())
	// Switching from down to up in one edit: up +1, down -1.
	assert.Contains(t, w.Body.String(), `"upVote":4`)
	assert.Contains(t, w.Body.String(), `"downVote":0`)
	assert.Contains(t, w.Body.String(), `"upvote_by":["a@x.com"]`)

	_, ok := cache.Get("post:p1")
	assert.False(t, ok, "entry invalidated after settlement to force a refetch")
}

func TestVoteFailureSurfacesTransientNotice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	cache, err := querycache.New(16)
	require.NoError(t, err)
	cache.Set("post:p1", models.Post{ID: "p1", UpVote: 3})

	h := NewPostHandler(testAPIClient(srv), cache)
	r := signedInRouter("a@x.com")
	r.POST("/posts/:id/vote", h.Vote)

	w := postJSON(r, "/posts/p1/vote", `{"direction":"up"}`)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "notice")

	_, ok := cache.Get("post:p1")
	assert.False(t, ok, "rolled-back entry still invalidated on settlement")
}

func TestVoteRejectsUnknownDirection(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	t.Cleanup(srv.Close)

	cache, err := querycache.New(16)
	require.NoError(t, err)
	h := NewPostHandler(testAPIClient(srv), cache)
	r := signedInRouter("a@x.com")
	r.POST("/posts/:id/vote", h.Vote)

	w := postJSON(r, "/posts/p1/vote", `{"direction":"sideways"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, hits.Load())
}
