package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"convonest/apiclient"
	"convonest/models"
	"convonest/querycache"
	"convonest/votes"
)

type PostHandler struct {
	api   *apiclient.Client
	cache *querycache.Cache
}

func NewPostHandler(api *apiclient.Client, cache *querycache.Cache) *PostHandler {
	return &PostHandler{api: api, cache: cache}
}

func postKey(id string) string { return "post:" + id }

// GetPosts serves the post list. A q parameter searches by tag or title, a
// page parameter paginates; otherwise the plain list is returned.
func (h *PostHandler) GetPosts(c *gin.Context) {
	ctx := c.Request.Context()

	if q := c.Query("q"); q != "" {
		posts, err := h.api.SearchPosts(ctx, q)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to search posts"})
			return
		}
		c.JSON(http.StatusOK, posts)
		return
	}

	if pageStr := c.Query("page"); pageStr != "" {
		page, _ := strconv.Atoi(pageStr)
		if page < 1 {
			page = 1
		}
		size, _ := strconv.Atoi(c.DefaultQuery("size", "5"))
		if size < 1 {
			size = 5
		}

		key := "posts:page:" + strconv.Itoa(page) + ":" + strconv.Itoa(size)
		v, err := h.cache.Fetch(ctx, key, func(ctx context.Context) (any, error) {
			return h.api.PostsPage(ctx, page, size)
		})
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch posts"})
			return
		}
		c.JSON(http.StatusOK, v)
		return
	}

	v, err := h.cache.Fetch(ctx, "posts", func(ctx context.Context) (any, error) {
		return h.api.Posts(ctx)
	})
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch posts"})
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *PostHandler) GetPost(c *gin.Context) {
	id := c.Param("id")

	v, err := h.cache.Fetch(c.Request.Context(), postKey(id), func(ctx context.Context) (any, error) {
		p, err := h.api.Post(ctx, id)
		if err != nil {
			return nil, err
		}
		return *p, nil
	})
	if err != nil {
		if apiclient.IsStatus(err, http.StatusNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch post"})
		return
	}

	c.JSON(http.StatusOK, v)
}

func (h *PostHandler) CreatePost(c *gin.Context) {
	var req models.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post := models.Post{
		Title:       req.Title,
		Description: req.Description,
		Tags:        req.Tags,
		AuthorEmail: c.GetString("sessionEmail"),
		AuthorName:  c.GetString("sessionName"),
		AuthorImage: c.GetString("sessionImage"),
		CreatedAt:   time.Now().UTC(),
	}

	created, err := h.api.CreatePost(c.Request.Context(), post)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to create post"})
		return
	}

	h.cache.Invalidate("posts")
	c.JSON(http.StatusCreated, created)
}

func (h *PostHandler) DeletePost(c *gin.Context) {
	id := c.Param("id")
	email := c.GetString("sessionEmail")

	post, err := h.api.Post(c.Request.Context(), id)
	if err != nil {
		if apiclient.IsStatus(err, http.StatusNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch post"})
		return
	}

	if post.AuthorEmail != email {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only delete your own posts"})
		return
	}

	if err := h.api.DeletePost(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to delete post"})
		return
	}

	h.cache.Invalidate(postKey(id))
	h.cache.Invalidate("posts")
	c.JSON(http.StatusOK, gin.H{"message": "Post deleted"})
}

// Vote toggles a vote with immediate effect on the cached post: cancel any
// in-flight fetch for the key, apply the pure toggle edit, send the real
// request, roll back on failure, and invalidate on settlement. Failure is a
// transient notice; the server state wins on the next fetch either way.
func (h *PostHandler) Vote(c *gin.Context) {
	id := c.Param("id")
	email := c.GetString("sessionEmail")

	var req models.VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	direction := votes.Direction(req.Direction)

	edited, err := h.cache.Mutate(c.Request.Context(), postKey(id),
		func(v any) any {
			return votes.Toggle(v.(models.Post), email, direction)
		},
		func(ctx context.Context) error {
			return h.api.Vote(ctx, id, req.Direction, email)
		},
	)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error":  "Vote failed",
			"notice": "Your vote was not recorded. Please try again.",
		})
		return
	}

	if edited != nil {
		c.JSON(http.StatusOK, edited)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Vote recorded"})
}
