package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"convonest/apiclient"
	"convonest/models"
	"convonest/querycache"
)

type CommentHandler struct {
	api   *apiclient.Client
	cache *querycache.Cache
}

func NewCommentHandler(api *apiclient.Client, cache *querycache.Cache) *CommentHandler {
	return &CommentHandler{api: api, cache: cache}
}

func commentsKey(postID string, page, size int) string {
	return "comments:" + postID + ":" + strconv.Itoa(page) + ":" + strconv.Itoa(size)
}

func (h *CommentHandler) GetComments(c *gin.Context) {
	postID := c.Param("id")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	if size < 1 {
		size = 10
	}

	v, err := h.cache.Fetch(c.Request.Context(), commentsKey(postID, page, size), func(ctx context.Context) (any, error) {
		return h.api.Comments(ctx, postID, page, size)
	})
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch comments"})
		return
	}

	c.JSON(http.StatusOK, v)
}

// CreateComment submits a comment. Missing identity and blank text are
// rejected here, before anything goes over the wire; on success the new
// comment is prepended to the cached first page instead of refetching.
func (h *CommentHandler) CreateComment(c *gin.Context) {
	postID := c.Param("id")
	email := c.GetString("sessionEmail")
	if email == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Sign in to comment"})
		return
	}

	var req models.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if strings.TrimSpace(req.Text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Comment cannot be empty"})
		return
	}

	comment := models.Comment{
		PostID:         postID,
		Text:           req.Text,
		CommenterEmail: email,
		CommenterName:  c.GetString("sessionName"),
		CommenterImage: c.GetString("sessionImage"),
		CreatedAt:      time.Now().UTC(),
	}

	created, err := h.api.AddComment(c.Request.Context(), postID, comment)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to post comment"})
		return
	}

	key := commentsKey(postID, 1, 10)
	if v, ok := h.cache.Get(key); ok {
		if page, ok := v.(*models.CommentPage); ok {
			updated := *page
			updated.Comments = append([]models.Comment{*created}, page.Comments...)
			updated.Total = page.Total + 1
			h.cache.Set(key, &updated)
		}
	}
	h.cache.Invalidate(postKey(postID))

	c.JSON(http.StatusCreated, created)
}
