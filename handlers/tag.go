package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"convonest/apiclient"
	"convonest/models"
	"convonest/querycache"
)

type TagHandler struct {
	api   *apiclient.Client
	cache *querycache.Cache
}

func NewTagHandler(api *apiclient.Client, cache *querycache.Cache) *TagHandler {
	return &TagHandler{api: api, cache: cache}
}

func (h *TagHandler) GetTags(c *gin.Context) {
	v, err := h.cache.Fetch(c.Request.Context(), "tags", func(ctx context.Context) (any, error) {
		return h.api.Tags(ctx)
	})
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch tags"})
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *TagHandler) CreateTag(c *gin.Context) {
	var req models.CreateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.api.AddTag(c.Request.Context(), req.Name); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to create tag"})
		return
	}

	h.cache.Invalidate("tags")
	c.JSON(http.StatusCreated, gin.H{"name": req.Name})
}

type AnnouncementHandler struct {
	api *apiclient.Client
}

func NewAnnouncementHandler(api *apiclient.Client) *AnnouncementHandler {
	return &AnnouncementHandler{api: api}
}

func (h *AnnouncementHandler) GetAnnouncements(c *gin.Context) {
	out, err := h.api.Announcements(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch announcements"})
		return
	}
	if out == nil {
		out = []models.Announcement{}
	}
	c.JSON(http.StatusOK, out)
}

func (h *AnnouncementHandler) CreateAnnouncement(c *gin.Context) {
	var req models.CreateAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	a := models.Announcement{
		Title:       req.Title,
		Description: req.Description,
		AuthorName:  c.GetString("sessionName"),
		AuthorImage: c.GetString("sessionImage"),
		CreatedAt:   time.Now().UTC(),
	}

	if err := h.api.CreateAnnouncement(c.Request.Context(), a); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to create announcement"})
		return
	}

	c.JSON(http.StatusCreated, a)
}
