package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"convonest/apiclient"
	"convonest/models"
)

type DashboardHandler struct {
	api *apiclient.Client
}

func NewDashboardHandler(api *apiclient.Client) *DashboardHandler {
	return &DashboardHandler{api: api}
}

// AdminOverview aggregates the admin dashboard in one response. The four
// lists are independent fetches, so they run concurrently.
func (h *DashboardHandler) AdminOverview(c *gin.Context) {
	var (
		users         []models.User
		reports       []models.Report
		tags          []models.Tag
		announcements []models.Announcement
	)

	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() (err error) {
		users, err = h.api.Users(ctx)
		return err
	})
	g.Go(func() (err error) {
		reports, err = h.api.Reports(ctx)
		return err
	})
	g.Go(func() (err error) {
		tags, err = h.api.Tags(ctx)
		return err
	})
	g.Go(func() (err error) {
		announcements, err = h.api.Announcements(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to load dashboard"})
		return
	}

	pending := 0
	for _, r := range reports {
		if r.Status == models.ReportPending {
			pending++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"userCount":         len(users),
		"reportCount":       len(reports),
		"pendingReports":    pending,
		"tagCount":          len(tags),
		"announcementCount": len(announcements),
		"users":             users,
		"reports":           reports,
		"tags":              tags,
		"announcements":     announcements,
	})
}

// UserOverview serves the signed-in user's dashboard home.
func (h *DashboardHandler) UserOverview(c *gin.Context) {
	email := c.GetString("sessionEmail")

	var (
		profile *models.User
		stats   *models.HomeStats
	)

	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() (err error) {
		profile, err = h.api.Profile(ctx, email)
		return err
	})
	g.Go(func() (err error) {
		stats, err = h.api.HomeStats(ctx, email)
		return err
	})

	if err := g.Wait(); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to load dashboard"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"profile": profile,
		"stats":   stats,
		"member":  profile.Member,
	})
}

// GetUsers serves the admin manage-users table.
func (h *DashboardHandler) GetUsers(c *gin.Context) {
	users, err := h.api.Users(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch users"})
		return
	}
	if users == nil {
		users = []models.User{}
	}
	c.JSON(http.StatusOK, users)
}

// PromoteUser grants the admin role.
func (h *DashboardHandler) PromoteUser(c *gin.Context) {
	id := c.Param("id")

	if err := h.api.PromoteUser(c.Request.Context(), id); err != nil {
		if apiclient.IsStatus(err, http.StatusNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to promote user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User promoted to admin"})
}
