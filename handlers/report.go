package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/puzpuzpuz/xsync/v3"

	"convonest/apiclient"
	"convonest/identity"
	"convonest/models"
)

type ReportHandler struct {
	api *apiclient.Client

	// reported remembers (reporter, comment) pairs filed during this
	// session, so a duplicate submission never reaches the network. Cleared
	// on every session change.
	reported *xsync.MapOf[string, struct{}]
}

func NewReportHandler(api *apiclient.Client, sessions *identity.Store) *ReportHandler {
	h := &ReportHandler{
		api:      api,
		reported: xsync.NewMapOf[string, struct{}](),
	}
	sessions.Subscribe(func(*identity.Session) {
		h.reported.Clear()
	})
	return h
}

func reportedKey(email, commentID string) string {
	return email + "|" + commentID
}

// ReportStatus tells the moderation row whether the current identity has
// already reported this comment, checking the session-local set first.
func (h *ReportHandler) ReportStatus(c *gin.Context) {
	commentID := c.Param("id")
	email := c.GetString("sessionEmail")

	if _, ok := h.reported.Load(reportedKey(email, commentID)); ok {
		c.JSON(http.StatusOK, models.ReportStatus{Reported: true})
		return
	}

	reported, err := h.api.ReportStatus(c.Request.Context(), commentID, email)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to check report status"})
		return
	}

	c.JSON(http.StatusOK, models.ReportStatus{Reported: reported})
}

// CreateReport files a report. A selected feedback category is required, and
// a pair already reported in this session is rejected without a round trip.
func (h *ReportHandler) CreateReport(c *gin.Context) {
	commentID := c.Param("id")
	email := c.GetString("sessionEmail")

	var req models.ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Select a feedback category first"})
		return
	}

	key := reportedKey(email, commentID)
	if _, ok := h.reported.Load(key); ok {
		c.JSON(http.StatusConflict, gin.H{"error": "You already reported this comment"})
		return
	}

	if err := h.api.ReportComment(c.Request.Context(), commentID, req.Feedback, email); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to submit report"})
		return
	}

	h.reported.Store(key, struct{}{})
	c.JSON(http.StatusCreated, gin.H{"message": "Report submitted"})
}

// GetReports serves the admin moderation queue.
func (h *ReportHandler) GetReports(c *gin.Context) {
	reports, err := h.api.Reports(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch reports"})
		return
	}
	if reports == nil {
		reports = []models.Report{}
	}
	c.JSON(http.StatusOK, reports)
}

// DeleteReport dismisses a report without touching the comment.
func (h *ReportHandler) DeleteReport(c *gin.Context) {
	if err := h.api.DeleteReport(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to delete report"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Report deleted"})
}

// DeleteComment removes a reported comment (moderation action).
func (h *ReportHandler) DeleteComment(c *gin.Context) {
	if err := h.api.DeleteComment(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to delete comment"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted"})
}
