package models

import "time"

const (
	ReportPending  = "pending"
	ReportResolved = "resolved"
)

type ReportRequest struct {
	Feedback string `json:"feedback" binding:"required"`
}

type Report struct {
	ID            string    `json:"_id"`
	CommentID     string    `json:"commentId"`
	CommentText   string    `json:"commentText"`
	Feedback      string    `json:"feedback"`
	ReporterEmail string    `json:"reporterEmail"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
}

type ReportStatus struct {
	Reported bool `json:"reported"`
}
