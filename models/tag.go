package models

import "time"

type CreateTagRequest struct {
	Name string `json:"name" binding:"required"`
}

type Tag struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

type CreateAnnouncementRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
}

type Announcement struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	AuthorName  string    `json:"authorName"`
	AuthorImage string    `json:"authorImage"`
	CreatedAt   time.Time `json:"createdAt"`
}
