package models

import "time"

type CreateCommentRequest struct {
	Text string `json:"text"`
}

type Comment struct {
	ID             string    `json:"_id"`
	PostID         string    `json:"postId"`
	Text           string    `json:"text"`
	CommenterName  string    `json:"commenterName"`
	CommenterEmail string    `json:"commenterEmail"`
	CommenterImage string    `json:"commenterImage"`
	CreatedAt      time.Time `json:"createdAt"`
}

type CommentPage struct {
	Comments []Comment `json:"comments"`
	Total    int       `json:"total"`
	Page     int       `json:"page"`
	Size     int       `json:"size"`
}
