package models

import "time"

type CreatePostRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description" binding:"required"`
	Tags        []string `json:"tags"`
}

type VoteRequest struct {
	Direction string `json:"direction" binding:"required,oneof=up down"`
}

// Post is a transient copy of a remote-owned entity. The voter sets make
// vote toggling idempotent: an email appears in at most one of the two.
type Post struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	AuthorName  string    `json:"authorName"`
	AuthorEmail string    `json:"authorEmail"`
	AuthorImage string    `json:"authorImage"`
	CreatedAt   time.Time `json:"createdAt"`
	UpVote      int       `json:"upVote"`
	DownVote    int       `json:"downVote"`
	UpvoteBy    []string  `json:"upvote_by"`
	DownvoteBy  []string  `json:"downvote_by"`
	Tags        []string  `json:"tags"`
	Comments    []Comment `json:"comments"`
}

type PostPage struct {
	Posts []Post `json:"posts"`
	Total int    `json:"total"`
	Page  int    `json:"page"`
	Size  int    `json:"size"`
}
