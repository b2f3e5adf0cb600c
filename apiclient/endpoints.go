package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"convonest/models"
)

// Posts returns the plain post list.
func (c *Client) Posts(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	err := c.do(ctx, http.MethodGet, "posts.list", "/posts", nil, nil, &posts)
	return posts, err
}

// PostsPage returns one page of posts with the total count.
func (c *Client) PostsPage(ctx context.Context, page, size int) (*models.PostPage, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("size", strconv.Itoa(size))

	var out models.PostPage
	if err := c.do(ctx, http.MethodGet, "posts.page", "/posts/paginated", params, nil, &out); err != nil {
		return nil, err
	}
	out.Page = page
	out.Size = size
	return &out, nil
}

// SearchPosts searches posts by tag or title text.
func (c *Client) SearchPosts(ctx context.Context, query string) ([]models.Post, error) {
	params := url.Values{}
	params.Set("q", query)

	var posts []models.Post
	err := c.do(ctx, http.MethodGet, "posts.search", "/posts/search", params, nil, &posts)
	return posts, err
}

// Post returns a single post with its embedded comments.
func (c *Client) Post(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	if err := c.do(ctx, http.MethodGet, "posts.detail", "/posts/"+id, nil, nil, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// CreatePost writes a new post authored by the given user snapshot.
func (c *Client) CreatePost(ctx context.Context, post models.Post) (*models.Post, error) {
	var created models.Post
	if err := c.do(ctx, http.MethodPost, "posts.create", "/posts", nil, post, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// DeletePost removes a post.
func (c *Client) DeletePost(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "posts.delete", "/posts/"+id, nil, nil, nil)
}

// Vote records an up or down vote toggle by email on a post.
func (c *Client) Vote(ctx context.Context, id, direction, email string) error {
	return c.do(ctx, http.MethodPatch, "posts.vote", "/posts/"+id+"/vote", nil, map[string]string{
		"direction": direction,
		"email":     strings.ToLower(email),
	}, nil)
}

// AddComment appends a comment to a post and returns the stored copy.
func (c *Client) AddComment(ctx context.Context, postID string, comment models.Comment) (*models.Comment, error) {
	var created models.Comment
	if err := c.do(ctx, http.MethodPost, "posts.comment", "/posts/"+postID+"/comments", nil, comment, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Comments returns one page of a post's comments.
func (c *Client) Comments(ctx context.Context, postID string, page, size int) (*models.CommentPage, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("size", strconv.Itoa(size))

	var out models.CommentPage
	if err := c.do(ctx, http.MethodGet, "comments.list", "/posts/"+postID+"/comments", params, nil, &out); err != nil {
		return nil, err
	}
	out.Page = page
	out.Size = size
	return &out, nil
}

// DeleteComment removes a comment (moderation).
func (c *Client) DeleteComment(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "comments.delete", "/comments/"+id, nil, nil, nil)
}

// ReportComment files a report against a comment.
func (c *Client) ReportComment(ctx context.Context, commentID, feedback, reporterEmail string) error {
	return c.do(ctx, http.MethodPost, "comments.report", "/comments/"+commentID+"/report", nil, map[string]string{
		"feedback":      feedback,
		"reporterEmail": strings.ToLower(reporterEmail),
	}, nil)
}

// ReportStatus reports whether email already has an active report on the comment.
func (c *Client) ReportStatus(ctx context.Context, commentID, email string) (bool, error) {
	params := url.Values{}
	params.Set("email", strings.ToLower(email))

	var out models.ReportStatus
	if err := c.do(ctx, http.MethodGet, "comments.reportStatus", "/comments/"+commentID+"/report-status", params, nil, &out); err != nil {
		return false, err
	}
	return out.Reported, nil
}

// Users returns every registered user (admin view).
func (c *Client) Users(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := c.do(ctx, http.MethodGet, "users.list", "/users", nil, nil, &users)
	return users, err
}

// UpsertUser writes the user row created after identity-provider signup.
func (c *Client) UpsertUser(ctx context.Context, user models.User) error {
	return c.do(ctx, http.MethodPut, "users.upsert", "/users", nil, user, nil)
}

// RoleByEmail resolves a role for a lowercased email.
func (c *Client) RoleByEmail(ctx context.Context, email string) (string, error) {
	params := url.Values{}
	params.Set("email", strings.ToLower(email))

	var out struct {
		Role string `json:"role"`
	}
	if err := c.do(ctx, http.MethodGet, "users.role", "/users/role", params, nil, &out); err != nil {
		return "", err
	}
	return out.Role, nil
}

// PromoteUser grants a user the admin role.
func (c *Client) PromoteUser(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPatch, "users.promote", "/users/"+id+"/promote", nil, nil, nil)
}

// Profile returns a user's profile by email.
func (c *Client) Profile(ctx context.Context, email string) (*models.User, error) {
	params := url.Values{}
	params.Set("email", strings.ToLower(email))

	var user models.User
	if err := c.do(ctx, http.MethodGet, "users.profile", "/users/profile", params, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateAboutMe replaces the user's free-text description.
func (c *Client) UpdateAboutMe(ctx context.Context, email, aboutMe string) error {
	return c.do(ctx, http.MethodPatch, "users.aboutMe", "/users/about-me", nil, map[string]string{
		"email":   strings.ToLower(email),
		"aboutMe": aboutMe,
	}, nil)
}

// HomeStats returns the aggregate counters for the user dashboard.
func (c *Client) HomeStats(ctx context.Context, email string) (*models.HomeStats, error) {
	params := url.Values{}
	params.Set("email", strings.ToLower(email))

	var stats models.HomeStats
	if err := c.do(ctx, http.MethodGet, "users.homeStats", "/users/home-stats", params, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Tags returns every tag.
func (c *Client) Tags(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	err := c.do(ctx, http.MethodGet, "tags.list", "/tags", nil, nil, &tags)
	return tags, err
}

// AddTag creates a tag.
func (c *Client) AddTag(ctx context.Context, name string) error {
	return c.do(ctx, http.MethodPost, "tags.add", "/tags", nil, map[string]string{"name": name}, nil)
}

// Announcements returns every announcement.
func (c *Client) Announcements(ctx context.Context) ([]models.Announcement, error) {
	var out []models.Announcement
	err := c.do(ctx, http.MethodGet, "announcements.list", "/announcements", nil, nil, &out)
	return out, err
}

// CreateAnnouncement publishes an announcement.
func (c *Client) CreateAnnouncement(ctx context.Context, a models.Announcement) error {
	return c.do(ctx, http.MethodPost, "announcements.create", "/announcements", nil, a, nil)
}

// Reports returns the moderation queue.
func (c *Client) Reports(ctx context.Context) ([]models.Report, error) {
	var out []models.Report
	err := c.do(ctx, http.MethodGet, "reports.list", "/reports", nil, nil, &out)
	return out, err
}

// DeleteReport dismisses a report.
func (c *Client) DeleteReport(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "reports.delete", "/reports/"+id, nil, nil, nil)
}

// CreatePaymentIntent asks the backend for an intent of the given amount and
// returns its opaque client secret.
func (c *Client) CreatePaymentIntent(ctx context.Context, amount int) (string, error) {
	var out models.IntentResponse
	err := c.do(ctx, http.MethodPost, "payments.intent", "/payments/intent", nil, models.CreateIntentRequest{Price: amount}, &out)
	if err != nil {
		return "", err
	}
	return out.ClientSecret, nil
}

// RecordPayment notifies the backend of a confirmed charge so it can
// activate the membership.
func (c *Client) RecordPayment(ctx context.Context, rec models.PaymentRecord) error {
	return c.do(ctx, http.MethodPost, "payments.record", "/payments", nil, rec, nil)
}

// IssueToken exchanges an email for a backend session token. This is the
// credential persisted in the local store.
func (c *Client) IssueToken(ctx context.Context, email string) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	err := c.do(ctx, http.MethodPost, "auth.jwt", "/jwt", nil, map[string]string{
		"email": strings.ToLower(email),
	}, &out)
	if err != nil {
		return "", err
	}
	return out.Token, nil
}
