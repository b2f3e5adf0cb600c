package models

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID        string `json:"_id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Image     string `json:"image"`
	Role      string `json:"role"`
	Member    bool   `json:"member"`
	PostCount int    `json:"postCount"`
	AboutMe   string `json:"aboutMe"`
}

type AboutMeRequest struct {
	AboutMe string `json:"aboutMe" binding:"required"`
}

// HomeStats is the aggregate the backend computes for the user dashboard.
type HomeStats struct {
	Posts    int `json:"posts"`
	Comments int `json:"comments"`
	UpVotes  int `json:"upVotes"`
}
