package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"convonest/identity"
	"convonest/roles"
)

// Route names the guarded views. Placeholder selection is keyed by these,
// not by path-string matching.
type Route int

const (
	RoutePostList Route = iota
	RoutePostDetail
	RouteUserDashboard
	RouteAdminDashboard
	RouteManageUsers
	RouteReportedComments
	RouteAnnouncements
	RouteTags
	RouteProfile
	RoutePayment
)

// Placeholder is the loading variant a pending guard responds with.
type Placeholder string

const (
	PlaceholderFeed    Placeholder = "feed"
	PlaceholderDetail  Placeholder = "detail"
	PlaceholderStats   Placeholder = "stats"
	PlaceholderTable   Placeholder = "table"
	PlaceholderProfile Placeholder = "profile"
	PlaceholderForm    Placeholder = "form"
)

var placeholders = map[Route]Placeholder{
	RoutePostList:         PlaceholderFeed,
	RoutePostDetail:       PlaceholderDetail,
	RouteUserDashboard:    PlaceholderStats,
	RouteAdminDashboard:   PlaceholderStats,
	RouteManageUsers:      PlaceholderTable,
	RouteReportedComments: PlaceholderTable,
	RouteAnnouncements:    PlaceholderTable,
	RouteTags:             PlaceholderTable,
	RouteProfile:          PlaceholderProfile,
	RoutePayment:          PlaceholderForm,
}

const (
	SignInPath    = "/login"
	ForbiddenPath = "/forbidden"
)

// RequireRole gates a route group on the current session and its resolved
// role. While session or role resolution is pending it answers 202 with the
// route's placeholder variant and never redirects; once resolved, a missing
// session redirects to sign-in and a role mismatch to the forbidden route.
func RequireRole(sessions *identity.Store, resolver *roles.Resolver, required string, route Route) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, loading := sessions.Current()
		if loading {
			pending(c, route)
			return
		}

		if sess == nil {
			c.Redirect(http.StatusSeeOther, SignInPath)
			c.Abort()
			return
		}

		role, state := resolver.Role()
		if state != roles.Resolved {
			pending(c, route)
			return
		}

		if role != required {
			c.Redirect(http.StatusSeeOther, ForbiddenPath)
			c.Abort()
			return
		}

		c.Set("sessionEmail", strings.ToLower(sess.Email))
		c.Set("sessionName", sess.DisplayName)
		c.Set("sessionImage", sess.PhotoURL)
		c.Next()
	}
}

func pending(c *gin.Context, route Route) {
	body := gin.H{"status": "pending"}
	if variant, ok := placeholders[route]; ok {
		body["placeholder"] = variant
	}
	c.JSON(http.StatusAccepted, body)
	c.Abort()
}
