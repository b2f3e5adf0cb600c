package routes

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"convonest/apiclient"
	"convonest/config"
	"convonest/db"
	"convonest/handlers"
	"convonest/identity"
	"convonest/middleware"
	"convonest/models"
	"convonest/payment"
	"convonest/querycache"
	"convonest/roles"
)

// Deps carries the shared state the route handlers are built from
type Deps struct {
	Config   *config.Config
	Local    *sql.DB
	Creds    *db.CredentialStore
	Identity *identity.Client
	Sessions *identity.Store
	API      *apiclient.Client
	Resolver *roles.Resolver
	Cache    *querycache.Cache
	Proc     *payment.Processor
}

// SetupRoutes configures all the routes for the application
func SetupRoutes(r *gin.Engine, d *Deps) {
	// Initialize handlers
	authHandler := handlers.NewAuthHandler(d.Identity, d.API, d.Sessions, d.Creds)
	postHandler := handlers.NewPostHandler(d.API, d.Cache)
	commentHandler := handlers.NewCommentHandler(d.API, d.Cache)
	reportHandler := handlers.NewReportHandler(d.API, d.Sessions)
	dashboardHandler := handlers.NewDashboardHandler(d.API)
	tagHandler := handlers.NewTagHandler(d.API, d.Cache)
	announcementHandler := handlers.NewAnnouncementHandler(d.API)
	profileHandler := handlers.NewProfileHandler(d.API, d.Identity, d.Sessions, d.Config.ImageUploadURL, d.Config.ImageHostKey)
	paymentHandler := handlers.NewPaymentHandler(d.API, d.Proc, d.Config.MembershipPrice)
	healthHandler := handlers.NewHealthHandler(d.Local)

	// Public routes
	r.POST("/register", authHandler.Register)
	r.POST("/login", authHandler.Login)
	r.POST("/login/provider", authHandler.LoginWithProvider)
	r.POST("/logout", authHandler.Logout)
	r.GET("/session", authHandler.Session)

	r.GET("/posts", postHandler.GetPosts)
	r.GET("/posts/:id", postHandler.GetPost)
	r.GET("/posts/:id/comments", commentHandler.GetComments)
	r.GET("/tags", tagHandler.GetTags)
	r.GET("/announcements", announcementHandler.GetAnnouncements)

	r.GET("/health", healthHandler.HealthCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET(middleware.SignInPath, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Sign in required", "routes": []string{"POST /login", "POST /login/provider", "POST /register"}})
	})
	r.GET(middleware.ForbiddenPath, func(c *gin.Context) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have access to this page"})
	})

	// Signed-in member routes
	user := r.Group("/")
	{
		user.POST("/posts", guard(d, models.RoleUser, middleware.RoutePostList), postHandler.CreatePost)
		user.DELETE("/posts/:id", guard(d, models.RoleUser, middleware.RoutePostList), postHandler.DeletePost)
		user.POST("/posts/:id/vote", guard(d, models.RoleUser, middleware.RoutePostDetail), postHandler.Vote)
		user.POST("/posts/:id/comments", guard(d, models.RoleUser, middleware.RoutePostDetail), commentHandler.CreateComment)

		user.GET("/comments/:id/report-status", guard(d, models.RoleUser, middleware.RoutePostDetail), reportHandler.ReportStatus)
		user.POST("/comments/:id/report", guard(d, models.RoleUser, middleware.RoutePostDetail), reportHandler.CreateReport)

		user.GET("/dashboard/me", guard(d, models.RoleUser, middleware.RouteUserDashboard), dashboardHandler.UserOverview)
		user.GET("/profile", guard(d, models.RoleUser, middleware.RouteProfile), profileHandler.GetProfile)
		user.PATCH("/profile/about", guard(d, models.RoleUser, middleware.RouteProfile), profileHandler.UpdateAboutMe)
		user.POST("/profile/avatar", guard(d, models.RoleUser, middleware.RouteProfile), profileHandler.UploadAvatar)

		user.GET("/payment/intent", guard(d, models.RoleUser, middleware.RoutePayment), paymentHandler.CreateIntent)
		user.POST("/payment", guard(d, models.RoleUser, middleware.RoutePayment), paymentHandler.Submit)
	}

	// Admin routes
	admin := r.Group("/admin")
	{
		admin.GET("/dashboard", guard(d, models.RoleAdmin, middleware.RouteAdminDashboard), dashboardHandler.AdminOverview)
		admin.GET("/users", guard(d, models.RoleAdmin, middleware.RouteManageUsers), dashboardHandler.GetUsers)
		admin.PATCH("/users/:id/promote", guard(d, models.RoleAdmin, middleware.RouteManageUsers), dashboardHandler.PromoteUser)

		admin.GET("/reports", guard(d, models.RoleAdmin, middleware.RouteReportedComments), reportHandler.GetReports)
		admin.DELETE("/reports/:id", guard(d, models.RoleAdmin, middleware.RouteReportedComments), reportHandler.DeleteReport)
		admin.DELETE("/comments/:id", guard(d, models.RoleAdmin, middleware.RouteReportedComments), reportHandler.DeleteComment)

		admin.POST("/tags", guard(d, models.RoleAdmin, middleware.RouteTags), tagHandler.CreateTag)
		admin.POST("/announcements", guard(d, models.RoleAdmin, middleware.RouteAnnouncements), announcementHandler.CreateAnnouncement)
	}
}

func guard(d *Deps, role string, route middleware.Route) gin.HandlerFunc {
	return middleware.RequireRole(d.Sessions, d.Resolver, role, route)
}
