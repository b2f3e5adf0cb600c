package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"convonest/apiclient"
	"convonest/config"
	"convonest/db"
	"convonest/identity"
	"convonest/middleware"
	"convonest/payment"
	"convonest/querycache"
	"convonest/roles"
	"convonest/routes"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found") // Non-fatal in production
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// Open the local client store
	local, err := db.Open(cfg.LocalStorePath)
	if err != nil {
		log.Fatalf("Error opening local store: %v", err)
	}
	defer local.Close()

	if err := db.InitSchema(local); err != nil {
		log.Fatalf("Error initializing local store schema: %v", err)
	}

	creds := db.NewCredentialStore(local)
	idp := identity.NewClient(cfg.IdentityBaseURL, cfg.IdentityAPIKey)
	sessions := identity.NewStore()
	api := apiclient.New(cfg.APIBaseURL, creds, sessions, idp, cfg.SessionTimeout)
	resolver := roles.NewResolver(sessions, api.RoleByEmail)
	defer resolver.Close()

	cache, err := querycache.New(256)
	if err != nil {
		log.Fatalf("Error creating query cache: %v", err)
	}

	proc := payment.NewProcessor(cfg.ProcessorBaseURL, cfg.ProcessorKey)

	// Identity sessions do not survive a restart; resolve to signed-out so
	// guards stop blocking on the loading state.
	sessions.Clear()

	// Initialize router
	r := gin.Default()
	r.Use(middleware.RequestID())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = []string{
		"Origin",
		"Content-Length",
		"Content-Type",
		"Authorization",
	}
	corsConfig.AllowMethods = []string{
		"GET",
		"POST",
		"PUT",
		"DELETE",
		"PATCH",
	}
	r.Use(cors.New(corsConfig))

	// Setup routes
	routes.SetupRoutes(r, &routes.Deps{
		Config:   cfg,
		Local:    local,
		Creds:    creds,
		Identity: idp,
		Sessions: sessions,
		API:      api,
		Resolver: resolver,
		Cache:    cache,
		Proc:     proc,
	})

	// Run server
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}
}
