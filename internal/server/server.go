package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/koinonia-app/koinonia-api/internal/auth"
	"github.com/koinonia-app/koinonia-api/internal/config"
	"github.com/koinonia-app/koinonia-api/internal/domain/policy"
	"github.com/koinonia-app/koinonia-api/internal/handlers"
	"github.com/koinonia-app/koinonia-api/internal/logger"
	"github.com/koinonia-app/koinonia-api/internal/middleware"
	"github.com/koinonia-app/koinonia-api/internal/services"
	"github.com/koinonia-app/koinonia-api/internal/storage"
	"github.com/koinonia-app/koinonia-api/internal/storage/object"
)

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	config     *config.Config
	store      storage.Store
	sessions   *auth.SessionManager
	uploader   object.Uploader
}

// New creates a new server instance
func New(cfg *config.Config, store storage.Store, sessions *auth.SessionManager, uploader object.Uploader) *Server {
	return &Server{
		config:   cfg,
		store:    store,
		sessions: sessions,
		uploader: uploader,
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	router := s.setupRouter()

	s.httpServer = &http.Server{
		Addr:    ":" + s.config.Server.Port,
		Handler: router,

		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Get().Info("Starting HTTP server", "port", s.config.Server.Port)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	logger.Get().Info("Shutting down HTTP server...")

	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}

	return nil
}

// setupRouter configures the HTTP router with middleware and routes
func (s *Server) setupRouter() *gin.Engine {
	if s.config.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RequestLogger())
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = strings.Split(s.config.CORS.AllowOrigins, ",")
	corsConfig.AllowMethods = strings.Split(s.config.CORS.AllowMethods, ",")
	corsConfig.AllowHeaders = strings.Split(s.config.CORS.AllowHeaders, ",")
	corsConfig.AllowCredentials = true
	router.Use(cors.New(corsConfig))

	engine := policy.NewEngine(s.store.Relationships())

	accountService := services.NewAccountService(s.store)
	groupService := services.NewGroupService(s.store, engine)
	eventService := services.NewEventService(s.store, engine)
	prayerService := services.NewPrayerService(s.store, engine)
	postService := services.NewPostService(s.store, engine)

	authHandler := handlers.NewAuthHandler(accountService, s.sessions)
	groupHandler := handlers.NewGroupHandler(groupService)
	eventHandler := handlers.NewEventHandler(eventService)
	prayerHandler := handlers.NewPrayerHandler(prayerService)
	postHandler := handlers.NewPostHandler(postService)
	uploadHandler := handlers.NewUploadHandler(s.uploader, s.config.Upload.MaxFileSize)

	// Health check
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Koinonia API is running",
			"status":  "healthy",
		})
	})

	s.setupAPIRoutes(router, authHandler, groupHandler, eventHandler, prayerHandler, postHandler, uploadHandler)

	return router
}

// setupAPIRoutes configures all API routes
func (s *Server) setupAPIRoutes(
	router *gin.Engine,
	authHandler *handlers.AuthHandler,
	groupHandler *handlers.GroupHandler,
	eventHandler *handlers.EventHandler,
	prayerHandler *handlers.PrayerHandler,
	postHandler *handlers.PostHandler,
	uploadHandler *handlers.UploadHandler,
) {
	api := router.Group("/api")

	// Entry points reachable without a session.
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.GET("/invitations/:code", authHandler.ValidateInvitation)

	// Everything else requires an authenticated, active user.
	authed := api.Group("")
	authed.Use(middleware.RequireUser(s.sessions, s.store))
	{
		authed.POST("/auth/logout", authHandler.Logout)
		authed.GET("/auth/me", authHandler.Me)
		authed.PATCH("/auth/me", authHandler.UpdateMe)
		authed.GET("/users/:user_id", authHandler.GetProfile)
		authed.POST("/invitations", authHandler.GenerateInvitation)

		groups := authed.Group("/groups")
		{
			groups.GET("", groupHandler.List)
			groups.POST("", groupHandler.Create)
			groups.GET("/:group_id", groupHandler.Get)
			groups.PATCH("/:group_id", groupHandler.Update)
			groups.DELETE("/:group_id", groupHandler.Delete)
			groups.GET("/:group_id/members", groupHandler.Members)
			groups.POST("/:group_id/join", groupHandler.Join)
			groups.POST("/:group_id/leave", groupHandler.Leave)
		}

		events := authed.Group("/events")
		{
			events.GET("", eventHandler.List)
			events.POST("", eventHandler.Create)
			events.GET("/:event_id", eventHandler.Get)
			events.PATCH("/:event_id", eventHandler.Update)
			events.DELETE("/:event_id", eventHandler.Delete)
			events.GET("/:event_id/attendees", eventHandler.Attendees)
			events.POST("/:event_id/attend", eventHandler.Attend)
			events.POST("/:event_id/leave", eventHandler.Leave)
		}

		prayers := authed.Group("/prayers")
		{
			prayers.GET("", prayerHandler.List)
			prayers.POST("", prayerHandler.Create)
			prayers.GET("/:prayer_id", prayerHandler.Get)
			prayers.PATCH("/:prayer_id", prayerHandler.Update)
			prayers.DELETE("/:prayer_id", prayerHandler.Delete)
			prayers.GET("/:prayer_id/supports", prayerHandler.Supports)
			prayers.POST("/:prayer_id/support", prayerHandler.Support)
		}

		posts := authed.Group("/posts")
		{
			posts.GET("", postHandler.List)
			posts.POST("", postHandler.Create)
			posts.GET("/:post_id", postHandler.Get)
			posts.PATCH("/:post_id", postHandler.Update)
			posts.DELETE("/:post_id", postHandler.Delete)
			posts.POST("/:post_id/like", postHandler.Like)
			posts.GET("/:post_id/comments", postHandler.Comments)
			posts.POST("/:post_id/comments", postHandler.Comment)
		}

		authed.POST("/uploads", uploadHandler.Upload)
	}
}
