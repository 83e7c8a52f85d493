package server

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/agentryleigh/decoherence-log/backend/internal/database"
	"github.com/agentryleigh/decoherence-log/backend/internal/handlers"
	"github.com/agentryleigh/decoherence-log/backend/internal/middleware"
	"github.com/agentryleigh/decoherence-log/backend/internal/sms"
	"github.com/agentryleigh/decoherence-log/backend/internal/store"
)

type Server struct {
	db      database.Service
	handler *handlers.Handler
}

// NewServer creates and configures a new server
func NewServer() *http.Server {
	// Initialize database
	db := database.New()

	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "uploads"
	}

	// SMS alerts stay off unless Twilio is configured
	var alertSender store.AlertSender
	if sender := sms.NewFromEnv(); sender != nil {
		alertSender = sender
		log.Println("📱 Twilio alert channel enabled")
	}

	// Create unified handler
	newServer := &Server{
		db:      db,
		handler: handlers.NewHandler(db.GetDB(), alertSender, uploadDir),
	}

	// Configure Gin router
	router := newServer.RegisterRoutes()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080" // local dev fallback
	}

	server := &http.Server{
		Addr:         "0.0.0.0:" + port,
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Printf("🚀 Server starting on port %s\n", port)

	return server
}

// RegisterRoutes sets up all application routes
func (s *Server) RegisterRoutes() *gin.Engine {
	r := gin.Default()

	// CORS configuration
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * 3600,
	}))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.db.Health())
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		api.POST("/register", s.handler.Auth.Register)
		api.POST("/login", s.handler.Auth.Login)

		// Feed routes (public reads)
		api.GET("/posts", s.handler.Post.GetPosts)
		api.GET("/posts/:id", s.handler.Post.GetPost)
		api.GET("/posts/:id/resonance", s.handler.Post.GetResonance)

		// Protected routes (authentication required)
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			protected.GET("/me", s.handler.Auth.GetMe)

			// Post protected routes
			protected.POST("/posts", s.handler.Post.CreatePost)
			protected.POST("/posts/:id/vote", s.handler.Post.VotePost)
			protected.POST("/posts/:id/report", s.handler.Post.ReportPost)
			protected.GET("/users/:id/posts", s.handler.Post.GetUserPosts)

			// Notification routes
			protected.GET("/notifications", s.handler.Notification.GetNotifications)
			protected.POST("/notifications/:id/seen", s.handler.Notification.MarkSeen)
			protected.PUT("/notifications/settings", s.handler.Notification.UpdateSettings)

			// The Fold
			protected.POST("/observer/chat", s.handler.Observer.Chat)

			// Architect routes (admin only)
			admin := protected.Group("/admin")
			admin.Use(middleware.RequireAdmin())
			{
				admin.GET("/posts", s.handler.Post.GetPosts)
				admin.GET("/reported", s.handler.Moderation.GetReported)
				admin.PUT("/posts/:id/status", s.handler.Moderation.UpdateStatus)
			}
		}
	}

	return r
}
