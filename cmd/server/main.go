package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/tkzw-dev/issue-tracker-api/internal/auth"
	"github.com/tkzw-dev/issue-tracker-api/internal/config"
	"github.com/tkzw-dev/issue-tracker-api/internal/database"
	"github.com/tkzw-dev/issue-tracker-api/internal/handlers"
	"github.com/tkzw-dev/issue-tracker-api/internal/middleware"
	"github.com/tkzw-dev/issue-tracker-api/internal/repository"
	"github.com/tkzw-dev/issue-tracker-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if err := database.AddIndexes(database.GetDB()); err != nil {
		log.Printf("Failed to add indexes: %v", err)
	}

	// Token maker for bearer authentication
	tokenMaker := auth.NewJWTMaker(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	// Repositories
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	issueRepo := repository.NewIssueRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	// Services
	authService := services.NewAuthService(userRepo)
	projectService := services.NewProjectService(projectRepo)
	issueService := services.NewIssueService(issueRepo, projectRepo)
	commentService := services.NewCommentService(commentRepo, issueRepo)
	userService := services.NewUserService(userRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, tokenMaker)
	projectHandler := handlers.NewProjectHandler(projectService)
	issueHandler := handlers.NewIssueHandler(issueService)
	commentHandler := handlers.NewCommentHandler(commentService)
	userHandler := handlers.NewUserHandler(userService)

	// Initialize Gin router
	r := gin.Default()

	requireAuth := middleware.RequireAuth(tokenMaker)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Issue Tracker API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public except current-user)
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/refresh", authHandler.Refresh)
			authRoutes.GET("/user", requireAuth, authHandler.GetCurrentUser)
		}

		// Project routes: the catalog is public, mutations are not
		projects := api.Group("/projects")
		{
			projects.GET("", projectHandler.ListProjects)
			projects.GET("/:id", projectHandler.GetProject)
			projects.POST("", requireAuth, projectHandler.CreateProject)
			projects.PATCH("/:id", requireAuth, projectHandler.UpdateProject)
			projects.DELETE("/:id", requireAuth, projectHandler.DeleteProject)

			// Nested issue routes
			projects.GET("/:id/issues", issueHandler.ListProjectIssues)
			projects.POST("/:id/issues", requireAuth, issueHandler.CreateIssue)
		}

		// Issue routes: reads are public
		issues := api.Group("/issues")
		{
			issues.GET("", issueHandler.ListIssues)
			issues.GET("/:id", issueHandler.GetIssue)
			issues.PATCH("/:id", requireAuth, issueHandler.UpdateIssue)
			issues.DELETE("/:id", requireAuth, issueHandler.DeleteIssue)

			// Nested comment routes
			issues.GET("/:id/comments", commentHandler.ListComments)
			issues.POST("/:id/comments", requireAuth, commentHandler.CreateComment)
		}

		// User routes (protected)
		users := api.Group("/users")
		users.Use(requireAuth)
		{
			users.GET("", userHandler.ListUsers)
			users.GET("/:id", userHandler.GetUser)
			users.PATCH("/:id/role", userHandler.UpdateRole)
		}
	}

	// Start server
	log.Printf("Server starting on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
