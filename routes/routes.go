package routes

import (
	"time"

	"devlink/auth"
	"devlink/handlers"
	"devlink/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter(h *handlers.Handler, tokens *auth.TokenService) *gin.Engine {
	router := gin.Default()

	router.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000", "http://localhost:8080"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "x-auth-token"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	limiter := middleware.NewIPRateLimiter(60, time.Minute)

	api := router.Group("/api")
	api.Use(middleware.RateLimit(limiter))

	// Public routes
	api.POST("/users", h.Register)
	api.POST("/auth", h.Login)
	api.GET("/profile", h.GetProfiles)
	api.GET("/profile/user/:userId", h.GetProfileByUser)
	api.GET("/profile/github/:username", h.GetGithubRepos)

	// Protected routes
	protected := api.Group("")
	protected.Use(middleware.RequireAuth(tokens))

	protected.GET("/auth", h.GetCurrentUser)

	protected.GET("/profile/me", h.GetMyProfile)
	protected.POST("/profile", h.UpsertProfile)
	protected.DELETE("/profile", h.DeleteAccount)
	protected.PUT("/profile/experience", h.AddExperience)
	protected.DELETE("/profile/experience/:experienceId", h.DeleteExperience)
	protected.PUT("/profile/education", h.AddEducation)
	protected.DELETE("/profile/education/:educationId", h.DeleteEducation)

	protected.POST("/posts", h.CreatePost)
	protected.GET("/posts", h.GetPosts)
	protected.GET("/posts/:postId", h.GetPost)
	protected.DELETE("/posts/:postId", h.DeletePost)
	protected.PUT("/posts/like/:postId", h.LikePost)
	protected.PUT("/posts/unlike/:postId", h.UnlikePost)
	protected.POST("/posts/comment/:postId", h.AddComment)
	protected.DELETE("/posts/comment/:postId/:commentId", h.DeleteComment)

	// JSON 404 for unknown API routes
	router.NoRoute(func(c *gin.Context) {
		if len(c.Request.URL.Path) >= 4 && c.Request.URL.Path[:4] == "/api" {
			c.JSON(404, gin.H{
				"errors": []gin.H{{"msg": "Endpoint not found"}},
			})
			return
		}
		c.Next()
	})

	return router
}
