package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"memehub/handlers"
	"memehub/middleware"
)

func SetupRouter() *gin.Engine {
	router := gin.Default()

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
			"time":   time.Now().Unix(),
		})
	})

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:8080", "http://127.0.0.1:8080", "http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(middleware.RateLimit())

	// Public routes
	router.POST("/api/signup", handlers.Signup)
	router.POST("/api/login", handlers.Login)
	router.GET("/api/vapid-public-key", handlers.GetVapidPublicKey)

	// Feeds are public; a token, when present, personalizes reaction state.
	public := router.Group("/api")
	public.Use(middleware.OptionalAuth())
	public.GET("/feed", handlers.GetFeed)
	public.GET("/reels", handlers.GetReels)
	public.GET("/posts/:id", handlers.GetPost)
	public.POST("/posts/:id/view", handlers.RegisterView)
	public.POST("/posts/:id/download", handlers.RegisterDownload)

	// Everything below requires a logged-in user.
	protected := router.Group("/api")
	protected.Use(middleware.JWTAuth())

	protected.GET("/me", handlers.GetMe)

	protected.POST("/upload", handlers.UploadMedia)
	protected.POST("/posts", handlers.CreatePost)
	protected.DELETE("/posts/:id", handlers.DeletePost)

	protected.POST("/posts/:id/reaction", handlers.ToggleReaction)

	protected.GET("/favorites", handlers.GetFavorites)
	protected.POST("/favorites/:postId", handlers.ToggleFavorite)

	protected.GET("/selection", handlers.GetSelection)
	protected.POST("/selection/:postId", handlers.ToggleSelection)
	protected.DELETE("/selection", handlers.ClearSelection)

	protected.POST("/subscribe", handlers.SubscribePush)

	// Moderation
	protected.GET("/admin/pending", handlers.ListPendingPosts)
	protected.POST("/admin/posts/:id/approve", handlers.ApprovePost)

	router.NoRoute(func(c *gin.Context) {
		if len(c.Request.URL.Path) >= 4 && c.Request.URL.Path[:4] == "/api" {
			c.JSON(404, gin.H{
				"error": "Endpoint not found",
				"path":  c.Request.URL.Path,
			})
			return
		}
		c.Next()
	})

	return router
}
