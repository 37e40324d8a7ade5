package routes

import (
	"net/http"
	"os"

	"github.com/gabriel-327/WarrantyWarden/internal/handlers"
	"github.com/gabriel-327/WarrantyWarden/internal/middleware"
	"github.com/gin-gonic/gin"
)

// CORSMiddleware tells the browser that the configured frontend origin is
// allowed to call us, including the Authorization header our session tokens
// ride in on.
func CORSMiddleware() gin.HandlerFunc {
	origin := os.Getenv("CORS_ORIGIN")
	if origin == "" {
		origin = "http://localhost:5173"
	}

	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, DELETE, PATCH")

		// Preflight OPTIONS requests get an empty 204.
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// SetupRouter wires every route. Stored uploads are served statically from
// uploadDir under /uploads; everything under /api/listings requires a valid
// session token.
func SetupRouter(h *handlers.Handlers, uploadDir string) *gin.Engine {
	router := gin.Default()

	// CORS must run before anything else.
	router.Use(CORSMiddleware())

	// --- Splash Route (Public) ---
	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Server is set up and ready!")
	})

	// --- Stored Uploads (Public) ---
	router.Static("/uploads", uploadDir)

	api := router.Group("/api")
	{
		// --- Auth Routes (Public) ---
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/register", h.Register)
			authRoutes.POST("/login", h.Login)
		}

		// --- Listing Routes (Login Required) ---
		listings := api.Group("/listings")
		listings.Use(middleware.AuthMiddleware())
		{
			listings.GET("", h.GetAllListings)
			listings.POST("", h.CreateListing)
			listings.GET("/:id", h.GetListing)
			listings.DELETE("/:id", h.DeleteListing)
		}
	}

	return router
}
