package cmd

import (
	"log"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"

	"hifi/config"
	"hifi/handlers"
	"hifi/middleware"
	"hifi/services"
	"hifi/websocket"
)

// StartWebServer starts the web server over an already-scanned library
func StartWebServer(cfg *config.Config, library *services.Library) {
	// Set production mode if not specified
	if mode := os.Getenv("GIN_MODE"); mode != "" {
		gin.SetMode(mode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize services
	hub := websocket.NewHub()
	go hub.Run()
	library.SetNotifier(hub)

	// Initialize handlers
	searchHandler := handlers.NewSearchHandler(library)
	streamHandler := handlers.NewStreamHandler(library)
	detailsHandler := handlers.NewDetailsHandler(library)
	rescanHandler := handlers.NewRescanHandler(library, hub)
	healthHandler := handlers.NewHealthHandler(library)

	// Setup router
	r := gin.New()
	r.Use(gin.Recovery())

	// Apply middleware
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.Logging())

	// Setup routes
	setupRoutes(r, searchHandler, streamHandler, detailsHandler, rescanHandler, healthHandler)

	// Start server
	portStr := strconv.Itoa(cfg.Port)
	if serverPort := os.Getenv("SERVER_PORT"); serverPort != "" {
		portStr = serverPort
	}

	log.Printf("hifi web server starting on port %s", portStr)
	if err := r.Run(":" + portStr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// setupRoutes configures all the HTTP routes
func setupRoutes(r *gin.Engine, searchHandler *handlers.SearchHandler, streamHandler *handlers.StreamHandler, detailsHandler *handlers.DetailsHandler, rescanHandler *handlers.RescanHandler, healthHandler *handlers.HealthHandler) {
	// The surface the player UI consumes
	r.GET("/search", searchHandler.Search)
	r.GET("/listen", streamHandler.Listen)
	r.GET("/details", detailsHandler.Details)

	// Health check endpoint
	r.GET("/health", healthHandler.HealthCheck)

	// API routes group
	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/status", healthHandler.APIStatus)

		// Rescan management
		apiGroup.POST("/rescan", rescanHandler.StartRescan)
		apiGroup.GET("/rescan", rescanHandler.GetRescan)

		// WebSocket endpoint for rescan progress
		apiGroup.GET("/ws/rescan", rescanHandler.HandleWebSocketConnection)
	}
}
