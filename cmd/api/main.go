package main

import (
	"fmt"
	"log"
	"os"

	"carbon-intensity/internal/api/handlers"
	"carbon-intensity/internal/api/middleware"
	"carbon-intensity/internal/config"

	"github.com/gin-gonic/gin"
)

func main() {
	// Optional YAML config; environment wins for the port.
	cfg := config.Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			log.Fatalf("Failed to load config %s: %v", path, err)
		}
		cfg = loaded
	}
	port := os.Getenv("API_PORT")
	if port == "" {
		port = cfg.Server.Port
	}

	client := cfg.API.NewClient()
	log.Printf("Carbon Intensity API base URL: %s", client.BaseURL)

	// Set up Gin router
	if os.Getenv("API_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	// Apply middleware
	router.Use(middleware.CORS())
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler())

	// Initialize handlers
	intensityHandler := handlers.NewIntensityHandler(client)
	regionalHandler := handlers.NewRegionalHandler(client)
	generationHandler := handlers.NewGenerationHandler(client)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API routes
	api := router.Group("/api/v1")
	{
		api.GET("/intensity", intensityHandler.Current)
		api.GET("/intensity/range", intensityHandler.Range)

		api.GET("/regional", regionalHandler.Current)
		api.GET("/regional/range", regionalHandler.Range)

		api.GET("/generation", generationHandler.Current)
		api.GET("/generation/range", generationHandler.Range)

		api.GET("/regions", handlers.ListRegions)
	}

	// Start server
	addr := fmt.Sprintf(":%s", port)
	log.Printf("Starting API server on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
