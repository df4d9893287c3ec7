package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"open-places/internal/database"
	"open-places/internal/facebook"
	"open-places/internal/handlers"
	"open-places/internal/places"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// The places key is the one credential the service cannot run without
	placesKey := os.Getenv("GOOGLE_PLACES_KEY")
	if placesKey == "" {
		log.Fatal("GOOGLE_PLACES_KEY is not set")
	}

	// Connect to database
	dbConfig := database.LoadConfig()
	if err := database.Connect(dbConfig); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer database.Close()

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	setupGracefulShutdown()
	setupServer(placesKey)
}

func setupGracefulShutdown() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("Received shutdown signal, gracefully shutting down...")
		database.Close()
		log.Println("Shutdown complete")
		os.Exit(0)
	}()
}

func setupServer(placesKey string) {
	// Set Gin mode based on environment
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create router
	r := gin.Default()

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Provider clients
	placesClient := places.NewClient(os.Getenv("PLACES_BASE_URL"), placesKey)
	facebookClient := facebook.NewClient(os.Getenv("FB_GRAPH_BASE_URL"), os.Getenv("FB_PAGE_TOKEN"))

	// Initialize handlers
	placesHandler := handlers.NewPlacesHandler(database.DB, placesClient)
	socialHandler := handlers.NewSocialHandler(database.DB, facebookClient)
	docsHandler := handlers.NewDocsHandler()

	// Health check
	r.GET("/health", placesHandler.HealthCheck)

	// Serve Markdown documentation as HTML
	r.GET("/doc/:doc", docsHandler.ServeMarkdownAsHTML)

	// API routes
	api := r.Group("/api")
	{
		api.POST("/save-places", placesHandler.SavePlaces)
		api.GET("/collect/google", placesHandler.CollectGoogle)
		api.GET("/place-details", placesHandler.PlaceDetails)
		api.GET("/places", placesHandler.ListPlaces)
		api.GET("/facebook/posts", socialHandler.FacebookPosts)
	}

	// Get port from environment or default to 8080
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
