package router

import (
	"context"
	"log"
	"net/http"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/anvex/concertly/backend/internal/clients"
	"github.com/anvex/concertly/backend/internal/handlers"
	"github.com/anvex/concertly/backend/internal/middleware"
	"github.com/anvex/concertly/backend/internal/models"
	"github.com/anvex/concertly/backend/internal/repositories"
	"github.com/anvex/concertly/backend/pkg/config"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Logger())
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	e.Use(config.CSPMiddleware())
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, cfg *config.Config, pgdb *gorm.DB, mgClient *mongo.Client, firebaseAuthClient *auth.Client) {
	// AutoMigrate PostgreSQL models
	if err := pgdb.AutoMigrate(&models.User{}); err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed.")

	mongoDB := mgClient.Database(cfg.MongoDatabase)

	// The compound unique index backs the one-save-per-user-per-event
	// invariant; without it concurrent saves could produce duplicates.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := repositories.EnsureSavedEventIndexes(ctx, mongoDB); err != nil {
		log.Fatalf("Failed to ensure MongoDB indexes: %v", err)
	}
	log.Println("MongoDB saved_events indexes ensured.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(pgdb)
	savedEventRepo := repositories.NewMongoSavedEventRepository(mongoDB)

	// --- Initialize provider clients ---
	ticketmasterClient := clients.NewTicketmasterClient(cfg.TicketmasterAPIKey)
	weatherClient := clients.NewOpenWeatherClient(cfg.OpenWeatherAPIKey)
	spotifyClient := clients.NewSpotifyClient(cfg.Spotify.ClientID, cfg.Spotify.ClientSecret)
	youtubeClient, err := clients.NewYouTubeClient(context.Background(), cfg.GoogleAPIKey)
	if err != nil {
		log.Fatalf("Failed to initialize YouTube client: %v", err)
	}

	// --- Unprotected routes ---
	api := e.Group("/api")

	authHandler := handlers.NewAuthHandler(userRepo, firebaseAuthClient, cfg.JWTSecret)
	authHandler.RegisterAuthRoutes(api.Group("/users"))
	log.Println("Auth routes configured.")

	eventHandler := handlers.NewEventHandler(savedEventRepo, ticketmasterClient)
	eventHandler.RegisterPublicRoutes(api)

	weatherHandler := handlers.NewWeatherHandler(weatherClient)
	weatherHandler.RegisterWeatherRoutes(api)

	youtubeHandler := handlers.NewYouTubeHandler(youtubeClient)
	youtubeHandler.RegisterYouTubeRoutes(api)

	spotifyHandler := handlers.NewSpotifyHandler(spotifyClient)
	spotifyHandler.RegisterSpotifyRoutes(api)
	log.Println("Proxy routes configured.")

	// --- Protected routes (require JWT authentication) ---
	protected := e.Group("/api", middleware.JWTAuthMiddleware(cfg.JWTSecret))
	eventHandler.RegisterProtectedRoutes(protected)
	authHandler.RegisterProfileRoutes(protected)
	log.Println("JWT-protected routes configured.")

	// Unknown API paths get a JSON 404 instead of the default HTML-ish body
	e.Any("/api/*", func(c echo.Context) error {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "API endpoint not found"})
	})

	log.Println("All routes configured.")
}
