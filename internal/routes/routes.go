package routes

import (
	"github.com/bptrack/bptrack-backend/internal/config"
	"github.com/bptrack/bptrack-backend/internal/handlers"
	"github.com/bptrack/bptrack-backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	readingHandler *handlers.ReadingHandler,
	healthHandler *handlers.HealthHandler,
) {
	api := app.Group("/api")

	api.Get("/health", healthHandler.Check)

	// Auth — public
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)

	// Auth — protected
	auth.Get("/profile", middleware.JWTProtected(cfg), authHandler.GetProfile)
	auth.Put("/profile", middleware.JWTProtected(cfg), authHandler.UpdateProfile)
	auth.Delete("/account", middleware.JWTProtected(cfg), authHandler.DeleteAccount)

	// Readings — all protected by the bearer-token gate
	readings := api.Group("/readings", middleware.JWTProtected(cfg))
	readings.Post("/", readingHandler.AddReading)
	readings.Get("/:userId", readingHandler.GetReadingsByUser)
	readings.Get("/:userId/averages", readingHandler.GetAverageReadings)
	readings.Get("/reading/:readingId", readingHandler.GetReadingByID)
	readings.Put("/reading/:readingId", readingHandler.UpdateReading)
	readings.Delete("/reading/:readingId", readingHandler.DeleteReading)
}
