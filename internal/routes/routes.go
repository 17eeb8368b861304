package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/modqueue/internal/config"
	"github.com/ahmetcoskunkizilkaya/modqueue/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/modqueue/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	healthHandler *handlers.HealthHandler,
	moderationHandler *handlers.ModerationHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	// Health (public)
	api.Get("/health", healthHandler.Check)

	// Protected routes carry their middleware per route so the public
	// health check never passes through JWT validation
	jwt := middleware.JWTProtected(cfg)
	resolveViewer := middleware.ResolveViewer(db, cfg)

	// Filing a report is open to every authenticated person
	api.Post("/reports", jwt, resolveViewer, moderationHandler.CreateReport)

	// Moderation queue; visibility is scoped per viewer inside the service
	api.Get("/reports", jwt, resolveViewer, moderationHandler.ListReports)
	api.Get("/reports/count", jwt, resolveViewer, moderationHandler.CountReports)
	api.Get("/reports/:id", jwt, resolveViewer, moderationHandler.GetReport)
	api.Put("/reports/:id/resolve", jwt, resolveViewer, moderationHandler.ResolveReport)
	api.Post("/posts/:id/reports/resolve", jwt, resolveViewer, moderationHandler.ResolveAllForPost)
}
