package routes

import (
	"time"

	"github.com/atakanuzun/showfolio-backend/internal/config"
	"github.com/atakanuzun/showfolio-backend/internal/features"
	"github.com/atakanuzun/showfolio-backend/internal/handlers"
	"github.com/atakanuzun/showfolio-backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	accountHandler *handlers.AccountHandler,
	leaderboardHandler *handlers.LeaderboardHandler,
	moderationHandler *handlers.ModerationHandler,
	featureList []features.Feature,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Auth — public, with a stricter rate limit: 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)

	api.Post("/auth/logout", middleware.JWTProtected(cfg), authHandler.Logout)
	api.Delete("/auth/account", middleware.JWTProtected(cfg), authHandler.DeleteAccount)

	// Leaderboard and public profiles
	api.Get("/leaderboard", leaderboardHandler.Top)
	api.Get("/accounts/me", middleware.JWTProtected(cfg), accountHandler.Me)
	api.Put("/accounts/me", middleware.JWTProtected(cfg), accountHandler.UpdateMe)
	api.Get("/accounts/:handle", accountHandler.PublicProfile)

	// Reports, including bot-flag disputes (identified users only)
	api.Post("/reports", middleware.JWTProtected(cfg), moderationHandler.CreateReport)

	// Admin panel (JWT + admin required)
	admin := api.Group("/admin", middleware.JWTProtected(cfg), middleware.AdminRequired(db, cfg))
	admin.Get("/moderation/reports", moderationHandler.ListReports)
	admin.Put("/moderation/reports/:id", moderationHandler.ActionReport)
	admin.Post("/leaderboard/recompute", leaderboardHandler.Recompute)

	// Feature routes. The group carries optional JWT plus the anonymous
	// session header; each handler decides whether identity is required.
	open := api.Group("", middleware.OptionalJWT(cfg), middleware.Session())
	for _, f := range featureList {
		f.RegisterRoutes(open, db, cfg)
		if af, ok := f.(features.AdminFeature); ok {
			af.RegisterAdminRoutes(admin, db, cfg)
		}
	}
}
