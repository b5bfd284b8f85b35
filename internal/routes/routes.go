package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/pustakahub/pustaka-backend/internal/handlers"
	"github.com/pustakahub/pustaka-backend/internal/middleware"
	"github.com/pustakahub/pustaka-backend/internal/models"
)

// Setup wires the HTTP surface. Protected routes compose two explicit
// stages: JWTProtected resolves and verifies the bearer token, then
// RequireRoles checks the operation's required role set.
func Setup(
	app *fiber.App,
	jwtSecret []byte,
	authHandler *handlers.AuthHandler,
	bookHandler *handlers.BookHandler,
	healthHandler *handlers.HealthHandler,
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

	// Auth-specific rate limit: 10 req/min per IP (stricter)
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Get("/google", authHandler.GoogleLogin)
	auth.Get("/google/redirect", authHandler.GoogleCallback)

	// Books: reads need a valid identity, writes need the admin role.
	books := api.Group("/books", middleware.JWTProtected(jwtSecret))
	books.Get("/", bookHandler.List)
	books.Get("/:id", bookHandler.Get)
	books.Post("/", middleware.RequireRoles(models.RoleAdmin), bookHandler.Create)
	books.Put("/:id", middleware.RequireRoles(models.RoleAdmin), bookHandler.Update)
	books.Delete("/:id", middleware.RequireRoles(models.RoleAdmin), bookHandler.Delete)
}
