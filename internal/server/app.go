// Package server assembles the HTTP application from configuration and storage.
package server

import (
	"time"

	"foodgram/internal/config"
	"foodgram/internal/handlers"
	"foodgram/internal/middleware"
	"foodgram/internal/repositories"
	"foodgram/internal/services"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// Integrations are the optional outbound collaborators. Nil fields are disabled.
type Integrations struct {
	Events services.EventPublisher
	Images services.ImageStore
}

// NewApp wires repositories, services and handlers into a Fiber app serving the API under /api.
func NewApp(cfg *config.Config, db *gorm.DB, integrations Integrations) *fiber.App {
	// --- Repositories ---
	userRepo := repositories.NewGORMUserRepository(db)
	ingredientRepo := repositories.NewGORMIngredientRepository(db)
	tagRepo := repositories.NewGORMTagRepository(db)
	recipeRepo := repositories.NewGORMRecipeRepository(db)
	relationRepo := repositories.NewGORMRelationRepository(db)

	// --- Services ---
	opts := []services.RecipeOption{services.WithUniqueNames(cfg.UniqueRecipeNames)}
	if integrations.Events != nil {
		opts = append(opts, services.WithEventPublisher(integrations.Events))
	}
	if integrations.Images != nil {
		opts = append(opts, services.WithImageStore(integrations.Images))
	}
	authService := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenTTL)
	catalogService := services.NewCatalogService(ingredientRepo, tagRepo)
	recipeService := services.NewRecipeService(recipeRepo, ingredientRepo, tagRepo, relationRepo, opts...)
	relationService := services.NewRelationService(relationRepo, recipeRepo, userRepo)
	userService := services.NewUserService(userRepo, recipeRepo, relationRepo)

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(authService)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	recipeHandler := handlers.NewRecipeHandler(recipeService, relationService)
	userHandler := handlers.NewUserHandler(userService, relationService)

	app := fiber.New(fiber.Config{
		AppName:     "foodgram",
		JSONEncoder: json.Marshal,
		JSONDecoder: json.Unmarshal,
	})
	app.Use(recover.New())
	app.Use(logger.New())

	requireAuth := middleware.AuthRequired(authService)
	optionalAuth := middleware.AuthOptional(authService)

	api := app.Group("/api")
	authHandler.RegisterRoutes(api)
	catalogHandler.RegisterRoutes(api)
	recipeHandler.RegisterRoutes(api, requireAuth, optionalAuth)
	userHandler.RegisterRoutes(api, requireAuth, optionalAuth)

	app.Get("/health", func(c *fiber.Ctx) error {
		status := fiber.Map{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"rabbitmq": integrations.Events != nil,
			"s3":       integrations.Images != nil,
		}
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(c.UserContext()) != nil {
			status["status"] = "degraded"
			return c.Status(fiber.StatusServiceUnavailable).JSON(status)
		}
		return c.JSON(status)
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	return app
}
