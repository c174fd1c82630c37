package main

import (
	"fmt"
	"log"

	"ar-geometry/internal/common/config"
	"ar-geometry/internal/common/middleware"
	"ar-geometry/internal/gateway/handlers"
	"ar-geometry/internal/gateway/proxy"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
)

// ============================================================
// API Gateway
// ============================================================

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.ReadTimeoutDuration(),
		WriteTimeout: cfg.WriteTimeoutDuration(),
		AppName:      "API Gateway",
		ErrorHandler: middleware.ErrorHandler,
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.Logger("gateway", cfg.LogLevel == "debug"))
	app.Use(middleware.CORS(middleware.SplitOrigins(cfg.CORSOrigins)))

	// ============================================================
	// Health Check Routes
	// ============================================================

	app.Get("/health/live", handlers.LivenessProbe)
	app.Get("/health/ready", handlers.ReadinessProbe(cfg.GeometryURL))
	app.Get("/health/startup", handlers.StartupProbe)

	app.Get("/docs", handlers.SwaggerUI("AR Geometry API", "/docs/openapi.yaml"))
	app.Get("/docs/openapi.yaml", handlers.SwaggerSpec)

	// ============================================================
	// API Routes
	// ============================================================

	api := app.Group("/api/v1")

	api.Get("/", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "AR Geometry API v1",
			"status":  "ok",
		})
	})

	// Geometry Service
	forward := proxy.Prefix(cfg.GeometryURL, "/api/v1")
	api.All("/sessions", forward)
	api.All("/objects", forward)
	api.All("/objects/*", forward)
	api.All("/selection", forward)
	api.All("/history", forward)

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("Starting API Gateway on %s (env: %s)", addr, cfg.Environment)
	log.Printf("Proxying /api/v1 to %s", cfg.GeometryURL)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
