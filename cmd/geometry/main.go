package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"ar-geometry/internal/common/config"
	"ar-geometry/internal/common/middleware"
	"ar-geometry/internal/geometry/equation"
	"ar-geometry/internal/geometry/handlers"
	"ar-geometry/internal/geometry/repository"
	"ar-geometry/internal/geometry/service"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
)

// ============================================================
// Geometry Service
// ============================================================

func main() {
	if os.Getenv("PORT") == "" {
		os.Setenv("PORT", "3010")
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	if cfg.LogLevel == "debug" {
		service.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	db, err := repository.OpenSQLite(cfg.JournalPath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	journal := repository.New(db)
	if err := journal.Init(context.Background()); err != nil {
		log.Fatalf("init db: %v", err)
	}

	store := service.NewStore(storeOptions(cfg)...)
	sessionManager := service.NewSessionManager()
	geometryHandler := handlers.NewGeometryHandler(store, sessionManager, journal)

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.ReadTimeoutDuration(),
		WriteTimeout: cfg.WriteTimeoutDuration(),
		AppName:      "Geometry Service",
		ErrorHandler: middleware.ErrorHandler,
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.Logger("geometry", cfg.LogLevel == "debug"))
	app.Use(middleware.CORS(middleware.SplitOrigins(cfg.CORSOrigins)))

	// ============================================================
	// Health Check Routes
	// ============================================================

	app.Get("/health/live", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "alive"})
	})

	app.Get("/health/ready", func(c fiber.Ctx) error {
		if err := journal.Ping(c.Context()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "journal unavailable"})
		}
		return c.JSON(fiber.Map{"status": "ready", "objects": store.Len()})
	})

	// ============================================================
	// Geometry Routes
	// ============================================================

	geometryHandler.Routes(app)

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("Starting Geometry Service on %s (env: %s, placement: %s, signs: %s)",
		addr, cfg.Environment, cfg.Placement, cfg.SignStyle)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func storeOptions(cfg *config.Config) []service.Option {
	signs, _ := equation.ParseSignStyle(cfg.SignStyle)
	opts := []service.Option{service.WithSignStyle(signs)}

	if cfg.Seed != 0 {
		opts = append(opts, service.WithSeed(cfg.Seed))
	}
	if cfg.Placement == "random" {
		seed := cfg.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		opts = append(opts, service.WithPlacement(service.NewRandomPlacement(cfg.PlacementExtent, seed)))
	}
	return opts
}
