package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/logger"
)

// ============================================================
// Logger Middleware
// ============================================================

// Logger logs one line per request, prefixed with the service tag. Health
// probes are skipped unless verbose is set.
func Logger(tag string, verbose bool) fiber.Handler {
	return logger.New(logger.Config{
		Format:     "[${time}] [" + strings.ToUpper(tag) + "] ${status} - ${latency} ${method} ${path} ${queryParams}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
		Next: func(c fiber.Ctx) bool {
			return !verbose && strings.HasPrefix(c.Path(), "/health")
		},
	})
}
