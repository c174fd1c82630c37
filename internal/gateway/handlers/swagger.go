package handlers

import (
	_ "embed"
	"fmt"
	"html"

	"github.com/gofiber/fiber/v3"
)

//go:embed openapi.yaml
var openAPISpec []byte

// ============================================================
// Swagger Handlers
// ============================================================

// SwaggerSpec serves the OpenAPI description of /api/v1.
func SwaggerSpec(c fiber.Ctx) error {
	c.Type("yaml")
	return c.Send(openAPISpec)
}

const swaggerPage = `<!doctype html>
<html>
<head>
  <meta charset="utf-8">
  <title>%s</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
<script>
  SwaggerUIBundle({ url: %q, dom_id: '#swagger-ui', deepLinking: true });
</script>
</body>
</html>`

// SwaggerUI returns a handler serving a Swagger UI page for specURL. The page
// is rendered once.
func SwaggerUI(title, specURL string) fiber.Handler {
	page := fmt.Sprintf(swaggerPage, html.EscapeString(title), specURL)
	return func(c fiber.Ctx) error {
		c.Type("html")
		return c.SendString(page)
	}
}
