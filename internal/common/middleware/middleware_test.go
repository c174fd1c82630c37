package middleware

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitOrigins(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"", nil},
		{"*", []string{"*"}},
		{"http://a.test, http://b.test ,", []string{"http://a.test", "http://b.test"}},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitOrigins(tt.raw))
		})
	}
}

func TestErrorHandler(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Use(Logger("test", false))
	app.Get("/bad", func(c fiber.Ctx) error {
		return fiber.NewError(http.StatusBadRequest, "invalid json")
	})
	app.Get("/boom", func(c fiber.Ctx) error {
		return errors.New("disk on fire")
	})

	tests := []struct {
		path string
		code int
		body string
	}{
		{"/bad", http.StatusBadRequest, `{"error":"invalid json"}`},
		{"/boom", http.StatusInternalServerError, `{"error":"internal error"}`},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, tt.path, nil))
			require.NoError(t, err)
			defer resp.Body.Close()

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.Equal(t, tt.code, resp.StatusCode)
			assert.JSONEq(t, tt.body, string(body))
		})
	}
}
