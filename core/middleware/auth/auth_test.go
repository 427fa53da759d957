package auth_test

import (
	"net/http/httptest"
	"testing"

	"lore-sync/core/middleware/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupApp(cfg auth.Config) *fiber.App {
	app := fiber.New()
	app.Use(auth.New(cfg))
	app.Get("/lore", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/health", func(c *fiber.Ctx) error { return c.SendString("ok") })
	return app
}

func TestAuth(t *testing.T) {
	tests := []struct {
		name   string
		apiKey string
		header string
		value  string
		want   int
	}{
		{"Disabled", "", "", "", 200},
		{"Missing", "secret", "", "", 401},
		{"Wrong", "secret", auth.HeaderName, "nope", 401},
		{"Header", "secret", auth.HeaderName, "secret", 200},
		{"Bearer", "secret", "Authorization", "Bearer secret", 200},
		{"BearerWrong", "secret", "Authorization", "Bearer nope", 401},
		{"BasicIgnored", "secret", "Authorization", "Basic secret", 401},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := setupApp(auth.Config{ApiKey: tt.apiKey})
			req := httptest.NewRequest("GET", "/lore", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestAuthNextSkips(t *testing.T) {
	app := setupApp(auth.Config{ApiKey: "secret", Next: func(c *fiber.Ctx) bool {
		return c.Path() == "/health"
	}})

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/lore", nil))
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
}
