package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func adminApp(token string) *fiber.App {
	app := fiber.New()
	app.Get("/admin/ping", AdminAuth(token, zap.NewNop()), func(c *fiber.Ctx) error {
		return c.SendString("pong")
	})
	return app
}

func TestAdminAuth(t *testing.T) {
	cases := []struct {
		name       string
		configured string
		header     string
		wantStatus int
	}{
		{"valid token", "secret", "Bearer secret", http.StatusOK},
		{"wrong token", "secret", "Bearer wrong", http.StatusUnauthorized},
		{"missing header", "secret", "", http.StatusUnauthorized},
		{"raw token without scheme", "secret", "secret", http.StatusOK},
		{"unconfigured surface", "", "Bearer anything", http.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := adminApp(tc.configured)
			req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			require.Equal(t, tc.wantStatus, resp.StatusCode)
		})
	}
}
