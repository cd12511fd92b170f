package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"go-analytics/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

func newTestApp(skipAuth bool) *fiber.App {
	app := fiber.New()
	app.Get("/me", AuthMiddleware(skipAuth), func(c *fiber.Ctx) error {
		claims, ok := utils.ClaimsFromContext(c.UserContext())
		if !ok || claims.UserID != UserID(c) {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.SendString(UserID(c))
	})
	return app
}

func TestAuthMiddleware(t *testing.T) {
	utils.SetSecret("test-secret")
	valid, err := utils.GenerateToken("user-42", nil, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	tests := []struct {
		name       string
		skipAuth   bool
		header     string
		wantStatus int
	}{
		{name: "valid token", header: "Bearer " + valid, wantStatus: fiber.StatusOK},
		{name: "missing header", wantStatus: fiber.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", wantStatus: fiber.StatusUnauthorized},
		{name: "invalid token", header: "Bearer nope", wantStatus: fiber.StatusUnauthorized},
		{name: "auth skipped", skipAuth: true, wantStatus: fiber.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := newTestApp(tt.skipAuth).Test(req)
			if err != nil {
				t.Fatalf("Test() error = %v", err)
			}
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
		})
	}
}
