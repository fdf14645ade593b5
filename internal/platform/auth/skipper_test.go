package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestAuthSkipper_PublicPaths(t *testing.T) {
	for _, path := range []string{
		"/health",
		"/api/v1/triage",
		"/api/v1/visits",
		"/api/v1/patients/status/:token",
		"/api/v1/queue/stations/:station",
	} {
		if !IsPublicPath(path) {
			t.Errorf("expected %s to be kiosk-open", path)
		}
	}
}

func TestAuthSkipper_ProtectedPaths(t *testing.T) {
	for _, path := range []string{
		"/api/v1/queue/start",
		"/api/v1/queue/advance",
		"/api/v1/admin/reset",
		"/api/v1/patients/:id",
	} {
		if IsPublicPath(path) {
			t.Errorf("expected %s to require auth", path)
		}
	}
}

// Mirrors the server wiring: the JWT middleware is global, so kiosk routes
// must pass without a token while staff routes still demand one.
func TestJWTMiddleware_SkipsKioskRoutes(t *testing.T) {
	e := echo.New()
	e.Use(JWTMiddleware(testSecret))
	handler := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	e.GET("/health", handler)
	e.POST("/api/v1/triage", handler)
	e.POST("/api/v1/queue/advance", handler)

	tests := []struct {
		method, path string
		wantCode     int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodPost, "/api/v1/triage", http.StatusOK},
		{http.MethodPost, "/api/v1/queue/advance", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, tt.path, nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		if rec.Code != tt.wantCode {
			t.Errorf("%s %s: code = %d, want %d", tt.method, tt.path, rec.Code, tt.wantCode)
		}
	}
}

// A staff route sharing its path with a kiosk route skips the token check
// but is still denied by the role guard.
func TestJWTMiddleware_SkippedPathStillRoleGuarded(t *testing.T) {
	e := echo.New()
	e.Use(JWTMiddleware(testSecret))
	g := e.Group("/api/v1", RequireRole("admin", "operator"))
	g.GET("/patients", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/api/v1/patients", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("code = %d, want 403 without roles", rec.Code)
	}
}
