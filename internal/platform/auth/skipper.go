package auth

import (
	"github.com/labstack/echo/v4"
)

// publicPaths lists route paths that bypass authentication. These are the
// health check and the kiosk-facing endpoints: patients register themselves
// and check their token status without credentials. Staff-only routes that
// share a path with a kiosk route (e.g. the patient list) stay protected
// because RequireRole denies requests with no roles in context.
var publicPaths = map[string]bool{
	"/health":                         true,
	"/api/v1/triage":                  true,
	"/api/v1/feedback":                true,
	"/api/v1/patients":                true,
	"/api/v1/patients/lookup":         true,
	"/api/v1/visits":                  true,
	"/api/v1/patients/status/:token":  true,
	"/api/v1/queue/stations/:station": true,
	"/api/v1/queue/summary":           true,
}

// AuthSkipper returns true for requests whose route should skip bearer
// token checks. Matches on the registered route pattern, not the raw URL.
func AuthSkipper(c echo.Context) bool {
	return publicPaths[c.Path()]
}

// IsPublicPath reports whether a route pattern is kiosk-open.
func IsPublicPath(path string) bool {
	return publicPaths[path]
}
