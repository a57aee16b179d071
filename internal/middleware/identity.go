package middleware

// identity.go holds the lookup shared by the rate limiter and the cache:
// which session a request belongs to.

import "github.com/labstack/echo/v4"

// sessionID returns the id stored by SessionAuth, or "anon" for requests
// that carry no session (health checks, session creation).
func sessionID(c echo.Context) string {
	if v, ok := c.Get(CtxSessionID).(string); ok && v != "" {
		return v
	}
	return "anon"
}
