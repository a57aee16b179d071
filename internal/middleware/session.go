package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"net/http" // HTTP status codes for responses
	"strings"  // string utilities for prefix checking and trimming

	"github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

	"github.com/iliyamo/client-reservations/internal/session"
	"github.com/iliyamo/client-reservations/internal/utils"
)

// Context keys set by SessionAuth.
const (
	CtxSession   = "session"
	CtxSessionID = "session_id"
)

// SessionAuth returns an Echo middleware that validates a Bearer session
// token and loads the session it names.  Handlers reach the session via
// CurrentSession.  Tokens for ended or idle sessions are rejected with 401
// even while their signature is still valid.
func SessionAuth(secret string, store *session.Store) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized", "message": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			id, err := utils.ParseSessionToken(secret, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized", "message": "invalid token"})
			}
			s, ok := store.Get(id)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized", "message": "session not found"})
			}

			c.Set(CtxSession, s)
			c.Set(CtxSessionID, s.ID)
			return next(c)
		}
	}
}

// CurrentSession returns the session loaded by SessionAuth, or nil.
func CurrentSession(c echo.Context) *session.Session {
	s, _ := c.Get(CtxSession).(*session.Session)
	return s
}
