package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/client-reservations/internal/session"
	"github.com/iliyamo/client-reservations/internal/utils"
)

// SessionHandler opens and ends application sessions.
type SessionHandler struct {
	Store  *session.Store
	Secret string
	Cache  CacheInvalidator
}

// NewSessionHandler panics if the store is nil.
func NewSessionHandler(store *session.Store, secret string, cache CacheInvalidator) *SessionHandler {
	if store == nil {
		panic("nil session store passed to NewSessionHandler")
	}
	return &SessionHandler{Store: store, Secret: secret, Cache: cache}
}

// Create handles POST /v1/sessions.  The returned token authorizes every
// other /v1 call and expires with the session's idle TTL.
func (h *SessionHandler) Create(c echo.Context) error {
	s := h.Store.Create()
	tok, err := utils.NewSessionToken(h.Secret, s.ID, h.Store.TTL())
	if err != nil {
		h.Store.End(s.ID)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal_error", "message": "failed to sign token"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"session_id": s.ID,
		"token":      tok.Token,
		"expires_at": tok.Exp.Format(time.RFC3339),
	})
}

// End handles DELETE /v1/sessions.  The session's list and form are
// discarded.
func (h *SessionHandler) End(c echo.Context) error {
	s, err := currentSession(c)
	if s == nil {
		return err
	}
	h.Store.End(s.ID)
	if h.Cache != nil {
		_ = h.Cache.Invalidate(c.Request().Context(), s.ID)
	}
	return c.NoContent(http.StatusNoContent)
}
