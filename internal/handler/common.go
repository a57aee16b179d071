package handler // handler defines http handlers

import (
	"context"  // collaborator signatures
	"errors"   // errors.As for validation failures
	"log"      // logs dropped events and cache failures
	"net/http" // status codes
	"strconv"  // parsing path parameters
	"time"     // event timestamps, date parsing

	"github.com/labstack/echo/v4" // echo defines request context types

	"github.com/iliyamo/client-reservations/internal/middleware"
	"github.com/iliyamo/client-reservations/internal/model"
	"github.com/iliyamo/client-reservations/internal/queue"
	"github.com/iliyamo/client-reservations/internal/repository"
	"github.com/iliyamo/client-reservations/internal/session"
)

// EventPublisher delivers reservation events to the broker.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.ReservationEvent) error
}

// CacheInvalidator drops cached responses of a session.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, sessionID string) error
}

// Notifier is shared by the handlers that mutate a reservation list.  Both
// collaborators are optional.
type Notifier struct {
	Events EventPublisher
	Cache  CacheInvalidator
}

// changed runs after every successful add or delete: the session's cached
// list goes away and an event is queued.  Publish does not block, so
// events of one session keep the order of its requests.
func (n Notifier) changed(c echo.Context, s *session.Session, typ string, r model.Reservation) {
	ctx := c.Request().Context()
	if n.Cache != nil {
		if err := n.Cache.Invalidate(ctx, s.ID); err != nil {
			log.Printf("cache: invalidate session %s failed: %v", s.ID, err)
		}
	}
	if n.Events == nil {
		return
	}
	ev := queue.NewReservationEvent(typ, s.ID, r, time.Now())
	if err := n.Events.Publish(ctx, ev); err != nil {
		log.Printf("events: %s for session %s not queued: %v", typ, s.ID, err)
	}
}

// currentSession returns the session attached by middleware.SessionAuth.
func currentSession(c echo.Context) (*session.Session, error) {
	s := middleware.CurrentSession(c)
	if s == nil {
		return nil, c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized", "message": "no session"})
	}
	return s, nil
}

// parseReservationID reads the :id path parameter.
func parseReservationID(c echo.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	return id, err == nil
}

// addFailed writes the response for a rejected add.  Validation errors
// become 400 with the message meant for the user.
func addFailed(c echo.Context, err error) error {
	var verr *repository.ValidationError
	if errors.As(err, &verr) {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":   string(verr.Kind),
			"message": verr.Error(),
		})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal_error", "message": err.Error()})
}

// parseDate accepts RFC 3339 timestamps and plain YYYY-MM-DD dates.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse(time.DateOnly, s)
}
