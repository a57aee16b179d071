package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/client-reservations/internal/queue"
	"github.com/iliyamo/client-reservations/internal/view"
)

// ReservationHandler exposes a session's reservation list.  All methods
// assume middleware.SessionAuth ran first.
type ReservationHandler struct {
	Notifier
	now func() time.Time
}

// NewReservationHandler builds the handler.  n may hold nil collaborators.
func NewReservationHandler(n Notifier) *ReservationHandler {
	return &ReservationHandler{Notifier: n, now: time.Now}
}

// addReservationRequest carries raw form values.  reservation_date is
// optional and defaults to the time of the request.
type addReservationRequest struct {
	ClientName      string       `json:"client_name"`
	ReservationDate string       `json:"reservation_date"`
	Quantity        quantityText `json:"quantity"`
}

// List handles GET /v1/reservations and returns the list in order.
func (h *ReservationHandler) List(c echo.Context) error {
	s, err := currentSession(c)
	if s == nil {
		return err
	}
	items := s.Reservations.List()
	return c.JSON(http.StatusOK, echo.Map{
		"data":  items,
		"total": len(items),
	})
}

// Rows handles GET /v1/reservations/rows: the list rendered for display,
// plus the label of the date currently selected in the form.
func (h *ReservationHandler) Rows(c echo.Context) error {
	s, err := currentSession(c)
	if s == nil {
		return err
	}
	tag := s.Form.Locale()
	return c.JSON(http.StatusOK, echo.Map{
		"rows":          view.Rows(s.Reservations.List(), tag),
		"selected_date": view.SelectedDate(s.Form.State().ReservationDate, tag),
	})
}

// Get handles GET /v1/reservations/:id.
func (h *ReservationHandler) Get(c echo.Context) error {
	s, err := currentSession(c)
	if s == nil {
		return err
	}
	id, ok := parseReservationID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_id", "message": "invalid reservation id"})
	}
	res, found := s.Reservations.Get(id)
	if !found {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not_found", "message": "reservation not found"})
	}
	return c.JSON(http.StatusOK, res)
}

// Create handles POST /v1/reservations.  Returns 201 with the stored
// record, or 400 with the validation message to show the user.
func (h *ReservationHandler) Create(c echo.Context) error {
	s, err := currentSession(c)
	if s == nil {
		return err
	}
	var body addReservationRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_body", "message": "invalid request body"})
	}
	date := h.now()
	if raw := strings.TrimSpace(body.ReservationDate); raw != "" {
		if date, err = parseDate(raw); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_date", "message": "reservation_date must be RFC 3339 or YYYY-MM-DD"})
		}
	}

	res, err := s.Reservations.Add(body.ClientName, date, string(body.Quantity))
	if err != nil {
		return addFailed(c, err)
	}
	h.changed(c, s, queue.ReservationAdded, res)
	return c.JSON(http.StatusCreated, res)
}

// Delete handles DELETE /v1/reservations/:id.  Remaining reservations are
// renumbered.  Unknown ids are accepted and change nothing, so the answer
// is always 204 for a numeric id.
func (h *ReservationHandler) Delete(c echo.Context) error {
	s, err := currentSession(c)
	if s == nil {
		return err
	}
	id, ok := parseReservationID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_id", "message": "invalid reservation id"})
	}
	if removed, ok := s.Reservations.Remove(id); ok {
		h.changed(c, s, queue.ReservationRemoved, removed)
	}
	return c.NoContent(http.StatusNoContent)
}
