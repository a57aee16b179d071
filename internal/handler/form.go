package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/client-reservations/internal/form"
	"github.com/iliyamo/client-reservations/internal/queue"
)

// FormHandler drives the "add client" dialog of a session: open and
// cancel, field edits, the date picker, and submit.  Every endpoint
// answers with the resulting form state so clients can re-render.
type FormHandler struct {
	Notifier
}

func NewFormHandler(n Notifier) *FormHandler { return &FormHandler{Notifier: n} }

type patchFormRequest struct {
	ClientName *string       `json:"client_name"`
	Quantity   *quantityText `json:"quantity"`
}

// pickDateRequest: a null or missing date means the picker was dismissed.
type pickDateRequest struct {
	Date *string `json:"date"`
}

// withForm runs fn against the session's form and writes the new state.
func withForm(c echo.Context, fn func(f *form.Form) error) error {
	s, err := currentSession(c)
	if s == nil {
		return err
	}
	if fn != nil {
		if err := fn(s.Form); err != nil {
			return err
		}
	}
	return c.JSON(http.StatusOK, s.Form.State())
}

// Get handles GET /v1/form.
func (h *FormHandler) Get(c echo.Context) error { return withForm(c, nil) }

// Open handles POST /v1/form/open.
func (h *FormHandler) Open(c echo.Context) error {
	return withForm(c, func(f *form.Form) error { f.Open(); return nil })
}

// Cancel handles POST /v1/form/cancel.  Field values are kept.
func (h *FormHandler) Cancel(c echo.Context) error {
	return withForm(c, func(f *form.Form) error { f.Cancel(); return nil })
}

// ShowDatePicker handles POST /v1/form/date-picker.
func (h *FormHandler) ShowDatePicker(c echo.Context) error {
	return withForm(c, func(f *form.Form) error { f.ShowDatePicker(); return nil })
}

// Patch handles PATCH /v1/form.  Only fields present in the body change.
func (h *FormHandler) Patch(c echo.Context) error {
	var body patchFormRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_body", "message": "invalid request body"})
	}
	return withForm(c, func(f *form.Form) error {
		if body.ClientName != nil {
			f.SetClientName(*body.ClientName)
		}
		if body.Quantity != nil {
			f.SetQuantity(string(*body.Quantity))
		}
		return nil
	})
}

// PickDate handles PUT /v1/form/date.
func (h *FormHandler) PickDate(c echo.Context) error {
	var body pickDateRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_body", "message": "invalid request body"})
	}
	var picked *time.Time
	if body.Date != nil && strings.TrimSpace(*body.Date) != "" {
		t, err := parseDate(strings.TrimSpace(*body.Date))
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_date", "message": "date must be RFC 3339 or YYYY-MM-DD"})
		}
		picked = &t
	}
	return withForm(c, func(f *form.Form) error { f.PickDate(picked); return nil })
}

// Submit handles POST /v1/form/submit.  On success the record is returned
// with 201 and the form is reset and closed.  Validation failures leave
// the form as it was.
func (h *FormHandler) Submit(c echo.Context) error {
	s, err := currentSession(c)
	if s == nil {
		return err
	}
	res, err := s.Form.Submit(s.Reservations)
	if errors.Is(err, form.ErrFormClosed) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "form_closed", "message": err.Error()})
	}
	if err != nil {
		return addFailed(c, err)
	}
	h.changed(c, s, queue.ReservationAdded, res)
	return c.JSON(http.StatusCreated, res)
}
