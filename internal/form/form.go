// Package form keeps the transient state of the "add client" dialog: the
// raw field values, whether the dialog and its date picker are showing,
// and the locale the picker is tagged with. None of it is domain state;
// the reservation list only sees the values handed to it on submit.
package form

import (
	"errors"
	"sync"
	"time"

	"golang.org/x/text/language"

	"github.com/iliyamo/client-reservations/internal/model"
)

// ErrFormClosed is returned by Submit when the dialog is not showing.
var ErrFormClosed = errors.New("form is not open")

// DefaultLocale tags the date picker when no locale is configured.
var DefaultLocale = language.MustParse("es-ES")

// Adder is the part of the reservation list the form submits into.
type Adder interface {
	Add(clientName string, reservationDate time.Time, quantityText string) (model.Reservation, error)
}

// State is a read-only snapshot of the form for rendering.
type State struct {
	ClientName        string    `json:"client_name"`
	QuantityText      string    `json:"quantity"`
	ReservationDate   time.Time `json:"reservation_date"`
	ModalVisible      bool      `json:"modal_visible"`
	DatePickerVisible bool      `json:"date_picker_visible"`
	Locale            string    `json:"locale"`
}

// Form is safe for concurrent use.
type Form struct {
	mu      sync.Mutex
	now     func() time.Time
	locale  language.Tag
	name    string
	qty     string
	date    time.Time
	modal   bool
	picking bool
}

// New starts a form session. The reservation date defaults to now().
func New(locale language.Tag, now func() time.Time) *Form {
	if now == nil {
		now = time.Now
	}
	if locale == language.Und {
		locale = DefaultLocale
	}
	return &Form{now: now, locale: locale, date: now()}
}

// Locale returns the tag the date picker is shown with.
func (f *Form) Locale() language.Tag { return f.locale }

// Open shows the dialog.
func (f *Form) Open() {
	f.mu.Lock()
	f.modal = true
	f.mu.Unlock()
}

// Cancel hides the dialog. Typed values are kept for the next Open.
func (f *Form) Cancel() {
	f.mu.Lock()
	f.modal = false
	f.picking = false
	f.mu.Unlock()
}

func (f *Form) SetClientName(v string) {
	f.mu.Lock()
	f.name = v
	f.mu.Unlock()
}

func (f *Form) SetQuantity(v string) {
	f.mu.Lock()
	f.qty = v
	f.mu.Unlock()
}

// ShowDatePicker displays the date picker.
func (f *Form) ShowDatePicker() {
	f.mu.Lock()
	f.picking = true
	f.mu.Unlock()
}

// PickDate closes the date picker. A nil selection means the picker was
// dismissed and the previous date stays.
func (f *Form) PickDate(selected *time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.picking = false
	if selected != nil {
		f.date = *selected
	}
}

// Submit hands the current values to the list. On success the fields are
// reset, the date goes back to now and the dialog closes. On failure
// nothing changes so the user can correct the input.
func (f *Form) Submit(list Adder) (model.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.modal {
		return model.Reservation{}, ErrFormClosed
	}
	res, err := list.Add(f.name, f.date, f.qty)
	if err != nil {
		return model.Reservation{}, err
	}
	f.name = ""
	f.qty = ""
	f.date = f.now()
	f.modal = false
	f.picking = false
	return res, nil
}

// State returns a snapshot of the form.
func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return State{
		ClientName:        f.name,
		QuantityText:      f.qty,
		ReservationDate:   f.date,
		ModalVisible:      f.modal,
		DatePickerVisible: f.picking,
		Locale:            f.locale.String(),
	}
}
