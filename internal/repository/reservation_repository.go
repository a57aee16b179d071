package repository

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/iliyamo/client-reservations/internal/model"
)

var validate = validator.New()

// ReservationRepo is the ordered, in-memory reservation list of one
// session. Ids are always exactly 1..N in list order: Add appends with
// the last id plus one and Remove renumbers everything after a deletion.
// Stored records are never modified in place; every mutation swaps the
// backing slice for a new one.
type ReservationRepo struct {
	mu    sync.RWMutex
	items []model.Reservation
}

// NewReservationRepo returns an empty list.
func NewReservationRepo() *ReservationRepo { return &ReservationRepo{} }

// Add validates the raw form values and appends a new reservation. The
// field rules are the validate tags on model.Reservation; the name is
// checked first, then the quantity. On failure a *ValidationError is
// returned and the list is left untouched.
func (r *ReservationRepo) Add(clientName string, reservationDate time.Time, quantityText string) (model.Reservation, error) {
	res := model.Reservation{
		ClientName:      strings.TrimSpace(clientName),
		ReservationDate: reservationDate,
	}
	if err := validate.StructPartial(res, "ClientName"); err != nil {
		return model.Reservation{}, newValidationError(EmptyName)
	}
	qty, err := strconv.Atoi(strings.TrimSpace(quantityText))
	if err != nil {
		return model.Reservation{}, newValidationError(InvalidQuantity)
	}
	res.Quantity = qty
	if err := validate.StructPartial(res, "Quantity"); err != nil {
		return model.Reservation{}, newValidationError(InvalidQuantity)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	res.ID = nextID(r.items)
	items := make([]model.Reservation, len(r.items), len(r.items)+1)
	copy(items, r.items)
	r.items = append(items, res)
	return res, nil
}

// Remove deletes the reservation with the given id and renumbers the rest
// to their 1-based positions. An unknown id changes nothing. The removed
// record is returned with true when something was deleted.
func (r *ReservationRepo) Remove(id int) (model.Reservation, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := -1
	for i, it := range r.items {
		if it.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return model.Reservation{}, false
	}
	removed := r.items[idx]

	items := make([]model.Reservation, 0, len(r.items)-1)
	for i, it := range r.items {
		if i == idx {
			continue
		}
		it.ID = len(items) + 1
		items = append(items, it)
	}
	r.items = items
	return removed, true
}

// List returns a copy of the reservations in their current order.
func (r *ReservationRepo) List() []model.Reservation {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.Reservation, len(r.items))
	copy(out, r.items)
	return out
}

// Get looks a reservation up by its current id.
func (r *ReservationRepo) Get(id int) (model.Reservation, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, it := range r.items {
		if it.ID == id {
			return it, true
		}
	}
	return model.Reservation{}, false
}

// Len reports how many reservations are stored.
func (r *ReservationRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

// nextID uses the id of the last element, not the highest id ever issued.
func nextID(items []model.Reservation) int {
	if len(items) == 0 {
		return 1
	}
	return items[len(items)-1].ID + 1
}
