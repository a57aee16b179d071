package model

import "time"

// Reservation is one client booking held in a session's list.
//
// Fields:
//  ID              – 1-based position in the list; reassigned on deletion.
//  ClientName      – trimmed, never empty.
//  ReservationDate – date picked in the form (defaults to the form's "now").
//  Quantity        – number of places booked, always greater than zero.
type Reservation struct {
	ID              int       `json:"id"`
	ClientName      string    `json:"client_name" validate:"required"`
	ReservationDate time.Time `json:"reservation_date"`
	Quantity        int       `json:"quantity" validate:"gt=0"`
}
