// Package queue defines the reservation events exchanged over the message
// broker and the consumer that records them.
package queue

import (
	"time"

	"github.com/iliyamo/client-reservations/internal/model"
)

// QueueName is the durable queue reservation events are routed to.
const QueueName = "reservation.events"

// Event types.
const (
	ReservationAdded   = "reservation.added"
	ReservationRemoved = "reservation.removed"
)

// ReservationEvent is published after a reservation is added to or removed
// from a session's list.  ReservationID is the id the record had at that
// moment; later deletions may renumber it.
type ReservationEvent struct {
	Type            string `json:"type"`
	SessionID       string `json:"session_id"`
	ReservationID   int    `json:"reservation_id"`
	ClientName      string `json:"client_name"`
	ReservationDate string `json:"reservation_date"`
	Quantity        int    `json:"quantity"`
	OccurredAt      string `json:"occurred_at"`
}

// NewReservationEvent fills an event from a record.
func NewReservationEvent(typ, sessionID string, r model.Reservation, at time.Time) ReservationEvent {
	return ReservationEvent{
		Type:            typ,
		SessionID:       sessionID,
		ReservationID:   r.ID,
		ClientName:      r.ClientName,
		ReservationDate: r.ReservationDate.Format(time.RFC3339),
		Quantity:        r.Quantity,
		OccurredAt:      at.UTC().Format(time.RFC3339),
	}
}
