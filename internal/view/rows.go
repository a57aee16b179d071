// Package view turns reservations and form state into the labels a list
// screen shows.
package view

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/iliyamo/client-reservations/internal/model"
)

// Row is one rendered list entry. DeleteID is the id a delete action for
// this row must send.
type Row struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Date     string `json:"date"`
	Quantity string `json:"quantity"`
	DeleteID int    `json:"delete_id"`
}

// dateLayout matches JavaScript's Date.prototype.toDateString.
const dateLayout = "Mon Jan 02 2006"

// Rows renders the list in order.
func Rows(items []model.Reservation, tag language.Tag) []Row {
	p := message.NewPrinter(tag)
	out := make([]Row, 0, len(items))
	for _, it := range items {
		out = append(out, Row{
			ID:       it.ID,
			Name:     it.ClientName,
			Date:     it.ReservationDate.Format(dateLayout),
			Quantity: p.Sprintf("%d", it.Quantity),
			DeleteID: it.ID,
		})
	}
	return out
}

// SelectedDate renders the date shown under the picker button.
func SelectedDate(t time.Time, tag language.Tag) string {
	base, _ := tag.Base()
	switch base.String() {
	case "es", "fr", "it", "pt", "de":
		return t.Format("2/1/2006, 15:04:05")
	default:
		return t.Format("1/2/2006, 3:04:05 PM")
	}
}
