package repository

import (
	"errors"
	"math/rand"
	"reflect"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/iliyamo/client-reservations/internal/model"
)

func seeded(t *testing.T, names ...string) *ReservationRepo {
	t.Helper()
	r := NewReservationRepo()
	d := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	for _, n := range names {
		if _, err := r.Add(n, d, "1"); err != nil {
			t.Fatalf("Add(%q) failed: %v", n, err)
		}
	}
	return r
}

func assertContiguous(t *testing.T, r *ReservationRepo) {
	t.Helper()
	for i, it := range r.List() {
		if it.ID != i+1 {
			t.Fatalf("position %d has id %d, want %d", i, it.ID, i+1)
		}
	}
}

func TestAddRejectsEmptyName(t *testing.T) {
	r := NewReservationRepo()
	for _, name := range []string{"", "   ", "\t\n"} {
		_, err := r.Add(name, time.Now(), "5")
		if !errors.Is(err, ErrEmptyName) {
			t.Fatalf("Add(%q) error = %v, want ErrEmptyName", name, err)
		}
		var verr *ValidationError
		if !errors.As(err, &verr) || verr.Kind != EmptyName {
			t.Fatalf("Add(%q) error kind = %v, want %s", name, err, EmptyName)
		}
	}
	if r.Len() != 0 {
		t.Fatalf("list grew to %d after rejected adds", r.Len())
	}
}

func TestAddRejectsInvalidQuantity(t *testing.T) {
	r := seeded(t, "A")
	for _, q := range []string{"", "  ", "abc", "0", "-3", "1.5", "99999999999999999999"} {
		_, err := r.Add("Ana", time.Now(), q)
		if !errors.Is(err, ErrInvalidQuantity) {
			t.Fatalf("Add quantity %q error = %v, want ErrInvalidQuantity", q, err)
		}
		if err.Error() != "quantity must be a valid number greater than 0" {
			t.Fatalf("unexpected message %q", err.Error())
		}
	}
	if r.Len() != 1 {
		t.Fatalf("list size = %d, want 1", r.Len())
	}
}

func TestAddChecksNameBeforeQuantity(t *testing.T) {
	_, err := NewReservationRepo().Add(" ", time.Now(), "abc")
	if !errors.Is(err, ErrEmptyName) {
		t.Fatalf("error = %v, want ErrEmptyName", err)
	}
}

func TestModelTagsCarryTheRules(t *testing.T) {
	err := validate.Struct(model.Reservation{ClientName: "", Quantity: 0})
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("validate.Struct error = %v, want ValidationErrors", err)
	}
	got := map[string]string{}
	for _, fe := range verrs {
		got[fe.Field()] = fe.Tag()
	}
	if got["ClientName"] != "required" || got["Quantity"] != "gt" || len(got) != 2 {
		t.Fatalf("failing fields = %v", got)
	}

	// Atoi accepts a leading sign; gt=0 is what rejects it
	r := NewReservationRepo()
	if res, err := r.Add("Ana", time.Now(), "+4"); err != nil || res.Quantity != 4 {
		t.Fatalf("Add(+4) = %+v, %v", res, err)
	}
	if _, err := r.Add("Ana", time.Now(), "-0"); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("Add(-0) error = %v, want ErrInvalidQuantity", err)
	}
}

func TestAddSuccess(t *testing.T) {
	r := NewReservationRepo()
	d := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	d2 := d.AddDate(0, 0, 7)

	first, err := r.Add("Ana", d, "3")
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if first.ID != 1 || first.ClientName != "Ana" || !first.ReservationDate.Equal(d) || first.Quantity != 3 {
		t.Fatalf("unexpected first record %+v", first)
	}
	second, err := r.Add("  Luis ", d2, " 2 ")
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if second.ID != 2 || second.ClientName != "Luis" || !second.ReservationDate.Equal(d2) || second.Quantity != 2 {
		t.Fatalf("unexpected second record %+v", second)
	}
}

func TestRemoveReindexes(t *testing.T) {
	r := seeded(t, "A", "B", "C")
	removed, ok := r.Remove(2)
	if !ok || removed.ClientName != "B" {
		t.Fatalf("Remove(2) = %+v, %v", removed, ok)
	}
	got := r.List()
	if len(got) != 2 || got[0].ID != 1 || got[0].ClientName != "A" || got[1].ID != 2 || got[1].ClientName != "C" {
		t.Fatalf("unexpected list after remove: %+v", got)
	}

	next, err := r.Add("D", time.Now(), "1")
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if next.ID != 3 {
		t.Fatalf("id after reindex = %d, want 3", next.ID)
	}
}

func TestRemoveUnknownIsNoop(t *testing.T) {
	r := seeded(t, "A", "B", "C")
	before := r.List()
	if _, ok := r.Remove(99); ok {
		t.Fatal("Remove(99) reported a deletion")
	}
	if !reflect.DeepEqual(before, r.List()) {
		t.Fatalf("list changed after removing an unknown id")
	}
}

func TestListIsStableAndDetached(t *testing.T) {
	r := seeded(t, "A", "B")
	a, b := r.List(), r.List()
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("List() not idempotent: %+v vs %+v", a, b)
	}
	a[0].ClientName = "mutated"
	if got, _ := r.Get(1); got.ClientName != "A" {
		t.Fatalf("snapshot mutation leaked into the list: %+v", got)
	}
}

func TestIdsStayContiguous(t *testing.T) {
	r := NewReservationRepo()
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 500; i++ {
		if r.Len() == 0 || rng.Intn(3) > 0 {
			if _, err := r.Add("client", time.Now(), "1"); err != nil {
				t.Fatalf("Add failed: %v", err)
			}
		} else {
			r.Remove(rng.Intn(r.Len()+2) + 1)
		}
		assertContiguous(t, r)
	}
}
