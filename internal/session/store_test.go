package session

import (
	"testing"
	"time"

	"golang.org/x/text/language"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func TestCreateAndGet(t *testing.T) {
	clk := &clock{t: time.Date(2026, 10, 15, 8, 0, 0, 0, time.UTC)}
	st := NewStore(time.Hour, language.MustParse("es-ES"), clk.now)

	s := st.Create()
	if s.ID == "" || s.Reservations == nil || s.Form == nil {
		t.Fatalf("incomplete session %+v", s)
	}
	got, ok := st.Get(s.ID)
	if !ok || got != s {
		t.Fatalf("Get(%s) = %v, %v", s.ID, got, ok)
	}
	if other := st.Create(); other.ID == s.ID || other.Reservations == s.Reservations {
		t.Fatal("sessions share state")
	}
}

func TestGetExpired(t *testing.T) {
	clk := &clock{t: time.Date(2026, 10, 15, 8, 0, 0, 0, time.UTC)}
	st := NewStore(time.Minute, language.Und, clk.now)
	s := st.Create()

	clk.t = clk.t.Add(30 * time.Second)
	if _, ok := st.Get(s.ID); !ok {
		t.Fatal("session expired too early")
	}
	clk.t = clk.t.Add(61 * time.Second)
	if _, ok := st.Get(s.ID); ok {
		t.Fatal("idle session still returned")
	}
}

func TestEnd(t *testing.T) {
	st := NewStore(time.Hour, language.Und, nil)
	s := st.Create()
	st.End(s.ID)
	st.End("unknown")
	if _, ok := st.Get(s.ID); ok {
		t.Fatal("ended session still returned")
	}
}

func TestSweep(t *testing.T) {
	clk := &clock{t: time.Date(2026, 10, 15, 8, 0, 0, 0, time.UTC)}
	st := NewStore(time.Minute, language.Und, clk.now)
	idle := st.Create()
	clk.t = clk.t.Add(50 * time.Second)
	active := st.Create()
	clk.t = clk.t.Add(20 * time.Second)

	if n := st.Sweep(); n != 1 {
		t.Fatalf("Sweep removed %d, want 1", n)
	}
	if _, ok := st.Get(idle.ID); ok {
		t.Fatal("idle session survived sweep")
	}
	if _, ok := st.Get(active.ID); !ok {
		t.Fatal("active session was swept")
	}
	if st.Len() != 1 {
		t.Fatalf("Len = %d, want 1", st.Len())
	}
}
