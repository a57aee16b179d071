// Package session tracks application sessions. Each session owns one
// reservation list and one form; both are dropped when the session ends
// or sits idle past its TTL.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/language"

	"github.com/iliyamo/client-reservations/internal/form"
	"github.com/iliyamo/client-reservations/internal/repository"
)

// Session is the state of one client of the API.
type Session struct {
	ID           string
	Reservations *repository.ReservationRepo
	Form         *form.Form
	CreatedAt    time.Time

	mu       sync.Mutex
	lastSeen time.Time
}

// LastSeen reports when the session was last used.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Store is an in-process registry of sessions.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	locale   language.Tag
	now      func() time.Time
}

// NewStore builds a Store. Sessions idle for longer than ttl are removed
// by Sweep and rejected by Get.
func NewStore(ttl time.Duration, locale language.Tag, now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		locale:   locale,
		now:      now,
	}
}

// TTL returns the idle timeout.
func (st *Store) TTL() time.Duration { return st.ttl }

// Create opens a new session with an empty list.
func (st *Store) Create() *Session {
	now := st.now()
	s := &Session{
		ID:           uuid.NewString(),
		Reservations: repository.NewReservationRepo(),
		Form:         form.New(st.locale, st.now),
		CreatedAt:    now,
		lastSeen:     now,
	}
	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
	return s
}

// Get returns a live session and marks it as used.
func (st *Store) Get(id string) (*Session, bool) {
	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return nil, false
	}
	now := st.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	if st.ttl > 0 && now.Sub(s.lastSeen) > st.ttl {
		return nil, false
	}
	s.lastSeen = now
	return s, true
}

// End discards a session. Ending an unknown session is a no-op.
func (st *Store) End(id string) {
	st.mu.Lock()
	delete(st.sessions, id)
	st.mu.Unlock()
}

// Len reports the number of tracked sessions, expired ones included.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Sweep drops every session idle for longer than the TTL and returns how
// many were removed.
func (st *Store) Sweep() int {
	if st.ttl <= 0 {
		return 0
	}
	now := st.now()
	st.mu.Lock()
	defer st.mu.Unlock()
	n := 0
	for id, s := range st.sessions {
		if now.Sub(s.LastSeen()) > st.ttl {
			delete(st.sessions, id)
			n++
		}
	}
	return n
}
