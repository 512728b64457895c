package session

import (
	"context"
	"errors"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/luvv-ai/backend/internal/model/conversation"
)

var (
	ErrPersonaRequired = errors.New("persona id is required")
	ErrSessionNotFound = errors.New("session not found")
)

// Credentials is the per-session provider key pair. Keys are supplied by the
// session owner and never validated at submission time; validity is only
// discovered on the first provider call.
type Credentials struct {
	GenerationKey string
	SpeechKey     string
}

// Session owns one caller's conversation: credentials, history and disclosed
// traits all live and die with it.
type Session struct {
	ID        string
	PersonaID string
	CreatedAt time.Time

	// mu serializes turn handling so history order matches submission
	// order. Held for the full duration of a turn.
	mu sync.Mutex

	credsMu sync.RWMutex
	creds   Credentials

	history   *conversation.History
	disclosed *conversation.DisclosedTraits

	lastActive atomic.Int64
}

// Lock acquires the per-session turn lock.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the per-session turn lock.
func (s *Session) Unlock() { s.mu.Unlock() }

// Credentials returns the currently stored key pair.
func (s *Session) Credentials() Credentials {
	s.credsMu.RLock()
	defer s.credsMu.RUnlock()
	return s.creds
}

// SetCredentials replaces the stored key pair.
func (s *Session) SetCredentials(c Credentials) {
	s.credsMu.Lock()
	s.creds = c
	s.credsMu.Unlock()
}

// History exposes the session's conversation log. Callers mutating it must
// hold the turn lock.
func (s *Session) History() *conversation.History {
	return s.history
}

// Disclosed exposes the session's disclosed-trait set. Callers mutating it
// must hold the turn lock.
func (s *Session) Disclosed() *conversation.DisclosedTraits {
	return s.disclosed
}

// Touch refreshes the inactivity clock.
func (s *Session) Touch(now time.Time) {
	s.lastActive.Store(now.UnixNano())
}

// LastActive reports the most recent activity timestamp.
func (s *Session) LastActive() time.Time {
	return time.Unix(0, s.lastActive.Load())
}

// Store holds live sessions in memory, bounded by an inactivity timeout.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
}

// NewStore builds a store whose sessions expire after ttl of inactivity.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
	}
}

// Create provisions a session bound to a persona.
func (st *Store) Create(personaID string) (*Session, error) {
	if personaID == "" {
		return nil, ErrPersonaRequired
	}

	now := time.Now().UTC()
	sess := &Session{
		ID:        uuid.NewString(),
		PersonaID: personaID,
		CreatedAt: now,
		history:   &conversation.History{},
		disclosed: conversation.NewDisclosedTraits(),
	}
	sess.Touch(now)

	st.mu.Lock()
	st.sessions[sess.ID] = sess
	st.mu.Unlock()

	return sess, nil
}

// Get resolves a live session and refreshes its inactivity clock.
func (st *Store) Get(id string) (*Session, error) {
	st.mu.RLock()
	sess, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	sess.Touch(time.Now().UTC())
	return sess, nil
}

// SubmitCredentials stores the key pair on the session, replacing any prior
// pair.
func (st *Store) SubmitCredentials(id string, creds Credentials) error {
	sess, err := st.Get(id)
	if err != nil {
		return err
	}
	sess.SetCredentials(creds)
	return nil
}

// Logout destroys the session along with its credentials, history and
// disclosed traits.
func (st *Store) Logout(id string) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(st.sessions, id)
	return nil
}

// Len reports the number of live sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Sweep removes sessions idle longer than the store TTL and returns how many
// were dropped.
func (st *Store) Sweep(now time.Time) int {
	st.mu.Lock()
	defer st.mu.Unlock()

	removed := 0
	for id, sess := range st.sessions {
		if now.Sub(sess.LastActive()) > st.ttl {
			delete(st.sessions, id)
			removed++
		}
	}
	return removed
}

// StartSweeper runs periodic expiry until ctx is cancelled.
func (st *Store) StartSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				if removed := st.Sweep(now.UTC()); removed > 0 {
					log.Printf("[session] expired %d idle session(s)", removed)
				}
			}
		}
	}()
}
