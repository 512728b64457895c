package session_test

import (
	"errors"
	"testing"
	"time"

	"github.com/luvv-ai/backend/internal/service/session"
)

func TestStoreCreateAndGet(t *testing.T) {
	store := session.NewStore(time.Hour)

	sess, err := store.Create("love")
	if err != nil {
		t.Fatalf("Create err: %v", err)
	}

	got, err := store.Get(sess.ID)
	if err != nil {
		t.Fatalf("Get err: %v", err)
	}
	if got.ID != sess.ID || got.PersonaID != "love" {
		t.Fatalf("unexpected session: %+v", got)
	}
}

func TestStoreCreateRequiresPersona(t *testing.T) {
	store := session.NewStore(time.Hour)
	if _, err := store.Create(""); !errors.Is(err, session.ErrPersonaRequired) {
		t.Fatalf("expected ErrPersonaRequired, got %v", err)
	}
}

func TestStoreGetNotFound(t *testing.T) {
	store := session.NewStore(time.Hour)
	if _, err := store.Get("missing"); !errors.Is(err, session.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSubmitCredentialsReplacesPair(t *testing.T) {
	store := session.NewStore(time.Hour)
	sess, _ := store.Create("love")

	if err := store.SubmitCredentials(sess.ID, session.Credentials{GenerationKey: "a", SpeechKey: "b"}); err != nil {
		t.Fatalf("SubmitCredentials err: %v", err)
	}
	if err := store.SubmitCredentials(sess.ID, session.Credentials{GenerationKey: "c", SpeechKey: "d"}); err != nil {
		t.Fatalf("SubmitCredentials err: %v", err)
	}

	creds := sess.Credentials()
	if creds.GenerationKey != "c" || creds.SpeechKey != "d" {
		t.Fatalf("expected replaced pair, got %+v", creds)
	}
}

func TestLogoutDestroysSession(t *testing.T) {
	store := session.NewStore(time.Hour)
	sess, _ := store.Create("love")

	if err := store.Logout(sess.ID); err != nil {
		t.Fatalf("Logout err: %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("expected empty store, got %d sessions", store.Len())
	}
	if _, err := store.Get(sess.ID); !errors.Is(err, session.ErrSessionNotFound) {
		t.Fatalf("expected session destroyed, got %v", err)
	}
	if err := store.Logout(sess.ID); !errors.Is(err, session.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound on double logout, got %v", err)
	}
}

func TestSweepRemovesIdleSessions(t *testing.T) {
	store := session.NewStore(time.Minute)

	idle, _ := store.Create("love")
	idle.Touch(time.Now().UTC().Add(-2 * time.Minute))

	active, _ := store.Create("love")

	removed := store.Sweep(time.Now().UTC())
	if removed != 1 {
		t.Fatalf("expected 1 expired session, got %d", removed)
	}
	if _, err := store.Get(idle.ID); !errors.Is(err, session.ErrSessionNotFound) {
		t.Fatal("idle session should be gone")
	}
	if _, err := store.Get(active.ID); err != nil {
		t.Fatalf("active session should survive: %v", err)
	}
}

func TestGetRefreshesActivity(t *testing.T) {
	store := session.NewStore(time.Minute)
	sess, _ := store.Create("love")
	sess.Touch(time.Now().UTC().Add(-2 * time.Minute))

	if _, err := store.Get(sess.ID); err != nil {
		t.Fatalf("Get err: %v", err)
	}

	if removed := store.Sweep(time.Now().UTC()); removed != 0 {
		t.Fatalf("recently fetched session should not expire, removed %d", removed)
	}
}
