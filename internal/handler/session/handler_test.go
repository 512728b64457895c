package session

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/luvv-ai/backend/internal/model/persona"
	sessionservice "github.com/luvv-ai/backend/internal/service/session"
)

func setupRouter() (*chi.Mux, *sessionservice.Store) {
	store := sessionservice.NewStore(time.Hour)
	handler := New(store, persona.NewMemoryStore(persona.Seed()))

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r, store
}

func createSession(t *testing.T, r *chi.Mux) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/session", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}

	var payload struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return payload.ID
}

func TestCreateSessionDefaultsToLove(t *testing.T) {
	r, store := setupRouter()
	id := createSession(t, r)

	sess, err := store.Get(id)
	if err != nil {
		t.Fatalf("session not stored: %v", err)
	}
	if sess.PersonaID != DefaultPersonaID {
		t.Fatalf("expected default persona, got %s", sess.PersonaID)
	}
}

func TestCreateSessionUnknownPersona(t *testing.T) {
	r, _ := setupRouter()
	payload := []byte(`{"personaId":"non-existent"}`)

	req := httptest.NewRequest(http.MethodPost, "/session", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestSubmitCredentials(t *testing.T) {
	r, store := setupRouter()
	id := createSession(t, r)

	payload := []byte(`{"generationKey":"k1","speechKey":"k2"}`)
	req := httptest.NewRequest(http.MethodPost, "/session/"+id+"/credentials", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	sess, _ := store.Get(id)
	creds := sess.Credentials()
	if creds.GenerationKey != "k1" || creds.SpeechKey != "k2" {
		t.Fatalf("credentials not stored: %+v", creds)
	}
}

func TestSubmitCredentialsMissingKey(t *testing.T) {
	r, _ := setupRouter()
	id := createSession(t, r)

	payload := []byte(`{"generationKey":"k1"}`)
	req := httptest.NewRequest(http.MethodPost, "/session/"+id+"/credentials", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestSubmitCredentialsUnknownSession(t *testing.T) {
	r, _ := setupRouter()

	payload := []byte(`{"generationKey":"k1","speechKey":"k2"}`)
	req := httptest.NewRequest(http.MethodPost, "/session/missing/credentials", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestLogout(t *testing.T) {
	r, store := setupRouter()
	id := createSession(t, r)

	req := httptest.NewRequest(http.MethodPost, "/session/"+id+"/logout", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if _, err := store.Get(id); err == nil {
		t.Fatal("session should be destroyed on logout")
	}
}
