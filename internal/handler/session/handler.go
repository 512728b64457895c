package session

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/luvv-ai/backend/internal/model/persona"
	sessionservice "github.com/luvv-ai/backend/internal/service/session"
	"github.com/luvv-ai/backend/pkg/utils"
)

// DefaultPersonaID is used when a session is created without an explicit
// persona.
const DefaultPersonaID = "love"

// Handler owns the session lifecycle endpoints.
type Handler struct {
	sessions *sessionservice.Store
	personas persona.Store
}

// New creates the session handler.
func New(sessions *sessionservice.Store, personas persona.Store) *Handler {
	return &Handler{sessions: sessions, personas: personas}
}

// RegisterRoutes mounts the session routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/session", h.handleCreateSession)
	r.Post("/session/{sessionID}/credentials", h.handleSubmitCredentials)
	r.Post("/session/{sessionID}/logout", h.handleLogout)
}

func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		PersonaID string `json:"personaId"`
	}
	// An empty body is fine: the default persona is assumed.
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil && !errors.Is(err, io.EOF) {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	personaID := payload.PersonaID
	if personaID == "" {
		personaID = DefaultPersonaID
	}

	if _, ok := h.personas.FindByID(personaID); !ok {
		utils.RespondError(w, http.StatusBadRequest, "persona not found")
		return
	}

	sess, err := h.sessions.Create(personaID)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusCreated, map[string]any{
		"id":        sess.ID,
		"personaId": sess.PersonaID,
		"createdAt": sess.CreatedAt,
	})
}

func (h *Handler) handleSubmitCredentials(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var payload struct {
		GenerationKey string `json:"generationKey"`
		SpeechKey     string `json:"speechKey"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if payload.GenerationKey == "" || payload.SpeechKey == "" {
		utils.RespondError(w, http.StatusBadRequest, "generationKey and speechKey are required")
		return
	}

	err := h.sessions.SubmitCredentials(sessionID, sessionservice.Credentials{
		GenerationKey: payload.GenerationKey,
		SpeechKey:     payload.SpeechKey,
	})
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "credentials stored"})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	if err := h.sessions.Logout(sessionID); err != nil {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}
